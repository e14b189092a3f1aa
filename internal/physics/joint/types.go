package joint

import (
	"fmt"

	"github.com/Faultbox/jointrig/pkg/math"
)

// D6Axis is one degree of freedom of a D6 joint. The order is fixed: it
// indexes the motion array and names the persisted MotionN keys.
type D6Axis int

const (
	D6AxisX D6Axis = iota
	D6AxisY
	D6AxisZ
	D6AxisTwist
	D6AxisSwing1
	D6AxisSwing2

	D6AxisCount = 6
)

var axisNames = [D6AxisCount]string{"X", "Y", "Z", "Twist", "Swing1", "Swing2"}

func (a D6Axis) String() string {
	if a < 0 || a >= D6AxisCount {
		return fmt.Sprintf("D6Axis(%d)", int(a))
	}
	return axisNames[a]
}

// D6Motion is the constraint mode of one axis.
type D6Motion int

const (
	// D6MotionLocked removes the degree of freedom.
	D6MotionLocked D6Motion = iota
	// D6MotionLimited allows motion within the axis limit.
	D6MotionLimited
	// D6MotionFree leaves the axis unconstrained.
	D6MotionFree
)

var motionNames = [...]string{"Locked", "Limited", "Free"}

func (m D6Motion) String() string {
	if m < 0 || int(m) >= len(motionNames) {
		return fmt.Sprintf("D6Motion(%d)", int(m))
	}
	return motionNames[m]
}

// MarshalText implements encoding.TextMarshaler.
func (m D6Motion) MarshalText() ([]byte, error) {
	if m < 0 || int(m) >= len(motionNames) {
		return nil, fmt.Errorf("invalid motion %d", int(m))
	}
	return []byte(motionNames[m]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *D6Motion) UnmarshalText(text []byte) error {
	for i, name := range motionNames {
		if name == string(text) {
			*m = D6Motion(i)
			return nil
		}
	}
	return fmt.Errorf("unknown motion %q", text)
}

// D6DriveType is one drive channel of a D6 joint. The order is fixed and
// names the persisted DriveN keys.
type D6DriveType int

const (
	D6DriveX D6DriveType = iota
	D6DriveY
	D6DriveZ
	D6DriveSwing
	D6DriveTwist
	D6DriveSlerp

	D6DriveCount = 6
)

var driveNames = [D6DriveCount]string{"X", "Y", "Z", "Swing", "Twist", "Slerp"}

func (d D6DriveType) String() string {
	if d < 0 || d >= D6DriveCount {
		return fmt.Sprintf("D6DriveType(%d)", int(d))
	}
	return driveNames[d]
}

// SpringParameters soften a limit. Zero stiffness means a hard limit.
type SpringParameters struct {
	Stiffness float32
	Damping   float32
}

// D6Drive pulls one channel towards its drive target.
type D6Drive struct {
	Stiffness  float32
	Damping    float32
	ForceLimit float32
	// Acceleration makes stiffness and damping independent of body mass.
	Acceleration bool
}

// DefaultD6Drive returns an inactive drive with unlimited force.
func DefaultD6Drive() D6Drive {
	return D6Drive{ForceLimit: math.MaxFloat}
}

// LimitLinear bounds translation on limited linear axes.
type LimitLinear struct {
	Extent      float32
	ContactDist float32
	Restitution float32
	Spring      SpringParameters
}

// DefaultLimitLinear returns the linear limit used by new joints.
func DefaultLimitLinear() LimitLinear {
	return LimitLinear{Extent: 100, ContactDist: -1}
}

// LimitAngularRange bounds rotation to [Lower, Upper] degrees.
type LimitAngularRange struct {
	Lower       float32
	Upper       float32
	ContactDist float32
	Restitution float32
	Spring      SpringParameters
}

// DefaultLimitAngularRange returns a -90..90 degree range.
func DefaultLimitAngularRange() LimitAngularRange {
	return LimitAngularRange{Lower: -90, Upper: 90, ContactDist: -1}
}

// LimitConeRange bounds swing to an elliptical cone given by its two
// half-angles in degrees.
type LimitConeRange struct {
	YLimitAngle float32
	ZLimitAngle float32
	ContactDist float32
	Restitution float32
	Spring      SpringParameters
}

// DefaultLimitConeRange returns a 90 degree cone.
func DefaultLimitConeRange() LimitConeRange {
	return LimitConeRange{YLimitAngle: 90, ZLimitAngle: 90, ContactDist: -1}
}

// HingeJointFlag toggles hinge features.
type HingeJointFlag int

const (
	HingeFlagNone  HingeJointFlag = 0
	HingeFlagLimit HingeJointFlag = 1 << 0
	HingeFlagDrive HingeJointFlag = 1 << 1
)

// Has reports whether all bits of f are set.
func (h HingeJointFlag) Has(f HingeJointFlag) bool {
	return h&f == f
}

// HingeJointDrive spins the hinge at a target velocity.
type HingeJointDrive struct {
	Velocity   float32
	ForceLimit float32
	GearRatio  float32
	// FreeSpin lets the joint run faster than Velocity instead of braking.
	FreeSpin bool
}

// DefaultHingeJointDrive returns a stopped drive with unlimited force.
func DefaultHingeJointDrive() HingeJointDrive {
	return HingeJointDrive{ForceLimit: math.MaxFloat, GearRatio: 1}
}
