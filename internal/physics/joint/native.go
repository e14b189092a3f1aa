package joint

import "github.com/Faultbox/jointrig/pkg/math"

// Body is a rigid body a joint can connect. Solver backends hand out their
// own implementations and recognise them again in JointData.
type Body interface {
	Transform() math.Transform
}

// JointData is everything a solver needs to build a native joint: the two
// bodies and the joint frame expressed in each body's local space.
type JointData struct {
	Body0 Body
	Body1 Body // nil attaches to the world
	Pose0 math.Transform
	Pose1 math.Transform
}

// Solver creates native joints. It is implemented by physics backends.
type Solver interface {
	NewD6Joint(data JointData) (NativeD6Joint, error)
	NewHingeJoint(data JointData) (NativeHingeJoint, error)
}

// NativeJoint is the part of a live solver joint shared by all kinds.
type NativeJoint interface {
	SetBreakForce(force, torque float32)
	SetCollisionEnabled(enabled bool)
	// SetLocalPose sets the joint frame relative to body 0 or body 1.
	SetLocalPose(index int, pose math.Transform)
	Broken() bool
	Release()
}

// NativeD6Joint is a live six degree of freedom joint.
type NativeD6Joint interface {
	NativeJoint

	SetMotion(axis D6Axis, motion D6Motion)
	SetDrive(drive D6DriveType, params NativeDrive)
	SetLinearLimit(limit NativeLinearLimit)
	SetTwistLimit(limit NativeAngularLimit)
	SetSwingLimit(limit NativeConeLimit)

	DrivePosition() math.Transform
	SetDrivePosition(pose math.Transform)
	DriveVelocity() (linear, angular math.Vec3)
	SetDriveVelocity(linear, angular math.Vec3)

	TwistAngle() float32
	SwingYAngle() float32
	SwingZAngle() float32
}

// RevoluteFlags are the solver-side hinge switches.
type RevoluteFlags int

const (
	RevoluteLimitEnabled  RevoluteFlags = 1 << 0
	RevoluteDriveEnabled  RevoluteFlags = 1 << 1
	RevoluteDriveFreeSpin RevoluteFlags = 1 << 2
)

// NativeHingeJoint is a live revolute joint.
type NativeHingeJoint interface {
	NativeJoint

	SetFlags(flags RevoluteFlags)
	SetFlag(flag RevoluteFlags, enabled bool)
	SetDriveVelocity(velocity float32)
	SetDriveForceLimit(limit float32)
	SetDriveGearRatio(ratio float32)
	SetLimit(limit NativeAngularLimit)

	Angle() float32
	Velocity() float32
}

// NativeDrive is a drive descriptor as the solver consumes it.
type NativeDrive struct {
	Stiffness    float32
	Damping      float32
	ForceLimit   float32
	Acceleration bool
}

// NativeLinearLimit is a linear limit as the solver consumes it.
// A negative ContactDistance selects the solver default.
type NativeLinearLimit struct {
	Extent          float32
	ContactDistance float32
	Restitution     float32
	Stiffness       float32
	Damping         float32
}

// NativeAngularLimit is an angular range in radians. ContactDistance is
// passed through unconverted.
type NativeAngularLimit struct {
	Lower           float32
	Upper           float32
	ContactDistance float32
	Restitution     float32
	Stiffness       float32
	Damping         float32
}

// NativeConeLimit is a swing cone with half-angles in radians.
type NativeConeLimit struct {
	YAngle          float32
	ZAngle          float32
	ContactDistance float32
	Restitution     float32
	Stiffness       float32
	Damping         float32
}

// minLinearExtent keeps the solver away from a degenerate zero-size limit.
const minLinearExtent = 0.01

func (d D6Drive) native() NativeDrive {
	return NativeDrive{
		Stiffness:    math.AtLeast(d.Stiffness, 0),
		Damping:      math.AtLeast(d.Damping, 0),
		ForceLimit:   math.AtLeast(d.ForceLimit, 0),
		Acceleration: d.Acceleration,
	}
}

func (l LimitLinear) native() NativeLinearLimit {
	return NativeLinearLimit{
		Extent:          math.AtLeast(l.Extent, minLinearExtent),
		ContactDistance: l.ContactDist,
		Restitution:     l.Restitution,
		Stiffness:       l.Spring.Stiffness,
		Damping:         l.Spring.Damping,
	}
}

func (l LimitAngularRange) native() NativeAngularLimit {
	return NativeAngularLimit{
		Lower:           math.Deg2Rad(l.Lower),
		Upper:           math.Deg2Rad(l.Upper),
		ContactDistance: l.ContactDist,
		Restitution:     l.Restitution,
		Stiffness:       l.Spring.Stiffness,
		Damping:         l.Spring.Damping,
	}
}

func (l LimitConeRange) native() NativeConeLimit {
	return NativeConeLimit{
		YAngle:          math.Deg2Rad(l.YLimitAngle),
		ZAngle:          math.Deg2Rad(l.ZLimitAngle),
		ContactDistance: l.ContactDist,
		Restitution:     l.Restitution,
		Stiffness:       l.Spring.Stiffness,
		Damping:         l.Spring.Damping,
	}
}
