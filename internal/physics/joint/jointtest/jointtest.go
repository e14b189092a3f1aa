// Package jointtest provides a recording solver for joint tests. Every
// native call is appended to a log and counted by name.
package jointtest

import (
	"errors"

	"github.com/Faultbox/jointrig/internal/physics/joint"
	"github.com/Faultbox/jointrig/pkg/math"
)

// ErrRefused is returned by a Solver with Refuse set.
var ErrRefused = errors.New("jointtest: solver refused joint")

var (
	_ joint.Solver           = (*Solver)(nil)
	_ joint.NativeD6Joint    = (*D6Joint)(nil)
	_ joint.NativeHingeJoint = (*HingeJoint)(nil)
)

// Solver records every joint it creates.
type Solver struct {
	D6     []*D6Joint
	Hinges []*HingeJoint
	Refuse bool
}

// NewD6Joint implements joint.Solver.
func (s *Solver) NewD6Joint(data joint.JointData) (joint.NativeD6Joint, error) {
	if s.Refuse {
		return nil, ErrRefused
	}
	n := &D6Joint{Native: newNative(data), DriveTarget: math.TransformIdentity()}
	s.D6 = append(s.D6, n)
	return n, nil
}

// NewHingeJoint implements joint.Solver.
func (s *Solver) NewHingeJoint(data joint.JointData) (joint.NativeHingeJoint, error) {
	if s.Refuse {
		return nil, ErrRefused
	}
	n := &HingeJoint{Native: newNative(data)}
	s.Hinges = append(s.Hinges, n)
	return n, nil
}

// Body is a body at a fixed pose.
type Body struct {
	Pose math.Transform
}

func (b *Body) Transform() math.Transform { return b.Pose }

// Native holds the state shared by both recorded joint kinds.
type Native struct {
	Data        joint.JointData
	BreakForce  float32
	BreakTorque float32
	Collision   bool
	Poses       [2]math.Transform
	IsBroken    bool
	Released    bool

	Calls  []string
	counts map[string]int
}

func newNative(data joint.JointData) Native {
	return Native{
		Data:   data,
		Poses:  [2]math.Transform{data.Pose0, data.Pose1},
		counts: make(map[string]int),
	}
}

func (n *Native) record(name string) {
	n.Calls = append(n.Calls, name)
	n.counts[name]++
}

// Count returns how many times the named method was called.
func (n *Native) Count(name string) int {
	return n.counts[name]
}

// Reset clears the call log.
func (n *Native) Reset() {
	n.Calls = nil
	n.counts = make(map[string]int)
}

func (n *Native) SetBreakForce(force, torque float32) {
	n.record("SetBreakForce")
	n.BreakForce = force
	n.BreakTorque = torque
}

func (n *Native) SetCollisionEnabled(enabled bool) {
	n.record("SetCollisionEnabled")
	n.Collision = enabled
}

func (n *Native) SetLocalPose(index int, pose math.Transform) {
	n.record("SetLocalPose")
	n.Poses[index] = pose
}

func (n *Native) Broken() bool { return n.IsBroken }

func (n *Native) Release() {
	n.record("Release")
	n.Released = true
}

// D6Joint is a recorded joint.NativeD6Joint.
type D6Joint struct {
	Native

	Motions [joint.D6AxisCount]joint.D6Motion
	Drives  [joint.D6DriveCount]joint.NativeDrive
	Linear  joint.NativeLinearLimit
	Twist   joint.NativeAngularLimit
	Swing   joint.NativeConeLimit

	DriveTarget     math.Transform
	LinearVelocity  math.Vec3
	AngularVelocity math.Vec3

	TwistValue  float32
	SwingYValue float32
	SwingZValue float32
}

func (n *D6Joint) SetMotion(axis joint.D6Axis, motion joint.D6Motion) {
	n.record("SetMotion")
	n.Motions[axis] = motion
}

func (n *D6Joint) SetDrive(drive joint.D6DriveType, params joint.NativeDrive) {
	n.record("SetDrive")
	n.Drives[drive] = params
}

func (n *D6Joint) SetLinearLimit(limit joint.NativeLinearLimit) {
	n.record("SetLinearLimit")
	n.Linear = limit
}

func (n *D6Joint) SetTwistLimit(limit joint.NativeAngularLimit) {
	n.record("SetTwistLimit")
	n.Twist = limit
}

func (n *D6Joint) SetSwingLimit(limit joint.NativeConeLimit) {
	n.record("SetSwingLimit")
	n.Swing = limit
}

func (n *D6Joint) DrivePosition() math.Transform { return n.DriveTarget }

func (n *D6Joint) SetDrivePosition(pose math.Transform) {
	n.record("SetDrivePosition")
	n.DriveTarget = pose
}

func (n *D6Joint) DriveVelocity() (math.Vec3, math.Vec3) {
	return n.LinearVelocity, n.AngularVelocity
}

func (n *D6Joint) SetDriveVelocity(linear, angular math.Vec3) {
	n.record("SetDriveVelocity")
	n.LinearVelocity = linear
	n.AngularVelocity = angular
}

func (n *D6Joint) TwistAngle() float32  { return n.TwistValue }
func (n *D6Joint) SwingYAngle() float32 { return n.SwingYValue }
func (n *D6Joint) SwingZAngle() float32 { return n.SwingZValue }

// HingeJoint is a recorded joint.NativeHingeJoint.
type HingeJoint struct {
	Native

	Flags           joint.RevoluteFlags
	DriveVelocity   float32
	DriveForceLimit float32
	DriveGearRatio  float32
	Limit           joint.NativeAngularLimit

	AngleValue    float32
	VelocityValue float32
}

func (n *HingeJoint) SetFlags(flags joint.RevoluteFlags) {
	n.record("SetFlags")
	n.Flags = flags
}

func (n *HingeJoint) SetFlag(flag joint.RevoluteFlags, enabled bool) {
	n.record("SetFlag")
	if enabled {
		n.Flags |= flag
	} else {
		n.Flags &^= flag
	}
}

func (n *HingeJoint) SetDriveVelocity(velocity float32) {
	n.record("SetDriveVelocity")
	n.DriveVelocity = velocity
}

func (n *HingeJoint) SetDriveForceLimit(limit float32) {
	n.record("SetDriveForceLimit")
	n.DriveForceLimit = limit
}

func (n *HingeJoint) SetDriveGearRatio(ratio float32) {
	n.record("SetDriveGearRatio")
	n.DriveGearRatio = ratio
}

func (n *HingeJoint) SetLimit(limit joint.NativeAngularLimit) {
	n.record("SetLimit")
	n.Limit = limit
}

func (n *HingeJoint) Angle() float32 { return n.AngleValue }

func (n *HingeJoint) Velocity() float32 { return n.VelocityValue }
