package joint

import "github.com/Faultbox/jointrig/pkg/math"

// HingeJoint allows rotation about a single axis, optionally within an
// angular limit and driven at a target velocity.
type HingeJoint struct {
	Joint

	flags HingeJointFlag
	limit LimitAngularRange
	drive HingeJointDrive
}

// NewHingeJoint returns a hinge with the limit and the drive enabled.
func NewHingeJoint() *HingeJoint {
	return &HingeJoint{
		Joint: newJoint(),
		flags: HingeFlagLimit | HingeFlagDrive,
		limit: DefaultLimitAngularRange(),
		drive: DefaultHingeJointDrive(),
	}
}

func (j *HingeJoint) liveHinge(fn func(NativeHingeJoint)) {
	j.live(func(n NativeJoint) {
		if h, ok := n.(NativeHingeJoint); ok {
			fn(h)
		}
	})
}

func (j *HingeJoint) Flags() HingeJointFlag { return j.flags }

// SetFlags sets which hinge features are enabled.
func (j *HingeJoint) SetFlags(flags HingeJointFlag) {
	if j.flags == flags {
		return
	}
	j.flags = flags
	j.liveHinge(func(n NativeHingeJoint) {
		n.SetFlag(RevoluteLimitEnabled, flags.Has(HingeFlagLimit))
		n.SetFlag(RevoluteDriveEnabled, flags.Has(HingeFlagDrive))
	})
}

func (j *HingeJoint) Limit() LimitAngularRange { return j.limit }

// SetLimit sets the angular range in degrees.
func (j *HingeJoint) SetLimit(limit LimitAngularRange) {
	if j.limit == limit {
		return
	}
	j.limit = limit
	j.liveHinge(func(n NativeHingeJoint) { n.SetLimit(limit.native()) })
}

func (j *HingeJoint) Drive() HingeJointDrive { return j.drive }

// SetDrive sets the drive. Negative numbers are passed to the solver as 0.
func (j *HingeJoint) SetDrive(drive HingeJointDrive) {
	if j.drive == drive {
		return
	}
	j.drive = drive
	j.liveHinge(func(n NativeHingeJoint) {
		n.SetDriveVelocity(math.AtLeast(drive.Velocity, 0))
		n.SetDriveForceLimit(math.AtLeast(drive.ForceLimit, 0))
		n.SetDriveGearRatio(math.AtLeast(drive.GearRatio, 0))
		n.SetFlag(RevoluteDriveFreeSpin, drive.FreeSpin)
	})
}

// CurrentAngle returns the hinge angle in radians.
func (j *HingeJoint) CurrentAngle() float32 {
	var a float32
	j.liveHinge(func(n NativeHingeJoint) { a = n.Angle() })
	return a
}

// CurrentVelocity returns the hinge angular velocity in radians per second.
func (j *HingeJoint) CurrentVelocity() float32 {
	var v float32
	j.liveHinge(func(n NativeHingeJoint) { v = n.Velocity() })
	return v
}

func (j *HingeJoint) revoluteFlags() RevoluteFlags {
	var flags RevoluteFlags
	if j.flags.Has(HingeFlagLimit) {
		flags |= RevoluteLimitEnabled
	}
	if j.flags.Has(HingeFlagDrive) {
		flags |= RevoluteDriveEnabled
	}
	if j.drive.FreeSpin {
		flags |= RevoluteDriveFreeSpin
	}
	return flags
}

// CreateJoint builds a native hinge from data. Flags are applied in one
// call, then the drive values, then the limit.
func (j *HingeJoint) CreateJoint(s Solver, data JointData) (NativeHingeJoint, error) {
	n, err := s.NewHingeJoint(data)
	if err != nil {
		return nil, err
	}
	n.SetFlags(j.revoluteFlags())
	n.SetDriveVelocity(math.AtLeast(j.drive.Velocity, 0))
	n.SetDriveForceLimit(math.AtLeast(j.drive.ForceLimit, 0))
	n.SetDriveGearRatio(math.AtLeast(j.drive.GearRatio, 0))
	n.SetLimit(j.limit.native())
	return n, nil
}

// Attach creates the native joint in s.
func (j *HingeJoint) Attach(s Solver) error {
	return j.attach(s, func(s Solver, data JointData) (NativeJoint, error) {
		n, err := j.CreateJoint(s, data)
		if err != nil {
			return nil, err
		}
		return n, nil
	})
}

// CopyFrom applies the configuration of other through the setters.
func (j *HingeJoint) CopyFrom(other *HingeJoint) {
	j.copyFrom(&other.Joint)
	j.SetFlags(other.flags)
	j.SetLimit(other.limit)
	j.SetDrive(other.drive)
}
