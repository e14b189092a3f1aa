package joint

import "github.com/Faultbox/jointrig/pkg/math"

// D6Joint is a generic joint with six degrees of freedom. Each axis is
// locked, limited or free, and each drive channel can pull the joint towards
// a target pose or velocity.
type D6Joint struct {
	Joint

	motion      [D6AxisCount]D6Motion
	drive       [D6DriveCount]D6Drive
	limitLinear LimitLinear
	limitTwist  LimitAngularRange
	limitSwing  LimitConeRange
}

// NewD6Joint returns a joint with every axis free and every drive idle.
func NewD6Joint() *D6Joint {
	j := &D6Joint{
		Joint:       newJoint(),
		limitLinear: DefaultLimitLinear(),
		limitTwist:  DefaultLimitAngularRange(),
		limitSwing:  DefaultLimitConeRange(),
	}
	for i := range j.motion {
		j.motion[i] = D6MotionFree
	}
	for i := range j.drive {
		j.drive[i] = DefaultD6Drive()
	}
	return j
}

func (j *D6Joint) liveD6(fn func(NativeD6Joint)) {
	j.live(func(n NativeJoint) {
		if d6, ok := n.(NativeD6Joint); ok {
			fn(d6)
		}
	})
}

// Motion returns the motion of an axis.
func (j *D6Joint) Motion(axis D6Axis) D6Motion {
	return j.motion[axis]
}

// SetMotion sets the motion of an axis.
func (j *D6Joint) SetMotion(axis D6Axis, motion D6Motion) {
	if j.motion[axis] == motion {
		return
	}
	j.motion[axis] = motion
	j.liveD6(func(n NativeD6Joint) { n.SetMotion(axis, motion) })
}

// Drive returns the parameters of a drive channel.
func (j *D6Joint) Drive(index D6DriveType) D6Drive {
	return j.drive[index]
}

// SetDrive sets the parameters of a drive channel.
func (j *D6Joint) SetDrive(index D6DriveType, drive D6Drive) {
	if j.drive[index] == drive {
		return
	}
	j.drive[index] = drive
	j.liveD6(func(n NativeD6Joint) { n.SetDrive(index, drive.native()) })
}

func (j *D6Joint) LimitLinear() LimitLinear { return j.limitLinear }

// SetLimitLinear sets the limit used by limited linear axes.
func (j *D6Joint) SetLimitLinear(limit LimitLinear) {
	if j.limitLinear == limit {
		return
	}
	j.limitLinear = limit
	j.liveD6(func(n NativeD6Joint) { n.SetLinearLimit(limit.native()) })
}

func (j *D6Joint) LimitTwist() LimitAngularRange { return j.limitTwist }

// SetLimitTwist sets the twist range in degrees.
func (j *D6Joint) SetLimitTwist(limit LimitAngularRange) {
	if j.limitTwist == limit {
		return
	}
	j.limitTwist = limit
	j.liveD6(func(n NativeD6Joint) { n.SetTwistLimit(limit.native()) })
}

func (j *D6Joint) LimitSwing() LimitConeRange { return j.limitSwing }

// SetLimitSwing sets the swing cone in degrees.
func (j *D6Joint) SetLimitSwing(limit LimitConeRange) {
	if j.limitSwing == limit {
		return
	}
	j.limitSwing = limit
	j.liveD6(func(n NativeD6Joint) { n.SetSwingLimit(limit.native()) })
}

// DrivePosition returns the drive target position, or zero when the joint
// is not attached.
func (j *D6Joint) DrivePosition() math.Vec3 {
	var v math.Vec3
	j.liveD6(func(n NativeD6Joint) { v = n.DrivePosition().Position })
	return v
}

// SetDrivePosition moves the drive target and keeps its rotation.
func (j *D6Joint) SetDrivePosition(position math.Vec3) {
	j.liveD6(func(n NativeD6Joint) {
		pose := n.DrivePosition()
		pose.Position = position
		n.SetDrivePosition(pose)
	})
}

// DriveRotation returns the drive target rotation, or identity when the
// joint is not attached.
func (j *D6Joint) DriveRotation() math.Quat {
	q := math.QuatIdentity()
	j.liveD6(func(n NativeD6Joint) { q = n.DrivePosition().Orientation })
	return q
}

// SetDriveRotation turns the drive target and keeps its position.
func (j *D6Joint) SetDriveRotation(rotation math.Quat) {
	j.liveD6(func(n NativeD6Joint) {
		pose := n.DrivePosition()
		pose.Orientation = rotation
		n.SetDrivePosition(pose)
	})
}

func (j *D6Joint) DriveLinearVelocity() math.Vec3 {
	var v math.Vec3
	j.liveD6(func(n NativeD6Joint) { v, _ = n.DriveVelocity() })
	return v
}

func (j *D6Joint) SetDriveLinearVelocity(velocity math.Vec3) {
	j.liveD6(func(n NativeD6Joint) {
		_, angular := n.DriveVelocity()
		n.SetDriveVelocity(velocity, angular)
	})
}

func (j *D6Joint) DriveAngularVelocity() math.Vec3 {
	var v math.Vec3
	j.liveD6(func(n NativeD6Joint) { _, v = n.DriveVelocity() })
	return v
}

func (j *D6Joint) SetDriveAngularVelocity(velocity math.Vec3) {
	j.liveD6(func(n NativeD6Joint) {
		linear, _ := n.DriveVelocity()
		n.SetDriveVelocity(linear, velocity)
	})
}

// CurrentTwist returns the twist angle in radians.
func (j *D6Joint) CurrentTwist() float32 {
	var a float32
	j.liveD6(func(n NativeD6Joint) { a = n.TwistAngle() })
	return a
}

// CurrentSwingYAngle returns the swing angle about Y in radians.
func (j *D6Joint) CurrentSwingYAngle() float32 {
	var a float32
	j.liveD6(func(n NativeD6Joint) { a = n.SwingYAngle() })
	return a
}

// CurrentSwingZAngle returns the swing angle about Z in radians.
func (j *D6Joint) CurrentSwingZAngle() float32 {
	var a float32
	j.liveD6(func(n NativeD6Joint) { a = n.SwingZAngle() })
	return a
}

// CreateJoint builds a native joint from data and applies the whole
// configuration: motions, then drives, then the linear, twist and swing
// limits.
func (j *D6Joint) CreateJoint(s Solver, data JointData) (NativeD6Joint, error) {
	n, err := s.NewD6Joint(data)
	if err != nil {
		return nil, err
	}
	for i, m := range j.motion {
		n.SetMotion(D6Axis(i), m)
	}
	for i, d := range j.drive {
		n.SetDrive(D6DriveType(i), d.native())
	}
	n.SetLinearLimit(j.limitLinear.native())
	n.SetTwistLimit(j.limitTwist.native())
	n.SetSwingLimit(j.limitSwing.native())
	return n, nil
}

// Attach creates the native joint in s.
func (j *D6Joint) Attach(s Solver) error {
	return j.attach(s, func(s Solver, data JointData) (NativeJoint, error) {
		n, err := j.CreateJoint(s, data)
		if err != nil {
			return nil, err
		}
		return n, nil
	})
}

// CopyFrom applies the configuration of other through the setters, so a
// live joint only receives what changed.
func (j *D6Joint) CopyFrom(other *D6Joint) {
	j.copyFrom(&other.Joint)
	for i, m := range other.motion {
		j.SetMotion(D6Axis(i), m)
	}
	for i, d := range other.drive {
		j.SetDrive(D6DriveType(i), d)
	}
	j.SetLimitLinear(other.limitLinear)
	j.SetLimitTwist(other.limitTwist)
	j.SetLimitSwing(other.limitSwing)
}
