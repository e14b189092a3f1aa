package chipmunk

import (
	"github.com/jakecoffman/cp"

	"github.com/Faultbox/jointrig/internal/physics/joint"
	"github.com/Faultbox/jointrig/pkg/math"
)

// grooveHalfLength bounds a free axis that shares a groove with a locked one.
const grooveHalfLength = 1e4

// D6 maps the planar part of a six axis joint onto Chipmunk constraints:
// X and Y become a pivot, groove or slide joint, Twist becomes a gear or
// rotary limit. Drives are applied as forces before each step.
type D6 struct {
	*constraintSet

	motion [joint.D6AxisCount]joint.D6Motion
	drive  [joint.D6DriveCount]joint.NativeDrive
	linear joint.NativeLinearLimit
	twist  joint.NativeAngularLimit
	swing  joint.NativeConeLimit

	target          math.Transform
	linearVelocity  math.Vec3
	angularVelocity math.Vec3
}

var _ joint.NativeD6Joint = (*D6)(nil)

func newD6(s *constraintSet) *D6 {
	d := &D6{constraintSet: s, target: math.TransformIdentity()}
	for i := range d.drive {
		d.drive[i].ForceLimit = unlimited
	}
	d.linear.Extent = 100
	return d
}

func (d *D6) rebuildConstraints() {
	d.buildLinear()
	d.buildTwist()
}

func (d *D6) buildLinear() {
	x, y := d.motion[joint.D6AxisX], d.motion[joint.D6AxisY]
	extent := float64(d.linear.Extent)

	var c *cp.Constraint
	switch {
	case x == joint.D6MotionFree && y == joint.D6MotionFree:
		return
	case x == joint.D6MotionLocked && y == joint.D6MotionLocked:
		c = cp.NewPivotJoint2(d.a, d.b, d.anchorA, d.anchorB)
	case x == joint.D6MotionLocked || y == joint.D6MotionLocked:
		// slide along the axis that is not locked
		dir := cp.ForAngle(d.frameA)
		moving := x
		if x == joint.D6MotionLocked {
			dir = dir.Perp()
			moving = y
		}
		half := float64(grooveHalfLength)
		if moving == joint.D6MotionLimited {
			half = extent
		}
		c = cp.NewGrooveJoint(d.a, d.b, d.anchorA.Sub(dir.Mult(half)), d.anchorA.Add(dir.Mult(half)), d.anchorB)
	default:
		// limited with limited or free: a Free axis paired with a Limited
		// one is bounded by the same radius
		c = cp.NewSlideJoint(d.a, d.b, d.anchorA, d.anchorB, 0, extent)
	}
	if x == joint.D6MotionLimited || y == joint.D6MotionLimited {
		soften(c, d.linear.Stiffness)
	}
	d.add(c, &d.breakForce)
}

func (d *D6) buildTwist() {
	off := d.offset()

	var c *cp.Constraint
	switch d.motion[joint.D6AxisTwist] {
	case joint.D6MotionLocked:
		c = cp.NewGearJoint(d.a, d.b, off, 1)
	case joint.D6MotionLimited:
		c = cp.NewRotaryLimitJoint(d.a, d.b, float64(d.twist.Lower)+off, float64(d.twist.Upper)+off)
		soften(c, d.twist.Stiffness)
	default:
		return
	}
	d.add(c, &d.breakTorque)
}

// angularDrive is the twist drive, or the slerp drive when twist is idle.
func (d *D6) angularDrive() joint.NativeDrive {
	twist := d.drive[joint.D6DriveTwist]
	if twist.Stiffness == 0 && twist.Damping == 0 {
		return d.drive[joint.D6DriveSlerp]
	}
	return twist
}

// driven returns the mass and moment of the body the drive pushes.
func (d *D6) driven() (mass, moment float64) {
	body := d.b
	if !isDynamic(body) {
		body = d.a
	}
	if b, ok := body.UserData.(*Body); ok {
		moment = b.moment
	}
	return body.Mass(), moment
}

// applyDrives pushes the bodies towards the drive target with a spring
// force k*(target-current) + c*(targetVelocity-velocity) per channel.
func (d *D6) applyDrives(float64) {
	mass, moment := d.driven()

	angleA := d.a.Angle() + d.frameA
	ex := cp.ForAngle(angleA)
	ey := ex.Perp()
	origin := d.a.LocalToWorld(d.anchorA)
	goal := origin.Add(vec(d.target.Position).Rotate(ex))
	point := d.b.LocalToWorld(d.anchorB)
	relVel := d.b.VelocityAtWorldPoint(point).Sub(d.a.VelocityAtWorldPoint(point))
	targetVel := vec(d.linearVelocity).Rotate(ex)

	var f cp.Vector
	channels := []struct {
		axis  joint.D6Axis
		drive joint.D6DriveType
		dir   cp.Vector
	}{
		{joint.D6AxisX, joint.D6DriveX, ex},
		{joint.D6AxisY, joint.D6DriveY, ey},
	}
	for _, ch := range channels {
		p := d.drive[ch.drive]
		if d.motion[ch.axis] == joint.D6MotionLocked || (p.Stiffness == 0 && p.Damping == 0) {
			continue
		}
		posErr := goal.Sub(point).Dot(ch.dir)
		velErr := targetVel.Sub(relVel).Dot(ch.dir)
		mag := float64(p.Stiffness)*posErr + float64(p.Damping)*velErr
		if p.Acceleration {
			mag *= mass
		}
		f = f.Add(ch.dir.Mult(clampForce(mag, force(p.ForceLimit))))
	}
	if f.X != 0 || f.Y != 0 {
		if isDynamic(d.b) {
			d.b.ApplyForceAtWorldPoint(f, point)
		}
		if isDynamic(d.a) {
			d.a.ApplyForceAtWorldPoint(f.Neg(), point)
		}
	}

	p := d.angularDrive()
	if d.motion[joint.D6AxisTwist] == joint.D6MotionLocked || (p.Stiffness == 0 && p.Damping == 0) {
		return
	}
	angErr := float64(math.WrapAngle(float32(planarAngle(d.target.Orientation) - d.relativeAngle())))
	velErr := float64(d.angularVelocity.Z) - d.relativeVelocity()
	torque := float64(p.Stiffness)*angErr + float64(p.Damping)*velErr
	if p.Acceleration {
		torque *= moment
	}
	torque = clampForce(torque, force(p.ForceLimit))
	if isDynamic(d.b) {
		d.b.SetTorque(d.b.Torque() + torque)
	}
	if isDynamic(d.a) {
		d.a.SetTorque(d.a.Torque() - torque)
	}
}

func (d *D6) SetMotion(axis joint.D6Axis, motion joint.D6Motion) {
	d.motion[axis] = motion
	switch axis {
	case joint.D6AxisX, joint.D6AxisY, joint.D6AxisTwist:
		d.build()
	}
}

func (d *D6) SetDrive(drive joint.D6DriveType, params joint.NativeDrive) {
	d.drive[drive] = params
}

func (d *D6) SetLinearLimit(limit joint.NativeLinearLimit) {
	d.linear = limit
	d.build()
}

func (d *D6) SetTwistLimit(limit joint.NativeAngularLimit) {
	d.twist = limit
	d.build()
}

// SetSwingLimit stores the cone. Swing is out of plane.
func (d *D6) SetSwingLimit(limit joint.NativeConeLimit) {
	d.swing = limit
}

func (d *D6) DrivePosition() math.Transform {
	return d.target
}

func (d *D6) SetDrivePosition(pose math.Transform) {
	d.target = pose
}

func (d *D6) DriveVelocity() (math.Vec3, math.Vec3) {
	return d.linearVelocity, d.angularVelocity
}

func (d *D6) SetDriveVelocity(linear, angular math.Vec3) {
	d.linearVelocity = linear
	d.angularVelocity = angular
}

// TwistAngle returns the rotation about Z in radians.
func (d *D6) TwistAngle() float32 {
	return float32(d.relativeAngle())
}

func (d *D6) SwingYAngle() float32 { return 0 }
func (d *D6) SwingZAngle() float32 { return 0 }
