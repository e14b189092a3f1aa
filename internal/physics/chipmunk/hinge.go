package chipmunk

import (
	"github.com/jakecoffman/cp"

	"github.com/Faultbox/jointrig/internal/physics/joint"
)

// Hinge is a revolute joint: a pivot plus an optional rotary limit and an
// optional motor.
type Hinge struct {
	*constraintSet

	flags      joint.RevoluteFlags
	velocity   float32
	forceLimit float32
	gearRatio  float32
	limit      joint.NativeAngularLimit

	motor *cp.SimpleMotor
}

var _ joint.NativeHingeJoint = (*Hinge)(nil)

func (h *Hinge) rebuildConstraints() {
	h.motor = nil
	h.add(cp.NewPivotJoint2(h.a, h.b, h.anchorA, h.anchorB), &h.breakForce)

	if h.flags&joint.RevoluteLimitEnabled != 0 {
		off := h.offset()
		c := cp.NewRotaryLimitJoint(h.a, h.b, float64(h.limit.Lower)+off, float64(h.limit.Upper)+off)
		soften(c, h.limit.Stiffness)
		h.add(c, &h.breakTorque)
	}

	if h.flags&joint.RevoluteDriveEnabled != 0 {
		c := cp.NewSimpleMotor(h.a, h.b, -h.targetRate())
		c.SetMaxForce(force(h.forceLimit))
		c.PreSolve = h.freeSpin
		h.motor = c.Class.(*cp.SimpleMotor)
		h.add(c, nil)
	}
}

// targetRate is the drive velocity after the gear ratio. A ratio of zero
// or less leaves the velocity as is.
func (h *Hinge) targetRate() float64 {
	rate := float64(h.velocity)
	if h.gearRatio > 0 {
		rate *= float64(h.gearRatio)
	}
	return rate
}

// freeSpin releases the motor while the joint outruns the drive velocity.
func (h *Hinge) freeSpin(c *cp.Constraint, _ *cp.Space) {
	limit := force(h.forceLimit)
	if h.flags&joint.RevoluteDriveFreeSpin != 0 {
		target := h.targetRate()
		current := h.relativeVelocity()
		if (target >= 0 && current > target) || (target < 0 && current < target) {
			limit = 0
		}
	}
	c.SetMaxForce(limit)
}

func (h *Hinge) SetFlags(flags joint.RevoluteFlags) {
	h.flags = flags
	h.build()
}

func (h *Hinge) SetFlag(flag joint.RevoluteFlags, enabled bool) {
	flags := h.flags
	if enabled {
		flags |= flag
	} else {
		flags &^= flag
	}
	if flags == h.flags {
		return
	}
	h.flags = flags
	// free spin is read by the motor every step
	if flag != joint.RevoluteDriveFreeSpin {
		h.build()
	}
}

func (h *Hinge) SetDriveVelocity(velocity float32) {
	h.velocity = velocity
	if h.motor != nil {
		h.motor.Rate = -h.targetRate()
	}
}

func (h *Hinge) SetDriveForceLimit(limit float32) {
	h.forceLimit = limit
	if h.motor != nil {
		h.motor.SetMaxForce(force(limit))
	}
}

func (h *Hinge) SetDriveGearRatio(ratio float32) {
	h.gearRatio = ratio
	if h.motor != nil {
		h.motor.Rate = -h.targetRate()
	}
}

func (h *Hinge) SetLimit(limit joint.NativeAngularLimit) {
	h.limit = limit
	h.build()
}

// Angle returns the joint angle in radians.
func (h *Hinge) Angle() float32 {
	return float32(h.relativeAngle())
}

// Velocity returns the joint angular velocity in radians per second.
func (h *Hinge) Velocity() float32 {
	return float32(h.relativeVelocity())
}
