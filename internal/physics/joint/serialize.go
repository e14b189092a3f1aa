package joint

import (
	"fmt"

	"github.com/Faultbox/jointrig/internal/serialization"
)

// Serialize and Deserialize work on stored state only. Deserializing into an
// attached joint does not reach the solver; use CopyFrom for that.
//
// When other is nil every field is written. Otherwise only the fields that
// differ from other are, which is how prefab overrides are saved.

// Serialize writes the shared joint settings.
func (j *Joint) Serialize(w *serialization.Writer, other *Joint) {
	if other == nil || j.breakForce != other.breakForce {
		w.Float("BreakForce", j.breakForce)
	}
	if other == nil || j.breakTorque != other.breakTorque {
		w.Float("BreakTorque", j.breakTorque)
	}
	if other == nil || j.enableCollision != other.enableCollision {
		w.Bool("EnableCollision", j.enableCollision)
	}
	if other == nil || j.enableAutoAnchor != other.enableAutoAnchor {
		w.Bool("EnableAutoAnchor", j.enableAutoAnchor)
	}
	if other == nil || j.targetAnchor != other.targetAnchor {
		w.Vec3("TargetAnchor", j.targetAnchor)
	}
	if other == nil || j.targetAnchorRotation != other.targetAnchorRotation {
		w.Quat("TargetAnchorRotation", j.targetAnchorRotation)
	}
}

// Deserialize reads the shared joint settings.
func (j *Joint) Deserialize(r *serialization.Reader) {
	r.Float("BreakForce", &j.breakForce)
	r.Float("BreakTorque", &j.breakTorque)
	r.Bool("EnableCollision", &j.enableCollision)
	r.Bool("EnableAutoAnchor", &j.enableAutoAnchor)
	r.Vec3("TargetAnchor", &j.targetAnchor)
	r.Quat("TargetAnchorRotation", &j.targetAnchorRotation)
}

func motionKey(i int) string { return fmt.Sprintf("Motion%d", i) }
func driveKey(i int) string  { return fmt.Sprintf("Drive%d", i) }

// Serialize writes the joint configuration, diffed against other if given.
func (j *D6Joint) Serialize(w *serialization.Writer, other *D6Joint) {
	var base *Joint
	if other != nil {
		base = &other.Joint
	}
	j.Joint.Serialize(w, base)

	for i, m := range j.motion {
		if other == nil || m != other.motion[i] {
			w.Text(motionKey(i), m)
		}
	}
	for i, d := range j.drive {
		if other != nil && d == other.drive[i] {
			continue
		}
		var ref *D6Drive
		if other != nil {
			ref = &other.drive[i]
		}
		w.Object(driveKey(i), func(w *serialization.Writer) {
			writeDrive(w, d, ref)
		})
	}

	l := j.limitLinear
	var ol *LimitLinear
	if other != nil {
		ol = &other.limitLinear
	}
	if ol == nil || l.Extent != ol.Extent {
		w.Float("LimitLinearExtent", l.Extent)
	}
	if ol == nil || l.Restitution != ol.Restitution {
		w.Float("LimitLinearRestitution", l.Restitution)
	}
	if ol == nil || l.ContactDist != ol.ContactDist {
		w.Float("LimitLinearContactDist", l.ContactDist)
	}
	if ol == nil || l.Spring.Stiffness != ol.Spring.Stiffness {
		w.Float("LimitLinearStiffness", l.Spring.Stiffness)
	}
	if ol == nil || l.Spring.Damping != ol.Spring.Damping {
		w.Float("LimitLinearDamping", l.Spring.Damping)
	}

	t := j.limitTwist
	var ot *LimitAngularRange
	if other != nil {
		ot = &other.limitTwist
	}
	if ot == nil || t.Lower != ot.Lower {
		w.Float("LimitTwistLower", t.Lower)
	}
	if ot == nil || t.Upper != ot.Upper {
		w.Float("LimitTwistUpper", t.Upper)
	}
	if ot == nil || t.Restitution != ot.Restitution {
		w.Float("LimitTwistRestitution", t.Restitution)
	}
	if ot == nil || t.ContactDist != ot.ContactDist {
		w.Float("LimitTwistContactDist", t.ContactDist)
	}
	if ot == nil || t.Spring.Stiffness != ot.Spring.Stiffness {
		w.Float("LimitTwistStiffness", t.Spring.Stiffness)
	}
	if ot == nil || t.Spring.Damping != ot.Spring.Damping {
		w.Float("LimitTwistDamping", t.Spring.Damping)
	}

	s := j.limitSwing
	var os *LimitConeRange
	if other != nil {
		os = &other.limitSwing
	}
	if os == nil || s.YLimitAngle != os.YLimitAngle {
		w.Float("LimitSwingYLimitAngle", s.YLimitAngle)
	}
	if os == nil || s.ZLimitAngle != os.ZLimitAngle {
		w.Float("LimitSwingZLimitAngle", s.ZLimitAngle)
	}
	if os == nil || s.Restitution != os.Restitution {
		w.Float("LimitSwingRestitution", s.Restitution)
	}
	if os == nil || s.ContactDist != os.ContactDist {
		w.Float("LimitSwingContactDist", s.ContactDist)
	}
	if os == nil || s.Spring.Stiffness != os.Spring.Stiffness {
		w.Float("LimitSwingStiffness", s.Spring.Stiffness)
	}
	if os == nil || s.Spring.Damping != os.Spring.Damping {
		w.Float("LimitSwingDamping", s.Spring.Damping)
	}
}

func writeDrive(w *serialization.Writer, d D6Drive, other *D6Drive) {
	if other == nil || d.Stiffness != other.Stiffness {
		w.Float("Stiffness", d.Stiffness)
	}
	if other == nil || d.Damping != other.Damping {
		w.Float("Damping", d.Damping)
	}
	if other == nil || d.ForceLimit != other.ForceLimit {
		w.Float("ForceLimit", d.ForceLimit)
	}
	if other == nil || d.Acceleration != other.Acceleration {
		w.Bool("Acceleration", d.Acceleration)
	}
}

// Deserialize reads the joint configuration. Missing keys keep their value.
func (j *D6Joint) Deserialize(r *serialization.Reader) {
	j.Joint.Deserialize(r)

	for i := range j.motion {
		r.Text(motionKey(i), &j.motion[i])
	}
	for i := range j.drive {
		dr, ok := r.Object(driveKey(i))
		if !ok {
			continue
		}
		d := &j.drive[i]
		dr.Float("Stiffness", &d.Stiffness)
		dr.Float("Damping", &d.Damping)
		dr.Float("ForceLimit", &d.ForceLimit)
		dr.Bool("Acceleration", &d.Acceleration)
		r.Merge(dr)
	}

	l := &j.limitLinear
	r.Float("LimitLinearExtent", &l.Extent)
	r.Float("LimitLinearRestitution", &l.Restitution)
	r.Float("LimitLinearContactDist", &l.ContactDist)
	r.Float("LimitLinearStiffness", &l.Spring.Stiffness)
	r.Float("LimitLinearDamping", &l.Spring.Damping)

	t := &j.limitTwist
	r.Float("LimitTwistLower", &t.Lower)
	r.Float("LimitTwistUpper", &t.Upper)
	r.Float("LimitTwistRestitution", &t.Restitution)
	r.Float("LimitTwistContactDist", &t.ContactDist)
	r.Float("LimitTwistStiffness", &t.Spring.Stiffness)
	r.Float("LimitTwistDamping", &t.Spring.Damping)

	s := &j.limitSwing
	r.Float("LimitSwingYLimitAngle", &s.YLimitAngle)
	r.Float("LimitSwingZLimitAngle", &s.ZLimitAngle)
	r.Float("LimitSwingRestitution", &s.Restitution)
	r.Float("LimitSwingContactDist", &s.ContactDist)
	r.Float("LimitSwingStiffness", &s.Spring.Stiffness)
	r.Float("LimitSwingDamping", &s.Spring.Damping)
}

// Serialize writes the hinge configuration, diffed against other if given.
func (j *HingeJoint) Serialize(w *serialization.Writer, other *HingeJoint) {
	var base *Joint
	if other != nil {
		base = &other.Joint
	}
	j.Joint.Serialize(w, base)

	if other == nil || j.flags != other.flags {
		w.Int("Flags", int(j.flags))
	}

	l := j.limit
	var ol *LimitAngularRange
	if other != nil {
		ol = &other.limit
	}
	if ol == nil || l.ContactDist != ol.ContactDist {
		w.Float("ContactDist", l.ContactDist)
	}
	if ol == nil || l.Restitution != ol.Restitution {
		w.Float("Restitution", l.Restitution)
	}
	if ol == nil || l.Spring.Stiffness != ol.Spring.Stiffness {
		w.Float("Stiffness", l.Spring.Stiffness)
	}
	if ol == nil || l.Spring.Damping != ol.Spring.Damping {
		w.Float("Damping", l.Spring.Damping)
	}
	if ol == nil || l.Lower != ol.Lower {
		w.Float("LowerLimit", l.Lower)
	}
	if ol == nil || l.Upper != ol.Upper {
		w.Float("UpperLimit", l.Upper)
	}

	d := j.drive
	var od *HingeJointDrive
	if other != nil {
		od = &other.drive
	}
	if od == nil || d.Velocity != od.Velocity {
		w.Float("Velocity", d.Velocity)
	}
	if od == nil || d.ForceLimit != od.ForceLimit {
		w.Float("ForceLimit", d.ForceLimit)
	}
	if od == nil || d.GearRatio != od.GearRatio {
		w.Float("GearRatio", d.GearRatio)
	}
	if od == nil || d.FreeSpin != od.FreeSpin {
		w.Bool("FreeSpin", d.FreeSpin)
	}
}

// Deserialize reads the hinge configuration. Missing keys keep their value.
func (j *HingeJoint) Deserialize(r *serialization.Reader) {
	j.Joint.Deserialize(r)

	if r.Has("Flags") {
		flags := int(j.flags)
		r.Int("Flags", &flags)
		j.flags = HingeJointFlag(flags)
	}

	l := &j.limit
	r.Float("ContactDist", &l.ContactDist)
	r.Float("Restitution", &l.Restitution)
	r.Float("Stiffness", &l.Spring.Stiffness)
	r.Float("Damping", &l.Spring.Damping)
	r.Float("LowerLimit", &l.Lower)
	r.Float("UpperLimit", &l.Upper)

	d := &j.drive
	r.Float("Velocity", &d.Velocity)
	r.Float("ForceLimit", &d.ForceLimit)
	r.Float("GearRatio", &d.GearRatio)
	r.Bool("FreeSpin", &d.FreeSpin)
}
