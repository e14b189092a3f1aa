package joint_test

import (
	"testing"

	"github.com/Faultbox/jointrig/internal/physics/joint"
	"github.com/Faultbox/jointrig/internal/serialization"
	"github.com/Faultbox/jointrig/pkg/math"
)

func reread(t *testing.T, w *serialization.Writer) *serialization.Reader {
	t.Helper()
	data, err := w.Marshal()
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	r, err := serialization.Unmarshal(data)
	if err != nil {
		t.Fatalf("unmarshal failed: %v\n%s", err, data)
	}
	return r
}

func TestD6SerializeRoundTrip(t *testing.T) {
	tests := []struct {
		name  string
		setup func(j *joint.D6Joint)
	}{
		{"default", func(j *joint.D6Joint) {}},
		{"configured", func(j *joint.D6Joint) {
			j.SetMotion(joint.D6AxisX, joint.D6MotionLocked)
			j.SetMotion(joint.D6AxisSwing2, joint.D6MotionLimited)
			j.SetDrive(joint.D6DriveSlerp, joint.D6Drive{Stiffness: 12.5, Damping: 0.5, ForceLimit: 80, Acceleration: true})
			j.SetLimitLinear(joint.LimitLinear{Extent: 2, ContactDist: 0.1, Restitution: 0.3})
			j.SetLimitTwist(joint.LimitAngularRange{Lower: -20, Upper: 45, Spring: joint.SpringParameters{Stiffness: 100, Damping: 4}})
			j.SetLimitSwing(joint.LimitConeRange{YLimitAngle: 15, ZLimitAngle: 25})
			j.SetBreakForce(1000)
			j.SetEnableCollision(false)
			j.SetTargetAnchor(math.Vec3{X: 1, Y: -2, Z: 0.5})
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			j := joint.NewD6Joint()
			tt.setup(j)

			w := serialization.NewWriter()
			j.Serialize(w, nil)
			r := reread(t, w)

			got := joint.NewD6Joint()
			got.SetMotion(joint.D6AxisY, joint.D6MotionLocked)
			got.Deserialize(r)
			if r.Err() != nil {
				t.Fatalf("deserialize failed: %v", r.Err())
			}
			if *got != *j {
				t.Errorf("expected %+v, got %+v", *j, *got)
			}
		})
	}
}

func TestD6SerializeFullWritesEverything(t *testing.T) {
	w := serialization.NewWriter()
	joint.NewD6Joint().Serialize(w, nil)

	// 6 shared, 6 motions, 6 drives, 5 linear, 6 twist, 6 swing
	if w.Len() != 35 {
		t.Errorf("expected 35 keys, got %d: %v", w.Len(), w.Keys())
	}
	keys := map[string]bool{}
	for _, k := range w.Keys() {
		keys[k] = true
	}
	for _, k := range []string{"Motion0", "Motion5", "Drive0", "Drive5", "LimitLinearExtent", "LimitTwistLower", "LimitSwingZLimitAngle", "BreakForce"} {
		if !keys[k] {
			t.Errorf("expected key %s", k)
		}
	}
}

func TestD6SerializeDiff(t *testing.T) {
	prefab := joint.NewD6Joint()
	j := joint.NewD6Joint()

	w := serialization.NewWriter()
	j.Serialize(w, prefab)
	if w.Len() != 0 {
		t.Errorf("expected no keys against an identical reference, got %v", w.Keys())
	}

	j.SetMotion(joint.D6AxisTwist, joint.D6MotionLocked)
	drive := joint.DefaultD6Drive()
	drive.Stiffness = 10
	j.SetDrive(joint.D6DriveY, drive)

	w = serialization.NewWriter()
	j.Serialize(w, prefab)
	keys := w.Keys()
	if len(keys) != 2 || keys[0] != "Motion3" || keys[1] != "Drive1" {
		t.Fatalf("expected [Motion3 Drive1], got %v", keys)
	}

	r := reread(t, w)
	dr, ok := r.Object("Drive1")
	if !ok {
		t.Fatal("expected Drive1 object")
	}
	if dr.Len() != 1 || !dr.Has("Stiffness") {
		t.Errorf("expected only Stiffness in Drive1, got %d keys", dr.Len())
	}

	restored := joint.NewD6Joint()
	restored.Deserialize(r)
	if *restored != *j {
		t.Errorf("expected delta over prefab to restore the joint")
	}
}

func TestD6DeserializeKeepsMissing(t *testing.T) {
	r, err := serialization.Unmarshal([]byte("Motion0: Locked\n"))
	if err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	j := joint.NewD6Joint()
	twist := joint.LimitAngularRange{Lower: -5, Upper: 5}
	j.SetLimitTwist(twist)

	j.Deserialize(r)

	if j.Motion(joint.D6AxisX) != joint.D6MotionLocked {
		t.Errorf("expected Locked, got %s", j.Motion(joint.D6AxisX))
	}
	if j.Motion(joint.D6AxisY) != joint.D6MotionFree {
		t.Errorf("expected Free, got %s", j.Motion(joint.D6AxisY))
	}
	if j.LimitTwist() != twist {
		t.Errorf("expected twist %+v kept, got %+v", twist, j.LimitTwist())
	}
}

func TestD6DeserializeErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"unknown motion", "Motion2: Wobbly\n"},
		{"bad number", "LimitLinearExtent: far\n"},
		{"drive not a mapping", "Drive0: 5\n"},
		{"bad drive field", "Drive0:\n  Stiffness: stiff\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := serialization.Unmarshal([]byte(tt.doc))
			if err != nil {
				t.Fatalf("unmarshal failed: %v", err)
			}
			joint.NewD6Joint().Deserialize(r)
			if r.Err() == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestHingeSerializeRoundTrip(t *testing.T) {
	j := joint.NewHingeJoint()
	j.SetFlags(joint.HingeFlagLimit)
	j.SetLimit(joint.LimitAngularRange{Lower: -60, Upper: 15, ContactDist: 2, Restitution: 0.5, Spring: joint.SpringParameters{Stiffness: 3, Damping: 1}})
	j.SetDrive(joint.HingeJointDrive{Velocity: 4, ForceLimit: 20, GearRatio: 2, FreeSpin: true})
	j.SetTargetAnchorRotation(math.QuatFromAxisAngle(math.Vec3{Z: 1}, 1))

	w := serialization.NewWriter()
	j.Serialize(w, nil)
	if w.Len() != 17 {
		t.Errorf("expected 17 keys, got %d: %v", w.Len(), w.Keys())
	}

	got := joint.NewHingeJoint()
	r := reread(t, w)
	got.Deserialize(r)
	if r.Err() != nil {
		t.Fatalf("deserialize failed: %v", r.Err())
	}
	if *got != *j {
		t.Errorf("expected %+v, got %+v", *j, *got)
	}
}

func TestHingeSerializeDiff(t *testing.T) {
	prefab := joint.NewHingeJoint()
	j := joint.NewHingeJoint()

	w := serialization.NewWriter()
	j.Serialize(w, prefab)
	if w.Len() != 0 {
		t.Errorf("expected no keys, got %v", w.Keys())
	}

	d := j.Drive()
	d.Velocity = 3
	j.SetDrive(d)
	j.SetBreakTorque(50)

	w = serialization.NewWriter()
	j.Serialize(w, prefab)
	keys := w.Keys()
	if len(keys) != 2 || keys[0] != "BreakTorque" || keys[1] != "Velocity" {
		t.Errorf("expected [BreakTorque Velocity], got %v", keys)
	}
}
