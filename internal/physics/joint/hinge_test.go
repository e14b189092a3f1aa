package joint_test

import (
	"testing"

	"github.com/chewxy/math32"

	"github.com/Faultbox/jointrig/internal/physics/joint"
	"github.com/Faultbox/jointrig/internal/physics/joint/jointtest"
	"github.com/Faultbox/jointrig/pkg/math"
)

func attachedHinge(t *testing.T) (*joint.HingeJoint, *jointtest.HingeJoint) {
	t.Helper()
	j := joint.NewHingeJoint()
	j.Name = "hinge"
	j.SetBodies(&jointtest.Body{Pose: math.TransformIdentity()}, nil)
	s := &jointtest.Solver{}
	if err := j.Attach(s); err != nil {
		t.Fatalf("attach failed: %v", err)
	}
	n := s.Hinges[0]
	n.Reset()
	return j, n
}

func TestHingeDefaults(t *testing.T) {
	j := joint.NewHingeJoint()

	if j.Flags() != joint.HingeFlagLimit|joint.HingeFlagDrive {
		t.Errorf("expected limit and drive flags, got %d", j.Flags())
	}
	if j.Drive() != joint.DefaultHingeJointDrive() {
		t.Errorf("expected default drive, got %+v", j.Drive())
	}
	if j.CurrentAngle() != 0 || j.CurrentVelocity() != 0 {
		t.Error("expected zero telemetry when detached")
	}
}

func TestHingeCreateJoint(t *testing.T) {
	j := joint.NewHingeJoint()
	j.SetDrive(joint.HingeJointDrive{Velocity: 2, ForceLimit: 10, GearRatio: 3, FreeSpin: true})
	j.SetLimit(joint.LimitAngularRange{Lower: -30, Upper: 60, ContactDist: -1})

	s := &jointtest.Solver{}
	n, err := j.CreateJoint(s, joint.JointData{})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	rec := s.Hinges[0]
	if n != joint.NativeHingeJoint(rec) {
		t.Error("expected the created handle to be returned")
	}

	want := []string{"SetFlags", "SetDriveVelocity", "SetDriveForceLimit", "SetDriveGearRatio", "SetLimit"}
	if len(rec.Calls) != len(want) {
		t.Fatalf("expected calls %v, got %v", want, rec.Calls)
	}
	for i := range want {
		if rec.Calls[i] != want[i] {
			t.Errorf("call %d: expected %s, got %s", i, want[i], rec.Calls[i])
		}
	}

	flags := joint.RevoluteLimitEnabled | joint.RevoluteDriveEnabled | joint.RevoluteDriveFreeSpin
	if rec.Flags != flags {
		t.Errorf("expected flags %d, got %d", flags, rec.Flags)
	}
	if rec.DriveVelocity != 2 || rec.DriveForceLimit != 10 || rec.DriveGearRatio != 3 {
		t.Errorf("unexpected drive values %v %v %v", rec.DriveVelocity, rec.DriveForceLimit, rec.DriveGearRatio)
	}
	if math32.Abs(rec.Limit.Lower+math32.Pi/6) > 1e-5 || math32.Abs(rec.Limit.Upper-math32.Pi/3) > 1e-5 {
		t.Errorf("expected limit in radians, got %+v", rec.Limit)
	}
}

func TestHingeSetFlags(t *testing.T) {
	j, n := attachedHinge(t)

	j.SetFlags(joint.HingeFlagDrive)
	if n.Count("SetFlag") != 2 {
		t.Errorf("expected limit and drive forwarded individually, got %v", n.Calls)
	}
	if n.Flags&joint.RevoluteLimitEnabled != 0 {
		t.Error("expected limit disabled")
	}
	if n.Flags&joint.RevoluteDriveEnabled == 0 {
		t.Error("expected drive enabled")
	}

	j.SetFlags(joint.HingeFlagDrive)
	if n.Count("SetFlag") != 2 {
		t.Errorf("expected unchanged flags to be skipped, got %d calls", n.Count("SetFlag"))
	}
}

func TestHingeFreeSpinKeepsLimit(t *testing.T) {
	j, n := attachedHinge(t)

	for _, freeSpin := range []bool{true, false, true} {
		d := j.Drive()
		d.FreeSpin = freeSpin
		j.SetDrive(d)

		if n.Flags&joint.RevoluteLimitEnabled == 0 {
			t.Errorf("free spin %v: expected limit to stay enabled", freeSpin)
		}
		if (n.Flags&joint.RevoluteDriveFreeSpin != 0) != freeSpin {
			t.Errorf("expected free spin %v, got flags %d", freeSpin, n.Flags)
		}
		if j.Flags() != joint.HingeFlagLimit|joint.HingeFlagDrive {
			t.Errorf("expected hinge flags untouched, got %d", j.Flags())
		}
	}
}

func TestHingeDriveClamp(t *testing.T) {
	j, n := attachedHinge(t)

	j.SetDrive(joint.HingeJointDrive{Velocity: -3, ForceLimit: -1, GearRatio: -2})

	if n.DriveVelocity != 0 || n.DriveForceLimit != 0 || n.DriveGearRatio != 0 {
		t.Errorf("expected clamped drive, got %v %v %v", n.DriveVelocity, n.DriveForceLimit, n.DriveGearRatio)
	}
	if j.Drive().Velocity != -3 {
		t.Errorf("expected stored velocity -3, got %v", j.Drive().Velocity)
	}
}

func TestHingeSetLimitForwardsOnce(t *testing.T) {
	j, n := attachedHinge(t)
	limit := joint.LimitAngularRange{Lower: -10, Upper: 10, Spring: joint.SpringParameters{Stiffness: 5}}

	j.SetLimit(limit)
	j.SetLimit(limit)

	if n.Count("SetLimit") != 1 {
		t.Errorf("expected 1 limit call, got %d", n.Count("SetLimit"))
	}
	if n.Limit.Stiffness != 5 {
		t.Errorf("expected spring stiffness 5, got %v", n.Limit.Stiffness)
	}
}

func TestHingeTelemetry(t *testing.T) {
	j, n := attachedHinge(t)
	n.AngleValue = 1.5
	n.VelocityValue = -2

	if j.CurrentAngle() != 1.5 {
		t.Errorf("expected angle 1.5, got %v", j.CurrentAngle())
	}
	if j.CurrentVelocity() != -2 {
		t.Errorf("expected velocity -2, got %v", j.CurrentVelocity())
	}

	n.IsBroken = true
	if !j.Broken() {
		t.Error("expected broken joint")
	}
}

func TestHingeCopyFrom(t *testing.T) {
	j, n := attachedHinge(t)
	other := joint.NewHingeJoint()
	other.SetFlags(joint.HingeFlagNone)
	other.SetEnableCollision(false)

	j.CopyFrom(other)

	if n.Flags&(joint.RevoluteLimitEnabled|joint.RevoluteDriveEnabled) != 0 {
		t.Errorf("expected limit and drive disabled, got %d", n.Flags)
	}
	if n.Collision {
		t.Error("expected collision disabled")
	}
	if n.Count("SetLimit") != 0 || n.Count("SetDriveVelocity") != 0 {
		t.Errorf("expected unchanged values to be skipped, got %v", n.Calls)
	}
}
