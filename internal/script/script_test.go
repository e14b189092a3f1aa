package script

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/Faultbox/jointrig/internal/physics/joint/jointtest"
	"github.com/Faultbox/jointrig/internal/scene"
	"github.com/Faultbox/jointrig/pkg/math"
)

func attached(t *testing.T, kind string) (*scene.JointDef, *jointtest.Solver) {
	t.Helper()
	d, err := scene.NewJointDef("j", kind)
	if err != nil {
		t.Fatal(err)
	}
	d.Base().SetBodies(&jointtest.Body{Pose: math.TransformIdentity()}, nil)
	s := &jointtest.Solver{}
	if err := d.Attach(s); err != nil {
		t.Fatalf("attach failed: %v", err)
	}
	return d, s
}

func TestHingeDriveVelocity(t *testing.T) {
	d, _ := scene.NewJointDef("j", scene.KindHinge)
	c, err := Compile([]byte(`drive_velocity = 2 * sim_time`), d)
	if err != nil {
		t.Fatalf("compile failed: %v", err)
	}

	if err := c.Step(context.Background(), 1.5, 0.1); err != nil {
		t.Fatalf("step failed: %v", err)
	}
	if v := d.Hinge.Drive().Velocity; v != 3 {
		t.Errorf("expected velocity 3, got %v", v)
	}
}

func TestScriptWithoutInputs(t *testing.T) {
	d, _ := scene.NewJointDef("j", scene.KindHinge)
	c, err := Compile([]byte("drive_velocity = 2\n"), d)
	if err != nil {
		t.Fatalf("compile failed: %v", err)
	}

	for i := 0; i < 3; i++ {
		if err := c.Step(context.Background(), float64(i)*0.01, 0.01); err != nil {
			t.Fatalf("step %d failed: %v", i, err)
		}
	}
	if v := d.Hinge.Drive().Velocity; v != 2 {
		t.Errorf("expected velocity 2, got %v", v)
	}
}

func TestInputsAreBound(t *testing.T) {
	d, _ := scene.NewJointDef("j", scene.KindD6)
	c, err := Compile([]byte("target_x = sim_time + dt\n"), d)
	if err != nil {
		t.Fatalf("compile failed: %v", err)
	}

	for _, name := range append(append([]string{}, inputs...), outputs...) {
		if !c.bound[name] {
			t.Errorf("expected %q to be bound", name)
		}
	}

	if err := c.Step(context.Background(), 2, 0.5); err != nil {
		t.Fatalf("step failed: %v", err)
	}
	if p := d.D6.DrivePosition(); p.X != 2.5 {
		t.Errorf("expected target x 2.5, got %v", p.X)
	}
}

func TestHingeInputs(t *testing.T) {
	d, s := attached(t, scene.KindHinge)
	s.Hinges[0].AngleValue = 0.25
	s.Hinges[0].VelocityValue = 2

	c, err := Compile([]byte(`drive_velocity = angle * 4 + velocity`), d)
	if err != nil {
		t.Fatalf("compile failed: %v", err)
	}
	if err := c.Step(context.Background(), 0, 0.1); err != nil {
		t.Fatalf("step failed: %v", err)
	}
	if v := d.Hinge.Drive().Velocity; v != 3 {
		t.Errorf("expected velocity 3, got %v", v)
	}
	if v := s.Hinges[0].DriveVelocity; v != 3 {
		t.Errorf("expected native velocity 3, got %v", v)
	}
}

func TestUnassignedOutputKeepsSetting(t *testing.T) {
	d, _ := scene.NewJointDef("j", scene.KindHinge)
	drive := d.Hinge.Drive()
	drive.Velocity = 5
	d.Hinge.SetDrive(drive)

	c, err := Compile([]byte(`
x := 1
if sim_time > 10 {
	drive_velocity = x
}
`), d)
	if err != nil {
		t.Fatalf("compile failed: %v", err)
	}

	for _, tm := range []float64{11, 0} {
		if err := c.Step(context.Background(), tm, 0.1); err != nil {
			t.Fatalf("step failed: %v", err)
		}
	}
	if v := d.Hinge.Drive().Velocity; v != 1 {
		t.Errorf("expected velocity 1 from the first run only, got %v", v)
	}
}

func TestD6Targets(t *testing.T) {
	d, s := attached(t, scene.KindD6)
	s.D6[0].TwistValue = 0.5

	c, err := Compile([]byte(`
target_x = 1.5
target_angle = twist
`), d)
	if err != nil {
		t.Fatalf("compile failed: %v", err)
	}
	if err := c.Step(context.Background(), 0, 0.1); err != nil {
		t.Fatalf("step failed: %v", err)
	}

	if p := d.D6.DrivePosition(); p != (math.Vec3{X: 1.5}) {
		t.Errorf("expected drive position (1.5, 0, 0), got %v", p)
	}
	want := math.QuatFromAxisAngle(math.Vec3{Z: 1}, 0.5)
	if q := d.D6.DriveRotation(); q != want {
		t.Errorf("expected drive rotation %v, got %v", want, q)
	}

	c, err = Compile([]byte(`target_y = -1`), d)
	if err != nil {
		t.Fatalf("compile failed: %v", err)
	}
	if err := c.Step(context.Background(), 0, 0.1); err != nil {
		t.Fatalf("step failed: %v", err)
	}
	if p := d.D6.DrivePosition(); p != (math.Vec3{X: 1.5, Y: -1}) {
		t.Errorf("expected X kept and Y set, got %v", p)
	}
}

func TestStdlibImport(t *testing.T) {
	d, _ := scene.NewJointDef("j", scene.KindHinge)
	c, err := Compile([]byte(`
math := import("math")
drive_velocity = math.abs(-2.5)
`), d)
	if err != nil {
		t.Fatalf("compile failed: %v", err)
	}
	if err := c.Step(context.Background(), 0, 0.1); err != nil {
		t.Fatalf("step failed: %v", err)
	}
	if v := d.Hinge.Drive().Velocity; v != 2.5 {
		t.Errorf("expected velocity 2.5, got %v", v)
	}
}

func TestScriptErrors(t *testing.T) {
	d, _ := scene.NewJointDef("j", scene.KindHinge)

	if _, err := Compile([]byte(`drive_velocity = (`), d); err == nil {
		t.Error("expected compile error")
	}

	c, err := Compile([]byte(`for {}`), d)
	if err != nil {
		t.Fatalf("compile failed: %v", err)
	}
	if err := c.Step(context.Background(), 0, 0.1); err == nil {
		t.Error("expected a timeout error for an endless script")
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.tengo"), d); err == nil {
		t.Error("expected error for a missing file")
	}
}

func TestRunner(t *testing.T) {
	dir := t.TempDir()
	write := func(name, src string) {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(src), 0644); err != nil {
			t.Fatal(err)
		}
	}
	write("spin.tengo", "drive_velocity = sim_time\n")
	write("broken.tengo", "a := [1]\ndrive_velocity = a[\"x\"]\n")

	s, err := scene.Parse([]byte(`bodies:
  - {name: ground, static: true, size: [1, 1]}
  - {name: arm, mass: 1, size: [1, 1]}
joints:
  - {name: spin, type: hinge, body0: ground, body1: arm, script: spin.tengo}
  - {name: broken, type: hinge, body0: ground, body1: arm, script: broken.tengo}
  - {name: plain, type: d6, body0: ground, body1: arm}
`), nil)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	r, err := NewRunner(s, dir)
	if err != nil {
		t.Fatalf("runner failed: %v", err)
	}
	if r.Len() != 2 {
		t.Fatalf("expected 2 controllers, got %d", r.Len())
	}

	r.Step(context.Background(), 0.5)
	r.Step(context.Background(), 0.5)

	if r.Time() != 1 {
		t.Errorf("expected time 1, got %v", r.Time())
	}
	if v := s.Joint("spin").Hinge.Drive().Velocity; v != 0.5 {
		t.Errorf("expected velocity 0.5 from the second step, got %v", v)
	}
	if v := s.Joint("broken").Hinge.Drive().Velocity; v != 0 {
		t.Errorf("expected broken script to leave velocity 0, got %v", v)
	}
	if len(r.disabled) != 1 {
		t.Errorf("expected one disabled controller, got %d", len(r.disabled))
	}

	s.Joint("spin").Script = "missing.tengo"
	if err := r.Load(s, dir); err == nil {
		t.Error("expected error for a missing script")
	}
}
