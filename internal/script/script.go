// Package script runs tengo drive controllers attached to scene joints.
//
// A controller script runs once per simulation step. The inputs are globals
// set before the run:
//
//	sim_time, dt    seconds since start and the step length
//	angle, velocity hinge angle (radians) and angular velocity
//	twist           D6 twist angle (radians)
//
// Outputs are globals the script may assign with "=". Outputs left
// unassigned keep the joint setting unchanged. Names the compiled script
// cannot bind are skipped:
//
//	drive_velocity             hinge drive target velocity
//	target_angle               D6 drive rotation about Z (radians)
//	target_x, target_y         D6 drive position
//
// The tengo standard library is importable, e.g. math := import("math").
package script

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"

	"github.com/Faultbox/jointrig/internal/scene"
	"github.com/Faultbox/jointrig/pkg/math"
)

// MaxRunTime bounds a single controller run.
const MaxRunTime = 50 * time.Millisecond

var inputs = []string{"sim_time", "dt", "angle", "velocity", "twist"}

var outputs = []string{"drive_velocity", "target_angle", "target_x", "target_y"}

// Controller drives one joint from a compiled script.
type Controller struct {
	Joint *scene.JointDef
	Path  string

	compiled *tengo.Compiled
	bound    map[string]bool
}

// Load reads and compiles the script at path for d.
func Load(path string, d *scene.JointDef) (*Controller, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading script: %w", err)
	}
	c, err := Compile(src, d)
	if err != nil {
		return nil, fmt.Errorf("compiling %s: %w", path, err)
	}
	c.Path = path
	return c, nil
}

// Compile compiles src as a controller for d.
func Compile(src []byte, d *scene.JointDef) (*Controller, error) {
	s := tengo.NewScript(src)
	s.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))
	for _, name := range inputs {
		_ = s.Add(name, 0.0)
	}
	for _, name := range outputs {
		_ = s.Add(name, nil)
	}

	compiled, err := s.Compile()
	if err != nil {
		return nil, err
	}

	bound := make(map[string]bool, len(inputs)+len(outputs))
	for _, name := range inputs {
		bound[name] = compiled.Set(name, 0.0) == nil
	}
	for _, name := range outputs {
		bound[name] = compiled.Set(name, nil) == nil
	}
	return &Controller{Joint: d, compiled: compiled, bound: bound}, nil
}

// Step runs the script once at simulation time t and applies its outputs to
// the joint.
func (c *Controller) Step(ctx context.Context, t, dt float64) error {
	in := map[string]float64{"sim_time": t, "dt": dt}
	switch {
	case c.Joint.Hinge != nil:
		in["angle"] = float64(c.Joint.Hinge.CurrentAngle())
		in["velocity"] = float64(c.Joint.Hinge.CurrentVelocity())
	case c.Joint.D6 != nil:
		in["twist"] = float64(c.Joint.D6.CurrentTwist())
	}
	for name, v := range in {
		if !c.bound[name] {
			continue
		}
		if err := c.compiled.Set(name, v); err != nil {
			return err
		}
	}
	for _, name := range outputs {
		if !c.bound[name] {
			continue
		}
		if err := c.compiled.Set(name, nil); err != nil {
			return err
		}
	}

	ctx, cancel := context.WithTimeout(ctx, MaxRunTime)
	defer cancel()
	if err := c.compiled.RunContext(ctx); err != nil {
		return err
	}
	c.apply()
	return nil
}

func (c *Controller) output(name string) (float32, bool) {
	if !c.bound[name] || !c.compiled.IsDefined(name) {
		return 0, false
	}
	return float32(c.compiled.Get(name).Float()), true
}

func (c *Controller) apply() {
	if h := c.Joint.Hinge; h != nil {
		if v, ok := c.output("drive_velocity"); ok {
			drive := h.Drive()
			drive.Velocity = v
			h.SetDrive(drive)
		}
		return
	}

	d6 := c.Joint.D6
	if a, ok := c.output("target_angle"); ok {
		d6.SetDriveRotation(math.QuatFromAxisAngle(math.Vec3{Z: 1}, a))
	}
	x, okX := c.output("target_x")
	y, okY := c.output("target_y")
	if okX || okY {
		p := d6.DrivePosition()
		if okX {
			p.X = x
		}
		if okY {
			p.Y = y
		}
		d6.SetDrivePosition(p)
	}
}
