// Package chipmunk implements the joint solver on top of the Chipmunk2D
// port. The simulation is planar: bodies move in the XY plane and rotate
// about Z. Joint axes that leave the plane are accepted and ignored.
package chipmunk

import (
	"errors"
	"fmt"

	"github.com/jakecoffman/cp"
	"go.uber.org/zap"

	"github.com/Faultbox/jointrig/internal/logger"
	"github.com/Faultbox/jointrig/internal/physics/joint"
)

var (
	// ErrForeignBody is returned when a joint names a body from another
	// world or another backend.
	ErrForeignBody = errors.New("chipmunk: body does not belong to this world")
	// ErrDuplicateBody is returned when two bodies share a name.
	ErrDuplicateBody = errors.New("chipmunk: duplicate body name")
	// ErrStaticPair is returned for a joint between two static bodies.
	ErrStaticPair = errors.New("chipmunk: joint needs at least one dynamic body")
)

var _ joint.Solver = (*World)(nil)

// World owns a Chipmunk space and every joint created in it.
type World struct {
	space  *cp.Space
	bodies []*Body
	byName map[string]*Body
	joints []*constraintSet
	nextID int
	dt     float64
	log    *zap.Logger
}

// NewWorld creates an empty space.
func NewWorld(gravity [2]float64, iterations int) *World {
	space := cp.NewSpace()
	if iterations > 0 {
		space.Iterations = uint(iterations)
	}
	space.SetGravity(cp.Vector{X: gravity[0], Y: gravity[1]})

	return &World{
		space:  space,
		byName: make(map[string]*Body),
		log:    logger.Named("chipmunk"),
	}
}

// BodyDesc describes a box body.
type BodyDesc struct {
	Name   string
	Static bool
	Mass   float64
	Width  float64
	Height float64
	X, Y   float64
	Angle  float64 // radians
}

// AddBody creates a box body and its collision shape.
func (w *World) AddBody(desc BodyDesc) (*Body, error) {
	if desc.Name != "" {
		if _, ok := w.byName[desc.Name]; ok {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateBody, desc.Name)
		}
	}
	if desc.Width <= 0 || desc.Height <= 0 {
		return nil, fmt.Errorf("body %q: size must be positive, got %vx%v", desc.Name, desc.Width, desc.Height)
	}

	var body *cp.Body
	var moment float64
	if desc.Static {
		body = cp.NewStaticBody()
	} else {
		if desc.Mass <= 0 {
			return nil, fmt.Errorf("body %q: mass must be positive, got %v", desc.Name, desc.Mass)
		}
		moment = cp.MomentForBox(desc.Mass, desc.Width, desc.Height)
		body = cp.NewBody(desc.Mass, moment)
	}
	body.SetPosition(cp.Vector{X: desc.X, Y: desc.Y})
	body.SetAngle(desc.Angle)
	w.space.AddBody(body)

	shape := w.space.AddShape(cp.NewBox(body, desc.Width, desc.Height, 0))
	shape.SetFriction(0.7)

	b := &Body{
		Name:   desc.Name,
		Width:  desc.Width,
		Height: desc.Height,
		Static: desc.Static,
		world:  w,
		body:   body,
		moment: moment,
	}
	body.UserData = b
	w.bodies = append(w.bodies, b)
	if desc.Name != "" {
		w.byName[desc.Name] = b
	}
	w.log.Debug("body added",
		zap.String("name", desc.Name),
		zap.Bool("static", desc.Static),
		zap.Float64("mass", desc.Mass))
	return b, nil
}

// Body returns the body with the given name, or nil.
func (w *World) Body(name string) *Body {
	return w.byName[name]
}

// Bodies returns all bodies in creation order.
func (w *World) Bodies() []*Body {
	return w.bodies
}

// JointCount returns the number of joints that still hold constraints.
func (w *World) JointCount() int {
	n := 0
	for _, s := range w.joints {
		if len(s.constraints) > 0 {
			n++
		}
	}
	return n
}

// Step advances the simulation by dt seconds. Joint drives push their
// bodies first; joints that exceeded their break force are removed after.
func (w *World) Step(dt float64) {
	for _, s := range w.joints {
		if s.drive != nil && !s.broken {
			s.drive(dt)
		}
	}

	w.dt = dt
	w.space.Step(dt)

	for _, s := range w.joints {
		if s.broken && len(s.constraints) > 0 {
			s.clear()
			w.log.Info("joint broke", zap.Int("id", s.id))
		}
	}
}

func (w *World) cpBody(b joint.Body) (*cp.Body, error) {
	if b == nil {
		return w.space.StaticBody, nil
	}
	body, ok := b.(*Body)
	if !ok || body.world != w {
		return nil, ErrForeignBody
	}
	return body.body, nil
}

func (w *World) register(s *constraintSet) {
	w.nextID++
	s.id = w.nextID
	w.joints = append(w.joints, s)
}

func (w *World) unregister(s *constraintSet) {
	for i, other := range w.joints {
		if other == s {
			w.joints = append(w.joints[:i], w.joints[i+1:]...)
			return
		}
	}
}

// NewHingeJoint implements joint.Solver.
func (w *World) NewHingeJoint(data joint.JointData) (joint.NativeHingeJoint, error) {
	s, err := newConstraintSet(w, data)
	if err != nil {
		return nil, err
	}
	h := &Hinge{constraintSet: s, forceLimit: unlimited, gearRatio: 1}
	s.rebuild = h.rebuildConstraints
	w.register(s)
	s.build()
	return h, nil
}

// NewD6Joint implements joint.Solver.
func (w *World) NewD6Joint(data joint.JointData) (joint.NativeD6Joint, error) {
	s, err := newConstraintSet(w, data)
	if err != nil {
		return nil, err
	}
	d := newD6(s)
	s.rebuild = d.rebuildConstraints
	s.drive = d.applyDrives
	w.register(s)
	s.build()
	return d, nil
}
