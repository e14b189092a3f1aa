package chipmunk

import (
	"github.com/jakecoffman/cp"

	"github.com/Faultbox/jointrig/internal/physics/joint"
	"github.com/Faultbox/jointrig/pkg/math"
)

// constraintSet is the group of Chipmunk constraints behind one joint. The
// group is rebuilt from the stored settings whenever a structural setting
// changes.
type constraintSet struct {
	id    int
	world *World

	a, b             *cp.Body
	anchorA, anchorB cp.Vector
	frameA, frameB   float64

	breakForce  float64
	breakTorque float64
	collide     bool
	broken      bool
	released    bool

	constraints []*cp.Constraint
	rebuild     func()
	drive       func(dt float64)
}

func newConstraintSet(w *World, data joint.JointData) (*constraintSet, error) {
	a, err := w.cpBody(data.Body0)
	if err != nil {
		return nil, err
	}
	b, err := w.cpBody(data.Body1)
	if err != nil {
		return nil, err
	}
	if !isDynamic(a) && !isDynamic(b) {
		return nil, ErrStaticPair
	}
	s := &constraintSet{
		world:       w,
		a:           a,
		b:           b,
		breakForce:  cp.INFINITY,
		breakTorque: cp.INFINITY,
		collide:     true,
	}
	s.setPose(0, data.Pose0)
	s.setPose(1, data.Pose1)
	return s, nil
}

func (s *constraintSet) setPose(index int, pose math.Transform) {
	if index == 0 {
		s.anchorA = vec(pose.Position)
		s.frameA = planarAngle(pose.Orientation)
	} else {
		s.anchorB = vec(pose.Position)
		s.frameB = planarAngle(pose.Orientation)
	}
}

// offset is the relative body angle at which the joint angle is zero.
func (s *constraintSet) offset() float64 {
	return s.frameA - s.frameB
}

// relativeAngle is the joint angle about Z.
func (s *constraintSet) relativeAngle() float64 {
	return s.b.Angle() - s.a.Angle() - s.offset()
}

func (s *constraintSet) relativeVelocity() float64 {
	return s.b.AngularVelocity() - s.a.AngularVelocity()
}

// add registers c with the space. A non-nil limit makes c break the joint
// once its force exceeds *limit.
func (s *constraintSet) add(c *cp.Constraint, limit *float64) {
	c.SetCollideBodies(s.collide)
	if limit != nil {
		c.PostSolve = func(c *cp.Constraint, _ *cp.Space) {
			if s.broken || s.world.dt <= 0 {
				return
			}
			if c.Class.GetImpulse()/s.world.dt > *limit {
				s.broken = true
			}
		}
	}
	s.world.space.AddConstraint(c)
	s.constraints = append(s.constraints, c)
}

func (s *constraintSet) clear() {
	for _, c := range s.constraints {
		if s.world.space.ContainsConstraint(c) {
			s.world.space.RemoveConstraint(c)
		}
	}
	s.constraints = s.constraints[:0]
}

func (s *constraintSet) build() {
	if s.released || s.broken {
		return
	}
	s.clear()
	s.rebuild()
}

func (s *constraintSet) SetBreakForce(force, torque float32) {
	s.breakForce = float64(force)
	s.breakTorque = float64(torque)
	if force >= unlimited {
		s.breakForce = cp.INFINITY
	}
	if torque >= unlimited {
		s.breakTorque = cp.INFINITY
	}
}

func (s *constraintSet) SetCollisionEnabled(enabled bool) {
	s.collide = enabled
	for _, c := range s.constraints {
		c.SetCollideBodies(enabled)
	}
}

func (s *constraintSet) SetLocalPose(index int, pose math.Transform) {
	s.setPose(index, pose)
	s.build()
}

func (s *constraintSet) Broken() bool {
	return s.broken
}

func (s *constraintSet) Release() {
	if s.released {
		return
	}
	s.clear()
	s.released = true
	s.world.unregister(s)
}

// soften turns a hard limit into a force-capped one.
func soften(c *cp.Constraint, stiffness float32) {
	if stiffness > 0 {
		c.SetMaxForce(float64(stiffness))
	}
}
