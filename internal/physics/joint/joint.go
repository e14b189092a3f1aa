// Package joint holds the configuration of physics joints and keeps it in
// sync with a live solver joint. Setters always update local state; when the
// joint is attached to a solver the change is forwarded as well. A joint
// that is not attached never reports an error for this, it simply keeps the
// value until the native joint is created.
package joint

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/jointrig/internal/logger"
	"github.com/Faultbox/jointrig/pkg/math"
)

var (
	// ErrNoSolver is returned by Attach when no solver is given.
	ErrNoSolver = errors.New("joint: no solver")
	// ErrAlreadyAttached is returned by Attach on a live joint.
	ErrAlreadyAttached = errors.New("joint: already attached")
	// ErrNoBody is returned when the first body is missing.
	ErrNoBody = errors.New("joint: first body is not set")
)

// Joint is the configuration shared by every joint kind.
type Joint struct {
	Name string

	body0 Body
	body1 Body

	localPose            math.Transform
	targetAnchor         math.Vec3
	targetAnchorRotation math.Quat
	enableAutoAnchor     bool
	breakForce           float32
	breakTorque          float32
	enableCollision      bool

	native NativeJoint
}

func newJoint() Joint {
	return Joint{
		localPose:            math.TransformIdentity(),
		targetAnchorRotation: math.QuatIdentity(),
		enableAutoAnchor:     true,
		breakForce:           math.MaxFloat,
		breakTorque:          math.MaxFloat,
		enableCollision:      true,
	}
}

// live runs fn against the native joint if there is one.
func (j *Joint) live(fn func(NativeJoint)) {
	if j.native == nil {
		logger.Debug("joint not attached, keeping local value", zap.String("joint", j.Name))
		return
	}
	fn(j.native)
}

// IsAttached reports whether a native joint exists.
func (j *Joint) IsAttached() bool {
	return j.native != nil
}

// Broken reports whether the solver broke the joint.
func (j *Joint) Broken() bool {
	return j.native != nil && j.native.Broken()
}

// Bodies returns the connected bodies. The second one may be nil.
func (j *Joint) Bodies() (Body, Body) {
	return j.body0, j.body1
}

// SetBodies sets the connected bodies. A nil second body connects the joint
// to the world. Changing bodies of an attached joint takes effect on the
// next Attach.
func (j *Joint) SetBodies(body0, body1 Body) {
	j.body0 = body0
	j.body1 = body1
}

func (j *Joint) LocalPose() math.Transform { return j.localPose }

// SetLocalPose sets the joint frame relative to the first body.
func (j *Joint) SetLocalPose(pose math.Transform) {
	if j.localPose == pose {
		return
	}
	j.localPose = pose
	j.live(func(n NativeJoint) {
		n.SetLocalPose(0, pose)
		if j.enableAutoAnchor {
			n.SetLocalPose(1, j.targetPose())
		}
	})
}

func (j *Joint) TargetAnchor() math.Vec3 { return j.targetAnchor }

// SetTargetAnchor sets the joint position relative to the second body. It
// is used only when auto anchoring is off.
func (j *Joint) SetTargetAnchor(anchor math.Vec3) {
	if j.targetAnchor == anchor {
		return
	}
	j.targetAnchor = anchor
	if !j.enableAutoAnchor {
		j.live(func(n NativeJoint) { n.SetLocalPose(1, j.targetPose()) })
	}
}

func (j *Joint) TargetAnchorRotation() math.Quat { return j.targetAnchorRotation }

// SetTargetAnchorRotation sets the joint orientation relative to the second
// body. It is used only when auto anchoring is off.
func (j *Joint) SetTargetAnchorRotation(rotation math.Quat) {
	if j.targetAnchorRotation == rotation {
		return
	}
	j.targetAnchorRotation = rotation
	if !j.enableAutoAnchor {
		j.live(func(n NativeJoint) { n.SetLocalPose(1, j.targetPose()) })
	}
}

func (j *Joint) EnableAutoAnchor() bool { return j.enableAutoAnchor }

// SetEnableAutoAnchor selects whether the second frame is derived from the
// body positions or taken from the target anchor.
func (j *Joint) SetEnableAutoAnchor(enabled bool) {
	if j.enableAutoAnchor == enabled {
		return
	}
	j.enableAutoAnchor = enabled
	j.live(func(n NativeJoint) { n.SetLocalPose(1, j.targetPose()) })
}

func (j *Joint) BreakForce() float32 { return j.breakForce }

// SetBreakForce sets the linear force that breaks the joint.
func (j *Joint) SetBreakForce(force float32) {
	if j.breakForce == force {
		return
	}
	j.breakForce = force
	j.live(func(n NativeJoint) { n.SetBreakForce(j.breakForce, j.breakTorque) })
}

func (j *Joint) BreakTorque() float32 { return j.breakTorque }

// SetBreakTorque sets the torque that breaks the joint.
func (j *Joint) SetBreakTorque(torque float32) {
	if j.breakTorque == torque {
		return
	}
	j.breakTorque = torque
	j.live(func(n NativeJoint) { n.SetBreakForce(j.breakForce, j.breakTorque) })
}

func (j *Joint) EnableCollision() bool { return j.enableCollision }

// SetEnableCollision toggles collision between the connected bodies.
func (j *Joint) SetEnableCollision(enabled bool) {
	if j.enableCollision == enabled {
		return
	}
	j.enableCollision = enabled
	j.live(func(n NativeJoint) { n.SetCollisionEnabled(enabled) })
}

// targetPose is the joint frame relative to the second body, or relative to
// the world when there is no second body.
func (j *Joint) targetPose() math.Transform {
	if !j.enableAutoAnchor {
		return math.NewTransform(j.targetAnchor, j.targetAnchorRotation)
	}
	var frame math.Transform
	if j.body0 != nil {
		frame = j.body0.Transform().Mul(j.localPose)
	} else {
		frame = j.localPose
	}
	if j.body1 == nil {
		return frame
	}
	return j.body1.Transform().Inverse().Mul(frame)
}

// JointData describes the joint for a solver.
func (j *Joint) JointData() (JointData, error) {
	if j.body0 == nil {
		return JointData{}, ErrNoBody
	}
	return JointData{
		Body0: j.body0,
		Body1: j.body1,
		Pose0: j.localPose,
		Pose1: j.targetPose(),
	}, nil
}

// attach creates the native joint with create and applies the shared
// settings on top of it.
func (j *Joint) attach(s Solver, create func(Solver, JointData) (NativeJoint, error)) error {
	if s == nil {
		return ErrNoSolver
	}
	if j.native != nil {
		return ErrAlreadyAttached
	}
	data, err := j.JointData()
	if err != nil {
		return fmt.Errorf("attaching %q: %w", j.Name, err)
	}
	native, err := create(s, data)
	if err != nil {
		return fmt.Errorf("attaching %q: %w", j.Name, err)
	}
	native.SetBreakForce(j.breakForce, j.breakTorque)
	native.SetCollisionEnabled(j.enableCollision)
	j.native = native
	logger.Debug("joint attached", zap.String("joint", j.Name))
	return nil
}

// Detach releases the native joint. Configuration is kept.
func (j *Joint) Detach() {
	if j.native == nil {
		return
	}
	j.native.Release()
	j.native = nil
	logger.Debug("joint detached", zap.String("joint", j.Name))
}

// copyFrom applies the shared settings of other through the setters.
func (j *Joint) copyFrom(other *Joint) {
	j.SetEnableAutoAnchor(other.enableAutoAnchor)
	j.SetLocalPose(other.localPose)
	j.SetTargetAnchor(other.targetAnchor)
	j.SetTargetAnchorRotation(other.targetAnchorRotation)
	j.SetBreakForce(other.breakForce)
	j.SetBreakTorque(other.breakTorque)
	j.SetEnableCollision(other.enableCollision)
}
