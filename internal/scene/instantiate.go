package scene

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/jointrig/internal/logger"
	"github.com/Faultbox/jointrig/internal/physics/chipmunk"
	"github.com/Faultbox/jointrig/internal/physics/joint"
	"github.com/Faultbox/jointrig/internal/serialization"
	"github.com/Faultbox/jointrig/pkg/math"
)

// Instantiate creates the scene's bodies in w and attaches every joint.
func (s *Scene) Instantiate(w *chipmunk.World) error {
	for _, b := range s.Bodies {
		_, err := w.AddBody(chipmunk.BodyDesc{
			Name:   b.Name,
			Static: b.Static,
			Mass:   b.Mass,
			Width:  b.Size[0],
			Height: b.Size[1],
			X:      b.Position[0],
			Y:      b.Position[1],
			Angle:  float64(math.Deg2Rad(float32(b.Rotation))),
		})
		if err != nil {
			return fmt.Errorf("body %q: %w", b.Name, err)
		}
	}

	for _, d := range s.Joints {
		body0 := w.Body(d.Body0)
		if body0 == nil {
			return fmt.Errorf("joint %q: %w %q", d.Name, ErrUnknownBody, d.Body0)
		}
		var body1 joint.Body
		if d.Body1 != "" {
			b := w.Body(d.Body1)
			if b == nil {
				return fmt.Errorf("joint %q: %w %q", d.Name, ErrUnknownBody, d.Body1)
			}
			body1 = b
		}
		d.Base().SetBodies(body0, body1)
		if err := d.Attach(w); err != nil {
			return fmt.Errorf("joint %q: %w", d.Name, err)
		}
	}

	logger.Info("scene instantiated",
		zap.Int("bodies", len(s.Bodies)),
		zap.Int("joints", len(s.Joints)))
	return nil
}

// Detach releases every native joint of the scene.
func (s *Scene) Detach() {
	for _, d := range s.Joints {
		d.Detach()
	}
}

// Reload parses data and applies its joint settings to the joints of s,
// which may be live. Bodies, joint kinds and the joint list itself are not
// reloaded. It returns the names of the joints that changed.
func (s *Scene) Reload(data []byte, prefab *Scene) ([]string, error) {
	next, err := Parse(data, prefab)
	if err != nil {
		return nil, err
	}

	var changed []string
	for _, d := range s.Joints {
		n := next.Joint(d.Name)
		if n == nil {
			logger.Warn("joint removed from scene, keeping it until restart", zap.String("joint", d.Name))
			continue
		}
		if n.Type != d.Type || n.Body0 != d.Body0 || n.Body1 != d.Body1 {
			logger.Warn("joint kind or bodies changed, restart to apply", zap.String("joint", d.Name))
			continue
		}
		if !differs(d, n) {
			continue
		}
		d.CopyFrom(n)
		changed = append(changed, d.Name)
	}
	for _, n := range next.Joints {
		if s.Joint(n.Name) == nil {
			logger.Warn("new joint in scene, restart to add it", zap.String("joint", n.Name))
		}
	}

	logger.Info("scene reloaded", zap.Strings("changed", changed))
	return changed, nil
}

func differs(cur, next *JointDef) bool {
	if cur.Script != next.Script || cur.Base().LocalPose() != next.Base().LocalPose() {
		return true
	}
	w := serialization.NewWriter()
	next.Serialize(w, cur)
	return w.Len() > 0
}
