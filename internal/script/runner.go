package script

import (
	"context"
	"fmt"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/Faultbox/jointrig/internal/logger"
	"github.com/Faultbox/jointrig/internal/scene"
)

// Runner steps the controllers of every scripted joint in a scene.
// A controller whose run fails is disabled until the next Load.
type Runner struct {
	controllers []*Controller
	disabled    map[*Controller]bool
	time        float64
	log         *zap.Logger
}

// NewRunner compiles the scripts of s. Relative script paths are resolved
// against dir, normally the scene file's directory.
func NewRunner(s *scene.Scene, dir string) (*Runner, error) {
	r := &Runner{log: logger.Named("script")}
	if err := r.Load(s, dir); err != nil {
		return nil, err
	}
	return r, nil
}

// Load replaces the controllers with freshly compiled ones for s. The
// simulation time is kept.
func (r *Runner) Load(s *scene.Scene, dir string) error {
	var controllers []*Controller
	for _, d := range s.Joints {
		if d.Script == "" {
			continue
		}
		path := d.Script
		if !filepath.IsAbs(path) {
			path = filepath.Join(dir, path)
		}
		c, err := Load(path, d)
		if err != nil {
			return fmt.Errorf("joint %q: %w", d.Name, err)
		}
		controllers = append(controllers, c)
	}

	r.controllers = controllers
	r.disabled = make(map[*Controller]bool)
	r.log.Debug("scripts loaded", zap.Int("count", len(controllers)))
	return nil
}

// Len returns the number of controllers.
func (r *Runner) Len() int { return len(r.controllers) }

// Time returns the simulation time seen by the scripts.
func (r *Runner) Time() float64 { return r.time }

// Step runs every enabled controller, then advances the time by dt.
func (r *Runner) Step(ctx context.Context, dt float64) {
	for _, c := range r.controllers {
		if r.disabled[c] {
			continue
		}
		if err := c.Step(ctx, r.time, dt); err != nil {
			r.disabled[c] = true
			r.log.Warn("script failed, disabling it",
				zap.String("joint", c.Joint.Name),
				zap.String("path", c.Path),
				zap.Error(err))
		}
	}
	r.time += dt
}
