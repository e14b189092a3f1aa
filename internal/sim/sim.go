// Package sim runs a scene on the chipmunk backend: it steps the world and
// the drive scripts, logs joint telemetry and hot-reloads joint settings.
package sim

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/jointrig/internal/config"
	"github.com/Faultbox/jointrig/internal/logger"
	"github.com/Faultbox/jointrig/internal/physics/chipmunk"
	"github.com/Faultbox/jointrig/internal/scene"
	"github.com/Faultbox/jointrig/internal/script"
)

// Sim is a running scene.
type Sim struct {
	cfg *config.Config
	log *zap.Logger

	world      *chipmunk.World
	scene      *scene.Scene
	prefab     *scene.Scene
	prefabPath string
	scripts    *script.Runner
	watcher    *scene.Watcher

	steps int
}

// New loads the configured scene and attaches it to a fresh world.
func New(cfg *config.Config) (*Sim, error) {
	s := &Sim{cfg: cfg, log: logger.Named("sim")}

	var err error
	if cfg.Scene.Prefab != "" {
		// the configured prefab replaces the one the scene names
		s.prefabPath = cfg.Scene.Prefab
		if s.prefab, err = scene.Load(s.prefabPath); err != nil {
			return nil, fmt.Errorf("loading prefab: %w", err)
		}
		if s.scene, err = scene.LoadWithPrefab(cfg.Scene.Path, s.prefab); err != nil {
			return nil, err
		}
	} else {
		if s.scene, err = scene.Load(cfg.Scene.Path); err != nil {
			return nil, err
		}
		if s.scene.Prefab != "" {
			s.prefabPath = scene.PrefabPath(cfg.Scene.Path, s.scene.Prefab)
			if s.prefab, err = scene.Load(s.prefabPath); err != nil {
				return nil, fmt.Errorf("loading prefab: %w", err)
			}
		}
	}

	sc := cfg.Simulation
	s.world = chipmunk.NewWorld(sc.Gravity, sc.Iterations)
	if err := s.scene.Instantiate(s.world); err != nil {
		return nil, err
	}

	if cfg.Scene.Scripts {
		s.scripts, err = script.NewRunner(s.scene, filepath.Dir(cfg.Scene.Path))
		if err != nil {
			s.scene.Detach()
			return nil, err
		}
	}

	if cfg.Scene.Watch {
		paths := []string{cfg.Scene.Path}
		if s.prefabPath != "" {
			paths = append(paths, s.prefabPath)
		}
		s.watcher, err = scene.NewWatcher(scene.DefaultDebounce, paths...)
		if err != nil {
			s.scene.Detach()
			return nil, fmt.Errorf("watching scene: %w", err)
		}
	}

	s.log.Info("simulation ready",
		zap.String("scene", cfg.Scene.Path),
		zap.String("prefab", s.prefabPath),
		zap.Bool("watch", cfg.Scene.Watch),
		zap.Bool("scripts", s.scripts != nil))
	return s, nil
}

// World returns the physics world.
func (s *Sim) World() *chipmunk.World { return s.world }

// Scene returns the running scene.
func (s *Sim) Scene() *scene.Scene { return s.scene }

// Steps returns the number of steps taken.
func (s *Sim) Steps() int { return s.steps }

// Time returns the simulated time in seconds.
func (s *Sim) Time() float64 { return float64(s.steps) * s.cfg.Simulation.TimeStep }

// Step advances the simulation by one time step. Pending scene changes are
// applied first.
func (s *Sim) Step(ctx context.Context) {
	s.pollWatcher()

	dt := s.cfg.Simulation.TimeStep
	if s.scripts != nil {
		s.scripts.Step(ctx, dt)
	}
	s.world.Step(dt)
	s.steps++

	if n := s.cfg.Simulation.TelemetryEvery; n > 0 && s.steps%n == 0 {
		s.LogTelemetry()
	}
}

// Run steps until the configured step count is reached or ctx is done. A
// step count of zero runs until ctx is done. While watching, steps are
// paced to real time so edits can be observed.
func (s *Sim) Run(ctx context.Context) error {
	var tick <-chan time.Time
	if s.watcher != nil {
		ticker := time.NewTicker(time.Duration(s.cfg.Simulation.TimeStep * float64(time.Second)))
		defer ticker.Stop()
		tick = ticker.C
	}

	s.log.Info("starting simulation", zap.Int("steps", s.cfg.Simulation.Steps))
	start := time.Now()
	for limit := s.cfg.Simulation.Steps; limit <= 0 || s.steps < limit; {
		if tick != nil {
			select {
			case <-ctx.Done():
				return s.stopped(ctx, start)
			case <-tick:
			}
		} else if ctx.Err() != nil {
			return s.stopped(ctx, start)
		}
		s.Step(ctx)
	}

	s.log.Info("simulation finished",
		zap.Int("steps", s.steps),
		zap.Float64("sim_time", s.Time()),
		zap.Duration("elapsed", time.Since(start)))
	return nil
}

func (s *Sim) stopped(ctx context.Context, start time.Time) error {
	s.log.Info("simulation interrupted",
		zap.Int("steps", s.steps),
		zap.Duration("elapsed", time.Since(start)))
	if ctx.Err() == context.Canceled {
		return nil
	}
	return ctx.Err()
}

// LogTelemetry logs the live state of every joint.
func (s *Sim) LogTelemetry() {
	for _, d := range s.scene.Joints {
		fields := []zap.Field{
			zap.String("joint", d.Name),
			zap.Float64("time", s.Time()),
			zap.Bool("broken", d.Base().Broken()),
		}
		switch {
		case d.Hinge != nil:
			fields = append(fields,
				zap.Float32("angle", d.Hinge.CurrentAngle()),
				zap.Float32("velocity", d.Hinge.CurrentVelocity()))
		case d.D6 != nil:
			fields = append(fields,
				zap.Float32("twist", d.D6.CurrentTwist()),
				zap.Float32("swing_y", d.D6.CurrentSwingYAngle()),
				zap.Float32("swing_z", d.D6.CurrentSwingZAngle()))
		}
		s.log.Info("telemetry", fields...)
	}
}

func (s *Sim) pollWatcher() {
	if s.watcher == nil {
		return
	}
	for {
		select {
		case path, ok := <-s.watcher.Events:
			if !ok {
				s.watcher = nil
				return
			}
			if err := s.Reload(path); err != nil {
				s.log.Warn("scene reload failed", zap.String("path", path), zap.Error(err))
			}
		case err, ok := <-s.watcher.Errors:
			if !ok {
				s.watcher = nil
				return
			}
			s.log.Warn("scene watcher error", zap.Error(err))
		default:
			return
		}
	}
}

// Reload re-reads the scene (and its prefab when changed is the prefab
// file) and applies joint changes to the running joints. Scripts are
// recompiled.
func (s *Sim) Reload(changed string) error {
	if s.prefabPath != "" && sameFile(changed, s.prefabPath) {
		prefab, err := scene.Load(s.prefabPath)
		if err != nil {
			return fmt.Errorf("loading prefab: %w", err)
		}
		s.prefab = prefab
	}

	data, err := os.ReadFile(s.cfg.Scene.Path)
	if err != nil {
		return fmt.Errorf("reading scene: %w", err)
	}
	names, err := s.scene.Reload(data, s.prefab)
	if err != nil {
		return fmt.Errorf("reloading %s: %w", s.cfg.Scene.Path, err)
	}

	if s.scripts != nil {
		if err := s.scripts.Load(s.scene, filepath.Dir(s.cfg.Scene.Path)); err != nil {
			return err
		}
	}
	s.log.Info("joints updated", zap.Strings("joints", names))
	return nil
}

func sameFile(a, b string) bool {
	aa, err1 := filepath.Abs(a)
	bb, err2 := filepath.Abs(b)
	return err1 == nil && err2 == nil && aa == bb
}

// Save writes the running scene's joint settings to path. With delta set,
// joint configs are written as overrides of the prefab, and the written
// prefab reference points at the prefab the simulation runs against.
func (s *Sim) Save(path string, delta bool) error {
	if !delta {
		return s.scene.Save(path)
	}
	if s.prefab == nil {
		return fmt.Errorf("delta save: scene has no prefab")
	}
	return s.scene.SaveDelta(path, s.prefab, s.prefabPath)
}

// Close detaches the scene and stops watching.
func (s *Sim) Close() {
	if s.watcher != nil {
		if err := s.watcher.Close(); err != nil {
			s.log.Warn("closing watcher", zap.Error(err))
		}
	}
	s.scene.Detach()
	s.log.Info("simulation closed", zap.Int("steps", s.steps))
}
