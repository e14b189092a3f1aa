// Package main is the joint rig viewer: it runs a scene and draws it in an
// SDL2 window.
//
// Controls: space pauses, S steps once while paused, R reloads the scene
// file, mouse drag pans, the wheel or -/= zooms, Escape quits.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/jointrig/internal/config"
	"github.com/Faultbox/jointrig/internal/logger"
	"github.com/Faultbox/jointrig/internal/sim"
	"github.com/Faultbox/jointrig/internal/viewer"
	"github.com/Faultbox/jointrig/internal/viewer/camera"
)

const zoomStep = 1.1

func main() {
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("=== jointrig viewer ===")

	if err := run(cfg); err != nil {
		logger.Error("viewer failed", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}
	logger.Info("viewer closed normally")
}

func run(cfg *config.Config) error {
	s, err := sim.New(cfg)
	if err != nil {
		return err
	}
	defer s.Close()

	win, err := viewer.New(viewer.Config{
		Title:  "jointrig - " + cfg.Scene.Path,
		Width:  cfg.Viewer.Width,
		Height: cfg.Viewer.Height,
		VSync:  cfg.Viewer.VSync,
	})
	if err != nil {
		return fmt.Errorf("failed to create window: %w", err)
	}
	defer win.Close()

	width, height := win.GetSize()
	cam := camera.New(width, height, cfg.Viewer.PixelsPerMeter)
	input := viewer.NewInput()

	ctx := context.Background()
	step := time.Duration(cfg.Simulation.TimeStep * float64(time.Second))
	var acc time.Duration
	last := time.Now()
	paused := false

	for {
		if input.Update() {
			break
		}

		stepOnce := false
		for _, e := range input.Events() {
			switch e.Type {
			case viewer.EventWindowResize:
				cam.Resize(e.Width, e.Height)
			case viewer.EventDrag:
				cam.Pan(e.DX, e.DY)
			case viewer.EventWheel:
				if e.Wheel > 0 {
					cam.Zoom(zoomStep, e.MouseX, e.MouseY)
				} else if e.Wheel < 0 {
					cam.Zoom(1/zoomStep, e.MouseX, e.MouseY)
				}
			case viewer.EventKeyDown:
				switch e.Key {
				case sdl.SCANCODE_SPACE:
					paused = !paused
				case sdl.SCANCODE_S:
					stepOnce = paused
				case sdl.SCANCODE_R:
					if err := s.Reload(cfg.Scene.Path); err != nil {
						logger.Warn("scene reload failed", zap.Error(err))
					}
				case sdl.SCANCODE_EQUALS:
					cam.Zoom(zoomStep, cam.Width/2, cam.Height/2)
				case sdl.SCANCODE_MINUS:
					cam.Zoom(1/zoomStep, cam.Width/2, cam.Height/2)
				}
			}
		}

		now := time.Now()
		frame := now.Sub(last)
		last = now
		if paused {
			acc = 0
			if stepOnce {
				s.Step(ctx)
			}
		} else {
			// cap catch-up after a stall
			acc = min(acc+frame, 10*step)
			for acc >= step {
				s.Step(ctx)
				acc -= step
			}
		}

		win.Draw(cam, s.World(), s.Scene().Joints)
		win.Present()
		if !cfg.Viewer.VSync {
			time.Sleep(time.Millisecond)
		}
	}
	return nil
}
