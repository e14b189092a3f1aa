// Package main is the headless joint rig simulator.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/Faultbox/jointrig/internal/config"
	"github.com/Faultbox/jointrig/internal/logger"
	"github.com/Faultbox/jointrig/internal/sim"
)

func main() {
	// Parse CLI flags first
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

	logger.Info("=== jointrig simulator ===")
	logger.Sugar.Debugf("Config: %+v", cfg)

	if err := run(cfg); err != nil {
		logger.Error("simulation failed", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	s, err := sim.New(cfg)
	if err != nil {
		return err
	}
	defer s.Close()

	if err := s.Run(ctx); err != nil {
		return err
	}
	s.LogTelemetry()

	if path := config.SavePath(); path != "" {
		if err := s.Save(path, config.SaveDelta()); err != nil {
			return fmt.Errorf("saving scene: %w", err)
		}
		logger.Info("scene saved", zap.String("path", path), zap.Bool("delta", config.SaveDelta()))
	}
	return nil
}
