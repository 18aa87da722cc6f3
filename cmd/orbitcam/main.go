// Package main is the entry point for the orbitcam recorder.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/orbitcam/internal/config"
	"github.com/Faultbox/orbitcam/internal/gaiasky"
	"github.com/Faultbox/orbitcam/internal/gateway"
	"github.com/Faultbox/orbitcam/internal/logger"
	"github.com/Faultbox/orbitcam/internal/metrics"
	"github.com/Faultbox/orbitcam/internal/script"
)

func main() {
	// Parse CLI flags first
	config.ParseFlags()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	if path := config.InitConfigPath(); path != "" {
		if err := cfg.SaveTo(path); err != nil {
			fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Wrote config to %s\n", path)
		return
	}

	// Initialize logger
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("=== orbitcam ===")
	logger.Sugar.Debugf("Config: %+v", cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		logger.Error("recording failed", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config) error {
	s, err := loadScript(cfg)
	if err != nil {
		return err
	}

	if cfg.Scenario.Dump != "" {
		if err := s.Save(cfg.Scenario.Dump); err != nil {
			return fmt.Errorf("writing script: %w", err)
		}
		logger.Info("script written", zap.String("path", cfg.Scenario.Dump), zap.Int("steps", len(s.Steps)))
		return nil
	}

	m := metrics.New()

	var invoker gaiasky.Invoker
	if cfg.Scenario.DryRun {
		invoker = gaiasky.NewRecorder(os.Stdout)
	} else {
		client := gateway.New()
		if err := client.Connect(ctx, cfg.Host.Address, cfg.Host.ConnectTimeout); err != nil {
			return fmt.Errorf("connecting to Gaia Sky: %w", err)
		}
		defer client.Close()
		logger.Info("connected", zap.String("addr", client.Addr()))
		invoker = gaiasky.NewRemote(client, m, logger.Named("host"))
	}

	player := script.NewPlayer(invoker, m, logger.Named("player"))
	playErr := player.Play(ctx, s)
	if playErr == nil {
		m.RunSucceeded(time.Now())
		if cfg.Frames.Save {
			if dir := s.FrameDirectory(); dir != "" {
				logger.Info("frames saved", zap.String("dir", dir))
			} else {
				logger.Info("frames saved to the host's configured directory")
			}
		}
	}

	if cfg.Metrics.Textfile != "" {
		if err := m.WriteTextfile(cfg.Metrics.Textfile); err != nil {
			logger.Warn("failed to write metrics", zap.String("path", cfg.Metrics.Textfile), zap.Error(err))
		}
	}
	return playErr
}

// loadScript returns the scenario file if one is configured, else the
// built-in choreography.
func loadScript(cfg *config.Config) (*script.Script, error) {
	if cfg.Scenario.File != "" {
		s, err := script.Load(cfg.Scenario.File)
		if err != nil {
			return nil, err
		}
		s.SaveFrames(cfg.Frames.Save)
		logger.Info("loaded scenario", zap.String("file", cfg.Scenario.File), zap.String("name", s.Name))
		return s, nil
	}

	f := cfg.Frames
	// The host resolves relative paths against its own working directory.
	dir, err := filepath.Abs(f.Directory)
	if err != nil {
		return nil, fmt.Errorf("frames directory: %w", err)
	}
	return script.Lugduna(script.Options{
		SaveFrames: f.Save,
		Frames: &script.FrameSpec{
			Width:     f.Width,
			Height:    f.Height,
			FPS:       f.FPS,
			Directory: dir,
			Prefix:    f.Prefix,
			Mode:      f.Mode,
		},
	}), nil
}
