// Package main is the entry point for the Drape cloth viewer.
package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/Faultbox/drape/internal/config"
	"github.com/Faultbox/drape/internal/logger"
	"github.com/Faultbox/drape/internal/scene"
	"github.com/Faultbox/drape/internal/viewer"
)

func main() {
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	fileCfg := logger.DefaultFileConfig(cfg.Logging.LogFile)
	fileCfg.JSON = cfg.Logging.JSON
	if err := logger.InitWithFileConfig(cfg.Logging.Level, fileCfg, true); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("=== Drape ===")
	logger.Sugar.Debugf("Config: %+v", cfg)

	if cfg.Viewer.Headless {
		if err := runHeadless(cfg); err != nil {
			logger.Error("headless run failed", zap.Error(err))
			os.Exit(1)
		}
		return
	}

	v, err := viewer.New(cfg)
	if err != nil {
		logger.Error("failed to create viewer", zap.Error(err))
		os.Exit(1)
	}
	defer v.Close()

	if err := v.Run(); err != nil {
		logger.Error("viewer error", zap.Error(err))
		os.Exit(1)
	}

	logger.Info("viewer closed normally")
}

// runHeadless steps the scene without a window, logging once per simulated
// second.
func runHeadless(cfg *config.Config) error {
	s, err := scene.FromConfig(cfg, logger.Named("scene"))
	if err != nil {
		return err
	}
	logger.Info("running headless",
		zap.Int("ticks", cfg.Viewer.Ticks),
		zap.Int("tick_rate", cfg.Viewer.TickRate),
	)
	s.Run(cfg.Viewer.Ticks, cfg.TickDuration(), cfg.Viewer.TickRate)
	return nil
}
