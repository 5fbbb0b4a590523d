// Package main is the entry point for the scopewire oscilloscope renderer.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/Faultbox/scopewire/internal/app"
	"github.com/Faultbox/scopewire/internal/config"
	"github.com/Faultbox/scopewire/internal/logger"
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

	logger.Info("=== scopewire ===", zap.String("sink", cfg.Sink.Kind), zap.String("demo", cfg.Scene.Demo))
	logger.Debug("effective config", zap.Any("config", cfg))

	if config.SaveRequested() {
		saveConfig(cfg)
		return
	}

	if err := run(cfg); err != nil {
		logger.Fatal("scopewire stopped", zap.Error(err))
	}
	logger.Info("closed normally")
}

// saveConfig writes the effective config to the user config directory.
func saveConfig(cfg *config.Config) {
	if _, err := os.Stat(config.UserConfigPath()); err == nil {
		logger.Warn("overwriting existing config", zap.String("path", config.UserConfigPath()))
	}
	path, err := cfg.Save()
	if err != nil {
		logger.Fatal("saving config", zap.Error(err))
	}
	logger.Info("config saved", zap.String("path", path))
}

func run(cfg *config.Config) error {
	s, err := openSink(cfg)
	if err != nil {
		return err
	}

	a, err := app.New(cfg, s)
	if err != nil {
		s.Close()
		return err
	}
	defer func() {
		if err := a.Shutdown(); err != nil {
			logger.Error("shutdown failed", zap.Error(err))
		}
	}()

	if err := a.Initialize(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return a.Run(ctx)
}
