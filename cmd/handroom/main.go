// Package main is the entry point for the handroom demo.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/Faultbox/handroom/internal/app"
	"github.com/Faultbox/handroom/internal/config"
	"github.com/Faultbox/handroom/internal/logger"
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

	// Initialize logger
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("=== handroom ===")
	logger.Sugar.Debugf("Config: %+v", cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(cfg, logger.Log)
	if err != nil {
		logger.Error("failed to assemble pipeline", zap.Error(err))
		os.Exit(1)
	}
	defer a.Close()

	if err := a.Run(ctx); err != nil {
		logger.Error("pipeline error", zap.Error(err))
		os.Exit(1)
	}

	logger.Info("shut down normally")
}
