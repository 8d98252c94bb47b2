// Package main is the skeletal model studio: the viewer scene rendered
// offscreen and shown inside an imgui window next to a control panel.
package main

import (
	"fmt"
	"os"
	"runtime"

	"go.uber.org/zap"

	"github.com/Faultbox/midgard-rig/internal/config"
	"github.com/Faultbox/midgard-rig/internal/logger"
)

func main() {
	runtime.LockOSThread()
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

	logger.Info("=== midgard-rig studio ===")

	app, err := newStudio(cfg)
	if err != nil {
		logger.Error("failed to start studio", zap.Error(err))
		os.Exit(1)
	}
	defer app.Close()

	app.Run()
}
