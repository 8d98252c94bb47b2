// Package main prints a model's hierarchy, clips and sampled poses as YAML
// without opening a window.
package main

import (
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/Faultbox/midgard-rig/internal/config"
	"github.com/Faultbox/midgard-rig/internal/engine/headless"
	"github.com/Faultbox/midgard-rig/internal/engine/model"
	"github.com/Faultbox/midgard-rig/internal/importer"
	"github.com/Faultbox/midgard-rig/internal/logger"
)

var (
	flagSamples = flag.Int("samples", 3, "Poses sampled per clip (0 disables)")
	flagNode    = flag.String("node", "", "Only sample this node")
)

func main() {
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}
	// stdout carries the report, so logs go to stderr and stay quiet
	// unless debugging.
	opts := logger.DefaultOptions("warn", cfg.Logging.LogFile)
	opts.Console = os.Stderr
	if cfg.Logging.Level == "debug" {
		opts.Level = "debug"
	}
	if err := logger.InitWith(opts); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()
	log := logger.Named("riginfo")

	src, err := importer.Load(cfg.Assets.Model, importer.Options{
		TicksPerSecond: cfg.Animation.DefaultTicksPerSecond,
		TextureDir:     cfg.Assets.TextureDir,
		Logger:         log,
	})
	if err != nil {
		log.Error("import failed", zap.Error(err))
		os.Exit(1)
	}

	m, err := model.Load(model.LoadContext{Device: headless.NewDevice(), Logger: log}, src, !cfg.Assets.Skinned)
	if err != nil {
		log.Error("load failed", zap.Error(err))
		os.Exit(1)
	}
	defer m.Release()

	rep, err := buildReport(m, reportOptions{
		Clip:    cfg.Animation.Clip,
		Samples: *flagSamples,
		Node:    *flagNode,
	})
	if err != nil {
		log.Error("report failed", zap.Error(err))
		os.Exit(1)
	}

	enc := yaml.NewEncoder(os.Stdout)
	enc.SetIndent(2)
	if err := enc.Encode(rep); err != nil {
		log.Error("encode failed", zap.Error(err))
		os.Exit(1)
	}
	enc.Close()
}
