package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"
)

// EnvConfig names a config file when no -config flag is given.
const EnvConfig = "MIDGARD_RIG_CONFIG"

// ErrInvalid reports a configuration value outside its allowed range.
var ErrInvalid = errors.New("invalid config")

var logLevels = map[string]bool{"": true, "debug": true, "info": true, "warn": true, "error": true}

// Load builds the configuration from defaults, then the first config file
// found, then command line flags.
func Load() (*Config, error) {
	cfg := Default()

	if path := locate(); path != "" {
		if err := loadFromFile(cfg, path); err != nil {
			return nil, fmt.Errorf("loading config from %s: %w", path, err)
		}
	}

	applyFlags(cfg)
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// locate picks the config file: -config, then $MIDGARD_RIG_CONFIG, then
// midgard-rig.yaml or config.yaml in the working directory, then ConfigDir.
func locate() string {
	if p := ConfigPath(); p != "" {
		return p
	}
	if p := os.Getenv(EnvConfig); p != "" {
		return p
	}
	for _, p := range []string{
		"midgard-rig.yaml",
		"config.yaml",
		filepath.Join(ConfigDir(), "config.yaml"),
	} {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// ConfigDir returns the per-user config directory.
func ConfigDir() string {
	switch runtime.GOOS {
	case "darwin":
		home, _ := os.UserHomeDir()
		return filepath.Join(home, "Library", "Application Support", "MidgardRig")
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "MidgardRig")
	}
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "midgard-rig")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "midgard-rig")
}

// loadFromFile merges a YAML file over the values already in cfg.
func loadFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return err
	}
	return cfg.validate()
}

// validate rejects values the viewer cannot run with.
func (c *Config) validate() error {
	if c.Graphics.Width <= 0 || c.Graphics.Height <= 0 {
		return fmt.Errorf("%w: window size %dx%d", ErrInvalid, c.Graphics.Width, c.Graphics.Height)
	}
	if c.Graphics.MSAA < 0 || c.Graphics.MSAA > 16 {
		return fmt.Errorf("%w: msaa %d outside [0, 16]", ErrInvalid, c.Graphics.MSAA)
	}
	if c.Animation.Speed < 0 {
		return fmt.Errorf("%w: negative playback speed %v", ErrInvalid, c.Animation.Speed)
	}
	if !logLevels[c.Logging.Level] {
		return fmt.Errorf("%w: log level %q", ErrInvalid, c.Logging.Level)
	}
	if c.Render.AlphaCut < 0 || c.Render.AlphaCut > 1 {
		return fmt.Errorf("%w: alpha cut %v outside [0, 1]", ErrInvalid, c.Render.AlphaCut)
	}
	if c.Render.Placement.Degenerate() {
		return fmt.Errorf("%w: zero placement scale %v", ErrInvalid, c.Render.Placement.Scale)
	}
	if c.Animation.DefaultTicksPerSecond <= 0 {
		c.Animation.DefaultTicksPerSecond = 25
	}
	return nil
}
