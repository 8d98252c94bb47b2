// Package config handles viewer configuration loading and management.
package config

import (
	"github.com/Faultbox/midgard-rig/internal/engine/lighting"
	"github.com/Faultbox/midgard-rig/internal/engine/model"
)

// Config holds all viewer settings.
type Config struct {
	Graphics  GraphicsConfig  `yaml:"graphics"`
	Animation AnimationConfig `yaml:"animation"`
	Assets    AssetsConfig    `yaml:"assets"`
	Render    RenderConfig    `yaml:"render"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// GraphicsConfig holds display settings.
type GraphicsConfig struct {
	Width      int  `yaml:"width"`
	Height     int  `yaml:"height"`
	Fullscreen bool `yaml:"fullscreen"`
	VSync      bool `yaml:"vsync"`
	MSAA       int  `yaml:"msaa"`
}

// AnimationConfig holds playback settings.
type AnimationConfig struct {
	Autoplay              bool    `yaml:"autoplay"`
	Loop                  bool    `yaml:"loop"`
	Speed                 float64 `yaml:"speed"`
	DefaultTicksPerSecond float64 `yaml:"default_ticks_per_second"` // used when a file has none
	Clip                  string  `yaml:"clip"`                     // initial clip, empty for the first
}

// AssetsConfig holds model and texture locations.
type AssetsConfig struct {
	Model      string `yaml:"model"` // .gltf/.glb or .yaml rig; empty loads the built-in rig
	TextureDir string `yaml:"texture_dir"`
	Skinned    bool   `yaml:"skinned"` // false forces the rigid strategy
}

// RenderConfig holds draw settings.
type RenderConfig struct {
	AlphaTest  bool            `yaml:"alpha_test"` // cut out opacity materials instead of blending them
	AlphaCut   float32         `yaml:"alpha_cut"`
	ClearColor [4]float32      `yaml:"clear_color"`
	Wireframe  bool            `yaml:"wireframe"`
	Sun        lighting.Sun    `yaml:"sun"`
	Placement  model.Placement `yaml:"placement"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Graphics: GraphicsConfig{
			Width:  1280,
			Height: 720,
			VSync:  true,
			MSAA:   4,
		},
		Animation: AnimationConfig{
			Autoplay:              true,
			Loop:                  true,
			Speed:                 1,
			DefaultTicksPerSecond: 25,
		},
		Assets: AssetsConfig{
			Skinned: true,
		},
		Render: RenderConfig{
			AlphaTest:  true,
			AlphaCut:   0.5,
			ClearColor: [4]float32{0.18, 0.2, 0.24, 1},
			Sun:        lighting.DefaultSun(),
			Placement:  model.DefaultPlacement(),
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}
