package config

import "flag"

var (
	flagConfig     = flag.String("config", "", "Path to config file")
	flagDebug      = flag.Bool("debug", false, "Enable debug logging")
	flagModel      = flag.String("model", "", "Model to load (.gltf, .glb or .yaml rig)")
	flagWindowed   = flag.Bool("windowed", false, "Run in windowed mode")
	flagFullscreen = flag.Bool("fullscreen", false, "Run in fullscreen mode")
	flagWidth      = flag.Int("width", 0, "Window width")
	flagHeight     = flag.Int("height", 0, "Window height")
	flagSpeed      = flag.Float64("speed", 0, "Playback speed multiplier")
	flagNoLoop     = flag.Bool("no-loop", false, "Stop at the end of the clip")
	flagClip       = flag.String("clip", "", "Initial clip name")
	flagRigid      = flag.Bool("rigid", false, "Force the rigid-part strategy")
	flagBlend      = flag.Bool("blend", false, "Blend opacity materials instead of cutting them out")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagModel != "" {
		cfg.Assets.Model = *flagModel
	}
	if *flagWindowed {
		cfg.Graphics.Fullscreen = false
	}
	if *flagFullscreen {
		cfg.Graphics.Fullscreen = true
	}
	if *flagWidth > 0 {
		cfg.Graphics.Width = *flagWidth
	}
	if *flagHeight > 0 {
		cfg.Graphics.Height = *flagHeight
	}
	if *flagSpeed > 0 {
		cfg.Animation.Speed = *flagSpeed
	}
	if *flagNoLoop {
		cfg.Animation.Loop = false
	}
	if *flagClip != "" {
		cfg.Animation.Clip = *flagClip
	}
	if *flagRigid {
		cfg.Assets.Skinned = false
	}
	if *flagBlend {
		cfg.Render.AlphaTest = false
	}
}
