package config

import "flag"

var (
	flagConfig       = flag.String("config", "", "Path to config file")
	flagDebug        = flag.Bool("debug", false, "Enable debug logging")
	flagSink         = flag.String("sink", "", "Output device: screen, audio, recorder or null")
	flagWindowed     = flag.Bool("windowed", false, "Run in windowed mode")
	flagFullscreen   = flag.Bool("fullscreen", false, "Run in fullscreen mode")
	flagWidth        = flag.Int("width", 0, "Window width")
	flagHeight       = flag.Int("height", 0, "Window height")
	flagMaxTriangles = flag.Int("max-triangles", 0, "Triangle budget for the frame buffers")
	flagOcclusion    = flag.Bool("occlusion", false, "Enable hidden-line removal")
	flagEdgeAngle    = flag.Float64("edge-angle", -1, "Feature edge threshold in degrees")
	flagFrames       = flag.Int("frames", -1, "Stop after this many frames (0 = run until quit)")
	flagSaveConfig   = flag.Bool("save-config", false, "Write the effective config to the user config directory and exit")
	flagDemo         = flag.String("demo", "", "Demo scene: shapes, cube, torus, sphere or explosion")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// SaveRequested reports whether --save-config was given.
func SaveRequested() bool {
	return *flagSaveConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagSink != "" {
		cfg.Sink.Kind = *flagSink
	}
	if *flagWindowed {
		cfg.Display.Fullscreen = false
	}
	if *flagFullscreen {
		cfg.Display.Fullscreen = true
	}
	if *flagWidth > 0 {
		cfg.Display.Width = *flagWidth
	}
	if *flagHeight > 0 {
		cfg.Display.Height = *flagHeight
	}
	if *flagMaxTriangles > 0 {
		cfg.Pipeline.MaxTriangles = *flagMaxTriangles
	}
	if *flagOcclusion {
		cfg.Pipeline.Occlusion = true
	}
	if *flagEdgeAngle >= 0 {
		cfg.Scene.EdgeAngle = float32(*flagEdgeAngle)
	}
	if *flagFrames >= 0 {
		cfg.Scene.Frames = *flagFrames
	}
	if *flagDemo != "" {
		cfg.Scene.Demo = *flagDemo
	}
}
