// Package config handles configuration loading and management.
package config

import (
	"errors"
	"fmt"
	"time"
)

// Sink kinds.
const (
	SinkScreen   = "screen"
	SinkAudio    = "audio"
	SinkRecorder = "recorder"
	SinkNull     = "null"
)

// ErrInvalid is returned by Validate for settings the host cannot run with.
var ErrInvalid = errors.New("invalid config")

// Config holds all settings.
type Config struct {
	Display  DisplayConfig  `yaml:"display"`
	Pipeline PipelineConfig `yaml:"pipeline"`
	Sink     SinkConfig     `yaml:"sink"`
	Audio    AudioConfig    `yaml:"audio"`
	Scene    SceneConfig    `yaml:"scene"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// DisplayConfig holds window settings for the on-screen sink.
type DisplayConfig struct {
	Width      int  `yaml:"width"`
	Height     int  `yaml:"height"`
	Fullscreen bool `yaml:"fullscreen"`
	VSync      bool `yaml:"vsync"`
	// Aspect overrides the horizontal scale of emitted lines; 0 uses the
	// sink's viewport.
	Aspect float32 `yaml:"aspect"`
	// Decay is the phosphor persistence per frame, 0..1.
	Decay float32 `yaml:"decay"`
}

// PipelineConfig holds geometry pipeline settings.
type PipelineConfig struct {
	MaxTriangles  int     `yaml:"max_triangles"`
	Workers       int     `yaml:"workers"` // 0 = GOMAXPROCS
	Jitter        float32 `yaml:"jitter"`
	Seed          uint64  `yaml:"seed"`
	CullBackFaces bool    `yaml:"cull_back_faces"`
	Occlusion     bool    `yaml:"occlusion"`
	WeldVertices  bool    `yaml:"weld_vertices"`
	WeldEpsilon   float32 `yaml:"weld_epsilon"`
	StatsInterval int     `yaml:"stats_interval"`
}

// SinkConfig selects and tunes the output device.
type SinkConfig struct {
	Kind            string  `yaml:"kind"`
	Intensity       float32 `yaml:"intensity"`
	BorderRadius    float32 `yaml:"border_radius"`
	BorderIntensity float32 `yaml:"border_intensity"`
	// SnapshotPath, when set, receives PNG captures of recorded frames.
	SnapshotPath string `yaml:"snapshot_path"`
}

// AudioConfig holds XY audio output settings.
type AudioConfig struct {
	SampleRate int           `yaml:"sample_rate"`
	BeamSpeed  float64       `yaml:"beam_speed"` // display units per second
	ScaleX     float64       `yaml:"scale_x"`
	ScaleY     float64       `yaml:"scale_y"`
	Buffer     time.Duration `yaml:"buffer"`
}

// SceneConfig holds demo scene settings.
type SceneConfig struct {
	Demo      string  `yaml:"demo"`
	EdgeAngle float32 `yaml:"edge_angle"` // degrees
	// Frames stops the host after this many frames; 0 runs until quit.
	Frames   int     `yaml:"frames"`
	AutoSpin float32 `yaml:"auto_spin"` // camera degrees per second
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Display: DisplayConfig{
			Width:      900,
			Height:     900,
			Fullscreen: false,
			VSync:      true,
			Decay:      0.55,
		},
		Pipeline: PipelineConfig{
			MaxTriangles:  20000,
			Jitter:        0,
			Seed:          1,
			CullBackFaces: true,
			Occlusion:     false,
			WeldVertices:  true,
			WeldEpsilon:   1e-5,
			StatsInterval: 300,
		},
		Sink: SinkConfig{
			Kind:            SinkScreen,
			Intensity:       1,
			BorderRadius:    0.5,
			BorderIntensity: 0.35,
		},
		Audio: AudioConfig{
			SampleRate: 48000,
			BeamSpeed:  400,
			ScaleX:     1,
			ScaleY:     1,
			Buffer:     33 * time.Millisecond,
		},
		Scene: SceneConfig{
			Demo:      "shapes",
			EdgeAngle: 30,
			AutoSpin:  15,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// Validate reports settings the host cannot run with.
func (c *Config) Validate() error {
	switch c.Sink.Kind {
	case SinkScreen, SinkAudio, SinkRecorder, SinkNull:
	default:
		return fmt.Errorf("%w: unknown sink kind %q", ErrInvalid, c.Sink.Kind)
	}
	if c.Pipeline.MaxTriangles <= 0 {
		return fmt.Errorf("%w: max_triangles must be positive, got %d", ErrInvalid, c.Pipeline.MaxTriangles)
	}
	if c.Scene.EdgeAngle < 0 || c.Scene.EdgeAngle > 360 {
		return fmt.Errorf("%w: edge_angle %v outside [0, 360]", ErrInvalid, c.Scene.EdgeAngle)
	}
	if c.Sink.Kind == SinkAudio && c.Audio.BeamSpeed <= 0 {
		return fmt.Errorf("%w: beam_speed must be positive", ErrInvalid)
	}
	return nil
}
