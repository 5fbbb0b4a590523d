package config

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	// Test display defaults
	if cfg.Display.Width != 900 || cfg.Display.Height != 900 {
		t.Errorf("expected 900x900, got %dx%d", cfg.Display.Width, cfg.Display.Height)
	}
	if cfg.Display.Fullscreen {
		t.Error("expected fullscreen to be false by default")
	}
	if !cfg.Display.VSync {
		t.Error("expected vsync to be true by default")
	}

	// Test pipeline defaults
	if cfg.Pipeline.MaxTriangles != 20000 {
		t.Errorf("expected max triangles 20000, got %d", cfg.Pipeline.MaxTriangles)
	}
	if !cfg.Pipeline.CullBackFaces {
		t.Error("expected back-face culling by default")
	}
	if cfg.Pipeline.Occlusion {
		t.Error("expected occlusion to be off by default")
	}

	// Test sink defaults
	if cfg.Sink.Kind != SinkScreen {
		t.Errorf("expected sink %q, got %q", SinkScreen, cfg.Sink.Kind)
	}
	if cfg.Sink.BorderRadius != 0.5 || cfg.Sink.BorderIntensity != 0.35 {
		t.Errorf("unexpected border %v @ %v", cfg.Sink.BorderRadius, cfg.Sink.BorderIntensity)
	}

	// Test audio defaults
	if cfg.Audio.SampleRate != 48000 {
		t.Errorf("expected sample rate 48000, got %d", cfg.Audio.SampleRate)
	}

	// Test scene defaults
	if cfg.Scene.EdgeAngle != 30 {
		t.Errorf("expected edge angle 30, got %v", cfg.Scene.EdgeAngle)
	}

	// Test logging defaults
	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level 'info', got %s", cfg.Logging.Level)
	}
	if cfg.Logging.LogFile != "" {
		t.Errorf("expected empty log file, got %s", cfg.Logging.LogFile)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestLoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
display:
  width: 1920
  height: 1080
  fullscreen: true
  vsync: false
  aspect: 1.333

pipeline:
  max_triangles: 5000
  workers: 2
  jitter: 0.002
  seed: 42
  cull_back_faces: false
  occlusion: true

sink:
  kind: audio
  border_radius: 0
  snapshot_path: "captures"

audio:
  sample_rate: 96000
  beam_speed: 250
  scale_y: -1
  buffer: 50ms

scene:
  demo: torus
  edge_angle: 45
  frames: 120

logging:
  level: "debug"
  log_file: "scope.log"
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Display.Width != 1920 || cfg.Display.Height != 1080 {
		t.Errorf("expected 1920x1080, got %dx%d", cfg.Display.Width, cfg.Display.Height)
	}
	if !cfg.Display.Fullscreen || cfg.Display.VSync {
		t.Error("expected fullscreen without vsync")
	}
	if cfg.Display.Aspect != 1.333 {
		t.Errorf("expected aspect 1.333, got %v", cfg.Display.Aspect)
	}

	if cfg.Pipeline.MaxTriangles != 5000 || cfg.Pipeline.Workers != 2 || cfg.Pipeline.Seed != 42 {
		t.Errorf("unexpected pipeline %+v", cfg.Pipeline)
	}
	if cfg.Pipeline.CullBackFaces || !cfg.Pipeline.Occlusion {
		t.Error("expected culling off and occlusion on")
	}
	// Unset keys keep their defaults.
	if cfg.Pipeline.StatsInterval != 300 {
		t.Errorf("expected stats interval 300, got %d", cfg.Pipeline.StatsInterval)
	}

	if cfg.Sink.Kind != SinkAudio || cfg.Sink.BorderRadius != 0 || cfg.Sink.SnapshotPath != "captures" {
		t.Errorf("unexpected sink %+v", cfg.Sink)
	}
	if cfg.Sink.BorderIntensity != 0.35 {
		t.Errorf("expected default border intensity, got %v", cfg.Sink.BorderIntensity)
	}

	if cfg.Audio.SampleRate != 96000 || cfg.Audio.BeamSpeed != 250 || cfg.Audio.ScaleY != -1 {
		t.Errorf("unexpected audio %+v", cfg.Audio)
	}
	if cfg.Audio.Buffer != 50*time.Millisecond {
		t.Errorf("expected buffer 50ms, got %v", cfg.Audio.Buffer)
	}

	if cfg.Scene.Demo != "torus" || cfg.Scene.EdgeAngle != 45 || cfg.Scene.Frames != 120 {
		t.Errorf("unexpected scene %+v", cfg.Scene)
	}

	if cfg.Logging.Level != "debug" {
		t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
	}
	if cfg.Logging.LogFile != "scope.log" {
		t.Errorf("expected log file 'scope.log', got %s", cfg.Logging.LogFile)
	}
}

func TestLoadFromFileInvalid(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "invalid.yaml")

	invalidYAML := `
pipeline:
  max_triangles: not a number
  invalid syntax here
`

	if err := os.WriteFile(configPath, []byte(invalidYAML), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err == nil {
		t.Error("expected error loading invalid YAML, got nil")
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	cfg := Default()
	if err := loadFromFile(cfg, "/nonexistent/path/config.yaml"); err == nil {
		t.Error("expected error loading missing file, got nil")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"recorder sink", func(c *Config) { c.Sink.Kind = SinkRecorder }, false},
		{"unknown sink", func(c *Config) { c.Sink.Kind = "laser" }, true},
		{"zero budget", func(c *Config) { c.Pipeline.MaxTriangles = 0 }, true},
		{"negative angle", func(c *Config) { c.Scene.EdgeAngle = -1 }, true},
		{"angle past sentinel", func(c *Config) { c.Scene.EdgeAngle = 361 }, true},
		{"boundary only", func(c *Config) { c.Scene.EdgeAngle = 360 }, false},
		{"audio without speed", func(c *Config) { c.Sink.Kind = SinkAudio; c.Audio.BeamSpeed = 0 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalid) {
				t.Errorf("error %v does not wrap ErrInvalid", err)
			}
		})
	}
}

func TestConfigDir(t *testing.T) {
	dir := ConfigDir()

	if dir == "" {
		t.Error("ConfigDir returned empty string")
	}
	if !filepath.IsAbs(dir) {
		t.Errorf("ConfigDir should return absolute path, got %s", dir)
	}
}

func TestFindConfigFile(t *testing.T) {
	origDir, _ := os.Getwd()
	defer os.Chdir(origDir)

	tmpDir := t.TempDir()
	os.Chdir(tmpDir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmpDir, "xdg"))
	t.Setenv("HOME", tmpDir)
	t.Setenv(EnvConfig, "")

	if path := findConfigFile(); path != "" {
		t.Errorf("expected empty path when no config exists, got %s", path)
	}

	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte("display:\n  width: 800\n"), 0644); err != nil {
		t.Fatalf("failed to create test config: %v", err)
	}

	if path := findConfigFile(); path == "" {
		t.Error("expected to find config.yaml in current directory")
	}

	envPath := filepath.Join(tmpDir, "elsewhere.yaml")
	if err := os.WriteFile(envPath, []byte("display:\n  width: 640\n"), 0644); err != nil {
		t.Fatalf("failed to create env config: %v", err)
	}
	t.Setenv(EnvConfig, envPath)
	if path := findConfigFile(); path != envPath {
		t.Errorf("expected %s from %s, got %s", envPath, EnvConfig, path)
	}
}

func TestApplyFlags(t *testing.T) {
	tests := []struct {
		name     string
		setup    func()
		verify   func(*testing.T, *Config)
		teardown func()
	}{
		{
			name:  "debug flag",
			setup: func() { *flagDebug = true },
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Logging.Level != "debug" {
					t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
				}
			},
			teardown: func() { *flagDebug = false },
		},
		{
			name:  "sink flag",
			setup: func() { *flagSink = SinkNull },
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Sink.Kind != SinkNull {
					t.Errorf("expected sink null, got %s", cfg.Sink.Kind)
				}
			},
			teardown: func() { *flagSink = "" },
		},
		{
			name:  "demo flag",
			setup: func() { *flagDemo = "torus" },
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Scene.Demo != "torus" {
					t.Errorf("expected demo torus, got %s", cfg.Scene.Demo)
				}
			},
			teardown: func() { *flagDemo = "" },
		},
		{
			name:  "windowed flag",
			setup: func() { *flagWindowed = true },
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Display.Fullscreen {
					t.Error("expected fullscreen to be false with windowed flag")
				}
			},
			teardown: func() { *flagWindowed = false },
		},
		{
			name:  "fullscreen flag",
			setup: func() { *flagFullscreen = true },
			verify: func(t *testing.T, cfg *Config) {
				if !cfg.Display.Fullscreen {
					t.Error("expected fullscreen to be true with fullscreen flag")
				}
			},
			teardown: func() { *flagFullscreen = false },
		},
		{
			name: "width and height flags",
			setup: func() {
				*flagWidth = 2560
				*flagHeight = 1440
			},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Display.Width != 2560 || cfg.Display.Height != 1440 {
					t.Errorf("expected 2560x1440, got %dx%d", cfg.Display.Width, cfg.Display.Height)
				}
			},
			teardown: func() {
				*flagWidth = 0
				*flagHeight = 0
			},
		},
		{
			name: "pipeline flags",
			setup: func() {
				*flagMaxTriangles = 100
				*flagOcclusion = true
			},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Pipeline.MaxTriangles != 100 || !cfg.Pipeline.Occlusion {
					t.Errorf("unexpected pipeline %+v", cfg.Pipeline)
				}
			},
			teardown: func() {
				*flagMaxTriangles = 0
				*flagOcclusion = false
			},
		},
		{
			name: "scene flags",
			setup: func() {
				*flagEdgeAngle = 0
				*flagFrames = 10
			},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Scene.EdgeAngle != 0 {
					t.Errorf("expected edge angle 0, got %v", cfg.Scene.EdgeAngle)
				}
				if cfg.Scene.Frames != 10 {
					t.Errorf("expected 10 frames, got %d", cfg.Scene.Frames)
				}
			},
			teardown: func() {
				*flagEdgeAngle = -1
				*flagFrames = -1
			},
		},
		{
			name:  "unset flags keep defaults",
			setup: func() {},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Scene.EdgeAngle != 30 || cfg.Scene.Frames != 0 {
					t.Errorf("defaults changed: %+v", cfg.Scene)
				}
			},
			teardown: func() {},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setup()
			defer tt.teardown()

			cfg := Default()
			applyFlags(cfg)
			tt.verify(t, cfg)
		})
	}
}

func TestLoadPriority(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
display:
  width: 1600
  height: 1000
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	*flagConfig = configPath
	*flagWidth = 1920
	defer func() {
		*flagConfig = ""
		*flagWidth = 0
	}()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	// Width should be from flag (1920), not file (1600)
	if cfg.Display.Width != 1920 {
		t.Errorf("expected width 1920 from flag, got %d", cfg.Display.Width)
	}
	// Height should be from file since no flag override
	if cfg.Display.Height != 1000 {
		t.Errorf("expected height 1000 from file, got %d", cfg.Display.Height)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte("sink:\n  kind: laser\n"), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	*flagConfig = configPath
	defer func() { *flagConfig = "" }()

	if _, err := Load(); !errors.Is(err, ErrInvalid) {
		t.Errorf("Load() error = %v, want ErrInvalid", err)
	}
}

func TestSaveToRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := Default()
	cfg.Sink.Kind = SinkRecorder
	cfg.Scene.EdgeAngle = 12.5
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo: %v", err)
	}

	loaded := Default()
	if err := loadFromFile(loaded, path); err != nil {
		t.Fatalf("loading saved config: %v", err)
	}
	if loaded.Sink.Kind != SinkRecorder || loaded.Scene.EdgeAngle != 12.5 {
		t.Errorf("saved config did not round-trip: %+v %+v", loaded.Sink, loaded.Scene)
	}
}

func TestSaveWritesUserConfig(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("config dir follows XDG_CONFIG_HOME on linux only")
	}
	xdg := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", xdg)

	cfg := Default()
	cfg.Scene.Demo = "sphere"
	path, err := cfg.Save()
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if want := filepath.Join(xdg, "scopewire", "config.yaml"); path != want {
		t.Errorf("Save path = %s, want %s", path, want)
	}

	loaded := Default()
	if err := loadFromFile(loaded, path); err != nil {
		t.Fatalf("loading saved config: %v", err)
	}
	if loaded.Scene.Demo != "sphere" {
		t.Errorf("saved demo = %q, want sphere", loaded.Scene.Demo)
	}
}
