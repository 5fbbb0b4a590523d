// Package app drives the frame loop: it animates a demo scene, runs the
// geometry pipeline and hands the result to the configured sink.
package app

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/scopewire/internal/config"
	"github.com/Faultbox/scopewire/internal/engine/camera"
	"github.com/Faultbox/scopewire/internal/engine/pipeline"
	"github.com/Faultbox/scopewire/internal/engine/scene"
	"github.com/Faultbox/scopewire/internal/logger"
	"github.com/Faultbox/scopewire/internal/parallel"
	"github.com/Faultbox/scopewire/internal/sink"
	"github.com/Faultbox/scopewire/internal/sink/snapshot"
	"github.com/Faultbox/scopewire/pkg/math"
)

// App owns one scene, one pipeline and one sink.
type App struct {
	cfg      *config.Config
	sink     sink.Sink
	keys     sink.Keyboard
	registry *scene.Registry
	pool     *parallel.Pool
	pipeline *pipeline.Pipeline
	camera   *camera.OrbitCamera
	demo     *demoScene
	demoName string
	capture  *snapshot.Capture
	log      *zap.Logger

	frames uint64
	closed bool
}

// New wires an App around an already opened sink.
func New(cfg *config.Config, s sink.Sink) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if s == nil {
		return nil, errors.New("app: nil sink")
	}

	a := &App{
		cfg:  cfg,
		sink: s,
		log:  logger.Named("app"),
		registry: scene.NewRegistry(scene.Options{
			Weld:        cfg.Pipeline.WeldVertices,
			WeldEpsilon: cfg.Pipeline.WeldEpsilon,
		}),
		pool:   parallel.New(cfg.Pipeline.Workers),
		camera: camera.NewOrbitCamera(),
	}
	a.keys, _ = s.(sink.Keyboard)

	a.pipeline = pipeline.New(pipeline.Config{
		MaxTriangles:    cfg.Pipeline.MaxTriangles,
		Jitter:          cfg.Pipeline.Jitter,
		CullBackFaces:   cfg.Pipeline.CullBackFaces,
		Occlusion:       cfg.Pipeline.Occlusion,
		StatsInterval:   cfg.Pipeline.StatsInterval,
		Intensity:       cfg.Sink.Intensity,
		BorderRadius:    cfg.Sink.BorderRadius,
		BorderIntensity: cfg.Sink.BorderIntensity,
	}, a.registry, a.pool)

	if cfg.Sink.SnapshotPath != "" {
		a.capture = snapshot.NewCapture(cfg.Sink.SnapshotPath, "scopewire", snapshot.DefaultOptions())
	}
	return a, nil
}

// Initialize builds the demo scene and frames the camera around it.
func (a *App) Initialize() error {
	if err := a.loadDemo(a.cfg.Scene.Demo); err != nil {
		return err
	}
	a.camera.AutoYaw = math.Radians(a.cfg.Scene.AutoSpin)

	a.log.Info("scene ready",
		zap.String("demo", a.demoName),
		zap.Int("objects", a.registry.Len()),
		zap.Int("workers", a.pool.Workers()))
	return nil
}

// SwitchDemo replaces the scene with the demo step places away from the
// current one in Demos.
func (a *App) SwitchDemo(step int) error {
	name := nextDemo(a.demoName, step)
	if err := a.loadDemo(name); err != nil {
		return err
	}
	a.log.Info("demo switched", zap.String("demo", name), zap.Int("objects", a.registry.Len()))
	return nil
}

func (a *App) loadDemo(name string) error {
	a.registry.Clear()
	d, err := buildDemo(a.registry, name, a.cfg.Scene.EdgeAngle)
	if err != nil {
		return err
	}
	a.demo = d
	a.demoName = name
	a.camera.FitToRadius(d.radius)
	return nil
}

// Demo returns the name of the running demo.
func (a *App) Demo() string {
	return a.demoName
}

// Registry exposes the scene so hosts can add their own objects.
func (a *App) Registry() *scene.Registry {
	return a.registry
}

// Camera returns the orbit camera.
func (a *App) Camera() *camera.OrbitCamera {
	return a.camera
}

// Pipeline returns the geometry pipeline.
func (a *App) Pipeline() *pipeline.Pipeline {
	return a.pipeline
}

// Frames returns the number of frames emitted so far.
func (a *App) Frames() uint64 {
	return a.frames
}

// aspect is the display width over height lines are fitted to.
func (a *App) aspect() float32 {
	if a.cfg.Display.Aspect > 0 {
		return a.cfg.Display.Aspect
	}
	vp := a.sink.Viewport()
	if vp.Width <= 0 || vp.Height <= 0 {
		return 1
	}
	return vp.Width / vp.Height
}

// Tick advances animation by dt seconds and emits one frame.
func (a *App) Tick(dt float64) error {
	step := float32(dt)
	if a.demo != nil {
		a.demo.update(step)
	}
	a.camera.Update(step)

	aspect := a.aspect()
	a.pipeline.Frame(a.camera.ViewProjection(aspect), a.cfg.Pipeline.Seed+a.frames)
	if err := a.pipeline.Emit(a.sink, aspect); err != nil {
		return err
	}
	a.frames++

	if a.keys != nil {
		return a.handleKeys(aspect)
	}
	return nil
}

// handleKeys reacts to keys pressed during the last WaitSync.
func (a *App) handleKeys(aspect float32) error {
	switch {
	case a.keys.Pressed(sink.KeyNext):
		return a.SwitchDemo(1)
	case a.keys.Pressed(sink.KeyPrevious):
		return a.SwitchDemo(-1)
	}
	if a.keys.Pressed(sink.KeyCapture) {
		a.snapshot(aspect)
	}
	return nil
}

// snapshot re-emits the last frame into a recorder and saves it as PNG.
func (a *App) snapshot(aspect float32) {
	if a.capture == nil {
		a.log.Warn("snapshot requested but sink.snapshot_path is not set")
		return
	}
	rec := sink.NewRecorder()
	if err := a.pipeline.Emit(rec, aspect); err != nil {
		a.log.Warn("snapshot emit failed", zap.Error(err))
		return
	}
	a.save(rec.Frame(), aspect)
}

func (a *App) save(f sink.Frame, aspect float32) {
	a.capture.SetViewport(sink.Viewport{X: -0.5 * aspect, Y: -0.5, Width: aspect, Height: 1})
	name, err := a.capture.Save(f)
	if err != nil {
		a.log.Warn("snapshot failed", zap.Error(err))
		return
	}
	a.log.Info("snapshot saved", zap.String("file", filepath.Base(name)), zap.Int("segments", len(f.Segments)))
}

// Run ticks until ctx is cancelled, the frame limit is reached, the sink asks
// to quit or a frame fails.
func (a *App) Run(ctx context.Context) error {
	lastTime := time.Now()
	frameCount := 0
	fpsTimer := time.Now()

	a.log.Info("starting frame loop")

	for {
		select {
		case <-ctx.Done():
			a.log.Info("frame loop cancelled")
			return nil
		default:
		}

		now := time.Now()
		dt := now.Sub(lastTime).Seconds()
		lastTime = now

		if err := a.Tick(dt); err != nil {
			if q, ok := a.sink.(sink.Quitter); ok && q.QuitRequested() && errors.Is(err, sink.ErrSyncFailed) {
				a.log.Info("quit requested")
				return nil
			}
			return fmt.Errorf("frame %d: %w", a.frames, err)
		}

		if limit := a.cfg.Scene.Frames; limit > 0 && a.frames >= uint64(limit) {
			a.log.Info("frame limit reached", zap.Int("frames", limit))
			return nil
		}

		frameCount++
		if time.Since(fpsTimer) >= time.Second {
			a.log.Debug("fps", zap.Int("count", frameCount), zap.Float64("dt_ms", dt*1000))
			frameCount = 0
			fpsTimer = time.Now()
		}
	}
}

// Shutdown stores the last recorded frame when a snapshot path is set, then
// releases the workers and the sink.
func (a *App) Shutdown() error {
	if a.closed {
		return nil
	}
	a.closed = true

	if rec, ok := a.sink.(*sink.Recorder); ok && a.capture != nil && rec.Submitted() > 0 {
		a.save(rec.Frame(), a.aspect())
	}

	a.pool.Close()
	err := a.sink.Close()
	a.log.Info("shutdown", zap.Uint64("frames", a.frames))
	return err
}
