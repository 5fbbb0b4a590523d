// Package audio drives an XY oscilloscope from the sound card: the left
// channel deflects the beam horizontally, the right channel vertically.
package audio

import (
	"fmt"
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/speaker"
	"go.uber.org/zap"

	"github.com/Faultbox/scopewire/internal/logger"
	"github.com/Faultbox/scopewire/internal/sink"
	"github.com/Faultbox/scopewire/pkg/math"
)

// DefaultSampleRate is the default output sample rate.
const DefaultSampleRate = beep.SampleRate(48000)

// Config controls the output signal.
type Config struct {
	SampleRate beep.SampleRate
	// BeamSpeed is how far the beam travels per second in display units.
	// Lower speeds give brighter, slower frames.
	BeamSpeed float64
	// ScaleX and ScaleY map display units to full-scale output. A scale of 1
	// maps the display edge (0.5) to full deflection.
	ScaleX, ScaleY float64
	// Buffer is the speaker buffer length.
	Buffer time.Duration
}

// DefaultConfig returns settings suitable for a typical line-level input.
func DefaultConfig() Config {
	return Config{
		SampleRate: DefaultSampleRate,
		BeamSpeed:  400,
		ScaleX:     1,
		ScaleY:     1,
		Buffer:     time.Second / 30,
	}
}

// Sink traces frames as stereo samples. The frame being built is swapped in
// by the audio callback when the current one has finished playing; until a
// new frame arrives the current one repeats.
type Sink struct {
	cfg Config
	log *zap.Logger

	mu     sync.Mutex
	synced *sync.Cond
	tracer tracer

	front   [][2]float64 // playing
	pending [][2]float64 // submitted, waiting for the callback
	spare   [][2]float64 // released by the callback, reused by Submit
	cursor  int
	played  uint64
	closed  bool
	speaker bool
}

// Open initializes the speaker and starts streaming.
func Open(cfg Config) (*Sink, error) {
	s := newSink(cfg)
	if err := speaker.Init(s.cfg.SampleRate, s.cfg.SampleRate.N(s.cfg.Buffer)); err != nil {
		return nil, fmt.Errorf("init speaker: %w", err)
	}
	s.speaker = true
	speaker.Play(s)
	s.log.Info("audio sink started",
		zap.Int("sample_rate", int(s.cfg.SampleRate)),
		zap.Float64("beam_speed", s.cfg.BeamSpeed),
		zap.Duration("buffer", s.cfg.Buffer))
	return s, nil
}

func newSink(cfg Config) *Sink {
	def := DefaultConfig()
	if cfg.SampleRate <= 0 {
		cfg.SampleRate = def.SampleRate
	}
	if cfg.BeamSpeed <= 0 {
		cfg.BeamSpeed = def.BeamSpeed
	}
	if cfg.Buffer <= 0 {
		cfg.Buffer = def.Buffer
	}
	s := &Sink{
		cfg: cfg,
		log: logger.Named("audio"),
		tracer: tracer{
			perUnit:   float64(cfg.SampleRate) / cfg.BeamSpeed,
			scaleX:    cfg.ScaleX,
			scaleY:    cfg.ScaleY,
			intensity: 1,
		},
	}
	s.synced = sync.NewCond(&s.mu)
	return s
}

// Begin implements sink.Sink.
func (s *Sink) Begin() {
	s.tracer.reset()
}

// SetIntensity implements sink.Sink. The audio output has no brightness
// channel, so intensity scales how long the beam dwells on each segment.
func (s *Sink) SetIntensity(v float32) {
	s.tracer.intensity = v
}

// SetPoint implements sink.Sink.
func (s *Sink) SetPoint(p math.Vec2) {
	s.tracer.pen = p
}

// DrawLine implements sink.Sink.
func (s *Sink) DrawLine(to math.Vec2, intensity float32) {
	if intensity >= 0 {
		s.tracer.intensity = intensity
	}
	s.tracer.line(to)
}

// DrawCircle implements sink.Sink.
func (s *Sink) DrawCircle(radius float32) {
	s.tracer.circle(radius)
}

// WaitSync blocks until the callback has picked up the previously submitted
// frame. It returns false once the sink is closed.
func (s *Sink) WaitSync() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for s.pending != nil && !s.closed {
		s.synced.Wait()
	}
	return !s.closed
}

// Submit hands the built frame to the callback.
func (s *Sink) Submit() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return sink.ErrClosed
	}
	frame := s.tracer.samples
	if frame == nil {
		frame = [][2]float64{}
	}
	if s.pending != nil {
		// Submitted twice without WaitSync: the older frame is never shown.
		s.spare = s.pending
	}
	s.pending = frame
	s.tracer.samples = s.spare[:0]
	s.spare = nil
	return nil
}

// Viewport implements sink.Sink.
func (s *Sink) Viewport() sink.Viewport {
	return sink.Viewport{X: -0.5, Y: -0.5, Width: 1, Height: 1}
}

// Close stops playback and releases the speaker. Blocked WaitSync calls
// return false.
func (s *Sink) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.synced.Broadcast()
	played := s.played
	s.mu.Unlock()

	if s.speaker {
		speaker.Clear()
		speaker.Close()
	}
	s.log.Info("audio sink closed", zap.Uint64("frames_played", played))
	return nil
}

// Stream implements beep.Streamer. It is called from the speaker goroutine.
func (s *Sink) Stream(samples [][2]float64) (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return 0, false
	}
	for i := 0; i < len(samples); {
		if s.cursor == len(s.front) {
			if s.cursor > 0 {
				s.played++
			}
			s.cursor = 0
			if s.pending != nil {
				s.swap()
				continue
			}
			if len(s.front) == 0 {
				// Nothing to trace: park the beam at the centre.
				clear(samples[i:])
				break
			}
		}
		n := copy(samples[i:], s.front[s.cursor:])
		i += n
		s.cursor += n
	}
	return len(samples), true
}

// Err implements beep.Streamer.
func (s *Sink) Err() error {
	return nil
}

// swap promotes the pending frame and keeps the old one for reuse. Called
// with mu held.
func (s *Sink) swap() {
	if s.front != nil {
		s.spare = s.front
	}
	s.front = s.pending
	s.pending = nil
	s.cursor = 0
	s.synced.Broadcast()
}
