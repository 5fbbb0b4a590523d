package sink

import (
	gomath "math"
	"sync"

	"github.com/Faultbox/scopewire/pkg/math"
)

// Segment is one drawn line.
type Segment struct {
	From, To  math.Vec2
	Intensity float32
}

// Circle is one drawn circle.
type Circle struct {
	Center    math.Vec2
	Radius    float32
	Intensity float32
}

// Frame is everything drawn between Begin and Submit.
type Frame struct {
	Segments []Segment
	Circles  []Circle
	// Moves counts SetPoint calls, i.e. beam jumps.
	Moves int
}

// Length returns the total drawn path length, circles included.
func (f *Frame) Length() float32 {
	var l float32
	for _, s := range f.Segments {
		l += s.From.Distance(s.To)
	}
	for _, c := range f.Circles {
		l += 2 * gomath.Pi * c.Radius
	}
	return l
}

func (f *Frame) reset() {
	f.Segments = f.Segments[:0]
	f.Circles = f.Circles[:0]
	f.Moves = 0
}

// Recorder is a double-buffered sink that keeps the last submitted frame in
// memory. The other sinks build their frames with it.
type Recorder struct {
	pen       math.Vec2
	intensity float32
	back      Frame

	mu        sync.Mutex
	front     Frame
	submitted uint64
	closed    bool
}

// NewRecorder returns a recorder with full intensity.
func NewRecorder() *Recorder {
	return &Recorder{intensity: 1}
}

// Begin clears the frame being recorded.
func (r *Recorder) Begin() {
	r.back.reset()
}

// SetIntensity implements Sink.
func (r *Recorder) SetIntensity(v float32) {
	r.intensity = v
}

// Intensity returns the current intensity.
func (r *Recorder) Intensity() float32 {
	return r.intensity
}

// SetPoint implements Sink.
func (r *Recorder) SetPoint(p math.Vec2) {
	r.pen = p
	r.back.Moves++
}

// Pen returns the current pen position.
func (r *Recorder) Pen() math.Vec2 {
	return r.pen
}

// DrawLine implements Sink.
func (r *Recorder) DrawLine(p math.Vec2, intensity float32) {
	if intensity < 0 {
		intensity = r.intensity
	}
	r.back.Segments = append(r.back.Segments, Segment{From: r.pen, To: p, Intensity: intensity})
	r.pen = p
}

// DrawCircle implements Sink.
func (r *Recorder) DrawCircle(radius float32) {
	r.back.Circles = append(r.back.Circles, Circle{Center: r.pen, Radius: radius, Intensity: r.intensity})
}

// WaitSync implements Sink. A recorder never blocks.
func (r *Recorder) WaitSync() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return !r.closed
}

// Submit publishes the recorded frame.
func (r *Recorder) Submit() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return ErrClosed
	}
	r.front, r.back = r.back, r.front
	r.submitted++
	return nil
}

// Viewport implements Sink.
func (r *Recorder) Viewport() Viewport {
	return Viewport{X: -0.5, Y: -0.5, Width: 1, Height: 1}
}

// Close implements Sink.
func (r *Recorder) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
	return nil
}

// Frame returns a copy of the last submitted frame.
func (r *Recorder) Frame() Frame {
	r.mu.Lock()
	defer r.mu.Unlock()
	return Frame{
		Segments: append([]Segment(nil), r.front.Segments...),
		Circles:  append([]Circle(nil), r.front.Circles...),
		Moves:    r.front.Moves,
	}
}

// Submitted returns the number of submitted frames.
func (r *Recorder) Submitted() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.submitted
}

// Null discards everything. It is used for benchmarks and headless runs.
type Null struct {
	frames uint64
	lines  uint64
}

func (n *Null) Begin() {}
func (n *Null) SetIntensity(float32) {}
func (n *Null) SetPoint(math.Vec2) {}
func (n *Null) DrawLine(math.Vec2, float32) { n.lines++ }
func (n *Null) DrawCircle(float32) {}
func (n *Null) WaitSync() bool { return true }
func (n *Null) Submit() error { n.frames++; return nil }
func (n *Null) Viewport() Viewport { return Viewport{X: -0.5, Y: -0.5, Width: 1, Height: 1} }
func (n *Null) Close() error { return nil }

// Frames returns the number of submitted frames.
func (n *Null) Frames() uint64 { return n.frames }

// Lines returns the number of lines drawn so far.
func (n *Null) Lines() uint64 { return n.lines }
