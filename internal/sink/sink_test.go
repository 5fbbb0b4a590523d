package sink

import (
	"errors"
	"testing"

	"github.com/Faultbox/scopewire/pkg/math"
)

var (
	_ Sink = (*Recorder)(nil)
	_ Sink = (*Null)(nil)
)

func TestRecorderFrame(t *testing.T) {
	r := NewRecorder()
	r.Begin()
	r.SetIntensity(0.35)
	r.SetPoint(math.Vec2{})
	r.DrawCircle(0.5)
	r.SetIntensity(1)
	r.SetPoint(math.Vec2{X: -0.25})
	r.DrawLine(math.Vec2{X: 0.25}, IntensityUnset)
	r.DrawLine(math.Vec2{X: 0.25, Y: 0.25}, 0.5)

	if got := r.Frame(); len(got.Segments) != 0 {
		t.Fatalf("frame visible before Submit: %+v", got)
	}
	if !r.WaitSync() {
		t.Fatal("WaitSync() = false")
	}
	if err := r.Submit(); err != nil {
		t.Fatalf("Submit() error = %v", err)
	}

	f := r.Frame()
	want := []Segment{
		{From: math.Vec2{X: -0.25}, To: math.Vec2{X: 0.25}, Intensity: 1},
		{From: math.Vec2{X: 0.25}, To: math.Vec2{X: 0.25, Y: 0.25}, Intensity: 0.5},
	}
	if len(f.Segments) != len(want) {
		t.Fatalf("got %d segments, want %d", len(f.Segments), len(want))
	}
	for i := range want {
		if f.Segments[i] != want[i] {
			t.Errorf("segment %d = %+v, want %+v", i, f.Segments[i], want[i])
		}
	}
	if len(f.Circles) != 1 || f.Circles[0].Radius != 0.5 || f.Circles[0].Intensity != 0.35 {
		t.Errorf("circles = %+v", f.Circles)
	}
	if f.Moves != 2 {
		t.Errorf("Moves = %d, want 2", f.Moves)
	}
	if r.Pen() != (math.Vec2{X: 0.25, Y: 0.25}) {
		t.Errorf("Pen() = %v", r.Pen())
	}
}

func TestRecorderDoubleBuffer(t *testing.T) {
	r := NewRecorder()
	r.Begin()
	r.DrawLine(math.Vec2{X: 0.1}, IntensityUnset)
	r.Submit()

	// Recording the next frame leaves the submitted one intact.
	r.Begin()
	r.DrawLine(math.Vec2{Y: 0.1}, IntensityUnset)
	r.DrawLine(math.Vec2{Y: 0.2}, IntensityUnset)
	if n := len(r.Frame().Segments); n != 1 {
		t.Errorf("front frame has %d segments during recording, want 1", n)
	}
	r.Submit()
	if n := len(r.Frame().Segments); n != 2 {
		t.Errorf("front frame has %d segments, want 2", n)
	}
	if r.Submitted() != 2 {
		t.Errorf("Submitted() = %d, want 2", r.Submitted())
	}
}

func TestRecorderClosed(t *testing.T) {
	r := NewRecorder()
	r.Close()
	if r.WaitSync() {
		t.Error("WaitSync() = true after Close")
	}
	if err := r.Submit(); !errors.Is(err, ErrClosed) {
		t.Errorf("Submit() error = %v, want ErrClosed", err)
	}
}

func TestFrameLength(t *testing.T) {
	f := Frame{Segments: []Segment{{From: math.Vec2{}, To: math.Vec2{X: 3, Y: 4}}}}
	if got := f.Length(); got != 5 {
		t.Errorf("Length() = %v, want 5", got)
	}
}

func TestCirclePoints(t *testing.T) {
	pts := CirclePoints(math.Vec2{X: 1}, 0.5, 16)
	if len(pts) != 17 {
		t.Fatalf("got %d points, want 17", len(pts))
	}
	if pts[0] != pts[16] {
		t.Error("circle is not closed")
	}
	for i, p := range pts {
		if d := p.Distance(math.Vec2{X: 1}); math.Abs(d-0.5) > 1e-5 {
			t.Errorf("point %d at distance %v", i, d)
		}
	}
}

func TestNull(t *testing.T) {
	var n Null
	n.Begin()
	n.DrawLine(math.Vec2{}, IntensityUnset)
	n.DrawLine(math.Vec2{}, IntensityUnset)
	n.Submit()
	if n.Frames() != 1 || n.Lines() != 2 {
		t.Errorf("Frames() = %d, Lines() = %d", n.Frames(), n.Lines())
	}
}
