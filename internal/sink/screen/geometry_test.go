package screen

import (
	"testing"

	"github.com/veandco/go-sdl2/sdl"

	"github.com/Faultbox/scopewire/internal/sink"
	"github.com/Faultbox/scopewire/pkg/math"
)

func TestBeamLineQuad(t *testing.T) {
	b := beam{radius: 0.5}
	b.line(math.Vec2{}, math.Vec2{X: 2}, 0.75)

	if got := b.count(); got != verticesPerLine {
		t.Fatalf("count = %d, want %d", got, verticesPerLine)
	}

	minX, maxX := float32(1e9), float32(-1e9)
	minY, maxY := float32(1e9), float32(-1e9)
	for i := 0; i < b.count(); i++ {
		v := b.vertices[i*floatsPerVertex : (i+1)*floatsPerVertex]
		minX, maxX = min(minX, v[0]), max(maxX, v[0])
		minY, maxY = min(minY, v[1]), max(maxY, v[1])
		if v[4] != 2 {
			t.Errorf("vertex %d length = %f, want 2", i, v[4])
		}
		if v[5] != 0.75 {
			t.Errorf("vertex %d intensity = %f, want 0.75", i, v[5])
		}
		// Beam coordinates match the vertex offset from the start point.
		if !near(v[2], v[0]) || !near(v[3], v[1]) {
			t.Errorf("vertex %d beam coord (%f, %f) != position (%f, %f)", i, v[2], v[3], v[0], v[1])
		}
	}
	if !near(minX, -0.5) || !near(maxX, 2.5) || !near(minY, -0.5) || !near(maxY, 0.5) {
		t.Errorf("bounds x [%f, %f] y [%f, %f]", minX, maxX, minY, maxY)
	}
}

func TestBeamDegenerateLine(t *testing.T) {
	b := beam{radius: 0.1}
	p := math.Vec2{X: 0.2, Y: -0.1}
	b.line(p, p, 1)
	if got := b.count(); got != verticesPerLine {
		t.Fatalf("count = %d, want %d", got, verticesPerLine)
	}
	for i, f := range b.vertices {
		if f != f {
			t.Fatalf("component %d is NaN", i)
		}
	}
}

func TestBeamReset(t *testing.T) {
	b := beam{radius: 0.1}
	b.line(math.Vec2{}, math.Vec2{X: 1}, 1)
	b.line(math.Vec2{X: 1}, math.Vec2{X: 1, Y: 1}, 1)
	if b.count() != 2*verticesPerLine {
		t.Fatalf("count = %d", b.count())
	}
	b.reset()
	if b.count() != 0 {
		t.Errorf("count after reset = %d", b.count())
	}
}

func near(a, b float32) bool {
	return math.Abs(a-b) < 1e-5
}

func TestPressedKeyBindings(t *testing.T) {
	s := &Screen{window: &window{pressed: []sdl.Scancode{sdl.SCANCODE_RIGHT, sdl.SCANCODE_F12}}}
	tests := []struct {
		key  sink.Key
		want bool
	}{
		{sink.KeyNext, true},
		{sink.KeyCapture, true},
		{sink.KeyPrevious, false},
		{sink.KeyNone, false},
	}
	for _, tt := range tests {
		if got := s.Pressed(tt.key); got != tt.want {
			t.Errorf("Pressed(%d) = %v, want %v", tt.key, got, tt.want)
		}
	}
}
