package occlusion

import (
	"testing"

	"github.com/Faultbox/scopewire/pkg/math"
)

// rectClipper returns a clipper holding a rectangle x∈[-0.25,0.25],
// y∈[-1,1] at depth 0, split into two triangles.
func rectClipper() *Clipper {
	c := NewClipper(2)
	v := []math.Vec4{
		{X: -0.25, Y: -1, W: 1},
		{X: 0.25, Y: -1, W: 1},
		{X: 0.25, Y: 1, W: 1},
		{X: -0.25, Y: 1, W: 1},
	}
	c.AddTriangle(v[0], v[1], v[2], [3]uint32{100, 101, 102})
	c.AddTriangle(v[0], v[2], v[3], [3]uint32{100, 102, 103})
	return c
}

func TestClipPieces(t *testing.T) {
	tests := []struct {
		name   string
		a, b   math.Vec4
		ia, ib uint32
		want   []Interval
	}{
		{
			name: "behind",
			a:    math.Vec4{X: -1, Z: 0.5, W: 1},
			b:    math.Vec4{X: 1, Z: 0.5, W: 1},
			ia:   0, ib: 1,
			want: []Interval{{0, 0.375}, {0.625, 1}},
		},
		{
			name: "in front",
			a:    math.Vec4{X: -1, Z: -0.5, W: 1},
			b:    math.Vec4{X: 1, Z: -0.5, W: 1},
			ia:   0, ib: 1,
			want: []Interval{{0, 1}},
		},
		{
			name: "misses",
			a:    math.Vec4{X: -1, Y: 1.5, Z: 0.5, W: 1},
			b:    math.Vec4{X: 1, Y: 1.5, Z: 0.5, W: 1},
			ia:   0, ib: 1,
			want: []Interval{{0, 1}},
		},
		{
			name: "penetrates",
			a:    math.Vec4{X: -1, Z: -0.5, W: 1},
			b:    math.Vec4{X: 1, Z: 0.5, W: 1},
			ia:   0, ib: 1,
			want: []Interval{{0, 0.5}, {0.625, 1}},
		},
		{
			name: "own edge",
			a:    math.Vec4{X: -0.25, Y: -1, W: 1},
			b:    math.Vec4{X: 0.25, Y: 1, W: 1},
			ia:   100, ib: 102,
			want: []Interval{{0, 1}},
		},
		{
			name: "shares one vertex",
			a:    math.Vec4{X: -1, Z: 0.5, W: 1},
			b:    math.Vec4{X: 1, Z: 0.5, W: 1},
			ia:   100, ib: 7,
			want: []Interval{{0, 0.375}, {0.625, 1}},
		},
		{
			name: "touches eye plane",
			a:    math.Vec4{X: -1, Z: 0.5},
			b:    math.Vec4{X: 1, Z: 0.5, W: 1},
			ia:   0, ib: 1,
			want: []Interval{{0, 1}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := rectClipper().Clip(nil, tt.a, tt.b, tt.ia, tt.ib)
			if len(got) != len(tt.want) {
				t.Fatalf("Clip() = %v, want %v", got, tt.want)
			}
			for i := range got {
				if math.Abs(got[i].S0-tt.want[i].S0) > 1e-3 || math.Abs(got[i].S1-tt.want[i].S1) > 1e-3 {
					t.Errorf("piece %d = %v, want %v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestClipFullyHidden(t *testing.T) {
	c := rectClipper()
	got := c.Clip(nil, math.Vec4{X: -0.1, Z: 0.5, W: 1}, math.Vec4{X: 0.1, Y: 0.5, Z: 0.5, W: 1}, 0, 1)
	if len(got) != 0 {
		t.Errorf("Clip() = %v, want no pieces", got)
	}
}

func TestAddTriangleIgnoresDegenerate(t *testing.T) {
	c := NewClipper(4)
	p := math.Vec4{W: 1}
	c.AddTriangle(p, p, math.Vec4{X: 1, W: 1}, [3]uint32{0, 1, 2})
	c.AddTriangle(math.Vec4{W: -1}, math.Vec4{X: 1, W: 1}, math.Vec4{Y: 1, W: 1}, [3]uint32{0, 1, 2})
	if c.Len() != 0 {
		t.Errorf("Len() = %d, want 0", c.Len())
	}

	// Clockwise input is accepted and reoriented.
	c.AddTriangle(math.Vec4{W: 1}, math.Vec4{Y: 1, W: 1}, math.Vec4{X: 1, W: 1}, [3]uint32{0, 1, 2})
	if c.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", c.Len())
	}
	got := c.Clip(nil, math.Vec4{X: 0.1, Y: 0.1, Z: 0.5, W: 1}, math.Vec4{X: 0.2, Y: 0.2, Z: 0.5, W: 1}, 5, 6)
	if len(got) != 0 {
		t.Errorf("segment behind clockwise triangle visible: %v", got)
	}

	c.Reset()
	if c.Len() != 0 {
		t.Errorf("Len() after Reset = %d", c.Len())
	}
}
