package screen

import (
	"github.com/Faultbox/scopewire/pkg/math"
)

// floatsPerVertex is position (2), beam coordinate (3) and intensity (1).
const floatsPerVertex = 6

// verticesPerLine is two triangles.
const verticesPerLine = 6

// beam accumulates line quads for the phosphor shader.
type beam struct {
	radius   float32
	vertices []float32
}

func (b *beam) reset() {
	b.vertices = b.vertices[:0]
}

func (b *beam) count() int {
	return len(b.vertices) / floatsPerVertex
}

// line appends a quad covering the segment plus radius on every side. Each
// corner carries (distance along, distance across, length) so the fragment
// shader can compute the distance to the segment.
func (b *beam) line(start, end math.Vec2, intensity float32) {
	r := b.radius
	dir := end.Sub(start)
	length := dir.Length()
	if length < 1e-7 {
		dir = math.Vec2{X: 1}
	} else {
		dir = dir.Scale(1 / length)
	}
	along := dir.Scale(r)
	across := math.Vec2{X: -along.Y, Y: along.X}

	type corner struct {
		p       math.Vec2
		u, v, l float32
	}
	c := [4]corner{
		{end.Add(along).Sub(across), length + r, -r, length},
		{end.Add(along).Add(across), length + r, r, length},
		{start.Sub(along).Add(across), -r, r, length},
		{start.Sub(along).Sub(across), -r, -r, length},
	}
	for _, i := range [verticesPerLine]int{0, 1, 2, 0, 2, 3} {
		b.vertices = append(b.vertices, c[i].p.X, c[i].p.Y, c[i].u, c[i].v, c[i].l, intensity)
	}
}
