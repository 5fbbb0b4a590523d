// Package occlusion hides the parts of wireframe segments that lie behind
// visible triangles of the same frame.
//
// It works in normalized device coordinates after the perspective divide,
// where depth is affine in screen position. Each segment is clipped against
// every occluding triangle in 2D; the depth difference between segment and
// triangle is affine along the segment, so the hidden sub-interval is exact.
// The remaining uncovered pieces are found with a sweep over interval events.
package occlusion

import (
	"cmp"
	"slices"

	"github.com/Faultbox/scopewire/pkg/math"
)

// NoVertex marks a triangle corner that has no source vertex, such as a point
// created by near-plane clipping.
const NoVertex = ^uint32(0)

const (
	// DefaultDepthBias keeps edges lying on a surface from hiding themselves.
	DefaultDepthBias float32 = 1e-5
	// minPiece is the shortest parameter range emitted as a visible piece.
	minPiece = 1e-5
	// minArea skips triangles that are edge-on in screen space.
	minArea = 1e-12
	// minW skips points at or behind the eye plane.
	minW = 1e-6
)

// Interval is a visible parameter range [S0, S1] along a segment.
type Interval struct {
	S0, S1 float32
}

type occluder struct {
	p      [3]math.Vec3 // NDC, counter-clockwise in x/y
	ids    [3]uint32
	minX   float32
	maxX   float32
	minY   float32
	maxY   float32
	minZ   float32
	invDen float32
}

type event struct {
	s     float32
	delta int
}

// Clipper accumulates occluding triangles for one frame and clips segments
// against them. It is not safe for concurrent use.
type Clipper struct {
	// DepthBias is the NDC depth a segment must be behind a triangle to count
	// as hidden.
	DepthBias float32

	occluders []occluder
	events    []event
}

// NewClipper creates a Clipper with room for capacity triangles.
func NewClipper(capacity int) *Clipper {
	return &Clipper{
		DepthBias: DefaultDepthBias,
		occluders: make([]occluder, 0, capacity),
		events:    make([]event, 0, 64),
	}
}

// Reset forgets all occluders.
func (c *Clipper) Reset() {
	c.occluders = c.occluders[:0]
}

// Len returns the number of accepted occluders.
func (c *Clipper) Len() int {
	return len(c.occluders)
}

// AddTriangle registers a visible clip-space triangle. ids are the source
// vertex indices of its corners; a segment whose two endpoints are both
// corners of the triangle is one of its edges and is not tested against it.
// Triangles touching the eye plane or edge-on are ignored.
func (c *Clipper) AddTriangle(a, b, v math.Vec4, ids [3]uint32) {
	if a.W <= minW || b.W <= minW || v.W <= minW {
		return
	}
	pa, _ := a.Divide()
	pb, _ := b.Divide()
	pc, _ := v.Divide()

	den := cross2(pb.Sub(pa), pc.Sub(pa))
	if math.Abs(den) <= minArea {
		return
	}
	if den < 0 {
		pb, pc = pc, pb
		ids[1], ids[2] = ids[2], ids[1]
		den = -den
	}
	c.occluders = append(c.occluders, occluder{
		p:      [3]math.Vec3{pa, pb, pc},
		ids:    ids,
		minX:   min(pa.X, pb.X, pc.X),
		maxX:   max(pa.X, pb.X, pc.X),
		minY:   min(pa.Y, pb.Y, pc.Y),
		maxY:   max(pa.Y, pb.Y, pc.Y),
		minZ:   min(pa.Z, pb.Z, pc.Z),
		invDen: 1 / den,
	})
}

// Clip appends to dst the visible pieces of the clip-space segment a→b, whose
// endpoints come from source vertices ia and ib. Parameters are along the
// segment in screen space, so a piece maps to display coordinates by linear
// interpolation of the projected endpoints. A segment touching the eye plane
// is returned whole.
func (c *Clipper) Clip(dst []Interval, a, b math.Vec4, ia, ib uint32) []Interval {
	if a.W <= minW || b.W <= minW || len(c.occluders) == 0 {
		return append(dst, Interval{0, 1})
	}
	p0, _ := a.Divide()
	p1, _ := b.Divide()
	d := p1.Sub(p0)

	segMinX, segMaxX := min(p0.X, p1.X), max(p0.X, p1.X)
	segMinY, segMaxY := min(p0.Y, p1.Y), max(p0.Y, p1.Y)
	segMaxZ := max(p0.Z, p1.Z)

	c.events = c.events[:0]
	for i := range c.occluders {
		o := &c.occluders[i]
		if o.owns(ia, ib) {
			continue
		}
		if segMaxX < o.minX || segMinX > o.maxX || segMaxY < o.minY || segMinY > o.maxY {
			continue
		}
		if segMaxZ <= o.minZ+c.DepthBias {
			continue
		}
		lo, hi, ok := o.hidden(p0, d, c.DepthBias)
		if !ok {
			continue
		}
		c.events = append(c.events, event{lo, 1}, event{hi, -1})
	}
	if len(c.events) == 0 {
		return append(dst, Interval{0, 1})
	}

	// Openings sort before closings at the same parameter so abutting
	// triangles leave no gap.
	slices.SortFunc(c.events, func(x, y event) int {
		if r := cmp.Compare(x.s, y.s); r != 0 {
			return r
		}
		return cmp.Compare(y.delta, x.delta)
	})

	depth := 0
	start := float32(0)
	for _, e := range c.events {
		if depth == 0 && e.delta > 0 && e.s-start > minPiece {
			dst = append(dst, Interval{start, e.s})
		}
		depth += e.delta
		if depth == 0 {
			start = e.s
		}
	}
	if 1-start > minPiece {
		dst = append(dst, Interval{start, 1})
	}
	return dst
}

func (o *occluder) owns(ia, ib uint32) bool {
	return o.has(ia) && o.has(ib)
}

func (o *occluder) has(id uint32) bool {
	return id != NoVertex && (o.ids[0] == id || o.ids[1] == id || o.ids[2] == id)
}

// hidden returns the parameter range of p0 + s*d that is inside the
// triangle in x/y and behind it in depth.
func (o *occluder) hidden(p0, d math.Vec3, bias float32) (float32, float32, bool) {
	lo, hi := float32(0), float32(1)
	for k := 0; k < 3; k++ {
		vi, vj := o.p[k], o.p[(k+1)%3]
		e := vj.Sub(vi)
		// Inside is left of each counter-clockwise edge: f(s) > 0.
		f0 := cross2(e, p0.Sub(vi))
		fd := cross2(e, d)
		if fd == 0 {
			if f0 <= 0 {
				return 0, 0, false
			}
			continue
		}
		s := -f0 / fd
		if fd > 0 {
			lo = max(lo, s)
		} else {
			hi = min(hi, s)
		}
		if lo >= hi {
			return 0, 0, false
		}
	}

	// g(s) = segment depth - triangle depth, affine in s.
	g0 := p0.Z - o.depthAt(p0)
	g1 := p0.Z + d.Z - o.depthAt(p0.Add(d))
	ga := g0 + lo*(g1-g0) - bias
	gb := g0 + hi*(g1-g0) - bias
	switch {
	case ga <= 0 && gb <= 0:
		return 0, 0, false
	case ga < 0:
		lo += (hi - lo) * ga / (ga - gb)
	case gb < 0:
		hi = lo + (hi-lo)*ga/(ga-gb)
	}
	if hi-lo <= 0 {
		return 0, 0, false
	}
	return lo, hi, true
}

// depthAt interpolates the triangle's depth at an x/y position on its plane.
func (o *occluder) depthAt(p math.Vec3) float32 {
	a, b, c := o.p[0], o.p[1], o.p[2]
	ap := p.Sub(a)
	beta := cross2(ap, c.Sub(a)) * o.invDen
	gamma := cross2(b.Sub(a), ap) * o.invDen
	return a.Z + beta*(b.Z-a.Z) + gamma*(c.Z-a.Z)
}

func cross2(a, b math.Vec3) float32 {
	return a.X*b.Y - a.Y*b.X
}
