// Package clip clips lines and triangles against the perspective view volume
// in homogeneous clip space, before the perspective divide.
//
// Clip space follows the OpenGL convention: a point is inside the view volume
// when -w <= x, y, z <= w. For lines the four side planes are replaced by the
// quadric cone x² + y² = w², inscribed in the square frustum, so the visible
// region after projection is the round face of the scope.
package clip

import (
	gomath "math"

	"github.com/Faultbox/scopewire/pkg/math"
)

const (
	// qaEpsilon is the relative threshold below which the quadratic term is
	// treated as zero (degenerate or cone-parallel segment).
	qaEpsilon = 1e-9
	// planeEpsilon is the threshold below which a segment counts as parallel
	// to the near or far plane.
	planeEpsilon = 1e-12
)

// vec4d is a float64 copy of a clip-space point. The quadratic is solved in
// double precision to keep the roots stable for long segments.
type vec4d struct {
	x, y, z, w float64
}

func toD(v math.Vec4) vec4d {
	return vec4d{float64(v.X), float64(v.Y), float64(v.Z), float64(v.W)}
}

func (a vec4d) lerp(b vec4d, t float64) vec4d {
	return vec4d{
		(1-t)*a.x + t*b.x,
		(1-t)*a.y + t*b.y,
		(1-t)*a.z + t*b.z,
		(1-t)*a.w + t*b.w,
	}
}

func (a vec4d) near() float64 { return a.z + a.w }
func (a vec4d) far() float64  { return a.z - a.w }

// insideCone reports whether the point lies strictly inside x² + y² = w².
func (a vec4d) insideCone() bool {
	return a.x*a.x+a.y*a.y < a.w*a.w
}

// Interval returns the parameter range [t0, t1] of the segment a→b that lies
// inside the view volume. ok is false when the segment is culled entirely.
// A segment already inside the volume yields exactly [0, 1].
func Interval(a, b math.Vec4) (t0, t1 float32, ok bool) {
	pa, pb := toD(a), toD(b)

	// Order by w so A is the endpoint nearer the eye. Ties (orthographic
	// projections) are broken by z.
	swapped := false
	if pa.w > pb.w || (pa.w == pb.w && pa.z > pb.z) {
		pa, pb = pb, pa
		swapped = true
	}

	lo, hi, ok := interval(pa, pb)
	if !ok {
		return 0, 0, false
	}
	if swapped {
		lo, hi = 1-hi, 1-lo
	}
	return float32(lo), float32(hi), true
}

// Line clips the segment a→b to the view volume and returns the clipped
// endpoints in the same orientation as the input.
func Line(a, b math.Vec4) (math.Vec4, math.Vec4, bool) {
	t0, t1, ok := Interval(a, b)
	if !ok {
		return math.Vec4{}, math.Vec4{}, false
	}
	ca, cb := a, b
	if t0 > 0 {
		ca = a.Lerp(b, t0)
	}
	if t1 < 1 {
		cb = a.Lerp(b, t1)
	}
	return ca, cb, true
}

func interval(a, b vec4d) (float64, float64, bool) {
	// Whole segment beyond the far plane or behind the near plane.
	if a.z > a.w || b.z < -b.w {
		return 0, 0, false
	}

	// Intersect A + t(B-A) with the cone x² + y² = w².
	dx, dy, dw := b.x-a.x, b.y-a.y, b.w-a.w
	qa := dx*dx + dy*dy - dw*dw
	qb := 2 * (dx*a.x + dy*a.y + a.w*a.w - a.w*b.w)
	qc := a.x*a.x + a.y*a.y - a.w*a.w
	det := qb*qb - 4*qa*qc
	if gomath.Abs(qa) <= qaEpsilon*(dx*dx+dy*dy+dw*dw) || det < 0 {
		return 0, 0, false
	}
	sq := gomath.Sqrt(det)
	tA := (-qb - sq) / (2 * qa)
	tB := (-qb + sq) / (2 * qa)
	if tA > tB {
		tA, tB = tB, tA
	}

	tNear, nearCrosses, cull := planeCrossing(a.near(), b.near(), false)
	if cull {
		return 0, 0, false
	}
	tFar, farCrosses, cull := planeCrossing(a.far(), b.far(), true)
	if cull {
		return 0, 0, false
	}
	nearInside := nearCrosses && a.lerp(b, tNear).insideCone()
	farInside := farCrosses && a.lerp(b, tFar).insideCone()

	switch {
	case farInside:
		switch {
		case nearInside:
			tA = tNear
		case tA < tNear:
			tA = tB
		}
		tB = tFar
	case nearInside:
		// The farthest cone crossing is behind the near plane.
		if a.lerp(b, tB).near() < 0 {
			return 0, 0, false
		}
		tA = tNear
	default:
		// The line misses both caps; it is visible only between the cone
		// crossings, and only if the first one is in front of the near plane.
		if a.lerp(b, tA).near() < 0 {
			return 0, 0, false
		}
	}

	tA = gomath.Max(0, tA)
	tB = gomath.Min(1, tB)
	if tA > 1 || tB < 0 || tA > tB || gomath.IsNaN(tA) || gomath.IsNaN(tB) {
		return 0, 0, false
	}
	return tA, tB, true
}

// planeCrossing returns the line parameter where the signed plane value
// crosses zero. For a line parallel to the plane crosses is false and cull
// reports whether the whole line is on the outside.
func planeCrossing(da, db float64, far bool) (t float64, crosses, cull bool) {
	denom := da - db
	if gomath.Abs(denom) <= planeEpsilon {
		if far {
			return gomath.Inf(1), false, da > 0
		}
		return gomath.Inf(-1), false, da < 0
	}
	return da / denom, true, false
}
