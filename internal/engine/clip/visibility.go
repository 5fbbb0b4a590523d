package clip

import (
	"github.com/Faultbox/scopewire/pkg/math"
)

// Class is the visibility classification of a clip-space triangle.
type Class int

const (
	// Culled triangles are outside one frustum plane or behind the near plane.
	Culled Class = iota
	// BackFacing triangles are fully in front of the eye and wind clockwise on screen.
	BackFacing
	// Visible triangles are fully in front of the eye and face the camera.
	Visible
	// Straddling triangles cross the near plane and must be clipped first.
	Straddling
)

func (c Class) String() string {
	switch c {
	case Culled:
		return "culled"
	case BackFacing:
		return "back-facing"
	case Visible:
		return "visible"
	case Straddling:
		return "straddling"
	default:
		return "unknown"
	}
}

const (
	outLeft = 1 << iota
	outRight
	outBottom
	outTop
	outNear
	outFar
)

func outcode(v math.Vec4) int {
	code := 0
	if v.X < -v.W {
		code |= outLeft
	}
	if v.X > v.W {
		code |= outRight
	}
	if v.Y < -v.W {
		code |= outBottom
	}
	if v.Y > v.W {
		code |= outTop
	}
	if v.Z < -v.W {
		code |= outNear
	}
	if v.Z > v.W {
		code |= outFar
	}
	return code
}

// Outside reports whether all three vertices are beyond the same clip plane.
// Such a triangle cannot cover any part of the view volume.
func Outside(a, b, c math.Vec4) bool {
	return outcode(a)&outcode(b)&outcode(c) != 0
}

// FrontFacing reports whether the triangle winds counter-clockwise after the
// perspective divide. It assumes every vertex has w > 0; otherwise the divide
// flips orientation and the triangle is reported as front-facing.
func FrontFacing(a, b, c math.Vec4) bool {
	if a.W <= 0 || b.W <= 0 || c.W <= 0 {
		return true
	}
	pa := math.Vec2{X: a.X / a.W, Y: a.Y / a.W}
	pb := math.Vec2{X: b.X / b.W, Y: b.Y / b.W}
	pc := math.Vec2{X: c.X / c.W, Y: c.Y / c.W}
	return pb.Sub(pa).Cross(pc.Sub(pa)) > 0
}

// Classify runs the per-triangle visibility filter. Triangles sharing a
// frustum outcode are culled. Triangles entirely in front of the near plane
// are tested for facing when cullBack is set. Triangles crossing the near
// plane are always Straddling: their facing cannot be judged before clipping.
func Classify(a, b, c math.Vec4, cullBack bool) Class {
	if Outside(a, b, c) {
		return Culled
	}
	if a.NearDistance() > 0 && b.NearDistance() > 0 && c.NearDistance() > 0 &&
		a.W > 0 && b.W > 0 && c.W > 0 {
		if cullBack && !FrontFacing(a, b, c) {
			return BackFacing
		}
		return Visible
	}
	return Straddling
}

// ToDisplay maps a clip-space point to scope coordinates: x is scaled by the
// display aspect ratio, y points down, and the visible range is about ±0.5.
// ok is false when w is not positive.
func ToDisplay(p math.Vec4, aspect float32) (math.Vec2, bool) {
	if p.W <= 0 {
		return math.Vec2{}, false
	}
	inv := 1 / p.W
	return math.Vec2{X: 0.5 * p.X * inv * aspect, Y: -0.5 * p.Y * inv}, true
}
