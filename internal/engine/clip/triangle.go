package clip

import (
	"github.com/Faultbox/scopewire/pkg/math"
)

// NearResult says how a triangle relates to the near plane z = -w.
type NearResult int

const (
	// NearInside means no vertex is behind the near plane.
	NearInside NearResult = iota
	// NearOutside means every vertex is behind the near plane.
	NearOutside
	// NearSplit means the triangle straddles the plane and was retiled.
	NearSplit
)

// Split is a triangle retiled against the near plane.
//
// Vertices 0..2 are the input corners after rotation, Source maps them back to
// the caller's corner order. Vertices 3 and 4 are new points on the near plane.
// Triangles index into Vertices and keep the input winding.
type Split struct {
	Vertices  [5]math.Vec4
	Source    [3]int
	Triangles [2][3]uint8
	Count     int
}

// NearTriangle clips a triangle against the near plane. A point is in front
// when z + w >= 0. With one vertex in front the result is a single smaller
// triangle; with two it is a quad split into two triangles.
func NearTriangle(a, b, c math.Vec4) (Split, NearResult) {
	in := [3]math.Vec4{a, b, c}
	var front [3]bool
	n := 0
	for i, v := range in {
		if v.NearDistance() >= 0 {
			front[i] = true
			n++
		}
	}
	switch n {
	case 3:
		return Split{}, NearInside
	case 0:
		return Split{}, NearOutside
	}

	// Rotate so corner 0 is in front. With two in front, the behind corner
	// goes to slot 2.
	r := 0
	for i := range front {
		if n == 1 && front[i] {
			r = i
			break
		}
		if n == 2 && !front[i] {
			r = (i + 1) % 3
			break
		}
	}

	var s Split
	for k := 0; k < 3; k++ {
		s.Source[k] = (r + k) % 3
		s.Vertices[k] = in[s.Source[k]]
	}
	va, vb, vc := s.Vertices[0], s.Vertices[1], s.Vertices[2]

	if n == 1 {
		s.Vertices[3] = nearPoint(va, vb)
		s.Vertices[4] = nearPoint(va, vc)
		s.Triangles[0] = [3]uint8{0, 3, 4}
		s.Count = 1
		return s, NearSplit
	}

	// A and B in front, C behind. P lies on B→C and Q on C→A.
	s.Vertices[3] = nearPoint(vb, vc)
	s.Vertices[4] = nearPoint(va, vc)
	s.Triangles[0] = [3]uint8{0, 1, 3}
	s.Triangles[1] = [3]uint8{0, 3, 4}
	s.Count = 2
	return s, NearSplit
}

// nearPoint interpolates from a front vertex towards a behind vertex up to the
// near plane.
func nearPoint(front, behind math.Vec4) math.Vec4 {
	df := front.NearDistance()
	db := behind.NearDistance()
	t := df / (df - db)
	p := front.Lerp(behind, t)
	// Snap onto the plane so later tests see it as exactly in front.
	p.Z = -p.W
	return p
}
