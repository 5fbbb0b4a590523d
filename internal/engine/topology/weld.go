package topology

import (
	gomath "math"

	"github.com/Faultbox/scopewire/pkg/math"
)

// Weld returns a copy of indices where vertices that fall into the same grid
// cell of size eps are replaced by the first such vertex. Meshes exported with
// split vertices along hard edges then share edges again, so dihedral angles
// can be computed across them.
//
// Two positions closer than eps but on opposite sides of a cell boundary are
// not merged.
func Weld(vertices []math.Vec3, indices []uint32, eps float32) []uint32 {
	out := make([]uint32, len(indices))
	if eps <= 0 {
		copy(out, indices)
		return out
	}

	inv := 1 / float64(eps)
	canonical := make(map[[3]int64]uint32, len(vertices))
	remap := make([]uint32, len(vertices))
	for i, v := range vertices {
		key := [3]int64{
			int64(gomath.Round(float64(v.X) * inv)),
			int64(gomath.Round(float64(v.Y) * inv)),
			int64(gomath.Round(float64(v.Z) * inv)),
		}
		if first, ok := canonical[key]; ok {
			remap[i] = first
			continue
		}
		canonical[key] = uint32(i)
		remap[i] = uint32(i)
	}

	for i, idx := range indices {
		if int(idx) < len(remap) {
			out[i] = remap[idx]
		} else {
			// Left for Build to reject.
			out[i] = idx
		}
	}
	return out
}
