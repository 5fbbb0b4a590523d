// Package topology derives edge adjacency and dihedral angles from an indexed
// triangle list. An EdgeCache is built once per mesh topology and reused every
// frame; only vertex positions change for deforming meshes.
package topology

import (
	"errors"
	"fmt"
	gomath "math"

	"github.com/Faultbox/scopewire/pkg/math"
)

// BoundaryAngle is the dihedral angle assigned to edges with a single adjacent
// triangle. It is larger than any real angle so boundaries are always drawn.
const BoundaryAngle float32 = 360

// NoTriangle marks an empty adjacency slot.
const NoTriangle int32 = -1

var (
	// ErrIndexCount is returned when the index count is not a multiple of 3.
	ErrIndexCount = errors.New("triangle index count is not a multiple of 3")
	// ErrIndexRange is returned when an index points past the vertex array.
	ErrIndexRange = errors.New("triangle index out of range")
	// ErrNonManifold is returned when an edge is shared by more than two triangles.
	ErrNonManifold = errors.New("edge shared by more than two triangles")
)

// Edge is an unordered vertex pair with its adjacent triangles.
type Edge struct {
	A, B      uint32   // vertex indices, A < B
	Triangles [2]int32 // adjacent triangle indices; [1] is NoTriangle on boundaries
	Angle     float32  // dihedral angle in degrees
}

// Boundary reports whether the edge has only one adjacent triangle.
func (e Edge) Boundary() bool {
	return e.Triangles[1] == NoTriangle
}

// EdgeCache maps every unique edge of a triangle list to its adjacency.
type EdgeCache struct {
	Edges []Edge

	index map[uint64]int32
}

// Len returns the number of unique edges.
func (c *EdgeCache) Len() int {
	if c == nil {
		return 0
	}
	return len(c.Edges)
}

// Find looks up the edge between two vertices in either order.
func (c *EdgeCache) Find(a, b uint32) (Edge, bool) {
	if c == nil {
		return Edge{}, false
	}
	i, ok := c.index[edgeKey(a, b)]
	if !ok {
		return Edge{}, false
	}
	return c.Edges[i], true
}

// Build registers the three edges of every triangle and computes each edge's
// dihedral angle from the face normals of its adjacent triangles.
//
// Triangles that repeat a vertex contribute only their non-degenerate edges.
// An edge referenced by a third triangle rejects the whole mesh.
func Build(vertices []math.Vec3, indices []uint32) (*EdgeCache, error) {
	if len(indices)%3 != 0 {
		return nil, fmt.Errorf("%w: %d indices", ErrIndexCount, len(indices))
	}
	for i, idx := range indices {
		if int(idx) >= len(vertices) {
			return nil, fmt.Errorf("%w: index %d at position %d, %d vertices", ErrIndexRange, idx, i, len(vertices))
		}
	}

	triCount := len(indices) / 3
	c := &EdgeCache{
		Edges: make([]Edge, 0, triCount*3/2+1),
		index: make(map[uint64]int32, triCount*3/2+1),
	}

	for t := 0; t < triCount; t++ {
		tri := indices[t*3 : t*3+3]
		for k := 0; k < 3; k++ {
			a, b := tri[k], tri[(k+1)%3]
			if a == b {
				continue
			}
			if err := c.register(a, b, int32(t)); err != nil {
				return nil, err
			}
		}
	}

	normals := make([]math.Vec3, triCount)
	for t := range normals {
		normals[t] = math.TriangleNormal(
			vertices[indices[t*3]],
			vertices[indices[t*3+1]],
			vertices[indices[t*3+2]],
		)
	}
	for i := range c.Edges {
		e := &c.Edges[i]
		e.Angle = dihedral(normals, e.Triangles)
	}

	return c, nil
}

func (c *EdgeCache) register(a, b uint32, tri int32) error {
	if a > b {
		a, b = b, a
	}
	key := edgeKey(a, b)
	i, ok := c.index[key]
	if !ok {
		c.index[key] = int32(len(c.Edges))
		c.Edges = append(c.Edges, Edge{A: a, B: b, Triangles: [2]int32{tri, NoTriangle}})
		return nil
	}

	e := &c.Edges[i]
	switch {
	case e.Triangles[0] == tri || e.Triangles[1] == tri:
		// A degenerate triangle can name the same edge twice.
		return nil
	case e.Triangles[1] == NoTriangle:
		e.Triangles[1] = tri
		return nil
	default:
		return fmt.Errorf("%w: edge (%d,%d) triangles %d, %d, %d",
			ErrNonManifold, a, b, e.Triangles[0], e.Triangles[1], tri)
	}
}

// dihedral returns the angle between the face normals of an edge's triangles.
// Boundary edges and edges touching a zero-area triangle count as maximally sharp.
func dihedral(normals []math.Vec3, tris [2]int32) float32 {
	if tris[1] == NoTriangle {
		return BoundaryAngle
	}
	n0 := normals[tris[0]]
	n1 := normals[tris[1]]
	if n0 == (math.Vec3{}) || n1 == (math.Vec3{}) {
		return BoundaryAngle
	}
	cos := math.Clamp(n0.Dot(n1), -1, 1)
	return math.Degrees(float32(gomath.Acos(float64(cos))))
}

func edgeKey(a, b uint32) uint64 {
	if a > b {
		a, b = b, a
	}
	return uint64(a)<<32 | uint64(b)
}
