// Package model holds indexed triangle meshes and procedural primitives used
// as wireframe sources.
package model

import (
	"github.com/Faultbox/scopewire/pkg/math"
)

// Mesh is an indexed triangle list in local space.
// Triangles are counter-clockwise when seen from outside.
type Mesh struct {
	Vertices []math.Vec3
	Indices  []uint32
}

// Bounds holds an axis-aligned bounding box.
type Bounds struct {
	Min math.Vec3
	Max math.Vec3
}

// TriangleCount returns the number of complete triangles.
func (m *Mesh) TriangleCount() int {
	if m == nil {
		return 0
	}
	return len(m.Indices) / 3
}

// Clone returns a deep copy of the mesh.
func (m *Mesh) Clone() *Mesh {
	if m == nil {
		return nil
	}
	c := &Mesh{
		Vertices: make([]math.Vec3, len(m.Vertices)),
		Indices:  make([]uint32, len(m.Indices)),
	}
	copy(c.Vertices, m.Vertices)
	copy(c.Indices, m.Indices)
	return c
}

// Bounds computes the bounding box of all vertices.
func (m *Mesh) Bounds() Bounds {
	if m == nil || len(m.Vertices) == 0 {
		return Bounds{}
	}
	b := Bounds{Min: m.Vertices[0], Max: m.Vertices[0]}
	for _, v := range m.Vertices[1:] {
		updateBounds(&b, v)
	}
	return b
}

// Center translates the vertices so the bounding box is centered on the
// origin and returns the applied offset.
func (m *Mesh) Center() math.Vec3 {
	b := m.Bounds()
	c := b.Min.Add(b.Max).Scale(0.5)
	for i := range m.Vertices {
		m.Vertices[i] = m.Vertices[i].Sub(c)
	}
	return c
}

func updateBounds(b *Bounds, p math.Vec3) {
	if p.X < b.Min.X {
		b.Min.X = p.X
	}
	if p.Y < b.Min.Y {
		b.Min.Y = p.Y
	}
	if p.Z < b.Min.Z {
		b.Min.Z = p.Z
	}
	if p.X > b.Max.X {
		b.Max.X = p.X
	}
	if p.Y > b.Max.Y {
		b.Max.Y = p.Y
	}
	if p.Z > b.Max.Z {
		b.Max.Z = p.Z
	}
}
