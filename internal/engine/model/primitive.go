package model

import (
	gomath "math"

	"github.com/Faultbox/scopewire/pkg/math"
)

// Cube returns an axis-aligned cube with 8 shared vertices and 12 triangles.
func Cube(size float32) *Mesh {
	h := size / 2
	return &Mesh{
		Vertices: []math.Vec3{
			{X: -h, Y: -h, Z: -h}, {X: h, Y: -h, Z: -h}, {X: h, Y: h, Z: -h}, {X: -h, Y: h, Z: -h},
			{X: -h, Y: -h, Z: h}, {X: h, Y: -h, Z: h}, {X: h, Y: h, Z: h}, {X: -h, Y: h, Z: h},
		},
		Indices: []uint32{
			4, 5, 6, 4, 6, 7, // +Z
			1, 0, 3, 1, 3, 2, // -Z
			0, 4, 7, 0, 7, 3, // -X
			5, 1, 2, 5, 2, 6, // +X
			7, 6, 2, 7, 2, 3, // +Y
			0, 1, 5, 0, 5, 4, // -Y
		},
	}
}

// Quad returns a square in the XY plane facing +Z, made of two triangles
// sharing the diagonal (0,2).
func Quad(size float32) *Mesh {
	h := size / 2
	return &Mesh{
		Vertices: []math.Vec3{
			{X: -h, Y: -h}, {X: h, Y: -h}, {X: h, Y: h}, {X: -h, Y: h},
		},
		Indices: []uint32{0, 1, 2, 0, 2, 3},
	}
}

// Grid returns a flat open grid in the XZ plane facing +Y.
func Grid(width, depth float32, cols, rows int) *Mesh {
	cols = max(cols, 1)
	rows = max(rows, 1)
	m := &Mesh{
		Vertices: make([]math.Vec3, 0, (cols+1)*(rows+1)),
		Indices:  make([]uint32, 0, cols*rows*6),
	}
	for r := 0; r <= rows; r++ {
		for c := 0; c <= cols; c++ {
			m.Vertices = append(m.Vertices, math.Vec3{
				X: (float32(c)/float32(cols) - 0.5) * width,
				Z: (float32(r)/float32(rows) - 0.5) * depth,
			})
		}
	}
	stride := uint32(cols + 1)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			a := uint32(r)*stride + uint32(c)
			b := a + 1
			cc := a + stride
			d := cc + 1
			m.Indices = append(m.Indices, a, cc, b, b, cc, d)
		}
	}
	return m
}

// Sphere returns a closed UV sphere with single pole vertices.
func Sphere(radius float32, segments, rings int) *Mesh {
	segments = max(segments, 3)
	rings = max(rings, 2)

	m := &Mesh{}
	m.Vertices = append(m.Vertices, math.Vec3{Y: radius})
	for i := 1; i < rings; i++ {
		phi := gomath.Pi * float64(i) / float64(rings)
		for j := 0; j < segments; j++ {
			theta := 2 * gomath.Pi * float64(j) / float64(segments)
			m.Vertices = append(m.Vertices, math.Vec3{
				X: radius * float32(gomath.Sin(phi)*gomath.Cos(theta)),
				Y: radius * float32(gomath.Cos(phi)),
				Z: radius * float32(gomath.Sin(phi)*gomath.Sin(theta)),
			})
		}
	}
	bottom := uint32(len(m.Vertices))
	m.Vertices = append(m.Vertices, math.Vec3{Y: -radius})

	ring := func(i, j int) uint32 {
		return uint32(1 + i*segments + j%segments)
	}
	for j := 0; j < segments; j++ {
		m.Indices = append(m.Indices, 0, ring(0, j+1), ring(0, j))
	}
	for i := 0; i < rings-2; i++ {
		for j := 0; j < segments; j++ {
			a, b := ring(i, j), ring(i, j+1)
			c, d := ring(i+1, j), ring(i+1, j+1)
			m.Indices = append(m.Indices, a, b, d, a, d, c)
		}
	}
	last := rings - 2
	for j := 0; j < segments; j++ {
		m.Indices = append(m.Indices, ring(last, j), ring(last, j+1), bottom)
	}
	return m
}

// Torus returns a closed torus around the Y axis.
func Torus(major, minor float32, segments, sides int) *Mesh {
	segments = max(segments, 3)
	sides = max(sides, 3)

	m := &Mesh{
		Vertices: make([]math.Vec3, 0, segments*sides),
		Indices:  make([]uint32, 0, segments*sides*6),
	}
	for i := 0; i < segments; i++ {
		theta := 2 * gomath.Pi * float64(i) / float64(segments)
		for j := 0; j < sides; j++ {
			phi := 2 * gomath.Pi * float64(j) / float64(sides)
			ring := float64(major) + float64(minor)*gomath.Cos(phi)
			m.Vertices = append(m.Vertices, math.Vec3{
				X: float32(ring * gomath.Cos(theta)),
				Y: minor * float32(gomath.Sin(phi)),
				Z: float32(ring * gomath.Sin(theta)),
			})
		}
	}
	at := func(i, j int) uint32 {
		return uint32((i%segments)*sides + j%sides)
	}
	for i := 0; i < segments; i++ {
		for j := 0; j < sides; j++ {
			a, b := at(i, j), at(i+1, j)
			c, d := at(i, j+1), at(i+1, j+1)
			m.Indices = append(m.Indices, a, c, b, b, c, d)
		}
	}
	return m
}
