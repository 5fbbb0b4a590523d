package scene

import (
	"github.com/Faultbox/scopewire/pkg/math"
)

// Transform places an object in world space. Parent transforms are applied
// after the local one.
type Transform struct {
	Position math.Vec3
	Rotation math.Quat
	Scale    math.Vec3
	Parent   *Transform
}

// NewTransform returns an identity transform.
func NewTransform() *Transform {
	return &Transform{
		Rotation: math.QuatIdentity(),
		Scale:    math.Vec3{X: 1, Y: 1, Z: 1},
	}
}

// Matrix returns the local-to-world matrix.
func (t *Transform) Matrix() math.Mat4 {
	if t == nil {
		return math.Identity()
	}
	m := math.TRS(t.Position, t.Rotation, t.Scale)
	if t.Parent != nil {
		return t.Parent.Matrix().Mul(m)
	}
	return m
}

// Rotate applies an additional rotation of angle radians about axis, in
// local space.
func (t *Transform) Rotate(axis math.Vec3, angle float32) {
	t.Rotation = t.Rotation.Mul(math.QuatFromAxisAngle(axis, angle)).Normalize()
}
