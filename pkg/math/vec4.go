package math

// Vec4 is a homogeneous 4-component vector (clip-space position).
type Vec4 struct {
	X, Y, Z, W float32
}

// Add returns v + other.
func (v Vec4) Add(other Vec4) Vec4 {
	return Vec4{v.X + other.X, v.Y + other.Y, v.Z + other.Z, v.W + other.W}
}

// Sub returns v - other.
func (v Vec4) Sub(other Vec4) Vec4 {
	return Vec4{v.X - other.X, v.Y - other.Y, v.Z - other.Z, v.W - other.W}
}

// Scale returns v * scalar.
func (v Vec4) Scale(s float32) Vec4 {
	return Vec4{v.X * s, v.Y * s, v.Z * s, v.W * s}
}

// Lerp returns (1-t)*v + t*other.
func (v Vec4) Lerp(other Vec4, t float32) Vec4 {
	return Vec4{
		(1-t)*v.X + t*other.X,
		(1-t)*v.Y + t*other.Y,
		(1-t)*v.Z + t*other.Z,
		(1-t)*v.W + t*other.W,
	}
}

// XYZ drops the w component without dividing.
func (v Vec4) XYZ() Vec3 {
	return Vec3{v.X, v.Y, v.Z}
}

// Divide performs the perspective divide. ok is false when w is zero.
func (v Vec4) Divide() (p Vec3, ok bool) {
	if v.W == 0 {
		return Vec3{}, false
	}
	inv := 1 / v.W
	return Vec3{v.X * inv, v.Y * inv, v.Z * inv}, true
}

// NearDistance is the signed distance-like value z + w. Points with a negative
// value lie behind the near plane.
func (v Vec4) NearDistance() float32 {
	return v.Z + v.W
}

// FarDistance is the signed value z - w. Points with a positive value lie
// beyond the far plane.
func (v Vec4) FarDistance() float32 {
	return v.Z - v.W
}
