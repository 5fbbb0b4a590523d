// Package camera provides the orbit camera used to view the wireframe scene.
package camera

import (
	gomath "math"

	"github.com/Faultbox/scopewire/pkg/math"
)

// OrbitCamera orbits around a center point.
type OrbitCamera struct {
	Center math.Vec3

	// Spherical coordinates
	Distance float32 // Distance from center
	Pitch    float32 // Vertical angle, radians
	Yaw      float32 // Horizontal angle, radians

	// AutoYaw rotates the camera around the center, radians per second.
	AutoYaw float32

	// Constraints
	MinDistance float32
	MaxDistance float32
	MinPitch    float32
	MaxPitch    float32

	// Projection
	FovY float32 // Vertical field of view, degrees
	Near float32
	Far  float32

	ZoomSensitivity float32
}

// NewOrbitCamera creates a new orbit camera with default settings.
func NewOrbitCamera() *OrbitCamera {
	return &OrbitCamera{
		Distance:        6,
		Pitch:           0.35,
		MinDistance:     0.5,
		MaxDistance:     500,
		MinPitch:        -1.5,
		MaxPitch:        1.5,
		FovY:            60,
		Near:            0.1,
		Far:             100,
		ZoomSensitivity: 0.1,
	}
}

// Position returns the camera position in world space.
func (c *OrbitCamera) Position() math.Vec3 {
	x := c.Distance * float32(gomath.Cos(float64(c.Pitch))*gomath.Sin(float64(c.Yaw)))
	y := c.Distance * float32(gomath.Sin(float64(c.Pitch)))
	z := c.Distance * float32(gomath.Cos(float64(c.Pitch))*gomath.Cos(float64(c.Yaw)))
	return c.Center.Add(math.Vec3{X: x, Y: y, Z: z})
}

// ViewMatrix returns the view matrix for this camera.
func (c *OrbitCamera) ViewMatrix() math.Mat4 {
	up := math.Vec3{X: 0, Y: 1, Z: 0}
	return math.LookAt(c.Position(), c.Center, up)
}

// Projection returns the perspective matrix for the given aspect ratio.
func (c *OrbitCamera) Projection(aspect float32) math.Mat4 {
	if aspect <= 0 {
		aspect = 1
	}
	return math.Perspective(math.Radians(c.FovY), aspect, c.Near, c.Far)
}

// ViewProjection returns Projection(aspect) * ViewMatrix().
func (c *OrbitCamera) ViewProjection(aspect float32) math.Mat4 {
	return c.Projection(aspect).Mul(c.ViewMatrix())
}

// Update advances automatic rotation.
func (c *OrbitCamera) Update(dt float32) {
	if c.AutoYaw == 0 {
		return
	}
	c.Yaw = float32(gomath.Mod(float64(c.Yaw+c.AutoYaw*dt), 2*gomath.Pi))
}

// Orbit rotates the camera by the given yaw and pitch deltas in radians.
func (c *OrbitCamera) Orbit(deltaYaw, deltaPitch float32) {
	c.Yaw += deltaYaw
	c.Pitch = math.Clamp(c.Pitch+deltaPitch, c.MinPitch, c.MaxPitch)
}

// HandleZoom updates distance based on scroll wheel delta.
func (c *OrbitCamera) HandleZoom(delta float32) {
	c.Distance -= delta * c.Distance * c.ZoomSensitivity
	c.Distance = math.Clamp(c.Distance, c.MinDistance, c.MaxDistance)
}

// FitToRadius places the camera so a sphere of the given radius around the
// center fits in the vertical field of view.
func (c *OrbitCamera) FitToRadius(radius float32) {
	half := float64(math.Radians(c.FovY)) / 2
	d := float32(float64(radius) / gomath.Sin(half))
	c.Distance = math.Clamp(d, c.MinDistance, c.MaxDistance)
	if c.Far < c.Distance+2*radius {
		c.Far = c.Distance + 2*radius
	}
}
