package app

import (
	gomath "math"
	"math/rand/v2"

	"github.com/Faultbox/scopewire/internal/engine/scene"
	"github.com/Faultbox/scopewire/pkg/math"
)

// Spinner rotates a transform about a local axis at a fixed rate.
type Spinner struct {
	Transform        *scene.Transform
	Axis             math.Vec3
	DegreesPerSecond float32
}

// Update advances the rotation by dt seconds.
func (s *Spinner) Update(dt float32) {
	if s.Transform == nil || s.DegreesPerSecond == 0 {
		return
	}
	s.Transform.Rotate(s.Axis.Normalize(), math.Radians(s.DegreesPerSecond*dt))
}

// Wobble deforms a mesh radially with a travelling sine wave. It stands in
// for a skinned mesh whose positions change every frame while the topology
// stays fixed.
type Wobble struct {
	base      []math.Vec3
	Amplitude float32
	Frequency float32 // radians per second
	Waves     float32 // wave count along Y
	time      float64
}

// NewWobble captures the rest pose.
func NewWobble(rest []math.Vec3, amplitude, frequency, waves float32) *Wobble {
	base := make([]math.Vec3, len(rest))
	copy(base, rest)
	return &Wobble{base: base, Amplitude: amplitude, Frequency: frequency, Waves: waves}
}

// Update advances the animation clock.
func (w *Wobble) Update(dt float32) {
	w.time += float64(dt)
}

// Skin writes the deformed positions. It has the scene.SkinFunc signature.
func (w *Wobble) Skin(dst []math.Vec3) {
	phase := float64(w.Frequency) * w.time
	for i := range dst {
		if i >= len(w.base) {
			break
		}
		v := w.base[i]
		s := 1 + float64(w.Amplitude)*gomath.Sin(phase+float64(w.Waves*v.Y))
		dst[i] = v.Scale(float32(s))
	}
}

const gravity = 9.81

type fragment struct {
	transform *scene.Transform
	velocity  math.Vec3
	spinAxis  math.Vec3
	spinRate  float32 // radians per second
}

// Explosion throws a set of fragment transforms out of a common origin and
// lets them fall. With a positive RepeatTime it re-explodes periodically.
type Explosion struct {
	Speed      float32 // launch speed scale
	RepeatTime float32 // seconds, 0 explodes once

	fragments []fragment
	elapsed   float32
	rng       *rand.Rand
}

// NewExplosion creates count fragment transforms parented to origin and
// launches them. seed makes the launch directions reproducible.
func NewExplosion(origin *scene.Transform, count int, speed, repeat float32, seed uint64) *Explosion {
	e := &Explosion{
		Speed:      speed,
		RepeatTime: repeat,
		fragments:  make([]fragment, count),
		rng:        rand.New(rand.NewPCG(seed, 0x5eed)),
	}
	for i := range e.fragments {
		t := scene.NewTransform()
		t.Parent = origin
		e.fragments[i].transform = t
	}
	e.Explode()
	return e
}

// Transforms returns the fragment transforms in creation order.
func (e *Explosion) Transforms() []*scene.Transform {
	out := make([]*scene.Transform, len(e.fragments))
	for i := range e.fragments {
		out[i] = e.fragments[i].transform
	}
	return out
}

// Explode puts every fragment back at the origin with a fresh velocity
// pointing mostly upwards.
func (e *Explosion) Explode() {
	e.elapsed = 0
	up := math.Vec3{Y: 2}
	for i := range e.fragments {
		f := &e.fragments[i]
		f.transform.Position = math.Vec3{}
		f.transform.Rotation = math.QuatIdentity()
		f.velocity = up.Add(e.unitVector()).Scale(e.Speed)
		f.spinAxis = e.unitVector()
		f.spinRate = e.Speed * float32(1+e.rng.Float64())
	}
}

// Update integrates the fragments by dt seconds.
func (e *Explosion) Update(dt float32) {
	e.elapsed += dt
	if e.RepeatTime > 0 && e.elapsed >= e.RepeatTime {
		e.Explode()
		return
	}
	for i := range e.fragments {
		f := &e.fragments[i]
		f.velocity.Y -= gravity * dt
		f.transform.Position = f.transform.Position.Add(f.velocity.Scale(dt))
		f.transform.Rotate(f.spinAxis, f.spinRate*dt)
	}
}

// unitVector returns a uniformly distributed direction.
func (e *Explosion) unitVector() math.Vec3 {
	for {
		v := math.Vec3{
			X: float32(e.rng.NormFloat64()),
			Y: float32(e.rng.NormFloat64()),
			Z: float32(e.rng.NormFloat64()),
		}
		if v.Length() > 1e-3 {
			return v.Normalize()
		}
	}
}
