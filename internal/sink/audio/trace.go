package audio

import (
	gomath "math"

	"github.com/Faultbox/scopewire/internal/sink"
	"github.com/Faultbox/scopewire/pkg/math"
)

// minDwell keeps dim segments visible on the scope.
const minDwell = 0.1

// tracer turns pen moves into beam samples at a fixed beam speed.
type tracer struct {
	perUnit        float64 // samples per display unit at intensity 1
	scaleX, scaleY float64

	pen       math.Vec2
	intensity float32
	samples   [][2]float64
}

func (t *tracer) reset() {
	t.samples = t.samples[:0]
	t.pen = math.Vec2{}
	t.intensity = 1
}

// count returns how many samples a path of the given length takes.
func (t *tracer) count(length float64) int {
	dwell := float64(t.intensity)
	if dwell < minDwell {
		dwell = minDwell
	}
	n := int(gomath.Ceil(length * t.perUnit * dwell))
	if n < 1 {
		n = 1
	}
	return n
}

// line samples the segment from the pen to p, excluding p itself: the next
// segment starts there.
func (t *tracer) line(p math.Vec2) {
	from := t.pen
	n := t.count(float64(from.Distance(p)))
	for i := 0; i < n; i++ {
		t.emit(from.Lerp(p, float32(i)/float32(n)))
	}
	t.pen = p
}

func (t *tracer) circle(radius float32) {
	if radius <= 0 {
		return
	}
	n := t.count(2 * gomath.Pi * float64(radius))
	if n < 8 {
		n = 8
	}
	points := sink.CirclePoints(t.pen, radius, n)
	for _, p := range points[:n] {
		t.emit(p)
	}
}

// emit appends one sample. Display y grows downward, scope y grows upward.
func (t *tracer) emit(p math.Vec2) {
	x := 2 * float64(p.X) * t.scaleX
	y := -2 * float64(p.Y) * t.scaleY
	t.samples = append(t.samples, [2]float64{clampUnit(x), clampUnit(y)})
}

func clampUnit(v float64) float64 {
	return gomath.Max(-1, gomath.Min(1, v))
}
