// Package sink defines the render-sink contract the wireframe pipeline drives,
// plus in-process implementations.
//
// A sink receives one frame at a time as a beam path: Begin, pen moves and
// lines in display coordinates, WaitSync, Submit. Display space is roughly
// [-0.5, 0.5]² with x already scaled by the aspect ratio and y pointing down.
package sink

import (
	"errors"
	gomath "math"

	"github.com/Faultbox/scopewire/pkg/math"
)

// IntensityUnset passed to DrawLine keeps the current intensity.
const IntensityUnset float32 = -1

var (
	// ErrSyncFailed is returned when a sink could not synchronize with its
	// device before a submit.
	ErrSyncFailed = errors.New("sink sync failed")
	// ErrClosed is returned by Submit after Close.
	ErrClosed = errors.New("sink closed")
)

// Viewport is the display rectangle a sink covers.
type Viewport struct {
	X, Y, Width, Height float32
}

// Sink is an XY vector display.
type Sink interface {
	// Begin starts a frame. Each Begin is paired with one Submit.
	Begin()
	// SetIntensity sets the beam intensity for subsequent draws.
	SetIntensity(v float32)
	// SetPoint moves the pen without drawing.
	SetPoint(p math.Vec2)
	// DrawLine draws from the pen to p and moves the pen there. A negative
	// intensity keeps the current one.
	DrawLine(p math.Vec2, intensity float32)
	// DrawCircle draws a circle around the pen.
	DrawCircle(radius float32)
	// WaitSync blocks until the device consumed the previous frame.
	WaitSync() bool
	// Submit hands the frame to the device.
	Submit() error
	// Viewport reports the covered display rectangle.
	Viewport() Viewport
	// Close releases the device.
	Close() error
}

// Key is a host command key reported by interactive sinks.
type Key int

// Host command keys.
const (
	KeyNone Key = iota
	KeyPrevious
	KeyNext
	KeyCapture
)

// Keyboard is implemented by sinks with an input device. Pressed reports keys
// that went down during the last WaitSync.
type Keyboard interface {
	Pressed(k Key) bool
}

// Quitter is implemented by sinks the user can close. A closed sink fails
// WaitSync; QuitRequested tells that apart from a device failure.
type Quitter interface {
	QuitRequested() bool
}

// CirclePoints returns n+1 points on a closed circle, starting and ending at
// angle 0.
func CirclePoints(center math.Vec2, radius float32, n int) []math.Vec2 {
	n = max(n, 3)
	pts := make([]math.Vec2, n+1)
	for i := 0; i < n; i++ {
		a := 2 * gomath.Pi * float64(i) / float64(n)
		pts[i] = math.Vec2{
			X: center.X + radius*float32(gomath.Cos(a)),
			Y: center.Y + radius*float32(gomath.Sin(a)),
		}
	}
	pts[n] = pts[0]
	return pts
}
