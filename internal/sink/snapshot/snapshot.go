// Package snapshot rasterizes recorded frames to PNG images for debugging.
package snapshot

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/image/vector"

	"github.com/Faultbox/scopewire/internal/sink"
	"github.com/Faultbox/scopewire/pkg/math"
)

// intensityLevels quantizes beam intensity so segments of similar brightness
// share one rasterizer pass.
const intensityLevels = 16

// circleSegments is the polyline resolution for border circles.
const circleSegments = 96

// Options controls the raster output.
type Options struct {
	Width, Height int
	// Viewport is the display rectangle mapped onto the image.
	Viewport sink.Viewport
	// LineWidth is the beam width in pixels.
	LineWidth float32
	// Beam is the colour of a full-intensity line.
	Beam       color.RGBA
	Background color.RGBA
}

// DefaultOptions returns a 512x512 green-phosphor image of the unit display.
func DefaultOptions() Options {
	return Options{
		Width:      512,
		Height:     512,
		Viewport:   sink.Viewport{X: -0.5, Y: -0.5, Width: 1, Height: 1},
		LineWidth:  2,
		Beam:       color.RGBA{R: 0x50, G: 0xff, B: 0x70, A: 0xff},
		Background: color.RGBA{R: 0x04, G: 0x0c, B: 0x06, A: 0xff},
	}
}

type quad [4]math.Vec2

// Render draws every segment and circle of f as a beam-width quad.
func Render(f sink.Frame, opt Options) *image.RGBA {
	w, h := opt.Width, opt.Height
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(opt.Background), image.Point{}, draw.Src)
	if opt.Viewport.Width <= 0 || opt.Viewport.Height <= 0 {
		return img
	}

	var buckets [intensityLevels + 1][]quad
	add := func(a, b math.Vec2, intensity float32) {
		level := int(math.Clamp(intensity, 0, 1)*intensityLevels + 0.5)
		if level == 0 {
			return
		}
		buckets[level] = append(buckets[level], beamQuad(opt.toPixel(a), opt.toPixel(b), opt.LineWidth/2))
	}
	for _, s := range f.Segments {
		add(s.From, s.To, s.Intensity)
	}
	for _, c := range f.Circles {
		pts := sink.CirclePoints(c.Center, c.Radius, circleSegments)
		for i := 0; i+1 < len(pts); i++ {
			add(pts[i], pts[i+1], c.Intensity)
		}
	}

	r := vector.NewRasterizer(w, h)
	for level, quads := range buckets {
		if len(quads) == 0 {
			continue
		}
		r.Reset(w, h)
		for _, q := range quads {
			r.MoveTo(q[0].X, q[0].Y)
			r.LineTo(q[1].X, q[1].Y)
			r.LineTo(q[2].X, q[2].Y)
			r.LineTo(q[3].X, q[3].Y)
			r.ClosePath()
		}
		src := image.NewUniform(scaleColor(opt.Beam, float32(level)/intensityLevels))
		r.Draw(img, img.Bounds(), src, image.Point{})
	}
	return img
}

func (opt Options) toPixel(p math.Vec2) math.Vec2 {
	vp := opt.Viewport
	return math.Vec2{
		X: (p.X - vp.X) / vp.Width * float32(opt.Width),
		Y: (p.Y - vp.Y) / vp.Height * float32(opt.Height),
	}
}

// beamQuad returns the corners of a line of the given half width with square
// caps. All quads share the same winding so overlapping beams do not cancel.
func beamQuad(a, b math.Vec2, half float32) quad {
	dir := b.Sub(a)
	length := dir.Length()
	if length < 1e-6 {
		dir = math.Vec2{X: 1}
	} else {
		dir = dir.Scale(1 / length)
	}
	along := dir.Scale(half)
	across := math.Vec2{X: -along.Y, Y: along.X}
	return quad{
		b.Add(along).Sub(across),
		b.Add(along).Add(across),
		a.Sub(along).Add(across),
		a.Sub(along).Sub(across),
	}
}

// scaleColor premultiplies c by alpha a.
func scaleColor(c color.RGBA, a float32) color.RGBA {
	s := func(v uint8) uint8 { return uint8(float32(v)*a + 0.5) }
	return color.RGBA{R: s(c.R), G: s(c.G), B: s(c.B), A: s(c.A)}
}

// Encode writes f to w as PNG.
func Encode(w io.Writer, f sink.Frame, opt Options) error {
	if err := png.Encode(w, Render(f, opt)); err != nil {
		return fmt.Errorf("encoding PNG: %w", err)
	}
	return nil
}

// WriteFile writes f to path as PNG.
func WriteFile(path string, f sink.Frame, opt Options) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating file: %w", err)
	}
	if err := Encode(file, f, opt); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

// Capture saves frames under a directory with timestamped names.
type Capture struct {
	outputDir string
	prefix    string
	opts      Options
	count     int
}

// NewCapture creates a capture writing into outputDir.
func NewCapture(outputDir, prefix string, opts Options) *Capture {
	return &Capture{outputDir: outputDir, prefix: prefix, opts: opts}
}

// SetViewport changes the captured display rectangle. The image height is
// kept and the width follows the viewport aspect ratio.
func (c *Capture) SetViewport(vp sink.Viewport) {
	if vp.Width <= 0 || vp.Height <= 0 {
		return
	}
	c.opts.Viewport = vp
	c.opts.Width = max(1, int(float32(c.opts.Height)*vp.Width/vp.Height+0.5))
}

// Save writes f and returns the file name.
func (c *Capture) Save(f sink.Frame) (string, error) {
	if c.outputDir != "" {
		if err := os.MkdirAll(c.outputDir, 0755); err != nil {
			return "", fmt.Errorf("creating output dir: %w", err)
		}
	}

	c.count++
	timestamp := time.Now().Format("2006-01-02_15-04-05")
	filename := fmt.Sprintf("%s_%s_%04d.png", c.prefix, timestamp, c.count)
	if c.outputDir != "" {
		filename = filepath.Join(c.outputDir, filename)
	}
	if err := WriteFile(filename, f, c.opts); err != nil {
		return "", err
	}
	return filename, nil
}
