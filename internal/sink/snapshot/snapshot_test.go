package snapshot

import (
	"bytes"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Faultbox/scopewire/internal/sink"
	"github.com/Faultbox/scopewire/pkg/math"
)

func testOptions() Options {
	opt := DefaultOptions()
	opt.Width, opt.Height = 64, 64
	opt.LineWidth = 4
	return opt
}

func TestRenderSegment(t *testing.T) {
	opt := testOptions()
	f := sink.Frame{Segments: []sink.Segment{
		{From: math.Vec2{X: -0.25}, To: math.Vec2{X: 0.25}, Intensity: 1},
	}}
	img := Render(f, opt)

	if img.Bounds().Dx() != 64 || img.Bounds().Dy() != 64 {
		t.Fatalf("bounds = %v", img.Bounds())
	}
	// Centre lies on the beam.
	if c := img.RGBAAt(32, 32); c.G < 200 {
		t.Errorf("centre = %v, want lit", c)
	}
	// Corners and the row far above the beam stay background.
	for _, p := range [][2]int{{0, 0}, {63, 63}, {32, 5}} {
		if c := img.RGBAAt(p[0], p[1]); c != opt.Background {
			t.Errorf("pixel %v = %v, want background", p, c)
		}
	}
}

func TestRenderIntensity(t *testing.T) {
	opt := testOptions()
	seg := func(y, intensity float32) sink.Segment {
		return sink.Segment{From: math.Vec2{X: -0.4, Y: y}, To: math.Vec2{X: 0.4, Y: y}, Intensity: intensity}
	}
	f := sink.Frame{Segments: []sink.Segment{seg(-0.25, 1), seg(0, 0.25), seg(0.25, 0)}}
	img := Render(f, opt)

	bright := img.RGBAAt(32, 16).G
	dim := img.RGBAAt(32, 32).G
	off := img.RGBAAt(32, 48)
	if dim >= bright || dim <= opt.Background.G {
		t.Errorf("dim G = %d, bright G = %d", dim, bright)
	}
	if off != opt.Background {
		t.Errorf("zero intensity drew %v", off)
	}
}

func TestRenderCircle(t *testing.T) {
	opt := testOptions()
	f := sink.Frame{Circles: []sink.Circle{{Radius: 0.25, Intensity: 1}}}
	img := Render(f, opt)

	if c := img.RGBAAt(48, 32); c.G < 200 {
		t.Errorf("rim = %v, want lit", c)
	}
	if c := img.RGBAAt(32, 32); c != opt.Background {
		t.Errorf("centre = %v, want background", c)
	}
}

func TestRenderOverlappingBeams(t *testing.T) {
	opt := testOptions()
	f := sink.Frame{Segments: []sink.Segment{
		{From: math.Vec2{X: -0.25}, To: math.Vec2{X: 0.25}, Intensity: 1},
		{From: math.Vec2{X: 0.25}, To: math.Vec2{X: -0.25}, Intensity: 1},
	}}
	img := Render(f, opt)
	if c := img.RGBAAt(32, 32); c.G < 200 {
		t.Errorf("overlap = %v, want lit", c)
	}
}

func TestEncode(t *testing.T) {
	var buf bytes.Buffer
	f := sink.Frame{Segments: []sink.Segment{{To: math.Vec2{X: 0.3, Y: 0.3}, Intensity: 1}}}
	if err := Encode(&buf, f, testOptions()); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if img.Bounds().Dx() != 64 {
		t.Errorf("width = %d, want 64", img.Bounds().Dx())
	}
}

func TestCaptureSave(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "captures")
	c := NewCapture(dir, "frame", testOptions())

	first, err := c.Save(sink.Frame{})
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	second, err := c.Save(sink.Frame{})
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if first == second {
		t.Errorf("captures share a name: %s", first)
	}
	for _, name := range []string{first, second} {
		if !strings.HasPrefix(filepath.Base(name), "frame_") || filepath.Ext(name) != ".png" {
			t.Errorf("name = %s", name)
		}
		if _, err := os.Stat(name); err != nil {
			t.Errorf("stat %s: %v", name, err)
		}
	}
}

func TestCaptureSetViewport(t *testing.T) {
	dir := t.TempDir()
	c := NewCapture(dir, "wide", testOptions())
	c.SetViewport(sink.Viewport{X: -1, Y: -0.5, Width: 2, Height: 1})

	name, err := c.Save(sink.Frame{})
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	f, err := os.Open(name)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()
	cfg, err := png.DecodeConfig(f)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if cfg.Width != 128 || cfg.Height != 64 {
		t.Errorf("size = %dx%d, want 128x64", cfg.Width, cfg.Height)
	}
}
