// Package screen emulates an oscilloscope on an SDL2/OpenGL window. Lines
// are drawn as glowing beams into a persistent phosphor layer that fades a
// little every frame.
package screen

import (
	"fmt"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/scopewire/internal/logger"
	"github.com/Faultbox/scopewire/internal/sink"
	"github.com/Faultbox/scopewire/internal/sink/screen/shaders"
	"github.com/Faultbox/scopewire/pkg/math"
)

// Config holds window and phosphor settings.
type Config struct {
	Title      string
	Width      int
	Height     int
	Fullscreen bool
	VSync      bool

	// BeamRadius is the beam half width in display units.
	BeamRadius float32
	// Decay is the fraction of brightness kept from one frame to the next.
	Decay float32
	// Phosphor is the beam colour at full intensity.
	Phosphor [3]float32
	// Background is added under the phosphor layer.
	Background [3]float32
}

// DefaultConfig returns a green P31-style phosphor.
func DefaultConfig() Config {
	return Config{
		Title:      "scopewire",
		Width:      900,
		Height:     900,
		VSync:      true,
		BeamRadius: 0.004,
		Decay:      0.55,
		Phosphor:   [3]float32{0.35, 1.0, 0.45},
		Background: [3]float32{0.01, 0.03, 0.015},
	}
}

// Screen is a sink.Sink that renders to a window. It must be used from the
// goroutine that created it.
type Screen struct {
	cfg    Config
	log    *zap.Logger
	window *window
	layer  *target

	beamProgram    uint32
	decayProgram   uint32
	presentProgram uint32
	vao            uint32
	vbo            uint32
	emptyVAO       uint32
	vboCapacity    int

	uScale, uRadius, uColor int32
	uDecay                  int32
	uPhosphor, uBackground  int32

	building  beam
	submitted beam
	pen       math.Vec2
	intensity float32
}

var (
	_ sink.Sink     = (*Screen)(nil)
	_ sink.Keyboard = (*Screen)(nil)
	_ sink.Quitter  = (*Screen)(nil)
)

// Open creates the window and GL resources.
func Open(cfg Config) (*Screen, error) {
	def := DefaultConfig()
	if cfg.BeamRadius <= 0 {
		cfg.BeamRadius = def.BeamRadius
	}
	if cfg.Decay < 0 || cfg.Decay >= 1 {
		cfg.Decay = def.Decay
	}
	if cfg.Title == "" {
		cfg.Title = def.Title
	}

	s := &Screen{
		cfg:       cfg,
		log:       logger.Named("screen"),
		building:  beam{radius: cfg.BeamRadius},
		submitted: beam{radius: cfg.BeamRadius},
		intensity: 1,
	}

	w, err := newWindow(cfg, s.log)
	if err != nil {
		return nil, err
	}
	s.window = w

	if err := s.initGL(); err != nil {
		s.Close()
		return nil, err
	}
	return s, nil
}

func (s *Screen) initGL() error {
	if err := gl.Init(); err != nil {
		return fmt.Errorf("initializing OpenGL: %w", err)
	}
	s.log.Info("OpenGL initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))))

	var err error
	if s.beamProgram, err = compileProgram(shaders.BeamVertexShader, shaders.BeamFragmentShader); err != nil {
		return fmt.Errorf("beam program: %w", err)
	}
	if s.decayProgram, err = compileProgram(shaders.FullscreenVertexShader, shaders.DecayFragmentShader); err != nil {
		return fmt.Errorf("decay program: %w", err)
	}
	if s.presentProgram, err = compileProgram(shaders.FullscreenVertexShader, shaders.PresentFragmentShader); err != nil {
		return fmt.Errorf("present program: %w", err)
	}
	s.uScale = uniform(s.beamProgram, "uScale")
	s.uRadius = uniform(s.beamProgram, "uRadius")
	s.uColor = uniform(s.beamProgram, "uColor")
	s.uDecay = uniform(s.decayProgram, "uDecay")
	s.uPhosphor = uniform(s.presentProgram, "uPhosphor")
	s.uBackground = uniform(s.presentProgram, "uBackground")

	gl.GenVertexArrays(1, &s.vao)
	gl.BindVertexArray(s.vao)
	gl.GenBuffers(1, &s.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, s.vbo)
	stride := int32(floatsPerVertex * 4)
	gl.VertexAttribPointerWithOffset(0, 2, gl.FLOAT, false, stride, 0)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointerWithOffset(1, 3, gl.FLOAT, false, stride, 2*4)
	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointerWithOffset(2, 1, gl.FLOAT, false, stride, 5*4)
	gl.EnableVertexAttribArray(2)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	gl.BindVertexArray(0)

	// Core profile needs a bound VAO even for attribute-less draws.
	gl.GenVertexArrays(1, &s.emptyVAO)

	width, height := s.window.size()
	s.layer, err = newTarget(int32(width), int32(height))
	if err != nil {
		return fmt.Errorf("phosphor layer: %w", err)
	}
	return nil
}

// Aspect returns the drawable width divided by height.
func (s *Screen) Aspect() float32 {
	w, h := s.window.size()
	if h == 0 {
		return 1
	}
	return float32(w) / float32(h)
}

// keyBindings maps host command keys to physical keys.
var keyBindings = map[sink.Key]sdl.Scancode{
	sink.KeyPrevious: sdl.SCANCODE_LEFT,
	sink.KeyNext:     sdl.SCANCODE_RIGHT,
	sink.KeyCapture:  sdl.SCANCODE_F12,
}

// Pressed implements sink.Keyboard.
func (s *Screen) Pressed(key sink.Key) bool {
	code, ok := keyBindings[key]
	if !ok {
		return false
	}
	for _, k := range s.window.pressed {
		if k == code {
			return true
		}
	}
	return false
}

// QuitRequested reports whether the window was closed or Escape pressed.
func (s *Screen) QuitRequested() bool {
	return s.window.quit
}

// Begin implements sink.Sink.
func (s *Screen) Begin() {
	s.building.reset()
	s.pen = math.Vec2{}
	s.intensity = 1
}

// SetIntensity implements sink.Sink.
func (s *Screen) SetIntensity(v float32) {
	s.intensity = v
}

// SetPoint implements sink.Sink.
func (s *Screen) SetPoint(p math.Vec2) {
	s.pen = p
}

// DrawLine implements sink.Sink.
func (s *Screen) DrawLine(to math.Vec2, intensity float32) {
	if intensity >= 0 {
		s.intensity = intensity
	}
	s.building.line(s.pen, to, s.intensity)
	s.pen = to
}

// DrawCircle implements sink.Sink.
func (s *Screen) DrawCircle(radius float32) {
	if radius <= 0 {
		return
	}
	pts := sink.CirclePoints(s.pen, radius, 128)
	for i := 0; i+1 < len(pts); i++ {
		s.building.line(pts[i], pts[i+1], s.intensity)
	}
}

// WaitSync pumps window events. The swap interval paces frames; it returns
// false once the window was closed.
func (s *Screen) WaitSync() bool {
	s.window.poll()
	return !s.window.quit
}

// Submit renders the built frame and presents it.
func (s *Screen) Submit() error {
	s.building, s.submitted = s.submitted, s.building

	width, height := s.window.size()
	s.layer.resize(int32(width), int32(height))
	aspect := float32(width) / float32(max(height, 1))

	s.layer.bind()
	gl.Enable(gl.BLEND)

	// Fade what is already on the phosphor.
	gl.BlendFunc(gl.ZERO, gl.SRC_COLOR)
	gl.UseProgram(s.decayProgram)
	gl.Uniform1f(s.uDecay, s.cfg.Decay)
	gl.BindVertexArray(s.emptyVAO)
	gl.DrawArrays(gl.TRIANGLES, 0, 3)

	// Excite it with the new beams.
	if n := s.submitted.count(); n > 0 {
		gl.BlendFunc(gl.ONE, gl.ONE)
		gl.UseProgram(s.beamProgram)
		gl.Uniform2f(s.uScale, 2/aspect, -2)
		gl.Uniform1f(s.uRadius, s.cfg.BeamRadius)
		gl.Uniform3f(s.uColor, s.cfg.Phosphor[0], s.cfg.Phosphor[1], s.cfg.Phosphor[2])
		s.upload(s.submitted.vertices)
		gl.BindVertexArray(s.vao)
		gl.DrawArrays(gl.TRIANGLES, 0, int32(n))
	}
	gl.Disable(gl.BLEND)

	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	gl.Viewport(0, 0, int32(width), int32(height))
	gl.UseProgram(s.presentProgram)
	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, s.layer.texture)
	gl.Uniform1i(s.uPhosphor, 0)
	gl.Uniform3f(s.uBackground, s.cfg.Background[0], s.cfg.Background[1], s.cfg.Background[2])
	gl.BindVertexArray(s.emptyVAO)
	gl.DrawArrays(gl.TRIANGLES, 0, 3)
	gl.BindVertexArray(0)

	if code := gl.GetError(); code != gl.NO_ERROR {
		return fmt.Errorf("rendering frame: GL error 0x%x", code)
	}
	s.window.swap()
	return nil
}

// upload streams vertices into the VBO, growing it when needed.
func (s *Screen) upload(vertices []float32) {
	gl.BindBuffer(gl.ARRAY_BUFFER, s.vbo)
	size := len(vertices) * 4
	if size > s.vboCapacity {
		s.vboCapacity = size * 2
		gl.BufferData(gl.ARRAY_BUFFER, s.vboCapacity, nil, gl.STREAM_DRAW)
	}
	gl.BufferSubData(gl.ARRAY_BUFFER, 0, size, unsafe.Pointer(&vertices[0]))
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
}

// Viewport implements sink.Sink. The horizontal extent follows the window
// aspect ratio.
func (s *Screen) Viewport() sink.Viewport {
	aspect := s.Aspect()
	return sink.Viewport{X: -0.5 * aspect, Y: -0.5, Width: aspect, Height: 1}
}

// Close releases GL resources and the window.
func (s *Screen) Close() error {
	if s.window == nil {
		return nil
	}
	if s.layer != nil {
		s.layer.destroy()
	}
	for _, p := range []uint32{s.beamProgram, s.decayProgram, s.presentProgram} {
		if p != 0 {
			gl.DeleteProgram(p)
		}
	}
	if s.vbo != 0 {
		gl.DeleteBuffers(1, &s.vbo)
	}
	if s.vao != 0 {
		gl.DeleteVertexArrays(1, &s.vao)
	}
	if s.emptyVAO != 0 {
		gl.DeleteVertexArrays(1, &s.emptyVAO)
	}
	s.window.close()
	s.window = nil
	return nil
}
