// Package shaders provides embedded GLSL shader sources.
package shaders

import _ "embed"

// BeamVertexShader expands line quads into display space.
//
//go:embed beam.vert
var BeamVertexShader string

// BeamFragmentShader draws a gaussian beam profile around each segment.
//
//go:embed beam.frag
var BeamFragmentShader string

// FullscreenVertexShader emits a single viewport-covering triangle.
//
//go:embed fullscreen.vert
var FullscreenVertexShader string

// DecayFragmentShader outputs the per-frame persistence factor.
//
//go:embed decay.frag
var DecayFragmentShader string

// PresentFragmentShader composites the phosphor texture over the background.
//
//go:embed present.frag
var PresentFragmentShader string
