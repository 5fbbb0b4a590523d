// Package pipeline turns the registered scene into clipped 2D line segments
// once per frame and streams them to a sink.
//
// A frame runs in fixed stages: the registry is synced, every object is
// projected into a shared clip-space vertex buffer (in parallel, one task per
// object), triangles are classified and clipped against the near plane,
// feature edges are selected, and the selected edges are clipped to the view
// volume and optionally against visible triangles. All buffers are allocated
// once from the triangle budget; anything past capacity is dropped and
// counted in FrameStats.
package pipeline

import (
	"go.uber.org/zap"

	"github.com/Faultbox/scopewire/internal/engine/occlusion"
	"github.com/Faultbox/scopewire/internal/engine/scene"
	"github.com/Faultbox/scopewire/internal/logger"
	"github.com/Faultbox/scopewire/internal/parallel"
	"github.com/Faultbox/scopewire/pkg/math"
)

// Config controls buffer sizes and per-frame behavior.
type Config struct {
	// MaxTriangles sizes every frame buffer: 3 clip vertices and 3 edges per
	// triangle.
	MaxTriangles int
	// Jitter is the per-vertex random offset in clip units scaled by w.
	Jitter float32
	// CullBackFaces drops triangles facing away from the camera.
	CullBackFaces bool
	// Occlusion enables hidden-line removal against visible triangles.
	Occlusion bool
	// StatsInterval logs frame statistics every N frames; 0 disables.
	StatsInterval int

	// Intensity is the beam intensity for wireframe lines.
	Intensity float32
	// BorderRadius draws a circle around the display center; 0 disables.
	BorderRadius float32
	// BorderIntensity is the beam intensity for the border circle.
	BorderIntensity float32
}

// DefaultConfig returns the settings used by the demo host.
func DefaultConfig() Config {
	return Config{
		MaxTriangles:    20000,
		CullBackFaces:   true,
		StatsInterval:   300,
		Intensity:       1,
		BorderRadius:    0.5,
		BorderIntensity: 0.35,
	}
}

// DrawTriangle is three indices into the clip vertex buffer.
type DrawTriangle [3]uint32

// DrawEdge is a candidate segment: two indices into the clip vertex buffer
// and the vertex offset of the object that owns it.
type DrawEdge struct {
	A, B   uint32
	Offset int
}

// Line is an output segment in homogeneous coordinates, inside the view
// volume.
type Line struct {
	From, To math.Vec4
}

// Pipeline owns the frame buffers. It is not safe for concurrent use.
type Pipeline struct {
	cfg      Config
	registry *scene.Registry
	pool     *parallel.Pool
	log      *zap.Logger

	clipVerts []math.Vec4
	vertCount int // next free slot for near-plane vertices
	projEnd   int // end of the projected object range
	triangles []DrawTriangle
	edges     []DrawEdge
	lines     []Line

	snapshots []*scene.Snapshot
	fits      []bool // per snapshot: vertex range inside the buffer
	active    []bool // per snapshot: fits and visible this frame
	visible   []bool // per triangle of the object being walked
	occluder  *occlusion.Clipper
	pieces    []occlusion.Interval

	frame      uint64
	stats      FrameStats
	overflowed bool // last frame dropped primitives
}

// New allocates a pipeline for the registry. pool may be nil, in which case
// projection runs on the calling goroutine.
func New(cfg Config, registry *scene.Registry, pool *parallel.Pool) *Pipeline {
	if cfg.MaxTriangles <= 0 {
		cfg.MaxTriangles = DefaultConfig().MaxTriangles
	}
	n := cfg.MaxTriangles
	p := &Pipeline{
		cfg:       cfg,
		registry:  registry,
		pool:      pool,
		log:       logger.Named("pipeline"),
		clipVerts: make([]math.Vec4, 3*n),
		triangles: make([]DrawTriangle, 0, n),
		edges:     make([]DrawEdge, 0, 3*n),
		lines:     make([]Line, 0, 3*n),
	}
	if cfg.Occlusion {
		p.occluder = occlusion.NewClipper(n)
	}
	return p
}

// Config returns the active configuration.
func (p *Pipeline) Config() Config {
	return p.cfg
}

// Frame runs every geometry stage for the given view-projection matrix. seed
// drives the projection jitter so a frame is reproducible.
func (p *Pipeline) Frame(viewProj math.Mat4, seed uint64) FrameStats {
	p.frame++
	snaps, rebuilt := p.registry.Sync()
	if rebuilt {
		p.log.Debug("snapshots rebuilt", zap.Int("objects", len(snaps)))
	}
	p.snapshots = snaps

	p.stats = FrameStats{Frame: p.frame, Objects: len(snaps)}
	p.triangles = p.triangles[:0]
	p.edges = p.edges[:0]
	p.lines = p.lines[:0]

	p.project(viewProj, seed)
	for i, s := range p.snapshots {
		if p.active[i] {
			p.walk(s)
		}
	}
	p.clipEdges()

	p.logStats()
	return p.stats
}

// Lines returns the output segments of the last frame. The slice is reused by
// the next Frame.
func (p *Pipeline) Lines() []Line {
	return p.lines
}

// Triangles returns the visible triangles of the last frame.
func (p *Pipeline) Triangles() []DrawTriangle {
	return p.triangles
}

// Edges returns the selected feature edges of the last frame.
func (p *Pipeline) Edges() []DrawEdge {
	return p.edges
}

// Stats returns the statistics of the last frame.
func (p *Pipeline) Stats() FrameStats {
	return p.stats
}
