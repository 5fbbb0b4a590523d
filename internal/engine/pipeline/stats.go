package pipeline

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// FrameStats counts what one frame processed and what it had to drop.
type FrameStats struct {
	Frame uint64

	Objects       int // snapshots walked
	HiddenObjects int // skipped through their visibility source
	Vertices      int // vertices projected

	VisibleTriangles int
	BackFacing       int
	CulledTriangles  int
	SplitTriangles   int // straddled the near plane

	SelectedEdges int
	ClippedEdges  int // rejected by the frustum line clipper
	Lines         int // output segments after clipping and occlusion

	// Capacity overflow. Dropped primitives are silently left out of the frame.
	DroppedVertices  int
	DroppedTriangles int
	DroppedEdges     int
	DroppedLines     int
}

// Dropped returns the total number of primitives lost to capacity limits.
func (s FrameStats) Dropped() int {
	return s.DroppedVertices + s.DroppedTriangles + s.DroppedEdges + s.DroppedLines
}

// MarshalLogObject implements zapcore.ObjectMarshaler.
func (s FrameStats) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddUint64("frame", s.Frame)
	enc.AddInt("objects", s.Objects)
	enc.AddInt("hidden", s.HiddenObjects)
	enc.AddInt("vertices", s.Vertices)
	enc.AddInt("visible_triangles", s.VisibleTriangles)
	enc.AddInt("back_facing", s.BackFacing)
	enc.AddInt("culled", s.CulledTriangles)
	enc.AddInt("split", s.SplitTriangles)
	enc.AddInt("edges", s.SelectedEdges)
	enc.AddInt("clipped_edges", s.ClippedEdges)
	enc.AddInt("lines", s.Lines)
	if s.Dropped() > 0 {
		enc.AddInt("dropped_vertices", s.DroppedVertices)
		enc.AddInt("dropped_triangles", s.DroppedTriangles)
		enc.AddInt("dropped_edges", s.DroppedEdges)
		enc.AddInt("dropped_lines", s.DroppedLines)
	}
	return nil
}

func (p *Pipeline) logStats() {
	// Warn once when an overflow starts, not every frame it lasts.
	dropped := p.stats.Dropped() > 0
	if dropped && !p.overflowed {
		p.log.Warn("frame buffers full, primitives dropped",
			zap.Int("max_triangles", p.cfg.MaxTriangles),
			zap.Object("stats", p.stats))
	}
	p.overflowed = dropped

	if p.cfg.StatsInterval <= 0 || p.frame%uint64(p.cfg.StatsInterval) != 0 {
		return
	}
	p.log.Debug("frame stats", zap.Object("stats", p.stats))
}
