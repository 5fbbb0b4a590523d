package pipeline

import (
	"fmt"

	"github.com/Faultbox/scopewire/internal/engine/clip"
	"github.com/Faultbox/scopewire/internal/engine/occlusion"
	"github.com/Faultbox/scopewire/internal/sink"
	"github.com/Faultbox/scopewire/pkg/math"
)

// penEpsilon is how close, in display units, a segment must start to the pen
// to continue the beam path without a jump.
const penEpsilon = 1e-5

// clipEdges clips every selected edge to the view volume and, with occlusion
// enabled, removes the parts hidden behind visible triangles.
func (p *Pipeline) clipEdges() {
	if p.occluder != nil {
		p.occluder.Reset()
		for _, t := range p.triangles {
			p.occluder.AddTriangle(p.clipVerts[t[0]], p.clipVerts[t[1]], p.clipVerts[t[2]],
				[3]uint32{p.sourceID(t[0]), p.sourceID(t[1]), p.sourceID(t[2])})
		}
	}

	for _, e := range p.edges {
		a, b, ok := clip.Line(p.clipVerts[e.A], p.clipVerts[e.B])
		if !ok {
			p.stats.ClippedEdges++
			continue
		}
		if p.occluder == nil {
			p.addLine(Line{From: a, To: b})
			continue
		}

		p.pieces = p.occluder.Clip(p.pieces[:0], a, b, e.A, e.B)
		if len(p.pieces) == 1 && p.pieces[0] == (occlusion.Interval{S0: 0, S1: 1}) {
			p.addLine(Line{From: a, To: b})
			continue
		}
		na, _ := a.Divide()
		nb, _ := b.Divide()
		for _, piece := range p.pieces {
			from := na.Lerp(nb, piece.S0)
			to := na.Lerp(nb, piece.S1)
			p.addLine(Line{From: from.Point(), To: to.Point()})
		}
	}
}

// sourceID maps a clip buffer index to the vertex it was projected from, or
// NoVertex for points created by near-plane clipping.
func (p *Pipeline) sourceID(i uint32) uint32 {
	if int(i) >= p.projEnd {
		return occlusion.NoVertex
	}
	return i
}

func (p *Pipeline) addLine(l Line) {
	if len(p.lines) == cap(p.lines) {
		p.stats.DroppedLines++
		return
	}
	p.lines = append(p.lines, l)
	p.stats.Lines++
}

// Emit streams the last frame to s. aspect scales the horizontal axis. The
// frame is framed by Begin, an optional border circle, WaitSync and Submit.
// Sink failures are returned; the caller is expected to stop.
func (p *Pipeline) Emit(s sink.Sink, aspect float32) error {
	s.Begin()
	s.SetIntensity(p.cfg.BorderIntensity)
	s.SetPoint(math.Vec2{})
	if p.cfg.BorderRadius > 0 {
		s.DrawCircle(p.cfg.BorderRadius)
	}
	s.SetIntensity(p.cfg.Intensity)

	pen := math.Vec2{}
	for _, l := range p.lines {
		from, ok := clip.ToDisplay(l.From, aspect)
		if !ok {
			continue
		}
		to, ok := clip.ToDisplay(l.To, aspect)
		if !ok {
			continue
		}
		// Draw in whichever direction continues the current path.
		if !pen.Near(from, penEpsilon) && pen.Near(to, penEpsilon) {
			from, to = to, from
		}
		if !pen.Near(from, penEpsilon) {
			s.SetPoint(from)
		}
		s.DrawLine(to, sink.IntensityUnset)
		pen = to
	}

	if !s.WaitSync() {
		return fmt.Errorf("frame %d: %w", p.frame, sink.ErrSyncFailed)
	}
	if err := s.Submit(); err != nil {
		return fmt.Errorf("submitting frame %d: %w", p.frame, err)
	}
	return nil
}
