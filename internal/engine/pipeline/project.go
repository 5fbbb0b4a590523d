package pipeline

import (
	"math/rand/v2"

	"github.com/Faultbox/scopewire/internal/engine/scene"
	"github.com/Faultbox/scopewire/pkg/math"
)

// project writes every visible object's vertices into the clip buffer at its
// offset. Objects write disjoint ranges, so they run as independent tasks;
// the pool's Run is the barrier before any stage reads the buffer.
//
// Visibility sources are queried once per object on the calling goroutine;
// the answer is kept in p.active for the rest of the frame.
func (p *Pipeline) project(viewProj math.Mat4, seed uint64) {
	capacity := len(p.clipVerts)
	n := len(p.snapshots)
	if cap(p.fits) < n {
		p.fits = make([]bool, n)
		p.active = make([]bool, n)
	}
	p.fits = p.fits[:n]
	p.active = p.active[:n]

	p.projEnd = 0
	for i, s := range p.snapshots {
		end := s.Offset + len(s.Vertices)
		p.fits[i] = end <= capacity
		p.active[i] = false
		if !p.fits[i] {
			p.stats.DroppedVertices += len(s.Vertices)
			continue
		}
		p.projEnd = end
		if !s.Visible() {
			p.stats.HiddenObjects++
			continue
		}
		p.active[i] = true
		p.stats.Vertices += len(s.Vertices)
	}
	p.vertCount = p.projEnd

	task := func(i int) {
		if p.active[i] {
			p.projectObject(p.snapshots[i], viewProj, seed)
		}
	}
	if p.pool == nil {
		for i := range p.snapshots {
			task(i)
		}
		return
	}
	p.pool.Run(len(p.snapshots), task)
}

func (p *Pipeline) projectObject(s *scene.Snapshot, viewProj math.Mat4, seed uint64) {
	if s.Kind == scene.Skinned {
		s.Rebake()
	}
	mvp := viewProj.Mul(s.Transform.Matrix())
	dst := p.clipVerts[s.Offset : s.Offset+len(s.Vertices)]

	if p.cfg.Jitter <= 0 {
		for k, v := range s.Vertices {
			dst[k] = mvp.MulPoint(v)
		}
		return
	}

	// One generator per object keeps jitter independent of scheduling.
	rng := rand.New(rand.NewPCG(seed, uint64(s.ID)))
	j := p.cfg.Jitter
	for k, v := range s.Vertices {
		c := mvp.MulPoint(v)
		c.X += (rng.Float32()*2 - 1) * j * c.W
		c.Y += (rng.Float32()*2 - 1) * j * c.W
		dst[k] = c
	}
}
