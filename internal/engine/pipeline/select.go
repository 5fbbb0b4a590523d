package pipeline

import (
	"github.com/Faultbox/scopewire/internal/engine/clip"
	"github.com/Faultbox/scopewire/internal/engine/scene"
	"github.com/Faultbox/scopewire/internal/engine/topology"
)

// walk classifies an object's triangles, records the visible ones and
// selects its feature edges.
func (p *Pipeline) walk(s *scene.Snapshot) {
	triCount := len(s.Indices) / 3
	if cap(p.visible) < triCount {
		p.visible = make([]bool, triCount)
	}
	visible := p.visible[:triCount]
	base := uint32(s.Offset)

	for t := 0; t < triCount; t++ {
		ia := base + s.Indices[t*3]
		ib := base + s.Indices[t*3+1]
		ic := base + s.Indices[t*3+2]
		va, vb, vc := p.clipVerts[ia], p.clipVerts[ib], p.clipVerts[ic]

		visible[t] = false
		switch clip.Classify(va, vb, vc, p.cfg.CullBackFaces) {
		case clip.Culled:
			p.stats.CulledTriangles++
		case clip.BackFacing:
			p.stats.BackFacing++
		case clip.Visible:
			visible[t] = true
			p.stats.VisibleTriangles++
			p.addTriangle(DrawTriangle{ia, ib, ic})
		case clip.Straddling:
			visible[t] = p.splitTriangle([3]uint32{ia, ib, ic})
		}
	}

	for _, e := range s.Edges.Edges {
		if e.Angle < s.EdgeAngle {
			continue
		}
		t0, t1 := e.Triangles[0], e.Triangles[1]
		if !visible[t0] && (t1 == topology.NoTriangle || !visible[t1]) {
			continue
		}
		p.stats.SelectedEdges++
		if len(p.edges) == cap(p.edges) {
			p.stats.DroppedEdges++
			continue
		}
		p.edges = append(p.edges, DrawEdge{A: base + e.A, B: base + e.B, Offset: s.Offset})
	}
}

// splitTriangle retiles a triangle crossing the near plane. The pieces are
// stored when the buffers have room; the triangle counts as visible either
// way so its edges are still selected.
func (p *Pipeline) splitTriangle(idx [3]uint32) bool {
	split, result := clip.NearTriangle(p.clipVerts[idx[0]], p.clipVerts[idx[1]], p.clipVerts[idx[2]])
	switch result {
	case clip.NearOutside:
		p.stats.CulledTriangles++
		return false
	case clip.NearInside:
		p.stats.VisibleTriangles++
		p.addTriangle(DrawTriangle(idx))
		return true
	}

	p.stats.SplitTriangles++
	if p.vertCount+2 > len(p.clipVerts) {
		p.stats.DroppedVertices += 2
		p.stats.DroppedTriangles += split.Count
		return true
	}
	var slots [5]uint32
	for k := 0; k < 3; k++ {
		slots[k] = idx[split.Source[k]]
	}
	for k := 3; k < 5; k++ {
		slots[k] = uint32(p.vertCount)
		p.clipVerts[p.vertCount] = split.Vertices[k]
		p.vertCount++
	}
	for i := 0; i < split.Count; i++ {
		tri := split.Triangles[i]
		p.addTriangle(DrawTriangle{slots[tri[0]], slots[tri[1]], slots[tri[2]]})
	}
	return true
}

func (p *Pipeline) addTriangle(t DrawTriangle) {
	if len(p.triangles) == cap(p.triangles) {
		p.stats.DroppedTriangles++
		return
	}
	p.triangles = append(p.triangles, t)
}
