// Package scene is the registry of wireframe objects. The host registers
// meshes between frames; the pipeline calls Sync at the top of each frame to
// pick up pending changes as one rebuilt list of snapshots.
package scene

import (
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/Faultbox/scopewire/internal/engine/model"
	"github.com/Faultbox/scopewire/internal/engine/topology"
	"github.com/Faultbox/scopewire/internal/logger"
	"github.com/Faultbox/scopewire/pkg/math"
)

var (
	// ErrNilMesh is returned when registering an object without a mesh.
	ErrNilMesh = errors.New("nil mesh")
	// ErrUnknownObject is returned for an ID that is not registered.
	ErrUnknownObject = errors.New("unknown object")
)

// ObjectID identifies a registered object. IDs are never reused.
type ObjectID uint32

// RenderKind distinguishes rigid meshes from deforming ones.
type RenderKind int

const (
	// Static meshes keep their vertex positions.
	Static RenderKind = iota
	// Skinned meshes re-bake vertex positions every frame.
	Skinned
)

func (k RenderKind) String() string {
	if k == Skinned {
		return "skinned"
	}
	return "static"
}

// VisibilitySource lets the host hide an object, for example when it is
// culled by an occlusion system outside the pipeline.
type VisibilitySource interface {
	IsVisible() bool
}

// SkinFunc writes the current deformed local-space positions into dst, which
// has one entry per mesh vertex. The topology must not change.
type SkinFunc func(dst []math.Vec3)

// Object is a registration record.
type Object struct {
	ID         ObjectID
	Kind       RenderKind
	Mesh       *model.Mesh
	Transform  *Transform
	EdgeAngle  float32
	Visibility VisibilitySource
	Skin       SkinFunc
}

// Snapshot is the per-frame view of an object, rebuilt when the registry
// changes.
type Snapshot struct {
	ID        ObjectID
	Kind      RenderKind
	Transform *Transform
	// Vertices are local-space positions. Static snapshots share the mesh's
	// slice; skinned snapshots own theirs and refresh it in Rebake.
	Vertices  []math.Vec3
	Indices   []uint32
	Edges     *topology.EdgeCache
	EdgeAngle float32
	// Offset is the first slot of this object in the shared clip buffer.
	Offset int

	visibility VisibilitySource
	skin       SkinFunc
}

// Visible reports whether the host allows the object to be drawn.
func (s *Snapshot) Visible() bool {
	return s.visibility == nil || s.visibility.IsVisible()
}

// Rebake refreshes deformed positions of a skinned snapshot.
func (s *Snapshot) Rebake() {
	if s.skin != nil {
		s.skin(s.Vertices)
	}
}

// Options configures snapshot rebuilding.
type Options struct {
	// Weld merges vertices closer than WeldEpsilon before building topology.
	Weld        bool
	WeldEpsilon float32
}

type topologyEntry struct {
	indices []uint32
	edges   *topology.EdgeCache
	err     error
}

// Registry owns objects and their snapshots. Registration methods are safe
// for concurrent use but must not run while a frame is being processed.
type Registry struct {
	mu       sync.Mutex
	opts     Options
	nextID   ObjectID
	objects  []*Object
	dirty    bool
	rejected int

	snapshots []*Snapshot
	// Topology is derived once per mesh and reused across rebuilds.
	topologies map[*model.Mesh]topologyEntry

	log *zap.Logger
}

// NewRegistry creates an empty registry.
func NewRegistry(opts Options) *Registry {
	return &Registry{
		opts:       opts,
		nextID:     1,
		topologies: make(map[*model.Mesh]topologyEntry),
		log:        logger.Named("scene"),
	}
}

// AddMesh registers a static mesh. Meshes are treated as immutable once
// registered. vis may be nil.
func (r *Registry) AddMesh(mesh *model.Mesh, t *Transform, edgeAngle float32, vis VisibilitySource) (ObjectID, error) {
	return r.add(&Object{Kind: Static, Mesh: mesh, Transform: t, EdgeAngle: edgeAngle, Visibility: vis})
}

// AddSkinnedMesh registers a deforming mesh whose positions are produced by
// skin every frame. The mesh supplies topology and rest pose.
func (r *Registry) AddSkinnedMesh(mesh *model.Mesh, t *Transform, edgeAngle float32, vis VisibilitySource, skin SkinFunc) (ObjectID, error) {
	return r.add(&Object{Kind: Skinned, Mesh: mesh, Transform: t, EdgeAngle: edgeAngle, Visibility: vis, Skin: skin})
}

func (r *Registry) add(o *Object) (ObjectID, error) {
	if o.Mesh == nil {
		return 0, ErrNilMesh
	}
	if o.Transform == nil {
		o.Transform = NewTransform()
	}
	o.EdgeAngle = clampAngle(o.EdgeAngle)

	r.mu.Lock()
	defer r.mu.Unlock()
	o.ID = r.nextID
	r.nextID++
	r.objects = append(r.objects, o)
	r.dirty = true
	return o.ID, nil
}

// Remove unregisters an object. The object contributes nothing from the next
// Sync on, even if it was added after the last one.
func (r *Registry) Remove(id ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	i := r.indexOf(id)
	if i < 0 {
		return fmt.Errorf("remove %d: %w", id, ErrUnknownObject)
	}
	r.objects = append(r.objects[:i], r.objects[i+1:]...)
	r.dirty = true
	return nil
}

// SetEdgeAngle changes an object's feature-edge threshold in degrees. The
// value is clamped to [0, 360].
func (r *Registry) SetEdgeAngle(id ObjectID, angle float32) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	i := r.indexOf(id)
	if i < 0 {
		return fmt.Errorf("set edge angle %d: %w", id, ErrUnknownObject)
	}
	r.objects[i].EdgeAngle = clampAngle(angle)
	r.dirty = true
	return nil
}

// Node is one mesh found while walking a host-side hierarchy.
type Node struct {
	Mesh      *model.Mesh
	Transform *Transform
	Skin      SkinFunc
}

// RegisterHierarchy registers every node under one threshold. Nodes whose
// mesh and transform are already registered keep their object; with override
// set their threshold is replaced. Nodes without a mesh are skipped.
func (r *Registry) RegisterHierarchy(nodes []Node, edgeAngle float32, override bool) []ObjectID {
	edgeAngle = clampAngle(edgeAngle)

	r.mu.Lock()
	defer r.mu.Unlock()
	ids := make([]ObjectID, 0, len(nodes))
	for _, n := range nodes {
		if n.Mesh == nil {
			continue
		}
		if o := r.findNode(n); o != nil {
			if override && o.EdgeAngle != edgeAngle {
				o.EdgeAngle = edgeAngle
				r.dirty = true
			}
			ids = append(ids, o.ID)
			continue
		}
		o := &Object{ID: r.nextID, Kind: Static, Mesh: n.Mesh, Transform: n.Transform, EdgeAngle: edgeAngle}
		if n.Skin != nil {
			o.Kind = Skinned
			o.Skin = n.Skin
		}
		if o.Transform == nil {
			o.Transform = NewTransform()
		}
		r.nextID++
		r.objects = append(r.objects, o)
		r.dirty = true
		ids = append(ids, o.ID)
	}
	return ids
}

func (r *Registry) findNode(n Node) *Object {
	for _, o := range r.objects {
		if o.Mesh == n.Mesh && n.Transform != nil && o.Transform == n.Transform {
			return o
		}
	}
	return nil
}

// Clear unregisters every object.
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.objects = nil
	r.dirty = true
}

// Dirty reports whether registrations changed since the last Sync.
func (r *Registry) Dirty() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.dirty
}

// Len returns the number of registered objects.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.objects)
}

// Rejected returns how many objects the last rebuild excluded as malformed.
func (r *Registry) Rejected() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rejected
}

// Object returns a copy of a registration record.
func (r *Registry) Object(id ObjectID) (Object, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if i := r.indexOf(id); i >= 0 {
		return *r.objects[i], true
	}
	return Object{}, false
}

// Sync applies pending registration changes and returns the snapshots in
// registration order. rebuilt is true when the list was recomputed. The
// returned slice stays valid until the next rebuild.
func (r *Registry) Sync() (snaps []*Snapshot, rebuilt bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.dirty {
		return r.snapshots, false
	}

	snapshots := make([]*Snapshot, 0, len(r.objects))
	used := make(map[*model.Mesh]bool, len(r.objects))
	rejected := 0
	offset := 0
	for _, o := range r.objects {
		entry := r.topology(o.Mesh)
		used[o.Mesh] = true
		if entry.err != nil {
			rejected++
			r.log.Warn("mesh rejected",
				zap.Uint32("object", uint32(o.ID)),
				zap.Error(entry.err))
			continue
		}

		s := &Snapshot{
			ID:         o.ID,
			Kind:       o.Kind,
			Transform:  o.Transform,
			Vertices:   o.Mesh.Vertices,
			Indices:    entry.indices,
			Edges:      entry.edges,
			EdgeAngle:  o.EdgeAngle,
			Offset:     offset,
			visibility: o.Visibility,
		}
		if o.Kind == Skinned {
			s.Vertices = make([]math.Vec3, len(o.Mesh.Vertices))
			copy(s.Vertices, o.Mesh.Vertices)
			s.skin = o.Skin
		}
		offset += len(s.Vertices)
		snapshots = append(snapshots, s)
	}

	// Drop cached topology of meshes no longer registered.
	for m := range r.topologies {
		if !used[m] {
			delete(r.topologies, m)
		}
	}

	r.snapshots = snapshots
	r.rejected = rejected
	r.dirty = false
	r.log.Info("scene rebuilt",
		zap.Int("objects", len(snapshots)),
		zap.Int("rejected", rejected),
		zap.Int("vertices", offset))
	return snapshots, true
}

func (r *Registry) topology(m *model.Mesh) topologyEntry {
	if e, ok := r.topologies[m]; ok {
		return e
	}
	indices := m.Indices
	if r.opts.Weld {
		indices = topology.Weld(m.Vertices, m.Indices, r.opts.WeldEpsilon)
	}
	edges, err := topology.Build(m.Vertices, indices)
	e := topologyEntry{indices: indices, edges: edges, err: err}
	r.topologies[m] = e
	return e
}

func (r *Registry) indexOf(id ObjectID) int {
	for i, o := range r.objects {
		if o.ID == id {
			return i
		}
	}
	return -1
}

func clampAngle(a float32) float32 {
	return math.Clamp(a, 0, topology.BoundaryAngle)
}
