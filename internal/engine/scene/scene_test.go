package scene

import (
	"errors"
	"testing"

	"github.com/Faultbox/scopewire/internal/engine/model"
	"github.com/Faultbox/scopewire/pkg/math"
)

type hidden struct{}

func (hidden) IsVisible() bool { return false }

func TestAddAndSync(t *testing.T) {
	r := NewRegistry(Options{})
	cube := model.Cube(1)
	quad := model.Quad(1)

	id1, err := r.AddMesh(cube, nil, 30, nil)
	if err != nil {
		t.Fatalf("AddMesh() error = %v", err)
	}
	id2, err := r.AddMesh(quad, nil, 10, hidden{})
	if err != nil {
		t.Fatalf("AddMesh() error = %v", err)
	}
	if !r.Dirty() {
		t.Error("registry not dirty after AddMesh")
	}

	snaps, rebuilt := r.Sync()
	if !rebuilt {
		t.Fatal("Sync() did not rebuild a dirty registry")
	}
	if len(snaps) != 2 {
		t.Fatalf("got %d snapshots, want 2", len(snaps))
	}
	if snaps[0].ID != id1 || snaps[1].ID != id2 {
		t.Errorf("snapshots not in registration order: %d, %d", snaps[0].ID, snaps[1].ID)
	}
	if snaps[0].Offset != 0 || snaps[1].Offset != len(cube.Vertices) {
		t.Errorf("offsets = %d, %d, want 0, %d", snaps[0].Offset, snaps[1].Offset, len(cube.Vertices))
	}
	if snaps[0].Edges.Len() != 18 {
		t.Errorf("cube edges = %d, want 18", snaps[0].Edges.Len())
	}
	if !snaps[0].Visible() || snaps[1].Visible() {
		t.Error("visibility source not honored")
	}
	if r.Dirty() {
		t.Error("registry still dirty after Sync")
	}

	again, rebuilt := r.Sync()
	if rebuilt || len(again) != 2 || again[0] != snaps[0] {
		t.Error("clean Sync() rebuilt snapshots")
	}
}

func TestAddNilMesh(t *testing.T) {
	r := NewRegistry(Options{})
	if _, err := r.AddMesh(nil, nil, 0, nil); !errors.Is(err, ErrNilMesh) {
		t.Errorf("AddMesh(nil) error = %v, want ErrNilMesh", err)
	}
}

func TestAddThenRemoveBeforeSync(t *testing.T) {
	r := NewRegistry(Options{})
	keep, _ := r.AddMesh(model.Cube(1), nil, 0, nil)
	r.Sync()

	id, _ := r.AddMesh(model.Torus(1, 0.3, 8, 6), nil, 0, nil)
	if err := r.Remove(id); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}
	snaps, _ := r.Sync()
	if len(snaps) != 1 || snaps[0].ID != keep {
		t.Fatalf("removed object still present: %d snapshots", len(snaps))
	}
	if err := r.Remove(id); !errors.Is(err, ErrUnknownObject) {
		t.Errorf("second Remove() error = %v, want ErrUnknownObject", err)
	}
}

func TestSetEdgeAngle(t *testing.T) {
	r := NewRegistry(Options{})
	id, _ := r.AddMesh(model.Cube(1), nil, 30, nil)
	r.Sync()

	tests := []struct {
		in, want float32
	}{
		{45, 45},
		{-10, 0},
		{500, 360},
	}
	for _, tt := range tests {
		if err := r.SetEdgeAngle(id, tt.in); err != nil {
			t.Fatalf("SetEdgeAngle() error = %v", err)
		}
		if !r.Dirty() {
			t.Error("SetEdgeAngle() did not mark registry dirty")
		}
		snaps, _ := r.Sync()
		if snaps[0].EdgeAngle != tt.want {
			t.Errorf("SetEdgeAngle(%v): got %v, want %v", tt.in, snaps[0].EdgeAngle, tt.want)
		}
	}
	if err := r.SetEdgeAngle(999, 1); !errors.Is(err, ErrUnknownObject) {
		t.Errorf("SetEdgeAngle(unknown) error = %v", err)
	}
}

func TestMalformedMeshRejected(t *testing.T) {
	r := NewRegistry(Options{})
	bad := &model.Mesh{
		Vertices: []math.Vec3{{}, {X: 1}, {Y: 1}, {Z: 1}, {Z: -1}},
		// Edge (0,1) shared by three triangles.
		Indices: []uint32{0, 1, 2, 1, 0, 3, 0, 1, 4},
	}
	r.AddMesh(bad, nil, 0, nil)
	good, _ := r.AddMesh(model.Cube(1), nil, 0, nil)
	r.AddMesh(&model.Mesh{Vertices: []math.Vec3{{}}, Indices: []uint32{0, 0}}, nil, 0, nil)

	snaps, _ := r.Sync()
	if len(snaps) != 1 || snaps[0].ID != good {
		t.Fatalf("got %d snapshots, want only the cube", len(snaps))
	}
	if snaps[0].Offset != 0 {
		t.Errorf("offset = %d, rejected mesh consumed buffer space", snaps[0].Offset)
	}
	if r.Rejected() != 2 {
		t.Errorf("Rejected() = %d, want 2", r.Rejected())
	}
}

func TestSkinnedSnapshotOwnsVertices(t *testing.T) {
	r := NewRegistry(Options{})
	mesh := model.Quad(2)
	calls := 0
	r.AddSkinnedMesh(mesh, nil, 0, nil, func(dst []math.Vec3) {
		calls++
		for i := range dst {
			dst[i].Z = 1
		}
	})
	snaps, _ := r.Sync()
	s := snaps[0]
	if s.Kind != Skinned {
		t.Fatalf("Kind = %v, want skinned", s.Kind)
	}
	s.Rebake()
	if calls != 1 {
		t.Errorf("skin called %d times, want 1", calls)
	}
	if s.Vertices[0].Z != 1 {
		t.Error("Rebake did not update snapshot vertices")
	}
	if mesh.Vertices[0].Z != 0 {
		t.Error("Rebake modified the source mesh")
	}
}

func TestRegisterHierarchy(t *testing.T) {
	r := NewRegistry(Options{})
	cube, quad := model.Cube(1), model.Quad(1)
	tc, tq := NewTransform(), NewTransform()
	nodes := []Node{{Mesh: cube, Transform: tc}, {Mesh: quad, Transform: tq}, {Transform: NewTransform()}}

	ids := r.RegisterHierarchy(nodes, 20, false)
	if len(ids) != 2 || r.Len() != 2 {
		t.Fatalf("registered %d objects, want 2", len(ids))
	}
	r.Sync()

	// Same nodes again without override: nothing changes.
	again := r.RegisterHierarchy(nodes, 60, false)
	if again[0] != ids[0] || r.Len() != 2 || r.Dirty() {
		t.Error("re-registering without override changed the registry")
	}

	r.RegisterHierarchy(nodes, 60, true)
	o, ok := r.Object(ids[1])
	if !ok || o.EdgeAngle != 60 {
		t.Errorf("override did not update threshold: %+v", o)
	}
	if !r.Dirty() {
		t.Error("override did not mark registry dirty")
	}
}

func TestWeldMergesSplitVertices(t *testing.T) {
	// Two triangles of a quad with the diagonal vertices duplicated.
	split := &model.Mesh{
		Vertices: []math.Vec3{{}, {X: 1}, {X: 1, Y: 1}, {}, {X: 1, Y: 1}, {Y: 1}},
		Indices:  []uint32{0, 1, 2, 3, 4, 5},
	}
	plain := NewRegistry(Options{})
	plain.AddMesh(split, nil, 0, nil)
	welded := NewRegistry(Options{Weld: true, WeldEpsilon: 1e-4})
	welded.AddMesh(split, nil, 0, nil)

	a, _ := plain.Sync()
	b, _ := welded.Sync()
	if a[0].Edges.Len() != 6 {
		t.Errorf("unwelded edges = %d, want 6", a[0].Edges.Len())
	}
	if b[0].Edges.Len() != 5 {
		t.Errorf("welded edges = %d, want 5", b[0].Edges.Len())
	}
}

func TestClear(t *testing.T) {
	r := NewRegistry(Options{})
	r.AddMesh(model.Cube(1), nil, 0, nil)
	r.Sync()
	r.Clear()
	snaps, rebuilt := r.Sync()
	if !rebuilt || len(snaps) != 0 {
		t.Errorf("after Clear: rebuilt=%v, %d snapshots", rebuilt, len(snaps))
	}
}

func TestTransformMatrix(t *testing.T) {
	parent := NewTransform()
	parent.Position = math.Vec3{X: 10}
	child := NewTransform()
	child.Position = math.Vec3{Y: 2}
	child.Parent = parent

	p := child.Matrix().MulPoint(math.Vec3{Z: 1})
	if p != (math.Vec4{X: 10, Y: 2, Z: 1, W: 1}) {
		t.Errorf("child.Matrix() * p = %v", p)
	}

	var nilT *Transform
	if nilT.Matrix() != math.Identity() {
		t.Error("nil transform is not identity")
	}
}
