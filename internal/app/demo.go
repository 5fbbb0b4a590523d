package app

import (
	"errors"
	"fmt"

	"github.com/Faultbox/scopewire/internal/engine/model"
	"github.com/Faultbox/scopewire/internal/engine/scene"
	"github.com/Faultbox/scopewire/pkg/math"
)

// ErrUnknownDemo is returned for a demo name with no scene.
var ErrUnknownDemo = errors.New("unknown demo")

// Demo names.
const (
	DemoShapes    = "shapes"
	DemoCube      = "cube"
	DemoTorus     = "torus"
	DemoSphere    = "sphere"
	DemoExplosion = "explosion"
)

// Demos lists the demo names in the order the arrow keys cycle through them.
var Demos = []string{DemoShapes, DemoCube, DemoTorus, DemoSphere, DemoExplosion}

// demoScene is what a demo registered and what animates it.
type demoScene struct {
	ids        []scene.ObjectID
	spinners   []*Spinner
	wobbles    []*Wobble
	explosions []*Explosion
	radius     float32
}

func (d *demoScene) update(dt float32) {
	for _, s := range d.spinners {
		s.Update(dt)
	}
	for _, w := range d.wobbles {
		w.Update(dt)
	}
	for _, e := range d.explosions {
		e.Update(dt)
	}
}

// buildDemo registers the named demo into r. Tessellation is kept coarse so
// neighbouring faces meet at angles above the usual feature threshold.
func buildDemo(r *scene.Registry, name string, edgeAngle float32) (*demoScene, error) {
	d := &demoScene{}
	switch name {
	case DemoShapes:
		buildShapes(r, d, edgeAngle)
	case DemoCube:
		t := scene.NewTransform()
		d.spinners = append(d.spinners, &Spinner{Transform: t, Axis: math.Vec3{X: 1, Y: 1}, DegreesPerSecond: 35})
		if err := d.add(r, model.Cube(1.5), t, edgeAngle, nil); err != nil {
			return nil, err
		}
		d.radius = 1.3
	case DemoTorus:
		t := scene.NewTransform()
		d.spinners = append(d.spinners, &Spinner{Transform: t, Axis: math.Vec3{X: 1, Z: 0.3}, DegreesPerSecond: 30})
		if err := d.add(r, model.Torus(1, 0.35, 10, 6), t, edgeAngle, nil); err != nil {
			return nil, err
		}
		d.radius = 1.4
	case DemoSphere:
		t := scene.NewTransform()
		mesh := model.Sphere(1, 8, 6)
		w := NewWobble(mesh.Vertices, 0.12, 3, 4)
		d.wobbles = append(d.wobbles, w)
		d.spinners = append(d.spinners, &Spinner{Transform: t, Axis: math.Vec3{Y: 1}, DegreesPerSecond: 20})
		if err := d.add(r, mesh, t, edgeAngle, w.Skin); err != nil {
			return nil, err
		}
		d.radius = 1.2
	case DemoExplosion:
		buildExplosion(r, d, edgeAngle)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDemo, name)
	}
	return d, nil
}

func (d *demoScene) add(r *scene.Registry, mesh *model.Mesh, t *scene.Transform, edgeAngle float32, skin scene.SkinFunc) error {
	var (
		id  scene.ObjectID
		err error
	)
	if skin != nil {
		id, err = r.AddSkinnedMesh(mesh, t, edgeAngle, nil, skin)
	} else {
		id, err = r.AddMesh(mesh, t, edgeAngle, nil)
	}
	if err != nil {
		return fmt.Errorf("registering demo mesh: %w", err)
	}
	d.ids = append(d.ids, id)
	return nil
}

// buildShapes lays out a cube, a wobbling sphere and a torus above a floor
// grid, all under one slowly turning root.
func buildShapes(r *scene.Registry, d *demoScene, edgeAngle float32) {
	root := scene.NewTransform()
	d.spinners = append(d.spinners, &Spinner{Transform: root, Axis: math.Vec3{Y: 1}, DegreesPerSecond: 6})

	child := func(x, y, z float32) *scene.Transform {
		t := scene.NewTransform()
		t.Position = math.Vec3{X: x, Y: y, Z: z}
		t.Parent = root
		return t
	}

	cube := child(-2, 0, 0)
	torus := child(2, 0, 0)
	ball := child(0, 0.2, 0)
	floor := child(0, -1.4, 0)
	d.spinners = append(d.spinners,
		&Spinner{Transform: cube, Axis: math.Vec3{X: 1, Y: 1}, DegreesPerSecond: 40},
		&Spinner{Transform: torus, Axis: math.Vec3{X: 1}, DegreesPerSecond: 25},
		&Spinner{Transform: ball, Axis: math.Vec3{Y: 1}, DegreesPerSecond: -20},
	)

	sphere := model.Sphere(0.8, 8, 6)
	w := NewWobble(sphere.Vertices, 0.1, 2.5, 5)
	d.wobbles = append(d.wobbles, w)

	d.ids = r.RegisterHierarchy([]scene.Node{
		{Mesh: model.Cube(1.2), Transform: cube},
		{Mesh: model.Torus(0.7, 0.25, 10, 6), Transform: torus},
		{Mesh: sphere, Transform: ball, Skin: w.Skin},
		{Mesh: model.Grid(6, 4, 6, 4), Transform: floor},
	}, edgeAngle, false)
	d.radius = 3.6
}

// buildExplosion throws a dozen cube fragments up from a floor grid every few
// seconds.
func buildExplosion(r *scene.Registry, d *demoScene, edgeAngle float32) {
	origin := scene.NewTransform()
	origin.Position = math.Vec3{Y: -1.2}

	e := NewExplosion(origin, 12, 2.2, 2.5, 1)
	d.explosions = append(d.explosions, e)

	fragment := model.Cube(0.3)
	nodes := []scene.Node{{Mesh: model.Grid(5, 5, 5, 5), Transform: origin}}
	for _, t := range e.Transforms() {
		nodes = append(nodes, scene.Node{Mesh: fragment, Transform: t})
	}
	d.ids = r.RegisterHierarchy(nodes, edgeAngle, false)
	d.radius = 3
}

// nextDemo returns the demo step places away from name in Demos.
func nextDemo(name string, step int) string {
	n := len(Demos)
	for i, d := range Demos {
		if d == name {
			return Demos[((i+step)%n+n)%n]
		}
	}
	return Demos[0]
}
