// Package scene provides the ray-scene intersection collaborator consumed
// by integrators, plus the built-in demo scenes. Full scene descriptions
// (file formats, materials, acceleration structures) are external to the
// render core; this container answers nearest-hit queries over a shape list.
package scene

import (
	"fmt"

	"github.com/lumen-render/go-tile-raytracer/pkg/core"
	"github.com/lumen-render/go-tile-raytracer/pkg/geometry"
)

// Scene holds the shapes visible to the render pass
type Scene struct {
	shapes       []core.Shape
	preprocessed bool
}

// New creates a scene from shapes
func New(shapes ...core.Shape) *Scene {
	return &Scene{shapes: shapes}
}

// Add appends a shape. Must not be called once rendering has started.
func (s *Scene) Add(shape core.Shape) {
	s.shapes = append(s.shapes, shape)
}

// Shapes returns the shape list
func (s *Scene) Shapes() []core.Shape {
	return s.shapes
}

// PreProcess finalizes the scene before rendering
func (s *Scene) PreProcess() error {
	s.preprocessed = true
	return nil
}

// Intersect returns the nearest hit along the ray within [tMin, tMax]
func (s *Scene) Intersect(ray core.Ray, tMin, tMax float64) (*core.HitRecord, bool) {
	var closest *core.HitRecord
	closestSoFar := tMax

	for _, shape := range s.shapes {
		if hit, ok := shape.Hit(ray, tMin, closestSoFar); ok {
			closestSoFar = hit.T
			closest = hit
		}
	}
	return closest, closest != nil
}

// Builders for the built-in demo scenes, keyed by CLI scene name.

// Create builds a demo scene by name
func Create(name string) (*Scene, error) {
	switch name {
	case "default":
		return NewDefault(), nil
	case "spheres":
		return NewSphereRow(), nil
	case "empty":
		return New(), nil
	default:
		return nil, fmt.Errorf("scene: unknown scene %q", name)
	}
}

// Names returns the built-in scene names
func Names() []string {
	return []string{"default", "empty", "spheres"}
}

// NewDefault creates a ground plane with a single centered sphere
func NewDefault() *Scene {
	return New(
		geometry.NewPlane(core.NewVec3(0, -0.5, 0), core.NewVec3(0, 1, 0)),
		geometry.NewSphere(core.NewVec3(0, 0, -2), 0.5),
	)
}

// NewSphereRow creates a ground plane with a row of spheres at varying depth
func NewSphereRow() *Scene {
	s := New(geometry.NewPlane(core.NewVec3(0, -0.5, 0), core.NewVec3(0, 1, 0)))
	for i := 0; i < 5; i++ {
		x := float64(i-2) * 1.2
		z := -2.0 - float64(i%3)*0.8
		s.Add(geometry.NewSphere(core.NewVec3(x, 0, z), 0.5))
	}
	return s
}
