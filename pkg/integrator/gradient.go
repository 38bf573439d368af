package integrator

import (
	"github.com/lumen-render/go-tile-raytracer/pkg/core"
	"github.com/lumen-render/go-tile-raytracer/pkg/memory"
)

// Gradient ignores the scene entirely and shades every ray with the sky
// gradient. Useful as a smoke-test integrator: it exercises the full tile
// and progress plumbing with no intersection cost.
type Gradient struct {
	camera core.Camera
}

// NewGradient builds a gradient integrator. It takes no properties.
func NewGradient(props map[string]string) (*Gradient, error) {
	return &Gradient{}, nil
}

func (g *Gradient) PreProcess() error { return nil }

func (g *Gradient) SetupCamera(camera core.Camera) { g.camera = camera }

func (g *Gradient) Li(ray core.Ray, scene core.Scene, s core.Sampler, arena *memory.Arena) (core.Vec3, error) {
	return backgroundGradient(ray), nil
}
