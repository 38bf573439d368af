package integrator

import (
	"math"

	"github.com/lumen-render/go-tile-raytracer/pkg/core"
	"github.com/lumen-render/go-tile-raytracer/pkg/memory"
)

// Normal visualizes surface normals, mapping each component from [-1, 1]
// into color range. Rays that miss fall through to the sky gradient.
type Normal struct {
	camera core.Camera
}

// NewNormal builds a normal-visualization integrator. It takes no
// properties.
func NewNormal(props map[string]string) (*Normal, error) {
	return &Normal{}, nil
}

func (n *Normal) PreProcess() error { return nil }

func (n *Normal) SetupCamera(camera core.Camera) { n.camera = camera }

func (n *Normal) Li(ray core.Ray, scene core.Scene, s core.Sampler, arena *memory.Arena) (core.Vec3, error) {
	hit, ok := scene.Intersect(ray, rayEpsilon, math.Inf(1))
	if !ok {
		return backgroundGradient(ray), nil
	}
	return hit.Normal.Add(core.NewVec3(1, 1, 1)).Multiply(0.5), nil
}
