package integrator

import (
	"fmt"
	"math"

	"github.com/lumen-render/go-tile-raytracer/pkg/core"
	"github.com/lumen-render/go-tile-raytracer/pkg/memory"
)

// AmbientOcclusion shades each hit point by the fraction of the hemisphere
// above it that is unoccluded within maxDistance. Occlusion directions are
// cosine-weighted; their scratch storage comes from the worker's arena, so
// a run with too small an arena fails loudly instead of spilling to the
// heap mid-render.
type AmbientOcclusion struct {
	camera      core.Camera
	samples     int
	maxDistance float64
}

// NewAmbientOcclusion builds an ambient occlusion integrator from string
// properties: samples (occlusion rays per hit, default 16) and distance
// (occlusion radius, default 2).
func NewAmbientOcclusion(props map[string]string) (*AmbientOcclusion, error) {
	ao := &AmbientOcclusion{samples: 16, maxDistance: 2}

	var err error
	if ao.samples, err = intProp(props, "samples", ao.samples); err != nil {
		return nil, err
	}
	if ao.maxDistance, err = floatProp(props, "distance", ao.maxDistance); err != nil {
		return nil, err
	}
	return ao, nil
}

// PreProcess validates the configured sample count and radius
func (ao *AmbientOcclusion) PreProcess() error {
	if ao.samples <= 0 {
		return fmt.Errorf("integrator: ao samples must be positive, got %d", ao.samples)
	}
	if ao.maxDistance <= 0 {
		return fmt.Errorf("integrator: ao distance must be positive, got %g", ao.maxDistance)
	}
	return nil
}

func (ao *AmbientOcclusion) SetupCamera(camera core.Camera) { ao.camera = camera }

func (ao *AmbientOcclusion) Li(ray core.Ray, scene core.Scene, s core.Sampler, arena *memory.Arena) (core.Vec3, error) {
	hit, ok := scene.Intersect(ray, rayEpsilon, math.Inf(1))
	if !ok {
		return backgroundGradient(ray), nil
	}

	// Draw all occlusion directions up front into arena scratch, then
	// trace. Keeps sampler calls contiguous per hit point.
	dirs, err := arena.Float64s(ao.samples * 3)
	if err != nil {
		return core.Vec3{}, fmt.Errorf("integrator: ao scratch: %w", err)
	}
	for i := 0; i < ao.samples; i++ {
		d := core.SampleCosineHemisphere(hit.Normal, s.Get2D())
		dirs[i*3] = d.X
		dirs[i*3+1] = d.Y
		dirs[i*3+2] = d.Z
	}

	open := 0
	for i := 0; i < ao.samples; i++ {
		d := core.NewVec3(dirs[i*3], dirs[i*3+1], dirs[i*3+2])
		probe := core.NewRay(hit.Point, d)
		if _, blocked := scene.Intersect(probe, rayEpsilon, ao.maxDistance); !blocked {
			open++
		}
	}

	visibility := float64(open) / float64(ao.samples)
	return core.NewVec3(visibility, visibility, visibility), nil
}
