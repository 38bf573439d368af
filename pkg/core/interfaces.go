package core

import "github.com/lumen-render/go-tile-raytracer/pkg/memory"

// Logger interface for renderer logging
type Logger interface {
	Printf(format string, args ...interface{})
}

// Sampler provides random samples for rendering algorithms and determines
// the effective samples-per-pixel via RoundSize.
// Can be swapped out for deterministic testing or different sampling patterns.
type Sampler interface {
	Get1D() float64
	Get2D() Vec2

	// RoundSize rounds a requested samples-per-pixel count to the nearest
	// count the sampling pattern supports.
	RoundSize(requested int) int
}

// SamplerFactory creates an independent sampler seeded for one worker thread
type SamplerFactory func(seed int64) Sampler

// Camera generates primary rays from pixel coordinates.
// GenerateRay receives the pixel position in image space; sub-pixel
// jittering is the camera's responsibility, using the supplied sampler.
type Camera interface {
	GenerateRay(px, py float64, s Sampler) Ray
	PreProcess() error
}

// ImageSensor owns the final per-pixel accumulated color.
// Store adds a weighted color contribution to one pixel; tiles are disjoint,
// so concurrent Store calls never target the same pixel and no locking is
// required on the backing store.
type ImageSensor interface {
	Width() int
	Height() int
	Store(x, y int, c Vec3, weight float64)
	PreProcess() error
	PostProcess() error
}

// HitRecord describes a ray-surface intersection
type HitRecord struct {
	Point  Vec3
	Normal Vec3
	T      float64
}

// Shape is anything a ray can intersect
type Shape interface {
	Hit(ray Ray, tMin, tMax float64) (*HitRecord, bool)
}

// Scene provides ray-scene intersection. Acceleration structures live behind
// this interface; the render core only ever asks for the nearest hit.
type Scene interface {
	Intersect(ray Ray, tMin, tMax float64) (*HitRecord, bool)
	PreProcess() error
}

// Integrator computes outgoing radiance along a camera ray. Li must be safe
// to call concurrently from multiple worker threads given only the
// thread-local sampler and arena passed in.
type Integrator interface {
	PreProcess() error
	SetupCamera(camera Camera)
	Li(ray Ray, scene Scene, s Sampler, arena *memory.Arena) (Vec3, error)
}
