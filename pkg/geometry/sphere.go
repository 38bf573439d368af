// Package geometry provides the shapes used by the built-in demo scenes.
// Production scenes arrive through the external scene description pipeline;
// these primitives exist so the render core can be exercised end to end.
package geometry

import (
	"math"

	"github.com/lumen-render/go-tile-raytracer/pkg/core"
)

// Sphere represents a sphere shape
type Sphere struct {
	Center core.Vec3
	Radius float64
}

// NewSphere creates a new sphere
func NewSphere(center core.Vec3, radius float64) *Sphere {
	return &Sphere{Center: center, Radius: radius}
}

// Hit tests if a ray intersects with the sphere
func (s *Sphere) Hit(ray core.Ray, tMin, tMax float64) (*core.HitRecord, bool) {
	oc := ray.Origin.Subtract(s.Center)

	// Quadratic equation coefficients: at² + bt + c = 0
	a := ray.Direction.Dot(ray.Direction)
	halfB := oc.Dot(ray.Direction)
	c := oc.Dot(oc) - s.Radius*s.Radius

	discriminant := halfB*halfB - a*c
	if discriminant < 0 {
		return nil, false
	}
	sqrtD := math.Sqrt(discriminant)

	// Nearest intersection within the valid range
	root := (-halfB - sqrtD) / a
	if root < tMin || root > tMax {
		root = (-halfB + sqrtD) / a
		if root < tMin || root > tMax {
			return nil, false
		}
	}

	point := ray.At(root)
	normal := point.Subtract(s.Center).Multiply(1.0 / s.Radius)
	return orient(&core.HitRecord{T: root, Point: point, Normal: normal}, ray), true
}

// orient flips the normal to face against the incoming ray
func orient(hit *core.HitRecord, ray core.Ray) *core.HitRecord {
	if ray.Direction.Dot(hit.Normal) > 0 {
		hit.Normal = hit.Normal.Negate()
	}
	return hit
}
