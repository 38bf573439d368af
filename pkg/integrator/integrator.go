// Package integrator provides the shading strategies that turn a primary
// ray into a pixel color. Integrators are registered by name and created
// from string properties, so setup code can pick one via configuration.
package integrator

import (
	"fmt"
	"strconv"

	"github.com/lumen-render/go-tile-raytracer/pkg/core"
	"github.com/lumen-render/go-tile-raytracer/pkg/registry"
)

// Intersection offsets below this distance are ignored to avoid shadow acne.
const rayEpsilon = 0.001

var registryInst = registry.New[core.Integrator]("integrator")

func init() {
	registryInst.Register("gradient", func(props map[string]string) (core.Integrator, error) {
		return NewGradient(props)
	})
	registryInst.Register("normal", func(props map[string]string) (core.Integrator, error) {
		return NewNormal(props)
	})
	registryInst.Register("ao", func(props map[string]string) (core.Integrator, error) {
		return NewAmbientOcclusion(props)
	})
}

// Create instantiates an integrator by type name from configuration
// properties.
func Create(name string, props map[string]string) (core.Integrator, error) {
	return registryInst.Create(name, props)
}

// Names returns the registered integrator type names.
func Names() []string {
	return registryInst.Names()
}

func intProp(props map[string]string, key string, def int) (int, error) {
	raw, ok := props[key]
	if !ok {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("integrator: property %q: %w", key, err)
	}
	return v, nil
}

func floatProp(props map[string]string, key string, def float64) (float64, error) {
	raw, ok := props[key]
	if !ok {
		return def, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("integrator: property %q: %w", key, err)
	}
	return v, nil
}

// backgroundGradient returns the sky color for a ray that escapes the scene,
// a vertical lerp from white at the horizon to blue overhead.
func backgroundGradient(ray core.Ray) core.Vec3 {
	unit := ray.Direction.Normalize()
	t := 0.5 * (unit.Y + 1.0)
	white := core.NewVec3(1.0, 1.0, 1.0)
	blue := core.NewVec3(0.5, 0.7, 1.0)
	return white.Lerp(blue, t)
}
