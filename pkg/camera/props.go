package camera

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/lumen-render/go-tile-raytracer/pkg/core"
)

// Property parsing for the string-keyed configuration surface.

func intProp(props map[string]string, key string, def int) (int, error) {
	raw, ok := props[key]
	if !ok {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("camera: property %q: %w", key, err)
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
		return 0, fmt.Errorf("camera: property %q: %w", key, err)
	}
	return v, nil
}

func vec3Prop(props map[string]string, key string, def core.Vec3) (core.Vec3, error) {
	raw, ok := props[key]
	if !ok {
		return def, nil
	}
	parts := strings.Split(raw, ",")
	if len(parts) != 3 {
		return core.Vec3{}, fmt.Errorf("camera: property %q: expected x,y,z, got %q", key, raw)
	}
	var out [3]float64
	for i, part := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return core.Vec3{}, fmt.Errorf("camera: property %q: %w", key, err)
		}
		out[i] = v
	}
	return core.NewVec3(out[0], out[1], out[2]), nil
}
