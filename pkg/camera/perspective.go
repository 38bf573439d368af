// Package camera provides the camera models that turn pixel coordinates
// into primary rays.
package camera

import (
	"fmt"
	"math"

	"github.com/lumen-render/go-tile-raytracer/pkg/core"
	"github.com/lumen-render/go-tile-raytracer/pkg/registry"
)

var registryInst = registry.New[core.Camera]("camera")

func init() {
	registryInst.Register("perspective", func(props map[string]string) (core.Camera, error) {
		return NewPerspective(props)
	})
}

// Create instantiates a camera by type name from configuration properties.
func Create(name string, props map[string]string) (core.Camera, error) {
	return registryInst.Create(name, props)
}

// Names returns the registered camera type names.
func Names() []string {
	return registryInst.Names()
}

// Perspective is a pinhole camera. The viewport basis is derived in
// PreProcess so a half-configured camera fails setup instead of emitting
// degenerate rays.
type Perspective struct {
	width, height int
	eye           core.Vec3
	lookAt        core.Vec3
	up            core.Vec3
	vfov          float64 // vertical field of view in degrees

	lowerLeft  core.Vec3
	horizontal core.Vec3
	vertical   core.Vec3
}

// NewPerspective builds a perspective camera from string properties:
// width, height (pixels), fov (degrees), eye, lookat, up ("x,y,z").
func NewPerspective(props map[string]string) (*Perspective, error) {
	c := &Perspective{
		eye:    core.NewVec3(0, 0, 0),
		lookAt: core.NewVec3(0, 0, -1),
		up:     core.NewVec3(0, 1, 0),
		vfov:   45,
	}

	var err error
	if c.width, err = intProp(props, "width", 0); err != nil {
		return nil, err
	}
	if c.height, err = intProp(props, "height", 0); err != nil {
		return nil, err
	}
	if c.vfov, err = floatProp(props, "fov", c.vfov); err != nil {
		return nil, err
	}
	if c.eye, err = vec3Prop(props, "eye", c.eye); err != nil {
		return nil, err
	}
	if c.lookAt, err = vec3Prop(props, "lookat", c.lookAt); err != nil {
		return nil, err
	}
	if c.up, err = vec3Prop(props, "up", c.up); err != nil {
		return nil, err
	}
	return c, nil
}

// PreProcess validates the configuration and computes the viewport basis
func (c *Perspective) PreProcess() error {
	if c.width <= 0 || c.height <= 0 {
		return fmt.Errorf("camera: invalid viewport %dx%d", c.width, c.height)
	}
	if c.vfov <= 0 || c.vfov >= 180 {
		return fmt.Errorf("camera: invalid field of view %g", c.vfov)
	}
	forward := c.lookAt.Subtract(c.eye)
	if forward.LengthSquared() == 0 {
		return fmt.Errorf("camera: eye and lookat coincide")
	}

	aspect := float64(c.width) / float64(c.height)
	theta := c.vfov * math.Pi / 180
	viewportHeight := 2 * math.Tan(theta/2)
	viewportWidth := aspect * viewportHeight

	w := forward.Normalize().Negate()
	u := c.up.Cross(w).Normalize()
	v := w.Cross(u)

	c.horizontal = u.Multiply(viewportWidth)
	c.vertical = v.Multiply(viewportHeight)
	c.lowerLeft = c.eye.
		Subtract(c.horizontal.Multiply(0.5)).
		Subtract(c.vertical.Multiply(0.5)).
		Subtract(w)
	return nil
}

// GenerateRay creates the primary ray for pixel (px, py), jittered within
// the pixel by the sampler. Image y grows downward, viewport v upward.
func (c *Perspective) GenerateRay(px, py float64, s core.Sampler) core.Ray {
	jitter := s.Get2D()
	u := (px + jitter.X) / float64(c.width)
	v := 1 - (py+jitter.Y)/float64(c.height)

	direction := c.lowerLeft.
		Add(c.horizontal.Multiply(u)).
		Add(c.vertical.Multiply(v)).
		Subtract(c.eye)
	return core.NewRay(c.eye, direction)
}
