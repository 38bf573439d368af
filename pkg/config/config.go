// Package config loads render job configuration from YAML files. Every
// field has a usable default, so an empty file is a valid configuration.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Component selects a registered component type and carries its
// construction properties.
type Component struct {
	Type  string            `yaml:"type"`
	Props map[string]string `yaml:"props"`
}

// Image configures the output image.
type Image struct {
	Width   int    `yaml:"width"`
	Height  int    `yaml:"height"`
	Output  string `yaml:"output"`
	Preview string `yaml:"preview"`
	// PreviewEdge is the longer edge of the downscaled preview in pixels.
	PreviewEdge int `yaml:"preview_edge"`
}

// Render configures the execution core.
type Render struct {
	TileEdge int `yaml:"tile_edge"`
	// Workers is the render thread count; 0 means one per CPU.
	Workers int `yaml:"workers"`
	Samples int `yaml:"samples"`
	// ArenaMB is the per-worker scratch arena size in megabytes.
	ArenaMB int `yaml:"arena_mb"`
}

// Progress configures the shared progress region for host processes.
type Progress struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// Config is the root of a render job configuration.
type Config struct {
	Image      Image     `yaml:"image"`
	Render     Render    `yaml:"render"`
	Scene      string    `yaml:"scene"`
	Camera     Component `yaml:"camera"`
	Sampler    Component `yaml:"sampler"`
	Integrator Component `yaml:"integrator"`
	Progress   Progress  `yaml:"progress"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Image: Image{
			Width:       800,
			Height:      450,
			Output:      "render.png",
			PreviewEdge: 200,
		},
		Render: Render{
			TileEdge: 64,
			Samples:  16,
			ArenaMB:  64,
		},
		Scene:      "default",
		Camera:     Component{Type: "perspective"},
		Sampler:    Component{Type: "stratified"},
		Integrator: Component{Type: "ao"},
		Progress:   Progress{Path: "render.progress"},
	}
}

// Load reads a YAML configuration file over the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the configuration for values the pipeline would reject.
func (c *Config) Validate() error {
	if c.Image.Width <= 0 || c.Image.Height <= 0 {
		return fmt.Errorf("image dimensions must be positive, got %dx%d", c.Image.Width, c.Image.Height)
	}
	if c.Render.TileEdge <= 0 {
		return fmt.Errorf("tile edge must be positive, got %d", c.Render.TileEdge)
	}
	if c.Render.Workers < 0 {
		return fmt.Errorf("workers must be non-negative, got %d", c.Render.Workers)
	}
	if c.Render.Samples <= 0 {
		return fmt.Errorf("samples must be positive, got %d", c.Render.Samples)
	}
	if c.Render.ArenaMB <= 0 {
		return fmt.Errorf("arena size must be positive, got %d MB", c.Render.ArenaMB)
	}
	if c.Image.Preview != "" && c.Image.PreviewEdge <= 0 {
		return fmt.Errorf("preview edge must be positive, got %d", c.Image.PreviewEdge)
	}
	if c.Camera.Type == "" {
		return fmt.Errorf("camera type must be set")
	}
	if c.Sampler.Type == "" {
		return fmt.Errorf("sampler type must be set")
	}
	if c.Integrator.Type == "" {
		return fmt.Errorf("integrator type must be set")
	}
	if c.Progress.Enabled && c.Progress.Path == "" {
		return fmt.Errorf("progress region enabled without a path")
	}
	return nil
}

// CameraProps returns the camera properties with the image dimensions
// merged in, so camera configs never repeat the resolution.
func (c *Config) CameraProps() map[string]string {
	props := make(map[string]string, len(c.Camera.Props)+2)
	for k, v := range c.Camera.Props {
		props[k] = v
	}
	props["width"] = fmt.Sprintf("%d", c.Image.Width)
	props["height"] = fmt.Sprintf("%d", c.Image.Height)
	return props
}
