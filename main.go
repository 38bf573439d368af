package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/lumen-render/go-tile-raytracer/pkg/camera"
	"github.com/lumen-render/go-tile-raytracer/pkg/config"
	"github.com/lumen-render/go-tile-raytracer/pkg/integrator"
	"github.com/lumen-render/go-tile-raytracer/pkg/progress"
	"github.com/lumen-render/go-tile-raytracer/pkg/renderer"
	"github.com/lumen-render/go-tile-raytracer/pkg/sampler"
	"github.com/lumen-render/go-tile-raytracer/pkg/scene"
	"github.com/lumen-render/go-tile-raytracer/pkg/sensor"
)

func main() {
	configPath := flag.String("config", "", "Path to a YAML render configuration")
	sceneName := flag.String("scene", "", "Scene to render (overrides config)")
	integratorName := flag.String("integrator", "", "Integrator to use (overrides config)")
	threads := flag.Int("threads", 0, "Render worker count, 0 means one per CPU (overrides config)")
	samples := flag.Int("samples", 0, "Samples per pixel (overrides config)")
	output := flag.String("output", "", "Output PNG path (overrides config)")
	progressPath := flag.String("progress", "", "Shared progress region file (overrides config, enables the region)")
	verbose := flag.Bool("verbose", false, "Enable debug logging")
	help := flag.Bool("help", false, "Show help information")
	flag.Parse()

	if *help {
		fmt.Println("Tile Raytracer")
		fmt.Println("Usage: raytracer [options]")
		fmt.Println()
		fmt.Println("Options:")
		flag.PrintDefaults()
		fmt.Println()
		fmt.Printf("Available scenes:      %s\n", strings.Join(scene.Names(), ", "))
		fmt.Printf("Available integrators: %s\n", strings.Join(integrator.Names(), ", "))
		fmt.Printf("Available samplers:    %s\n", strings.Join(sampler.Names(), ", "))
		fmt.Printf("Available cameras:     %s\n", strings.Join(camera.Names(), ", "))
		return
	}

	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if *verbose {
		log.SetLevel(logrus.DebugLevel)
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		log.Fatalf("%v", err)
	}
	applyOverrides(cfg, *sceneName, *integratorName, *threads, *samples, *output, *progressPath)

	if err := run(cfg, log); err != nil {
		log.Fatalf("render failed: %v", err)
	}
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Default(), nil
	}
	return config.Load(path)
}

// applyOverrides folds non-empty command line flags over the configuration
func applyOverrides(cfg *config.Config, sceneName, integratorName string, threads, samples int, output, progressPath string) {
	if sceneName != "" {
		cfg.Scene = sceneName
	}
	if integratorName != "" {
		cfg.Integrator.Type = integratorName
	}
	if threads > 0 {
		cfg.Render.Workers = threads
	}
	if samples > 0 {
		cfg.Render.Samples = samples
	}
	if output != "" {
		cfg.Image.Output = output
	}
	if progressPath != "" {
		cfg.Progress.Enabled = true
		cfg.Progress.Path = progressPath
	}
}

func run(cfg *config.Config, log *logrus.Logger) error {
	sceneInst, err := scene.Create(cfg.Scene)
	if err != nil {
		return err
	}
	cameraInst, err := camera.Create(cfg.Camera.Type, cfg.CameraProps())
	if err != nil {
		return err
	}
	integratorInst, err := integrator.Create(cfg.Integrator.Type, cfg.Integrator.Props)
	if err != nil {
		return err
	}
	samplerFactory, err := sampler.Create(cfg.Sampler.Type, cfg.Sampler.Props)
	if err != nil {
		return err
	}

	target := sensor.NewRenderTarget(cfg.Image.Width, cfg.Image.Height, cfg.Image.Output)
	if cfg.Image.Preview != "" {
		target.SetPreview(cfg.Image.Preview, cfg.Image.PreviewEdge)
	}

	tracker, closeRegion := setupProgress(cfg, log)
	defer closeRegion()

	pipeline := renderer.NewPipeline(renderer.Config{
		TileEdge:    cfg.Render.TileEdge,
		Workers:     cfg.Render.Workers,
		SampleRound: cfg.Render.Samples,
		ArenaBytes:  cfg.Render.ArenaMB << 20,
	}, sceneInst, cameraInst, target, integratorInst, samplerFactory, tracker, log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Infof("rendering scene %q with %s integrator at %dx%d",
		cfg.Scene, cfg.Integrator.Type, cfg.Image.Width, cfg.Image.Height)

	stats, err := pipeline.Render(ctx)
	if err != nil {
		return err
	}

	log.Infof("render complete: %d tiles, %d pixels, %d spp, %d workers",
		stats.TotalTiles, stats.TotalPixels, stats.SamplesPerPixel, stats.Workers)
	log.Infof("timings: preprocess %v, render %v", stats.PreProcessTime, stats.RenderTime)
	if cfg.Image.Output != "" {
		log.Infof("render saved as %s", cfg.Image.Output)
	}
	return nil
}

// setupProgress creates the shared progress region when enabled. A region
// that cannot be mapped degrades to console-only progress reporting.
func setupProgress(cfg *config.Config, log *logrus.Logger) (*progress.Tracker, func()) {
	layout := progress.NewLayout(cfg.Image.Width, cfg.Image.Height, cfg.Render.TileEdge)

	if !cfg.Progress.Enabled {
		return progress.NewTracker(layout.Tiles(), nil, log), func() {}
	}

	region, err := progress.Create(cfg.Progress.Path, layout)
	if err != nil {
		log.Warnf("progress region unavailable, falling back to console: %v", err)
		return progress.NewTracker(layout.Tiles(), nil, log), func() {}
	}

	log.Infof("progress region at %s (%d bytes)", cfg.Progress.Path, layout.Size())
	return progress.NewTracker(layout.Tiles(), region, log), func() {
		if err := region.Close(); err != nil {
			log.Warnf("closing progress region: %v", err)
		}
	}
}
