package renderer

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/lumen-render/go-tile-raytracer/pkg/core"
	"github.com/lumen-render/go-tile-raytracer/pkg/memory"
	"github.com/lumen-render/go-tile-raytracer/pkg/progress"
)

// Pipeline setup errors. These are recoverable by the caller: fix the
// configuration and render again, the process is not torn down.
var (
	ErrNoCamera     = errors.New("renderer: no camera attached")
	ErrNoSensor     = errors.New("renderer: no image sensor attached")
	ErrRenderActive = errors.New("renderer: render pass already in progress")
)

// State identifies the pipeline's position in the render sequence
type State int

const (
	StateIdle State = iota
	StatePreProcessing
	StateTilesGenerated
	StateRendering
	StatePostProcessing
	StateDone
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StatePreProcessing:
		return "preprocessing"
	case StateTilesGenerated:
		return "tiles-generated"
	case StateRendering:
		return "rendering"
	case StatePostProcessing:
		return "postprocessing"
	case StateDone:
		return "done"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Config carries the render-pass parameters, fixed for the duration of one
// pass. All values come from the configuration surface; there is no
// process-wide mutable state behind the pipeline.
type Config struct {
	TileEdge    int // Tile edge length in pixels
	Workers     int // Worker count, 0 means NumCPU
	SampleRound int // Requested samples per pixel, rounded by the sampler
	ArenaBytes  int // Per-worker arena size, 0 means the default
}

// RenderStats summarizes one completed render pass
type RenderStats struct {
	Width           int
	Height          int
	TotalTiles      int
	TotalPixels     int
	SamplesPerPixel int
	Workers         int
	PreProcessTime  time.Duration
	RenderTime      time.Duration
}

// Pipeline sequences one render pass: preprocessing, tile generation, the
// worker pool, and sensor postprocessing. It exclusively owns the camera and
// sensor for the duration of the pass.
type Pipeline struct {
	cfg        Config
	scene      core.Scene
	camera     core.Camera
	sensor     core.ImageSensor
	integrator core.Integrator
	samplers   core.SamplerFactory
	tracker    *progress.Tracker
	logger     core.Logger

	state State
	stats RenderStats
}

// NewPipeline assembles a pipeline from its collaborators. tracker may be
// nil, in which case a console-only tracker is created at render time.
func NewPipeline(cfg Config, scene core.Scene, camera core.Camera, sensor core.ImageSensor,
	integrator core.Integrator, samplers core.SamplerFactory,
	tracker *progress.Tracker, logger core.Logger) *Pipeline {
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.NumCPU()
	}
	if cfg.ArenaBytes <= 0 {
		cfg.ArenaBytes = memory.DefaultArenaSize
	}
	return &Pipeline{
		cfg:        cfg,
		scene:      scene,
		camera:     camera,
		sensor:     sensor,
		integrator: integrator,
		samplers:   samplers,
		tracker:    tracker,
		logger:     logger,
		state:      StateIdle,
	}
}

// State returns the pipeline's current state
func (p *Pipeline) State() State {
	return p.state
}

// Stats returns the statistics of the last completed pass
func (p *Pipeline) Stats() RenderStats {
	return p.stats
}

func (p *Pipeline) setState(s State) {
	p.state = s
	p.logger.Printf("pipeline: %s\n", s)
}

// Render runs one full pass to completion. Setup failures (missing
// camera/sensor, collaborator preprocessing errors) abort before any tile is
// rendered and leave no side effects beyond logging. Render-phase failures
// cancel the remaining workers and surface as the returned error; there is
// no partial-image recovery.
func (p *Pipeline) Render(ctx context.Context) (RenderStats, error) {
	// Only an idle or completed pipeline may start a pass; a call arriving
	// mid-sequence would restart the state machine from the middle.
	if p.state != StateIdle && p.state != StateDone {
		return RenderStats{}, fmt.Errorf("%w (pipeline is %s)", ErrRenderActive, p.state)
	}
	p.state = StateIdle

	if p.sensor == nil {
		p.logger.Printf("warning: no image sensor attached, nothing to render\n")
		return RenderStats{}, ErrNoSensor
	}
	if p.camera == nil {
		p.logger.Printf("warning: no camera attached, nothing to render\n")
		return RenderStats{}, ErrNoCamera
	}

	// PreProcessing: finalize collaborators before any worker starts.
	p.setState(StatePreProcessing)
	preStart := time.Now()
	if err := p.preProcess(); err != nil {
		p.state = StateIdle
		return RenderStats{}, err
	}
	preTime := time.Since(preStart)
	p.logger.Printf("pipeline: preprocessing took %v\n", preTime)

	// TilesGenerated: partition the image and populate the queue.
	p.setState(StateTilesGenerated)
	width := p.sensor.Width()
	height := p.sensor.Height()
	tiles := SpiralTiles(width, height, p.cfg.TileEdge)

	spp := p.samplers(0).RoundSize(p.cfg.SampleRound)

	table := NewCompletionTable(len(tiles))
	queue := NewTaskQueue(len(tiles))
	for _, tile := range tiles {
		queue.Push(NewRenderTask(tile, spp, table))
	}

	tracker := p.tracker
	if tracker == nil {
		tracker = progress.NewTracker(len(tiles), nil, p.logger)
	}
	layout := progress.NewLayout(width, height, p.cfg.TileEdge)

	// Rendering: fixed pool, one preallocated arena per worker, join with
	// first-error propagation. The join blocks without timeout: a hung
	// integrator hangs the pass and is left to external supervision.
	p.setState(StateRendering)
	renderStart := time.Now()

	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < p.cfg.Workers; i++ {
		arena := memory.NewArena(p.cfg.ArenaBytes)
		ws := p.samplers(int64(i) + 42)
		ws.RoundSize(p.cfg.SampleRound) // configure the per-worker pattern
		w := NewWorker(i, queue, p.scene, p.integrator, p.camera, p.sensor,
			ws, arena, tracker, layout)
		g.Go(func() error { return w.Run(gctx) })
	}
	if err := g.Wait(); err != nil {
		p.state = StateIdle
		return RenderStats{}, fmt.Errorf("renderer: pass failed: %w", err)
	}
	renderTime := time.Since(renderStart)

	tracker.Report(table.Completed(), table.Total())
	tracker.Finalize()

	// PostProcessing: resolve and write out the accumulated image.
	p.setState(StatePostProcessing)
	if err := p.sensor.PostProcess(); err != nil {
		p.state = StateIdle
		return RenderStats{}, fmt.Errorf("renderer: sensor postprocess: %w", err)
	}

	p.setState(StateDone)
	p.stats = RenderStats{
		Width:           width,
		Height:          height,
		TotalTiles:      len(tiles),
		TotalPixels:     width * height,
		SamplesPerPixel: spp,
		Workers:         p.cfg.Workers,
		PreProcessTime:  preTime,
		RenderTime:      renderTime,
	}
	p.logger.Printf("pipeline: rendered %d tiles (%d spp) on %d workers in %v\n",
		len(tiles), spp, p.cfg.Workers, renderTime)
	return p.stats, nil
}

func (p *Pipeline) preProcess() error {
	if err := p.sensor.PreProcess(); err != nil {
		return fmt.Errorf("renderer: sensor preprocess: %w", err)
	}
	if err := p.camera.PreProcess(); err != nil {
		return fmt.Errorf("renderer: camera preprocess: %w", err)
	}
	if p.scene != nil {
		if err := p.scene.PreProcess(); err != nil {
			return fmt.Errorf("renderer: scene preprocess: %w", err)
		}
	}
	if err := p.integrator.PreProcess(); err != nil {
		return fmt.Errorf("renderer: integrator preprocess: %w", err)
	}
	p.integrator.SetupCamera(p.camera)
	return nil
}
