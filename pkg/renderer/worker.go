package renderer

import (
	"context"
	"fmt"

	"github.com/lumen-render/go-tile-raytracer/pkg/core"
	"github.com/lumen-render/go-tile-raytracer/pkg/memory"
	"github.com/lumen-render/go-tile-raytracer/pkg/progress"
)

// Worker drains the task queue on one OS thread's worth of goroutine. It is
// bound at construction to the shared queue, integrator, camera, scene and
// sensor, and exclusively owns its sampler and memory arena. All of its side
// effects are confined to the pixel rectangles of the tiles it pops, its own
// arena, and the progress tracker.
type Worker struct {
	id         int
	queue      *TaskQueue
	scene      core.Scene
	integrator core.Integrator
	camera     core.Camera
	sensor     core.ImageSensor
	sampler    core.Sampler
	arena      *memory.Arena
	tracker    *progress.Tracker
	layout     progress.Layout
}

// NewWorker creates a worker bound to the shared render state. The sampler
// and arena must not be shared with any other worker.
func NewWorker(id int, queue *TaskQueue, scene core.Scene, integrator core.Integrator,
	camera core.Camera, sensor core.ImageSensor, s core.Sampler,
	arena *memory.Arena, tracker *progress.Tracker, layout progress.Layout) *Worker {
	return &Worker{
		id:         id,
		queue:      queue,
		scene:      scene,
		integrator: integrator,
		camera:     camera,
		sensor:     sensor,
		sampler:    s,
		arena:      arena,
		tracker:    tracker,
		layout:     layout,
	}
}

// Run pops and renders tasks until the queue is empty, which is the normal
// termination signal, or until the context is cancelled because a sibling
// worker failed. A render error (arena exhaustion, integrator fault) aborts
// the whole pass: partial radiance cannot be silently patched up.
func (w *Worker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		task, ok := w.queue.TryPop()
		if !ok {
			return nil
		}
		if err := w.renderTask(task); err != nil {
			return fmt.Errorf("worker %d task %d: %w", w.id, task.ID, err)
		}
	}
}

// renderTask evaluates every pixel and sample of one tile, commits the
// accumulated samples to the image sensor, and reports completion.
func (w *Worker) renderTask(task *RenderTask) error {
	// Scratch from previous tasks is dead once their pixels are committed.
	w.arena.Reset()

	bounds := task.Tile.Bounds
	tileW := bounds.Dx()
	tileH := bounds.Dy()
	spp := len(task.Samples)

	committed := make([]core.Vec3, tileW*tileH)

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			for s := 0; s < spp; s++ {
				ray := w.camera.GenerateRay(float64(x), float64(y), w.sampler)
				c, err := w.integrator.Li(ray, w.scene, w.sampler, w.arena)
				if err != nil {
					return err
				}
				task.Samples[s] = PixelSample{Color: c, Weight: 1}
			}

			var sum core.Vec3
			var weight float64
			for s := 0; s < spp; s++ {
				sum = sum.Add(task.Samples[s].Color.Multiply(task.Samples[s].Weight))
				weight += task.Samples[s].Weight
			}

			// This tile's rectangle is disjoint from every other task's,
			// so the sensor write needs no synchronization.
			w.sensor.Store(x, y, sum, weight)
			committed[(y-bounds.Min.Y)*tileW+(x-bounds.Min.X)] = sum
		}
	}

	gridIndex := w.layout.TileIndex(bounds.Min.X, bounds.Min.Y)
	w.tracker.MirrorTile(gridIndex, tileW, tileH, committed, float64(spp))

	task.Done.MarkDone(task.ID)
	w.tracker.TileDone(gridIndex)
	return nil
}
