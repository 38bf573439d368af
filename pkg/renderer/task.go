package renderer

import (
	"sync"
	"sync/atomic"

	"github.com/lumen-render/go-tile-raytracer/pkg/core"
)

// PixelSample is one sample record in a task's per-pixel sample buffer
type PixelSample struct {
	Color  core.Vec3
	Weight float64
}

// RenderTask is one tile of work: immutable after creation except for its
// sample buffer, which only the worker that dequeues the task touches.
type RenderTask struct {
	Tile    Tile
	ID      int              // Monotonically increasing task id
	Samples []PixelSample    // Reused per pixel, sized to samples-per-pixel
	Done    *CompletionTable // Shared completion table, indexed by task id
}

// NewRenderTask creates a task for one tile with a sample buffer for
// samplesPerPixel samples.
func NewRenderTask(tile Tile, samplesPerPixel int, done *CompletionTable) *RenderTask {
	return &RenderTask{
		Tile:    tile,
		ID:      tile.ID,
		Samples: make([]PixelSample, samplesPerPixel),
		Done:    done,
	}
}

// CompletionTable tracks which tasks have finished. Each entry is written by
// exactly one worker; the flag store happens before the counter increment so
// progress computed from the counter never counts a task whose flag is
// still clear.
type CompletionTable struct {
	flags     []atomic.Bool
	completed atomic.Int64
}

// NewCompletionTable creates a table for total tasks
func NewCompletionTable(total int) *CompletionTable {
	return &CompletionTable{flags: make([]atomic.Bool, total)}
}

// MarkDone records task id as finished
func (ct *CompletionTable) MarkDone(id int) {
	ct.flags[id].Store(true)
	ct.completed.Add(1)
}

// IsDone reports whether task id has finished
func (ct *CompletionTable) IsDone(id int) bool {
	return ct.flags[id].Load()
}

// Completed returns the number of finished tasks
func (ct *CompletionTable) Completed() int {
	return int(ct.completed.Load())
}

// Total returns the table size
func (ct *CompletionTable) Total() int {
	return len(ct.flags)
}

// TaskQueue holds the pending render tasks for one pass. It is populated
// exactly once by the pipeline before workers start, then drained
// concurrently through TryPop. Tasks are never pushed back or re-queued;
// an empty pop is the normal termination signal for a worker.
type TaskQueue struct {
	mu    sync.Mutex
	tasks []*RenderTask
}

// NewTaskQueue creates a queue with room for capacity tasks
func NewTaskQueue(capacity int) *TaskQueue {
	return &TaskQueue{tasks: make([]*RenderTask, 0, capacity)}
}

// Push adds a task. Called only during the single-producer population phase.
func (q *TaskQueue) Push(task *RenderTask) {
	q.mu.Lock()
	q.tasks = append(q.tasks, task)
	q.mu.Unlock()
}

// TryPop removes and returns the next task, or reports the queue empty.
// Safe for concurrent use by all workers; the critical section is a pointer
// swap.
func (q *TaskQueue) TryPop() (*RenderTask, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.tasks) == 0 {
		return nil, false
	}
	task := q.tasks[0]
	q.tasks[0] = nil
	q.tasks = q.tasks[1:]
	return task, true
}

// Len returns the number of pending tasks
func (q *TaskQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.tasks)
}
