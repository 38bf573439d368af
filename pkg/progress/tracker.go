package progress

import (
	"sync"
	"sync/atomic"

	"github.com/lumen-render/go-tile-raytracer/pkg/core"
)

// Tracker reports render completion to the shared region. Any worker may
// report opportunistically; the percentage written to the region is
// monotonically non-decreasing so a host never observes progress moving
// backwards. When no region is attached (shared memory setup failed or was
// disabled) reporting degrades to the logger, and rendering is unaffected.
type Tracker struct {
	total     int
	region    *Region
	logger    core.Logger
	completed atomic.Int64

	// mu guards both the monotonic admission check and the region write.
	// Taken together they form a single publish step: without the lock, a
	// preempted reporter could overwrite a higher percentage already in
	// the region, and no later report would ever correct it.
	mu   sync.Mutex
	last int
}

// NewTracker creates a tracker for a pass of total tiles. region may be nil.
func NewTracker(total int, region *Region, logger core.Logger) *Tracker {
	return &Tracker{total: total, region: region, logger: logger}
}

// TileDone records one completed tile: sets its flag in the region header
// and publishes the updated percentage.
func (t *Tracker) TileDone(tileIndex int) {
	if t.region != nil {
		// Flag writes precede the counter update so a host that sees N%
		// never counts fewer than N% of flags.
		if err := t.region.SetTileDone(tileIndex); err != nil {
			t.logger.Printf("progress: %v\n", err)
		}
	}
	done := t.completed.Add(1)
	t.Report(int(done), t.total)
}

// MirrorTile copies a completed tile's pixels into the region pixel block
// for progressive host-side display. A nil region makes this a no-op.
func (t *Tracker) MirrorTile(tileIndex, tileW, tileH int, colors []core.Vec3, weight float64) {
	if t.region == nil {
		return
	}
	if err := t.region.WriteTilePixels(tileIndex, tileW, tileH, colors, weight); err != nil {
		t.logger.Printf("progress: %v\n", err)
	}
}

// Report publishes floor(100*completed/total), keeping the published value
// monotonically non-decreasing across concurrent reporters.
func (t *Tracker) Report(completed, total int) {
	if total <= 0 {
		return
	}
	pct := 100 * completed / total
	if pct > 100 {
		pct = 100
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if pct <= t.last {
		return // a later report already got there
	}
	t.last = pct

	if t.region != nil {
		t.region.SetProgress(uint8(pct))
	} else {
		t.logger.Printf("Progress: %d%%\n", pct)
	}
}

// Progress returns the last published percentage.
func (t *Tracker) Progress() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.last
}

// Completed returns the number of tiles reported done.
func (t *Tracker) Completed() int {
	return int(t.completed.Load())
}

// Finalize forces the percentage to 100 and sets the final-update flag. The
// region byte is rewritten unconditionally so the host never observes the
// final flag alongside a stale percentage.
func (t *Tracker) Finalize() {
	t.Report(t.total, t.total)
	if t.region == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.region.SetProgress(100)
	t.region.SetFinal()
}
