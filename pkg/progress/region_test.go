package progress

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/lumen-render/go-tile-raytracer/pkg/core"
)

func newTestRegion(t *testing.T, layout Layout) (*Region, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "render.region")
	region, err := Create(path, layout)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	t.Cleanup(func() { region.Close() })
	return region, path
}

func TestRegionCreateZeroed(t *testing.T) {
	layout := NewLayout(64, 64, 32)
	region, path := newTestRegion(t, layout)

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if info.Size() != int64(layout.Size()) {
		t.Errorf("expected file size %d, got %d", layout.Size(), info.Size())
	}

	if region.Progress() != 0 {
		t.Error("expected zero progress in fresh region")
	}
	if region.Final() {
		t.Error("expected unset final flag in fresh region")
	}
	if region.TilesDone() != 0 {
		t.Error("expected no completed tiles in fresh region")
	}
}

func TestRegionTileFlags(t *testing.T) {
	region, _ := newTestRegion(t, NewLayout(64, 64, 32))

	if err := region.SetTileDone(2); err != nil {
		t.Fatalf("SetTileDone: %v", err)
	}
	done, err := region.TileDone(2)
	if err != nil || !done {
		t.Errorf("expected tile 2 done, got %v err %v", done, err)
	}
	done, _ = region.TileDone(1)
	if done {
		t.Error("expected tile 1 not done")
	}
	if region.TilesDone() != 1 {
		t.Errorf("expected 1 tile done, got %d", region.TilesDone())
	}

	if err := region.SetTileDone(99); err == nil {
		t.Error("expected out-of-range error")
	}
}

func TestRegionPixelRoundTrip(t *testing.T) {
	region, _ := newTestRegion(t, NewLayout(64, 64, 32))

	want := [4]float32{0.25, 0.5, 0.75, 8}
	if err := region.WritePixel(1, 3, 7, BankAccum, want); err != nil {
		t.Fatalf("WritePixel: %v", err)
	}
	got, err := region.ReadPixel(1, 3, 7, BankAccum)
	if err != nil {
		t.Fatalf("ReadPixel: %v", err)
	}
	if got != want {
		t.Errorf("expected %v, got %v", want, got)
	}

	// Other bank stays untouched
	other, _ := region.ReadPixel(1, 3, 7, BankResolved)
	if other != ([4]float32{}) {
		t.Errorf("expected zero resolved bank, got %v", other)
	}
}

func TestRegionWriteTilePixels(t *testing.T) {
	region, _ := newTestRegion(t, NewLayout(64, 64, 32))

	colors := make([]core.Vec3, 4) // 2x2 clipped tile
	for i := range colors {
		colors[i] = core.NewVec3(float64(i), 0, 0)
	}

	if err := region.WriteTilePixels(0, 2, 2, colors, 4); err != nil {
		t.Fatalf("WriteTilePixels: %v", err)
	}

	accum, _ := region.ReadPixel(0, 1, 1, BankAccum)
	if accum[0] != 3 || accum[3] != 4 {
		t.Errorf("expected accum (3,_,_,4), got %v", accum)
	}
	resolved, _ := region.ReadPixel(0, 1, 1, BankResolved)
	if resolved[0] != 0.75 || resolved[3] != 1 {
		t.Errorf("expected resolved (0.75,_,_,1), got %v", resolved)
	}

	if err := region.WriteTilePixels(0, 2, 2, colors[:3], 4); err == nil {
		t.Error("expected error for mismatched color count")
	}
}

// A reader mapping the same file must observe the writer's bytes: this is
// the cross-process contract with the external host.
func TestRegionReaderSeesWriter(t *testing.T) {
	layout := NewLayout(64, 64, 32)
	region, path := newTestRegion(t, layout)

	region.SetProgress(42)
	if err := region.SetTileDone(0); err != nil {
		t.Fatalf("SetTileDone: %v", err)
	}

	reader, err := OpenReader(path, layout)
	if err != nil {
		t.Fatalf("OpenReader: %v", err)
	}
	defer reader.Close()

	if got := reader.Progress(); got != 42 {
		t.Errorf("expected reader to see progress 42, got %d", got)
	}
	done, _ := reader.TileDone(0)
	if !done {
		t.Error("expected reader to see tile 0 done")
	}

	// Later writer updates are visible through the existing mapping
	region.SetProgress(100)
	region.SetFinal()
	if got := reader.Progress(); got != 100 {
		t.Errorf("expected reader to see progress 100, got %d", got)
	}
	if !reader.Final() {
		t.Error("expected reader to see final flag")
	}
}

func TestRegionOpenReaderSizeMismatch(t *testing.T) {
	layout := NewLayout(64, 64, 32)
	_, path := newTestRegion(t, layout)

	if _, err := OpenReader(path, NewLayout(128, 128, 32)); err == nil {
		t.Error("expected size mismatch error")
	}
}

func TestRegionProgressClamped(t *testing.T) {
	region, _ := newTestRegion(t, NewLayout(64, 64, 32))
	region.SetProgress(200)
	if got := region.Progress(); got != 100 {
		t.Errorf("expected clamp to 100, got %d", got)
	}
}
