package sensor

import (
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/lumen-render/go-tile-raytracer/pkg/core"
)

func TestPreProcessValidation(t *testing.T) {
	if err := NewRenderTarget(0, 10, "").PreProcess(); err == nil {
		t.Error("expected error for zero width")
	}
	if err := NewRenderTarget(10, -1, "").PreProcess(); err == nil {
		t.Error("expected error for negative height")
	}

	rt := NewRenderTarget(10, 10, "")
	rt.SetPreview("p.png", 0)
	if err := rt.PreProcess(); err == nil {
		t.Error("expected error for non-positive preview edge")
	}
}

func TestStoreAndResolve(t *testing.T) {
	rt := NewRenderTarget(4, 4, "")
	if err := rt.PreProcess(); err != nil {
		t.Fatalf("PreProcess: %v", err)
	}

	// Two weighted samples at one pixel resolve to their weighted mean.
	rt.Store(1, 2, core.NewVec3(1, 0, 0), 1)
	rt.Store(1, 2, core.NewVec3(0, 1, 0), 1)

	got := rt.Pixel(1, 2)
	want := core.NewVec3(0.5, 0.5, 0)
	if got != want {
		t.Errorf("Pixel(1, 2) = %v, want %v", got, want)
	}

	if zero := rt.Pixel(0, 0); zero != (core.Vec3{}) {
		t.Errorf("untouched pixel = %v, want zero", zero)
	}
}

func TestStoreOutOfBoundsDropped(t *testing.T) {
	rt := NewRenderTarget(2, 2, "")
	if err := rt.PreProcess(); err != nil {
		t.Fatalf("PreProcess: %v", err)
	}

	rt.Store(-1, 0, core.NewVec3(1, 1, 1), 1)
	rt.Store(2, 0, core.NewVec3(1, 1, 1), 1)
	rt.Store(0, 2, core.NewVec3(1, 1, 1), 1)

	for y := 0; y < 2; y++ {
		for x := 0; x < 2; x++ {
			if c := rt.Pixel(x, y); c != (core.Vec3{}) {
				t.Errorf("pixel (%d, %d) = %v after out-of-bounds stores", x, y, c)
			}
		}
	}
}

func TestPostProcessWritesFiles(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "render.png")
	preview := filepath.Join(dir, "preview.png")

	rt := NewRenderTarget(64, 32, out)
	rt.SetPreview(preview, 16)
	if err := rt.PreProcess(); err != nil {
		t.Fatalf("PreProcess: %v", err)
	}
	for y := 0; y < 32; y++ {
		for x := 0; x < 64; x++ {
			rt.Store(x, y, core.NewVec3(0.25, 0.5, 0.75), 1)
		}
	}
	if err := rt.PostProcess(); err != nil {
		t.Fatalf("PostProcess: %v", err)
	}

	if got := decodePNGSize(t, out); got != image.Pt(64, 32) {
		t.Errorf("output size = %v, want (64, 32)", got)
	}
	if got := decodePNGSize(t, preview); got != image.Pt(16, 8) {
		t.Errorf("preview size = %v, want (16, 8)", got)
	}
}

func TestPostProcessBeforePreProcess(t *testing.T) {
	if err := NewRenderTarget(4, 4, "").PostProcess(); err == nil {
		t.Error("expected error for PostProcess before PreProcess")
	}
}

func TestDownscaleSmallImageUnchanged(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 10, 6))
	if got := Downscale(img, 16); got != img {
		t.Error("image within maxEdge should be returned as is")
	}
}

func TestImageGammaCorrection(t *testing.T) {
	rt := NewRenderTarget(1, 1, "")
	if err := rt.PreProcess(); err != nil {
		t.Fatalf("PreProcess: %v", err)
	}
	rt.Store(0, 0, core.NewVec3(0.25, 0.25, 0.25), 1)

	img := rt.Image()
	r, _, _, _ := img.At(0, 0).RGBA()
	// Gamma 2.0 maps linear 0.25 to sqrt(0.25) = 0.5.
	if got := uint8(r >> 8); got != 127 {
		t.Errorf("gamma-corrected channel = %d, want 127", got)
	}
}

func decodePNGSize(t *testing.T, path string) image.Point {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open %s: %v", path, err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decode %s: %v", path, err)
	}
	return img.Bounds().Size()
}
