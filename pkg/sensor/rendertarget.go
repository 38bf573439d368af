// Package sensor provides the image sensor that accumulates radiance
// samples during rendering and resolves them to image files afterwards.
package sensor

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"

	"golang.org/x/image/draw"

	"github.com/lumen-render/go-tile-raytracer/pkg/core"
)

const channelsPerPixel = 4 // r, g, b, weight

// RenderTarget accumulates weighted color samples per pixel and writes the
// resolved image as PNG in PostProcess. Workers own disjoint tiles, so
// Store needs no locking: no two goroutines ever touch the same pixel.
type RenderTarget struct {
	width, height int
	outputPath    string

	previewPath    string
	previewMaxEdge int

	pixels []float64
}

// NewRenderTarget creates a sensor for a width x height image. outputPath
// is where PostProcess writes the resolved PNG; empty means resolve only.
func NewRenderTarget(width, height int, outputPath string) *RenderTarget {
	return &RenderTarget{
		width:      width,
		height:     height,
		outputPath: outputPath,
	}
}

// SetPreview enables writing a downscaled copy alongside the full image.
// The preview's longer edge is scaled down to maxEdge pixels.
func (rt *RenderTarget) SetPreview(path string, maxEdge int) {
	rt.previewPath = path
	rt.previewMaxEdge = maxEdge
}

func (rt *RenderTarget) Width() int  { return rt.width }
func (rt *RenderTarget) Height() int { return rt.height }

// PreProcess validates the dimensions and allocates the accumulation buffer
func (rt *RenderTarget) PreProcess() error {
	if rt.width <= 0 || rt.height <= 0 {
		return fmt.Errorf("sensor: invalid dimensions %dx%d", rt.width, rt.height)
	}
	if rt.previewPath != "" && rt.previewMaxEdge <= 0 {
		return fmt.Errorf("sensor: preview edge must be positive, got %d", rt.previewMaxEdge)
	}
	rt.pixels = make([]float64, rt.width*rt.height*channelsPerPixel)
	return nil
}

// Store adds a weighted color sample to pixel (x, y). Samples outside the
// image are dropped.
func (rt *RenderTarget) Store(x, y int, c core.Vec3, weight float64) {
	if x < 0 || x >= rt.width || y < 0 || y >= rt.height {
		return
	}
	i := (y*rt.width + x) * channelsPerPixel
	rt.pixels[i] += c.X
	rt.pixels[i+1] += c.Y
	rt.pixels[i+2] += c.Z
	rt.pixels[i+3] += weight
}

// Pixel returns the resolved (weight-divided) color at (x, y)
func (rt *RenderTarget) Pixel(x, y int) core.Vec3 {
	i := (y*rt.width + x) * channelsPerPixel
	w := rt.pixels[i+3]
	if w == 0 {
		return core.Vec3{}
	}
	return core.NewVec3(rt.pixels[i]/w, rt.pixels[i+1]/w, rt.pixels[i+2]/w)
}

// Image resolves the accumulation buffer into an 8-bit RGBA image
func (rt *RenderTarget) Image() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, rt.width, rt.height))
	for y := 0; y < rt.height; y++ {
		for x := 0; x < rt.width; x++ {
			img.Set(x, y, vec3ToColor(rt.Pixel(x, y)))
		}
	}
	return img
}

// PostProcess resolves the image and writes the configured output files
func (rt *RenderTarget) PostProcess() error {
	if rt.pixels == nil {
		return fmt.Errorf("sensor: PostProcess before PreProcess")
	}
	img := rt.Image()

	if rt.outputPath != "" {
		if err := writePNG(rt.outputPath, img); err != nil {
			return fmt.Errorf("sensor: write output: %w", err)
		}
	}
	if rt.previewPath != "" {
		if err := writePNG(rt.previewPath, Downscale(img, rt.previewMaxEdge)); err != nil {
			return fmt.Errorf("sensor: write preview: %w", err)
		}
	}
	return nil
}

// Downscale returns img scaled so its longer edge is at most maxEdge.
// Images already small enough are returned unchanged.
func Downscale(img *image.RGBA, maxEdge int) *image.RGBA {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	longer := w
	if h > longer {
		longer = h
	}
	if longer <= maxEdge {
		return img
	}

	scale := float64(maxEdge) / float64(longer)
	dw := int(float64(w) * scale)
	dh := int(float64(h) * scale)
	if dw < 1 {
		dw = 1
	}
	if dh < 1 {
		dh = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, dw, dh))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// vec3ToColor converts linear color to display color with gamma 2.0
func vec3ToColor(v core.Vec3) color.RGBA {
	corrected := v.Clamp(0, 1).GammaCorrect(2.0)
	return color.RGBA{
		R: uint8(corrected.X * 255),
		G: uint8(corrected.Y * 255),
		B: uint8(corrected.Z * 255),
		A: 255,
	}
}
