package progress

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"os"

	"github.com/lumen-render/go-tile-raytracer/pkg/core"
)

// ErrRegionUnavailable is returned when the shared region cannot be created
// or mapped on this platform. Callers degrade to console-only progress.
var ErrRegionUnavailable = errors.New("progress: shared region unavailable")

// Region is a memory-mapped byte region shared with an external host
// process. The render process is the sole writer; hosts open it read-only
// and may observe partially written but never torn-layout data.
type Region struct {
	layout   Layout
	data     []byte
	file     *os.File
	readonly bool
}

// Create creates (or truncates) the region file at path, maps it for
// writing, and zeroes it. The file is sized exactly to the layout.
func Create(path string, layout Layout) (*Region, error) {
	if err := layout.Validate(); err != nil {
		return nil, err
	}

	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, fmt.Errorf("progress: create region file: %w", err)
	}
	size := layout.Size()
	if err := f.Truncate(int64(size)); err != nil {
		f.Close()
		return nil, fmt.Errorf("progress: size region file: %w", err)
	}

	data, err := mapFile(f, size, true)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("progress: map region: %w", err)
	}

	// The writer zeroes the region at creation; hosts rely on it.
	clear(data)

	return &Region{layout: layout, data: data, file: f}, nil
}

// OpenReader maps an existing region file read-only for a host process.
// The file size must match the layout exactly.
func OpenReader(path string, layout Layout) (*Region, error) {
	if err := layout.Validate(); err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("progress: open region file: %w", err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("progress: stat region file: %w", err)
	}
	if info.Size() != int64(layout.Size()) {
		f.Close()
		return nil, fmt.Errorf("progress: region file is %d bytes, layout needs %d",
			info.Size(), layout.Size())
	}

	data, err := mapFile(f, layout.Size(), false)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("progress: map region: %w", err)
	}

	return &Region{layout: layout, data: data, file: f, readonly: true}, nil
}

// Layout returns the region geometry.
func (r *Region) Layout() Layout {
	return r.layout
}

// SetTileDone marks one tile's completion flag.
func (r *Region) SetTileDone(tileIndex int) error {
	off, err := r.layout.TileFlagOffset(tileIndex)
	if err != nil {
		return err
	}
	r.data[off] = 1
	return nil
}

// TileDone reports whether a tile's completion flag is set.
func (r *Region) TileDone(tileIndex int) (bool, error) {
	off, err := r.layout.TileFlagOffset(tileIndex)
	if err != nil {
		return false, err
	}
	return r.data[off] != 0, nil
}

// TilesDone counts the set completion flags.
func (r *Region) TilesDone() int {
	done := 0
	for i := 0; i < r.layout.Tiles(); i++ {
		if r.data[i] != 0 {
			done++
		}
	}
	return done
}

// WritePixel stores one RGBW record in the given bank of a tile-local pixel.
func (r *Region) WritePixel(tileIndex, lx, ly, bank int, rgbw [4]float32) error {
	off, err := r.layout.PixelOffset(tileIndex, lx, ly, bank)
	if err != nil {
		return err
	}
	for i, v := range rgbw {
		binary.LittleEndian.PutUint32(r.data[off+i*float32Size:], math.Float32bits(v))
	}
	return nil
}

// ReadPixel loads one RGBW record from the given bank of a tile-local pixel.
func (r *Region) ReadPixel(tileIndex, lx, ly, bank int) ([4]float32, error) {
	var rgbw [4]float32
	off, err := r.layout.PixelOffset(tileIndex, lx, ly, bank)
	if err != nil {
		return rgbw, err
	}
	for i := range rgbw {
		rgbw[i] = math.Float32frombits(binary.LittleEndian.Uint32(r.data[off+i*float32Size:]))
	}
	return rgbw, nil
}

// WriteTilePixels mirrors one completed tile into the pixel block. colors
// holds accumulated (unresolved) radiance sums in tile-local row-major order
// for a tileW x tileH tile, weight is the per-pixel sample weight. The
// accumulation bank receives the raw sums, the resolved bank the displayable
// average.
func (r *Region) WriteTilePixels(tileIndex, tileW, tileH int, colors []core.Vec3, weight float64) error {
	if len(colors) != tileW*tileH {
		return fmt.Errorf("progress: %d colors for %dx%d tile", len(colors), tileW, tileH)
	}
	for ly := 0; ly < tileH; ly++ {
		for lx := 0; lx < tileW; lx++ {
			c := colors[ly*tileW+lx]
			err := r.WritePixel(tileIndex, lx, ly, BankAccum, [4]float32{
				float32(c.X), float32(c.Y), float32(c.Z), float32(weight),
			})
			if err != nil {
				return err
			}
			resolved := c
			if weight > 0 {
				resolved = c.Multiply(1 / weight)
			}
			err = r.WritePixel(tileIndex, lx, ly, BankResolved, [4]float32{
				float32(resolved.X), float32(resolved.Y), float32(resolved.Z), 1,
			})
			if err != nil {
				return err
			}
		}
	}
	return nil
}

// SetProgress writes the 0-100 progress byte.
func (r *Region) SetProgress(pct uint8) {
	if pct > 100 {
		pct = 100
	}
	r.data[r.layout.ProgressOffset()] = pct
}

// Progress reads the 0-100 progress byte.
func (r *Region) Progress() uint8 {
	return r.data[r.layout.ProgressOffset()]
}

// SetFinal sets the final-update flag.
func (r *Region) SetFinal() {
	r.data[r.layout.FinalOffset()] = 1
}

// Final reports whether the final-update flag is set.
func (r *Region) Final() bool {
	return r.data[r.layout.FinalOffset()] != 0
}

// Close unmaps the region and closes the backing file. The file itself is
// left in place so a host can still read the final state.
func (r *Region) Close() error {
	var firstErr error
	if r.data != nil {
		firstErr = unmapFile(r.data)
		r.data = nil
	}
	if r.file != nil {
		if err := r.file.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		r.file = nil
	}
	return firstErr
}
