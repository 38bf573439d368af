// Package progress implements cross-process render progress reporting. The
// render process owns a file-backed shared memory region; an external host
// maps it read-only to observe completion percentage and partially rendered
// pixels. The region layout is a fixed schema with named, bounds-checked
// accessors so writer and reader cannot drift apart.
package progress

import "fmt"

const (
	// channels per pixel: R, G, B plus accumulated weight
	pixelChannels = 4
	// two banks per pixel: live accumulation and resolved color
	pixelBanks  = 2
	float32Size = 4

	// bytes per pixel in the region: RGBW float32 x 2 banks
	pixelStride = pixelChannels * float32Size * pixelBanks

	// trailing control bytes: progress (0-100) then final-update flag
	trailerSize = 2
)

// Banks of the per-pixel float block.
const (
	// BankAccum holds raw accumulated RGB sums plus total sample weight,
	// updated as tiles complete.
	BankAccum = 0
	// BankResolved holds weight-divided displayable color with weight 1.
	BankResolved = 1
)

// Layout describes the shared region geometry for one render pass.
// The region is, in order: one completion flag byte per tile, then the
// per-pixel float block (every tile padded to TileEdge x TileEdge), then the
// progress byte and the final-update flag byte.
type Layout struct {
	Width    int // image width in pixels
	Height   int // image height in pixels
	TileEdge int // tile edge length in pixels

	TilesX int
	TilesY int
}

// NewLayout computes the region geometry for the given image and tile size.
func NewLayout(width, height, tileEdge int) Layout {
	return Layout{
		Width:    width,
		Height:   height,
		TileEdge: tileEdge,
		TilesX:   (width + tileEdge - 1) / tileEdge,
		TilesY:   (height + tileEdge - 1) / tileEdge,
	}
}

// Validate reports whether the layout describes a usable region.
func (l Layout) Validate() error {
	if l.Width <= 0 || l.Height <= 0 {
		return fmt.Errorf("progress: invalid image size %dx%d", l.Width, l.Height)
	}
	if l.TileEdge <= 0 {
		return fmt.Errorf("progress: invalid tile edge %d", l.TileEdge)
	}
	return nil
}

// Tiles returns the total tile count.
func (l Layout) Tiles() int {
	return l.TilesX * l.TilesY
}

// Size returns the total region size in bytes.
func (l Layout) Size() int {
	return l.Tiles() + l.Tiles()*l.TileEdge*l.TileEdge*pixelStride + trailerSize
}

// TileFlagOffset returns the offset of the completion flag for a tile,
// indexed in row-major grid order.
func (l Layout) TileFlagOffset(tileIndex int) (int, error) {
	if tileIndex < 0 || tileIndex >= l.Tiles() {
		return 0, fmt.Errorf("progress: tile index %d out of range [0,%d)", tileIndex, l.Tiles())
	}
	return tileIndex, nil
}

// PixelOffset returns the offset of one bank of one pixel's float record.
// lx and ly are tile-local pixel coordinates.
func (l Layout) PixelOffset(tileIndex, lx, ly, bank int) (int, error) {
	if tileIndex < 0 || tileIndex >= l.Tiles() {
		return 0, fmt.Errorf("progress: tile index %d out of range [0,%d)", tileIndex, l.Tiles())
	}
	if lx < 0 || lx >= l.TileEdge || ly < 0 || ly >= l.TileEdge {
		return 0, fmt.Errorf("progress: pixel (%d,%d) outside %dx%d tile", lx, ly, l.TileEdge, l.TileEdge)
	}
	if bank < 0 || bank >= pixelBanks {
		return 0, fmt.Errorf("progress: bank %d out of range [0,%d)", bank, pixelBanks)
	}
	base := l.Tiles()
	pixel := tileIndex*l.TileEdge*l.TileEdge + ly*l.TileEdge + lx
	return base + pixel*pixelStride + bank*pixelChannels*float32Size, nil
}

// ProgressOffset returns the offset of the progress byte (second to last).
func (l Layout) ProgressOffset() int {
	return l.Size() - 2
}

// FinalOffset returns the offset of the final-update flag byte (last).
func (l Layout) FinalOffset() int {
	return l.Size() - 1
}

// TileIndex returns the row-major grid index of the tile whose pixel origin
// is (x0, y0).
func (l Layout) TileIndex(x0, y0 int) int {
	return (y0/l.TileEdge)*l.TilesX + x0/l.TileEdge
}
