package progress

import "testing"

func TestLayoutGeometry(t *testing.T) {
	tests := []struct {
		name           string
		width, height  int
		tileEdge       int
		tilesX, tilesY int
	}{
		{"square", 64, 64, 32, 2, 2},
		{"clipped", 100, 50, 32, 4, 2},
		{"hd", 1920, 1080, 32, 60, 34},
		{"single", 16, 16, 32, 1, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := NewLayout(tt.width, tt.height, tt.tileEdge)
			if l.TilesX != tt.tilesX || l.TilesY != tt.tilesY {
				t.Errorf("expected %dx%d tiles, got %dx%d", tt.tilesX, tt.tilesY, l.TilesX, l.TilesY)
			}
		})
	}
}

// Region size and trailing byte offsets must match the host contract
// exactly: header of one byte per tile, then per-pixel RGBW float32 x 2
// banks for every tile padded to the tile edge, then progress and final
// bytes.
func TestLayoutSizeExact(t *testing.T) {
	l := NewLayout(1920, 1080, 32)

	header := 60 * 34
	if header != 2040 {
		t.Fatalf("expected 2040 header bytes, got %d", header)
	}
	pixels := header * 32 * 32 * 4 * 4 * 2
	expected := header + pixels + 2

	if got := l.Size(); got != expected {
		t.Errorf("expected region size %d, got %d", expected, got)
	}
	if got := l.ProgressOffset(); got != expected-2 {
		t.Errorf("expected progress byte at %d, got %d", expected-2, got)
	}
	if got := l.FinalOffset(); got != expected-1 {
		t.Errorf("expected final byte at %d, got %d", expected-1, got)
	}
}

func TestLayoutOffsets(t *testing.T) {
	l := NewLayout(64, 64, 32) // 4 tiles

	off, err := l.TileFlagOffset(3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if off != 3 {
		t.Errorf("expected flag offset 3, got %d", off)
	}

	// First pixel of first tile starts right after the header
	off, err = l.PixelOffset(0, 0, 0, BankAccum)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if off != 4 {
		t.Errorf("expected first pixel at 4, got %d", off)
	}

	// Resolved bank sits 16 bytes after the accumulation bank
	resolved, err := l.PixelOffset(0, 0, 0, BankResolved)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resolved != off+16 {
		t.Errorf("expected resolved bank at %d, got %d", off+16, resolved)
	}
}

func TestLayoutBoundsChecks(t *testing.T) {
	l := NewLayout(64, 64, 32)

	if _, err := l.TileFlagOffset(4); err == nil {
		t.Error("expected error for out-of-range tile index")
	}
	if _, err := l.TileFlagOffset(-1); err == nil {
		t.Error("expected error for negative tile index")
	}
	if _, err := l.PixelOffset(0, 32, 0, BankAccum); err == nil {
		t.Error("expected error for out-of-tile pixel")
	}
	if _, err := l.PixelOffset(0, 0, 0, 2); err == nil {
		t.Error("expected error for invalid bank")
	}
}

func TestLayoutTileIndex(t *testing.T) {
	l := NewLayout(100, 50, 32) // 4x2 grid

	tests := []struct {
		x0, y0   int
		expected int
	}{
		{0, 0, 0},
		{96, 0, 3},
		{0, 32, 4},
		{64, 32, 6},
	}
	for _, tt := range tests {
		if got := l.TileIndex(tt.x0, tt.y0); got != tt.expected {
			t.Errorf("TileIndex(%d,%d) = %d, expected %d", tt.x0, tt.y0, got, tt.expected)
		}
	}
}
