package renderer

import "image"

// Tile represents a rectangular region of the image to be rendered
type Tile struct {
	ID     int             // Emission order, also the render task id
	Bounds image.Rectangle // Pixel bounds (x0,y0,x1,y1), clipped at image edges
}

// GridSize returns the tile grid dimensions for an image
func GridSize(width, height, tileEdge int) (tilesX, tilesY int) {
	return (width + tileEdge - 1) / tileEdge, (height + tileEdge - 1) / tileEdge
}

// SpiralTiles enumerates the full edge-clipped tile partition of a
// width x height image, starting at the grid cell nearest the center and
// walking an outward square spiral (up, left, down, right with run lengths
// 1,1,2,2,3,3,...). Center-out order gives a host watching the progress
// region a preview that converges from the middle of the frame outward.
//
// Every grid cell is emitted exactly once; cells the spiral visits outside
// the grid are skipped without terminating the walk. The walk stops once the
// position is out of range on both axes and cannot re-enter the grid.
func SpiralTiles(width, height, tileEdge int) []Tile {
	tilesX, tilesY := GridSize(width, height, tileEdge)
	tiles := make([]Tile, 0, tilesX*tilesY)

	// Direction cycle: up, left, down, right
	dirs := [4][2]int{{0, -1}, {-1, 0}, {0, 1}, {1, 0}}

	x, y := tilesX/2, tilesY/2
	dir := 0
	runLen := 0
	runTarget := 1

	for {
		if x >= 0 && x < tilesX && y >= 0 && y < tilesY {
			x0 := x * tileEdge
			y0 := y * tileEdge
			w := min(tileEdge, width-x0)
			h := min(tileEdge, height-y0)
			tiles = append(tiles, Tile{
				ID:     len(tiles),
				Bounds: image.Rect(x0, y0, x0+w, y0+h),
			})
		}

		if runLen >= runTarget {
			dir = (dir + 1) % 4
			runLen = 0
			// Run length grows by one every two direction changes
			runTarget += 1 - dir%2
		}

		x += dirs[dir][0]
		y += dirs[dir][1]
		runLen++

		if (x < 0 || x >= tilesX) && (y < 0 || y >= tilesY) {
			return tiles
		}
	}
}
