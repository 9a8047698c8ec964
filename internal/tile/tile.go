// Package tile provides a sparse grid of lazily validated tiles.
//
// A Grid covers a width x height pixel area with 64x64 tiles. No tile
// memory exists until a pixel inside the tile is first requested, at which
// point the grid allocates the tile and runs the validator once. Validated
// tiles are never revalidated; drop the whole grid to discard them.
//
// Thread safety: Grid is NOT thread-safe.
package tile

import "image"

// Tile size constants.
const (
	// Width is the width of a full tile in pixels.
	Width = 64

	// Height is the height of a full tile in pixels.
	Height = 64
)

// Tile is one validated cell of a Grid. Edge tiles may be smaller than
// Width x Height when the grid size is not a multiple of the tile size.
type Tile[T any] struct {
	// X and Y are the tile column and row.
	X, Y int

	// W and H are the actual dimensions in pixels.
	W, H int

	// Data is the payload filled in by the validator.
	Data T
}

// Bounds returns the pixel rectangle covered by the tile.
func (t *Tile[T]) Bounds() image.Rectangle {
	x, y := t.X*Width, t.Y*Height
	return image.Rect(x, y, x+t.W, y+t.H)
}

// Local converts grid pixel coordinates to tile-local coordinates.
func (t *Tile[T]) Local(px, py int) (int, int) {
	return px - t.X*Width, py - t.Y*Height
}

// Contains reports whether the grid pixel (px, py) lies inside the tile.
func (t *Tile[T]) Contains(px, py int) bool {
	lx, ly := t.Local(px, py)
	return lx >= 0 && lx < t.W && ly >= 0 && ly < t.H
}
