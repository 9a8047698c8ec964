package tile

// ValidateFunc fills a freshly allocated tile. It is called exactly once
// per tile, on first access.
type ValidateFunc[T any] func(t *Tile[T])

// Grid is a sparse, lazily validated tile grid.
type Grid[T any] struct {
	tiles     []*Tile[T]
	tilesX    int
	tilesY    int
	width     int
	height    int
	validate  ValidateFunc[T]
	validated int
}

// NewGrid creates a grid covering width x height pixels. No tiles are
// allocated until they are accessed. A non-positive size yields an empty
// grid on which every lookup returns nil.
func NewGrid[T any](width, height int, validate ValidateFunc[T]) *Grid[T] {
	if width <= 0 || height <= 0 {
		return &Grid[T]{validate: validate}
	}

	tilesX := (width + Width - 1) / Width
	tilesY := (height + Height - 1) / Height

	return &Grid[T]{
		tiles:    make([]*Tile[T], tilesX*tilesY),
		tilesX:   tilesX,
		tilesY:   tilesY,
		width:    width,
		height:   height,
		validate: validate,
	}
}

// TileAt returns the tile at tile coordinates (tx, ty), validating it on
// first access. Returns nil if the coordinates are out of bounds.
func (g *Grid[T]) TileAt(tx, ty int) *Tile[T] {
	if tx < 0 || tx >= g.tilesX || ty < 0 || ty >= g.tilesY {
		return nil
	}
	idx := ty*g.tilesX + tx
	if t := g.tiles[idx]; t != nil {
		return t
	}

	w, h := Width, Height
	// Right and bottom edge tiles
	if (tx+1)*Width > g.width {
		w = g.width - tx*Width
	}
	if (ty+1)*Height > g.height {
		h = g.height - ty*Height
	}

	t := &Tile[T]{X: tx, Y: ty, W: w, H: h}
	if g.validate != nil {
		g.validate(t)
	}
	g.tiles[idx] = t
	g.validated++
	return t
}

// TileAtPixel returns the tile containing pixel (px, py), validating it on
// first access. Returns nil if the pixel is outside the grid.
func (g *Grid[T]) TileAtPixel(px, py int) *Tile[T] {
	if px < 0 || px >= g.width || py < 0 || py >= g.height {
		return nil
	}
	return g.TileAt(px/Width, py/Height)
}

// Validated returns the number of tiles validated so far.
func (g *Grid[T]) Validated() int { return g.validated }

// TileCount returns the total number of tiles the grid can hold.
func (g *Grid[T]) TileCount() int { return len(g.tiles) }

// Width returns the grid width in pixels.
func (g *Grid[T]) Width() int { return g.width }

// Height returns the grid height in pixels.
func (g *Grid[T]) Height() int { return g.height }
