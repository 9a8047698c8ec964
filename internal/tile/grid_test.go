package tile

import (
	"image"
	"testing"
)

// =============================================================================
// Grid Creation Tests
// =============================================================================

func TestGrid_CreateInvalid(t *testing.T) {
	tests := []struct {
		name          string
		width, height int
	}{
		{"zero width", 0, 100},
		{"zero height", 100, 0},
		{"negative width", -10, 100},
		{"both zero", 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewGrid[int](tt.width, tt.height, nil)
			if g.TileCount() != 0 {
				t.Errorf("TileCount() = %d, want 0 for invalid dimensions", g.TileCount())
			}
			if g.TileAtPixel(0, 0) != nil {
				t.Error("TileAtPixel(0, 0) != nil on empty grid")
			}
		})
	}
}

func TestGrid_Counts(t *testing.T) {
	g := NewGrid[int](130, 64, nil)
	if g.TileAt(2, 0) == nil || g.TileAt(3, 0) != nil || g.TileAt(0, 1) != nil {
		t.Error("grid of 130x64 is not 3x1 tiles")
	}
	if g.TileCount() != 3 {
		t.Errorf("TileCount() = %d, want 3", g.TileCount())
	}
	if g.Validated() != 1 {
		t.Errorf("Validated() = %d, want 1", g.Validated())
	}
}

// =============================================================================
// Lazy Validation Tests
// =============================================================================

func TestGrid_EdgeTiles(t *testing.T) {
	// 100x100 splits into 64 and 36 pixel tiles.
	g := NewGrid[int](100, 100, nil)

	tests := []struct {
		tx, ty int
		wantW  int
		wantH  int
	}{
		{0, 0, 64, 64},
		{1, 0, 36, 64},
		{0, 1, 64, 36},
		{1, 1, 36, 36},
	}

	for _, tt := range tests {
		tl := g.TileAt(tt.tx, tt.ty)
		if tl == nil {
			t.Errorf("TileAt(%d,%d) = nil", tt.tx, tt.ty)
			continue
		}
		if tl.W != tt.wantW || tl.H != tt.wantH {
			t.Errorf("Tile(%d,%d) dimensions = %dx%d, want %dx%d",
				tt.tx, tt.ty, tl.W, tl.H, tt.wantW, tt.wantH)
		}
	}
}

func TestGrid_ValidateOnce(t *testing.T) {
	calls := 0
	g := NewGrid(200, 200, func(tl *Tile[[]int]) {
		calls++
		tl.Data = make([]int, tl.W*tl.H)
	})

	a := g.TileAtPixel(10, 10)
	b := g.TileAtPixel(63, 63)
	if a != b {
		t.Error("pixels in the same tile returned different tiles")
	}
	if calls != 1 {
		t.Errorf("validate calls = %d, want 1", calls)
	}

	g.TileAtPixel(64, 10)
	if calls != 2 || g.Validated() != 2 {
		t.Errorf("calls = %d, Validated() = %d, want 2, 2", calls, g.Validated())
	}
	if len(a.Data) != 64*64 {
		t.Errorf("len(Data) = %d, want %d", len(a.Data), 64*64)
	}
}

func TestGrid_TileAtPixelOutOfBounds(t *testing.T) {
	g := NewGrid[int](100, 50, nil)
	for _, p := range []image.Point{{-1, 0}, {0, -1}, {100, 0}, {0, 50}} {
		if g.TileAtPixel(p.X, p.Y) != nil {
			t.Errorf("TileAtPixel(%d, %d) != nil", p.X, p.Y)
		}
	}
}

// =============================================================================
// Tile Tests
// =============================================================================

func TestTile_Bounds(t *testing.T) {
	tl := &Tile[int]{X: 2, Y: 1, W: 36, H: 64}
	want := image.Rect(128, 64, 164, 128)
	if got := tl.Bounds(); got != want {
		t.Errorf("Bounds() = %v, want %v", got, want)
	}
}

func TestTile_Contains(t *testing.T) {
	tl := &Tile[int]{X: 1, Y: 0, W: 10, H: 64}
	tests := []struct {
		px, py int
		want   bool
	}{
		{64, 0, true},
		{73, 63, true},
		{74, 0, false},
		{63, 0, false},
		{64, 64, false},
	}
	for _, tt := range tests {
		if got := tl.Contains(tt.px, tt.py); got != tt.want {
			t.Errorf("Contains(%d, %d) = %v, want %v", tt.px, tt.py, got, tt.want)
		}
	}
}
