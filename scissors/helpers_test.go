package scissors

import (
	"image"
	"image/color"
	"testing"
)

// solidImage returns a w x h gray image filled with v.
func solidImage(w, h int, v uint8) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = v
	}
	return img
}

// edgeImage returns a w x h image that is black left of column edge and
// white from it on.
func edgeImage(w, h, edge int) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, w, h))
	for y := range h {
		for x := edge; x < w; x++ {
			img.SetGray(x, y, color.Gray{Y: 255})
		}
	}
	return img
}

func mustGradientMap(t testing.TB, img image.Image) *GradientMap {
	t.Helper()
	g, err := NewGradientMap(img)
	if err != nil {
		t.Fatalf("NewGradientMap() error = %v", err)
	}
	return g
}

// checkContiguous fails if consecutive points are not 8-connected.
func checkContiguous(t *testing.T, pts []image.Point) {
	t.Helper()
	for i := 1; i < len(pts); i++ {
		d := pts[i].Sub(pts[i-1])
		if abs(d.X) > 1 || abs(d.Y) > 1 || d == (image.Point{}) {
			t.Fatalf("points[%d]=%v -> points[%d]=%v is not a single step", i-1, pts[i-1], i, pts[i])
		}
	}
}
