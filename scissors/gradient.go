package scissors

import (
	"fmt"
	"image"
	"math"

	"golang.org/x/image/draw"

	"github.com/gogpu/livewire"
	"github.com/gogpu/livewire/internal/filter"
	"github.com/gogpu/livewire/internal/tile"
)

// Gradient map constants.
const (
	// MaxGradient is the largest derivative magnitude, sqrt(127² + 127²).
	// It maps to magnitude 255.
	MaxGradient = 179.606

	// MinGradient is the magnitude below which a pixel has no direction.
	MinGradient = 63

	// NoDirection is the direction code of border and weak-gradient pixels.
	NoDirection = 255

	// gradientSearch is the side of the snapping window.
	gradientSearch = 32
)

// distanceWeights favour pixels near the centre of the snapping window.
var distanceWeights [gradientSearch * gradientSearch]float64

func init() {
	radius := gradientSearch >> 1
	for i := range gradientSearch {
		for j := range gradientSearch {
			di, dj := float64(i-radius), float64(j-radius)
			distanceWeights[i*gradientSearch+j] = 1 / (1 + math.Sqrt(di*di+dj*dj))
		}
	}
}

// GradientMap holds the edge magnitude and direction of every pixel of an
// image, computed one 64x64 tile at a time on first access.
//
// Each tile stores two bytes per pixel: magnitude (0-255) then direction
// (0-254 spanning -π/2..π/2, or NoDirection).
type GradientMap struct {
	src    image.Image
	origin image.Point
	width  int
	height int

	grid *tile.Grid[[]uint8]
	cur  *tile.Tile[[]uint8] // most recently used tile

	// scratch buffers reused across tile validations
	rgba *image.NRGBA
	blur *filter.Region
	horz *filter.Region
	vert *filter.Region
}

// NewGradientMap creates an empty gradient map for img. The image must not
// change while the map is in use.
func NewGradientMap(img image.Image) (*GradientMap, error) {
	b := img.Bounds()
	if b.Empty() {
		return nil, fmt.Errorf("%w: %v", ErrEmptyImage, b)
	}
	g := &GradientMap{
		src:    img,
		origin: b.Min,
		width:  b.Dx(),
		height: b.Dy(),
		rgba:   image.NewNRGBA(image.Rect(0, 0, tile.Width, tile.Height)),
		blur:   filter.NewRegion(tile.Width, tile.Height, 4),
		horz:   filter.NewRegion(tile.Width, tile.Height, 4),
		vert:   filter.NewRegion(tile.Width, tile.Height, 4),
	}
	g.grid = tile.NewGrid(g.width, g.height, g.validate)
	livewire.Logger().Debug("scissors: gradient map created",
		"width", g.width, "height", g.height, "tiles", g.grid.TileCount())
	return g, nil
}

// Width returns the image width.
func (g *GradientMap) Width() int { return g.width }

// Height returns the image height.
func (g *GradientMap) Height() int { return g.height }

// Bounds returns the map area with its origin at (0, 0).
func (g *GradientMap) Bounds() image.Rectangle {
	return image.Rect(0, 0, g.width, g.height)
}

// TilesValidated returns how many tiles have been computed so far.
func (g *GradientMap) TilesValidated() int { return g.grid.Validated() }

// Get returns the gradient magnitude and direction code at (x, y).
// ok is false if the point lies outside the image.
func (g *GradientMap) Get(x, y int) (mag, dir uint8, ok bool) {
	if x < 0 || x >= g.width || y < 0 || y >= g.height {
		return 0, NoDirection, false
	}
	t := g.cur
	if t == nil || !t.Contains(x, y) {
		t = g.grid.TileAtPixel(x, y)
		g.cur = t
	}
	lx, ly := t.Local(x, y)
	i := (ly*t.W + lx) * 2
	return t.Data[i], t.Data[i+1], true
}

// MaxGradient snaps (x, y) to the pixel with the strongest
// distance-weighted gradient in the surrounding 32x32 window. The result is
// clamped to the image.
func (g *GradientMap) MaxGradient(x, y int) (int, int) {
	radius := gradientSearch >> 1

	cx := clamp(x, 0, g.width-1)
	cy := clamp(y, 0, g.height-1)
	x1 := clamp(cx-radius, 0, g.width)
	y1 := clamp(cy-radius, 0, g.height)
	x2 := clamp(cx+radius, 0, g.width)
	y2 := clamp(cy+radius, 0, g.height)

	best := 0.0
	bx, by := cx, cy
	for i := y1; i < y2; i++ {
		for j := x1; j < x2; j++ {
			mag, _, _ := g.Get(j, i)
			w := float64(mag) * distanceWeights[(i-y1)*gradientSearch+(j-x1)]
			if w > best {
				best = w
				bx, by = j, i
			}
		}
	}
	return bx, by
}

// validate computes one tile: blur, derivatives, then per-pixel magnitude
// and direction from the strongest channel.
func (g *GradientMap) validate(t *tile.Tile[[]uint8]) {
	w, h := t.W, t.H
	b := t.Bounds()

	dst := image.Rect(0, 0, w, h)
	draw.Draw(g.rgba, dst, g.src, b.Min.Add(g.origin), draw.Src)
	src := &filter.Region{Pix: g.rgba.Pix, Width: w, Height: h, Bytes: 4, Stride: g.rgba.Stride}

	g.blur.Reshape(w, h, 4)
	g.horz.Reshape(w, h, 4)
	g.vert.Reshape(w, h, 4)
	filter.Convolve(g.blur, src, filter.Blur32, filter.Normal)
	filter.Convolve(g.horz, g.blur, filter.HorzDeriv, filter.Negative)
	filter.Convolve(g.vert, g.blur, filter.VertDeriv, filter.Negative)

	t.Data = make([]uint8, w*h*2)
	for i := range h {
		hrow := g.horz.Pix[i*g.horz.Stride:]
		vrow := g.vert.Pix[i*g.vert.Stride:]
		out := t.Data[i*w*2:]
		for j := range w {
			o := out[j*2:]
			if i == 0 || j == 0 || i == h-1 || j == w-1 {
				o[0], o[1] = 0, NoDirection
				continue
			}

			hp, vp := hrow[j*4:j*4+4], vrow[j*4:j*4+4]
			hmax, vmax := int(hp[0])-128, int(vp[0])-128
			for c := 1; c < 4; c++ {
				if d := int(hp[c]) - 128; abs(d) > abs(hmax) {
					hmax = d
				}
				if d := int(vp[c]) - 128; abs(d) > abs(vmax) {
					vmax = d
				}
			}

			gradient := math.Sqrt(float64(hmax*hmax + vmax*vmax))
			o[0] = uint8(min(gradient*255/MaxGradient, 255))

			if gradient > MinGradient {
				var direction float64
				if hmax == 0 {
					direction = -math.Pi / 2
					if vmax > 0 {
						direction = math.Pi / 2
					}
				} else {
					direction = math.Atan(float64(vmax) / float64(hmax))
				}
				o[1] = uint8(254 * (direction + math.Pi/2) / math.Pi)
			} else {
				o[1] = NoDirection
			}
		}
	}

	livewire.Logger().Debug("scissors: gradient tile validated",
		"tx", t.X, "ty", t.Y, "w", w, "h", h)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
