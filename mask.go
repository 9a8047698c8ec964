package livewire

import (
	"fmt"
	"image"
	"image/color"
)

// Mask is an 8-bit selection mask. Values range from 0 (unselected) to
// 255 (fully selected). Mask implements image.Image so it can be passed
// directly to draw and png.Encode.
type Mask struct {
	width  int
	height int
	data   []uint8
}

// NewMask creates an empty mask with the given dimensions.
func NewMask(width, height int) (*Mask, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, width, height)
	}
	return &Mask{
		width:  width,
		height: height,
		data:   make([]uint8, width*height),
	}, nil
}

// NewMaskFromAlpha wraps a copy of an *image.Alpha. The alpha image is
// translated so its bounds start at the origin.
func NewMaskFromAlpha(a *image.Alpha) *Mask {
	b := a.Bounds()
	m := &Mask{width: b.Dx(), height: b.Dy(), data: make([]uint8, b.Dx()*b.Dy())}
	for y := 0; y < m.height; y++ {
		row := a.Pix[y*a.Stride : y*a.Stride+m.width]
		copy(m.data[y*m.width:], row)
	}
	return m
}

// Bounds returns the mask dimensions as an image.Rectangle.
func (m *Mask) Bounds() image.Rectangle {
	return image.Rect(0, 0, m.width, m.height)
}

// ColorModel implements image.Image.
func (m *Mask) ColorModel() color.Model { return color.AlphaModel }

// At implements image.Image.
func (m *Mask) At(x, y int) color.Color {
	return color.Alpha{A: m.Value(x, y)}
}

// Width returns the mask width.
func (m *Mask) Width() int { return m.width }

// Height returns the mask height.
func (m *Mask) Height() int { return m.height }

// Value returns the mask value at (x, y), or 0 outside the mask.
func (m *Mask) Value(x, y int) uint8 {
	if x < 0 || x >= m.width || y < 0 || y >= m.height {
		return 0
	}
	return m.data[y*m.width+x]
}

// Set sets the mask value at (x, y). Coordinates outside the mask are ignored.
func (m *Mask) Set(x, y int, value uint8) {
	if x < 0 || x >= m.width || y < 0 || y >= m.height {
		return
	}
	m.data[y*m.width+x] = value
}

// Invert inverts all mask values (255 - value).
func (m *Mask) Invert() {
	for i := range m.data {
		m.data[i] = 255 - m.data[i]
	}
}

// Union sets every value to the maximum of m and o.
func (m *Mask) Union(o *Mask) error {
	if o.width != m.width || o.height != m.height {
		return ErrSizeMismatch
	}
	for i, v := range o.data {
		if v > m.data[i] {
			m.data[i] = v
		}
	}
	return nil
}

// Count returns the number of pixels whose value is at least threshold.
func (m *Mask) Count(threshold uint8) int {
	n := 0
	for _, v := range m.data {
		if v >= threshold {
			n++
		}
	}
	return n
}

// Clone creates a copy of the mask.
func (m *Mask) Clone() *Mask {
	c := &Mask{width: m.width, height: m.height, data: make([]uint8, len(m.data))}
	copy(c.data, m.data)
	return c
}

// Data returns the underlying row-major data slice.
func (m *Mask) Data() []uint8 {
	return m.data
}
