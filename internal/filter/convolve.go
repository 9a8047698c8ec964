package filter

// Mode selects how convolution results are mapped back into bytes.
type Mode uint8

const (
	// Normal stores round(sum/divisor) clamped to [0, 255].
	Normal Mode = iota

	// Negative stores round(sum/divisor + 128) clamped to [0, 255].
	Negative
)

// Region is an interleaved 8-bit pixel buffer.
type Region struct {
	Pix    []uint8
	Width  int
	Height int
	Bytes  int // channels per pixel
	Stride int // bytes per row
}

// NewRegion allocates a zeroed region.
func NewRegion(width, height, bytes int) *Region {
	return &Region{
		Pix:    make([]uint8, width*height*bytes),
		Width:  width,
		Height: height,
		Bytes:  bytes,
		Stride: width * bytes,
	}
}

// Reshape resizes the region in place, reusing its buffer when it is
// large enough. Contents are undefined afterwards.
func (r *Region) Reshape(width, height, bytes int) {
	n := width * height * bytes
	if cap(r.Pix) < n {
		r.Pix = make([]uint8, n)
	}
	r.Pix = r.Pix[:n]
	r.Width, r.Height, r.Bytes, r.Stride = width, height, bytes, width*bytes
}

// Offset returns the byte offset of pixel (x, y).
func (r *Region) Offset(x, y int) int {
	return y*r.Stride + x*r.Bytes
}

// Convolve applies k to src and writes the result into dst, which must be
// at least as large as src and have the same channel count.
// Edge samples are clamped to the region bounds.
func Convolve(dst, src *Region, k Kernel, mode Mode) {
	offset := 0.0
	if mode == Negative {
		offset = 128
	}
	bytes := src.Bytes
	maxX, maxY := src.Width-1, src.Height-1

	var total [4]float64
	for y := 0; y < src.Height; y++ {
		drow := dst.Pix[y*dst.Stride:]
		for x := 0; x < src.Width; x++ {
			total = [4]float64{}
			m := 0
			for j := y - 1; j <= y+1; j++ {
				yy := clampInt(j, 0, maxY)
				for i := x - 1; i <= x+1; i, m = i+1, m+1 {
					xx := clampInt(i, 0, maxX)
					s := src.Pix[yy*src.Stride+xx*bytes:]
					w := float64(k.M[m])
					for b := 0; b < bytes; b++ {
						total[b] += w * float64(s[b])
					}
				}
			}

			d := drow[x*bytes:]
			for b := 0; b < bytes; b++ {
				d[b] = clampByte(total[b]/k.Divisor + offset)
			}
		}
	}
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// clampByte rounds half up and saturates to [0, 255].
func clampByte(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v + 0.5)
}
