package filter

import "testing"

// fillRegion sets every channel of every pixel to v.
func fillRegion(r *Region, v uint8) {
	for i := range r.Pix {
		r.Pix[i] = v
	}
}

// stepRegion returns a 1-channel region whose left half is lo and right half is hi.
func stepRegion(w, h int, lo, hi uint8) *Region {
	r := NewRegion(w, h, 1)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			v := lo
			if x >= w/2 {
				v = hi
			}
			r.Pix[r.Offset(x, y)] = v
		}
	}
	return r
}

func TestConvolveUniform(t *testing.T) {
	tests := []struct {
		name string
		k    Kernel
		mode Mode
		want uint8
	}{
		{"blur keeps value", Blur32, Normal, 77},
		{"horz flat is 128", HorzDeriv, Negative, 128},
		{"vert flat is 128", VertDeriv, Negative, 128},
		{"horz flat normal is 0", HorzDeriv, Normal, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := NewRegion(5, 4, 3)
			fillRegion(src, 77)
			dst := NewRegion(5, 4, 3)
			Convolve(dst, src, tt.k, tt.mode)
			for i, v := range dst.Pix {
				if v != tt.want {
					t.Fatalf("Pix[%d] = %d, want %d", i, v, tt.want)
				}
			}
		})
	}
}

func TestConvolveStepEdge(t *testing.T) {
	src := stepRegion(8, 3, 0, 255)
	dst := NewRegion(8, 3, 1)
	Convolve(dst, src, HorzDeriv, Negative)

	// Left minus right is strongly negative across the edge.
	if got := dst.Pix[dst.Offset(3, 1)]; got != 0 {
		t.Errorf("edge response at x=3 = %d, want 0", got)
	}
	if got := dst.Pix[dst.Offset(4, 1)]; got != 0 {
		t.Errorf("edge response at x=4 = %d, want 0", got)
	}
	// Away from the edge the response is neutral.
	if got := dst.Pix[dst.Offset(0, 1)]; got != 128 {
		t.Errorf("flat response at x=0 = %d, want 128", got)
	}
	if got := dst.Pix[dst.Offset(7, 1)]; got != 128 {
		t.Errorf("flat response at x=7 = %d, want 128", got)
	}

	Convolve(dst, src, VertDeriv, Negative)
	for x := 0; x < 8; x++ {
		if got := dst.Pix[dst.Offset(x, 1)]; got != 128 {
			t.Errorf("vertical response at x=%d = %d, want 128", x, got)
		}
	}
}

func TestConvolveBlurRounding(t *testing.T) {
	src := NewRegion(3, 3, 1)
	src.Pix[src.Offset(1, 1)] = 100
	dst := NewRegion(3, 3, 1)
	Convolve(dst, src, Blur32, Normal)

	// 24*100/32 = 75.
	if got := dst.Pix[dst.Offset(1, 1)]; got != 75 {
		t.Errorf("centre = %d, want 75", got)
	}
	// Corner (0,0) sees the centre once: 100/32 = 3.125 -> 3.
	if got := dst.Pix[dst.Offset(0, 0)]; got != 3 {
		t.Errorf("corner = %d, want 3", got)
	}
}

func TestRegionReshape(t *testing.T) {
	r := NewRegion(8, 8, 4)
	c := cap(r.Pix)
	r.Reshape(4, 4, 4)
	if cap(r.Pix) != c {
		t.Errorf("Reshape smaller reallocated: cap %d, want %d", cap(r.Pix), c)
	}
	if r.Stride != 16 || len(r.Pix) != 64 {
		t.Errorf("Reshape(4,4,4) stride=%d len=%d, want 16, 64", r.Stride, len(r.Pix))
	}
	r.Reshape(16, 16, 4)
	if len(r.Pix) != 16*16*4 {
		t.Errorf("Reshape grow len = %d, want %d", len(r.Pix), 16*16*4)
	}
}

func BenchmarkConvolveTile(b *testing.B) {
	src := NewRegion(64, 64, 4)
	for i := range src.Pix {
		src.Pix[i] = uint8(i * 7)
	}
	dst := NewRegion(64, 64, 4)
	b.ReportAllocs()
	for b.Loop() {
		Convolve(dst, src, Blur32, Normal)
	}
}
