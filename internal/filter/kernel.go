package filter

// Kernel is a 3x3 convolution matrix in row-major order with its divisor.
type Kernel struct {
	M       [9]float32
	Divisor float64
}

// Predefined kernels for gradient map construction.
var (
	// Blur32 is a light smoothing kernel that keeps 75% of the centre pixel.
	Blur32 = Kernel{
		M: [9]float32{
			1, 1, 1,
			1, 24, 1,
			1, 1, 1,
		},
		Divisor: 32,
	}

	// HorzDeriv is the Sobel horizontal derivative (left minus right).
	HorzDeriv = Kernel{
		M: [9]float32{
			1, 0, -1,
			2, 0, -2,
			1, 0, -1,
		},
		Divisor: 1,
	}

	// VertDeriv is the Sobel vertical derivative (top minus bottom).
	VertDeriv = Kernel{
		M: [9]float32{
			1, 2, 1,
			0, 0, 0,
			-1, -2, -1,
		},
		Divisor: 1,
	}
)
