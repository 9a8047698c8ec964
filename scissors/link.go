package scissors

import (
	"image"
	"math"
)

// Link cost weights. Edge strength dominates; direction smooths the path.
const (
	omegaD = 0.2
	omegaG = 0.8
)

// Moves lists the eight neighbour offsets indexed by link code:
//
//	7 5 6
//	4 . 0
//	2 1 3
//
// Link k and link k±4 point in opposite directions.
var Moves = [8]image.Point{
	{1, 0}, {0, 1}, {-1, 1}, {1, 1},
	{-1, 0}, {0, -1}, {1, -1}, {-1, -1},
}

var (
	diagonalWeight [256]int
	directionValue [256][4]int
)

func init() {
	for i := range 256 {
		diagonalWeight[i] = int(float64(i) * math.Sqrt2)

		directionValue[i][0] = (127 - abs(127-i)) * 2
		directionValue[i][1] = abs(127-i) * 2
		directionValue[i][2] = abs(191-i) * 2
		directionValue[i][3] = abs(63-i) * 2
	}
	// Directionless pixels cost the same for every link.
	directionValue[NoDirection] = [4]int{255, 255, 255, 255}
}

// LinkClass folds a link code into one of four classes: 0 horizontal,
// 1 vertical, 2 and 3 the two diagonals.
func LinkClass(k int) int {
	if k > 3 {
		return k - 4
	}
	return k
}

// LinkCost returns the cost of stepping from (x, y) to (x+dx, y+dy), where
// class is the LinkClass of the step. Pixels outside the image read as
// zero magnitude with no direction.
func (g *GradientMap) LinkCost(x, y, dx, dy, class int) int {
	grad1, dir1, ok := g.Get(x, y)
	if !ok {
		grad1, dir1 = 0, NoDirection
	}

	// Strong gradients are cheap.
	grad1 = 255 - grad1

	var value int
	if class > 1 {
		value = int(float64(diagonalWeight[grad1]) * omegaG)
	} else {
		value = int(float64(grad1) * omegaG)
	}

	_, dir2, ok := g.Get(x+dx, y+dy)
	if !ok {
		dir2 = NoDirection
	}
	value = int(float64(value) + float64(directionValue[dir1][class]+directionValue[dir2][class])*omegaD)
	return value
}
