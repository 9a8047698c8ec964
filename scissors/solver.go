package scissors

import (
	"image"
	"math"

	"github.com/gogpu/livewire"
)

// Solver constants.
const (
	// SeedLink marks the sweep origin in the cost buffer.
	SeedLink = 9

	// extendBy and extendFixed grow the search rectangle past the end
	// point so paths may bow outwards.
	extendBy    = 0.2
	extendFixed = 5
)

// CostBuffer is the dynamic programming array of one solve. Each cell packs
// the cumulative cost in the upper 24 bits and the backlink in the low 8.
type CostBuffer struct {
	rect  image.Rectangle
	cells []uint32
}

// reset sizes the buffer for rect and zeroes it, reusing memory.
func (b *CostBuffer) reset(rect image.Rectangle) {
	n := rect.Dx() * rect.Dy()
	if cap(b.cells) < n {
		b.cells = make([]uint32, n)
	}
	b.cells = b.cells[:n]
	clear(b.cells)
	b.rect = rect
}

// Rect returns the image rectangle covered by the buffer.
func (b *CostBuffer) Rect() image.Rectangle { return b.rect }

// At returns the cumulative cost and backlink at image coordinates (x, y).
// ok is false outside the buffer.
func (b *CostBuffer) At(x, y int) (cost, link int, ok bool) {
	if !image.Pt(x, y).In(b.rect) {
		return 0, 0, false
	}
	c := b.cells[(y-b.rect.Min.Y)*b.rect.Dx()+(x-b.rect.Min.X)]
	return int(c >> 8), int(c & 0xff), true
}

// Solver computes minimum-cost paths over a GradientMap. The cost buffer is
// kept between solves to avoid reallocation.
type Solver struct {
	grad *GradientMap
	buf  CostBuffer
}

// NewSolver creates a solver reading link costs from g.
func NewSolver(g *GradientMap) *Solver {
	return &Solver{grad: g}
}

// Gradient returns the solver's gradient map.
func (s *Solver) Gradient() *GradientMap { return s.grad }

// Buffer returns the cost buffer of the last Solve.
func (s *Solver) Buffer() *CostBuffer { return &s.buf }

// Solve fills the cost buffer over rect, sweeping away from start, which
// must be a corner of rect. Each cell takes the cheapest of its already
// swept neighbours as backlink. The cell then offers itself to those
// neighbours: any whose stored cost exceeds the cost through this cell is
// relinked to it. This single forward pass is not a full Dijkstra and its
// result depends on sweep order.
func (s *Solver) Solve(rect image.Rectangle, start image.Point) {
	s.buf.reset(rect)
	data := s.buf.cells
	width, height := rect.Dx(), rect.Dy()
	x1, y1 := rect.Min.X, rect.Min.Y
	xs, ys := start.X, start.Y

	dirx, diry := -1, -1
	if xs == x1 {
		dirx = 1
	}
	if ys == y1 {
		diry = 1
	}
	linkdir := dirx * diry

	var (
		valid     [8]bool
		offsets   [8]int
		steps     [8]image.Point
		linkCost  [8]int
		pixelCost [8]int
		cumCost   [8]int
	)
	setNeighbour := func(k, dx, dy int) {
		valid[k] = true
		steps[k] = image.Pt(dx, dy)
		offsets[k] = dx + dy*width
	}

	for i := range height {
		y := ys + i*diry
		d := (y-y1)*width + (xs - x1)
		for j := range width {
			x := xs + j*dirx
			valid = [8]bool{}

			// previous pixel in this row
			if j != 0 {
				if dirx == 1 {
					setNeighbour(4, -dirx, 0)
				} else {
					setNeighbour(0, -dirx, 0)
				}
			}

			// previous row
			if i != 0 {
				if diry == 1 {
					setNeighbour(5, 0, -diry)
				} else {
					setNeighbour(1, 0, -diry)
				}

				link := 2
				if linkdir == 1 {
					link = 3
				}
				if j != 0 {
					if diry == 1 {
						link += 4
					}
					setNeighbour(link, -dirx, -diry)
				}

				link = 3
				if linkdir == 1 {
					link = 2
				}
				if j != width-1 {
					if diry == 1 {
						link += 4
					}
					setNeighbour(link, dirx, -diry)
				}
			}

			minCost := math.MaxInt
			best := -1
			for k := range 8 {
				if !valid[k] {
					continue
				}
				linkCost[k] = s.grad.LinkCost(x, y, steps[k].X, steps[k].Y, LinkClass(k))
				pixelCost[k] = int(data[d+offsets[k]] >> 8)
				cumCost[k] = pixelCost[k] + linkCost[k]
				if cumCost[k] < minCost {
					minCost = cumCost[k]
					best = k
				}
			}

			switch {
			case best >= 0:
				data[d] = uint32(cumCost[best])<<8 | uint32(best)

				for k := range 8 {
					if !valid[k] || k == best {
						continue
					}
					newCost := linkCost[k] + cumCost[best]
					if pixelCost[k] > newCost {
						// point the neighbour back at this cell
						back := k + 4
						if k > 3 {
							back = k - 4
						}
						data[d+offsets[k]] = uint32(newCost)<<8 | uint32(back)
					}
				}
			case i == 0 && j == 0:
				data[d] = SeedLink
			}

			d += dirx
		}
	}
}

// ExtractPath follows backlinks from end to the seed of the last Solve and
// returns the visited pixels, end first and seed last. A path that leaves
// the buffer or revisits a cell is cut short.
func (s *Solver) ExtractPath(end image.Point) []image.Point {
	rect := s.buf.rect
	if !end.In(rect) {
		return nil
	}
	width := rect.Dx()
	limit := len(s.buf.cells)

	points := make([]image.Point, 0, max(rect.Dx(), rect.Dy()))
	p := end
	for range limit {
		points = append(points, p)
		link := int(s.buf.cells[(p.Y-rect.Min.Y)*width+(p.X-rect.Min.X)] & 0xff)
		if link == SeedLink {
			return points
		}
		if link > 7 {
			break
		}
		p = p.Add(Moves[link])
		if !p.In(rect) {
			break
		}
	}

	livewire.Logger().Warn("scissors: backlink chain did not reach the seed",
		"end", end, "rect", rect, "points", len(points))
	return points
}

// CalculateCurve returns the traced pixels between start and end. Both
// points are clamped to the image. When they share a row or a column the
// result is the straight run from start up to, but excluding, end.
// Otherwise the optimal path is returned end first and start last.
func (s *Solver) CalculateCurve(start, end image.Point) []image.Point {
	w, h := s.grad.Width(), s.grad.Height()
	xs, ys := clamp(start.X, 0, w-1), clamp(start.Y, 0, h-1)
	xe, ye := clamp(end.X, 0, w-1), clamp(end.Y, 0, h-1)

	if xs == xe || ys == ye {
		return straightRun(image.Pt(xs, ys), image.Pt(xe, ye))
	}

	rect := SearchRect(image.Pt(xs, ys), image.Pt(xe, ye), w, h)
	s.Solve(rect, image.Pt(xs, ys))
	points := s.ExtractPath(image.Pt(xe, ye))

	livewire.Logger().Debug("scissors: curve solved",
		"start", image.Pt(xs, ys), "end", image.Pt(xe, ye),
		"rect", rect, "points", len(points))
	return points
}

// SearchRect returns the solver rectangle for a segment from start to end
// inside a w x h image: their bounding box grown by 20% plus 5 pixels on the
// far side of end. start is always a corner of the result.
func SearchRect(start, end image.Point, w, h int) image.Rectangle {
	x1, y1 := min(start.X, end.X), min(start.Y, end.Y)
	x2, y2 := max(start.X, end.X)+1, max(start.Y, end.Y)+1

	ewidth := int(float64(x2-x1)*extendBy + extendFixed)
	eheight := int(float64(y2-y1)*extendBy + extendFixed)

	if end.X >= start.X {
		x2 += clamp(ewidth, 0, w-x2)
	} else {
		x1 -= clamp(ewidth, 0, x1)
	}
	if end.Y >= start.Y {
		y2 += clamp(eheight, 0, h-y2)
	} else {
		y1 -= clamp(eheight, 0, y1)
	}
	return image.Rect(x1, y1, x2, y2)
}

// straightRun returns the pixels from a toward b along a shared row or
// column, excluding b.
func straightRun(a, b image.Point) []image.Point {
	var step image.Point
	n := 0
	switch {
	case a.X == b.X:
		n = abs(b.Y - a.Y)
		step.Y = 1
		if b.Y < a.Y {
			step.Y = -1
		}
	default:
		n = abs(b.X - a.X)
		step.X = 1
		if b.X < a.X {
			step.X = -1
		}
	}
	points := make([]image.Point, 0, n)
	for p := a; len(points) < n; p = p.Add(step) {
		points = append(points, p)
	}
	return points
}
