package scissors

import (
	"image"
	"image/color"
	"slices"

	"github.com/srwiley/rasterx"

	"github.com/gogpu/livewire"
)

// Curve is one traced segment between two vertices. A solved path runs
// from End back to Start, the order in which the solver extracts it; a
// straight run goes from Start toward End.
type Curve struct {
	Start  image.Point
	End    image.Point
	Points []image.Point
}

// PathEvent reports that the path of one segment was recomputed.
type PathEvent struct {
	Segment int // index into CurveManager.Curves
	Points  int // traced pixel count
}

// CurveManager owns the ordered segments of one outline. Vertex i is the
// start of segment i; the last vertex is the end of the last segment. When
// the outline is closed the last end coincides with vertex 0.
type CurveManager struct {
	solver    *Solver
	curves    []*Curve
	closed    bool
	observers []func(PathEvent)
}

// NewCurveManager creates an empty outline traced over g.
func NewCurveManager(g *GradientMap) *CurveManager {
	return &CurveManager{solver: NewSolver(g)}
}

// Observe registers fn to be called after every path recomputation.
func (m *CurveManager) Observe(fn func(PathEvent)) {
	if fn != nil {
		m.observers = append(m.observers, fn)
	}
}

// Gradient returns the gradient map the outline is traced over.
func (m *CurveManager) Gradient() *GradientMap { return m.solver.Gradient() }

// Len returns the number of segments.
func (m *CurveManager) Len() int { return len(m.curves) }

// Curves returns the segments in order. The slice must not be modified.
func (m *CurveManager) Curves() []*Curve { return m.curves }

// Closed reports whether the outline has been closed.
func (m *CurveManager) Closed() bool { return m.closed }

// Vertices returns the outline's vertices. A closed outline does not repeat
// vertex 0 at the end.
func (m *CurveManager) Vertices() []image.Point {
	if len(m.curves) == 0 {
		return nil
	}
	vs := make([]image.Point, 0, len(m.curves)+1)
	for _, c := range m.curves {
		vs = append(vs, c.Start)
	}
	if !m.closed {
		vs = append(vs, m.curves[len(m.curves)-1].End)
	}
	return vs
}

// AddSegment traces a new segment from start to end and appends it.
func (m *CurveManager) AddSegment(start, end image.Point) *Curve {
	c := &Curve{Start: start, End: end}
	m.curves = append(m.curves, c)
	m.recompute(len(m.curves) - 1)
	return c
}

// Close appends the segment from the last vertex back to vertex 0.
func (m *CurveManager) Close() {
	if m.closed || len(m.curves) == 0 {
		return
	}
	m.AddSegment(m.curves[len(m.curves)-1].End, m.curves[0].Start)
	m.closed = true
}

// SplitAt inserts a vertex at the traced pixel nearest to p, if one lies
// within radius. The segment holding it is cut in two and both halves are
// re-traced. ok is false when no pixel is close enough or the nearest pixel
// is already a vertex.
func (m *CurveManager) SplitAt(p image.Point, radius int) (first, second *Curve, ok bool) {
	ci, q, hit := m.CurveAt(p, radius)
	if !hit {
		return nil, nil, false
	}
	old := m.curves[ci]
	if q == old.Start || q == old.End {
		return nil, nil, false
	}

	second = &Curve{Start: q, End: old.End}
	old.End = q
	m.curves = slices.Insert(m.curves, ci+1, second)
	m.recompute(ci)
	m.recompute(ci + 1)

	livewire.Logger().Debug("scissors: segment split", "segment", ci, "at", q)
	return old, second, true
}

// MoveVertex moves vertex v to p and re-traces only the segments that end
// or start there. It reports false for an unknown vertex.
func (m *CurveManager) MoveVertex(v int, p image.Point) bool {
	n := len(m.curves)
	if n == 0 || v < 0 {
		return false
	}
	if m.closed {
		if v >= n {
			return false
		}
	} else if v > n {
		return false
	}

	g := m.solver.Gradient()
	p = image.Pt(clamp(p.X, 0, g.Width()-1), clamp(p.Y, 0, g.Height()-1))

	prev, next := v-1, v
	if prev < 0 {
		prev = -1
		if m.closed {
			prev = n - 1
		}
	}
	if next >= n {
		next = -1
	}

	if prev >= 0 {
		m.curves[prev].End = p
		m.recompute(prev)
	}
	if next >= 0 && next != prev {
		m.curves[next].Start = p
		m.recompute(next)
	}
	return true
}

// RemoveLastSegment drops the tail segment, reopening a closed outline. It
// reports true when no segments remain.
func (m *CurveManager) RemoveLastSegment() (halt bool) {
	if n := len(m.curves); n > 0 {
		m.curves[n-1] = nil
		m.curves = m.curves[:n-1]
	}
	m.closed = false
	return len(m.curves) == 0
}

// VertexAt returns the index of the vertex nearest to p within radius.
func (m *CurveManager) VertexAt(p image.Point, radius int) (int, bool) {
	best, bestDist := -1, radius*radius
	for i, v := range m.Vertices() {
		if d := dist2(p, v); d <= bestDist {
			best, bestDist = i, d
		}
	}
	return best, best >= 0
}

// CurveAt returns the segment and traced pixel nearest to p within radius.
func (m *CurveManager) CurveAt(p image.Point, radius int) (segment int, at image.Point, ok bool) {
	bestDist := radius * radius
	segment = -1
	for i, c := range m.curves {
		for _, q := range c.Points {
			if d := dist2(p, q); d <= bestDist {
				segment, at, bestDist = i, q, d
			}
		}
	}
	return segment, at, segment >= 0
}

// Polyline joins the traced pixels of every segment into one path in
// vertex order. Solved segments are stored end first and straight runs
// start first; both are walked from start to end here.
func (m *CurveManager) Polyline() []image.Point {
	n := 0
	for _, c := range m.curves {
		n += len(c.Points)
	}
	pts := make([]image.Point, 0, n)
	for _, c := range m.curves {
		if len(c.Points) > 0 && c.Points[0] == c.End && c.Start != c.End {
			for i := len(c.Points) - 1; i >= 0; i-- {
				pts = append(pts, c.Points[i])
			}
			continue
		}
		pts = append(pts, c.Points...)
	}
	return pts
}

// ToMask scan-converts the closed outline into a mask the size of the
// image. Traced pixel coordinates are polygon corners. Without antialias
// coverage is thresholded at one half.
func (m *CurveManager) ToMask(antialias bool) (*livewire.Mask, error) {
	if !m.closed {
		return nil, ErrNotClosed
	}
	g := m.solver.Gradient()
	w, h := g.Width(), g.Height()
	alpha := image.NewAlpha(image.Rect(0, 0, w, h))

	pts := m.Polyline()
	if len(pts) >= 3 {
		scanner := rasterx.NewScannerGV(w, h, alpha, alpha.Bounds())
		filler := rasterx.NewFiller(w, h, scanner)
		filler.SetWinding(true)
		filler.SetColor(color.Alpha{A: 0xff})

		filler.Start(rasterx.ToFixedP(float64(pts[0].X), float64(pts[0].Y)))
		for _, p := range pts[1:] {
			filler.Line(rasterx.ToFixedP(float64(p.X), float64(p.Y)))
		}
		filler.Stop(true)
		filler.Draw()
	}

	if !antialias {
		for i, a := range alpha.Pix {
			if a >= 0x80 {
				alpha.Pix[i] = 0xff
			} else {
				alpha.Pix[i] = 0
			}
		}
	}

	livewire.Logger().Debug("scissors: outline scan-converted",
		"segments", len(m.curves), "points", len(pts), "antialias", antialias)
	return livewire.NewMaskFromAlpha(alpha), nil
}

// recompute re-traces segment i and notifies observers.
func (m *CurveManager) recompute(i int) {
	c := m.curves[i]
	c.Points = m.solver.CalculateCurve(c.Start, c.End)
	for _, fn := range m.observers {
		fn(PathEvent{Segment: i, Points: len(c.Points)})
	}
}

func dist2(a, b image.Point) int {
	dx, dy := a.X-b.X, a.Y-b.Y
	return dx*dx + dy*dy
}

func (m *CurveManager) indexOf(c *Curve) int {
	return slices.Index(m.curves, c)
}
