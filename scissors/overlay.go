package scissors

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/srwiley/rasterx"
	"golang.org/x/image/math/fixed"
)

// Overlay stroke geometry, in pixels.
const (
	overlayWidth = 1.0
	handleWidth  = 1.5
)

// rubberBandDashes is the on/off pattern of the pending segment line.
var rubberBandDashes = []float64{4, 4}

// DrawOverlay paints the session's outline onto dst in col: every traced
// segment, a ring around each vertex and, while a segment is being dragged
// out, its traced path plus a dashed line from anchor to pointer. dst must
// share the traced image's coordinate space.
func DrawOverlay(dst draw.Image, s *Session, col color.Color) {
	m := s.Curves()
	paths := curvePaths(m)
	from, to, live, pending := s.Preview()
	if pending {
		paths = append(paths, live)
	}
	vertices := m.Vertices()
	if len(vertices) == 0 && s.State() != Idle && s.State() != Halted {
		vertices = []image.Point{s.Seed()}
	}

	o := newOverlay(dst, col)
	o.stroke(paths)
	o.rings(vertices, s.opts.handleSize)
	if pending && from != to {
		o.dash(from, to)
	}
}

// DrawCurves paints every traced segment of m onto dst in col, with a ring
// of diameter handleSize around each vertex.
func DrawCurves(dst draw.Image, m *CurveManager, col color.Color, handleSize int) {
	o := newOverlay(dst, col)
	o.stroke(curvePaths(m))
	o.rings(m.Vertices(), handleSize)
}

func curvePaths(m *CurveManager) [][]image.Point {
	paths := make([][]image.Point, 0, m.Len())
	for _, c := range m.Curves() {
		paths = append(paths, c.Points)
	}
	return paths
}

// overlay strokes pixel paths onto one destination image.
type overlay struct {
	w, h    int
	col     color.Color
	scanner *rasterx.ScannerGV
	stroker *rasterx.Stroker
}

func newOverlay(dst draw.Image, col color.Color) *overlay {
	b := dst.Bounds()
	w, h := b.Max.X, b.Max.Y
	scanner := rasterx.NewScannerGV(w, h, dst, b)
	stroker := rasterx.NewStroker(w, h, scanner)
	stroker.SetColor(col)
	return &overlay{w: w, h: h, col: col, scanner: scanner, stroker: stroker}
}

func (o *overlay) stroke(paths [][]image.Point) {
	o.stroker.SetStroke(toFixed(overlayWidth), 0, rasterx.RoundCap, rasterx.RoundCap, rasterx.RoundGap, rasterx.Round)
	for _, pts := range paths {
		addPolyline(o.stroker, pts)
	}
	o.stroker.Draw()
	o.stroker.Clear()
}

func (o *overlay) rings(vertices []image.Point, size int) {
	o.stroker.SetStroke(toFixed(handleWidth), 0, rasterx.ButtCap, rasterx.ButtCap, rasterx.FlatGap, rasterx.Miter)
	radius := float64(size) / 2
	for _, v := range vertices {
		rasterx.AddCircle(float64(v.X)+0.5, float64(v.Y)+0.5, radius, o.stroker)
	}
	o.stroker.Draw()
	o.stroker.Clear()
}

func (o *overlay) dash(from, to image.Point) {
	dasher := rasterx.NewDasher(o.w, o.h, o.scanner)
	dasher.SetStroke(toFixed(overlayWidth), 0, rasterx.ButtCap, rasterx.ButtCap, rasterx.FlatGap, rasterx.Miter, rubberBandDashes, 0)
	dasher.SetColor(o.col)
	addPolyline(dasher, []image.Point{from, to})
	dasher.Draw()
}

// addPolyline adds an open path through the centres of pts.
func addPolyline(a rasterx.Adder, pts []image.Point) {
	if len(pts) < 2 {
		return
	}
	a.Start(rasterx.ToFixedP(float64(pts[0].X)+0.5, float64(pts[0].Y)+0.5))
	for _, p := range pts[1:] {
		a.Line(rasterx.ToFixedP(float64(p.X)+0.5, float64(p.Y)+0.5))
	}
	a.Stop(false)
}

func toFixed(px float64) fixed.Int26_6 {
	return fixed.Int26_6(px * 64)
}
