package scissors

import (
	"fmt"
	"image"

	"github.com/gogpu/livewire"
)

// TraceOutline traces a closed outline through pts in order. Unlike a
// Session it does no hit testing: every point becomes a new vertex even
// when it lies on or near an earlier segment. Points are clamped to the
// map and, with snap, moved to the strongest nearby edge; repeated
// consecutive points collapse into one vertex.
func TraceOutline(g *GradientMap, pts []image.Point, snap bool, observers ...func(PathEvent)) (*CurveManager, error) {
	vertices := make([]image.Point, 0, len(pts))
	for _, p := range pts {
		p = image.Pt(clamp(p.X, 0, g.Width()-1), clamp(p.Y, 0, g.Height()-1))
		if snap {
			p.X, p.Y = g.MaxGradient(p.X, p.Y)
		}
		if n := len(vertices); n > 0 && vertices[n-1] == p {
			continue
		}
		vertices = append(vertices, p)
	}
	if n := len(vertices); n > 1 && vertices[n-1] == vertices[0] {
		vertices = vertices[:n-1]
	}
	if len(vertices) < 3 {
		return nil, fmt.Errorf("%w: got %d", ErrTooFewPoints, len(vertices))
	}

	m := NewCurveManager(g)
	for _, fn := range observers {
		m.Observe(fn)
	}
	for i := 1; i < len(vertices); i++ {
		m.AddSegment(vertices[i-1], vertices[i])
	}
	m.Close()

	livewire.Logger().Debug("scissors: outline traced", "vertices", len(vertices))
	return m, nil
}
