package scissors

import (
	"fmt"
	"image"

	"github.com/gogpu/livewire"
)

// State is the phase of an interactive tracing session.
type State int

const (
	// Idle means nothing has been placed yet.
	Idle State = iota
	// PlacingSeed means the first point is being dragged.
	PlacingSeed
	// Waiting means the session is between gestures.
	Waiting
	// AdjustingVertex means an existing vertex is being dragged.
	AdjustingVertex
	// AddingSegment means a new segment is being dragged out from the last
	// vertex.
	AddingSegment
	// Halted means the session was committed or cancelled.
	Halted
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case Idle:
		return "Idle"
	case PlacingSeed:
		return "PlacingSeed"
	case Waiting:
		return "Waiting"
	case AdjustingVertex:
		return "AdjustingVertex"
	case AddingSegment:
		return "AddingSegment"
	case Halted:
		return "Halted"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Session drives a CurveManager from pointer gestures.
//
// A first press places the seed. Each later press away from the outline
// drags out a new segment from the last vertex. Pressing a vertex drags it,
// pressing a traced curve splits it and drags the new vertex, and pressing
// vertex 0 of an open outline closes it.
type Session struct {
	curves *CurveManager
	opts   sessionOptions

	state  State
	seed   image.Point
	cursor image.Point
	vertex int
	live   []image.Point
}

// NewSession creates a tracing session over img.
func NewSession(img image.Image, opts ...SessionOption) (*Session, error) {
	g, err := NewGradientMap(img)
	if err != nil {
		return nil, err
	}
	o := defaultSessionOptions()
	for _, opt := range opts {
		opt(&o)
	}
	m := NewCurveManager(g)
	for _, fn := range o.observers {
		m.Observe(fn)
	}
	return &Session{curves: m, opts: o}, nil
}

// State returns the current state.
func (s *Session) State() State { return s.state }

// Curves returns the outline being traced.
func (s *Session) Curves() *CurveManager { return s.curves }

// Seed returns the first placed point.
func (s *Session) Seed() image.Point { return s.seed }

// Press begins a gesture at p.
func (s *Session) Press(p image.Point) {
	p = s.clamp(p)
	radius := s.opts.handleSize
	m := s.curves

	switch s.state {
	case Idle:
		s.seed = s.snap(p)
		s.state = PlacingSeed

	case Waiting:
		if m.Len() == 0 {
			if dist2(p, s.seed) <= radius*radius {
				s.vertex = 0
				s.state = AdjustingVertex
				return
			}
			s.beginSegment(p)
			return
		}

		if !m.Closed() && dist2(p, m.curves[0].Start) <= radius*radius {
			m.Close()
			livewire.Logger().Debug("scissors: outline closed", "segments", m.Len())
			return
		}
		if v, ok := m.VertexAt(p, radius); ok {
			s.vertex = v
			s.state = AdjustingVertex
			return
		}
		if first, _, ok := m.SplitAt(p, radius); ok {
			s.vertex = m.indexOf(first) + 1
			s.state = AdjustingVertex
			return
		}
		if !m.Closed() {
			s.beginSegment(p)
		}
	}
}

// Motion updates the current gesture with the pointer at p.
func (s *Session) Motion(p image.Point) {
	p = s.clamp(p)
	switch s.state {
	case PlacingSeed:
		s.seed = s.snap(p)
	case AdjustingVertex:
		s.moveVertex(s.snap(p))
	case AddingSegment:
		s.cursor = s.snap(p)
		s.live = s.curves.solver.CalculateCurve(s.anchor(), s.cursor)
	}
}

// Release ends the current gesture at p.
func (s *Session) Release(p image.Point) {
	p = s.clamp(p)
	switch s.state {
	case PlacingSeed:
		s.seed = s.snap(p)
	case AdjustingVertex:
		s.moveVertex(s.snap(p))
	case AddingSegment:
		s.cursor = s.snap(p)
		if a := s.anchor(); a != s.cursor {
			s.curves.AddSegment(a, s.cursor)
		}
		s.live = nil
	default:
		return
	}
	s.state = Waiting
}

// Click is a press and release at the same point.
func (s *Session) Click(p image.Point) {
	s.Press(p)
	s.Release(p)
}

// Undo removes the last segment. Removing the only segment halts the
// session.
func (s *Session) Undo() {
	if s.state == Halted || s.state == Idle {
		return
	}
	if s.curves.RemoveLastSegment() {
		s.Halt()
		return
	}
	s.state = Waiting
}

// Halt cancels the session and discards the outline.
func (s *Session) Halt() {
	for s.curves.Len() > 0 {
		s.curves.RemoveLastSegment()
	}
	s.live = nil
	s.state = Halted
}

// Commit converts the closed outline to a mask and halts the session.
func (s *Session) Commit() (*livewire.Mask, error) {
	mask, err := s.curves.ToMask(s.opts.antialias)
	if err != nil {
		return nil, fmt.Errorf("scissors: commit: %w", err)
	}
	s.Halt()
	return mask, nil
}

// Preview returns the segment being dragged out: its anchor, the pointer
// and the path traced between them so far. ok is false outside
// AddingSegment.
func (s *Session) Preview() (from, to image.Point, path []image.Point, ok bool) {
	if s.state != AddingSegment {
		return image.Point{}, image.Point{}, nil, false
	}
	return s.anchor(), s.cursor, s.live, true
}

func (s *Session) beginSegment(p image.Point) {
	s.cursor = s.snap(p)
	s.live = nil
	s.state = AddingSegment
}

func (s *Session) moveVertex(p image.Point) {
	if s.curves.Len() == 0 {
		s.seed = p
		return
	}
	if s.vertex == 0 {
		s.seed = p
	}
	s.curves.MoveVertex(s.vertex, p)
}

// anchor is the vertex a new segment starts from.
func (s *Session) anchor() image.Point {
	if n := s.curves.Len(); n > 0 {
		return s.curves.curves[n-1].End
	}
	return s.seed
}

func (s *Session) snap(p image.Point) image.Point {
	if !s.opts.snap {
		return p
	}
	x, y := s.curves.Gradient().MaxGradient(p.X, p.Y)
	return image.Pt(x, y)
}

func (s *Session) clamp(p image.Point) image.Point {
	g := s.curves.Gradient()
	return image.Pt(clamp(p.X, 0, g.Width()-1), clamp(p.Y, 0, g.Height()-1))
}
