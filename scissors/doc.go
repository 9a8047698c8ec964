// Package scissors implements intelligent scissors (livewire) boundary
// tracing.
//
// A [GradientMap] turns an image into per-pixel edge strength and edge
// direction, tile by tile and only where the tracer looks. The link cost
// between neighbouring pixels favours strong edges and steps that run
// along them. A [Solver] fills a cost buffer over the rectangle spanned by
// two vertices (expanded so the path may bow outwards) in a single
// diagonal sweep and extracts the path by following backlinks.
//
// A [CurveManager] owns the ordered segments of one outline. Moving a
// vertex only re-solves the two segments that touch it. A [Session] wraps
// the manager in the press/motion/release state machine of an interactive
// tool and converts the closed outline into a selection mask.
//
// The package is single-threaded: none of its types may be used from more
// than one goroutine at a time.
package scissors
