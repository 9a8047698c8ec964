// Package livewire provides interactive edge tracing and frame caching
// primitives for raster editors.
//
// # Overview
//
// The module is split into two engines that share this root package for
// logging, errors and the selection mask type:
//
//   - scissors: intelligent scissors (livewire) boundary tracing. A gradient
//     cost map is built lazily per 64x64 tile, a single-sweep dynamic
//     programming solver finds cheap paths between vertices, and a curve
//     manager keeps the traced segments editable.
//   - anim: a content-addressed, reference-counted frame cache for layer
//     based animations, fed by a single background render worker.
//
// # Quick Start
//
//	img, _ := png.Decode(f)
//	s, err := scissors.NewSession(img)
//	if err != nil {
//	    return err
//	}
//	s.Click(image.Pt(10, 10))
//	s.Click(image.Pt(80, 12))
//	s.Click(image.Pt(40, 70))
//	s.Click(image.Pt(10, 10)) // closes the curve
//	mask, err := s.Commit()
//
// # Logging
//
// Nothing is logged by default. Call [SetLogger] to route diagnostics from
// all sub-packages to a [log/slog] handler.
//
// # Coordinate System
//
// Pixel coordinates are integers with the origin at the top-left corner,
// X increasing right and Y increasing down.
package livewire
