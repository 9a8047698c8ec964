package scissors

import "errors"

var (
	// ErrEmptyImage is returned when tracing is started on an image with no
	// pixels.
	ErrEmptyImage = errors.New("scissors: empty image")

	// ErrNotClosed is returned when a mask is requested from an open curve.
	ErrNotClosed = errors.New("scissors: curve is not closed")

	// ErrTooFewPoints is returned when an outline has fewer than three
	// distinct vertices.
	ErrTooFewPoints = errors.New("scissors: outline needs at least 3 points")
)
