package livewire

import "errors"

var (
	// ErrInvalidDimensions is returned when a mask or map is requested with
	// a non-positive width or height.
	ErrInvalidDimensions = errors.New("livewire: invalid dimensions")

	// ErrSizeMismatch is returned when two masks of different sizes are
	// combined.
	ErrSizeMismatch = errors.New("livewire: mask size mismatch")
)
