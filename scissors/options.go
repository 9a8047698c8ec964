package scissors

// SessionOption configures a Session during creation.
//
// Example:
//
//	s, err := scissors.NewSession(img,
//		scissors.WithSnap(false),
//		scissors.WithAntialias(false),
//	)
type SessionOption func(*sessionOptions)

// sessionOptions holds optional configuration for Session creation.
type sessionOptions struct {
	antialias  bool
	handleSize int
	snap       bool
	observers  []func(PathEvent)
}

// defaultSessionOptions returns the default session options.
func defaultSessionOptions() sessionOptions {
	return sessionOptions{
		antialias:  true,
		handleSize: 8,
		snap:       true,
	}
}

// WithAntialias controls whether Commit produces a soft-edged mask.
// The default is true.
func WithAntialias(on bool) SessionOption {
	return func(o *sessionOptions) {
		o.antialias = on
	}
}

// WithHandleSize sets the pick radius, in pixels, used to hit vertices and
// curves. Values below 1 are ignored.
func WithHandleSize(px int) SessionOption {
	return func(o *sessionOptions) {
		if px > 0 {
			o.handleSize = px
		}
	}
}

// WithSnap controls whether placed points jump to the strongest nearby
// edge. The default is true.
func WithSnap(on bool) SessionOption {
	return func(o *sessionOptions) {
		o.snap = on
	}
}

// WithPathObserver registers fn to be told whenever a segment's path is
// recomputed, so a view can repaint only what changed.
func WithPathObserver(fn func(PathEvent)) SessionOption {
	return func(o *sessionOptions) {
		o.observers = append(o.observers, fn)
	}
}
