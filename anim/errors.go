// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package anim

import "errors"

var (
	// ErrMissingLayer is returned when a composition references a layer the
	// layer source no longer has.
	ErrMissingLayer = errors.New("anim: missing source layer")

	// ErrWorkerClosed is returned when work is queued on a closed Worker.
	ErrWorkerClosed = errors.New("anim: worker closed")

	// ErrInvalidRecipe is returned when a persisted recipe cannot be loaded.
	ErrInvalidRecipe = errors.New("anim: invalid recipe")

	// ErrOutOfRange is returned for a frame position or level outside the
	// animation.
	ErrOutOfRange = errors.New("anim: position out of range")
)
