// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package anim

import (
	"fmt"
	"io"
)

// DefaultFramerate is the playback rate, in frames per second, used when
// none is set.
const DefaultFramerate = 24.0

// MaxFrames bounds the frame count of animations built from recipes and
// layer tags. Larger recipes are rejected and larger tags ignored.
const MaxFrames = 1 << 16

// Kind identifies an animation variant.
type Kind int

const (
	// KindLegacy builds frames from the layer stack, one layer per frame,
	// driven by tags in layer names.
	KindLegacy Kind = iota
	// KindAnimatic shows one layer per panel, each held for a number of
	// frames.
	KindAnimatic
	// KindCel composes each frame from several tracks of cels.
	KindCel
)

// String returns the kind name as used in recipes.
func (k Kind) String() string {
	switch k {
	case KindLegacy:
		return "legacy"
	case KindAnimatic:
		return "animatic"
	case KindCel:
		return "cels"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Animation is a frame recipe that a Store can render. Each variant
// decides how positions map to layer compositions.
type Animation interface {
	Recipe

	// Kind returns the variant.
	Kind() Kind
	// Framerate returns the playback rate in frames per second.
	Framerate() float64
	// Same reports whether two positions show the same composition.
	Same(a, b int) bool
	// Events returns the list recipe changes are announced on.
	Events() *Observers
}

// Serializer is implemented by animations that persist as XML recipes.
type Serializer interface {
	Serialize(w io.Writer) error
}

// sameComposition compares the compositions of two positions of r.
func sameComposition(r Recipe, a, b int) bool {
	n := r.Duration()
	if a < 0 || a >= n || b < 0 || b >= n {
		return false
	}
	return r.Composition(a).Equal(r.Composition(b))
}

// clampFramerate replaces non-positive rates with DefaultFramerate.
func clampFramerate(fps float64) float64 {
	if fps <= 0 {
		return DefaultFramerate
	}
	return fps
}
