// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package anim

import "strconv"

// Tattoo is the stable identifier of a source layer. Zero means no layer.
type Tattoo uint32

// CompLayer is one layer of a frame composition.
type CompLayer struct {
	Tattoo  Tattoo
	OffsetX int
	OffsetY int
}

// Signature is the ordered list of layers, bottom first, that fully
// determines a frame's pixels. Two positions with equal signatures render
// identical frames.
type Signature []CompLayer

// NewSignature builds a signature from tattoos sharing one offset. Zero
// tattoos are skipped.
func NewSignature(offsetX, offsetY int, tattoos ...Tattoo) Signature {
	var sig Signature
	for _, t := range tattoos {
		if t != 0 {
			sig = append(sig, CompLayer{Tattoo: t, OffsetX: offsetX, OffsetY: offsetY})
		}
	}
	return sig
}

// Key returns the canonical string form of s, usable as a map key.
func (s Signature) Key() string {
	buf := make([]byte, 0, len(s)*12)
	for i, l := range s {
		if i > 0 {
			buf = append(buf, '|')
		}
		buf = strconv.AppendUint(buf, uint64(l.Tattoo), 10)
		buf = append(buf, '@')
		buf = strconv.AppendInt(buf, int64(l.OffsetX), 10)
		buf = append(buf, ',')
		buf = strconv.AppendInt(buf, int64(l.OffsetY), 10)
	}
	return string(buf)
}

// Equal reports whether s and o list the same layers at the same offsets.
func (s Signature) Equal(o Signature) bool {
	if len(s) != len(o) {
		return false
	}
	for i := range s {
		if s[i] != o[i] {
			return false
		}
	}
	return true
}

// Tattoos returns the layer identifiers of s in order.
func (s Signature) Tattoos() []Tattoo {
	ts := make([]Tattoo, len(s))
	for i, l := range s {
		ts[i] = l.Tattoo
	}
	return ts
}
