// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package anim

import (
	"context"
	"errors"
	"fmt"
	"image"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/gogpu/livewire"
	"github.com/gogpu/livewire/internal/cache"
)

// Recipe describes what each frame position is made of.
// Implementations must be safe for concurrent reads.
type Recipe interface {
	// Duration returns the number of frame positions.
	Duration() int
	// Composition returns the signature of the frame at pos. An empty
	// signature means the frame has no content.
	Composition(pos int) Signature
}

// Renderer composites a signature into pixels.
type Renderer interface {
	Render(ctx context.Context, sig Signature) (*image.NRGBA, error)
}

// RendererFunc adapts a function to the Renderer interface.
type RendererFunc func(ctx context.Context, sig Signature) (*image.NRGBA, error)

// Render calls f.
func (f RendererFunc) Render(ctx context.Context, sig Signature) (*image.NRGBA, error) {
	return f(ctx, sig)
}

// Frame is a rendered composition shared by every position with the same
// signature. Its image must not be modified.
type Frame struct {
	Signature Signature
	Image     *image.NRGBA

	key string
}

// Store maps frame positions to content-addressed, reference-counted
// frames. At most one Frame exists per distinct signature; each position
// mapped to it holds one reference, and the frame is dropped when the last
// reference goes.
//
// Store is safe for concurrent use. Rendering happens outside the lock, and
// concurrent renders of the same signature are collapsed into one. A render
// whose position was invalidated or resized away meanwhile is not mapped.
type Store struct {
	recipe   Recipe
	renderer Renderer

	mu        sync.Mutex
	table     *cache.RefTable[string, *Frame]
	positions []*Frame
	gens      []uint64 // stamp of the last invalidation per position
	epoch     uint64

	renders singleflight.Group
}

// NewStore creates a store for recipe rendering through r.
func NewStore(recipe Recipe, r Renderer, opts ...StoreOption) *Store {
	o := defaultStoreOptions()
	for _, opt := range opts {
		opt(&o)
	}
	size := o.size
	if size < 0 {
		size = recipe.Duration()
	}
	s := &Store{
		recipe:    recipe,
		renderer:  r,
		positions: make([]*Frame, size),
		gens:      make([]uint64, size),
	}
	s.table = cache.NewRefTable(func(key string, f *Frame) {
		livewire.Logger().Debug("anim: frame freed", "layers", len(f.Signature))
	})
	return s
}

// GetOrRender returns the frame for pos, rendering it if no frame with the
// same signature exists. A position whose composition is empty yields a nil
// frame. If a source layer is missing the position is left empty and the
// returned error wraps ErrMissingLayer.
//
// Cancelling ctx abandons only this call: a render shared with other
// callers keeps running for them. If pos is invalidated while its frame
// renders, the frame is returned but not mapped, so the next call
// recomposes.
func (s *Store) GetOrRender(ctx context.Context, pos int) (*Frame, error) {
	s.mu.Lock()
	if pos < 0 || pos >= len(s.positions) {
		s.mu.Unlock()
		return nil, positionError(pos)
	}
	if f := s.positions[pos]; f != nil {
		s.mu.Unlock()
		return f, nil
	}
	gen := s.gens[pos]
	s.mu.Unlock()

	sig := s.recipe.Composition(pos)
	if len(sig) == 0 {
		return nil, nil
	}
	key := sig.Key()

	s.mu.Lock()
	if s.currentLocked(pos, gen) {
		if f, ok := s.table.Acquire(key); ok {
			s.setLocked(pos, f)
			s.mu.Unlock()
			return f, nil
		}
	}
	s.mu.Unlock()

	ch := s.renders.DoChan(key, func() (any, error) {
		img, err := s.renderer.Render(context.WithoutCancel(ctx), sig)
		if err != nil {
			return nil, err
		}
		return &Frame{Signature: sig, Image: img, key: key}, nil
	})
	var res singleflight.Result
	select {
	case res = <-ch:
	case <-ctx.Done():
		return nil, fmt.Errorf("anim: render frame %d: %w", pos, ctx.Err())
	}
	if err := res.Err; err != nil {
		if errors.Is(err, ErrMissingLayer) {
			s.mu.Lock()
			if s.currentLocked(pos, gen) {
				s.invalidateLocked(pos)
			}
			s.mu.Unlock()
			livewire.Logger().Warn("anim: frame skipped", "pos", pos, "err", err)
		}
		return nil, fmt.Errorf("anim: render frame %d: %w", pos, err)
	}
	f := res.Val.(*Frame)

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.currentLocked(pos, gen) {
		livewire.Logger().Debug("anim: stale frame not cached", "pos", pos)
		return f, nil
	}
	f = s.table.Insert(key, f)
	s.setLocked(pos, f)
	return f, nil
}

// currentLocked reports whether pos still exists and has not been
// invalidated since gen was read.
func (s *Store) currentLocked(pos int, gen uint64) bool {
	return pos < len(s.positions) && s.gens[pos] == gen
}

// setLocked maps pos to f, which already carries a reference for it, and
// releases the previous mapping.
func (s *Store) setLocked(pos int, f *Frame) {
	if old := s.positions[pos]; old != nil {
		s.table.Release(old.key)
	}
	s.positions[pos] = f
}

// Frame returns the frame currently mapped to pos without rendering.
func (s *Store) Frame(pos int) *Frame {
	s.mu.Lock()
	defer s.mu.Unlock()
	if pos < 0 || pos >= len(s.positions) {
		return nil
	}
	return s.positions[pos]
}

// Invalidate drops the mapping for pos, freeing its frame when no other
// position uses it.
func (s *Store) Invalidate(pos int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.invalidateLocked(pos)
}

// InvalidateRange drops the mappings of n positions starting at pos.
func (s *Store) InvalidateRange(pos, n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := pos; i < pos+n; i++ {
		s.invalidateLocked(i)
	}
}

func (s *Store) invalidateLocked(pos int) {
	if pos < 0 || pos >= len(s.positions) {
		return
	}
	s.stampLocked(pos)
	if f := s.positions[pos]; f != nil {
		s.table.Release(f.key)
		s.positions[pos] = nil
	}
}

// Identical reports whether both positions are mapped to the same frame.
// Unrendered positions are never identical.
func (s *Store) Identical(p1, p2 int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p1 < 0 || p1 >= len(s.positions) || p2 < 0 || p2 >= len(s.positions) {
		return false
	}
	f := s.positions[p1]
	return f != nil && f == s.positions[p2]
}

// Resize changes the number of positions. Shrinking releases the dropped
// positions' frames.
func (s *Store) Resize(n int) {
	if n < 0 {
		n = 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	old := len(s.positions)
	for i := n; i < old; i++ {
		s.invalidateLocked(i)
	}
	if n <= cap(s.positions) {
		s.positions = s.positions[:n]
		s.gens = s.gens[:n]
	} else {
		positions := make([]*Frame, n)
		copy(positions, s.positions)
		s.positions = positions
		gens := make([]uint64, n)
		copy(gens, s.gens)
		s.gens = gens
	}
	// Regrown positions must not match a stamp read before the shrink.
	for i := old; i < n; i++ {
		s.positions[i] = nil
		s.stampLocked(i)
	}
}

func (s *Store) stampLocked(pos int) {
	s.epoch++
	s.gens[pos] = s.epoch
}

// Size returns the number of positions.
func (s *Store) Size() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.positions)
}

// Live returns the number of distinct frames held.
func (s *Store) Live() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.table.Len()
}

// Refs returns how many positions share the frame mapped to pos.
func (s *Store) Refs(pos int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if pos < 0 || pos >= len(s.positions) || s.positions[pos] == nil {
		return 0
	}
	return s.table.Refs(s.positions[pos].key)
}

// Purge drops every mapping and frame.
func (s *Store) Purge() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.positions {
		s.positions[i] = nil
		s.stampLocked(i)
	}
	s.table.Clear()
}

// Stats returns reference table statistics.
func (s *Store) Stats() cache.RefStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.table.Stats()
}
