// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package anim

import (
	"context"
	"image"
	"image/color"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

// fixedRecipe is a Recipe with one signature per position.
type fixedRecipe struct {
	mu   sync.Mutex
	sigs []Signature
}

func newFixedRecipe(sigs ...Signature) *fixedRecipe {
	return &fixedRecipe{sigs: sigs}
}

func (r *fixedRecipe) Duration() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sigs)
}

func (r *fixedRecipe) Composition(pos int) Signature {
	r.mu.Lock()
	defer r.mu.Unlock()
	if pos < 0 || pos >= len(r.sigs) {
		return nil
	}
	return r.sigs[pos]
}

func (r *fixedRecipe) set(pos int, sig Signature) {
	r.mu.Lock()
	r.sigs[pos] = sig
	r.mu.Unlock()
}

// countingRenderer renders a 1x1 frame and counts its calls. Tattoos in
// missing fail with ErrMissingLayer.
type countingRenderer struct {
	calls   atomic.Int32
	missing map[Tattoo]bool
	block   chan struct{}
}

func (r *countingRenderer) Render(ctx context.Context, sig Signature) (*image.NRGBA, error) {
	r.calls.Add(1)
	if r.block != nil {
		select {
		case <-r.block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	for _, l := range sig {
		if r.missing[l.Tattoo] {
			return nil, ErrMissingLayer
		}
	}
	img := image.NewNRGBA(image.Rect(0, 0, 1, 1))
	img.SetNRGBA(0, 0, color.NRGBA{R: uint8(sig[0].Tattoo), A: 255})
	return img, nil
}

func sig(tattoos ...Tattoo) Signature {
	return NewSignature(0, 0, tattoos...)
}

// waitIdle polls w.Idle until it reports no work left.
func waitIdle(t *testing.T, w *Worker) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for w.Idle() {
		if time.Now().After(deadline) {
			t.Fatal("worker did not become idle")
		}
		time.Sleep(time.Millisecond)
	}
	// Acks of the last render are drained by one more call.
	w.Idle()
}

// recorder collects events.
type recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *recorder) record(e Event) {
	r.mu.Lock()
	r.events = append(r.events, e)
	r.mu.Unlock()
}

func (r *recorder) list() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}

func (r *recorder) kind(k EventKind) []Event {
	var out []Event
	for _, e := range r.list() {
		if e.Kind == k {
			out = append(out, e)
		}
	}
	return out
}

// waitCalls polls until r has been called at least n times.
func waitCalls(t *testing.T, r *countingRenderer, n int32) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for r.calls.Load() < n {
		if time.Now().After(deadline) {
			t.Fatalf("renders = %d, want %d", r.calls.Load(), n)
		}
		time.Sleep(time.Millisecond)
	}
}
