// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package anim

import (
	"fmt"
	"slices"
	"sync"
)

// EventKind identifies what an Event reports.
type EventKind int

const (
	// CacheUpdated reports that a position finished rendering.
	CacheUpdated EventKind = iota
	// CacheInvalidated reports that Length positions starting at Position
	// changed composition and must be re-rendered.
	CacheInvalidated
	// DurationChanged reports a new animation length in Duration.
	DurationChanged
	// Render reports that the playhead moved to Position.
	Render
)

// String returns the kind name.
func (k EventKind) String() string {
	switch k {
	case CacheUpdated:
		return "CacheUpdated"
	case CacheInvalidated:
		return "CacheInvalidated"
	case DurationChanged:
		return "DurationChanged"
	case Render:
		return "Render"
	default:
		return fmt.Sprintf("EventKind(%d)", int(k))
	}
}

// Event is a notification from the frame engine to its host.
type Event struct {
	Kind     EventKind
	Position int
	Length   int
	Duration int

	// Redraw is set on Render events when the new position shows
	// different pixels than the previous one.
	Redraw bool
}

// Observers is a list of event callbacks. The zero value is ready to use
// and safe for concurrent use.
type Observers struct {
	mu   sync.Mutex
	next int
	subs map[int]func(Event)
}

// Subscribe registers fn and returns a function that removes it.
func (o *Observers) Subscribe(fn func(Event)) (cancel func()) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.subs == nil {
		o.subs = make(map[int]func(Event))
	}
	id := o.next
	o.next++
	o.subs[id] = fn

	return func() {
		o.mu.Lock()
		delete(o.subs, id)
		o.mu.Unlock()
	}
}

// Len returns the number of subscribers.
func (o *Observers) Len() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.subs)
}

// Emit calls every subscriber with e in subscription order. Callbacks run
// on the caller's goroutine, outside the list lock.
func (o *Observers) Emit(e Event) {
	o.mu.Lock()
	ids := make([]int, 0, len(o.subs))
	for id := range o.subs {
		ids = append(ids, id)
	}
	fns := make([]func(Event), 0, len(ids))
	slices.Sort(ids)
	for _, id := range ids {
		fns = append(fns, o.subs[id])
	}
	o.mu.Unlock()

	for _, fn := range fns {
		fn(e)
	}
}
