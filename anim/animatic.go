// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package anim

import (
	"sync"
)

// Panel is one storyboard panel: a single layer held for Duration frames.
type Panel struct {
	Tattoo   Tattoo
	Duration int
	Comment  string
}

// Animatic is a storyboard animation. Panels play one after another, each
// showing its layer for its duration.
//
// Animatic is safe for concurrent use.
type Animatic struct {
	mu        sync.RWMutex
	framerate float64
	panels    []Panel
	starts    []int // first position of each panel, plus the total length

	events Observers
}

// NewAnimatic creates an animatic from panels. Panels with a non-positive
// duration are held for one frame.
func NewAnimatic(panels ...Panel) *Animatic {
	a := &Animatic{framerate: DefaultFramerate}
	a.panels = make([]Panel, len(panels))
	for i, p := range panels {
		p.Duration = max(p.Duration, 1)
		a.panels[i] = p
	}
	a.reindex()
	return a
}

func (a *Animatic) reindex() {
	a.starts = make([]int, len(a.panels)+1)
	for i, p := range a.panels {
		a.starts[i+1] = a.starts[i] + p.Duration
	}
}

// Kind implements Animation.
func (a *Animatic) Kind() Kind { return KindAnimatic }

// Events implements Animation.
func (a *Animatic) Events() *Observers { return &a.events }

// Duration implements Recipe.
func (a *Animatic) Duration() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.starts[len(a.panels)]
}

// Framerate implements Animation.
func (a *Animatic) Framerate() float64 {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.framerate
}

// SetFramerate sets the playback rate. Non-positive rates reset it to
// DefaultFramerate.
func (a *Animatic) SetFramerate(fps float64) {
	a.mu.Lock()
	a.framerate = clampFramerate(fps)
	a.mu.Unlock()
}

// Composition implements Recipe.
func (a *Animatic) Composition(pos int) Signature {
	a.mu.RLock()
	defer a.mu.RUnlock()
	i := a.panelLocked(pos)
	if i < 0 {
		return nil
	}
	return NewSignature(0, 0, a.panels[i].Tattoo)
}

// Same implements Animation. Positions within one panel are always the
// same.
func (a *Animatic) Same(p1, p2 int) bool {
	a.mu.RLock()
	i, j := a.panelLocked(p1), a.panelLocked(p2)
	a.mu.RUnlock()
	if i < 0 || j < 0 {
		return false
	}
	return i == j || sameComposition(a, p1, p2)
}

// Panels returns a copy of the panels.
func (a *Animatic) Panels() []Panel {
	a.mu.RLock()
	defer a.mu.RUnlock()
	out := make([]Panel, len(a.panels))
	copy(out, a.panels)
	return out
}

// PanelAt returns the panel shown at pos, or -1.
func (a *Animatic) PanelAt(pos int) int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.panelLocked(pos)
}

// PanelStart returns the first position of panel i.
func (a *Animatic) PanelStart(i int) int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if i < 0 || i >= len(a.panels) {
		return -1
	}
	return a.starts[i]
}

func (a *Animatic) panelLocked(pos int) int {
	if pos < 0 || pos >= a.starts[len(a.panels)] {
		return -1
	}
	lo, hi := 0, len(a.panels)-1
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if a.starts[mid] <= pos {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	return lo
}

// SetPanelDuration changes how long panel i is held. Every following
// panel shifts, so the positions from panel i to the end are invalidated.
func (a *Animatic) SetPanelDuration(i, frames int) error {
	if frames < 1 {
		return positionError(frames)
	}
	a.mu.Lock()
	if i < 0 || i >= len(a.panels) {
		a.mu.Unlock()
		return positionError(i)
	}
	if a.panels[i].Duration == frames {
		a.mu.Unlock()
		return nil
	}
	oldEnd := a.starts[len(a.panels)]
	a.panels[i].Duration = frames
	a.reindex()
	start, end := a.starts[i], a.starts[len(a.panels)]
	a.mu.Unlock()

	a.events.Emit(Event{Kind: DurationChanged, Duration: end})
	a.events.Emit(Event{Kind: CacheInvalidated, Position: start, Length: max(end, oldEnd) - start})
	return nil
}

// SetPanelLayer changes the layer of panel i.
func (a *Animatic) SetPanelLayer(i int, t Tattoo) error {
	a.mu.Lock()
	if i < 0 || i >= len(a.panels) {
		a.mu.Unlock()
		return positionError(i)
	}
	a.panels[i].Tattoo = t
	start, n := a.starts[i], a.panels[i].Duration
	a.mu.Unlock()

	a.events.Emit(Event{Kind: CacheInvalidated, Position: start, Length: n})
	return nil
}

// SetComment sets the comment of panel i.
func (a *Animatic) SetComment(i int, text string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if i < 0 || i >= len(a.panels) {
		return positionError(i)
	}
	a.panels[i].Comment = text
	return nil
}
