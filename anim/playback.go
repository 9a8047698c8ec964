// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package anim

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// frameTimer is implemented by animations whose frames have individual
// display times.
type frameTimer interface {
	FrameDuration(pos int) int
}

// Player moves a playhead through a range of an animation. Every move
// emits a Render event telling whether the shown pixels changed, and
// keeps the worker's priority position at the playhead.
//
// Player is safe for concurrent use.
type Player struct {
	anim   Animation
	store  *Store
	worker *Worker
	events Observers

	mu          sync.Mutex
	start, stop int
	current     int

	unsubscribe func()
}

// NewPlayer creates a player over the whole animation. worker may be nil.
func NewPlayer(a Animation, store *Store, worker *Worker) *Player {
	p := &Player{
		anim:   a,
		store:  store,
		worker: worker,
		stop:   a.Duration() - 1,
	}
	if p.stop < 0 {
		p.stop = 0
	}
	p.unsubscribe = a.Events().Subscribe(p.onAnimation)
	return p
}

// Close stops following animation changes.
func (p *Player) Close() {
	p.unsubscribe()
}

// Events returns the list Render events are emitted on.
func (p *Player) Events() *Observers {
	return &p.events
}

func (p *Player) onAnimation(e Event) {
	if e.Kind != DurationChanged {
		return
	}
	p.mu.Lock()
	last := max(e.Duration-1, 0)
	p.stop = min(p.stop, last)
	p.start = min(p.start, p.stop)
	if p.current > p.stop {
		p.current = p.start
	}
	p.mu.Unlock()
}

// Position returns the playhead.
func (p *Player) Position() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.current
}

// Range returns the first and last positions played.
func (p *Player) Range() (start, stop int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.start, p.stop
}

// SetRange limits playback to [start, stop]. A playhead outside the new
// range moves to start.
func (p *Player) SetRange(start, stop int) error {
	if start < 0 || stop < start || stop >= p.anim.Duration() {
		return fmt.Errorf("%w: range %d-%d", ErrOutOfRange, start, stop)
	}
	p.mu.Lock()
	p.start, p.stop = start, stop
	moved := p.current < start || p.current > stop
	p.mu.Unlock()

	if moved {
		p.Jump(start)
	}
	return nil
}

// Next advances the playhead, wrapping from the end of the range to its
// start.
func (p *Player) Next() int {
	p.mu.Lock()
	next := p.start + (p.current-p.start+1)%(p.stop-p.start+1)
	p.mu.Unlock()
	return p.Jump(next)
}

// Prev moves the playhead back, wrapping from the start of the range to
// its end.
func (p *Player) Prev() int {
	p.mu.Lock()
	prev := p.current - 1
	if p.current <= p.start {
		prev = p.stop
	}
	p.mu.Unlock()
	return p.Jump(prev)
}

// Jump moves the playhead to pos, or to the start of the range if pos is
// outside it, and returns the new position.
func (p *Player) Jump(pos int) int {
	p.mu.Lock()
	if pos < p.start || pos > p.stop {
		pos = p.start
	}
	prev := p.current
	p.current = pos
	p.mu.Unlock()

	if p.worker != nil {
		p.worker.SetPosition(pos)
	}
	p.events.Emit(Event{Kind: Render, Position: pos, Redraw: p.MustRedraw(prev, pos)})
	return pos
}

// MustRedraw reports whether moving from prev to next changes the shown
// pixels. It is false only when both positions share one cached frame.
func (p *Player) MustRedraw(prev, next int) bool {
	if p.anim.Duration() == 0 {
		return false
	}
	p.mu.Lock()
	outside := prev < p.start || prev > p.stop
	p.mu.Unlock()
	return outside || !p.store.Identical(prev, next)
}

// FrameInterval returns how long the frame at pos stays on screen.
func (p *Player) FrameInterval(pos int) time.Duration {
	if ft, ok := p.anim.(frameTimer); ok {
		return time.Duration(ft.FrameDuration(pos)) * time.Millisecond
	}
	return time.Duration(float64(time.Second) / p.anim.Framerate())
}

// Play advances the playhead at the animation's framerate until ctx is
// done. Deadlines are kept on an absolute schedule so slow frames do not
// accumulate drift.
func (p *Player) Play(ctx context.Context) error {
	deadline := time.Now()
	timer := time.NewTimer(0)
	defer timer.Stop()
	<-timer.C

	for {
		deadline = deadline.Add(p.FrameInterval(p.Position()))
		if wait := time.Until(deadline); wait > 0 {
			timer.Reset(wait)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-timer.C:
			}
		} else {
			// Running late: drop the schedule rather than spin.
			deadline = time.Now()
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		p.Next()
	}
}
