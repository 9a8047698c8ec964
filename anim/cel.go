// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package anim

import (
	"fmt"
	"image"
	"slices"
	"sync"
)

// Default cel animation settings.
const (
	DefaultCelDuration = 240
	BackgroundTitle    = "Background"
	NewTrackTitle      = "Name me"
)

// track is one level of a cel animation. cels[pos] lists the layers shown
// at pos, bottom first; the slice may be shorter than the animation.
type track struct {
	title string
	cels  [][]Tattoo
}

// Cel is a cel animation: each frame stacks the cels of every track,
// track 0 at the bottom, shifted by the camera offset of the frame.
//
// Every change that alters frame content emits CacheInvalidated for the
// affected positions; length changes emit DurationChanged. Events are
// emitted after the change is applied, outside the animation lock.
//
// Cel is safe for concurrent use.
type Cel struct {
	mu        sync.RWMutex
	framerate float64
	duration  int
	tracks    []*track
	comments  []string
	camera    []image.Point

	events Observers
}

// NewCel returns a cel animation of DefaultCelDuration frames with a
// background track and one empty track. A non-zero background tattoo is
// placed on every frame of the background track.
func NewCel(background Tattoo) *Cel {
	c := &Cel{
		framerate: DefaultFramerate,
		duration:  DefaultCelDuration,
		tracks: []*track{
			{title: BackgroundTitle},
			{title: NewTrackTitle},
		},
	}
	if background != 0 {
		bg := c.tracks[0]
		bg.cels = make([][]Tattoo, c.duration)
		for i := range bg.cels {
			bg.cels[i] = []Tattoo{background}
		}
	}
	return c
}

// Kind implements Animation.
func (c *Cel) Kind() Kind { return KindCel }

// Events implements Animation.
func (c *Cel) Events() *Observers { return &c.events }

// Duration implements Recipe.
func (c *Cel) Duration() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.duration
}

// Framerate implements Animation.
func (c *Cel) Framerate() float64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.framerate
}

// SetFramerate sets the playback rate. Non-positive rates reset it to
// DefaultFramerate.
func (c *Cel) SetFramerate(fps float64) {
	c.mu.Lock()
	c.framerate = clampFramerate(fps)
	c.mu.Unlock()
}

// Composition implements Recipe.
func (c *Cel) Composition(pos int) Signature {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if pos < 0 || pos >= c.duration {
		return nil
	}
	off := c.offsetLocked(pos)
	var sig Signature
	for _, t := range c.tracks {
		if pos < len(t.cels) {
			sig = append(sig, NewSignature(off.X, off.Y, t.cels[pos]...)...)
		}
	}
	return sig
}

// Same implements Animation.
func (c *Cel) Same(a, b int) bool {
	return sameComposition(c, a, b)
}

// Levels returns the number of tracks.
func (c *Cel) Levels() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.tracks)
}

// TrackTitle returns the title of a track, or "" if level does not exist.
func (c *Cel) TrackTitle(level int) string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if level < 0 || level >= len(c.tracks) {
		return ""
	}
	return c.tracks[level].title
}

// SetTrackTitle renames a track.
func (c *Cel) SetTrackTitle(level int, title string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if level < 0 || level >= len(c.tracks) {
		return levelError(level)
	}
	c.tracks[level].title = title
	return nil
}

// Layers returns a copy of the cel of a track at pos.
func (c *Cel) Layers(level, pos int) []Tattoo {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if level < 0 || level >= len(c.tracks) {
		return nil
	}
	t := c.tracks[level]
	if pos < 0 || pos >= len(t.cels) {
		return nil
	}
	return slices.Clone(t.cels[pos])
}

// SetLayers replaces the cel of a track at pos. An empty list clears it.
func (c *Cel) SetLayers(level, pos int, layers []Tattoo) error {
	c.mu.Lock()
	if level < 0 || level >= len(c.tracks) {
		c.mu.Unlock()
		return levelError(level)
	}
	if pos < 0 || pos >= c.duration {
		c.mu.Unlock()
		return positionError(pos)
	}
	t := c.tracks[level]
	t.grow(pos + 1)
	t.cels[pos] = slices.Clone(layers)
	c.mu.Unlock()

	c.events.Emit(Event{Kind: CacheInvalidated, Position: pos, Length: 1})
	return nil
}

// Comment returns the comment of the frame at pos.
func (c *Cel) Comment(pos int) string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if pos < 0 || pos >= len(c.comments) {
		return ""
	}
	return c.comments[pos]
}

// SetComment sets the comment of the frame at pos.
func (c *Cel) SetComment(pos int, text string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if pos < 0 || pos >= c.duration {
		return positionError(pos)
	}
	if pos >= len(c.comments) {
		c.comments = append(c.comments, make([]string, pos+1-len(c.comments))...)
	}
	c.comments[pos] = text
	return nil
}

// SetDuration changes the number of frames. Shrinking drops the cels,
// comments and camera offsets past the new end.
func (c *Cel) SetDuration(n int) {
	c.mu.Lock()
	changed := c.setDurationLocked(n)
	c.mu.Unlock()

	if changed {
		c.events.Emit(Event{Kind: DurationChanged, Duration: max(n, 0)})
	}
}

func (c *Cel) setDurationLocked(n int) bool {
	n = max(n, 0)
	if n < c.duration {
		for _, t := range c.tracks {
			if len(t.cels) > n {
				clear(t.cels[n:])
				t.cels = t.cels[:n]
			}
		}
		if len(c.comments) > n {
			c.comments = c.comments[:n]
		}
		if len(c.camera) > n {
			c.camera = c.camera[:n]
		}
	}
	if n == c.duration {
		return false
	}
	c.duration = n
	return true
}

// LevelAdd inserts an empty track at level. level may equal Levels() to
// append. No frame changes, so nothing is emitted.
func (c *Cel) LevelAdd(level int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if level < 0 || level > len(c.tracks) {
		return levelError(level)
	}
	c.tracks = slices.Insert(c.tracks, level, &track{title: NewTrackTitle})
	return nil
}

// LevelDelete removes a track. The last remaining track is never removed;
// it reports false in that case.
func (c *Cel) LevelDelete(level int) (bool, error) {
	c.mu.Lock()
	if level < 0 || level >= len(c.tracks) {
		c.mu.Unlock()
		return false, levelError(level)
	}
	if len(c.tracks) == 1 {
		c.mu.Unlock()
		return false, nil
	}
	t := c.tracks[level]
	c.tracks = slices.Delete(c.tracks, level, level+1)
	c.mu.Unlock()

	c.emitTrack(t)
	return true, nil
}

// LevelUp moves a track one level up and returns its new level. The top
// track stays in place.
func (c *Cel) LevelUp(level int) (int, error) {
	return c.moveLevel(level, 1)
}

// LevelDown moves a track one level down and returns its new level. The
// bottom track stays in place.
func (c *Cel) LevelDown(level int) (int, error) {
	return c.moveLevel(level, -1)
}

func (c *Cel) moveLevel(level, step int) (int, error) {
	c.mu.Lock()
	if level < 0 || level >= len(c.tracks) {
		c.mu.Unlock()
		return level, levelError(level)
	}
	to := level + step
	if to < 0 || to >= len(c.tracks) {
		c.mu.Unlock()
		return level, nil
	}
	c.tracks[level], c.tracks[to] = c.tracks[to], c.tracks[level]
	t := c.tracks[to]
	c.mu.Unlock()

	c.emitTrack(t)
	return to, nil
}

// emitTrack invalidates every position a moved or removed track covered.
func (c *Cel) emitTrack(t *track) {
	if n := len(t.cels); n > 0 {
		c.events.Emit(Event{Kind: CacheInvalidated, Position: 0, Length: n})
	}
}

// CelAdd inserts a cel into a track at pos, shifting the following cels
// one frame later. With dup the new cel copies the one before it. The
// animation grows when the shift pushes a non-empty cel past its end.
func (c *Cel) CelAdd(level, pos int, dup bool) error {
	c.mu.Lock()
	if level < 0 || level >= len(c.tracks) {
		c.mu.Unlock()
		return levelError(level)
	}
	if pos < 0 {
		c.mu.Unlock()
		return positionError(pos)
	}
	t := c.tracks[level]
	t.grow(pos)

	var contents []Tattoo
	if dup && pos > 0 {
		contents = slices.Clone(t.cels[pos-1])
	}
	t.cels = slices.Insert(t.cels, pos, contents)

	var events []Event
	if n := len(t.cels); n > c.duration && len(t.cels[n-1]) > 0 {
		if c.setDurationLocked(n) {
			events = append(events, Event{Kind: DurationChanged, Duration: n})
		}
	}
	// Positions from pos on changed, clipped to the animation.
	if end := min(len(t.cels), c.duration); end > pos {
		events = append(events, Event{Kind: CacheInvalidated, Position: pos, Length: end - pos})
	}
	c.mu.Unlock()

	for _, e := range events {
		c.events.Emit(e)
	}
	return nil
}

// CelDelete removes the cel of a track at pos, shifting the following
// cels one frame earlier.
func (c *Cel) CelDelete(level, pos int) error {
	c.mu.Lock()
	if level < 0 || level >= len(c.tracks) {
		c.mu.Unlock()
		return levelError(level)
	}
	t := c.tracks[level]
	if pos < 0 || pos >= len(t.cels) {
		c.mu.Unlock()
		return positionError(pos)
	}
	end := min(len(t.cels), c.duration)
	t.cels = slices.Delete(t.cels, pos, pos+1)
	c.mu.Unlock()

	if end > pos {
		c.events.Emit(Event{Kind: CacheInvalidated, Position: pos, Length: end - pos})
	}
	return nil
}

// CameraOffset returns the camera offset of the frame at pos.
func (c *Cel) CameraOffset(pos int) image.Point {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.offsetLocked(pos)
}

func (c *Cel) offsetLocked(pos int) image.Point {
	if pos < 0 || pos >= len(c.camera) {
		return image.Point{}
	}
	return c.camera[pos]
}

// SetCameraOffset moves the camera of n frames starting at pos.
func (c *Cel) SetCameraOffset(pos, n int, off image.Point) error {
	c.mu.Lock()
	if pos < 0 || n < 0 || pos+n > c.duration {
		c.mu.Unlock()
		return positionError(pos)
	}
	if len(c.camera) < pos+n {
		c.camera = append(c.camera, make([]image.Point, pos+n-len(c.camera))...)
	}
	for i := pos; i < pos+n; i++ {
		c.camera[i] = off
	}
	c.mu.Unlock()

	if n > 0 {
		c.events.Emit(Event{Kind: CacheInvalidated, Position: pos, Length: n})
	}
	return nil
}

// Purge announces that every frame must be rendered again, for instance
// after source layer pixels changed.
func (c *Cel) Purge() {
	n := c.Duration()
	if n > 0 {
		c.events.Emit(Event{Kind: CacheInvalidated, Position: 0, Length: n})
	}
}

// grow extends the track with empty cels up to n.
func (t *track) grow(n int) {
	if len(t.cels) < n {
		t.cels = append(t.cels, make([][]Tattoo, n-len(t.cels))...)
	}
}

func levelError(level int) error {
	return fmt.Errorf("%w: level %d", ErrOutOfRange, level)
}

func positionError(pos int) error {
	return fmt.Errorf("%w: %d", ErrOutOfRange, pos)
}
