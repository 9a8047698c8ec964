// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package anim

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"golang.org/x/text/cases"
)

// Disposal selects how legacy frames are built from the layer stack.
type Disposal int

const (
	// Combine draws each layer over the previous frame.
	Combine Disposal = iota
	// Replace shows each layer on its own.
	Replace
	// Tags places layers on the frames listed in their names, such as
	// "[1-3,5]" or "[*]" for every frame.
	Tags
)

// String returns the disposal name.
func (d Disposal) String() string {
	switch d {
	case Combine:
		return "combine"
	case Replace:
		return "replace"
	case Tags:
		return "tags"
	default:
		return fmt.Sprintf("Disposal(%d)", int(d))
	}
}

// LegacyLayer is a source layer of a legacy animation.
type LegacyLayer struct {
	Tattoo Tattoo
	Name   string
}

var (
	msTag     = regexp.MustCompile(`\( *([0-9]+) *ms *\)`)
	framesTag = regexp.MustCompile(`\[(([0-9]+(-[0-9]+)?)(,[0-9]+(-[0-9]+)?)*)\]`)
	allTag    = regexp.MustCompile(`\[\*\]`)
	blanks    = strings.NewReplacer(" ", "", "\t", "")
	folder    = cases.Fold()
)

// legacyFrame is one computed frame of a legacy animation.
type legacyFrame struct {
	sig      Signature
	duration int // milliseconds, 0 for the framerate
}

// Legacy is the layer-stack animation: frames come straight from the
// layers of an image, bottom layer first, and the layer names carry
// per-frame tags.
//
// Legacy is safe for concurrent use.
type Legacy struct {
	mu        sync.RWMutex
	layers    []LegacyLayer
	disposal  Disposal
	framerate float64
	frames    []legacyFrame
	first     int

	events Observers
}

// NewLegacy builds a legacy animation from layers listed bottom first.
func NewLegacy(layers []LegacyLayer, disposal Disposal) *Legacy {
	l := &Legacy{
		layers:    layers,
		disposal:  disposal,
		framerate: DefaultFramerate,
	}
	l.frames, l.first = buildLegacy(layers, disposal)
	return l
}

// Kind implements Animation.
func (l *Legacy) Kind() Kind { return KindLegacy }

// Events implements Animation.
func (l *Legacy) Events() *Observers { return &l.events }

// Duration implements Recipe.
func (l *Legacy) Duration() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.frames)
}

// Composition implements Recipe.
func (l *Legacy) Composition(pos int) Signature {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if pos < 0 || pos >= len(l.frames) {
		return nil
	}
	return l.frames[pos].sig
}

// Same implements Animation.
func (l *Legacy) Same(a, b int) bool {
	return sameComposition(l, a, b)
}

// Framerate implements Animation.
func (l *Legacy) Framerate() float64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.framerate
}

// SetFramerate sets the playback rate. Non-positive rates reset it to
// DefaultFramerate.
func (l *Legacy) SetFramerate(fps float64) {
	l.mu.Lock()
	l.framerate = clampFramerate(fps)
	l.mu.Unlock()
}

// Disposal returns the frame building mode.
func (l *Legacy) Disposal() Disposal {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.disposal
}

// FirstFrame returns the frame number of position 0. It is 1 unless the
// animation uses frame tags, where it is the lowest tagged number.
func (l *Legacy) FirstFrame() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.first
}

// FrameDuration returns how long the frame at pos is shown, in
// milliseconds.
func (l *Legacy) FrameDuration(pos int) int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if pos >= 0 && pos < len(l.frames) && l.frames[pos].duration > 0 {
		return l.frames[pos].duration
	}
	return int(math.Round(1000 / l.framerate))
}

// Reload rebuilds the frames from new layers and disposal, and announces
// the change.
func (l *Legacy) Reload(layers []LegacyLayer, disposal Disposal) {
	l.mu.Lock()
	l.layers = layers
	l.disposal = disposal
	l.frames, l.first = buildLegacy(layers, disposal)
	n := len(l.frames)
	l.mu.Unlock()

	l.events.Emit(Event{Kind: DurationChanged, Duration: n})
	l.events.Emit(Event{Kind: CacheInvalidated, Position: 0, Length: n})
}

func buildLegacy(layers []LegacyLayer, disposal Disposal) ([]legacyFrame, int) {
	if disposal == Tags {
		return buildTagged(layers)
	}

	frames := make([]legacyFrame, len(layers))
	for i, layer := range layers {
		mode := layerDisposal(layer.Name, disposal)

		var sig Signature
		if i > 0 && mode != Replace {
			sig = append(sig, frames[i-1].sig...)
		}
		sig = append(sig, NewSignature(0, 0, layer.Tattoo)...)
		frames[i] = legacyFrame{sig: sig, duration: layerDuration(layer.Name)}
	}
	return frames, 1
}

func buildTagged(layers []LegacyLayer) ([]legacyFrame, int) {
	type placement struct {
		tattoo Tattoo
		all    bool
		ranges [][2]int
	}

	lo, hi := math.MaxInt, math.MinInt
	places := make([]placement, 0, len(layers))
	for _, layer := range layers {
		name := blanks.Replace(layer.Name)
		p := placement{tattoo: layer.Tattoo, all: allTag.MatchString(name)}
		if !p.all {
			p.ranges = frameRanges(name)
		}
		for _, r := range p.ranges {
			lo = min(lo, r[0])
			hi = max(hi, r[1])
		}
		places = append(places, p)
	}
	if hi < lo {
		return nil, 0
	}

	n := hi - lo + 1
	frames := make([]legacyFrame, n)
	tagged := make([]bool, n)
	for _, p := range places {
		if p.tattoo == 0 {
			continue
		}
		if p.all {
			for i := range frames {
				frames[i].sig = append(frames[i].sig, CompLayer{Tattoo: p.tattoo})
				tagged[i] = true
			}
			continue
		}
		for _, r := range p.ranges {
			for f := r[0]; f <= r[1]; f++ {
				i := f - lo
				if hasTattoo(frames[i].sig, p.tattoo) {
					continue
				}
				frames[i].sig = append(frames[i].sig, CompLayer{Tattoo: p.tattoo})
				tagged[i] = true
			}
		}
	}

	// A frame no layer is tagged for repeats the previous one.
	for i := 1; i < n; i++ {
		if !tagged[i] {
			frames[i].sig = frames[i-1].sig
		}
	}
	return frames, lo
}

// frameRanges returns the inclusive frame ranges of every tag in name.
// A range whose end precedes its start is empty and ignored, as is one
// reaching past MaxFrames.
func frameRanges(name string) [][2]int {
	var out [][2]int
	for _, m := range framesTag.FindAllStringSubmatch(name, -1) {
		for _, tok := range strings.Split(m[1], ",") {
			a, b, isRange := strings.Cut(tok, "-")
			first, err := strconv.Atoi(a)
			if err != nil {
				continue
			}
			last := first
			if isRange {
				if last, err = strconv.Atoi(b); err != nil || last < first {
					continue
				}
			}
			if first < 0 || last >= MaxFrames {
				continue
			}
			out = append(out, [2]int{first, last})
		}
	}
	return out
}

// layerDuration returns the "(NNNms)" tag of a layer name, or 0.
func layerDuration(name string) int {
	m := msTag.FindStringSubmatch(folder.String(name))
	if m == nil {
		return 0
	}
	ms, err := strconv.Atoi(m[1])
	if err != nil {
		return 0
	}
	return ms
}

// layerDisposal returns the mode named by a trailing "(combine)" or
// "(replace)" tag, or def.
func layerDisposal(name string, def Disposal) Disposal {
	folded := folder.String(strings.TrimSpace(name))
	switch {
	case strings.HasSuffix(folded, "(combine)"):
		return Combine
	case strings.HasSuffix(folded, "(replace)"):
		return Replace
	default:
		return def
	}
}

func hasTattoo(sig Signature, t Tattoo) bool {
	for _, l := range sig {
		if l.Tattoo == t {
			return true
		}
	}
	return false
}
