// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package anim

import (
	"encoding/xml"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	"golang.org/x/net/html/charset"

	"github.com/gogpu/livewire"
)

// MaxFramerate bounds the framerate read from recipes.
const MaxFramerate = 300.0

// xmlAnimation is a recipe document. It stores what every frame is made
// of, never the rendered pixels.
type xmlAnimation struct {
	XMLName   xml.Name      `xml:"animation"`
	Type      string        `xml:"type,attr"`
	Framerate string        `xml:"framerate,attr,omitempty"`
	Duration  string        `xml:"duration,attr,omitempty"`
	Sequences []xmlSequence `xml:"sequence"`
	Comments  *xmlComments  `xml:"comments"`
}

type xmlSequence struct {
	Name   string     `xml:"name,attr,omitempty"`
	Frames []xmlFrame `xml:"frame"`
	Panels []xmlPanel `xml:"panel"`
}

type xmlFrame struct {
	Position *int       `xml:"position,attr"`
	Duration *int       `xml:"duration,attr"`
	Layers   []xmlLayer `xml:"layer"`
}

type xmlLayer struct {
	ID Tattoo `xml:"id,attr"`
}

type xmlPanel struct {
	Layer    Tattoo `xml:"layer,attr"`
	Duration int    `xml:"duration,attr"`
}

type xmlComments struct {
	Title    string       `xml:"title,attr"`
	Comments []xmlComment `xml:"comment"`
}

type xmlComment struct {
	Position *int   `xml:"frame-position,attr,omitempty"`
	Panel    *int   `xml:"panel,attr,omitempty"`
	Text     string `xml:",chardata"`
}

// LoadRecipe reads a cels or animatic recipe. Documents in encodings other
// than UTF-8 are decoded according to their XML declaration. Malformed
// recipes fail with ErrInvalidRecipe and nothing is built.
func LoadRecipe(r io.Reader) (Animation, error) {
	dec := xml.NewDecoder(r)
	dec.CharsetReader = charset.NewReaderLabel

	var doc xmlAnimation
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRecipe, err)
	}

	var (
		a   Animation
		err error
	)
	switch doc.Type {
	case KindCel.String():
		a, err = celFromXML(&doc)
	case KindAnimatic.String():
		a, err = animaticFromXML(&doc)
	default:
		err = recipeError("unknown animation type %q", doc.Type)
	}
	if err != nil {
		return nil, err
	}

	livewire.Logger().Info("anim: recipe loaded",
		"type", doc.Type, "duration", a.Duration(), "framerate", a.Framerate())
	return a, nil
}

func recipeError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidRecipe, fmt.Sprintf(format, args...))
}

// parseFramerate reads a framerate attribute leniently: missing, invalid
// or non-positive values give DefaultFramerate, and huge ones are capped.
func parseFramerate(s string) float64 {
	fps, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || fps <= 0 {
		return DefaultFramerate
	}
	return min(fps, MaxFramerate)
}

func parseDuration(s string) (int, bool, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, false, recipeError("bad duration %q", s)
	}
	if n > MaxFrames {
		return 0, false, recipeError("duration %d exceeds %d frames", n, MaxFrames)
	}
	return n, true, nil
}

func celFromXML(doc *xmlAnimation) (*Cel, error) {
	duration, explicit, err := parseDuration(doc.Duration)
	if err != nil {
		return nil, err
	}
	if len(doc.Sequences) == 0 {
		return nil, recipeError("no <sequence>")
	}

	c := &Cel{framerate: parseFramerate(doc.Framerate)}
	for _, seq := range doc.Sequences {
		if len(seq.Panels) > 0 {
			return nil, recipeError("<panel> in a cels recipe")
		}
		t := &track{title: seq.Name}
		for _, f := range seq.Frames {
			if f.Position == nil || f.Duration == nil || *f.Position < 0 || *f.Duration <= 0 {
				return nil, recipeError("<frame> needs position >= 0 and duration > 0")
			}
			if *f.Position > MaxFrames || *f.Duration > MaxFrames-*f.Position {
				return nil, recipeError("frame %d+%d exceeds %d frames", *f.Position, *f.Duration, MaxFrames)
			}
			end := *f.Position + *f.Duration
			if explicit && end > duration {
				return nil, recipeError("frame %d-%d past duration %d", *f.Position, end-1, duration)
			}
			t.grow(end)
			for pos := *f.Position; pos < end; pos++ {
				for _, l := range f.Layers {
					t.cels[pos] = append(t.cels[pos], l.ID)
				}
			}
			if !explicit {
				duration = max(duration, end)
			}
		}
		c.tracks = append(c.tracks, t)
	}
	c.duration = duration

	if doc.Comments != nil {
		for _, cm := range doc.Comments.Comments {
			if cm.Position == nil {
				continue
			}
			if err := c.SetComment(*cm.Position, cm.Text); err != nil {
				return nil, fmt.Errorf("%w: comment: %v", ErrInvalidRecipe, err)
			}
		}
	}
	return c, nil
}

func animaticFromXML(doc *xmlAnimation) (*Animatic, error) {
	duration, explicit, err := parseDuration(doc.Duration)
	if err != nil {
		return nil, err
	}

	var panels []Panel
	total := 0
	for _, seq := range doc.Sequences {
		if len(seq.Frames) > 0 {
			return nil, recipeError("<frame> in an animatic recipe")
		}
		for _, p := range seq.Panels {
			if p.Duration <= 0 {
				return nil, recipeError("panel %d needs duration > 0", len(panels))
			}
			if p.Duration > MaxFrames-total {
				return nil, recipeError("panels exceed %d frames", MaxFrames)
			}
			total += p.Duration
			panels = append(panels, Panel{Tattoo: p.Layer, Duration: p.Duration})
		}
	}
	if doc.Comments != nil {
		for _, cm := range doc.Comments.Comments {
			if cm.Panel == nil {
				continue
			}
			if *cm.Panel < 0 || *cm.Panel >= len(panels) {
				return nil, recipeError("comment for missing panel %d", *cm.Panel)
			}
			panels[*cm.Panel].Comment = cm.Text
		}
	}

	a := NewAnimatic(panels...)
	a.framerate = parseFramerate(doc.Framerate)
	if explicit && duration != a.Duration() {
		return nil, recipeError("duration %d, panels last %d", duration, a.Duration())
	}
	return a, nil
}

// Serialize writes the animation as a cels recipe. Runs of identical
// consecutive cels are merged into one <frame> and empty cels are left
// out.
func (c *Cel) Serialize(w io.Writer) error {
	c.mu.RLock()
	doc := xmlAnimation{
		Type:      KindCel.String(),
		Framerate: formatFramerate(c.framerate),
		Duration:  strconv.Itoa(c.duration),
		Comments:  &xmlComments{},
	}
	for _, t := range c.tracks {
		seq := xmlSequence{Name: t.title}
		run := 0
		for pos, cel := range t.cels {
			if len(cel) == 0 {
				continue
			}
			run++
			if pos+1 < len(t.cels) && len(t.cels[pos+1]) > 0 && slices.Equal(cel, t.cels[pos+1]) {
				continue
			}
			start, n := pos+1-run, run
			f := xmlFrame{Position: &start, Duration: &n}
			for _, id := range cel {
				f.Layers = append(f.Layers, xmlLayer{ID: id})
			}
			seq.Frames = append(seq.Frames, f)
			run = 0
		}
		doc.Sequences = append(doc.Sequences, seq)
	}
	for pos, text := range c.comments {
		if text != "" {
			p := pos
			doc.Comments.Comments = append(doc.Comments.Comments, xmlComment{Position: &p, Text: text})
		}
	}
	c.mu.RUnlock()

	return encodeRecipe(w, &doc)
}

// Serialize writes the animation as an animatic recipe.
func (a *Animatic) Serialize(w io.Writer) error {
	a.mu.RLock()
	doc := xmlAnimation{
		Type:      KindAnimatic.String(),
		Framerate: formatFramerate(a.framerate),
		Duration:  strconv.Itoa(a.starts[len(a.panels)]),
		Sequences: []xmlSequence{{}},
		Comments:  &xmlComments{},
	}
	for i, p := range a.panels {
		doc.Sequences[0].Panels = append(doc.Sequences[0].Panels, xmlPanel{Layer: p.Tattoo, Duration: p.Duration})
		if p.Comment != "" {
			n := i
			doc.Comments.Comments = append(doc.Comments.Comments, xmlComment{Panel: &n, Text: p.Comment})
		}
	}
	a.mu.RUnlock()

	return encodeRecipe(w, &doc)
}

func formatFramerate(fps float64) string {
	return strconv.FormatFloat(fps, 'f', 6, 64)
}

func encodeRecipe(w io.Writer, doc *xmlAnimation) error {
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("anim: write recipe: %w", err)
	}
	return enc.Close()
}
