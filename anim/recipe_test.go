// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package anim

import (
	"bytes"
	"errors"
	"slices"
	"strings"
	"testing"
)

func TestCelRecipeRoundTrip(t *testing.T) {
	c := NewCel(0)
	c.SetFramerate(12)
	c.SetDuration(10)
	for pos := 2; pos < 5; pos++ {
		_ = c.SetLayers(0, pos, []Tattoo{3})
	}
	_ = c.SetLayers(0, 5, []Tattoo{4})
	_ = c.SetLayers(1, 7, []Tattoo{5, 6})
	_ = c.SetTrackTitle(1, "hero & co")
	_ = c.SetComment(4, "<beat>")

	var buf bytes.Buffer
	if err := c.Serialize(&buf); err != nil {
		t.Fatalf("Serialize() error = %v", err)
	}
	out := buf.String()
	if n := strings.Count(out, "<frame "); n != 3 {
		t.Errorf("serialized %d <frame> elements, want 3 (runs merged):\n%s", n, out)
	}
	if !strings.Contains(out, `position="2" duration="3"`) {
		t.Errorf("merged run missing:\n%s", out)
	}

	a, err := LoadRecipe(&buf)
	if err != nil {
		t.Fatalf("LoadRecipe() error = %v", err)
	}
	got, ok := a.(*Cel)
	if !ok {
		t.Fatalf("LoadRecipe() = %T, want *Cel", a)
	}

	if got.Duration() != 10 || got.Framerate() != 12 || got.Levels() != 2 {
		t.Errorf("loaded duration %d framerate %v levels %d", got.Duration(), got.Framerate(), got.Levels())
	}
	if got.TrackTitle(1) != "hero & co" {
		t.Errorf("TrackTitle(1) = %q", got.TrackTitle(1))
	}
	if got.Comment(4) != "<beat>" {
		t.Errorf("Comment(4) = %q", got.Comment(4))
	}
	for pos := range 10 {
		if !got.Composition(pos).Equal(c.Composition(pos)) {
			t.Errorf("Composition(%d) = %v, want %v", pos, got.Composition(pos), c.Composition(pos))
		}
	}
}

func TestAnimaticRecipeRoundTrip(t *testing.T) {
	a := NewAnimatic(
		Panel{Tattoo: 1, Duration: 3, Comment: "wide"},
		Panel{Tattoo: 2, Duration: 1},
		Panel{Tattoo: 1, Duration: 2},
	)

	var buf bytes.Buffer
	if err := a.Serialize(&buf); err != nil {
		t.Fatal(err)
	}
	loaded, err := LoadRecipe(&buf)
	if err != nil {
		t.Fatalf("LoadRecipe() error = %v", err)
	}
	got, ok := loaded.(*Animatic)
	if !ok {
		t.Fatalf("LoadRecipe() = %T, want *Animatic", loaded)
	}
	if !slices.Equal(got.Panels(), a.Panels()) {
		t.Errorf("Panels() = %+v, want %+v", got.Panels(), a.Panels())
	}
	if got.Duration() != 6 {
		t.Errorf("Duration() = %d, want 6", got.Duration())
	}
}

func TestLoadRecipeCharset(t *testing.T) {
	// "Décor" in ISO-8859-1.
	doc := "<?xml version=\"1.0\" encoding=\"ISO-8859-1\"?>" +
		"<animation type=\"cels\" duration=\"2\"><sequence name=\"D\xe9cor\">" +
		"<frame position=\"0\" duration=\"2\"><layer id=\"9\"/></frame></sequence></animation>"

	a, err := LoadRecipe(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("LoadRecipe() error = %v", err)
	}
	c := a.(*Cel)
	if got := c.TrackTitle(0); got != "Décor" {
		t.Errorf("TrackTitle(0) = %q, want %q", got, "Décor")
	}
	if got := c.Framerate(); got != DefaultFramerate {
		t.Errorf("Framerate() = %v, want default", got)
	}
	if !c.Same(0, 1) {
		t.Error("Same(0, 1) = false")
	}
}

func TestLoadRecipeFramerate(t *testing.T) {
	tests := []struct {
		attr string
		want float64
	}{
		{"30", 30},
		{"0", DefaultFramerate},
		{"-5", DefaultFramerate},
		{"fast", DefaultFramerate},
		{"1000", MaxFramerate},
	}
	for _, tt := range tests {
		t.Run(tt.attr, func(t *testing.T) {
			doc := `<animation type="cels" framerate="` + tt.attr + `"><sequence/></animation>`
			a, err := LoadRecipe(strings.NewReader(doc))
			if err != nil {
				t.Fatal(err)
			}
			if got := a.Framerate(); got != tt.want {
				t.Errorf("Framerate() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLoadRecipeInvalid(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"not xml", "animation"},
		{"wrong root", `<movie type="cels"/>`},
		{"unknown type", `<animation type="legacy"><sequence/></animation>`},
		{"no sequence", `<animation type="cels" duration="3"/>`},
		{"frame without duration", `<animation type="cels"><sequence><frame position="0"/></sequence></animation>`},
		{"negative position", `<animation type="cels"><sequence><frame position="-1" duration="2"/></sequence></animation>`},
		{"frame past duration", `<animation type="cels" duration="2"><sequence><frame position="1" duration="2"/></sequence></animation>`},
		{"bad duration", `<animation type="cels" duration="x"><sequence/></animation>`},
		{"comment past end", `<animation type="cels" duration="2"><sequence/><comments><comment frame-position="5">x</comment></comments></animation>`},
		{"panel duration", `<animation type="animatic"><sequence><panel layer="1" duration="0"/></sequence></animation>`},
		{"animatic length", `<animation type="animatic" duration="4"><sequence><panel layer="1" duration="2"/></sequence></animation>`},
		{"duration too long", `<animation type="cels" duration="65537"><sequence/></animation>`},
		{"frame too far", `<animation type="cels"><sequence><frame position="1000000000" duration="1"/></sequence></animation>`},
		{"frame too long", `<animation type="cels"><sequence><frame position="10" duration="65530"/></sequence></animation>`},
		{"panels too long", `<animation type="animatic"><sequence><panel layer="1" duration="40000"/><panel layer="2" duration="40000"/></sequence></animation>`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := LoadRecipe(strings.NewReader(tt.doc))
			if !errors.Is(err, ErrInvalidRecipe) {
				t.Errorf("LoadRecipe() error = %v, want ErrInvalidRecipe", err)
			}
			if a != nil {
				t.Errorf("LoadRecipe() = %v, want nil", a)
			}
		})
	}
}

func TestLoadRecipeDurationFromFrames(t *testing.T) {
	doc := `<animation type="cels"><sequence name="bg"><frame position="3" duration="4"><layer id="2"/></frame></sequence></animation>`
	a, err := LoadRecipe(strings.NewReader(doc))
	if err != nil {
		t.Fatal(err)
	}
	if got := a.Duration(); got != 7 {
		t.Errorf("Duration() = %d, want 7", got)
	}
	if got := a.Composition(2); len(got) != 0 {
		t.Errorf("Composition(2) = %v, want empty", got)
	}
	if got := a.Composition(6); !got.Equal(sig(2)) {
		t.Errorf("Composition(6) = %v, want [2]", got)
	}
}
