// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package anim

import (
	"testing"
)

func TestSignatureKey(t *testing.T) {
	tests := []struct {
		name string
		sig  Signature
		want string
	}{
		{"empty", nil, ""},
		{"zero tattoos skipped", NewSignature(0, 0, 0, 3, 0), "3@0,0"},
		{"offsets", NewSignature(-2, 5, 1, 2), "1@-2,5|2@-2,5"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.sig.Key(); got != tt.want {
				t.Errorf("Key() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSignatureEqualAndKey(t *testing.T) {
	a := NewSignature(0, 0, 1, 2)
	b := NewSignature(0, 0, 1, 2)
	c := NewSignature(0, 0, 2, 1)
	d := NewSignature(1, 0, 1, 2)

	if !a.Equal(b) || a.Key() != b.Key() {
		t.Error("equal signatures differ")
	}
	if a.Equal(c) {
		t.Error("layer order ignored")
	}
	if a.Equal(d) || a.Key() == d.Key() {
		t.Error("offset ignored")
	}
	if got := c.Tattoos(); len(got) != 2 || got[0] != 2 || got[1] != 1 {
		t.Errorf("Tattoos() = %v, want [2 1]", got)
	}
}

func TestObservers(t *testing.T) {
	var obs Observers
	var order []int

	cancel1 := obs.Subscribe(func(Event) { order = append(order, 1) })
	obs.Subscribe(func(Event) { order = append(order, 2) })
	obs.Emit(Event{Kind: Render})

	cancel1()
	cancel1()
	obs.Emit(Event{Kind: Render})

	if want := []int{1, 2, 2}; len(order) != 3 || order[0] != want[0] || order[1] != want[1] || order[2] != want[2] {
		t.Errorf("calls = %v, want %v", order, want)
	}
	if got := obs.Len(); got != 1 {
		t.Errorf("Len() = %d, want 1", got)
	}
}

func TestObserversReentrant(t *testing.T) {
	var obs Observers
	calls := 0
	obs.Subscribe(func(Event) {
		calls++
		// Subscribing from a callback must not deadlock.
		obs.Subscribe(func(Event) {})
	})
	obs.Emit(Event{})
	if calls != 1 || obs.Len() != 2 {
		t.Errorf("calls = %d, Len() = %d, want 1, 2", calls, obs.Len())
	}
}

func TestKindStrings(t *testing.T) {
	tests := []struct {
		got, want string
	}{
		{CacheUpdated.String(), "CacheUpdated"},
		{CacheInvalidated.String(), "CacheInvalidated"},
		{DurationChanged.String(), "DurationChanged"},
		{Render.String(), "Render"},
		{EventKind(7).String(), "EventKind(7)"},
		{KindLegacy.String(), "legacy"},
		{KindAnimatic.String(), "animatic"},
		{KindCel.String(), "cels"},
		{Kind(5).String(), "Kind(5)"},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("String() = %q, want %q", tt.got, tt.want)
		}
	}
}
