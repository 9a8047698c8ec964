// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package anim

import (
	"context"
	"errors"
	"image"
	"image/color"
	"image/draw"
	"testing"

	"github.com/gogpu/livewire"
)

func solidLayer(w, h int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)
	return img
}

var (
	red  = color.NRGBA{R: 255, A: 255}
	blue = color.NRGBA{B: 255, A: 255}
)

func TestCompositorStacksLayers(t *testing.T) {
	src := Layers{
		1: {Image: solidLayer(8, 8, red)},
		2: {Image: solidLayer(2, 2, blue), Offset: image.Pt(3, 3)},
	}
	c, err := NewCompositor(src, 8, 8)
	if err != nil {
		t.Fatal(err)
	}

	img, err := c.Render(context.Background(), Signature{
		{Tattoo: 1},
		{Tattoo: 2, OffsetX: 1, OffsetY: 0},
	})
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	tests := []struct {
		x, y int
		want color.NRGBA
	}{
		{0, 0, red},
		{4, 3, blue},
		{5, 4, blue},
		{3, 3, red},
		{6, 5, red},
	}
	for _, tt := range tests {
		if got := img.NRGBAAt(tt.x, tt.y); got != tt.want {
			t.Errorf("At(%d, %d) = %v, want %v", tt.x, tt.y, got, tt.want)
		}
	}
}

func TestCompositorMissingLayer(t *testing.T) {
	c, _ := NewCompositor(Layers{1: {Image: solidLayer(1, 1, red)}}, 4, 4)
	_, err := c.Render(context.Background(), sig(1, 2))
	if !errors.Is(err, ErrMissingLayer) {
		t.Errorf("Render() error = %v, want ErrMissingLayer", err)
	}
}

func TestCompositorCanceled(t *testing.T) {
	c, _ := NewCompositor(Layers{1: {Image: solidLayer(1, 1, red)}}, 4, 4)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := c.Render(ctx, sig(1)); !errors.Is(err, context.Canceled) {
		t.Errorf("Render() error = %v, want context.Canceled", err)
	}
}

func TestCompositorProxy(t *testing.T) {
	src := Layers{1: {Image: solidLayer(8, 8, red), Offset: image.Pt(4, 0)}}
	c, err := NewCompositor(src, 16, 8, WithProxyRatio(0.5))
	if err != nil {
		t.Fatal(err)
	}
	if w, h := c.Size(); w != 8 || h != 4 {
		t.Fatalf("Size() = %d, %d, want 8, 4", w, h)
	}

	img, err := c.Render(context.Background(), sig(1))
	if err != nil {
		t.Fatal(err)
	}
	if got := img.Bounds(); got != image.Rect(0, 0, 8, 4) {
		t.Errorf("Bounds() = %v", got)
	}
	if got := img.NRGBAAt(1, 1); got.A != 0 {
		t.Errorf("At(1, 1) = %v, want transparent", got)
	}
	if got := img.NRGBAAt(3, 2); got != red {
		t.Errorf("At(3, 2) = %v, want red", got)
	}

	// The scaled layer is reused until forgotten.
	before := c.scaled.Stats()
	_, _ = c.Render(context.Background(), sig(1))
	if after := c.scaled.Stats(); after.Hits != before.Hits+1 {
		t.Errorf("scaled cache hits = %d, want %d", after.Hits, before.Hits+1)
	}
	c.Forget(1)
	if c.scaled.Len() != 0 {
		t.Errorf("scaled cache Len() = %d after Forget", c.scaled.Len())
	}
}

func TestNewCompositorInvalid(t *testing.T) {
	if _, err := NewCompositor(Layers{}, 0, 4); !errors.Is(err, livewire.ErrInvalidDimensions) {
		t.Errorf("NewCompositor(0, 4) error = %v, want ErrInvalidDimensions", err)
	}
}

func TestCompositorWithStore(t *testing.T) {
	src := Layers{
		1: {Image: solidLayer(4, 4, red)},
		2: {Image: solidLayer(4, 4, blue)},
	}
	comp, _ := NewCompositor(src, 4, 4)
	store := NewStore(newFixedRecipe(sig(1), sig(1), sig(2)), comp)

	ctx := context.Background()
	for pos := range 3 {
		if _, err := store.GetOrRender(ctx, pos); err != nil {
			t.Fatal(err)
		}
	}
	if !store.Identical(0, 1) || store.Identical(0, 2) {
		t.Error("Identical() does not follow signatures")
	}
	if got := store.Live(); got != 2 {
		t.Errorf("Live() = %d, want 2", got)
	}
	if got := store.Frame(2).Image.NRGBAAt(0, 0); got != blue {
		t.Errorf("frame 2 pixel = %v, want blue", got)
	}
}
