// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package anim

import (
	"context"
	"fmt"
	"image"
	"math"

	"golang.org/x/image/draw"

	"github.com/gogpu/livewire"
	"github.com/gogpu/livewire/internal/cache"
)

// LayerSource resolves layer tattoos to pixels.
type LayerSource interface {
	// Layer returns the layer's image and its offset in the frame, or
	// false if no layer carries the tattoo.
	Layer(t Tattoo) (img image.Image, offset image.Point, ok bool)
}

// Layer is a source image placed at an offset.
type Layer struct {
	Image  image.Image
	Offset image.Point
}

// Layers is a LayerSource backed by a map. It must not be modified while a
// Compositor renders from it.
type Layers map[Tattoo]Layer

// Layer implements LayerSource.
func (l Layers) Layer(t Tattoo) (image.Image, image.Point, bool) {
	layer, ok := l[t]
	if !ok || layer.Image == nil {
		return nil, image.Point{}, false
	}
	return layer.Image, layer.Offset, true
}

// Compositor renders signatures by blending source layers bottom to top.
// With a proxy ratio below 1 frames are rendered scaled down, and scaled
// layers are kept in a bounded cache.
//
// Compositor implements Renderer and is safe for concurrent use.
type Compositor struct {
	src           LayerSource
	width, height int
	opts          compositorOptions
	scaled        *cache.Cache[Tattoo, image.Image]
}

// NewCompositor creates a compositor producing width x height frames.
func NewCompositor(src LayerSource, width, height int, opts ...CompositorOption) (*Compositor, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("anim: compositor %dx%d: %w", width, height, livewire.ErrInvalidDimensions)
	}
	o := defaultCompositorOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Compositor{
		src:    src,
		width:  width,
		height: height,
		opts:   o,
		scaled: cache.New[Tattoo, image.Image](o.scaleCache),
	}, nil
}

// Size returns the size of rendered frames after proxy scaling.
func (c *Compositor) Size() (int, int) {
	return c.scale(c.width), c.scale(c.height)
}

// Forget drops the scaled copy of a layer whose pixels changed.
func (c *Compositor) Forget(t Tattoo) {
	c.scaled.Delete(t)
}

func (c *Compositor) scale(v int) int {
	if c.opts.proxy == 1 {
		return v
	}
	return max(1, int(math.Round(float64(v)*c.opts.proxy)))
}

// Render implements Renderer. Layers are drawn in signature order, each at
// its own offset plus the composition offset. A tattoo the source cannot
// resolve fails the render with ErrMissingLayer.
func (c *Compositor) Render(ctx context.Context, sig Signature) (*image.NRGBA, error) {
	w, h := c.Size()
	dst := image.NewNRGBA(image.Rect(0, 0, w, h))

	for _, cl := range sig {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		img, off, ok := c.src.Layer(cl.Tattoo)
		if !ok {
			return nil, fmt.Errorf("%w: tattoo %d", ErrMissingLayer, cl.Tattoo)
		}
		if c.opts.proxy != 1 {
			img = c.scaledLayer(cl.Tattoo, img)
		}
		at := image.Pt(c.scale0(off.X+cl.OffsetX), c.scale0(off.Y+cl.OffsetY))
		b := img.Bounds()
		draw.Draw(dst, b.Sub(b.Min).Add(at), img, b.Min, draw.Over)
	}
	return dst, nil
}

// scale0 scales an offset, which may be zero or negative.
func (c *Compositor) scale0(v int) int {
	return int(math.Round(float64(v) * c.opts.proxy))
}

func (c *Compositor) scaledLayer(t Tattoo, img image.Image) image.Image {
	return c.scaled.GetOrCreate(t, func() image.Image {
		b := img.Bounds()
		out := image.NewNRGBA(image.Rect(0, 0, c.scale(b.Dx()), c.scale(b.Dy())))
		draw.ApproxBiLinear.Scale(out, out.Bounds(), img, b, draw.Src, nil)
		return out
	})
}
