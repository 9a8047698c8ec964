package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"slices"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/gogpu/livewire/anim"
)

func runFrames(args []string) error {
	fs := flag.NewFlagSet("frames", flag.ExitOnError)
	var (
		recipe = fs.String("recipe", "", "cels or animatic recipe XML")
		layers = fs.String("layers", "", "directory of <tattoo>.png layer images")
		out    = fs.String("out", "frames", "output directory")
		width  = fs.Int("width", 0, "frame width (default: largest layer)")
		height = fs.Int("height", 0, "frame height (default: largest layer)")
		proxy  = fs.Float64("proxy", 1, "render scale in (0, 1]")
		jobs   = fs.Int("j", runtime.GOMAXPROCS(0), "concurrent PNG writers")
	)
	setup := verboseFlag(fs)
	_ = fs.Parse(args)
	setup()

	if *recipe == "" || *layers == "" {
		return errors.New("frames: -recipe and -layers are required")
	}

	f, err := os.Open(*recipe)
	if err != nil {
		return err
	}
	a, err := anim.LoadRecipe(f)
	f.Close()
	if err != nil {
		return err
	}

	src, w, h, err := loadLayers(*layers)
	if err != nil {
		return err
	}
	if missing := missingLayers(a, src); len(missing) > 0 {
		log.Printf("warning: recipe uses %d layers missing from %s: %v",
			len(missing), *layers, missing)
	}
	if *width > 0 {
		w = *width
	}
	if *height > 0 {
		h = *height
	}
	comp, err := anim.NewCompositor(src, w, h, anim.WithProxyRatio(*proxy))
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	store := anim.NewStore(a, comp)
	var rendered atomic.Int64
	worker := anim.NewWorker(store, anim.WithObserver(func(anim.Event) { rendered.Add(1) }))
	cancel := anim.Bind(a, store, worker)
	defer cancel()

	start := time.Now()
	if err := worker.Enqueue(0, a.Duration()); err != nil {
		return err
	}
	if err := worker.Start(); err != nil {
		return err
	}
	for worker.Idle() {
		select {
		case <-ctx.Done():
			_ = worker.Close()
			return ctx.Err()
		case <-time.After(5 * time.Millisecond):
		}
	}
	_ = worker.Close()
	log.Printf("rendered %d of %d positions (%d distinct frames) in %v",
		rendered.Load(), a.Duration(), store.Live(), time.Since(start).Round(time.Millisecond))

	if err := os.MkdirAll(*out, 0o755); err != nil {
		return err
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(*jobs, 1))
	for pos := range a.Duration() {
		frame := store.Frame(pos)
		if frame == nil {
			continue
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			return savePNG(filepath.Join(*out, fmt.Sprintf("frame_%04d.png", pos)), frame.Image)
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	log.Printf("frames saved to %s", *out)
	return nil
}

// loadLayers reads every <tattoo>.png in dir and returns the layers with
// the size of the largest one.
func loadLayers(dir string) (anim.Layers, int, int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, 0, 0, err
	}
	layers := anim.Layers{}
	w, h := 0, 0
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.EqualFold(filepath.Ext(name), ".png") {
			continue
		}
		id, err := strconv.ParseUint(strings.TrimSuffix(name, filepath.Ext(name)), 10, 32)
		if err != nil || id == 0 {
			continue
		}
		img, err := loadImage(filepath.Join(dir, name))
		if err != nil {
			return nil, 0, 0, err
		}
		layers[anim.Tattoo(id)] = anim.Layer{Image: img}
		w = max(w, img.Bounds().Dx())
		h = max(h, img.Bounds().Dy())
	}
	if len(layers) == 0 {
		return nil, 0, 0, fmt.Errorf("no <tattoo>.png layers in %s", dir)
	}
	return layers, w, h, nil
}

// missingLayers returns the tattoos the recipe composes that have no layer
// in src, in ascending order.
func missingLayers(r anim.Recipe, src anim.Layers) []anim.Tattoo {
	seen := map[anim.Tattoo]bool{}
	var missing []anim.Tattoo
	for pos := range r.Duration() {
		for _, t := range r.Composition(pos).Tattoos() {
			if _, ok := src[t]; ok || seen[t] {
				continue
			}
			seen[t] = true
			missing = append(missing, t)
		}
	}
	slices.Sort(missing)
	return missing
}
