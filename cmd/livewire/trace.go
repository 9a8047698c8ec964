package main

import (
	"errors"
	"flag"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"log"
	"strconv"
	"strings"

	"github.com/gogpu/livewire"
	"github.com/gogpu/livewire/scissors"
)

func runTrace(args []string) error {
	fs := flag.NewFlagSet("trace", flag.ExitOnError)
	var (
		in        = fs.String("in", "", "input image")
		points    = fs.String("points", "", "outline vertices as x,y:x,y:...; separate outlines with ';'")
		out       = fs.String("out", "mask.png", "output mask")
		overlay   = fs.String("overlay", "", "optional image of the traced outlines over the input")
		antialias = fs.Bool("aa", true, "antialias the mask edge")
		snap      = fs.Bool("snap", true, "snap vertices to the strongest nearby edge")
		invert    = fs.Bool("invert", false, "select everything outside the outlines")
	)
	setup := verboseFlag(fs)
	_ = fs.Parse(args)
	setup()

	if *in == "" {
		return errors.New("trace: -in is required")
	}
	outlines, err := parseOutlines(*points)
	if err != nil {
		return fmt.Errorf("trace: %w", err)
	}

	img, err := loadImage(*in)
	if err != nil {
		return err
	}
	g, err := scissors.NewGradientMap(img)
	if err != nil {
		return err
	}

	var canvas *image.RGBA
	if *overlay != "" {
		canvas = image.NewRGBA(img.Bounds().Sub(img.Bounds().Min))
		draw.Draw(canvas, canvas.Bounds(), img, img.Bounds().Min, draw.Src)
	}

	solves, segments := 0, 0
	countSolves := func(scissors.PathEvent) { solves++ }
	var mask *livewire.Mask
	for i, pts := range outlines {
		m, err := scissors.TraceOutline(g, pts, *snap, countSolves)
		if err != nil {
			return fmt.Errorf("trace: outline %d: %w", i+1, err)
		}
		segments += m.Len()
		if canvas != nil {
			scissors.DrawCurves(canvas, m, color.RGBA{R: 255, G: 40, B: 40, A: 255}, 8)
		}
		part, err := m.ToMask(*antialias)
		if err != nil {
			return err
		}
		if mask == nil {
			mask = part
		} else if err := mask.Union(part); err != nil {
			return err
		}
	}
	if *invert {
		mask.Invert()
	}

	if canvas != nil {
		if err := savePNG(*overlay, canvas); err != nil {
			return err
		}
	}
	if err := savePNG(*out, mask); err != nil {
		return err
	}
	log.Printf("traced %d outlines, %d segments (%d path solves, %d tiles), %d pixels selected, mask saved to %s",
		len(outlines), segments, solves, g.TilesValidated(), mask.Count(128), *out)
	return nil
}

// parseOutlines reads ';'-separated outlines of ':'-separated x,y vertices.
func parseOutlines(s string) ([][]image.Point, error) {
	if strings.TrimSpace(s) == "" {
		return nil, errors.New("-points is required")
	}
	var outlines [][]image.Point
	for _, group := range strings.Split(s, ";") {
		if strings.TrimSpace(group) == "" {
			continue
		}
		pts, err := parsePoints(group)
		if err != nil {
			return nil, err
		}
		outlines = append(outlines, pts)
	}
	if len(outlines) == 0 {
		return nil, errors.New("-points has no outlines")
	}
	return outlines, nil
}

func parsePoints(s string) ([]image.Point, error) {
	var pts []image.Point
	for _, pair := range strings.Split(s, ":") {
		xs, ys, ok := strings.Cut(strings.TrimSpace(pair), ",")
		if !ok {
			return nil, fmt.Errorf("bad point %q", pair)
		}
		x, errX := strconv.Atoi(strings.TrimSpace(xs))
		y, errY := strconv.Atoi(strings.TrimSpace(ys))
		if errX != nil || errY != nil {
			return nil, fmt.Errorf("bad point %q", pair)
		}
		pts = append(pts, image.Pt(x, y))
	}
	return pts, nil
}
