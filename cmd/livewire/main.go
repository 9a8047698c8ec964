// Command livewire traces object outlines with intelligent scissors and
// renders animation recipes to frames.
//
// Usage:
//
//	livewire trace -in photo.png -points 10,10:80,12:60,70 -out mask.png
//	livewire frames -recipe shot.xml -layers layers/ -out frames/
package main

import (
	"flag"
	"fmt"
	"image"
	_ "image/jpeg"
	"image/png"
	"log"
	"log/slog"
	"os"

	"github.com/gogpu/livewire"
)

func main() {
	log.SetFlags(0)
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	var err error
	switch cmd, args := os.Args[1], os.Args[2:]; cmd {
	case "trace":
		err = runTrace(args)
	case "frames":
		err = runFrames(args)
	case "-h", "-help", "--help", "help":
		usage()
		return
	default:
		usage()
		os.Exit(2)
	}
	if err != nil {
		log.Fatalf("livewire: %v", err)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: livewire <trace|frames> [flags]")
	fmt.Fprintln(os.Stderr, "run 'livewire <command> -h' for command flags")
}

// verboseFlag registers -v on fs and returns a function that installs a
// debug logger when it was set.
func verboseFlag(fs *flag.FlagSet) func() {
	v := fs.Bool("v", false, "log diagnostics to stderr")
	return func() {
		if *v {
			livewire.SetLogger(slog.New(slog.NewTextHandler(os.Stderr,
				&slog.HandlerOptions{Level: slog.LevelDebug})))
		}
	}
}

func loadImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return img, nil
}

func savePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}
