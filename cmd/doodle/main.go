package main

import (
	"fmt"
	"log"
	"log/slog"
	"os"
	"runtime"

	"gioui.org/app"
	"github.com/esimov/doodle"
	"github.com/esimov/doodle/preview"
	"github.com/esimov/doodle/sketch"
	"github.com/esimov/doodle/utils"
	flag "github.com/spf13/pflag"
)

const HelpBanner = `
┌┬┐┌─┐┌─┐┌┬┐┬  ┌─┐
 │││ ││ │ │││  ├┤
─┴┘└─┘└─┘─┴┘┴─┘└─┘

Raster drawing engine with undo history.
    Version: %s

`

// pipeName is the file name that indicates stdin/stdout is being used.
const pipeName = "-"

// Version indicates the current build version.
var Version string

var (
	// Flags
	source      = flag.StringP("in", "i", pipeName, "Source sketch file or directory")
	destination = flag.StringP("out", "o", pipeName, "Destination image file or directory")
	workers     = flag.Int("conc", runtime.NumCPU(), "Number of sketches to render concurrently")
	watch       = flag.BoolP("watch", "w", false, "Render the sketches again when they change")
	interactive = flag.BoolP("preview", "p", false, "Open the interactive canvas")
	width       = flag.Int("width", 800, "Canvas width of the interactive canvas")
	height      = flag.Int("height", 600, "Canvas height of the interactive canvas")
	background  = flag.String("bg", "#ffffff", "Canvas background color")
	history     = flag.Int("history", doodle.DefaultHistoryCapacity, "Number of undoable operations kept")
	debug       = flag.Bool("debug", false, "Log the engine internals to stderr")
)

func main() {
	log.SetFlags(0)

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, HelpBanner, Version)
		flag.PrintDefaults()
	}
	flag.Parse()

	if *debug {
		doodle.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	if *interactive {
		runPreview()
		return
	}

	op := &ops{
		src:     *source,
		dst:     *destination,
		workers: *workers,
	}
	if *watch {
		if err := op.watch(); err != nil {
			log.Fatal(utils.DecorateText(err.Error(), utils.ErrorMessage))
		}
		return
	}
	if err := op.execute(); err != nil {
		os.Exit(1)
	}
}

// runPreview opens the interactive canvas. The window runs in its own
// goroutine because app.Main takes over the main OS thread.
func runPreview() {
	ctrl, err := previewCanvas()
	if err != nil {
		log.Fatalf("%s %s",
			utils.DecorateText("Unable to create the canvas:", utils.ErrorMessage),
			utils.DecorateText(err.Error(), utils.DefaultMessage),
		)
	}

	outDir := "."
	if *destination != pipeName {
		outDir = *destination
	}

	w := preview.New(ctrl, preview.Options{
		Title:  "Doodle",
		OutDir: outDir,
		Notify: func(msg string, err error) {
			if err != nil {
				fmt.Fprintln(os.Stderr, utils.StatusLine(fmt.Sprintf("%s: %v", msg, err), "✘", utils.ErrorMessage))
				return
			}
			fmt.Fprintln(os.Stderr, utils.StatusLine(msg, "✔", utils.SuccessMessage))
		},
	})

	go func() {
		if err := w.Run(); err != nil {
			log.Fatal(utils.DecorateText(err.Error(), utils.ErrorMessage))
		}
		os.Exit(0)
	}()
	app.Main()
}

// previewCanvas returns the controller shown by the interactive canvas: the
// rendered sketch when a source file is given, a blank canvas otherwise.
func previewCanvas() (*doodle.ToolController, error) {
	if *source != pipeName {
		s, err := sketch.Load(*source)
		if err != nil {
			return nil, err
		}
		return s.Render()
	}

	bg, err := utils.HexToRGBA(*background)
	if err != nil {
		return nil, err
	}
	buf, err := doodle.NewPixelBuffer(*width, *height, bg)
	if err != nil {
		return nil, err
	}
	return doodle.NewToolController(buf, doodle.WithHistoryCapacity(*history)), nil
}
