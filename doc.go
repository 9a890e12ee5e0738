/*
Package doodle is a raster drawing engine with a bounded undo and redo history.
It provides the pieces behind a paint canvas or a signature pad: a pixel buffer,
stroke rendering for freehand, line, rectangle, circle, flood fill and text
tools, and a controller translating pointer events into paint operations.

Every gesture snapshots the buffer before it changes anything, so every
committed change can be undone. Shape tools redraw their preview from the
pre-gesture snapshot on each pointer move, which keeps intermediate previews
from piling up.

A simple example drawing a rectangle and exporting it as PNG:

	package main

	import (
		"image"
		"log"
		"os"

		"github.com/esimov/doodle"
	)

	func main() {
		buf, err := doodle.NewPixelBuffer(200, 100, doodle.DefaultBackground)
		if err != nil {
			log.Fatal(err)
		}
		ctrl := doodle.NewToolController(buf)
		ctrl.SelectTool(doodle.Rectangle)
		ctrl.SetColorHex("#ff0000")

		ctrl.PointerDown(image.Pt(10, 10))
		ctrl.PointerMove(image.Pt(120, 80))
		ctrl.PointerUp(image.Pt(120, 80))

		if err := ctrl.Export(os.Stdout); err != nil {
			log.Fatal(err)
		}
	}
*/
package doodle
