package doodle

import (
	"image/color"
)

// fillSpan is a horizontal run [x1, x2] on row y, to be scanned
// in the vertical direction dy.
type fillSpan struct {
	x1, x2, y, dy int
}

// FloodFill recolors with c every pixel 4-connected to (x, y) that shares
// the seed's original color. Colors are compared on the RGB channels with
// exact equality, so anti-aliased edges bound the region.
// It returns the number of recolored pixels. Filling a region that already
// has the fill color does nothing.
//
// The region is walked with an explicit stack of spans, never recursively.
func FloodFill(b *PixelBuffer, x, y int, c color.NRGBA) (int, error) {
	target, err := b.GetPixel(x, y)
	if err != nil {
		return 0, err
	}
	if sameRGB(target, c) {
		Logger().Debug("degenerate fill skipped", "x", x, "y", y)
		return 0, nil
	}

	var (
		pix    = b.img.Pix
		stride = b.img.Stride
		width  = b.Width()
		height = b.Height()
		count  int
	)

	// inside reports whether (x, y) is still part of the unfilled region.
	// Painted pixels never match again because the fill color differs from the target.
	inside := func(x, y int) bool {
		if x < 0 || x >= width || y < 0 || y >= height {
			return false
		}
		i := y*stride + x*4
		return pix[i+0] == target.R && pix[i+1] == target.G && pix[i+2] == target.B
	}
	set := func(x, y int) {
		i := y*stride + x*4
		pix[i+0] = c.R
		pix[i+1] = c.G
		pix[i+2] = c.B
		pix[i+3] = 0xff
		count++
	}

	stack := []fillSpan{
		{x1: x, x2: x, y: y, dy: 1},
		{x1: x, x2: x, y: y - 1, dy: -1},
	}
	for len(stack) > 0 {
		s := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		x1, x2, y, dy := s.x1, s.x2, s.y, s.dy
		x := x1
		if inside(x, y) {
			for inside(x-1, y) {
				set(x-1, y)
				x--
			}
			if x < x1 {
				stack = append(stack, fillSpan{x1: x, x2: x1 - 1, y: y - dy, dy: -dy})
			}
		}
		for x1 <= x2 {
			for inside(x1, y) {
				set(x1, y)
				x1++
			}
			if x1 > x {
				stack = append(stack, fillSpan{x1: x, x2: x1 - 1, y: y + dy, dy: dy})
			}
			if x1-1 > x2 {
				stack = append(stack, fillSpan{x1: x2 + 1, x2: x1 - 1, y: y - dy, dy: -dy})
			}
			x1++
			for x1 < x2 && !inside(x1, y) {
				x1++
			}
			x = x1
		}
	}

	return count, nil
}

func sameRGB(a, b color.NRGBA) bool {
	return a.R == b.R && a.G == b.G && a.B == b.B
}
