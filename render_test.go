package doodle

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// inked reports whether c is mostly the red pen color.
func inked(c color.NRGBA) bool {
	return c.R > 0xc0 && c.G < 0x40 && c.B < 0x40
}

func countChanged(t *testing.T, b *PixelBuffer) int {
	t.Helper()

	var n int
	for y := 0; y < b.Height(); y++ {
		for x := 0; x < b.Width(); x++ {
			if pixel(t, b, x, y) != white {
				n++
			}
		}
	}
	return n
}

func TestRender_Segment(t *testing.T) {
	b := newBuffer(t, 50, 50)
	r := NewVectorRenderer()

	r.Segment(b, image.Pt(10, 10), image.Pt(30, 10), Pen{Color: red, Width: 4})

	assert.True(t, inked(pixel(t, b, 20, 10)))
	assert.True(t, inked(pixel(t, b, 10, 10)), "start cap")
	assert.True(t, inked(pixel(t, b, 30, 10)), "end cap")
	assert.Equal(t, white, pixel(t, b, 20, 20))
	assert.Equal(t, white, pixel(t, b, 40, 10))
}

func TestRender_SegmentShouldPaintDot(t *testing.T) {
	b := newBuffer(t, 20, 20)
	r := NewVectorRenderer()

	r.Segment(b, image.Pt(5, 5), image.Pt(5, 5), Pen{Color: red, Width: 4})

	assert.True(t, inked(pixel(t, b, 5, 5)))
	assert.Equal(t, white, pixel(t, b, 10, 10))
}

func TestRender_Line(t *testing.T) {
	b := newBuffer(t, 50, 50)
	r := NewVectorRenderer()

	r.Line(b, image.Pt(0, 0), image.Pt(49, 49), Pen{Color: red, Width: 3})

	assert.True(t, inked(pixel(t, b, 25, 25)))
	assert.Equal(t, white, pixel(t, b, 25, 5))
	assert.Equal(t, white, pixel(t, b, 5, 25))
}

func TestRender_Rectangle(t *testing.T) {
	b := newBuffer(t, 50, 50)
	r := NewVectorRenderer()

	r.Rectangle(b, image.Pt(40, 30), image.Pt(10, 10), Pen{Color: red, Width: 2})

	for _, p := range []image.Point{{25, 10}, {25, 30}, {10, 20}, {40, 20}} {
		assert.True(t, inked(pixel(t, b, p.X, p.Y)), "outline at %v", p)
	}
	assert.Equal(t, white, pixel(t, b, 25, 20), "interior")
	assert.Equal(t, white, pixel(t, b, 45, 45), "exterior")
}

func TestRender_Circle(t *testing.T) {
	b := newBuffer(t, 50, 50)
	r := NewVectorRenderer()

	r.Circle(b, image.Pt(25, 25), image.Pt(35, 25), Pen{Color: red, Width: 2})

	for _, p := range []image.Point{{35, 25}, {15, 25}, {25, 15}, {25, 35}} {
		assert.True(t, inked(pixel(t, b, p.X, p.Y)), "outline at %v", p)
	}
	assert.Equal(t, white, pixel(t, b, 25, 25), "center")
	assert.Equal(t, white, pixel(t, b, 0, 0), "exterior")
}

func TestRender_FillShouldUsePenColor(t *testing.T) {
	b := newBuffer(t, 6, 6)
	r := NewVectorRenderer()

	n, err := r.Fill(b, image.Pt(0, 0), Pen{Color: blue, Width: 1})
	require.NoError(t, err)
	assert.Equal(t, 36, n)
	assert.Equal(t, blue, pixel(t, b, 5, 5))
}

func TestRender_Text(t *testing.T) {
	b := newBuffer(t, 80, 40)
	r := NewVectorRenderer()

	require.NoError(t, r.Text(b, image.Pt(5, 30), "Hi", Pen{Color: red, Width: 4}))
	assert.Greater(t, countChanged(t, b), 0)
	assert.Equal(t, white, pixel(t, b, 79, 0))

	before := b.Snapshot()
	require.NoError(t, r.Text(b, image.Pt(5, 30), "", Pen{Color: red, Width: 4}))
	assert.True(t, before.Equal(b.Snapshot()))
}

func TestRender_TextSize(t *testing.T) {
	assert.Equal(t, 12.0, TextSize(1))
	assert.Equal(t, 14.0, TextSize(2))
	assert.Less(t, TextSize(2), TextSize(8))
}
