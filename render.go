package doodle

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/esimov/doodle/utils"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"
)

// Pen is the color and width used to paint a stroke.
type Pen struct {
	Color color.NRGBA
	Width int
}

// StrokeRenderer translates tool gestures into pixel writes on a PixelBuffer.
// Points are pixel coordinates; geometry is laid out on pixel centers.
type StrokeRenderer interface {
	// Segment paints a round capped segment between two consecutive pointer samples.
	Segment(dst *PixelBuffer, from, to image.Point, pen Pen)
	// Line paints a straight line from the anchor to the pointer.
	Line(dst *PixelBuffer, from, to image.Point, pen Pen)
	// Rectangle paints the outline of the rectangle spanned by two corners.
	Rectangle(dst *PixelBuffer, from, to image.Point, pen Pen)
	// Circle paints the outline of a circle centered on center passing through edge.
	Circle(dst *PixelBuffer, center, edge image.Point, pen Pen)
	// Fill flood fills the region around seed.
	Fill(dst *PixelBuffer, seed image.Point, pen Pen) (int, error)
	// Text paints s with its baseline starting at the given point.
	Text(dst *PixelBuffer, at image.Point, s string, pen Pen) error
}

var _ StrokeRenderer = (*VectorRenderer)(nil)

// TextSize returns the text height in pixels used for a given stroke width.
func TextSize(width int) float64 {
	return float64(10 + 2*width)
}

// VectorRenderer renders strokes with anti-aliased coverage masks
// and composites them over the buffer.
// It is not safe for concurrent use.
type VectorRenderer struct {
	z     *vector.Rasterizer
	font  *opentype.Font
	faces map[int]font.Face
}

// NewVectorRenderer creates a renderer using the Go Regular font for text.
func NewVectorRenderer() *VectorRenderer {
	return &VectorRenderer{
		z:     vector.NewRasterizer(0, 0),
		faces: make(map[int]font.Face),
	}
}

// Segment implements StrokeRenderer.
func (r *VectorRenderer) Segment(dst *PixelBuffer, from, to image.Point, pen Pen) {
	r.begin(dst)
	r.capsule(center(from), center(to), halfWidth(pen))
	r.paint(dst, pen.Color)
}

// Line implements StrokeRenderer.
func (r *VectorRenderer) Line(dst *PixelBuffer, from, to image.Point, pen Pen) {
	r.Segment(dst, from, to, pen)
}

// Rectangle implements StrokeRenderer.
func (r *VectorRenderer) Rectangle(dst *PixelBuffer, from, to image.Point, pen Pen) {
	rect := image.Rectangle{Min: from, Max: to}.Canon()
	min, max := center(rect.Min), center(rect.Max)
	hw := halfWidth(pen)

	r.begin(dst)
	// Outer contour clockwise, inner contour counter clockwise: the rasterizer
	// accumulates signed coverage, so the inner one punches the hole.
	r.polygon(
		vec{min.x - hw, min.y - hw},
		vec{max.x + hw, min.y - hw},
		vec{max.x + hw, max.y + hw},
		vec{min.x - hw, max.y + hw},
	)
	if max.x-min.x > 2*hw && max.y-min.y > 2*hw {
		r.polygon(
			vec{min.x + hw, min.y + hw},
			vec{min.x + hw, max.y - hw},
			vec{max.x - hw, max.y - hw},
			vec{max.x - hw, min.y + hw},
		)
	}
	r.paint(dst, pen.Color)
}

// Circle implements StrokeRenderer.
func (r *VectorRenderer) Circle(dst *PixelBuffer, c, edge image.Point, pen Pen) {
	o := center(c)
	radius := o.dist(center(edge))
	hw := halfWidth(pen)

	r.begin(dst)
	r.circle(o, radius+hw, false)
	if inner := radius - hw; inner > 0 {
		r.circle(o, inner, true)
	}
	r.paint(dst, pen.Color)
}

// Fill implements StrokeRenderer.
func (r *VectorRenderer) Fill(dst *PixelBuffer, seed image.Point, pen Pen) (int, error) {
	return FloodFill(dst, seed.X, seed.Y, pen.Color)
}

// Text implements StrokeRenderer.
func (r *VectorRenderer) Text(dst *PixelBuffer, at image.Point, s string, pen Pen) error {
	if s == "" {
		return nil
	}
	face, err := r.face(pen.Width)
	if err != nil {
		return err
	}
	d := font.Drawer{
		Dst:  dst.img,
		Src:  image.NewUniform(opaque(pen.Color)),
		Face: face,
		Dot:  fixed.P(at.X, at.Y),
	}
	d.DrawString(s)

	return nil
}

// face returns the cached font face for the text size derived from width.
func (r *VectorRenderer) face(width int) (font.Face, error) {
	if f, ok := r.faces[width]; ok {
		return f, nil
	}
	if r.font == nil {
		f, err := opentype.Parse(goregular.TTF)
		if err != nil {
			return nil, fmt.Errorf("could not parse the text font: %w", err)
		}
		r.font = f
	}
	f, err := opentype.NewFace(r.font, &opentype.FaceOptions{
		Size:    TextSize(width),
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return nil, fmt.Errorf("could not create the text face: %w", err)
	}
	r.faces[width] = f

	return f, nil
}

// begin resets the rasterizer to the buffer size.
func (r *VectorRenderer) begin(dst *PixelBuffer) {
	r.z.Reset(dst.Width(), dst.Height())
	r.z.DrawOp = draw.Over
}

// paint composites the accumulated coverage with an opaque color.
func (r *VectorRenderer) paint(dst *PixelBuffer, c color.NRGBA) {
	r.z.Draw(dst.img, dst.img.Bounds(), image.NewUniform(opaque(c)), image.Point{})
}

// capsule adds the outline of a segment with round caps of radius hw.
func (r *VectorRenderer) capsule(a, b vec, hw float64) {
	d := b.sub(a)
	l := d.len()
	if l < 1e-9 {
		r.circle(a, hw, false)
		return
	}
	angle := math.Atan2(d.y, d.x)
	n := vec{-d.y / l * hw, d.x / l * hw}

	start := a.add(n)
	r.z.MoveTo(float32(start.x), float32(start.y))
	// Down the side, around the far end, back up the other side and around the near end.
	r.lineTo(b.add(n))
	r.arc(b, hw, angle+math.Pi/2, angle-math.Pi/2)
	r.lineTo(a.sub(n))
	r.arc(a, hw, angle-math.Pi/2, angle-3*math.Pi/2)
	r.z.ClosePath()
}

// circle adds a closed circle contour; reverse flips its winding.
func (r *VectorRenderer) circle(o vec, radius float64, reverse bool) {
	r.z.MoveTo(float32(o.x+radius), float32(o.y))
	if reverse {
		r.arc(o, radius, 0, -2*math.Pi)
	} else {
		r.arc(o, radius, 0, 2*math.Pi)
	}
	r.z.ClosePath()
}

func (r *VectorRenderer) polygon(pts ...vec) {
	r.z.MoveTo(float32(pts[0].x), float32(pts[0].y))
	for _, p := range pts[1:] {
		r.lineTo(p)
	}
	r.z.ClosePath()
}

func (r *VectorRenderer) lineTo(p vec) {
	r.z.LineTo(float32(p.x), float32(p.y))
}

// arc continues the path along a circular arc from angle a1 to a2, split in
// cubic segments of at most a quarter turn. The pen must already be at the arc start.
func (r *VectorRenderer) arc(o vec, radius, a1, a2 float64) {
	n := int(math.Ceil(utils.Abs(a2-a1) / (math.Pi / 2)))
	if n == 0 {
		return
	}
	step := (a2 - a1) / float64(n)
	k := 4.0 / 3.0 * math.Tan(step/4) * radius

	for i := 0; i < n; i++ {
		t1 := a1 + float64(i)*step
		t2 := t1 + step
		cos1, sin1 := math.Cos(t1), math.Sin(t1)
		cos2, sin2 := math.Cos(t2), math.Sin(t2)

		r.z.CubeTo(
			float32(o.x+radius*cos1-k*sin1), float32(o.y+radius*sin1+k*cos1),
			float32(o.x+radius*cos2+k*sin2), float32(o.y+radius*sin2-k*cos2),
			float32(o.x+radius*cos2), float32(o.y+radius*sin2),
		)
	}
}

func halfWidth(pen Pen) float64 {
	if pen.Width < 1 {
		return 0.5
	}
	return float64(pen.Width) / 2
}

// vec is a point in buffer space.
type vec struct {
	x, y float64
}

// center returns the center of the pixel p.
func center(p image.Point) vec {
	return vec{float64(p.X) + 0.5, float64(p.Y) + 0.5}
}

func (v vec) add(o vec) vec { return vec{v.x + o.x, v.y + o.y} }
func (v vec) sub(o vec) vec { return vec{v.x - o.x, v.y - o.y} }
func (v vec) len() float64  { return math.Hypot(v.x, v.y) }

func (v vec) dist(o vec) float64 { return v.sub(o).len() }
