package doodle

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"github.com/disintegration/imaging"
)

var (
	// ErrOutOfBounds is returned when a pixel coordinate falls outside the buffer.
	ErrOutOfBounds = errors.New("pixel coordinate out of bounds")
	// ErrDimensionMismatch is returned when a snapshot does not fit the buffer it is restored into.
	ErrDimensionMismatch = errors.New("snapshot dimensions do not match the buffer")
	// ErrInvalidDimensions is returned when a buffer is requested with a non positive size.
	ErrInvalidDimensions = errors.New("buffer dimensions must be positive")
)

// DefaultBackground is the color of a blank canvas.
var DefaultBackground = color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}

// ResizeMode tells Resized what happens with the existing content.
type ResizeMode int

const (
	// ResizeCrop keeps the content pinned to the top-left corner,
	// cropping it or padding it with the background color.
	ResizeCrop ResizeMode = iota
	// ResizeScale rescales the content to the new dimensions.
	ResizeScale
)

// ParseResizeMode converts "crop" or "scale" to a ResizeMode. An empty string means crop.
func ParseResizeMode(s string) (ResizeMode, error) {
	switch s {
	case "", "crop":
		return ResizeCrop, nil
	case "scale":
		return ResizeScale, nil
	}
	return ResizeCrop, fmt.Errorf("unknown resize mode %q", s)
}

func (m ResizeMode) String() string {
	if m == ResizeScale {
		return "scale"
	}
	return "crop"
}

// PixelBuffer is a fixed size raster surface holding opaque NRGBA samples.
// The dimensions never change; resizing produces a new buffer.
type PixelBuffer struct {
	img *image.NRGBA
	bg  color.NRGBA
}

// NewPixelBuffer creates a buffer of the given size filled with the background color.
func NewPixelBuffer(width, height int, bg color.NRGBA) (*PixelBuffer, error) {
	if width < 1 || height < 1 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, width, height)
	}
	b := &PixelBuffer{
		img: image.NewNRGBA(image.Rect(0, 0, width, height)),
		bg:  opaque(bg),
	}
	b.Clear()

	return b, nil
}

// NewPixelBufferFromImage copies img into a new buffer. Translucent pixels
// are flattened over the background color.
func NewPixelBufferFromImage(img image.Image, bg color.NRGBA) (*PixelBuffer, error) {
	r := img.Bounds()
	b, err := NewPixelBuffer(r.Dx(), r.Dy(), bg)
	if err != nil {
		return nil, err
	}
	draw.Draw(b.img, b.img.Bounds(), img, r.Min, draw.Over)

	return b, nil
}

// newPixelBufferFromSnapshot rebuilds a buffer holding the snapshot contents.
func newPixelBufferFromSnapshot(s *Snapshot, bg color.NRGBA) *PixelBuffer {
	return &PixelBuffer{img: s.Image(), bg: opaque(bg)}
}

// Width returns the buffer width.
func (b *PixelBuffer) Width() int { return b.img.Rect.Dx() }

// Height returns the buffer height.
func (b *PixelBuffer) Height() int { return b.img.Rect.Dy() }

// Bounds returns the buffer rectangle; its origin is always (0, 0).
func (b *PixelBuffer) Bounds() image.Rectangle { return b.img.Rect }

// Background returns the color used by the eraser and by Clear.
func (b *PixelBuffer) Background() color.NRGBA { return b.bg }

// Contains tells if the point lies inside the buffer.
func (b *PixelBuffer) Contains(p image.Point) bool {
	return p.In(b.img.Rect)
}

// GetPixel returns the pixel color at (x, y).
func (b *PixelBuffer) GetPixel(x, y int) (color.NRGBA, error) {
	if !b.Contains(image.Pt(x, y)) {
		return color.NRGBA{}, fmt.Errorf("%w: (%d,%d) outside %v", ErrOutOfBounds, x, y, b.img.Rect)
	}
	return b.img.NRGBAAt(x, y), nil
}

// SetPixel sets the pixel color at (x, y). Writes outside the buffer are rejected.
func (b *PixelBuffer) SetPixel(x, y int, c color.NRGBA) error {
	if !b.Contains(image.Pt(x, y)) {
		return fmt.Errorf("%w: (%d,%d) outside %v", ErrOutOfBounds, x, y, b.img.Rect)
	}
	b.img.SetNRGBA(x, y, opaque(c))
	return nil
}

// Clear fills the whole buffer with the background color.
func (b *PixelBuffer) Clear() {
	b.fill(b.bg)
}

func (b *PixelBuffer) fill(c color.NRGBA) {
	pix := b.img.Pix
	for i := 0; i < len(pix); i += 4 {
		pix[i+0] = c.R
		pix[i+1] = c.G
		pix[i+2] = c.B
		pix[i+3] = c.A
	}
}

// Snapshot captures an independent copy of the buffer contents.
func (b *PixelBuffer) Snapshot() *Snapshot {
	pix := make([]uint8, len(b.img.Pix))
	copy(pix, b.img.Pix)

	return &Snapshot{
		width:  b.Width(),
		height: b.Height(),
		pix:    pix,
	}
}

// Restore overwrites the buffer with the snapshot contents.
func (b *PixelBuffer) Restore(s *Snapshot) error {
	if s == nil {
		return fmt.Errorf("%w: nil snapshot", ErrDimensionMismatch)
	}
	if s.width != b.Width() || s.height != b.Height() {
		return fmt.Errorf("%w: snapshot %dx%d, buffer %dx%d",
			ErrDimensionMismatch, s.width, s.height, b.Width(), b.Height())
	}
	copy(b.img.Pix, s.pix)

	return nil
}

// Image returns a copy of the buffer contents.
func (b *PixelBuffer) Image() *image.NRGBA {
	return imaging.Clone(b.img)
}

// Resized returns a new buffer of the requested size built from this one's content.
func (b *PixelBuffer) Resized(width, height int, mode ResizeMode) (*PixelBuffer, error) {
	dst, err := NewPixelBuffer(width, height, b.bg)
	if err != nil {
		return nil, err
	}

	switch mode {
	case ResizeScale:
		scaled := imaging.Resize(b.img, width, height, imaging.Lanczos)
		draw.Draw(dst.img, dst.img.Bounds(), scaled, image.Point{}, draw.Src)
	default:
		dst.img = imaging.Paste(dst.img, b.img, image.Point{})
	}
	// The Lanczos filter may overshoot into translucent samples along the edges.
	dst.flatten()

	return dst, nil
}

// flatten forces every sample to full opacity by compositing it over the background.
func (b *PixelBuffer) flatten() {
	pix := b.img.Pix
	for i := 0; i < len(pix); i += 4 {
		a := uint32(pix[i+3])
		if a == 0xff {
			continue
		}
		pix[i+0] = uint8((uint32(pix[i+0])*a + uint32(b.bg.R)*(0xff-a)) / 0xff)
		pix[i+1] = uint8((uint32(pix[i+1])*a + uint32(b.bg.G)*(0xff-a)) / 0xff)
		pix[i+2] = uint8((uint32(pix[i+2])*a + uint32(b.bg.B)*(0xff-a)) / 0xff)
		pix[i+3] = 0xff
	}
}

// opaque normalizes the alpha channel to fully opaque.
func opaque(c color.NRGBA) color.NRGBA {
	c.A = 0xff
	return c
}

// Snapshot is an immutable copy of a PixelBuffer's raster contents.
type Snapshot struct {
	width  int
	height int
	pix    []uint8
}

// Width returns the width of the captured buffer.
func (s *Snapshot) Width() int { return s.width }

// Height returns the height of the captured buffer.
func (s *Snapshot) Height() int { return s.height }

// Equal reports whether both snapshots hold the same dimensions and pixels.
func (s *Snapshot) Equal(other *Snapshot) bool {
	if s == nil || other == nil {
		return s == other
	}
	if s.width != other.width || s.height != other.height {
		return false
	}
	for i := range s.pix {
		if s.pix[i] != other.pix[i] {
			return false
		}
	}
	return true
}

// Image returns the snapshot contents as a new image.
func (s *Snapshot) Image() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, s.width, s.height))
	copy(img.Pix, s.pix)
	return img
}
