package doodle

import (
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/esimov/doodle/utils"
	"golang.org/x/image/bmp"
)

// Format is a raster encoding supported by the exporter.
type Format int

// The supported export formats.
const (
	PNG Format = iota
	JPEG
	BMP
)

func (f Format) String() string {
	switch f {
	case JPEG:
		return "jpeg"
	case BMP:
		return "bmp"
	}
	return "png"
}

// ErrUnsupportedFormat is returned for file extensions without an encoder.
var ErrUnsupportedFormat = errors.New("unsupported image format")

// ValidExtensions lists the file extensions accepted for export.
var ValidExtensions = []string{".png", ".jpg", ".jpeg", ".bmp"}

// FormatFromPath picks the export format from the file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return PNG, nil
	case ".jpg", ".jpeg":
		return JPEG, nil
	case ".bmp":
		return BMP, nil
	}
	return PNG, fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
}

// Encode writes img to w in the given format.
func Encode(w io.Writer, img image.Image, f Format) error {
	switch f {
	case PNG:
		return png.Encode(w, img)
	case JPEG:
		return jpeg.Encode(w, img, &jpeg.Options{Quality: 100})
	case BMP:
		return bmp.Encode(w, img)
	}
	return fmt.Errorf("%w: %v", ErrUnsupportedFormat, f)
}

// Export writes the committed buffer contents to w as PNG.
// A failed export leaves the drawing untouched.
func (c *ToolController) Export(w io.Writer) error {
	return c.Encode(w, PNG)
}

// Encode writes the committed buffer contents to w in the given format.
func (c *ToolController) Encode(w io.Writer, f Format) error {
	if err := Encode(w, c.buf.Image(), f); err != nil {
		return fmt.Errorf("could not export the drawing: %w", err)
	}
	return nil
}

// Save exports the drawing into a file, the format being chosen by the extension.
// The file is removed again when the encoding fails.
func (c *ToolController) Save(path string) (err error) {
	f, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("unable to create the destination file: %w", err)
	}
	defer func() {
		if cerr := out.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			os.Remove(path)
		}
	}()

	return c.Encode(out, f)
}

// DecodeImage decodes a PNG, JPEG, GIF or BMP image.
func DecodeImage(r io.Reader) (image.Image, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("could not decode the image: %w", err)
	}
	return img, nil
}

// LoadImage opens and decodes the image file at path.
func LoadImage(path string) (image.Image, error) {
	ctype, err := utils.DetectContentType(path)
	if err != nil {
		return nil, fmt.Errorf("could not open the image file: %w", err)
	}
	if !strings.Contains(ctype, "image") {
		return nil, fmt.Errorf("%s is not an image file", path)
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("could not open the image file: %w", err)
	}
	defer file.Close()

	return DecodeImage(file)
}
