package doodle

import (
	"bytes"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImage_ExportShouldEncodePNG(t *testing.T) {
	c := newController(t, 40, 30)
	require.NoError(t, c.SelectTool(Fill))
	c.SetColor(red)
	require.NoError(t, c.PointerDown(image.Pt(0, 0)))

	var buf bytes.Buffer
	require.NoError(t, c.Export(&buf))

	img, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 40, 30), img.Bounds())

	r, g, b, a := img.At(20, 15).RGBA()
	assert.Equal(t, [4]uint32{0xffff, 0, 0, 0xffff}, [4]uint32{r, g, b, a})
}

func TestImage_ExportShouldIgnorePendingText(t *testing.T) {
	c := newController(t, 80, 30)
	require.NoError(t, c.SelectTool(Text))
	require.NoError(t, c.PointerDown(image.Pt(5, 20)))
	c.TypeText("draft")

	var buf bytes.Buffer
	require.NoError(t, c.Export(&buf))
	img, err := png.Decode(&buf)
	require.NoError(t, err)

	blank := newBuffer(t, 80, 30).Image()
	for y := 0; y < 30; y++ {
		for x := 0; x < 80; x++ {
			r1, g1, b1, a1 := blank.At(x, y).RGBA()
			r2, g2, b2, a2 := img.At(x, y).RGBA()
			require.Equal(t, [4]uint32{r1, g1, b1, a1}, [4]uint32{r2, g2, b2, a2}, "pixel %d,%d", x, y)
		}
	}
}

func TestImage_FormatFromPath(t *testing.T) {
	testCases := []struct {
		path string
		want Format
		err  bool
	}{
		{path: "out.png", want: PNG},
		{path: "dir/out.JPG", want: JPEG},
		{path: "out.jpeg", want: JPEG},
		{path: "out.bmp", want: BMP},
		{path: "out.gif", err: true},
		{path: "out", err: true},
	}
	for _, tc := range testCases {
		f, err := FormatFromPath(tc.path)
		if tc.err {
			assert.ErrorIs(t, err, ErrUnsupportedFormat, tc.path)
			continue
		}
		assert.NoError(t, err, tc.path)
		assert.Equal(t, tc.want, f, tc.path)
	}
}

func TestImage_SaveAndLoad(t *testing.T) {
	dir := t.TempDir()
	c := newController(t, 16, 12)
	require.NoError(t, c.SetWidth(4))
	drag(t, c, image.Pt(2, 6), image.Pt(14, 6))

	for _, name := range []string{"out.png", "out.jpg", "out.bmp"} {
		path := filepath.Join(dir, name)
		require.NoError(t, c.Save(path), name)

		img, err := LoadImage(path)
		require.NoError(t, err, name)
		assert.Equal(t, image.Rect(0, 0, 16, 12), img.Bounds(), name)
	}
}

func TestImage_SaveShouldRejectUnknownFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.tiff")
	c := newController(t, 4, 4)

	assert.ErrorIs(t, c.Save(path), ErrUnsupportedFormat)
	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestImage_LoadShouldRejectNonImage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("not an image at all"), 0644))

	_, err := LoadImage(path)
	assert.Error(t, err)
}
