package doodle

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFill_ShouldFillWholeBuffer(t *testing.T) {
	b := newBuffer(t, 10, 10)

	n, err := FloodFill(b, 5, 5, red)
	require.NoError(t, err)
	assert.Equal(t, 100, n)

	for y := 0; y < 10; y++ {
		for x := 0; x < 10; x++ {
			assert.Equal(t, red, pixel(t, b, x, y))
		}
	}
}

func TestFill_ShouldStopAtBoundary(t *testing.T) {
	b := newBuffer(t, 10, 10)
	// Square outline from (2, 2) to (7, 7).
	for i := 2; i <= 7; i++ {
		for _, p := range []image.Point{{i, 2}, {i, 7}, {2, i}, {7, i}} {
			require.NoError(t, b.SetPixel(p.X, p.Y, black))
		}
	}

	n, err := FloodFill(b, 4, 4, red)
	require.NoError(t, err)
	assert.Equal(t, 16, n)

	assert.Equal(t, red, pixel(t, b, 3, 3))
	assert.Equal(t, red, pixel(t, b, 6, 6))
	assert.Equal(t, black, pixel(t, b, 2, 4))
	assert.Equal(t, white, pixel(t, b, 1, 1))
	assert.Equal(t, white, pixel(t, b, 8, 5))
}

func TestFill_ShouldUseFourConnectivity(t *testing.T) {
	b := newBuffer(t, 5, 5)
	// A diagonal only blocks 4-connected neighbours.
	for i := 0; i < 5; i++ {
		require.NoError(t, b.SetPixel(i, i, black))
	}

	n, err := FloodFill(b, 4, 0, red)
	require.NoError(t, err)
	assert.Equal(t, 10, n)

	for y := 0; y < 5; y++ {
		for x := 0; x < 5; x++ {
			switch {
			case x > y:
				assert.Equal(t, red, pixel(t, b, x, y))
			case x < y:
				assert.Equal(t, white, pixel(t, b, x, y))
			}
		}
	}
}

func TestFill_ShouldFillIrregularRegion(t *testing.T) {
	b := newBuffer(t, 7, 5)
	// A U shaped wall: the region wraps around the middle column.
	for y := 0; y < 4; y++ {
		require.NoError(t, b.SetPixel(3, y, black))
	}

	n, err := FloodFill(b, 0, 0, blue)
	require.NoError(t, err)
	assert.Equal(t, 7*5-4, n)
	assert.Equal(t, blue, pixel(t, b, 6, 0))
	assert.Equal(t, black, pixel(t, b, 3, 0))
}

func TestFill_ShouldBeIdempotent(t *testing.T) {
	b := newBuffer(t, 8, 8)
	require.NoError(t, b.SetPixel(4, 0, black))

	_, err := FloodFill(b, 0, 0, red)
	require.NoError(t, err)
	first := b.Snapshot()

	n, err := FloodFill(b, 0, 0, red)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
	assert.True(t, first.Equal(b.Snapshot()))
}

func TestFill_DegenerateShouldChangeNothing(t *testing.T) {
	b := newBuffer(t, 4, 4)
	before := b.Snapshot()

	n, err := FloodFill(b, 1, 1, white)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
	assert.True(t, before.Equal(b.Snapshot()))
}

func TestFill_ShouldRejectOutOfBoundsSeed(t *testing.T) {
	b := newBuffer(t, 4, 4)

	_, err := FloodFill(b, 4, 0, red)
	assert.ErrorIs(t, err, ErrOutOfBounds)
	_, err = FloodFill(b, 0, -1, red)
	assert.ErrorIs(t, err, ErrOutOfBounds)
}

func TestFill_LargeRegion(t *testing.T) {
	b := newBuffer(t, 1500, 1500)

	n, err := FloodFill(b, 750, 750, red)
	require.NoError(t, err)
	assert.Equal(t, 1500*1500, n)
	assert.Equal(t, red, pixel(t, b, 0, 0))
	assert.Equal(t, red, pixel(t, b, 1499, 1499))
}
