package preview

import (
	"image/color"
	"testing"

	"gioui.org/f32"
	"gioui.org/io/pointer"
	"github.com/esimov/doodle"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newController(t *testing.T) *doodle.ToolController {
	t.Helper()

	buf, err := doodle.NewPixelBuffer(40, 40, doodle.DefaultBackground)
	require.NoError(t, err)
	return doodle.NewToolController(buf)
}

func TestWindow_DispatchPointerGesture(t *testing.T) {
	c := newController(t)
	blank := c.Buffer().Snapshot()

	require.NoError(t, dispatchPointer(c, pointer.Event{Type: pointer.Press, Position: f32.Pt(5.7, 5.2)}))
	assert.True(t, c.Gesturing())
	require.NoError(t, dispatchPointer(c, pointer.Event{Type: pointer.Drag, Position: f32.Pt(30, 30)}))
	require.NoError(t, dispatchPointer(c, pointer.Event{Type: pointer.Release, Position: f32.Pt(30, 30)}))
	assert.False(t, c.Gesturing())

	assert.False(t, blank.Equal(c.Buffer().Snapshot()))
	assert.Equal(t, 1, c.History().Len())
}

func TestWindow_DispatchPointerLeave(t *testing.T) {
	for _, typ := range []pointer.Type{pointer.Leave, pointer.Cancel} {
		c := newController(t)
		require.NoError(t, dispatchPointer(c, pointer.Event{Type: pointer.Press, Position: f32.Pt(10, 10)}))

		require.NoError(t, dispatchPointer(c, pointer.Event{Type: typ}))
		assert.False(t, c.Gesturing(), "type %v", typ)
	}
}

func TestWindow_DispatchPointerOutsideCanvas(t *testing.T) {
	c := newController(t)

	require.NoError(t, dispatchPointer(c, pointer.Event{Type: pointer.Press, Position: f32.Pt(80, 10)}))
	assert.False(t, c.Gesturing())
	assert.Equal(t, 0, c.History().Len())
}

func TestWindow_StatusText(t *testing.T) {
	s := doodle.ToolState{Tool: doodle.Circle, Color: color.NRGBA{R: 0xff, G: 0x80, A: 0xff}, Width: 3}
	assert.Equal(t, "circle #ff8000 width 3", statusText(s))
}
