package doodle

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// marked returns a 1x1 snapshot whose red channel identifies it.
func marked(t *testing.T, n int) *Snapshot {
	t.Helper()

	b, err := NewPixelBuffer(1, 1, color.NRGBA{R: uint8(n)})
	require.NoError(t, err)
	return b.Snapshot()
}

func mark(s *Snapshot) int {
	return int(s.Image().NRGBAAt(0, 0).R)
}

func TestHistory_DefaultCapacity(t *testing.T) {
	assert.Equal(t, DefaultHistoryCapacity, NewHistoryStack(0).Cap())
	assert.Equal(t, DefaultHistoryCapacity, NewHistoryStack(-3).Cap())
	assert.Equal(t, 5, NewHistoryStack(5).Cap())
}

func TestHistory_ShouldEvictOldest(t *testing.T) {
	h := NewHistoryStack(20)
	for i := 1; i <= 25; i++ {
		h.Push(marked(t, i))
	}
	require.Equal(t, 20, h.Len())

	// The five oldest snapshots are gone, the rest pop newest first.
	for want := 25; want > 5; want-- {
		s, ok := h.Pop()
		require.True(t, ok)
		assert.Equal(t, want, mark(s))
	}
	_, ok := h.Pop()
	assert.False(t, ok)
}

func TestHistory_PopEmpty(t *testing.T) {
	h := NewHistoryStack(3)
	s, ok := h.Pop()
	assert.False(t, ok)
	assert.Nil(t, s)
	assert.False(t, h.CanUndo())

	_, ok = h.Undo(marked(t, 1))
	assert.False(t, ok)
	assert.False(t, h.CanRedo(), "a failed undo must not record a redo state")
}

func TestHistory_UndoRedo(t *testing.T) {
	h := NewHistoryStack(3)
	h.Push(marked(t, 1))

	s, ok := h.Undo(marked(t, 2))
	require.True(t, ok)
	assert.Equal(t, 1, mark(s))
	assert.Equal(t, 0, h.Len())
	assert.Equal(t, 1, h.RedoLen())

	s, ok = h.Redo(marked(t, 1))
	require.True(t, ok)
	assert.Equal(t, 2, mark(s))
	assert.Equal(t, 1, h.Len())
	assert.Equal(t, 0, h.RedoLen())

	_, ok = h.Redo(marked(t, 2))
	assert.False(t, ok)
}

func TestHistory_PushShouldDiscardRedo(t *testing.T) {
	h := NewHistoryStack(3)
	h.Push(marked(t, 1))
	h.Push(marked(t, 2))
	_, ok := h.Undo(marked(t, 3))
	require.True(t, ok)
	require.True(t, h.CanRedo())

	h.Push(marked(t, 4))
	assert.False(t, h.CanRedo())
	assert.Equal(t, 2, h.Len())
}

func TestHistory_RedoShouldRespectCapacity(t *testing.T) {
	h := NewHistoryStack(2)
	h.Push(marked(t, 1))
	h.Push(marked(t, 2))
	_, ok := h.Undo(marked(t, 3))
	require.True(t, ok)
	h.push(marked(t, 9))

	_, ok = h.Redo(marked(t, 10))
	require.True(t, ok)
	assert.Equal(t, 2, h.Len())

	s, _ := h.Pop()
	assert.Equal(t, 10, mark(s))
	s, _ = h.Pop()
	assert.Equal(t, 9, mark(s))
}

func TestHistory_Reset(t *testing.T) {
	h := NewHistoryStack(3)
	h.Push(marked(t, 1))
	h.Undo(marked(t, 2))
	h.Push(marked(t, 3))
	h.Undo(marked(t, 4))

	h.Reset()
	assert.Equal(t, 0, h.Len())
	assert.Equal(t, 0, h.RedoLen())
}
