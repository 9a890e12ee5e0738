package doodle

// DefaultHistoryCapacity is the number of undo steps kept by default.
const DefaultHistoryCapacity = 20

// HistoryStack is a bounded stack of snapshots with a forward stack for redo.
// Pushing a new snapshot discards the redo history.
type HistoryStack struct {
	undo     []*Snapshot
	redo     []*Snapshot
	capacity int
}

// NewHistoryStack creates an empty history holding at most capacity undo steps.
// A non positive capacity falls back to DefaultHistoryCapacity.
func NewHistoryStack(capacity int) *HistoryStack {
	if capacity < 1 {
		capacity = DefaultHistoryCapacity
	}
	return &HistoryStack{
		undo:     make([]*Snapshot, 0, capacity),
		capacity: capacity,
	}
}

// Push appends a snapshot taken before a destructive operation.
// When the capacity is exceeded the oldest snapshot is evicted.
func (h *HistoryStack) Push(s *Snapshot) {
	h.push(s)
	clear(h.redo)
	h.redo = h.redo[:0]
}

func (h *HistoryStack) push(s *Snapshot) {
	if len(h.undo) >= h.capacity {
		Logger().Debug("history full, evicting oldest snapshot", "capacity", h.capacity)
		// Shift in place so the backing array does not grow without bound.
		copy(h.undo, h.undo[1:])
		h.undo[len(h.undo)-1] = nil
		h.undo = h.undo[:len(h.undo)-1]
	}
	h.undo = append(h.undo, s)
}

// Pop removes and returns the most recent snapshot.
// The boolean is false when there is nothing to undo.
func (h *HistoryStack) Pop() (*Snapshot, bool) {
	n := len(h.undo)
	if n == 0 {
		return nil, false
	}
	s := h.undo[n-1]
	h.undo[n-1] = nil
	h.undo = h.undo[:n-1]

	return s, true
}

// Undo pops the most recent snapshot and keeps current, the state being
// abandoned, on the redo stack.
func (h *HistoryStack) Undo(current *Snapshot) (*Snapshot, bool) {
	s, ok := h.Pop()
	if !ok {
		return nil, false
	}
	h.redo = append(h.redo, current)

	return s, true
}

// Redo pops the most recently undone state and moves current back on the undo stack.
func (h *HistoryStack) Redo(current *Snapshot) (*Snapshot, bool) {
	n := len(h.redo)
	if n == 0 {
		return nil, false
	}
	s := h.redo[n-1]
	h.redo[n-1] = nil
	h.redo = h.redo[:n-1]
	h.push(current)

	return s, true
}

// Len returns the number of undo steps available.
func (h *HistoryStack) Len() int { return len(h.undo) }

// RedoLen returns the number of redo steps available.
func (h *HistoryStack) RedoLen() int { return len(h.redo) }

// Cap returns the maximum number of undo steps.
func (h *HistoryStack) Cap() int { return h.capacity }

// CanUndo returns true if there are states to undo.
func (h *HistoryStack) CanUndo() bool { return len(h.undo) > 0 }

// CanRedo returns true if there are states to redo.
func (h *HistoryStack) CanRedo() bool { return len(h.redo) > 0 }

// Reset drops the whole history.
func (h *HistoryStack) Reset() {
	clear(h.undo)
	clear(h.redo)
	h.undo = h.undo[:0]
	h.redo = h.redo[:0]
}
