package doodle

import (
	"fmt"
	"image"
	"image/color"
	"unicode/utf8"

	"github.com/esimov/doodle/utils"
)

// GestureState is the state of the controller state machine.
type GestureState int

const (
	// Idle means no pointer gesture is in progress.
	Idle GestureState = iota
	// Gesturing means a stroke or shape is being drawn.
	Gesturing
)

func (s GestureState) String() string {
	if s == Gesturing {
		return "gesturing"
	}
	return "idle"
}

// PendingText is a text entry placed on the canvas but not committed yet.
type PendingText struct {
	At   image.Point
	Text string
	Pen  Pen
}

// Option configures a ToolController.
type Option func(*ToolController)

// WithRenderer replaces the default VectorRenderer.
func WithRenderer(r StrokeRenderer) Option {
	return func(c *ToolController) {
		c.renderer = r
	}
}

// WithHistoryCapacity sets the number of undo steps kept.
func WithHistoryCapacity(n int) Option {
	return func(c *ToolController) {
		c.history = NewHistoryStack(n)
	}
}

// ToolController turns pointer, key and command input into paint operations
// on the buffer it owns. Every destructive operation snapshots the buffer
// first, so every committed change can be undone.
//
// A controller is meant to be driven from a single goroutine.
type ToolController struct {
	buf      *PixelBuffer
	history  *HistoryStack
	renderer StrokeRenderer
	tool     ToolState

	state  GestureState
	anchor image.Point
	last   image.Point
	// base holds the pre-gesture contents restored before each shape preview.
	base *Snapshot
	text *PendingText
}

// NewToolController creates a controller owning buf.
func NewToolController(buf *PixelBuffer, opts ...Option) *ToolController {
	c := &ToolController{
		buf: buf,
		tool: ToolState{
			Tool:  Freehand,
			Color: DefaultColor,
			Width: DefaultWidth,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.history == nil {
		c.history = NewHistoryStack(DefaultHistoryCapacity)
	}
	if c.renderer == nil {
		c.renderer = NewVectorRenderer()
	}
	return c
}

// Buffer returns the buffer currently owned by the controller.
// Resize and undoing a resize replace it, so callers should not cache it.
func (c *ToolController) Buffer() *PixelBuffer { return c.buf }

// History returns the undo history.
func (c *ToolController) History() *HistoryStack { return c.history }

// State returns the current tool selection.
func (c *ToolController) State() ToolState { return c.tool }

// Gesture returns the state machine state.
func (c *ToolController) Gesture() GestureState { return c.state }

// Gesturing tells if a stroke or shape is in progress.
func (c *ToolController) Gesturing() bool { return c.state == Gesturing }

// PendingText returns the uncommitted text entry, if any.
func (c *ToolController) PendingText() (PendingText, bool) {
	if c.text == nil {
		return PendingText{}, false
	}
	return *c.text, true
}

// SelectTool changes the active tool. A pending text entry is committed first.
func (c *ToolController) SelectTool(t Tool) error {
	if t < Freehand || t > Eraser {
		return fmt.Errorf("unknown tool %v", t)
	}
	c.finishGesture()
	if err := c.CommitText(); err != nil {
		return err
	}
	c.tool.Tool = t
	return nil
}

// SetColor changes the stroke color. The alpha channel is ignored.
func (c *ToolController) SetColor(col color.NRGBA) {
	c.tool.Color = opaque(col)
	if c.text != nil {
		c.text.Pen.Color = c.tool.Color
	}
}

// SetColorHex changes the stroke color from a #rrggbb or #rgb string.
func (c *ToolController) SetColorHex(hex string) error {
	col, err := utils.HexToRGBA(hex)
	if err != nil {
		return err
	}
	c.SetColor(col)
	return nil
}

// SetWidth changes the stroke width, which must be at least 1.
func (c *ToolController) SetWidth(w int) error {
	if w < 1 {
		return fmt.Errorf("invalid stroke width %d", w)
	}
	c.tool.Width = w
	if c.text != nil {
		c.text.Pen.Width = w
	}
	return nil
}

// PointerDown starts a gesture at p. Presses outside the buffer are ignored.
// Fill completes immediately; text places a pending entry awaiting confirmation.
func (c *ToolController) PointerDown(p image.Point) error {
	if !c.buf.Contains(p) {
		return nil
	}
	c.finishGesture()
	if err := c.CommitText(); err != nil {
		return err
	}

	pen := c.pen()
	switch c.tool.Tool {
	case Fill:
		target, err := c.buf.GetPixel(p.X, p.Y)
		if err != nil {
			return err
		}
		if sameRGB(target, pen.Color) {
			Logger().Debug("degenerate fill skipped", "x", p.X, "y", p.Y)
			return nil
		}
		c.history.Push(c.buf.Snapshot())
		_, err = c.renderer.Fill(c.buf, p, pen)
		return err
	case Text:
		c.text = &PendingText{At: p, Pen: pen}
		return nil
	}

	c.base = c.buf.Snapshot()
	c.history.Push(c.base)
	c.state = Gesturing
	c.anchor, c.last = p, p

	if c.tool.Tool == Freehand || c.tool.Tool == Eraser {
		c.renderer.Segment(c.buf, p, p, pen)
	}
	return nil
}

// PointerMove continues the gesture in progress. It does nothing while idle.
func (c *ToolController) PointerMove(p image.Point) error {
	if c.state != Gesturing {
		return nil
	}
	pen := c.pen()

	switch c.tool.Tool {
	case Freehand, Eraser:
		c.renderer.Segment(c.buf, c.last, p, pen)
	case Line, Rectangle, Circle:
		if err := c.buf.Restore(c.base); err != nil {
			return err
		}
		switch c.tool.Tool {
		case Line:
			c.renderer.Line(c.buf, c.anchor, p, pen)
		case Rectangle:
			c.renderer.Rectangle(c.buf, c.anchor, p, pen)
		case Circle:
			c.renderer.Circle(c.buf, c.anchor, p, pen)
		}
	}
	c.last = p

	return nil
}

// PointerUp ends the gesture at p, keeping the buffer as last rendered.
func (c *ToolController) PointerUp(p image.Point) error {
	if c.state != Gesturing {
		return nil
	}
	// Shapes redraw from the base snapshot, so a click without drag still
	// leaves the degenerate shape behind.
	if c.tool.Tool.isShape() || p != c.last {
		if err := c.PointerMove(p); err != nil {
			return err
		}
	}
	c.finishGesture()

	return nil
}

// PointerLeave abandons the gesture; what was painted so far stays.
func (c *ToolController) PointerLeave() {
	c.finishGesture()
}

func (c *ToolController) finishGesture() {
	c.state = Idle
	c.base = nil
}

// TypeText appends s to the pending text entry.
func (c *ToolController) TypeText(s string) {
	if c.text != nil {
		c.text.Text += s
	}
}

// Backspace removes the last character of the pending text entry.
func (c *ToolController) Backspace() {
	if c.text == nil || c.text.Text == "" {
		return
	}
	_, size := utf8.DecodeLastRuneInString(c.text.Text)
	c.text.Text = c.text.Text[:len(c.text.Text)-size]
}

// CommitText renders the pending text into the buffer. An empty entry is dropped without touching the history.
func (c *ToolController) CommitText() error {
	t := c.text
	if t == nil {
		return nil
	}
	c.text = nil
	if t.Text == "" {
		return nil
	}
	c.history.Push(c.buf.Snapshot())

	return c.renderer.Text(c.buf, t.At, t.Text, t.Pen)
}

// CancelText drops the pending text entry.
func (c *ToolController) CancelText() {
	c.text = nil
}

// Clear fills the buffer with its background color. The clear is undoable.
func (c *ToolController) Clear() {
	c.finishGesture()
	c.text = nil
	c.history.Push(c.buf.Snapshot())
	c.buf.Clear()
}

// Undo restores the state before the last destructive operation.
// It returns false when there is nothing to undo.
func (c *ToolController) Undo() bool {
	c.finishGesture()
	c.text = nil

	s, ok := c.history.Undo(c.buf.Snapshot())
	if !ok {
		Logger().Debug("nothing to undo")
		return false
	}
	c.apply(s)
	return true
}

// Redo reapplies the last undone operation.
// It returns false when there is nothing to redo.
func (c *ToolController) Redo() bool {
	c.finishGesture()
	c.text = nil

	s, ok := c.history.Redo(c.buf.Snapshot())
	if !ok {
		Logger().Debug("nothing to redo")
		return false
	}
	c.apply(s)
	return true
}

// apply restores s; a snapshot taken before a resize brings the old buffer size back.
func (c *ToolController) apply(s *Snapshot) {
	if err := c.buf.Restore(s); err != nil {
		c.buf = newPixelBufferFromSnapshot(s, c.buf.Background())
	}
}

// Resize replaces the buffer with a resized copy. A gesture in progress is
// ended first with its last rendered state kept. The resize is undoable.
func (c *ToolController) Resize(width, height int, mode ResizeMode) error {
	c.finishGesture()
	if err := c.CommitText(); err != nil {
		return err
	}
	if width == c.buf.Width() && height == c.buf.Height() {
		return nil
	}
	buf, err := c.buf.Resized(width, height, mode)
	if err != nil {
		return err
	}
	Logger().Debug("canvas resized",
		"from", c.buf.Bounds().Size(), "to", buf.Bounds().Size(), "mode", mode)

	c.history.Push(c.buf.Snapshot())
	c.buf = buf

	return nil
}

// Composite returns a copy of the buffer with the pending text drawn over it.
// The buffer itself is left untouched.
func (c *ToolController) Composite() (*image.NRGBA, error) {
	if c.text == nil || c.text.Text == "" {
		return c.buf.Image(), nil
	}
	preview := &PixelBuffer{img: c.buf.Image(), bg: c.buf.Background()}
	if err := c.renderer.Text(preview, c.text.At, c.text.Text, c.text.Pen); err != nil {
		return nil, err
	}
	return preview.img, nil
}

// pen returns the paint for the current tool; the eraser paints the background.
func (c *ToolController) pen() Pen {
	pen := c.tool.Pen()
	if c.tool.Tool == Eraser {
		pen.Color = c.buf.Background()
	}
	return pen
}
