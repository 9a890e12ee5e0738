// Package preview opens a Gio window showing a live canvas. Pointer events
// paint through the ToolController; the keyboard selects tools and drives
// undo, redo, text entry and export.
//
// Key bindings:
//
//	F1..F7        freehand, line, rectangle, circle, fill, text, eraser
//	↑ / ↓         increase / decrease the stroke width
//	Short-Z       undo
//	Short-Y       redo
//	Short-N       clear the canvas
//	Short-S       export the drawing as PNG
//	⏎             commit the pending text
//	⌫             delete the last pending character
//	⎋             cancel the pending text, or close the window
package preview

import (
	"fmt"
	"image"
	"image/color"
	"path/filepath"

	"gioui.org/app"
	"gioui.org/io/key"
	"gioui.org/io/pointer"
	"gioui.org/io/system"
	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/op/clip"
	"gioui.org/op/paint"
	"gioui.org/unit"
	"github.com/esimov/doodle"
	"github.com/esimov/doodle/utils"
	"github.com/google/uuid"
)

type (
	C = layout.Context
	D = layout.Dimensions
)

// maxWidth bounds the stroke width reachable from the keyboard.
const maxWidth = 64

const shortcuts = "Short-[Z,Y,N,S]|F1|F2|F3|F4|F5|F6|F7|↑|↓|⏎|⌫|⎋"

var (
	defaultBkgColor = color.NRGBA{R: 0x2b, G: 0x2b, B: 0x2b, A: 0xff}

	toolKeys = map[string]doodle.Tool{
		key.NameF1: doodle.Freehand,
		key.NameF2: doodle.Line,
		key.NameF3: doodle.Rectangle,
		key.NameF4: doodle.Circle,
		key.NameF5: doodle.Fill,
		key.NameF6: doodle.Text,
		key.NameF7: doodle.Eraser,
	}
)

// Options configures a preview window.
type Options struct {
	// Title is the window title prefix.
	Title string
	// OutDir is the directory receiving the exported drawings.
	OutDir string
	// Notify receives a message for every export, successful or not.
	Notify func(msg string, err error)
}

// Window is the interactive canvas window. It is the only caller of its controller.
type Window struct {
	ctrl    *doodle.ToolController
	opts    Options
	win     *app.Window
	focused bool
}

// New creates a window for the controller; Run opens it.
func New(ctrl *doodle.ToolController, opts Options) *Window {
	if opts.Title == "" {
		opts.Title = "Doodle"
	}
	if opts.OutDir == "" {
		opts.OutDir = "."
	}
	if opts.Notify == nil {
		opts.Notify = func(string, error) {}
	}
	return &Window{ctrl: ctrl, opts: opts}
}

// Run opens the window and processes its events until it is closed.
// The caller must run app.Main on the main goroutine.
func (w *Window) Run() error {
	b := w.ctrl.Buffer().Bounds()
	w.win = app.NewWindow(
		app.Title(w.opts.Title),
		app.Size(unit.Dp(float32(b.Dx())), unit.Dp(float32(b.Dy()))),
	)

	var ops op.Ops
	for e := range w.win.Events() {
		switch e := e.(type) {
		case system.FrameEvent:
			gtx := layout.NewContext(&ops, e)
			w.handle(gtx)
			w.layout(gtx)
			e.Frame(gtx.Ops)
		case system.DestroyEvent:
			return e.Err
		}
	}
	return nil
}

// handle dispatches the queued input events to the controller.
func (w *Window) handle(gtx C) {
	for _, ev := range gtx.Events(w) {
		switch e := ev.(type) {
		case pointer.Event:
			w.report(dispatchPointer(w.ctrl, e))
		case key.EditEvent:
			w.ctrl.TypeText(e.Text)
		case key.FocusEvent:
			if !e.Focus {
				w.report(w.ctrl.CommitText())
			}
		case key.Event:
			if e.State == key.Press {
				w.key(e)
			}
		}
	}
}

// dispatchPointer forwards a pointer event to the controller. Positions are in
// buffer pixels since the canvas is drawn unscaled at the origin.
func dispatchPointer(ctrl *doodle.ToolController, e pointer.Event) error {
	p := image.Pt(int(e.Position.X), int(e.Position.Y))
	switch e.Type {
	case pointer.Press:
		return ctrl.PointerDown(p)
	case pointer.Drag:
		return ctrl.PointerMove(p)
	case pointer.Release:
		return ctrl.PointerUp(p)
	case pointer.Leave, pointer.Cancel:
		ctrl.PointerLeave()
	}
	return nil
}

// statusText describes the current tool selection.
func statusText(s doodle.ToolState) string {
	return fmt.Sprintf("%s %s width %d", s.Tool, utils.RGBAToHex(s.Color), s.Width)
}

// key handles a key press.
func (w *Window) key(e key.Event) {
	if e.Modifiers.Contain(key.ModShortcut) {
		switch e.Name {
		case "Z":
			w.ctrl.Undo()
		case "Y":
			w.ctrl.Redo()
		case "N":
			w.ctrl.Clear()
		case "S":
			w.export()
		}
		return
	}

	if t, ok := toolKeys[string(e.Name)]; ok {
		w.report(w.ctrl.SelectTool(t))
		w.setStatus(statusText(w.ctrl.State()))
		return
	}

	switch e.Name {
	case key.NameUpArrow, key.NameDownArrow:
		step := 1
		if e.Name == key.NameDownArrow {
			step = -1
		}
		width := utils.Clamp(w.ctrl.State().Width+step, 1, maxWidth)
		w.report(w.ctrl.SetWidth(width))
		w.setStatus(statusText(w.ctrl.State()))
	case key.NameReturn:
		w.report(w.ctrl.CommitText())
	case key.NameDeleteBackward:
		w.ctrl.Backspace()
	case key.NameEscape:
		if _, ok := w.ctrl.PendingText(); ok {
			w.ctrl.CancelText()
			return
		}
		w.win.Perform(system.ActionClose)
	}
}

// export saves the drawing under a unique name. A failure is reported and
// leaves the drawing editable.
func (w *Window) export() {
	path := filepath.Join(w.opts.OutDir, fmt.Sprintf("doodle-%s.png", uuid.NewString()))
	if err := w.ctrl.Save(path); err != nil {
		w.opts.Notify("export failed", err)
		w.setStatus("export failed")
		return
	}
	w.opts.Notify("drawing saved as "+path, nil)
	w.setStatus("saved " + filepath.Base(path))
}

func (w *Window) report(err error) {
	if err != nil {
		w.opts.Notify("drawing error", err)
	}
}

// setStatus shows a short message in the window title.
func (w *Window) setStatus(msg string) {
	w.win.Option(app.Title(fmt.Sprintf("%s ⇢ %s", w.opts.Title, msg)))
}

// layout draws the canvas at its native pixel size and registers the input handlers over it.
func (w *Window) layout(gtx C) D {
	paint.Fill(gtx.Ops, defaultBkgColor)

	img, err := w.ctrl.Composite()
	if err != nil {
		w.report(err)
		img = w.ctrl.Buffer().Image()
	}
	size := img.Bounds().Size()

	area := clip.Rect{Max: size}.Push(gtx.Ops)
	paint.NewImageOp(img).Add(gtx.Ops)
	paint.PaintOp{}.Add(gtx.Ops)

	pointer.InputOp{
		Tag:   w,
		Types: pointer.Press | pointer.Drag | pointer.Release | pointer.Leave | pointer.Cancel,
	}.Add(gtx.Ops)
	key.InputOp{Tag: w, Keys: shortcuts}.Add(gtx.Ops)
	if !w.focused {
		key.FocusOp{Tag: w}.Add(gtx.Ops)
		w.focused = true
	}
	area.Pop()

	return D{Size: gtx.Constraints.Max}
}
