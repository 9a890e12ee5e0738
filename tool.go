package doodle

import (
	"fmt"
	"image/color"
	"strings"
)

// Tool is a drawing mode.
type Tool int

// The supported drawing tools.
const (
	Freehand Tool = iota
	Line
	Rectangle
	Circle
	Fill
	Text
	Eraser
)

var toolNames = [...]string{
	Freehand:  "freehand",
	Line:      "line",
	Rectangle: "rectangle",
	Circle:    "circle",
	Fill:      "fill",
	Text:      "text",
	Eraser:    "eraser",
}

// toolAliases are the alternative names accepted by ParseTool.
var toolAliases = map[string]Tool{
	"pen":    Freehand,
	"pencil": Freehand,
	"rect":   Rectangle,
	"bucket": Fill,
}

func (t Tool) String() string {
	if t < 0 || int(t) >= len(toolNames) {
		return fmt.Sprintf("Tool(%d)", int(t))
	}
	return toolNames[t]
}

// isShape tells if the tool previews its shape with restore-then-redraw.
func (t Tool) isShape() bool {
	return t == Line || t == Rectangle || t == Circle
}

// ParseTool returns the tool with the given name, case insensitive.
func ParseTool(name string) (Tool, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	for t, s := range toolNames {
		if s == n {
			return Tool(t), nil
		}
	}
	if t, ok := toolAliases[n]; ok {
		return t, nil
	}
	return Freehand, fmt.Errorf("unknown tool %q", name)
}

// DefaultColor is the initial stroke color.
var DefaultColor = color.NRGBA{A: 0xff}

// DefaultWidth is the initial stroke width.
const DefaultWidth = 2

// ToolState is the tool selection read on every paint operation.
type ToolState struct {
	Tool  Tool
	Color color.NRGBA
	Width int
}

// Pen returns the color and width of the current selection.
func (s ToolState) Pen() Pen {
	return Pen{Color: s.Color, Width: s.Width}
}
