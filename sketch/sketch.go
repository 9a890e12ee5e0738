// Package sketch implements a YAML document format describing a canvas and
// the list of input events drawn onto it. Replaying a sketch drives a
// doodle.ToolController exactly like a pointer and a keyboard would.
//
//	width: 200
//	height: 120
//	background: "#ffffff"
//	steps:
//	  - {tool: rectangle, color: "#ff0000", size: 3}
//	  - {down: [10, 10]}
//	  - {path: [[30, 20], [60, 40]]}
//	  - {up: [60, 40]}
//	  - {undo: 1}
package sketch

import (
	"image"
	"io"
	"os"
	"path/filepath"

	"github.com/esimov/doodle"
	"github.com/esimov/doodle/utils"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Sketch is a canvas description followed by the input steps drawn on it.
type Sketch struct {
	Width      int    `yaml:"width,omitempty"`
	Height     int    `yaml:"height,omitempty"`
	Background string `yaml:"background,omitempty"`
	History    int    `yaml:"history,omitempty"`
	// Image is a path, relative to the sketch file, or an URL of a starting image.
	Image string `yaml:"image,omitempty"`
	Steps []Step `yaml:"steps"`

	dir string
}

// Point is a pixel coordinate written as a two element sequence.
type Point struct {
	X, Y int
}

// Pt returns the point as an image.Point.
func (p Point) Pt() image.Point { return image.Pt(p.X, p.Y) }

// UnmarshalYAML decodes [x, y].
func (p *Point) UnmarshalYAML(n *yaml.Node) error {
	var xy []int
	if err := n.Decode(&xy); err != nil {
		return errors.Wrapf(err, "line %d: point", n.Line)
	}
	if len(xy) != 2 {
		return errors.Errorf("line %d: a point needs exactly two coordinates, got %d", n.Line, len(xy))
	}
	p.X, p.Y = xy[0], xy[1]
	return nil
}

// MarshalYAML encodes the point as [x, y].
func (p Point) MarshalYAML() (interface{}, error) {
	n := &yaml.Node{Kind: yaml.SequenceNode, Style: yaml.FlowStyle}
	for _, v := range []int{p.X, p.Y} {
		var c yaml.Node
		if err := c.Encode(v); err != nil {
			return nil, err
		}
		n.Content = append(n.Content, &c)
	}
	return n, nil
}

// Resize describes a canvas resize.
type Resize struct {
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Mode   string `yaml:"mode,omitempty"`
}

// Step is one batch of input. The fields present are applied in the order
// they are declared here.
type Step struct {
	Tool      string  `yaml:"tool,omitempty"`
	Color     string  `yaml:"color,omitempty"`
	Size      int     `yaml:"size,omitempty"`
	Resize    *Resize `yaml:"resize,omitempty"`
	Down      *Point  `yaml:"down,omitempty"`
	Move      *Point  `yaml:"move,omitempty"`
	Path      []Point `yaml:"path,omitempty"`
	Up        *Point  `yaml:"up,omitempty"`
	Leave     bool    `yaml:"leave,omitempty"`
	Text      string  `yaml:"text,omitempty"`
	Backspace int     `yaml:"backspace,omitempty"`
	Commit    bool    `yaml:"commit,omitempty"`
	Cancel    bool    `yaml:"cancel,omitempty"`
	Clear     bool    `yaml:"clear,omitempty"`
	Undo      int     `yaml:"undo,omitempty"`
	Redo      int     `yaml:"redo,omitempty"`
}

// Decode reads a sketch document. Unknown fields are rejected.
func Decode(r io.Reader) (*Sketch, error) {
	var s Sketch

	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil {
		if err == io.EOF {
			return nil, errors.New("empty sketch document")
		}
		return nil, errors.Wrap(err, "could not decode the sketch")
	}
	return &s, nil
}

// Load reads the sketch file at path.
func Load(path string) (*Sketch, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "could not open the sketch")
	}
	defer f.Close()

	s, err := Decode(f)
	if err != nil {
		return nil, errors.Wrap(err, path)
	}
	s.dir = filepath.Dir(path)

	return s, nil
}

// Encode writes the sketch as YAML.
func (s *Sketch) Encode(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(s); err != nil {
		return errors.Wrap(err, "could not encode the sketch")
	}
	return enc.Close()
}

// Canvas creates the buffer and controller described by the sketch header.
func (s *Sketch) Canvas() (*doodle.ToolController, error) {
	bg := doodle.DefaultBackground
	if s.Background != "" {
		c, err := utils.HexToRGBA(s.Background)
		if err != nil {
			return nil, errors.Wrap(err, "background")
		}
		bg = c
	}

	var (
		buf *doodle.PixelBuffer
		err error
	)
	if s.Image != "" {
		img, err := s.loadImage()
		if err != nil {
			return nil, err
		}
		if buf, err = doodle.NewPixelBufferFromImage(img, bg); err != nil {
			return nil, errors.Wrap(err, "image")
		}
		w, h := s.Width, s.Height
		if w == 0 {
			w = buf.Width()
		}
		if h == 0 {
			h = buf.Height()
		}
		if w != buf.Width() || h != buf.Height() {
			if buf, err = buf.Resized(w, h, doodle.ResizeScale); err != nil {
				return nil, errors.Wrap(err, "image")
			}
		}
	} else {
		if buf, err = doodle.NewPixelBuffer(s.Width, s.Height, bg); err != nil {
			return nil, errors.Wrap(err, "canvas")
		}
	}

	return doodle.NewToolController(buf, doodle.WithHistoryCapacity(s.History)), nil
}

// loadImage fetches the starting image from disk or from the network.
func (s *Sketch) loadImage() (image.Image, error) {
	if utils.IsValidUrl(s.Image) {
		f, err := utils.DownloadImage(s.Image)
		if err != nil {
			return nil, errors.Wrap(err, "image")
		}
		defer os.Remove(f.Name())
		defer f.Close()

		return doodle.DecodeImage(f)
	}

	path := s.Image
	if !filepath.IsAbs(path) && s.dir != "" {
		path = filepath.Join(s.dir, path)
	}
	img, err := doodle.LoadImage(path)
	if err != nil {
		return nil, errors.Wrap(err, "image")
	}
	return img, nil
}

// Play replays every step on the controller. The error names the failing step, counted from 1.
func (s *Sketch) Play(c *doodle.ToolController) error {
	for i, st := range s.Steps {
		if err := st.Apply(c); err != nil {
			return errors.Wrapf(err, "step %d", i+1)
		}
	}
	return nil
}

// Render builds the canvas and replays the steps.
func (s *Sketch) Render() (*doodle.ToolController, error) {
	c, err := s.Canvas()
	if err != nil {
		return nil, err
	}
	if err := s.Play(c); err != nil {
		return nil, err
	}
	return c, nil
}

// Apply runs the step against the controller.
func (st Step) Apply(c *doodle.ToolController) error {
	if st.Tool != "" {
		t, err := doodle.ParseTool(st.Tool)
		if err != nil {
			return err
		}
		if err := c.SelectTool(t); err != nil {
			return err
		}
	}
	if st.Color != "" {
		if err := c.SetColorHex(st.Color); err != nil {
			return err
		}
	}
	if st.Size != 0 {
		if err := c.SetWidth(st.Size); err != nil {
			return err
		}
	}
	if st.Resize != nil {
		mode, err := doodle.ParseResizeMode(st.Resize.Mode)
		if err != nil {
			return err
		}
		if err := c.Resize(st.Resize.Width, st.Resize.Height, mode); err != nil {
			return err
		}
	}
	if st.Down != nil {
		if err := c.PointerDown(st.Down.Pt()); err != nil {
			return err
		}
	}
	if st.Move != nil {
		if err := c.PointerMove(st.Move.Pt()); err != nil {
			return err
		}
	}
	for _, p := range st.Path {
		if err := c.PointerMove(p.Pt()); err != nil {
			return err
		}
	}
	if st.Up != nil {
		if err := c.PointerUp(st.Up.Pt()); err != nil {
			return err
		}
	}
	if st.Leave {
		c.PointerLeave()
	}
	if st.Text != "" {
		if _, ok := c.PendingText(); !ok {
			return errors.New("text typed without a text entry placed on the canvas")
		}
		c.TypeText(st.Text)
	}
	for i := 0; i < st.Backspace; i++ {
		c.Backspace()
	}
	if st.Commit {
		if err := c.CommitText(); err != nil {
			return err
		}
	}
	if st.Cancel {
		c.CancelText()
	}
	if st.Clear {
		c.Clear()
	}
	for i := 0; i < st.Undo; i++ {
		c.Undo()
	}
	for i := 0; i < st.Redo; i++ {
		c.Redo()
	}
	return nil
}
