package state

import (
	"fmt"
	"image"
	"strings"

	"LocalNotebook/internal/geom"
)

// Tool is the kind of gesture a pointer-down starts.
type Tool int

const (
	ToolPen Tool = iota
	ToolEraser
	ToolPan
)

// Drawable reports whether strokes may be created with t. Eraser is kept
// as a stored value for notebooks that carry it; nothing draws with it.
func (t Tool) Drawable() bool {
	return t == ToolPen
}

func (t Tool) String() string {
	switch t {
	case ToolPen:
		return "pen"
	case ToolEraser:
		return "eraser"
	case ToolPan:
		return "pan"
	}
	return fmt.Sprintf("tool(%d)", int(t))
}

// ParseTool is the inverse of Tool.String.
func ParseTool(s string) (Tool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "pen":
		return ToolPen, nil
	case "eraser":
		return ToolEraser, nil
	case "pan":
		return ToolPan, nil
	}
	return 0, fmt.Errorf("unknown tool %q", s)
}

// ParseInputTool parses a tool a user or device may select: pen or pan.
func ParseInputTool(s string) (Tool, error) {
	t, err := ParseTool(s)
	if err != nil {
		return 0, err
	}
	if t != ToolPen && t != ToolPan {
		return 0, fmt.Errorf("tool %s cannot be selected", t)
	}
	return t, nil
}

func (t Tool) MarshalText() ([]byte, error) { return []byte(t.String()), nil }

func (t *Tool) UnmarshalText(b []byte) error {
	v, err := ParseTool(string(b))
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// Stroke is one pen gesture. Points are in world space, in the order they
// were drawn. A finalized stroke is never modified.
type Stroke struct {
	ID     string       `json:"id"`
	Tool   Tool         `json:"tool"`
	Points []geom.Point `json:"points"`
	Color  string       `json:"color"`
	Width  float64      `json:"width"`
}

// CanvasObjects is the drawable content of a page.
type CanvasObjects struct {
	Strokes   []Stroke       `json:"strokes"`
	Transform geom.Transform `json:"transform"`
}

// Background is an externally supplied raster drawn beneath the strokes.
// Ref is what gets persisted (a data URL or a file path); Image is the
// decoded form and is filled in by whoever loads the page.
type Background struct {
	Ref   string      `json:"ref"`
	Image image.Image `json:"-"`
}

// PDFBackground points at one page of a PDF document.
type PDFBackground struct {
	Document string `json:"document"`
	Page     int    `json:"page"`
}

// Page is one sheet of the notebook. Pages are values; the host replaces
// them wholesale instead of mutating the CanvasObjects they point to.
type Page struct {
	ID              string         `json:"id"`
	Objects         *CanvasObjects `json:"objects,omitempty"`
	BackgroundImage *Background    `json:"backgroundImage,omitempty"`
	BackgroundPDF   *PDFBackground `json:"backgroundPdf,omitempty"`
}

// NewPage returns an empty page with a fresh id.
func NewPage() Page {
	return Page{ID: NewID()}
}

// NewObjects returns empty content with the identity transform.
func NewObjects() *CanvasObjects {
	return &CanvasObjects{Strokes: []Stroke{}, Transform: geom.Identity()}
}

// WithObjects returns p with Objects initialized if it was absent.
// The second result reports whether anything was created.
func (p Page) WithObjects() (Page, bool) {
	if p.Objects != nil {
		return p, false
	}
	p.Objects = NewObjects()
	return p, true
}

// Strokes returns the page's strokes, nil if the page was never touched.
func (p Page) Strokes() []Stroke {
	if p.Objects == nil {
		return nil
	}
	return p.Objects.Strokes
}

// Transform returns the page's viewport transform, identity if untouched.
func (p Page) Transform() geom.Transform {
	if p.Objects == nil {
		return geom.Identity()
	}
	return p.Objects.Transform
}

// withContent returns a copy of p whose Objects are a fresh struct holding
// strokes and t. The stroke slice is not copied; callers pass a new one.
func (p Page) withContent(strokes []Stroke, t geom.Transform) Page {
	p.Objects = &CanvasObjects{Strokes: strokes, Transform: t}
	return p
}
