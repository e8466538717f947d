// Package render paints a notebook page onto a gg raster surface.
//
// A full render is layered, later layers covering earlier ones:
// outside-paper fill, paper with its ruling (clipped to the sheet in
// bounded mode), background images, then every stroke in insertion order
// under the page's viewport transform. The context's state is restored
// before returning, so repeated calls with the same input yield the same
// pixels.
//
// Strokes are painted one segment at a time. The incremental path draws
// exactly the same segment operations, so appending the newest segment to
// the previous frame is pixel-identical to a full redraw.
package render

import (
	"image"
	"image/color"
	"sync"

	"LocalNotebook/internal/geom"
	"LocalNotebook/internal/logging"
	"LocalNotebook/internal/state"

	"github.com/fogleman/gg"
)

// PDFRasterizer turns a page of a PDF document into pixels. Without one,
// PDF backgrounds are skipped.
type PDFRasterizer interface {
	Rasterize(ref state.PDFBackground) (image.Image, error)
}

// Renderer keeps the caches that make repeated full renders cheap. It is
// safe for concurrent use, although a single surface must only be
// rendered by one goroutine at a time.
type Renderer struct {
	PDF PDFRasterizer

	mu     sync.Mutex
	scaled map[scaleKey]*image.RGBA
}

// NewRenderer returns a renderer without a PDF rasterizer.
func NewRenderer() *Renderer {
	return &Renderer{scaled: make(map[scaleKey]*image.RGBA)}
}

// RenderPage redraws the whole surface. active is the stroke being drawn,
// if any; it is painted above the page's strokes.
func (r *Renderer) RenderPage(dc *gg.Context, page state.Page, t geom.Transform, spec Spec, active *state.Stroke) {
	if !t.Valid() {
		logging.Logger().Warn("[RENDER] invalid transform, using identity", "page", page.ID, "scale", t.Scale)
		t = geom.Identity()
	}
	w, h := dc.Width(), dc.Height()
	bg := ResolveBackground(spec.Background)

	dc.Push()
	defer dc.Pop()

	dc.SetColor(outsideColor)
	dc.Clear()

	area := paperRect(spec.Paper, t, w, h)
	origin := geom.Pt(t.X, t.Y)
	if spec.Paper.Bounded() {
		origin = geom.Pt(area.x, area.y)
		dc.SetColor(borderColor)
		dc.SetLineWidth(2)
		dc.DrawRectangle(area.x-1, area.y-1, area.w+2, area.h+2)
		dc.Stroke()
		clipTo(dc, area)
	}
	drawPaper(dc, bg, area, origin, t.Scale)

	if page.BackgroundPDF != nil && r.PDF != nil {
		img, err := r.PDF.Rasterize(*page.BackgroundPDF)
		if err != nil {
			logging.Logger().Debug("[RENDER] pdf background unavailable", "page", page.ID, "err", err)
		} else {
			r.drawImage(dc, img, area)
		}
	}
	if page.BackgroundImage != nil && page.BackgroundImage.Image != nil {
		r.drawImage(dc, page.BackgroundImage.Image, area)
	}

	dc.Translate(t.X, t.Y)
	dc.Scale(t.Scale, t.Scale)

	view := visibleWorld(t, w, h)
	for _, s := range page.Strokes() {
		if !s.Bounds().Inset(2 / t.Scale).Overlaps(view) {
			continue
		}
		drawStroke(dc, s, t.Scale)
	}
	if active != nil {
		drawStroke(dc, *active, t.Scale)
	}
}

// RenderSegment paints the newest segment of the active stroke on top of
// the current surface. It does nothing until the stroke has two points.
func (r *Renderer) RenderSegment(dc *gg.Context, t geom.Transform, spec Spec, s *state.Stroke) {
	if s == nil || !t.Valid() {
		return
	}
	from, to, ok := s.Segment()
	if !ok {
		return
	}
	dc.Push()
	defer dc.Pop()

	if spec.Paper.Bounded() {
		clipTo(dc, paperRect(spec.Paper, t, dc.Width(), dc.Height()))
	}
	dc.Translate(t.X, t.Y)
	dc.Scale(t.Scale, t.Scale)
	drawSegment(dc, strokeColor(s.Color), s.Width*t.Scale, from, to)
}

func clipTo(dc *gg.Context, area rect) {
	dc.DrawRectangle(area.x, area.y, area.w, area.h)
	dc.Clip()
}

func visibleWorld(t geom.Transform, w, h int) state.Rect {
	tl := geom.ToWorld(geom.Pt(0, 0), t)
	br := geom.ToWorld(geom.Pt(float64(w), float64(h)), t)
	return state.Rect{X: tl.X, Y: tl.Y, Width: br.X - tl.X, Height: br.Y - tl.Y}
}

func drawStroke(dc *gg.Context, s state.Stroke, scale float64) {
	c := strokeColor(s.Color)
	for i := 1; i < len(s.Points); i++ {
		drawSegment(dc, c, s.Width*scale, s.Points[i-1], s.Points[i])
	}
}

// drawSegment strokes one segment. gg line widths are in device pixels, so
// the caller passes the width already multiplied by the zoom.
func drawSegment(dc *gg.Context, c color.Color, width float64, from, to geom.Point) {
	dc.SetColor(c)
	dc.SetLineWidth(width)
	dc.SetLineCapRound()
	dc.SetLineJoinRound()
	dc.DrawLine(from.X, from.Y, to.X, to.Y)
	dc.Stroke()
}
