// Package export writes pages out as PNG, SVG or PDF.
//
// PNG is the rendered view, exactly as the board shows it. SVG and PDF are
// vector documents in world units covering the page's region: the sheet
// for bounded paper, the ink for the infinite canvas.
package export

import (
	"fmt"
	"image"
	"image/color"

	"LocalNotebook/internal/geom"
	"LocalNotebook/internal/render"
	"LocalNotebook/internal/state"
)

// margin pads the ink of an infinite page, in world units.
const margin = 16

// Options describe the view a page is exported from.
type Options struct {
	Spec render.Spec
	// View is the surface size for PNG output and for the region of an
	// empty infinite page.
	View image.Point
	// Renderer is used for PNG output; nil means a fresh one.
	Renderer *render.Renderer
}

func (o Options) view() image.Point {
	if o.View.X <= 0 || o.View.Y <= 0 {
		return image.Pt(1024, 768)
	}
	return o.View
}

// Region is the world-space rectangle a vector export covers.
func Region(page state.Page, o Options) state.Rect {
	if p := o.Spec.Paper; p.Bounded() {
		return state.Rect{Width: p.Width, Height: p.Height}
	}
	if b := page.Bounds(); !b.Empty() {
		return b.Inset(margin)
	}
	v := o.view()
	t := page.Transform()
	if !t.Valid() {
		t = geom.Identity()
	}
	tl := geom.ToWorld(geom.Pt(0, 0), t)
	return state.Rect{X: tl.X, Y: tl.Y, Width: float64(v.X) / t.Scale, Height: float64(v.Y) / t.Scale}
}

// ink resolves a stroke colour the way the renderer does: unreadable
// colours are black.
func ink(s string) color.NRGBA {
	c, ok := render.ParseColor(s)
	if !ok {
		c = color.Black
	}
	return color.NRGBAModel.Convert(c).(color.NRGBA)
}

func paperFill(spec render.Spec) color.NRGBA {
	return color.NRGBAModel.Convert(render.ResolveBackground(spec.Background).Fill).(color.NRGBA)
}

func hexColor(c color.NRGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
