package export

import (
	"fmt"
	"io"

	"LocalNotebook/internal/render"
	"LocalNotebook/internal/state"

	"github.com/fogleman/gg"
)

// PNG renders the page as the board would show it on a surface of
// o.View and encodes the result.
func PNG(w io.Writer, page state.Page, o Options) error {
	v := o.view()
	r := o.Renderer
	if r == nil {
		r = render.NewRenderer()
	}
	dc := gg.NewContext(v.X, v.Y)
	r.RenderPage(dc, page, page.Transform(), o.Spec, nil)
	if err := dc.EncodePNG(w); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}
