package export

import (
	"bytes"
	"fmt"
	"image/png"
	"io"

	"LocalNotebook/internal/logging"
	"LocalNotebook/internal/state"

	"github.com/jung-kurt/gofpdf"
)

// ptPerUnit converts world units (96 dpi pixels) to PDF points.
const ptPerUnit = 72.0 / 96.0

// PDF writes every page into one document, one PDF page per notebook page,
// each sized to its Region.
func PDF(w io.Writer, pages []state.Page, o Options) error {
	p, err := document(pages, o)
	if err != nil {
		return err
	}
	if err := p.Output(w); err != nil {
		return fmt.Errorf("export pdf: %w", err)
	}
	return nil
}

// PDFFile writes the document to path.
func PDFFile(path string, pages []state.Page, o Options) error {
	p, err := document(pages, o)
	if err != nil {
		return err
	}
	if err := p.OutputFileAndClose(path); err != nil {
		return fmt.Errorf("export pdf: %w", err)
	}
	logging.Logger().Info("[EXPORT] pdf written", "path", path, "pages", len(pages))
	return nil
}

func document(pages []state.Page, o Options) (*gofpdf.Fpdf, error) {
	if len(pages) == 0 {
		return nil, fmt.Errorf("export pdf: no pages")
	}
	first := Region(pages[0], o)
	p := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           gofpdf.SizeType{Wd: first.Width * ptPerUnit, Ht: first.Height * ptPerUnit},
	})
	p.SetAutoPageBreak(false, 0)
	p.SetCreator("LocalNotebook", true)

	for i, page := range pages {
		writePage(p, i, page, o)
	}
	return p, p.Error()
}

func writePage(p *gofpdf.Fpdf, index int, page state.Page, o Options) {
	r := Region(page, o)
	pw, ph := r.Width*ptPerUnit, r.Height*ptPerUnit
	// "P" keeps the size as given; "L" would swap it.
	p.AddPageFormat("P", gofpdf.SizeType{Wd: pw, Ht: ph})

	// World point (x, y) lands at ((x-r.X)*k, (y-r.Y)*k) on the PDF page.
	k := ptPerUnit
	at := func(x, y float64) (float64, float64) { return (x - r.X) * k, (y - r.Y) * k }

	fill := paperFill(o.Spec)
	p.SetFillColor(int(fill.R), int(fill.G), int(fill.B))
	p.Rect(0, 0, pw, ph, "F")

	if bg := page.BackgroundImage; bg != nil && bg.Image != nil {
		var buf bytes.Buffer
		if err := png.Encode(&buf, bg.Image); err == nil {
			name := fmt.Sprintf("bg-%d", index)
			opts := gofpdf.ImageOptions{ImageType: "PNG"}
			p.RegisterImageOptionsReader(name, opts, &buf)
			p.ImageOptions(name, 0, 0, pw, ph, false, opts, 0, "")
		} else {
			logging.Logger().Warn("[EXPORT] background skipped", "page", page.ID, "err", err)
		}
	}

	p.ClipRect(0, 0, pw, ph, false)
	p.SetLineCapStyle("round")
	p.SetLineJoinStyle("round")
	for _, s := range page.Strokes() {
		if len(s.Points) < 2 {
			continue
		}
		c := ink(s.Color)
		p.SetDrawColor(int(c.R), int(c.G), int(c.B))
		p.SetAlpha(float64(c.A)/0xff, "Normal")
		p.SetLineWidth(s.Width * k)
		p.MoveTo(at(s.Points[0].X, s.Points[0].Y))
		for _, pt := range s.Points[1:] {
			p.LineTo(at(pt.X, pt.Y))
		}
		p.DrawPath("D")
	}
	p.SetAlpha(1, "Normal")
	p.ClipEnd()
}
