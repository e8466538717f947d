package export

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"LocalNotebook/internal/geom"
	"LocalNotebook/internal/render"
	"LocalNotebook/internal/state"

	"github.com/srwiley/oksvg"
)

func samplePage() state.Page {
	return state.Page{ID: "p", Objects: &state.CanvasObjects{
		Transform: geom.Identity(),
		Strokes: []state.Stroke{
			{ID: "a", Tool: state.ToolPen, Color: "#ff0000", Width: 4,
				Points: []geom.Point{{X: 10, Y: 10}, {X: 90, Y: 10}}},
			{ID: "b", Tool: state.ToolPen, Color: "#0000ff80", Width: 2,
				Points: []geom.Point{{X: 10, Y: 50}, {X: 50, Y: 90}, {X: 90, Y: 50}}},
			{ID: "tap", Tool: state.ToolPen, Color: "black", Width: 2,
				Points: []geom.Point{{X: 5, Y: 5}}},
		},
	}}
}

func TestRegion(t *testing.T) {
	page := samplePage()

	got := Region(page, Options{})
	// Ink spans (4,4)-(92,91) once widths are counted, the tap included.
	want := state.Rect{X: 4 - margin, Y: 4 - margin, Width: 88 + 2*margin, Height: 87 + 2*margin}
	if got != want {
		t.Errorf("infinite region = %+v, want %+v", got, want)
	}

	// The sheet is fixed in world space: neither the view size nor the
	// page's pan and zoom move it.
	want = state.Rect{Width: 794, Height: 1123}
	a4 := render.Spec{Paper: render.PaperA4}
	for _, tc := range []struct {
		view image.Point
		tr   geom.Transform
	}{
		{image.Pt(1000, 1200), geom.Identity()},
		{image.Pt(1600, 900), geom.Identity()},
		{image.Pt(300, 200), geom.Transform{X: 20, Y: -40, Scale: 0.5}},
	} {
		page.Objects.Transform = tc.tr
		if got := Region(page, Options{Spec: a4, View: tc.view}); got != want {
			t.Errorf("a4 region in %v at %v = %+v, want %+v", tc.view, tc.tr, got, want)
		}
	}

	empty := state.Page{ID: "e"}
	got = Region(empty, Options{View: image.Pt(300, 200)})
	if got != (state.Rect{Width: 300, Height: 200}) {
		t.Errorf("empty region = %+v", got)
	}
}

func TestSVGParsesBack(t *testing.T) {
	var buf bytes.Buffer
	if err := SVG(&buf, samplePage(), Options{Spec: render.Spec{Background: "lightyellow"}}); err != nil {
		t.Fatal(err)
	}
	doc := buf.String()
	if !strings.Contains(doc, `fill="#ffffe0"`) {
		t.Errorf("paper fill missing:\n%s", doc)
	}
	if !strings.Contains(doc, `stroke-opacity="0.50`) {
		t.Errorf("translucent stroke lost its alpha:\n%s", doc)
	}

	icon, err := oksvg.ReadIconStream(strings.NewReader(doc), oksvg.WarnErrorMode)
	if err != nil {
		t.Fatalf("oksvg: %v\n%s", err, doc)
	}
	r := Region(samplePage(), Options{})
	if icon.ViewBox.X != r.X || icon.ViewBox.W != r.Width || icon.ViewBox.H != r.Height {
		t.Errorf("viewBox = %+v, want %+v", icon.ViewBox, r)
	}
	// Paper rect plus the two real strokes; the tap is not exported.
	if len(icon.SVGPaths) != 3 {
		t.Errorf("paths = %d, want 3", len(icon.SVGPaths))
	}
}

func TestPNGMatchesView(t *testing.T) {
	var buf bytes.Buffer
	if err := PNG(&buf, samplePage(), Options{View: image.Pt(120, 100)}); err != nil {
		t.Fatal(err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if img.Bounds() != image.Rect(0, 0, 120, 100) {
		t.Errorf("bounds = %v", img.Bounds())
	}
	if got := color.RGBAModel.Convert(img.At(50, 10)).(color.RGBA); got != (color.RGBA{R: 255, A: 255}) {
		t.Errorf("stroke pixel = %v, want red", got)
	}
}

func TestPDF(t *testing.T) {
	pages := []state.Page{samplePage(), {ID: "blank"}}
	var buf bytes.Buffer
	if err := PDF(&buf, pages, Options{Spec: render.Spec{Paper: render.PaperLetter}}); err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")) {
		t.Errorf("not a pdf: %.20q", buf.String())
	}
	// Letter at 0.75pt per unit.
	if !bytes.Contains(buf.Bytes(), []byte("/MediaBox [0 0 612.00 792.00]")) {
		t.Error("page size is not US letter")
	}

	if err := PDF(&buf, nil, Options{}); err == nil {
		t.Error("expected an error without pages")
	}
}

func TestPDFFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.pdf")
	if err := PDFFile(path, []state.Page{samplePage()}, Options{}); err != nil {
		t.Fatal(err)
	}
	info, err := os.Stat(path)
	if err != nil || info.Size() == 0 {
		t.Errorf("pdf not written: %v", err)
	}
}
