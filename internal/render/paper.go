package render

import (
	"fmt"
	"strings"

	"LocalNotebook/internal/geom"
)

// Paper is the sheet size in world units (CSS pixels at 96 dpi).
// The zero value is the infinite canvas.
type Paper struct {
	Name   string
	Width  float64
	Height float64
}

var (
	PaperInfinite = Paper{Name: "infinite"}
	PaperA4       = Paper{Name: "a4", Width: 794, Height: 1123}
	PaperLetter   = Paper{Name: "letter", Width: 816, Height: 1056}
)

// Bounded reports whether the paper has edges.
func (p Paper) Bounded() bool {
	return p.Width > 0 && p.Height > 0
}

// ParsePaper resolves a paper name.
func ParsePaper(name string) (Paper, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "infinite", "none":
		return PaperInfinite, nil
	case "a4":
		return PaperA4, nil
	case "letter":
		return PaperLetter, nil
	}
	return PaperInfinite, fmt.Errorf("unknown paper %q", name)
}

// Spec is everything besides the page itself that decides how a page looks.
type Spec struct {
	Background string
	Paper      Paper
}

type rect struct {
	x, y, w, h float64
}

// PaperRect is the on-screen rectangle of the paper for a surface of
// width x height pixels. A bounded sheet occupies the world rectangle from
// the origin to (Width, Height) and is mapped through t like the ink; the
// infinite canvas is the whole surface.
func PaperRect(p Paper, t geom.Transform, width, height int) (x, y, w, h float64) {
	r := paperRect(p, t, width, height)
	return r.x, r.y, r.w, r.h
}

func paperRect(p Paper, t geom.Transform, width, height int) rect {
	if !p.Bounded() {
		return rect{w: float64(width), h: float64(height)}
	}
	tl := geom.ToScreen(geom.Pt(0, 0), t)
	br := geom.ToScreen(geom.Pt(p.Width, p.Height), t)
	return rect{x: tl.X, y: tl.Y, w: br.X - tl.X, h: br.Y - tl.Y}
}
