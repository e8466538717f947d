package render

import (
	"image/color"
	"testing"

	"LocalNotebook/internal/geom"

	"github.com/fogleman/gg"
)

func TestResolveBackground(t *testing.T) {
	tests := []struct {
		token   string
		pattern Pattern
		fill    color.Color
	}{
		{"", PatternPlain, paperWhite},
		{"white", PatternPlain, paperWhite},
		{"Grid", PatternGrid, paperWhite},
		{"dots", PatternDots, paperWhite},
		{"ruled", PatternLines, paperWhite},
		{"lines", PatternLines, paperWhite},
		{"isometric", PatternIsometric, paperWhite},
		{"#fffde7", PatternPlain, color.NRGBA{R: 0xff, G: 0xfd, B: 0xe7, A: 0xff}},
		{"lightyellow", PatternPlain, color.RGBA{R: 0xff, G: 0xff, B: 0xe0, A: 0xff}},
		{"not a colour", PatternPlain, paperWhite},
	}
	for _, tt := range tests {
		got := ResolveBackground(tt.token)
		if got.Pattern != tt.pattern {
			t.Errorf("%q: pattern = %v, want %v", tt.token, got.Pattern, tt.pattern)
		}
		if got.Fill != tt.fill {
			t.Errorf("%q: fill = %v, want %v", tt.token, got.Fill, tt.fill)
		}
	}
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in   string
		want color.Color
		ok   bool
	}{
		{"#000", color.NRGBA{A: 255}, true},
		{"#12345678", color.NRGBA{R: 0x12, G: 0x34, B: 0x56, A: 0x78}, true},
		{" Red ", color.RGBA{R: 255, A: 255}, true},
		{"#12", nil, false},
		{"#gggggg", nil, false},
		{"chartreuse-ish", nil, false},
	}
	for _, tt := range tests {
		got, ok := ParseColor(tt.in)
		if ok != tt.ok || (ok && got != tt.want) {
			t.Errorf("ParseColor(%q) = %v, %v; want %v, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestPatternsDrawRulings(t *testing.T) {
	for _, token := range []string{"grid", "dots", "lines", "isometric"} {
		dc := gg.NewContext(120, 120)
		drawPaper(dc, ResolveBackground(token), rect{w: 120, h: 120}, geom.Pt(0, 0), 1)
		ruled := 0
		for y := 0; y < 120; y++ {
			for x := 0; x < 120; x++ {
				if rgba(dc, x, y) != (color.RGBA{R: 255, G: 255, B: 255, A: 255}) {
					ruled++
				}
			}
		}
		if ruled == 0 {
			t.Errorf("%s: no ruling drawn", token)
		}
	}
}

func TestRulingsSkippedWhenTooDense(t *testing.T) {
	dc := gg.NewContext(60, 60)
	drawPaper(dc, ResolveBackground("grid"), rect{w: 60, h: 60}, geom.Pt(0, 0), 0.1)
	for y := 0; y < 60; y++ {
		for x := 0; x < 60; x++ {
			if got := rgba(dc, x, y); got != (color.RGBA{R: 255, G: 255, B: 255, A: 255}) {
				t.Fatalf("pixel (%d,%d) = %v, want plain paper", x, y, got)
			}
		}
	}
}

func TestFirstLine(t *testing.T) {
	tests := []struct{ from, origin, step, want float64 }{
		{0, 0, 24, 0},
		{1, 0, 24, 24},
		{-30, 10, 24, -14},
		{100, 30, 10, 100},
	}
	for _, tt := range tests {
		if got := firstLine(tt.from, tt.origin, tt.step); got != tt.want {
			t.Errorf("firstLine(%v, %v, %v) = %v, want %v", tt.from, tt.origin, tt.step, got, tt.want)
		}
	}
}

func TestPaperRect(t *testing.T) {
	tr := geom.Transform{X: 30, Y: -10, Scale: 0.5}
	x, y, w, h := PaperRect(PaperA4, tr, 1000, 800)
	if w != 397 || h != 561.5 {
		t.Errorf("size = %vx%v", w, h)
	}
	if x != 30 || y != -10 {
		t.Errorf("origin = (%v,%v), want the world origin on screen", x, y)
	}
	// The sheet is fixed in world space, so the surface size does not move it.
	if x2, y2, w2, h2 := PaperRect(PaperA4, tr, 2000, 300); x2 != x || y2 != y || w2 != w || h2 != h {
		t.Errorf("rect moved with the surface: %v %v %v %v", x2, y2, w2, h2)
	}
	x, y, w, h = PaperRect(PaperInfinite, geom.Transform{X: 30, Scale: 2}, 640, 480)
	if x != 0 || y != 0 || w != 640 || h != 480 {
		t.Errorf("infinite rect = %v %v %v %v", x, y, w, h)
	}
}

func TestParsePaper(t *testing.T) {
	for name, want := range map[string]Paper{"A4": PaperA4, "letter": PaperLetter, "": PaperInfinite, "infinite": PaperInfinite} {
		got, err := ParsePaper(name)
		if err != nil || got != want {
			t.Errorf("ParsePaper(%q) = %v, %v", name, got, err)
		}
	}
	if _, err := ParsePaper("b5"); err == nil {
		t.Error("expected error for unknown paper")
	}
}
