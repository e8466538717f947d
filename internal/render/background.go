package render

import (
	"fmt"
	"image/color"
	"math"
	"strings"

	"LocalNotebook/internal/geom"

	"github.com/fogleman/gg"
)

// Pattern is the ruling printed on the paper.
type Pattern int

const (
	PatternPlain Pattern = iota
	PatternGrid
	PatternDots
	PatternLines
	PatternIsometric
)

const (
	// patternSpacing is the distance between rulings in world units.
	patternSpacing = 24.0
	// minPatternStep is the on-screen spacing below which rulings are
	// skipped; they would only produce a grey wash.
	minPatternStep = 4.0
)

var (
	paperWhite   = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	rulingColor  = color.NRGBA{R: 196, G: 210, B: 228, A: 255}
	outsideColor = color.NRGBA{R: 229, G: 229, B: 229, A: 255}
	borderColor  = color.NRGBA{R: 189, G: 189, B: 189, A: 255}
)

// Background is a resolved background token.
type Background struct {
	Fill    color.Color
	Pattern Pattern
}

// ResolveBackground maps a background token to a fill and pattern. Tokens
// outside the known set are read as a literal colour; if that fails too
// the paper is plain white.
func ResolveBackground(token string) Background {
	switch strings.ToLower(strings.TrimSpace(token)) {
	case "", "white", "plain":
		return Background{Fill: paperWhite, Pattern: PatternPlain}
	case "grid":
		return Background{Fill: paperWhite, Pattern: PatternGrid}
	case "dots", "dotted":
		return Background{Fill: paperWhite, Pattern: PatternDots}
	case "lines", "ruled", "lined":
		return Background{Fill: paperWhite, Pattern: PatternLines}
	case "isometric":
		return Background{Fill: paperWhite, Pattern: PatternIsometric}
	}
	if c, ok := ParseColor(token); ok {
		return Background{Fill: c, Pattern: PatternPlain}
	}
	return Background{Fill: paperWhite, Pattern: PatternPlain}
}

func (p Pattern) String() string {
	switch p {
	case PatternPlain:
		return "plain"
	case PatternGrid:
		return "grid"
	case PatternDots:
		return "dots"
	case PatternLines:
		return "lines"
	case PatternIsometric:
		return "isometric"
	}
	return fmt.Sprintf("pattern(%d)", int(p))
}

// drawPaper fills area with the background and draws its ruling. Rulings
// are anchored at origin and spaced by patternSpacing*scale.
func drawPaper(dc *gg.Context, bg Background, area rect, origin geom.Point, scale float64) {
	dc.SetColor(bg.Fill)
	dc.DrawRectangle(area.x, area.y, area.w, area.h)
	dc.Fill()

	step := patternSpacing * scale
	if bg.Pattern == PatternPlain || step < minPatternStep {
		return
	}
	dc.SetColor(rulingColor)
	dc.SetLineWidth(1)

	switch bg.Pattern {
	case PatternGrid:
		verticals(dc, area, origin.X, step)
		horizontals(dc, area, origin.Y, step)
		dc.Stroke()
	case PatternLines:
		horizontals(dc, area, origin.Y, step)
		dc.Stroke()
	case PatternDots:
		r := math.Max(1.2*scale, 0.75)
		for x := firstLine(area.x, origin.X, step); x <= area.x+area.w; x += step {
			for y := firstLine(area.y, origin.Y, step); y <= area.y+area.h; y += step {
				dc.DrawCircle(x, y, r)
			}
		}
		dc.Fill()
	case PatternIsometric:
		verticals(dc, area, origin.X, step)
		diagonals(dc, area, origin, step, 1)
		diagonals(dc, area, origin, step, -1)
		dc.Stroke()
	}
}

// firstLine returns the first ruling position >= from on a lattice through
// origin with the given step.
func firstLine(from, origin, step float64) float64 {
	return origin + math.Ceil((from-origin)/step)*step
}

func verticals(dc *gg.Context, area rect, ox, step float64) {
	for x := firstLine(area.x, ox, step); x <= area.x+area.w; x += step {
		dc.MoveTo(x, area.y)
		dc.LineTo(x, area.y+area.h)
	}
}

func horizontals(dc *gg.Context, area rect, oy, step float64) {
	for y := firstLine(area.y, oy, step); y <= area.y+area.h; y += step {
		dc.MoveTo(area.x, y)
		dc.LineTo(area.x+area.w, y)
	}
}

// diagonals draws lines at 30 degrees above (dir=1) or below (dir=-1) the
// horizontal. Together with verticals spaced by step they tile the paper
// with equilateral triangles.
func diagonals(dc *gg.Context, area rect, origin geom.Point, step, dir float64) {
	slope := dir * math.Tan(math.Pi/6)
	gap := step / math.Cos(math.Pi/6)

	// y = origin.y + (x-origin.x)*slope + c, find the c range over the corners.
	cAt := func(x, y float64) float64 { return y - origin.Y - (x-origin.X)*slope }
	cs := []float64{
		cAt(area.x, area.y), cAt(area.x+area.w, area.y),
		cAt(area.x, area.y+area.h), cAt(area.x+area.w, area.y+area.h),
	}
	lo, hi := cs[0], cs[0]
	for _, c := range cs[1:] {
		lo = math.Min(lo, c)
		hi = math.Max(hi, c)
	}
	x0, x1 := area.x, area.x+area.w
	for c := math.Ceil(lo/gap) * gap; c <= hi; c += gap {
		dc.MoveTo(x0, origin.Y+(x0-origin.X)*slope+c)
		dc.LineTo(x1, origin.Y+(x1-origin.X)*slope+c)
	}
}
