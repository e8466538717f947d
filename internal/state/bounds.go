package state

import "math"

// Rect is an axis-aligned area in world space.
type Rect struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

// Empty reports whether r covers no area at all.
func (r Rect) Empty() bool {
	return r.Width < 0 || r.Height < 0
}

func (r Rect) MaxX() float64 { return r.X + r.Width }
func (r Rect) MaxY() float64 { return r.Y + r.Height }

// Overlaps reports whether r and o share any point, edges included.
func (r Rect) Overlaps(o Rect) bool {
	return !(r.MaxX() < o.X || o.MaxX() < r.X ||
		r.MaxY() < o.Y || o.MaxY() < r.Y)
}

// Inset grows r by pad on every side; a negative pad shrinks it.
func (r Rect) Inset(pad float64) Rect {
	return Rect{
		X:      r.X - pad,
		Y:      r.Y - pad,
		Width:  r.Width + 2*pad,
		Height: r.Height + 2*pad,
	}
}

// Union returns the smallest rect containing both. An empty operand is ignored.
func (r Rect) Union(o Rect) Rect {
	if r.Empty() {
		return o
	}
	if o.Empty() {
		return r
	}
	minX := math.Min(r.X, o.X)
	minY := math.Min(r.Y, o.Y)
	maxX := math.Max(r.MaxX(), o.MaxX())
	maxY := math.Max(r.MaxY(), o.MaxY())
	return Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}

var emptyRect = Rect{Width: -1, Height: -1}

// Bounds is the area the stroke's ink covers: its points padded by half
// the width. A stroke without points has empty bounds.
func (s Stroke) Bounds() Rect {
	if len(s.Points) == 0 {
		return emptyRect
	}
	minX, minY := s.Points[0].X, s.Points[0].Y
	maxX, maxY := minX, minY
	for _, p := range s.Points[1:] {
		minX = math.Min(minX, p.X)
		minY = math.Min(minY, p.Y)
		maxX = math.Max(maxX, p.X)
		maxY = math.Max(maxY, p.Y)
	}
	r := Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
	return r.Inset(s.Width / 2)
}

// Bounds is the union of all stroke bounds on the page.
func (p Page) Bounds() Rect {
	r := emptyRect
	for _, s := range p.Strokes() {
		r = r.Union(s.Bounds())
	}
	return r
}
