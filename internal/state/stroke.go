package state

import (
	"errors"
	"fmt"

	"LocalNotebook/internal/geom"
)

// ErrNotDrawable is returned when a stroke is requested for a tool that
// does not draw, such as pan.
var ErrNotDrawable = errors.New("tool does not draw")

// BeginStroke starts a stroke at a single world point.
func BeginStroke(tool Tool, color string, width float64, start geom.Point) (*Stroke, error) {
	if !tool.Drawable() {
		return nil, fmt.Errorf("begin stroke with %s: %w", tool, ErrNotDrawable)
	}
	return &Stroke{
		ID:     NewID(),
		Tool:   tool,
		Points: append(make([]geom.Point, 0, 64), start),
		Color:  color,
		Width:  width,
	}, nil
}

// ExtendStroke appends p to s.
func ExtendStroke(s *Stroke, p geom.Point) *Stroke {
	s.Points = append(s.Points, p)
	return s
}

// FinalizeStroke appends s to page and returns the new page. Strokes with
// fewer than two points are dropped and the page is returned unchanged with
// false. The page's Objects are replaced, never modified in place, and the
// stored stroke owns its own copy of the points.
func FinalizeStroke(s *Stroke, page Page) (Page, bool) {
	if s == nil || len(s.Points) < 2 {
		return page, false
	}
	done := *s
	done.Points = append([]geom.Point(nil), s.Points...)

	old := page.Strokes()
	strokes := make([]Stroke, len(old), len(old)+1)
	copy(strokes, old)
	strokes = append(strokes, done)
	return page.withContent(strokes, page.Transform()), true
}

// Segment returns the last two points of s, the part an incremental render
// draws. ok is false while s has a single point.
func (s *Stroke) Segment() (from, to geom.Point, ok bool) {
	n := len(s.Points)
	if n < 2 {
		return geom.Point{}, geom.Point{}, false
	}
	return s.Points[n-2], s.Points[n-1], true
}
