package state

import (
	"errors"
	"fmt"
	"reflect"
	"testing"

	"LocalNotebook/internal/geom"
)

func stableIDs(t *testing.T) {
	t.Helper()
	n := 0
	old := NewID
	NewID = func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
	t.Cleanup(func() { NewID = old })
}

func TestBeginStroke(t *testing.T) {
	stableIDs(t)
	s, err := BeginStroke(ToolPen, "#000000", 3, geom.Pt(10, 10))
	if err != nil {
		t.Fatalf("BeginStroke: %v", err)
	}
	if s.ID != "id-1" || s.Tool != ToolPen || s.Color != "#000000" || s.Width != 3 {
		t.Errorf("unexpected stroke %+v", s)
	}
	if !reflect.DeepEqual(s.Points, []geom.Point{{X: 10, Y: 10}}) {
		t.Errorf("Points = %v", s.Points)
	}
}

func TestBeginStrokeRejectsPan(t *testing.T) {
	_, err := BeginStroke(ToolPan, "black", 1, geom.Pt(0, 0))
	if !errors.Is(err, ErrNotDrawable) {
		t.Fatalf("err = %v, want ErrNotDrawable", err)
	}
}

func TestFinalizeStroke(t *testing.T) {
	stableIDs(t)
	page, _ := NewPage().WithObjects()

	s, _ := BeginStroke(ToolPen, "black", 2, geom.Pt(10, 10))
	ExtendStroke(s, geom.Pt(50, 10))
	ExtendStroke(s, geom.Pt(50, 50))

	next, ok := FinalizeStroke(s, page)
	if !ok {
		t.Fatal("stroke discarded")
	}
	if len(page.Strokes()) != 0 {
		t.Errorf("original page modified: %d strokes", len(page.Strokes()))
	}
	got := next.Strokes()
	if len(got) != 1 {
		t.Fatalf("got %d strokes, want 1", len(got))
	}
	want := []geom.Point{{X: 10, Y: 10}, {X: 50, Y: 10}, {X: 50, Y: 50}}
	if !reflect.DeepEqual(got[0].Points, want) {
		t.Errorf("Points = %v, want %v", got[0].Points, want)
	}

	// Further appends to the in-progress stroke must not leak into the page.
	ExtendStroke(s, geom.Pt(99, 99))
	if len(next.Strokes()[0].Points) != 3 {
		t.Errorf("finalized stroke changed: %v", next.Strokes()[0].Points)
	}
}

func TestFinalizeStrokeDiscardsTap(t *testing.T) {
	page, _ := NewPage().WithObjects()
	s, _ := BeginStroke(ToolPen, "black", 2, geom.Pt(10, 10))

	next, ok := FinalizeStroke(s, page)
	if ok {
		t.Fatal("tap was kept")
	}
	if len(next.Strokes()) != 0 {
		t.Errorf("got %d strokes, want 0", len(next.Strokes()))
	}
	if _, ok := FinalizeStroke(nil, page); ok {
		t.Error("nil stroke was kept")
	}
}

func TestSegment(t *testing.T) {
	s, _ := BeginStroke(ToolPen, "black", 2, geom.Pt(1, 1))
	if _, _, ok := s.Segment(); ok {
		t.Error("single point stroke has a segment")
	}
	ExtendStroke(s, geom.Pt(2, 3))
	ExtendStroke(s, geom.Pt(4, 5))
	from, to, ok := s.Segment()
	if !ok || from != geom.Pt(2, 3) || to != geom.Pt(4, 5) {
		t.Errorf("Segment = %v %v %v", from, to, ok)
	}
}

func TestOnlyPenDraws(t *testing.T) {
	for _, tool := range []Tool{ToolEraser, ToolPan} {
		if _, err := BeginStroke(tool, "black", 2, geom.Pt(0, 0)); !errors.Is(err, ErrNotDrawable) {
			t.Errorf("BeginStroke(%v) err = %v, want ErrNotDrawable", tool, err)
		}
	}
	tests := []struct {
		in      string
		want    Tool
		wantErr bool
	}{
		{"pen", ToolPen, false},
		{" Pan ", ToolPan, false},
		{"eraser", 0, true},
		{"lasso", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseInputTool(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseInputTool(%q) = %v, %v", tt.in, got, err)
		}
	}
}

func TestToolText(t *testing.T) {
	for _, tool := range []Tool{ToolPen, ToolEraser, ToolPan} {
		b, _ := tool.MarshalText()
		var back Tool
		if err := back.UnmarshalText(b); err != nil || back != tool {
			t.Errorf("%v: got %v, %v", tool, back, err)
		}
	}
	var tool Tool
	if err := tool.UnmarshalText([]byte("lasso")); err == nil {
		t.Error("expected error for unknown tool")
	}
}

func TestStrokeBounds(t *testing.T) {
	s := Stroke{Width: 4, Points: []geom.Point{{X: 10, Y: 20}, {X: 30, Y: 5}}}
	got := s.Bounds()
	want := Rect{X: 8, Y: 3, Width: 24, Height: 19}
	if got != want {
		t.Errorf("Bounds = %+v, want %+v", got, want)
	}
	if !(Stroke{}).Bounds().Empty() {
		t.Error("empty stroke should have empty bounds")
	}
}

func TestPageBounds(t *testing.T) {
	p := Page{Objects: &CanvasObjects{Strokes: []Stroke{
		{Points: []geom.Point{{X: 0, Y: 0}, {X: 10, Y: 10}}},
		{Points: []geom.Point{{X: -5, Y: 40}, {X: 0, Y: 50}}},
	}}}
	got := p.Bounds()
	want := Rect{X: -5, Y: 0, Width: 15, Height: 50}
	if got != want {
		t.Errorf("Bounds = %+v, want %+v", got, want)
	}
	if !(Page{}).Bounds().Empty() {
		t.Error("untouched page should have empty bounds")
	}
}

func TestRectOverlaps(t *testing.T) {
	a := Rect{X: 0, Y: 0, Width: 10, Height: 10}
	tests := []struct {
		b    Rect
		want bool
	}{
		{Rect{X: 5, Y: 5, Width: 10, Height: 10}, true},
		{Rect{X: 10, Y: 10, Width: 1, Height: 1}, true},
		{Rect{X: 11, Y: 0, Width: 1, Height: 1}, false},
		{Rect{X: -3, Y: -3, Width: 2, Height: 2}, false},
	}
	for _, tt := range tests {
		if got := a.Overlaps(tt.b); got != tt.want {
			t.Errorf("Overlaps(%+v) = %v, want %v", tt.b, got, tt.want)
		}
	}
}
