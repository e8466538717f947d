package geom

import (
	"math"
	"testing"
)

func near(a, b float64) bool {
	return math.Abs(a-b) <= 1e-9*math.Max(1, math.Max(math.Abs(a), math.Abs(b)))
}

func TestRoundTrip(t *testing.T) {
	transforms := []Transform{
		Identity(),
		{X: 30, Y: -10, Scale: 1},
		{X: -512.25, Y: 77.5, Scale: 0.1},
		{X: 1e4, Y: -1e4, Scale: 10},
		{X: 3.3, Y: 4.4, Scale: 1.2 * 1.2 * 1.2},
	}
	points := []Point{
		{0, 0}, {10, 10}, {-250.5, 999.125}, {1e6, -1e6}, {0.0001, 42},
	}
	for _, tr := range transforms {
		for _, p := range points {
			got := ToScreen(ToWorld(p, tr), tr)
			if !near(got.X, p.X) || !near(got.Y, p.Y) {
				t.Errorf("ToScreen(ToWorld(%v, %v)) = %v", p, tr, got)
			}
			back := ToWorld(ToScreen(p, tr), tr)
			if !near(back.X, p.X) || !near(back.Y, p.Y) {
				t.Errorf("ToWorld(ToScreen(%v, %v)) = %v", p, tr, back)
			}
		}
	}
}

func TestToWorld(t *testing.T) {
	got := ToWorld(Pt(70, 30), Transform{X: 30, Y: -10, Scale: 2})
	if got != Pt(20, 20) {
		t.Errorf("ToWorld = %v, want (20,20)", got)
	}
}

func TestPan(t *testing.T) {
	got := Identity().Pan(30, -10)
	want := Transform{X: 30, Y: -10, Scale: 1}
	if got != want {
		t.Errorf("Pan = %v, want %v", got, want)
	}
}

func TestZoomAtKeepsAnchor(t *testing.T) {
	tr := Transform{X: 12, Y: -7, Scale: 1.5}
	anchor := Pt(200, 150)
	before := ToWorld(anchor, tr)
	zoomed := tr.ZoomAt(anchor, 3)
	after := ToWorld(anchor, zoomed)
	if !near(before.X, after.X) || !near(before.Y, after.Y) {
		t.Errorf("anchor moved from %v to %v", before, after)
	}
	if zoomed.Scale != 3 {
		t.Errorf("Scale = %v, want 3", zoomed.Scale)
	}
}

func TestValid(t *testing.T) {
	if !Identity().Valid() {
		t.Error("identity should be valid")
	}
	if (Transform{Scale: 0}).Valid() {
		t.Error("zero scale should be invalid")
	}
}
