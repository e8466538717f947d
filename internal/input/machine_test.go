package input

import (
	"reflect"
	"testing"

	"LocalNotebook/internal/geom"
	"LocalNotebook/internal/state"
)

type fakeCanvas struct {
	t         geom.Transform
	missing   bool
	segments  int
	redraws   int
	committed []*state.Stroke
}

func (c *fakeCanvas) Transform() (geom.Transform, bool) { return c.t, !c.missing }
func (c *fakeCanvas) SetTransform(t geom.Transform)       { c.t = t }
func (c *fakeCanvas) DrawSegment(*state.Stroke)           { c.segments++ }
func (c *fakeCanvas) Redraw()                             { c.redraws++ }
func (c *fakeCanvas) Commit(s *state.Stroke)              { c.committed = append(c.committed, s) }

var pen = Settings{Tool: state.ToolPen, Color: "black", Width: 2}
var pan = Settings{Tool: state.ToolPan}

func TestPenGesture(t *testing.T) {
	c := &fakeCanvas{t: geom.Identity()}
	m := NewMachine(c)

	m.PointerDown(geom.Pt(10, 10), pen)
	if m.Mode() != Drawing {
		t.Fatalf("mode = %v, want drawing", m.Mode())
	}
	m.PointerMove(geom.Pt(50, 10))
	m.PointerMove(geom.Pt(50, 50))
	m.PointerUp()

	if m.Mode() != Idle || m.Active() != nil {
		t.Errorf("machine not reset: %v %v", m.Mode(), m.Active())
	}
	if c.segments != 2 {
		t.Errorf("segments = %d, want 2", c.segments)
	}
	if len(c.committed) != 1 {
		t.Fatalf("committed %d strokes, want 1", len(c.committed))
	}
	want := []geom.Point{{X: 10, Y: 10}, {X: 50, Y: 10}, {X: 50, Y: 50}}
	if got := c.committed[0].Points; !reflect.DeepEqual(got, want) {
		t.Errorf("points = %v, want %v", got, want)
	}
}

func TestPenUsesWorldCoordinates(t *testing.T) {
	c := &fakeCanvas{t: geom.Transform{X: 30, Y: -10, Scale: 2}}
	m := NewMachine(c)
	m.PointerDown(geom.Pt(50, 10), pen)
	if got := m.Active().Points[0]; got != geom.Pt(10, 10) {
		t.Errorf("start = %v, want (10,10)", got)
	}
}

func TestPanGesture(t *testing.T) {
	c := &fakeCanvas{t: geom.Identity()}
	m := NewMachine(c)

	m.PointerDown(geom.Pt(100, 100), pan)
	m.PointerMove(geom.Pt(110, 95))
	m.PointerMove(geom.Pt(130, 90))
	m.PointerLeave()

	want := geom.Transform{X: 30, Y: -10, Scale: 1}
	if c.t != want {
		t.Errorf("transform = %v, want %v", c.t, want)
	}
	if c.redraws != 2 {
		t.Errorf("redraws = %d, want 2", c.redraws)
	}
	if len(c.committed) != 0 {
		t.Errorf("pan committed a stroke")
	}
	if m.Mode() != Idle {
		t.Errorf("mode = %v", m.Mode())
	}
}

func TestTapStillCommits(t *testing.T) {
	// The page decides to drop short strokes; the machine hands every
	// pen gesture over exactly once.
	c := &fakeCanvas{t: geom.Identity()}
	m := NewMachine(c)
	m.PointerDown(geom.Pt(10, 10), pen)
	m.PointerUp()
	m.PointerUp()
	if len(c.committed) != 1 || len(c.committed[0].Points) != 1 {
		t.Errorf("committed = %v", c.committed)
	}
}

func TestToolSwitchDuringGestureIsIgnored(t *testing.T) {
	c := &fakeCanvas{t: geom.Identity()}
	m := NewMachine(c)
	settings := pen
	m.PointerDown(geom.Pt(0, 0), settings)
	settings.Tool = state.ToolPan
	settings.Color = "red"
	m.PointerDown(geom.Pt(5, 5), settings)
	m.PointerMove(geom.Pt(20, 0))
	m.PointerUp()

	if c.t != geom.Identity() {
		t.Errorf("viewport moved during a pen gesture: %v", c.t)
	}
	if len(c.committed) != 1 || c.committed[0].Color != "black" {
		t.Errorf("committed = %+v", c.committed)
	}
}

func TestNoPageIsNoOp(t *testing.T) {
	c := &fakeCanvas{missing: true}
	m := NewMachine(c)
	m.PointerDown(geom.Pt(1, 1), pen)
	m.PointerMove(geom.Pt(2, 2))
	m.PointerUp()
	if m.Mode() != Idle || c.segments+c.redraws+len(c.committed) != 0 {
		t.Errorf("machine acted without a page")
	}
}

func TestMovesWhileIdleAreIgnored(t *testing.T) {
	c := &fakeCanvas{t: geom.Identity()}
	m := NewMachine(c)
	m.PointerMove(geom.Pt(3, 3))
	m.PointerLeave()
	if c.segments+c.redraws+len(c.committed) != 0 {
		t.Error("idle machine acted")
	}
}
