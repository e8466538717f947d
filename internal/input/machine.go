// Package input turns pointer events into strokes and viewport pans.
package input

import (
	"fmt"

	"LocalNotebook/internal/geom"
	"LocalNotebook/internal/logging"
	"LocalNotebook/internal/state"
)

// Mode is the state of the machine.
type Mode int

const (
	Idle Mode = iota
	Drawing
	Panning
)

func (m Mode) String() string {
	switch m {
	case Idle:
		return "idle"
	case Drawing:
		return "drawing"
	case Panning:
		return "panning"
	}
	return fmt.Sprintf("mode(%d)", int(m))
}

// Settings are the tool choices sampled at every pointer-down.
type Settings struct {
	Tool  state.Tool
	Color string
	Width float64
}

// Canvas is what the machine drives. Implementations report ok=false from
// Transform when there is no page or surface; the event is then dropped.
type Canvas interface {
	Transform() (t geom.Transform, ok bool)
	SetTransform(t geom.Transform)
	// DrawSegment paints the newest segment of the active stroke.
	DrawSegment(s *state.Stroke)
	// Redraw repaints everything, including the active stroke if any.
	Redraw()
	// Commit finalizes s onto the current page and repaints.
	Commit(s *state.Stroke)
}

// Machine is the Idle/Drawing/Panning state machine. It is not safe for
// concurrent use; the owner serializes events.
type Machine struct {
	canvas Canvas
	mode   Mode
	stroke *state.Stroke
	last   geom.Point
}

// NewMachine returns an idle machine driving c.
func NewMachine(c Canvas) *Machine {
	return &Machine{canvas: c}
}

// Mode returns the current state.
func (m *Machine) Mode() Mode { return m.mode }

// Busy reports whether a gesture is in progress.
func (m *Machine) Busy() bool { return m.mode != Idle }

// Active returns the stroke being drawn, nil outside Drawing.
func (m *Machine) Active() *state.Stroke { return m.stroke }

// PointerDown starts a gesture with the tool from settings. The tool stays
// in force until the gesture ends, whatever settings do meanwhile.
func (m *Machine) PointerDown(p geom.Point, settings Settings) {
	if m.mode != Idle {
		return
	}
	t, ok := m.canvas.Transform()
	if !ok {
		logging.Logger().Debug("[INPUT] pointer down without page", "x", p.X, "y", p.Y)
		return
	}
	switch {
	case settings.Tool == state.ToolPan:
		m.mode = Panning
		m.last = p
	case settings.Tool.Drawable():
		s, err := state.BeginStroke(settings.Tool, settings.Color, settings.Width, geom.ToWorld(p, t))
		if err != nil {
			logging.Logger().Debug("[INPUT] stroke not started", "err", err)
			return
		}
		m.mode = Drawing
		m.stroke = s
	}
}

// PointerMove extends the stroke or pans the viewport.
func (m *Machine) PointerMove(p geom.Point) {
	switch m.mode {
	case Drawing:
		t, ok := m.canvas.Transform()
		if !ok {
			return
		}
		state.ExtendStroke(m.stroke, geom.ToWorld(p, t))
		m.canvas.DrawSegment(m.stroke)
	case Panning:
		t, ok := m.canvas.Transform()
		if !ok {
			return
		}
		d := p.Sub(m.last)
		m.last = p
		if d.X == 0 && d.Y == 0 {
			return
		}
		m.canvas.SetTransform(t.Pan(d.X, d.Y))
		m.canvas.Redraw()
	}
}

// PointerUp ends the gesture.
func (m *Machine) PointerUp() {
	m.end()
}

// PointerLeave ends the gesture the same way PointerUp does.
func (m *Machine) PointerLeave() {
	m.end()
}

func (m *Machine) end() {
	switch m.mode {
	case Drawing:
		s := m.stroke
		m.stroke = nil
		m.mode = Idle
		m.canvas.Commit(s)
	case Panning:
		m.mode = Idle
	}
}
