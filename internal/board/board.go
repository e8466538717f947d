// Package board ties the page host, the input machine and the renderer to
// one raster surface. It is the single entry point the desktop shell and
// the remote pen talk to.
package board

import (
	"errors"
	"image"
	"image/draw"
	"math"
	"sync"

	"LocalNotebook/internal/geom"
	"LocalNotebook/internal/input"
	"LocalNotebook/internal/logging"
	"LocalNotebook/internal/render"
	"LocalNotebook/internal/state"

	"github.com/fogleman/gg"
)

const (
	MinZoom  = 0.1
	MaxZoom  = 10.0
	ZoomStep = 1.25
)

// ErrGestureInProgress is returned by operations that must not interleave
// with a stroke or a pan, such as switching pages.
var ErrGestureInProgress = errors.New("gesture in progress")

// ErrNoPage is returned when an operation needs a current page and there
// is none.
var ErrNoPage = errors.New("no current page")

// Source identifies the device driving a gesture. Only the source that
// started a gesture can move or end it.
type Source int

const (
	Mouse Source = iota
	Pen
)

func (s Source) String() string {
	if s == Pen {
		return "pen"
	}
	return "mouse"
}

// Settings are the user's current choices. Tool, colour and width are
// sampled at pointer-down; background and paper apply to every page.
type Settings struct {
	Tool       state.Tool
	Color      string
	Width      float64
	Background string
	Paper      render.Paper
}

// Spec is the part of the settings the renderer needs.
func (s Settings) Spec() render.Spec {
	return render.Spec{Background: s.Background, Paper: s.Paper}
}

// DefaultSettings is a black 3px pen on plain infinite paper.
func DefaultSettings() Settings {
	return Settings{
		Tool:       state.ToolPen,
		Color:      "#000000",
		Width:      3,
		Background: "white",
		Paper:      render.PaperInfinite,
	}
}

// Board owns the drawing surface. All methods are safe for concurrent use;
// events are applied one at a time in arrival order.
type Board struct {
	mu       sync.Mutex
	host     *state.PageHost
	renderer *render.Renderer
	machine  *input.Machine
	dc       *gg.Context
	settings Settings
	owner    Source

	dirty     bool
	committed *Commit

	// OnRender is called after the surface changed. It runs without the
	// board lock, so it may call Snapshot.
	OnRender func()
}

// Commit describes a finished pen gesture.
type Commit struct {
	PageID  string
	Kept    bool
	Strokes int
}

// New returns a board without a surface; call Resize before drawing.
func New(host *state.PageHost, r *render.Renderer, s Settings) *Board {
	b := &Board{host: host, renderer: r, settings: s}
	b.machine = input.NewMachine(canvas{b})
	return b
}

// Host returns the page host.
func (b *Board) Host() *state.PageHost { return b.host }

// do runs fn under the lock and calls OnRender afterwards if fn painted.
func (b *Board) do(fn func()) {
	b.mu.Lock()
	fn()
	dirty := b.dirty
	b.dirty = false
	onRender := b.OnRender
	b.mu.Unlock()

	if dirty && onRender != nil {
		onRender()
	}
}

// redraw performs a full render of the current page. Caller holds b.mu.
func (b *Board) redraw() {
	if b.dc == nil {
		logging.Logger().Debug("[BOARD] render skipped, no surface")
		return
	}
	id := b.host.CurrentID()
	if id == "" {
		logging.Logger().Debug("[BOARD] render skipped, no page")
		return
	}
	if _, err := b.host.GetOrInitObjects(id); err != nil {
		logging.Logger().Debug("[BOARD] render skipped", "err", err)
		return
	}
	page, _ := b.host.Page(id)
	b.renderer.RenderPage(b.dc, page, page.Transform(), b.settings.Spec(), b.machine.Active())
	b.dirty = true
}

// Resize replaces the surface with one of w x h pixels and redraws.
// A non-positive size drops the surface; input is ignored until the next
// Resize.
func (b *Board) Resize(w, h int) {
	b.do(func() {
		if w <= 0 || h <= 0 {
			b.dc = nil
			return
		}
		if b.dc != nil && b.dc.Width() == w && b.dc.Height() == h {
			return
		}
		b.dc = gg.NewContext(w, h)
		logging.Logger().Debug("[BOARD] surface resized", "w", w, "h", h)
		b.redraw()
	})
}

// Redraw forces a full render.
func (b *Board) Redraw() {
	b.do(b.redraw)
}

// PointerDown feeds a pointer-down from src at screen position (x, y). It
// reports whether a gesture owned by src started; a down while another
// gesture runs is ignored.
func (b *Board) PointerDown(src Source, x, y float64) (started bool) {
	b.do(func() {
		if b.machine.Busy() {
			logging.Logger().Debug("[INPUT] pointer down ignored, gesture in progress", "source", src, "owner", b.owner)
			return
		}
		s := b.settings
		b.machine.PointerDown(geom.Pt(x, y), input.Settings{Tool: s.Tool, Color: s.Color, Width: s.Width})
		if started = b.machine.Busy(); started {
			b.owner = src
		}
	})
	return started
}

// PointerMove feeds a pointer move from src at screen position (x, y).
func (b *Board) PointerMove(src Source, x, y float64) {
	b.do(func() {
		if b.owns(src) {
			b.machine.PointerMove(geom.Pt(x, y))
		}
	})
}

// PointerUp ends src's gesture. If it was a pen gesture, the result of
// committing it is returned with ok set.
func (b *Board) PointerUp(src Source) (c Commit, ok bool) {
	return b.end(src, b.machine.PointerUp)
}

// PointerLeave ends src's gesture because the pointer left the surface.
func (b *Board) PointerLeave(src Source) (c Commit, ok bool) {
	return b.end(src, b.machine.PointerLeave)
}

// owns reports whether a gesture started by src is running. Caller holds b.mu.
func (b *Board) owns(src Source) bool {
	return b.machine.Busy() && b.owner == src
}

func (b *Board) end(src Source, fn func()) (c Commit, ok bool) {
	b.do(func() {
		if !b.owns(src) {
			return
		}
		fn()
		if b.committed != nil {
			c, ok = *b.committed, true
			b.committed = nil
		}
	})
	return c, ok
}

// Busy reports whether a stroke or pan is in progress.
func (b *Board) Busy() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.machine.Busy()
}

// Settings returns the current settings.
func (b *Board) Settings() Settings {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.settings
}

// SetSettings replaces the settings. Finished strokes keep the colour and
// width they were drawn with; a gesture in progress keeps its tool. A
// change of background or paper redraws.
func (b *Board) SetSettings(s Settings) {
	b.do(func() {
		old := b.settings
		b.settings = s
		if old.Background != s.Background || old.Paper != s.Paper {
			b.redraw()
		}
	})
}

// Update applies fn to a copy of the settings and stores the result.
func (b *Board) Update(fn func(*Settings)) {
	s := b.Settings()
	fn(&s)
	b.SetSettings(s)
}

// SetCurrentPage switches the page that receives input and is shown.
func (b *Board) SetCurrentPage(id string) error {
	var err error
	b.do(func() {
		if b.machine.Busy() {
			err = ErrGestureInProgress
			return
		}
		if err = b.host.SetCurrentPage(id); err != nil {
			return
		}
		b.redraw()
	})
	return err
}

// StepPage moves delta pages forward or backward from the current one,
// stopping at either end.
func (b *Board) StepPage(delta int) error {
	pages := b.host.Pages()
	cur := b.host.CurrentID()
	for i, p := range pages {
		if p.ID != cur {
			continue
		}
		j := min(max(i+delta, 0), len(pages)-1)
		return b.SetCurrentPage(pages[j].ID)
	}
	return ErrNoPage
}

// AddPage appends a blank page and makes it current.
func (b *Board) AddPage() (state.Page, error) {
	p := b.host.AddPage(state.NewPage())
	return p, b.SetCurrentPage(p.ID)
}

// Clear removes every stroke from the current page.
func (b *Board) Clear() error {
	var err error
	b.do(func() {
		if b.machine.Busy() {
			err = ErrGestureInProgress
			return
		}
		id := b.host.CurrentID()
		if id == "" {
			err = ErrNoPage
			return
		}
		if _, err = b.host.Clear(id); err != nil {
			return
		}
		b.redraw()
	})
	return err
}

// SetBackgroundImage puts bg beneath the current page's strokes; nil
// removes it.
func (b *Board) SetBackgroundImage(bg *state.Background) error {
	var err error
	b.do(func() {
		id := b.host.CurrentID()
		if id == "" {
			err = ErrNoPage
			return
		}
		if err = b.host.SetBackgroundImage(id, bg); err != nil {
			return
		}
		b.redraw()
	})
	return err
}

// Zoom multiplies the current page's scale by factor around the screen
// point (x, y), clamped to [MinZoom, MaxZoom].
func (b *Board) Zoom(factor, x, y float64) error {
	var err error
	b.do(func() {
		if b.machine.Busy() {
			err = ErrGestureInProgress
			return
		}
		page, ok := b.host.Current()
		if !ok {
			err = ErrNoPage
			return
		}
		t := page.Transform()
		scale := math.Min(math.Max(t.Scale*factor, MinZoom), MaxZoom)
		if scale == t.Scale {
			return
		}
		if err = b.host.SetTransform(page.ID, t.ZoomAt(geom.Pt(x, y), scale)); err != nil {
			return
		}
		b.redraw()
	})
	return err
}

// ResetView restores the identity transform on the current page.
func (b *Board) ResetView() error {
	var err error
	b.do(func() {
		if b.machine.Busy() {
			err = ErrGestureInProgress
			return
		}
		id := b.host.CurrentID()
		if id == "" {
			err = ErrNoPage
			return
		}
		if err = b.host.SetTransform(id, geom.Identity()); err != nil {
			return
		}
		b.redraw()
	})
	return err
}

// Snapshot returns a copy of the surface, nil if there is none.
func (b *Board) Snapshot() *image.RGBA {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.dc == nil {
		return nil
	}
	src := b.dc.Image()
	dst := image.NewRGBA(src.Bounds())
	draw.Draw(dst, dst.Bounds(), src, src.Bounds().Min, draw.Src)
	return dst
}

// Size returns the surface size in pixels, zero if there is none.
func (b *Board) Size() (w, h int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.dc == nil {
		return 0, 0
	}
	return b.dc.Width(), b.dc.Height()
}

// canvas adapts Board to input.Canvas. Its methods run with b.mu held.
type canvas struct{ b *Board }

func (c canvas) Transform() (geom.Transform, bool) {
	b := c.b
	if b.dc == nil {
		return geom.Transform{}, false
	}
	id := b.host.CurrentID()
	if id == "" {
		return geom.Transform{}, false
	}
	objs, err := b.host.GetOrInitObjects(id)
	if err != nil {
		return geom.Transform{}, false
	}
	return objs.Transform, true
}

func (c canvas) SetTransform(t geom.Transform) {
	if err := c.b.host.SetTransform(c.b.host.CurrentID(), t); err != nil {
		logging.Logger().Debug("[BOARD] transform not stored", "err", err)
	}
}

func (c canvas) DrawSegment(s *state.Stroke) {
	b := c.b
	page, ok := b.host.Current()
	if !ok || b.dc == nil {
		return
	}
	b.renderer.RenderSegment(b.dc, page.Transform(), b.settings.Spec(), s)
	b.dirty = true
}

func (c canvas) Redraw() {
	c.b.redraw()
}

func (c canvas) Commit(s *state.Stroke) {
	b := c.b
	id := b.host.CurrentID()
	kept, err := b.host.CommitStroke(id, s)
	if err != nil {
		logging.Logger().Debug("[BOARD] stroke dropped", "err", err)
		return
	}
	b.redraw()
	page, _ := b.host.Page(id)
	b.committed = &Commit{PageID: id, Kept: kept, Strokes: len(page.Strokes())}
}
