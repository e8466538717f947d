package ui

import (
	"image"
	"image/color"
	"image/draw"

	"LocalNotebook/internal/board"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"
)

var blank = color.NRGBA{R: 229, G: 229, B: 229, A: 255}

// BoardWidget shows the board's surface and feeds it the mouse.
type BoardWidget struct {
	widget.BaseWidget
	board  *board.Board
	raster *canvas.Raster

	// OnZoom is called after the wheel changed the zoom.
	OnZoom func()
}

var _ fyne.Widget = (*BoardWidget)(nil)
var _ fyne.Draggable = (*BoardWidget)(nil)
var _ fyne.Scrollable = (*BoardWidget)(nil)
var _ desktop.Mouseable = (*BoardWidget)(nil)
var _ desktop.Hoverable = (*BoardWidget)(nil)

func NewBoardWidget(b *board.Board) *BoardWidget {
	w := &BoardWidget{board: b}
	w.raster = canvas.NewRaster(w.draw)
	w.raster.ScaleMode = canvas.ImageScalePixels
	// Remote pen events render on other goroutines.
	b.OnRender = func() { fyne.Do(w.raster.Refresh) }
	w.ExtendBaseWidget(w)
	return w
}

// draw hands the raster the latest frame; fyne scales it to the pixel size.
func (w *BoardWidget) draw(pw, ph int) image.Image {
	if img := w.board.Snapshot(); img != nil {
		return img
	}
	img := image.NewNRGBA(image.Rect(0, 0, max(pw, 1), max(ph, 1)))
	draw.Draw(img, img.Bounds(), image.NewUniform(blank), image.Point{}, draw.Src)
	return img
}

func (w *BoardWidget) MouseDown(e *desktop.MouseEvent) {
	if e.Button == desktop.MouseButtonPrimary {
		w.board.PointerDown(board.Mouse, float64(e.Position.X), float64(e.Position.Y))
	}
}

func (w *BoardWidget) MouseUp(e *desktop.MouseEvent) {
	if e.Button == desktop.MouseButtonPrimary {
		w.board.PointerUp(board.Mouse)
	}
}

func (w *BoardWidget) Dragged(e *fyne.DragEvent) {
	w.board.PointerMove(board.Mouse, float64(e.Position.X), float64(e.Position.Y))
}

func (w *BoardWidget) DragEnd() {
	w.board.PointerUp(board.Mouse)
}

func (w *BoardWidget) MouseIn(*desktop.MouseEvent)    {}
func (w *BoardWidget) MouseMoved(*desktop.MouseEvent) {}

func (w *BoardWidget) MouseOut() {
	w.board.PointerLeave(board.Mouse)
}

// Scrolled zooms around the pointer, one step per wheel notch.
func (w *BoardWidget) Scrolled(e *fyne.ScrollEvent) {
	factor := board.ZoomStep
	switch {
	case e.Scrolled.DY < 0:
		factor = 1 / board.ZoomStep
	case e.Scrolled.DY == 0:
		return
	}
	if err := w.board.Zoom(factor, float64(e.Position.X), float64(e.Position.Y)); err != nil {
		return
	}
	if w.OnZoom != nil {
		w.OnZoom()
	}
}

func (w *BoardWidget) CreateRenderer() fyne.WidgetRenderer {
	return &boardWidgetRenderer{widget: w}
}

type boardWidgetRenderer struct {
	widget *BoardWidget
}

func (r *boardWidgetRenderer) Layout(size fyne.Size) {
	r.widget.raster.Resize(size)
	r.widget.board.Resize(int(size.Width), int(size.Height))
}

func (r *boardWidgetRenderer) MinSize() fyne.Size {
	return fyne.NewSize(300, 300)
}

func (r *boardWidgetRenderer) Refresh() {
	r.widget.raster.Refresh()
}

func (r *boardWidgetRenderer) Objects() []fyne.CanvasObject {
	return []fyne.CanvasObject{r.widget.raster}
}

func (r *boardWidgetRenderer) Destroy() {}
