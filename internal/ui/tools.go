package ui

import (
	"image/color"

	"LocalNotebook/internal/board"
	"LocalNotebook/internal/render"
	"LocalNotebook/internal/state"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

// Palette is the ink offered as swatches.
var Palette = []string{"#000000", "#ff0000", "#00ff00", "#0000ff", "#ffff00"}

var (
	Backgrounds = []string{"white", "grid", "dots", "lines", "isometric"}
	Papers      = []string{"infinite", "a4", "letter"}
)

type colorSwatch struct {
	widget.BaseWidget
	Color    string
	OnTapped func(string)
}

func newColorSwatch(c string, tapped func(string)) *colorSwatch {
	s := &colorSwatch{Color: c, OnTapped: tapped}
	s.ExtendBaseWidget(s)
	return s
}

func (s *colorSwatch) CreateRenderer() fyne.WidgetRenderer {
	fill, ok := render.ParseColor(s.Color)
	if !ok {
		fill = color.Black
	}
	rect := canvas.NewRectangle(fill)
	rect.SetMinSize(fyne.NewSize(32, 32))

	border := canvas.NewRectangle(color.Transparent)
	border.StrokeColor = color.Gray{Y: 150}
	border.StrokeWidth = 1

	return widget.NewSimpleRenderer(container.NewStack(rect, border))
}

func (s *colorSwatch) Tapped(_ *fyne.PointEvent) {
	if s.OnTapped != nil {
		s.OnTapped(s.Color)
	}
}

// toolbar holds the controls that change the board's settings.
type toolbar struct {
	shell  *Shell
	width  *widget.Slider
	object fyne.CanvasObject
}

func newToolbar(s *Shell) *toolbar {
	b := s.board
	cur := b.Settings()
	t := &toolbar{shell: s}

	tools := widget.NewToolbar(
		widget.NewToolbarAction(theme.DocumentCreateIcon(), t.pen),
		widget.NewToolbarAction(theme.ViewFullScreenIcon(), t.pan),
		widget.NewToolbarSeparator(),
		widget.NewToolbarAction(theme.ZoomInIcon(), func() { s.zoom(board.ZoomStep) }),
		widget.NewToolbarAction(theme.ZoomOutIcon(), func() { s.zoom(1 / board.ZoomStep) }),
		widget.NewToolbarAction(theme.ZoomFitIcon(), s.resetView),
	)

	colorBox := container.NewHBox()
	for _, c := range Palette {
		colorBox.Add(newColorSwatch(c, t.ink))
	}

	t.width = widget.NewSlider(1.0, 50.0)
	t.width.SetValue(cur.Width)
	t.width.OnChanged = func(v float64) {
		b.Update(func(st *board.Settings) { st.Width = v })
	}
	sliderContainer := container.New(layout.NewGridWrapLayout(fyne.NewSize(150, 35)), t.width)

	bg := widget.NewSelect(Backgrounds, func(v string) {
		b.Update(func(st *board.Settings) { st.Background = v })
	})
	bg.SetSelected(cur.Background)

	paper := widget.NewSelect(Papers, func(v string) {
		p, err := render.ParsePaper(v)
		if err != nil {
			return
		}
		b.Update(func(st *board.Settings) { st.Paper = p })
	})
	paper.SetSelected(cur.Paper.Name)

	t.object = container.NewHBox(
		widget.NewLabel("Tool:"),
		tools,
		widget.NewSeparator(),
		widget.NewLabel("Color:"),
		colorBox,
		widget.NewSeparator(),
		widget.NewLabel("Size:"),
		sliderContainer,
		widget.NewSeparator(),
		bg,
		paper,
		layout.NewSpacer(),
	)
	return t
}

func (t *toolbar) pen() {
	t.shell.board.Update(func(st *board.Settings) { st.Tool = state.ToolPen })
	t.shell.setStatus("Pen")
}

func (t *toolbar) pan() {
	t.shell.board.Update(func(st *board.Settings) { st.Tool = state.ToolPan })
	t.shell.setStatus("Pan: drag to move the page")
}

// ink picks a colour and goes back to the pen.
func (t *toolbar) ink(c string) {
	t.shell.board.Update(func(st *board.Settings) {
		st.Tool = state.ToolPen
		st.Color = c
	})
}
