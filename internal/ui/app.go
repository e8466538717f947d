// Package ui is the desktop shell: the board view, its toolbar and the
// page navigation.
package ui

import (
	"fmt"
	"image"
	"time"

	"LocalNotebook/internal/board"
	"LocalNotebook/internal/export"
	"LocalNotebook/internal/logging"
	"LocalNotebook/internal/media"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

// Options configure the shell.
type Options struct {
	Title string
	// ExportPath places an export file; nil keeps the bare file name.
	ExportPath func(name string) string
	// PenURL is shown in the status bar when the remote pen is enabled.
	PenURL string
}

// Shell is the window content around one board.
type Shell struct {
	board   *board.Board
	opts    Options
	view    *BoardWidget
	tools   *toolbar
	status  *widget.Label
	page    *widget.Label
	content fyne.CanvasObject
}

func NewShell(b *board.Board, opts Options) *Shell {
	if opts.ExportPath == nil {
		opts.ExportPath = func(name string) string { return name }
	}
	s := &Shell{
		board:  b,
		opts:   opts,
		view:   NewBoardWidget(b),
		status: widget.NewLabel("Ready"),
		page:   widget.NewLabel(""),
	}
	s.view.OnZoom = s.showZoom
	s.tools = newToolbar(s)

	pages := widget.NewToolbar(
		widget.NewToolbarAction(theme.NavigateBackIcon(), func() { s.step(-1) }),
		widget.NewToolbarAction(theme.NavigateNextIcon(), func() { s.step(1) }),
		widget.NewToolbarAction(theme.ContentAddIcon(), s.addPage),
		widget.NewToolbarSeparator(),
		widget.NewToolbarAction(theme.ContentPasteIcon(), s.Paste),
		widget.NewToolbarAction(theme.ContentClearIcon(), s.clear),
		widget.NewToolbarAction(theme.DocumentSaveIcon(), s.exportPDF),
	)
	bottom := container.NewBorder(nil, nil, container.NewHBox(pages, s.page), nil, s.status)

	s.content = container.NewBorder(s.tools.object, bottom, nil, nil, s.view)
	if opts.PenURL != "" {
		s.status.SetText("Remote pen: " + opts.PenURL)
	}
	s.updatePage()
	return s
}

// Content is the shell's root object.
func (s *Shell) Content() fyne.CanvasObject { return s.content }

// Attach installs the window-level shortcuts.
func (s *Shell) Attach(w fyne.Window) {
	w.SetContent(s.content)
	w.Canvas().AddShortcut(&fyne.ShortcutPaste{}, func(fyne.Shortcut) { s.Paste() })
}

func (s *Shell) setStatus(text string) {
	fyne.Do(func() { s.status.SetText(text) })
}

func (s *Shell) updatePage() {
	pages := s.board.Host().Pages()
	cur := s.board.Host().CurrentID()
	n := 0
	for i, p := range pages {
		if p.ID == cur {
			n = i + 1
		}
	}
	s.page.SetText(fmt.Sprintf("Page %d/%d", n, len(pages)))
}

func (s *Shell) step(delta int) {
	if err := s.board.StepPage(delta); err != nil {
		s.setStatus(err.Error())
		return
	}
	s.updatePage()
}

func (s *Shell) addPage() {
	if _, err := s.board.AddPage(); err != nil {
		s.setStatus(err.Error())
	}
	s.updatePage()
}

func (s *Shell) clear() {
	if err := s.board.Clear(); err != nil {
		s.setStatus(err.Error())
		return
	}
	s.setStatus("Page cleared")
}

func (s *Shell) zoom(factor float64) {
	w, h := s.board.Size()
	if err := s.board.Zoom(factor, float64(w)/2, float64(h)/2); err != nil {
		s.setStatus(err.Error())
		return
	}
	s.showZoom()
}

func (s *Shell) resetView() {
	if err := s.board.ResetView(); err != nil {
		s.setStatus(err.Error())
		return
	}
	s.showZoom()
}

func (s *Shell) showZoom() {
	if p, ok := s.board.Host().Current(); ok {
		s.setStatus(fmt.Sprintf("Zoom %.0f%%", p.Transform().Scale*100))
	}
}

// Paste puts the image referenced on the clipboard behind the current page.
func (s *Shell) Paste() {
	ref, err := media.FromClipboard()
	if err != nil {
		s.setStatus("Nothing to paste")
		return
	}
	if !media.IsDataURL(ref) {
		// Keep the notebook self-contained.
		if embedded, err := media.EmbedFile(ref); err == nil {
			ref = embedded
		}
	}
	bg, err := media.LoadBackground(ref)
	if err != nil {
		logging.Logger().Warn("[UI] paste failed", "err", err)
		s.setStatus("Paste failed: " + err.Error())
		return
	}
	if err := s.board.SetBackgroundImage(bg); err != nil {
		s.setStatus(err.Error())
		return
	}
	s.setStatus("Background image set")
}

func (s *Shell) exportPDF() {
	w, h := s.board.Size()
	st := s.board.Settings()
	name := s.opts.ExportPath(fmt.Sprintf("notebook-%s.pdf", time.Now().Format("20060102-150405")))
	opts := export.Options{Spec: st.Spec(), View: image.Pt(w, h)}
	if err := export.PDFFile(name, s.board.Host().Pages(), opts); err != nil {
		logging.Logger().Error("[UI] export failed", "err", err)
		s.setStatus("Export failed: " + err.Error())
		return
	}
	s.setStatus("Exported " + name)
}

// RunApp opens the notebook window and blocks until it is closed.
func RunApp(b *board.Board, opts Options) {
	if opts.Title == "" {
		opts.Title = "Local Notebook"
	}
	a := app.NewWithID("io.localnotebook")
	w := a.NewWindow(opts.Title)
	w.Resize(fyne.NewSize(1024, 768))

	shell := NewShell(b, opts)
	shell.Attach(w)
	w.ShowAndRun()
}
