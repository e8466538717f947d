package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"image"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"LocalNotebook/internal/board"
	"LocalNotebook/internal/config"
	"LocalNotebook/internal/export"
	"LocalNotebook/internal/logging"
	pen "LocalNotebook/internal/net"
	"LocalNotebook/internal/render"
	"LocalNotebook/internal/state"
	"LocalNotebook/internal/store"
	"LocalNotebook/internal/ui"
)

const usage = `usage: notebook [flags]                  open the notebook window
       notebook export [flags] out.{png,svg,pdf}
       notebook discover [-timeout 3s]
`

func main() {
	cfg := config.Load()
	args := os.Args[1:]

	var err error
	switch {
	case len(args) > 0 && args[0] == "export":
		err = runExport(cfg, args[1:])
	case len(args) > 0 && args[0] == "discover":
		err = runDiscover(args[1:])
	default:
		err = runApp(cfg, args)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "notebook:", err)
		os.Exit(1)
	}
}

// bindCommon registers the flags every command shares, defaulting to cfg.
func bindCommon(fs *flag.FlagSet, cfg *config.Config) (paper, tool *string) {
	fs.StringVar(&cfg.Notebook, "notebook", cfg.NotebookPath(), "notebook file")
	fs.StringVar(&cfg.Background, "background", cfg.Background, "background: white, grid, dots, lines, isometric or a colour")
	fs.StringVar(&cfg.LogLevel, "log", cfg.LogLevel, "log level: debug, info, warn, error")
	paper = fs.String("paper", cfg.Paper.Name, "paper: infinite, a4, letter")
	tool = fs.String("tool", cfg.Tool.String(), "initial tool: pen or pan")
	fs.Usage = func() {
		fmt.Fprint(fs.Output(), usage)
		fs.PrintDefaults()
	}
	return paper, tool
}

// finish applies the string flags and installs the logger.
func finish(cfg *config.Config, paper, tool string) error {
	p, err := render.ParsePaper(paper)
	if err != nil {
		return err
	}
	cfg.Paper = p
	t, err := state.ParseInputTool(tool)
	if err != nil {
		return err
	}
	cfg.Tool = t
	// Flags give the notebook path in full.
	cfg.SaveDir = filepath.Dir(cfg.Notebook)

	logging.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logging.ParseLevel(cfg.LogLevel),
	})))
	return nil
}

// openNotebook loads the notebook, starting a fresh one with a single page
// when the file does not exist yet.
func openNotebook(path string) (store.Notebook, error) {
	nb, err := store.Load(path)
	if errors.Is(err, os.ErrNotExist) {
		logging.Logger().Info("[STORE] new notebook", "path", path)
		return store.Notebook{Pages: []state.Page{state.NewPage()}}, nil
	}
	if err != nil {
		return store.Notebook{}, err
	}
	if len(nb.Pages) == 0 {
		nb.Pages = []state.Page{state.NewPage()}
	}
	return nb, nil
}

func settings(cfg config.Config) board.Settings {
	return board.Settings{
		Tool:       cfg.Tool,
		Color:      cfg.Color,
		Width:      cfg.Width,
		Background: cfg.Background,
		Paper:      cfg.Paper,
	}
}

func runApp(cfg config.Config, args []string) error {
	fs := flag.NewFlagSet("notebook", flag.ExitOnError)
	paper, tool := bindCommon(fs, &cfg)
	fs.BoolVar(&cfg.Remote, "remote", cfg.Remote, "accept a remote pen over websocket")
	fs.IntVar(&cfg.RemotePort, "port", cfg.RemotePort, "remote pen port")
	fs.BoolVar(&cfg.Advertise, "advertise", cfg.Advertise, "announce the remote pen over mDNS")
	fs.Parse(args)
	if err := finish(&cfg, *paper, *tool); err != nil {
		return err
	}

	nb, err := openNotebook(cfg.Notebook)
	if err != nil {
		return err
	}
	host := state.NewPageHost(nb.Pages, nb.Current)
	autosave := store.NewAutosave(cfg.Notebook)
	host.OnChange = func(pages []state.Page) {
		autosave.Schedule(pages, host.CurrentID())
	}

	b := board.New(host, render.NewRenderer(), settings(cfg))
	opts := ui.Options{ExportPath: cfg.ExportPath}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if cfg.Remote {
		server := pen.NewPenServer(b)
		go func() {
			if err := server.ListenAndServe(ctx, cfg.RemotePort); err != nil {
				logging.Logger().Error("[PEN] server stopped", "err", err)
			}
		}()
		if cfg.Advertise {
			if m, err := pen.Advertise(cfg.RemotePort); err != nil {
				logging.Logger().Warn("[PEN] mDNS unavailable", "err", err)
			} else {
				defer m.Shutdown()
			}
		}
		opts.PenURL = pen.PenURL(pen.LANAddress().String(), cfg.RemotePort)
		logging.Logger().Info("[PEN] remote pen enabled", "url", opts.PenURL)
	}

	ui.RunApp(b, opts)
	stop()

	// Write whatever the last change left pending, plus the current page.
	autosave.Schedule(host.Pages(), host.CurrentID())
	if err := autosave.Flush(); err != nil {
		return fmt.Errorf("save on exit: %w", err)
	}
	return nil
}

func runExport(cfg config.Config, args []string) error {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	paper, tool := bindCommon(fs, &cfg)
	page := fs.Int("page", 0, "page number to export, 1-based; 0 is the current page (PNG and SVG)")
	width := fs.Int("width", 1024, "view width for PNG output and empty infinite pages")
	height := fs.Int("height", 768, "view height for PNG output and empty infinite pages")
	fs.Parse(args)
	if fs.NArg() != 1 {
		fs.Usage()
		return errors.New("export needs exactly one output file")
	}
	if err := finish(&cfg, *paper, *tool); err != nil {
		return err
	}

	nb, err := store.Load(cfg.Notebook)
	if err != nil {
		return err
	}
	host := state.NewPageHost(nb.Pages, nb.Current)
	opts := export.Options{
		Spec: settings(cfg).Spec(),
		View: image.Pt(*width, *height),
	}

	out := fs.Arg(0)
	ext := strings.ToLower(filepath.Ext(out))
	if ext == ".pdf" {
		if err := export.PDFFile(out, host.Pages(), opts); err != nil {
			return err
		}
		logging.Logger().Info("[EXPORT] wrote", "file", out, "pages", len(host.Pages()))
		return nil
	}

	p, err := pick(host, *page)
	if err != nil {
		return err
	}
	f, err := os.Create(out)
	if err != nil {
		return err
	}
	switch ext {
	case ".png":
		err = export.PNG(f, p, opts)
	case ".svg":
		err = export.SVG(f, p, opts)
	default:
		err = fmt.Errorf("unknown export format %q", ext)
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(out)
		return err
	}
	logging.Logger().Info("[EXPORT] wrote", "file", out, "page", p.ID)
	return nil
}

// pick returns page n (1-based), or the current page for 0.
func pick(host *state.PageHost, n int) (state.Page, error) {
	if n == 0 {
		if p, ok := host.Current(); ok {
			return p, nil
		}
		return state.Page{}, board.ErrNoPage
	}
	pages := host.Pages()
	if n < 1 || n > len(pages) {
		return state.Page{}, fmt.Errorf("page %d out of range 1-%d", n, len(pages))
	}
	return pages[n-1], nil
}

func runDiscover(args []string) error {
	fs := flag.NewFlagSet("discover", flag.ExitOnError)
	timeout := fs.Duration("timeout", 3*time.Second, "how long to listen")
	fs.Parse(args)

	n := 0
	err := pen.Browse(*timeout, func(url string) {
		n++
		fmt.Println(url)
	})
	if err != nil {
		return err
	}
	if n == 0 {
		fmt.Fprintln(os.Stderr, "no notebooks found")
	}
	return nil
}
