// Package config reads ~/.notebookrc, a key=value file with # comments.
package config

import (
	"bufio"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"LocalNotebook/internal/logging"
	"LocalNotebook/internal/render"
	"LocalNotebook/internal/state"
)

const FileName = ".notebookrc"

type Config struct {
	Notebook   string
	SaveDir    string
	Tool       state.Tool
	Color      string
	Width      float64
	Background string
	Paper      render.Paper
	Remote     bool
	RemotePort int
	Advertise  bool
	LogLevel   string
}

// Default is what an absent or empty rc file yields.
func Default() Config {
	return Config{
		Notebook:   "notebook.json",
		Tool:       state.ToolPen,
		Color:      "#000000",
		Width:      3,
		Background: "white",
		Paper:      render.PaperInfinite,
		RemotePort: 8765,
		Advertise:  true,
		LogLevel:   "info",
	}
}

// Load reads ~/.notebookrc. A missing file is not an error.
func Load() Config {
	home, err := os.UserHomeDir()
	if err != nil {
		return Default()
	}
	f, err := os.Open(filepath.Join(home, FileName))
	if err != nil {
		return Default()
	}
	defer f.Close()
	return Parse(f, home)
}

// Parse reads rc lines from r. Unknown keys are ignored; bad values keep
// the default and are logged. home expands a leading ~ in paths.
func Parse(r io.Reader, home string) Config {
	cfg := Default()

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			continue
		}

		key := strings.ToLower(strings.TrimSpace(parts[0]))
		value := strings.TrimSpace(parts[1])

		switch key {
		case "notebook", "file":
			cfg.Notebook = expandHome(value, home)
		case "savedir", "save_dir", "savedirectory":
			cfg.SaveDir = expandPath(value, home)
		case "tool":
			if t, err := state.ParseInputTool(value); err == nil {
				cfg.Tool = t
			} else {
				bad(key, value, err)
			}
		case "color", "colour":
			if _, ok := render.ParseColor(value); ok {
				cfg.Color = value
			} else {
				bad(key, value, nil)
			}
		case "width":
			if w, err := strconv.ParseFloat(value, 64); err == nil && w > 0 {
				cfg.Width = w
			} else {
				bad(key, value, err)
			}
		case "background":
			cfg.Background = value
		case "paper":
			if p, err := render.ParsePaper(value); err == nil {
				cfg.Paper = p
			} else {
				bad(key, value, err)
			}
		case "remote":
			cfg.Remote = strings.ToLower(value) == "true"
		case "remote_port", "port":
			if n, err := strconv.Atoi(value); err == nil && n > 0 && n < 65536 {
				cfg.RemotePort = n
			} else {
				bad(key, value, err)
			}
		case "advertise", "mdns":
			cfg.Advertise = strings.ToLower(value) == "true"
		case "loglevel", "log_level":
			cfg.LogLevel = strings.ToLower(value)
		}
	}
	if err := scanner.Err(); err != nil {
		logging.Logger().Warn("[CONFIG] read failed", "err", err)
	}
	return cfg
}

func bad(key, value string, err error) {
	logging.Logger().Warn("[CONFIG] ignoring bad value", "key", key, "value", value, "err", err)
}

func expandHome(value, home string) string {
	if strings.HasPrefix(value, "~") && home != "" {
		return filepath.Join(home, strings.TrimPrefix(value, "~"))
	}
	return value
}

func expandPath(value, home string) string {
	value = expandHome(value, home)
	if !filepath.IsAbs(value) {
		if abs, err := filepath.Abs(value); err == nil {
			value = abs
		}
	}
	return value
}

// NotebookPath returns where the notebook file lives: Notebook itself when
// it is absolute, otherwise joined to SaveDir.
func (c Config) NotebookPath() string {
	if c.SaveDir == "" || filepath.IsAbs(c.Notebook) {
		return c.Notebook
	}
	return filepath.Join(c.SaveDir, c.Notebook)
}

// ExportPath places an export file in SaveDir, creating it if needed.
func (c Config) ExportPath(filename string) string {
	if c.SaveDir == "" {
		return filename
	}
	os.MkdirAll(c.SaveDir, 0755)
	return filepath.Join(c.SaveDir, filename)
}
