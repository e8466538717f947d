// Package store keeps the notebook's page list in a JSON file.
package store

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"LocalNotebook/internal/logging"
	"LocalNotebook/internal/media"
	"LocalNotebook/internal/state"
)

const formatVersion = 1

// Notebook is the on-disk form.
type Notebook struct {
	Version int          `json:"version"`
	Current string       `json:"current"`
	Pages   []state.Page `json:"pages"`
}

// Encode writes the notebook as indented JSON.
func Encode(w io.Writer, nb Notebook) error {
	nb.Version = formatVersion
	data, err := json.MarshalIndent(nb, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal notebook: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write notebook: %w", err)
	}
	return nil
}

// Decode reads a notebook and decodes its background images. A background
// that cannot be decoded is kept by reference and left undrawn.
func Decode(r io.Reader) (Notebook, error) {
	var nb Notebook
	if err := json.NewDecoder(r).Decode(&nb); err != nil {
		return Notebook{}, fmt.Errorf("parse notebook: %w", err)
	}
	if nb.Version > formatVersion {
		return Notebook{}, fmt.Errorf("notebook version %d is newer than %d", nb.Version, formatVersion)
	}
	for i, p := range nb.Pages {
		if p.BackgroundImage == nil || p.BackgroundImage.Ref == "" {
			continue
		}
		img, err := media.DecodeRef(p.BackgroundImage.Ref)
		if err != nil {
			logging.Logger().Warn("[STORE] background not loaded", "page", p.ID, "err", err)
			continue
		}
		nb.Pages[i].BackgroundImage = &state.Background{Ref: p.BackgroundImage.Ref, Image: img}
	}
	return nb, nil
}

// Load reads the notebook at path. The error wraps os.ErrNotExist when
// there is no file yet.
func Load(path string) (Notebook, error) {
	f, err := os.Open(path)
	if err != nil {
		return Notebook{}, fmt.Errorf("load notebook: %w", err)
	}
	defer f.Close()
	nb, err := Decode(f)
	if err != nil {
		return Notebook{}, err
	}
	logging.Logger().Info("[STORE] notebook loaded", "path", path, "pages", len(nb.Pages))
	return nb, nil
}

// Save writes the notebook to path through a temporary file so a crash
// never leaves a truncated notebook behind.
func Save(path string, nb Notebook) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("save notebook: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".notebook-*.json")
	if err != nil {
		return fmt.Errorf("save notebook: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := Encode(tmp, nb); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("save notebook: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("save notebook: %w", err)
	}
	return nil
}

// Autosave writes the page list a short while after the last change, so
// a pan that publishes on every pointer move costs one write.
type Autosave struct {
	Path  string
	Delay time.Duration

	// write is held from taking the pending state until it is renamed into
	// place, so the newest snapshot is always the last one written.
	write sync.Mutex

	mu      sync.Mutex
	pending *Notebook
	timer   *time.Timer
}

func NewAutosave(path string) *Autosave {
	return &Autosave{Path: path, Delay: 500 * time.Millisecond}
}

// Schedule records the latest state and (re)starts the timer.
func (a *Autosave) Schedule(pages []state.Page, current string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.pending = &Notebook{Current: current, Pages: pages}
	if a.timer != nil {
		a.timer.Stop()
	}
	a.timer = time.AfterFunc(a.Delay, func() {
		if err := a.Flush(); err != nil {
			logging.Logger().Error("[STORE] autosave failed", "path", a.Path, "err", err)
		}
	})
}

// Flush writes any pending state now.
func (a *Autosave) Flush() error {
	a.write.Lock()
	defer a.write.Unlock()

	a.mu.Lock()
	nb := a.pending
	a.pending = nil
	if a.timer != nil {
		a.timer.Stop()
		a.timer = nil
	}
	a.mu.Unlock()

	if nb == nil {
		return nil
	}
	if err := Save(a.Path, *nb); err != nil {
		return err
	}
	logging.Logger().Debug("[STORE] notebook saved", "path", a.Path, "pages", len(nb.Pages))
	return nil
}
