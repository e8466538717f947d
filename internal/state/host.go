package state

import (
	"errors"
	"fmt"
	"sync"

	"LocalNotebook/internal/geom"
	"LocalNotebook/internal/logging"
)

// ErrPageNotFound is returned for ids that are not in the page list.
var ErrPageNotFound = errors.New("page not found")

// PageHost owns the page list and the id of the current page.
//
// Every mutation builds a new slice and new page values; slices handed out
// by Pages or OnChange are never written to afterwards, so callers may keep
// them without copying.
type PageHost struct {
	mu      sync.RWMutex
	pages   []Page
	current string

	// OnChange receives the replacement page list after every mutation.
	// It is called without the host lock held.
	OnChange func(pages []Page)
}

// NewPageHost takes ownership of pages. If current is empty or unknown the
// first page becomes current.
func NewPageHost(pages []Page, current string) *PageHost {
	h := &PageHost{pages: append([]Page(nil), pages...)}
	h.current = current
	if h.indexOf(current) < 0 && len(h.pages) > 0 {
		h.current = h.pages[0].ID
	}
	return h
}

func (h *PageHost) indexOf(id string) int {
	for i, p := range h.pages {
		if p.ID == id {
			return i
		}
	}
	return -1
}

// Pages returns the current page list.
func (h *PageHost) Pages() []Page {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.pages
}

// CurrentID returns the id of the current page, empty if there are no pages.
func (h *PageHost) CurrentID() string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.current
}

// Current returns the current page.
func (h *PageHost) Current() (Page, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	i := h.indexOf(h.current)
	if i < 0 {
		return Page{}, false
	}
	return h.pages[i], true
}

// Page returns the page with the given id.
func (h *PageHost) Page(id string) (Page, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	i := h.indexOf(id)
	if i < 0 {
		return Page{}, false
	}
	return h.pages[i], true
}

// SetCurrentPage makes id the page that receives input and is rendered.
func (h *PageHost) SetCurrentPage(id string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.indexOf(id) < 0 {
		return fmt.Errorf("switch to %s: %w", id, ErrPageNotFound)
	}
	h.current = id
	logging.Logger().Debug("[HOST] current page changed", "page", id)
	return nil
}

// update replaces the page with the given id by fn's result and publishes
// the new list if fn reports a change.
func (h *PageHost) update(id string, fn func(Page) (Page, bool)) (Page, error) {
	h.mu.Lock()
	i := h.indexOf(id)
	if i < 0 {
		h.mu.Unlock()
		return Page{}, fmt.Errorf("update %s: %w", id, ErrPageNotFound)
	}
	next, changed := fn(h.pages[i])
	if !changed {
		h.mu.Unlock()
		return next, nil
	}
	pages := make([]Page, len(h.pages))
	copy(pages, h.pages)
	pages[i] = next
	h.pages = pages
	notify := h.OnChange
	h.mu.Unlock()

	if notify != nil {
		notify(pages)
	}
	return next, nil
}

// GetOrInitObjects returns the page's content, creating empty content with
// the identity transform the first time the page is touched.
func (h *PageHost) GetOrInitObjects(id string) (CanvasObjects, error) {
	p, err := h.update(id, Page.WithObjects)
	if err != nil {
		return CanvasObjects{}, err
	}
	return *p.Objects, nil
}

// CommitStroke finalizes s onto the page. It reports false when the stroke
// was discarded for having fewer than two points.
func (h *PageHost) CommitStroke(id string, s *Stroke) (bool, error) {
	var kept bool
	_, err := h.update(id, func(p Page) (Page, bool) {
		p, created := p.WithObjects()
		p, kept = FinalizeStroke(s, p)
		return p, kept || created
	})
	if err != nil {
		return false, err
	}
	if kept {
		logging.Logger().Debug("[HOST] stroke committed", "page", id, "stroke", s.ID, "points", len(s.Points))
	} else {
		logging.Logger().Debug("[HOST] stroke discarded", "page", id)
	}
	return kept, nil
}

// SetTransform stores the page's viewport transform.
func (h *PageHost) SetTransform(id string, t geom.Transform) error {
	_, err := h.update(id, func(p Page) (Page, bool) {
		if p.Objects != nil && p.Objects.Transform == t {
			return p, false
		}
		return p.withContent(p.Strokes(), t), true
	})
	return err
}

// Clear removes every stroke from the page, keeping transform and background.
func (h *PageHost) Clear(id string) (Page, error) {
	p, err := h.update(id, func(p Page) (Page, bool) {
		return p.withContent([]Stroke{}, p.Transform()), true
	})
	if err == nil {
		logging.Logger().Info("[HOST] page cleared", "page", id)
	}
	return p, err
}

// SetBackgroundImage replaces the page's background image; nil removes it.
func (h *PageHost) SetBackgroundImage(id string, bg *Background) error {
	_, err := h.update(id, func(p Page) (Page, bool) {
		p.BackgroundImage = bg
		return p, true
	})
	return err
}

// AddPage appends p to the list and returns it.
func (h *PageHost) AddPage(p Page) Page {
	h.mu.Lock()
	pages := make([]Page, len(h.pages), len(h.pages)+1)
	copy(pages, h.pages)
	pages = append(pages, p)
	h.pages = pages
	if h.current == "" {
		h.current = p.ID
	}
	notify := h.OnChange
	h.mu.Unlock()

	logging.Logger().Info("[HOST] page added", "page", p.ID, "count", len(pages))
	if notify != nil {
		notify(pages)
	}
	return p
}

// Replace swaps in a page list supplied by the page list collaborator.
func (h *PageHost) Replace(pages []Page, current string) {
	h.mu.Lock()
	h.pages = append([]Page(nil), pages...)
	h.current = current
	if h.indexOf(current) < 0 {
		h.current = ""
		if len(h.pages) > 0 {
			h.current = h.pages[0].ID
		}
	}
	h.mu.Unlock()
}
