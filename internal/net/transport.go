// Package net lets a second device act as the notebook's pen: a phone or
// tablet connects over a websocket and sends pointer events in screen
// coordinates of the board.
package net

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"LocalNotebook/internal/board"
	"LocalNotebook/internal/logging"
	"LocalNotebook/internal/render"
	"LocalNotebook/internal/state"

	"github.com/gorilla/websocket"
)

const PenPath = "/pen"

// ErrBusy is returned to a second pen while another one is connected.
var ErrBusy = errors.New("a remote pen is already connected")

// Message is one websocket frame in either direction.
type Message struct {
	Type    string  `json:"type"`
	X       float64 `json:"x,omitempty"`
	Y       float64 `json:"y,omitempty"`
	Value   string  `json:"value,omitempty"`
	Page    string  `json:"page,omitempty"`
	Strokes int     `json:"strokes,omitempty"`
	Kept    bool    `json:"kept,omitempty"`
	Error   string  `json:"error,omitempty"`
}

// Board is the part of the board the pen drives.
type Board interface {
	PointerDown(src board.Source, x, y float64) bool
	PointerMove(src board.Source, x, y float64)
	PointerUp(src board.Source) (board.Commit, bool)
	PointerLeave(src board.Source) (board.Commit, bool)
	Update(fn func(*board.Settings))
}

// PenServer accepts one remote pen at a time.
type PenServer struct {
	board    Board
	upgrader websocket.Upgrader

	mu     sync.Mutex
	active *websocket.Conn
}

func NewPenServer(b Board) *PenServer {
	return &PenServer{
		board: b,
		upgrader: websocket.Upgrader{
			// Pens are other devices on the LAN, never a browser page
			// served by us, so there is no origin to compare against.
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
}

// Handler serves the pen endpoint.
func (s *PenServer) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle(PenPath, s)
	return mux
}

// ListenAndServe serves on port until ctx is cancelled.
func (s *PenServer) ListenAndServe(ctx context.Context, port int) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	ln, err := net.Listen("tcp", srv.Addr)
	if err != nil {
		return fmt.Errorf("remote pen on port %d: %w", port, err)
	}
	logging.Logger().Info("[PEN] listening", "port", port)

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
		s.closeActive()
	}()

	if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *PenServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	busy := s.active != nil
	s.mu.Unlock()
	if busy {
		http.Error(w, ErrBusy.Error(), http.StatusConflict)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logging.Logger().Warn("[PEN] upgrade failed", "remote", r.RemoteAddr, "err", err)
		return
	}
	if !s.claim(conn) {
		conn.WriteJSON(Message{Type: "error", Error: ErrBusy.Error()})
		conn.Close()
		return
	}
	logging.Logger().Info("[PEN] connected", "remote", r.RemoteAddr)
	s.serve(conn)
	logging.Logger().Info("[PEN] disconnected", "remote", r.RemoteAddr)
}

func (s *PenServer) claim(conn *websocket.Conn) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active != nil {
		return false
	}
	s.active = conn
	return true
}

func (s *PenServer) closeActive() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active != nil {
		s.active.Close()
	}
}

// serve reads frames until the connection drops. A gesture left open by
// the pen is ended as if it had left the surface.
func (s *PenServer) serve(conn *websocket.Conn) {
	down := false
	defer func() {
		conn.Close()
		s.mu.Lock()
		s.active = nil
		s.mu.Unlock()
		if down {
			s.board.PointerLeave(board.Pen)
		}
	}()

	for {
		var m Message
		if err := conn.ReadJSON(&m); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				logging.Logger().Debug("[PEN] read ended", "err", err)
			}
			return
		}
		reply, err := s.apply(m, &down)
		if err != nil {
			reply = &Message{Type: "error", Error: err.Error()}
		}
		if reply == nil {
			continue
		}
		if err := conn.WriteJSON(reply); err != nil {
			logging.Logger().Debug("[PEN] write failed", "err", err)
			return
		}
	}
}

// apply feeds one message to the board and returns the reply, if any.
func (s *PenServer) apply(m Message, down *bool) (*Message, error) {
	switch m.Type {
	case "down":
		if !s.board.PointerDown(board.Pen, m.X, m.Y) {
			return nil, errors.New("surface busy or unavailable")
		}
		*down = true
	case "move":
		s.board.PointerMove(board.Pen, m.X, m.Y)
	case "up", "leave":
		var c board.Commit
		var ok bool
		if m.Type == "up" {
			c, ok = s.board.PointerUp(board.Pen)
		} else {
			c, ok = s.board.PointerLeave(board.Pen)
		}
		*down = false
		if ok {
			return &Message{Type: "ack", Page: c.PageID, Strokes: c.Strokes, Kept: c.Kept}, nil
		}
	case "tool":
		t, err := state.ParseInputTool(m.Value)
		if err != nil {
			return nil, err
		}
		s.board.Update(func(st *board.Settings) { st.Tool = t })
	case "color":
		if _, ok := render.ParseColor(m.Value); !ok {
			return nil, fmt.Errorf("unknown colour %q", m.Value)
		}
		s.board.Update(func(st *board.Settings) { st.Color = m.Value })
	case "width":
		w, err := strconv.ParseFloat(m.Value, 64)
		if err != nil || w <= 0 {
			return nil, fmt.Errorf("bad width %q", m.Value)
		}
		s.board.Update(func(st *board.Settings) { st.Width = w })
	default:
		return nil, fmt.Errorf("unknown message type %q", m.Type)
	}
	return nil, nil
}
