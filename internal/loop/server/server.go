// Package server is the hub shared by every SSH connection: it tracks who is
// playing, hands out per-player score stores, keeps the leaderboard and
// coordinates graceful shutdown.
package server

import (
	"io"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/tomz197/velocityridge/internal/score"
)

// Hub is the interface clients use to talk to the shared server state.
// It decouples the terminal Client from the concrete Server.
type Hub interface {
	RegisterClient(username string) *ClientHandle
	UnregisterClient(id string)
	Players() int
	ScoreStore(username string) score.Store
	ReportScore(id string, result float64)
	Leaderboard() []Standing
}

// Board is the persistent score table behind the leaderboard.
type Board interface {
	Store(key string) score.Store
	Top(n int) ([]score.Entry, error)
}

// Server tracks connected clients. All methods are safe for concurrent use.
type Server struct {
	mu      sync.RWMutex
	clients map[string]*ClientHandle
	board   Board
	top     []Standing
	size    int
	logger  *log.Logger
}

var _ Hub = (*Server)(nil)

// ClientHandle represents a client's connection to the server.
type ClientHandle struct {
	ID       string
	Username string
	EventsCh chan ClientEvent // Events sent to the client (shutdown, ...)
}

// ClientEvent represents an event sent from server to client.
type ClientEvent struct {
	Type ClientEventType
}

// ClientEventType identifies the type of client event.
type ClientEventType int

const (
	EventServerShutdown ClientEventType = iota
	EventLeaderboardChanged
)

// Standing is one leaderboard row.
type Standing struct {
	Username string
	Best     float64
}

// NewServer creates a hub whose leaderboard holds up to size rows read from
// board. A nil board keeps scores in memory only.
func NewServer(board Board, size int, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	s := &Server{
		clients: make(map[string]*ClientHandle),
		board:   board,
		size:    size,
		logger:  logger,
	}
	s.refresh()
	return s
}

// ScoreKey is the key a user's best time is stored under.
func ScoreKey(username string) string {
	if username == "" {
		return score.DefaultKey
	}
	return score.DefaultKey + ":" + username
}

// usernameFromKey inverts ScoreKey.
func usernameFromKey(key string) string {
	name, ok := strings.CutPrefix(key, score.DefaultKey+":")
	if !ok {
		return "anonymous"
	}
	return name
}

// RegisterClient registers a new client and returns its handle.
func (s *Server) RegisterClient(username string) *ClientHandle {
	handle := &ClientHandle{
		ID:       uuid.NewString(),
		Username: username,
		EventsCh: make(chan ClientEvent, 16),
	}

	s.mu.Lock()
	s.clients[handle.ID] = handle
	players := len(s.clients)
	s.mu.Unlock()

	s.logger.Info("client registered", "id", handle.ID, "user", username, "players", players)
	return handle
}

// UnregisterClient removes a client and closes its event channel.
func (s *Server) UnregisterClient(id string) {
	s.mu.Lock()
	handle, ok := s.clients[id]
	if ok {
		delete(s.clients, id)
		close(handle.EventsCh)
	}
	players := len(s.clients)
	s.mu.Unlock()

	if ok {
		s.logger.Info("client unregistered", "id", id, "user", handle.Username, "players", players)
	}
}

// Players returns the number of connected clients.
func (s *Server) Players() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.clients)
}

// ScoreStore returns the store holding username's best time.
func (s *Server) ScoreStore(username string) score.Store {
	if s.board == nil {
		return score.NewMemory(0)
	}
	return s.board.Store(ScoreKey(username))
}

// ReportScore is called with a session's final score once it ends and its
// best time has been saved. The leaderboard is re-read and every client is
// told when it changed.
func (s *Server) ReportScore(id string, result float64) {
	s.mu.RLock()
	handle, ok := s.clients[id]
	s.mu.RUnlock()
	if !ok {
		return
	}
	s.logger.Info("session finished", "id", id, "user", handle.Username, "score", score.Round(result))

	if s.refresh() {
		s.broadcast(ClientEvent{Type: EventLeaderboardChanged})
	}
}

// Leaderboard returns the cached top standings, best first.
func (s *Server) Leaderboard() []Standing {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Standing, len(s.top))
	copy(out, s.top)
	return out
}

// refresh reloads the leaderboard and reports whether it changed.
func (s *Server) refresh() bool {
	if s.board == nil || s.size <= 0 {
		return false
	}
	entries, err := s.board.Top(s.size)
	if err != nil {
		s.logger.Warn("reading leaderboard failed", "err", err)
		return false
	}
	top := make([]Standing, len(entries))
	for i, e := range entries {
		top[i] = Standing{Username: usernameFromKey(e.Key), Best: e.Value}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	changed := len(top) != len(s.top)
	for i := 0; !changed && i < len(top); i++ {
		changed = top[i] != s.top[i]
	}
	s.top = top
	return changed
}

func (s *Server) broadcast(ev ClientEvent) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, handle := range s.clients {
		select {
		case handle.EventsCh <- ev:
		default:
		}
	}
}

// Shutdown notifies all connected clients and waits for them to disconnect,
// up to timeout.
func (s *Server) Shutdown(timeout time.Duration) {
	s.broadcast(ClientEvent{Type: EventServerShutdown})

	deadline := time.After(timeout)
	ticker := time.NewTicker(200 * time.Millisecond)
	defer ticker.Stop()

	for {
		if s.Players() == 0 {
			return
		}
		select {
		case <-deadline:
			s.logger.Warn("shutdown timed out", "players", s.Players())
			return
		case <-ticker.C:
		}
	}
}
