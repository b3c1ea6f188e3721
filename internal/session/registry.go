package session

import (
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/verte-zerg/pentrust/internal/analyzer"
)

// Registry tracks independent sessions by ID.
type Registry struct {
	analyzer *analyzer.Analyzer
	logger   *slog.Logger

	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewRegistry creates an empty registry whose sessions share one analyzer.
func NewRegistry(a *analyzer.Analyzer, logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Registry{
		analyzer: a,
		logger:   logger,
		sessions: make(map[string]*Session),
	}
}

// Create starts a new session and returns its ID.
func (r *Registry) Create() (string, *Session) {
	id := uuid.NewString()
	s := New(r.analyzer, r.logger.With("session", id))
	r.mu.Lock()
	r.sessions[id] = s
	r.mu.Unlock()
	return id, s
}

// Get looks up a session.
func (r *Registry) Get(id string) (*Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[id]
	return s, ok
}

// Delete drops a session. It reports whether the session existed.
func (r *Registry) Delete(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sessions[id]; !ok {
		return false
	}
	delete(r.sessions, id)
	return true
}

// Len returns the number of live sessions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
