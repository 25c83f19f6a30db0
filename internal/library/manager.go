package library

import (
	"context"
	"log"
	"sync"
	"time"
)

// Manager owns one Session per signed-in user. It exists so that session
// state is an explicit object with an open/close lifecycle instead of
// ambient process-wide state, which makes concurrent multi-tenant hosting
// straightforward.
type Manager struct {
	remote *Adapter

	mu       sync.Mutex
	sessions map[string]*Session
}

// NewManager creates a session manager over the adapter.
func NewManager(remote *Adapter) *Manager {
	return &Manager{
		remote:   remote,
		sessions: make(map[string]*Session),
	}
}

// Session returns the user's session, opening it (load-or-bootstrap) on
// first touch. A session that previously failed to load is retried on the
// next touch; a failed open leaves no session behind.
func (m *Manager) Session(ctx context.Context, userID string) (*Session, error) {
	m.mu.Lock()
	s, ok := m.sessions[userID]
	if !ok {
		s = newSession(userID, m.remote)
		m.sessions[userID] = s
	}
	m.mu.Unlock()

	if err := s.Open(ctx); err != nil {
		m.mu.Lock()
		if m.sessions[userID] == s {
			delete(m.sessions, userID)
		}
		m.mu.Unlock()
		s.Close()
		return nil, err
	}
	return s, nil
}

// Peek returns the session without opening one.
func (m *Manager) Peek(userID string) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[userID]
	return s, ok
}

// Close tears down the user's session: pending writes are flushed, local
// state is discarded. Sign-out path.
func (m *Manager) Close(userID string) {
	m.mu.Lock()
	s, ok := m.sessions[userID]
	delete(m.sessions, userID)
	m.mu.Unlock()

	if ok {
		s.Close()
	}
}

// CloseAll tears down every session, used at server shutdown.
func (m *Manager) CloseAll() {
	m.mu.Lock()
	sessions := m.sessions
	m.sessions = make(map[string]*Session)
	m.mu.Unlock()

	for _, s := range sessions {
		s.Close()
	}
}

// ReapIdle closes sessions idle for longer than maxIdle and returns how
// many were reaped. Runs on a cron schedule.
func (m *Manager) ReapIdle(maxIdle time.Duration) int {
	cutoff := time.Now().Add(-maxIdle)

	m.mu.Lock()
	var idle []*Session
	for userID, s := range m.sessions {
		if s.LastUsed().Before(cutoff) {
			idle = append(idle, s)
			delete(m.sessions, userID)
		}
	}
	m.mu.Unlock()

	for _, s := range idle {
		s.Close()
	}
	if len(idle) > 0 {
		log.Printf("library: reaped %d idle session(s)", len(idle))
	}
	return len(idle)
}
