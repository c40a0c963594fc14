// Package session holds the per-session pipeline state: the current
// canonical content object (tabular frame or text blob), its source, and
// bookkeeping for multi-sheet workbooks. One logical thread of control
// mutates a session at a time; the manager only guards its own map.
package session

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/datalens-ai/datalens/internal/frame"
	"github.com/datalens-ai/datalens/internal/result"
)

// Session is the explicit per-session context passed through the pipeline.
// A session holds at most one canonical content object: the later
// ingestion overwrites the earlier one.
type Session struct {
	ID uuid.UUID

	Frame      *frame.Frame
	Text       string
	Source     string   // filename or URL the content came from
	SheetNames []string // pending sheet choice for multi-sheet workbooks
	Upload     []byte   // raw upload kept until a sheet is chosen

	// Result of the latest analysis; chart sections render from it.
	Result *result.Result

	lastSeen time.Time
}

// SetFrame installs tabular content, clearing any text blob.
func (s *Session) SetFrame(f *frame.Frame, source string) {
	s.Frame = f
	s.Text = ""
	s.Source = source
}

// SetText installs a text blob, clearing any frame.
func (s *Session) SetText(text, source string) {
	s.Text = text
	s.Frame = nil
	s.Source = source
	s.SheetNames = nil
	s.Upload = nil
}

// HasContent reports whether a canonical content object is present.
func (s *Session) HasContent() bool {
	return s.Frame != nil || s.Text != ""
}

// Manager owns session lifecycles: creation, lookup, and teardown of idle
// sessions.
type Manager struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]*Session
	maxIdle  time.Duration
	now      func() time.Time
}

// NewManager builds a manager; sessions idle longer than maxIdle are torn
// down lazily on access.
func NewManager(maxIdle time.Duration) *Manager {
	return &Manager{
		sessions: make(map[uuid.UUID]*Session),
		maxIdle:  maxIdle,
		now:      time.Now,
	}
}

// Create starts a fresh session.
func (m *Manager) Create() *Session {
	s := &Session{ID: uuid.New(), lastSeen: m.now()}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sweepLocked()
	m.sessions[s.ID] = s
	return s
}

// Get returns the session by ID, refreshing its idle timer.
func (m *Manager) Get(id uuid.UUID) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sweepLocked()
	s, ok := m.sessions[id]
	if ok {
		s.lastSeen = m.now()
	}
	return s, ok
}

// End tears the session down.
func (m *Manager) End(id uuid.UUID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
}

// Len returns the live session count.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

func (m *Manager) sweepLocked() {
	if m.maxIdle <= 0 {
		return
	}
	cutoff := m.now().Add(-m.maxIdle)
	for id, s := range m.sessions {
		if s.lastSeen.Before(cutoff) {
			delete(m.sessions, id)
		}
	}
}
