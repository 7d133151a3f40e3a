package web

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/anatolykoptev/go_study/internal/engine"
	"github.com/google/uuid"
)

// Theme is the color scheme a session renders with.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// Toggle flips between light and dark.
func (t Theme) Toggle() Theme {
	if t == ThemeDark {
		return ThemeLight
	}
	return ThemeDark
}

// Result is one completed generation, kept for downloads until the session expires.
type Result struct {
	ID        string
	Source    engine.SourceKind
	Title     string
	Chars     int
	Artifacts []engine.Artifact
	Created   time.Time
}

// Artifact returns the artifact of kind, if the result has one.
func (r *Result) Artifact(kind engine.TaskKind) (engine.Artifact, bool) {
	for _, a := range r.Artifacts {
		if a.Kind == kind {
			return a, true
		}
	}
	return engine.Artifact{}, false
}

// Session is a snapshot of one browser session.
type Session struct {
	ID      string
	Theme   Theme
	Results []*Result // oldest first
}

type sessionState struct {
	theme    Theme
	results  []*Result
	lastSeen time.Time
}

// SessionStore keeps sessions in memory. Results are immutable once added.
type SessionStore struct {
	mu         sync.Mutex
	sessions   map[string]*sessionState
	ttl        time.Duration
	maxResults int
	now        func() time.Time
}

// NewSessionStore creates a store whose sessions expire after ttl of inactivity
// and keep at most maxResults results each.
func NewSessionStore(ttl time.Duration, maxResults int) *SessionStore {
	if ttl <= 0 {
		ttl = 2 * time.Hour
	}
	if maxResults <= 0 {
		maxResults = 5
	}
	return &SessionStore{
		sessions:   make(map[string]*sessionState),
		ttl:        ttl,
		maxResults: maxResults,
		now:        time.Now,
	}
}

// Touch returns the live session with id, or a fresh one when id is unknown or expired.
func (s *SessionStore) Touch(id string) Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	st, ok := s.sessions[id]
	if !ok || now.Sub(st.lastSeen) > s.ttl {
		delete(s.sessions, id)
		id = uuid.NewString()
		st = &sessionState{theme: ThemeLight}
		s.sessions[id] = st
	}
	st.lastSeen = now
	return snapshot(id, st)
}

// SetTheme stores the theme of a session. Unknown sessions are ignored.
func (s *SessionStore) SetTheme(id string, theme Theme) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if st, ok := s.sessions[id]; ok {
		st.theme = theme
	}
}

// AddResult appends r to the session, dropping the oldest result past the bound.
func (s *SessionStore) AddResult(id string, r *Result) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.sessions[id]
	if !ok {
		return
	}
	st.results = append(st.results, r)
	if extra := len(st.results) - s.maxResults; extra > 0 {
		st.results = append([]*Result(nil), st.results[extra:]...)
	}
}

// Result finds a result of a live session.
func (s *SessionStore) Result(id, resultID string) (*Result, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.sessions[id]
	if !ok || s.now().Sub(st.lastSeen) > s.ttl {
		return nil, false
	}
	for _, r := range st.results {
		if r.ID == resultID {
			return r, true
		}
	}
	return nil, false
}

// Len reports the number of stored sessions, expired ones included until swept.
func (s *SessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Sweep drops expired sessions and returns how many were removed.
func (s *SessionStore) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	n := 0
	for id, st := range s.sessions {
		if now.Sub(st.lastSeen) > s.ttl {
			delete(s.sessions, id)
			n++
		}
	}
	return n
}

// Run sweeps expired sessions every interval until ctx is done.
func (s *SessionStore) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.Sweep(); n > 0 {
				slog.Debug("web: sessions expired", slog.Int("removed", n))
			}
		}
	}
}

func snapshot(id string, st *sessionState) Session {
	return Session{
		ID:      id,
		Theme:   st.theme,
		Results: append([]*Result(nil), st.results...),
	}
}
