// Package history keeps per-session analysis results so the console
// can show what a user already ran without refetching from the remote
// service. Entries live in memory only and die with the process.
package history

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/SiteLensProject/sitelens/pkg/analyzer"
	"github.com/SiteLensProject/sitelens/pkg/clock"
)

// DefaultLimit is the per-session entry cap when none is configured.
const DefaultLimit = 50

// Entry is one recorded analysis.
type Entry struct {
	ID         string
	URL        string
	RecordedAt time.Time
	Result     *analyzer.AnalysisResponse
}

// Store holds bounded per-session histories, newest first.
// Safe for concurrent use.
type Store struct {
	mu       sync.Mutex
	limit    int
	sessions map[string][]Entry
	clk      clock.Clock
}

// NewStore creates a history store. A limit of 0 means DefaultLimit; a
// nil clock means real time.
func NewStore(limit int, clk clock.Clock) *Store {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if clk == nil {
		clk = clock.Real()
	}
	return &Store{
		limit:    limit,
		sessions: make(map[string][]Entry),
		clk:      clk,
	}
}

// Add records a result for a session and returns the entry ID.
// The oldest entry is dropped once the session is at its cap.
func (s *Store) Add(sessionID, url string, result *analyzer.AnalysisResponse) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry := Entry{
		ID:         uuid.NewString(),
		URL:        url,
		RecordedAt: s.clk.Now(),
		Result:     result,
	}

	entries := append([]Entry{entry}, s.sessions[sessionID]...)
	if len(entries) > s.limit {
		entries = entries[:s.limit]
	}
	s.sessions[sessionID] = entries

	return entry.ID
}

// List returns a session's entries, newest first. The returned slice is
// a copy; callers may not mutate stored entries through it.
func (s *Store) List(sessionID string) []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries := s.sessions[sessionID]
	out := make([]Entry, len(entries))
	copy(out, entries)
	return out
}

// Get returns one entry by ID within a session.
func (s *Store) Get(sessionID, entryID string) (Entry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, e := range s.sessions[sessionID] {
		if e.ID == entryID {
			return e, true
		}
	}
	return Entry{}, false
}

// Transfer moves one session's entries to another session ID, keeping
// history intact when the console rotates a session token on login.
func (s *Store) Transfer(fromID, toID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if fromID == toID {
		return
	}
	entries, ok := s.sessions[fromID]
	if !ok {
		return
	}
	delete(s.sessions, fromID)

	merged := append(entries, s.sessions[toID]...)
	if len(merged) > s.limit {
		merged = merged[:s.limit]
	}
	s.sessions[toID] = merged
}

// Clear drops a session's history.
func (s *Store) Clear(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
}

// Len returns the number of entries recorded for a session.
func (s *Store) Len(sessionID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions[sessionID])
}
