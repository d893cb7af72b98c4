package auth

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/SiteLensProject/sitelens/pkg/clock"
)

// DefaultIdleTimeout is how long a session may sit unused before the
// store forgets it.
const DefaultIdleTimeout = 12 * time.Hour

// SessionStore maps opaque browser tokens to Sessions.
//
// Each token belongs to exactly one browser session; the store never
// hands the same Session to two tokens. Sessions idle longer than the
// timeout are dropped lazily on access.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[string]*sessionEntry
	timeout  time.Duration
	clk      clock.Clock
}

type sessionEntry struct {
	session  *Session
	lastSeen time.Time
}

// NewSessionStore creates a session store. A zero timeout means
// DefaultIdleTimeout; a nil clock means real time.
func NewSessionStore(timeout time.Duration, clk clock.Clock) *SessionStore {
	if timeout == 0 {
		timeout = DefaultIdleTimeout
	}
	if clk == nil {
		clk = clock.Real()
	}
	return &SessionStore{
		sessions: make(map[string]*sessionEntry),
		timeout:  timeout,
		clk:      clk,
	}
}

// Get returns the session for a token, or nil if the token is unknown
// or the session has idled out.
func (st *SessionStore) Get(token string) *Session {
	st.mu.Lock()
	defer st.mu.Unlock()

	entry, ok := st.sessions[token]
	if !ok {
		return nil
	}
	if st.clk.Since(entry.lastSeen) > st.timeout {
		delete(st.sessions, token)
		return nil
	}
	entry.lastSeen = st.clk.Now()
	return entry.session
}

// Create mints a fresh anonymous session and returns its token.
func (st *SessionStore) Create() (string, *Session) {
	st.mu.Lock()
	defer st.mu.Unlock()

	token := uuid.NewString()
	sess := NewSession()
	st.sessions[token] = &sessionEntry{session: sess, lastSeen: st.clk.Now()}
	return token, sess
}

// Rotate moves a session to a new token, invalidating the old one.
// Called after a successful login so a pre-login token cannot be fixed
// onto an authenticated session. Unknown tokens get a fresh session.
func (st *SessionStore) Rotate(token string) (string, *Session) {
	st.mu.Lock()
	defer st.mu.Unlock()

	sess := NewSession()
	if entry, ok := st.sessions[token]; ok {
		sess = entry.session
		delete(st.sessions, token)
	}

	newToken := uuid.NewString()
	st.sessions[newToken] = &sessionEntry{session: sess, lastSeen: st.clk.Now()}
	return newToken, sess
}

// Delete removes a token and its session.
func (st *SessionStore) Delete(token string) {
	st.mu.Lock()
	defer st.mu.Unlock()
	delete(st.sessions, token)
}

// Len returns the number of live sessions, expiring idle ones first.
func (st *SessionStore) Len() int {
	st.mu.Lock()
	defer st.mu.Unlock()

	for token, entry := range st.sessions {
		if st.clk.Since(entry.lastSeen) > st.timeout {
			delete(st.sessions, token)
		}
	}
	return len(st.sessions)
}
