package auth

// Session tracks the authentication state of one user's interaction
// context. It is an explicit object owned by that context and must
// never be shared across users; the web console maps one browser
// session to one Session via the SessionStore.
//
// A Session starts Anonymous. Login moves it to Authenticated, Logout
// back to Anonymous. Sessions are not safe for concurrent use on their
// own; the SessionStore serializes access for the console.
type Session struct {
	authenticated bool
	username      string
}

// NewSession returns an anonymous session.
func NewSession() *Session {
	return &Session{}
}

// Authenticated reports whether the session has a logged-in user.
func (s *Session) Authenticated() bool {
	return s.authenticated
}

// Login marks the session as authenticated for the given username.
// Callers must have verified credentials first; Login performs no
// re-verification.
func (s *Session) Login(username string) {
	s.authenticated = true
	s.username = username
}

// Logout clears the session. Calling Logout on an anonymous session is
// a no-op.
func (s *Session) Logout() {
	s.authenticated = false
	s.username = ""
}

// CurrentUser returns the authenticated username. The second return is
// false while the session is anonymous; callers must check it before
// treating the name as a valid identity.
func (s *Session) CurrentUser() (string, bool) {
	if !s.authenticated {
		return "", false
	}
	return s.username, true
}
