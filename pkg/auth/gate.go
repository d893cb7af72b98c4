package auth

import (
	"errors"
	"fmt"
	"log/slog"
)

// Submission carries one login form submission. At most one submission
// is processed per gate invocation.
type Submission struct {
	Username string
	Password string
}

// Gate is the single checkpoint protected functionality passes through.
//
// The hosting console re-renders the whole page on every interaction,
// so the gate is invoked once per render cycle: it either admits the
// caller immediately or consumes the cycle driving the login flow.
//
// A Gate holds no per-cycle state and is safe for concurrent use; all
// per-cycle outcomes are carried in RequireAuth's return values.
type Gate struct {
	resolver Resolver
	key      string
	logger   *slog.Logger
}

// NewGate creates an auth gate over the given credential source chain.
//
// An empty key degrades to DefaultKey so the demo path keeps working;
// the degradation is logged as a warning because it means production
// credentials are not configured.
func NewGate(resolver Resolver, key string, logger *slog.Logger) *Gate {
	if logger == nil {
		logger = slog.Default()
	}
	if key == "" {
		key = DefaultKey
		logger.Warn("no auth secret key configured, falling back to the built-in demo key")
	}
	return &Gate{
		resolver: resolver,
		key:      key,
		logger:   logger,
	}
}

// RequireAuth decides whether the caller's protected functionality may
// run during this cycle.
//
// Authenticated sessions are admitted immediately with no side effects.
// Anonymous sessions are not admitted; if sub is non-nil the submission
// is verified and, on success, the session transitions to authenticated
// for the NEXT cycle. The cycle that processes a fresh login always
// returns false: the caller re-enters and re-checks on the following
// render.
//
// Verification failures are indistinguishable to the caller: no
// username-vs-password signal, no session mutation. A credential-source
// fault fails closed and is reported through the error return, scoped
// to this call alone.
func (g *Gate) RequireAuth(sess *Session, sub *Submission) (bool, error) {
	if sess.Authenticated() {
		return true, nil
	}

	if sub == nil {
		return false, nil
	}

	store, ok, err := g.resolver.Resolve()
	if err != nil {
		g.logger.Error("credential store resolution failed", slog.String("error", err.Error()))
		return false, fmt.Errorf("credential store resolution failed: %w", err)
	}
	if !ok {
		// The chain ends in the demo resolver, so an absent store means
		// the chain was built without it. Treat as unavailable.
		g.logger.Error("no credential source present")
		return false, errors.New("no credential source present")
	}

	if Verify(sub.Username, sub.Password, store, g.key) {
		sess.Login(sub.Username)
		g.logger.Info("login succeeded", slog.String("user", sub.Username))
	} else {
		g.logger.Info("login failed")
	}
	return false, nil
}

// UsingDefaultKey reports whether the gate is running on the built-in
// demo key rather than a configured secret.
func (g *Gate) UsingDefaultKey() bool {
	return g.key == DefaultKey
}

// DemoOnly reports whether the gate's credential chain currently
// resolves to the built-in demo entry, so the console can surface the
// trial credentials.
func (g *Gate) DemoOnly() bool {
	store, ok, err := g.resolver.Resolve()
	if err != nil || !ok {
		return false
	}
	_, hasDemo := store[DemoUser]
	return len(store) == 1 && hasDemo && store[DemoUser] == demoDigest
}
