package auth

import (
	"strings"
)

// Store maps usernames to password digests.
//
// A Store is resolved fresh from configuration on each resolution call
// and is read-only afterwards: the verifier never mutates it.
type Store map[string]string

// DemoUser is the built-in trial account available when no credential
// source is configured. Its password is "demo123".
const DemoUser = "demo"

// demoDigest is HashPassword("demo123", DefaultKey).
const demoDigest = "1c20198657fd1935d596538a7a2b5b51a8334339e7e2bdddaf774e45ad709e73"

// Resolver produces a credential store from one backing source.
// Implementations should be safe for concurrent use.
type Resolver interface {
	// Resolve attempts to produce a credential store.
	//
	// Returns:
	//   - (store, true, nil): the source is present and yielded entries
	//   - (nil, false, nil): the source is not configured
	//   - (nil, false, error): the source exists but could not be read
	Resolve() (Store, bool, error)
}

// ResolverFunc is an adapter to allow plain functions to be used as Resolvers.
type ResolverFunc func() (Store, bool, error)

// Resolve implements Resolver.
func (f ResolverFunc) Resolve() (Store, bool, error) {
	return f()
}

// StaticResolver serves a structured username->digest table, typically
// loaded from the config file or a mounted secret.
type StaticResolver struct {
	users map[string]string
}

// NewStaticResolver creates a resolver over a fixed table. The table is
// copied to prevent mutation.
func NewStaticResolver(users map[string]string) *StaticResolver {
	usersCopy := make(map[string]string, len(users))
	for name, digest := range users {
		usersCopy[name] = digest
	}
	return &StaticResolver{users: usersCopy}
}

// Resolve implements Resolver. An empty table reports not-present so
// the chain can fall through to the next source.
func (r *StaticResolver) Resolve() (Store, bool, error) {
	if len(r.users) == 0 {
		return nil, false, nil
	}
	store := make(Store, len(r.users))
	for name, digest := range r.users {
		store[name] = digest
	}
	return store, true, nil
}

// DelimitedResolver parses a single delimited string of the form
// "user1:hash1,user2:hash2,...", as carried in an environment variable.
type DelimitedResolver struct {
	raw string
}

// NewDelimitedResolver creates a resolver over a delimited credential string.
func NewDelimitedResolver(raw string) *DelimitedResolver {
	return &DelimitedResolver{raw: raw}
}

// Resolve implements Resolver.
//
// Entries without a colon are skipped rather than failing the whole
// source: one malformed entry must not block the remaining ones. The
// source reports not-present when the string is empty or no valid
// entry survives parsing.
func (r *DelimitedResolver) Resolve() (Store, bool, error) {
	if strings.TrimSpace(r.raw) == "" {
		return nil, false, nil
	}

	store := make(Store)
	for _, entry := range strings.Split(r.raw, ",") {
		username, digest, ok := strings.Cut(entry, ":")
		if !ok {
			continue
		}
		username = strings.TrimSpace(username)
		digest = strings.TrimSpace(digest)
		if username == "" || digest == "" {
			continue
		}
		store[username] = digest
	}

	if len(store) == 0 {
		return nil, false, nil
	}
	return store, true, nil
}

// DemoResolver serves the built-in demo entry. It is always present and
// belongs at the end of a chain to keep zero-config trial use working.
type DemoResolver struct{}

// Resolve implements Resolver.
func (DemoResolver) Resolve() (Store, bool, error) {
	return Store{DemoUser: demoDigest}, true, nil
}

// ChainResolver tries multiple resolvers in sequence.
// The first resolver whose source is present wins entirely: sources are
// never merged entry-by-entry. If a resolver returns an error, the
// chain stops and returns that error.
type ChainResolver struct {
	resolvers []Resolver
}

// NewChainResolver creates a new chain resolver.
// Resolvers are tried in the order provided.
//
// The chain follows these rules:
//  1. If a resolver returns (store, true, nil), resolution succeeds
//  2. If a resolver returns (nil, false, error), resolution fails with that error
//  3. If a resolver returns (nil, false, nil), try the next resolver
//  4. If all resolvers return (nil, false, nil), no source is configured
func NewChainResolver(resolvers ...Resolver) *ChainResolver {
	// Copy to prevent mutation
	resolversCopy := make([]Resolver, len(resolvers))
	copy(resolversCopy, resolvers)

	return &ChainResolver{resolvers: resolversCopy}
}

// Resolve implements Resolver.
func (c *ChainResolver) Resolve() (Store, bool, error) {
	for _, r := range c.resolvers {
		store, ok, err := r.Resolve()
		if err != nil {
			// Source exists but is unreadable; fail closed upstream
			return nil, false, err
		}
		if ok {
			return store, true, nil
		}
		// Source not configured, try next
	}

	// No source present
	return nil, false, nil
}

// DefaultChain is the standard source precedence: the structured table
// wins outright when present, then the delimited string, then the
// built-in demo entry.
func DefaultChain(users map[string]string, delimited string) *ChainResolver {
	return NewChainResolver(
		NewStaticResolver(users),
		NewDelimitedResolver(delimited),
		DemoResolver{},
	)
}
