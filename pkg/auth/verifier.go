package auth

import (
	"crypto/subtle"
)

// Verify checks a submitted (username, password) pair against a
// resolved credential store.
//
// The digest of the submitted password is always computed before the
// username lookup so that unknown usernames cost roughly the same as
// known usernames with a wrong password. The digest comparison uses
// constant-time comparison to prevent timing attacks.
//
// Returns true only on an exact digest match. Unknown usernames return
// false, never an error.
func Verify(username, password string, store Store, key string) bool {
	submitted := HashPassword(password, key)

	stored, ok := store[username]
	if !ok {
		// Burn a comparison against the submitted digest itself so the
		// absent-user path does comparable work, then fail.
		subtle.ConstantTimeCompare([]byte(submitted), []byte(submitted))
		return false
	}

	return subtle.ConstantTimeCompare([]byte(submitted), []byte(stored)) == 1
}
