// Package auth provides authentication for the SiteLens console.
//
// The package implements a pluggable credential-resolution system:
// credential stores can come from multiple sources, tried in priority
// order, by satisfying the Resolver interface. Verification uses a
// keyed HMAC-SHA256 digest with constant-time comparison.
package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// DefaultKey is the hashing key used when no key is configured.
//
// It exists only so a fresh checkout works without any configuration
// (the demo credential path). Production deployments must configure
// their own key; the Gate logs a warning whenever this fallback is in
// effect.
const DefaultKey = "insecure-demo-key"

// HashPassword computes the keyed digest of a plaintext password.
//
// The construction is HMAC-SHA256 with the configured secret key,
// encoded as lowercase hex (64 characters). It is deterministic: the
// same (password, key) pair always yields the same digest. This is a
// keyed hash, not a password-storage KDF; the secret key, not just the
// password, gates verification.
func HashPassword(password, key string) string {
	mac := hmac.New(sha256.New, []byte(key))
	mac.Write([]byte(password))
	return hex.EncodeToString(mac.Sum(nil))
}
