package auth

import (
	"crypto/sha1"
	"crypto/subtle"
	"encoding/hex"
)

// HashPassword returns the deterministic hex digest of secret.
//
// The format is unsalted SHA-1 and is frozen: every stored credential uses
// it, and changing the function would invalidate them all without a
// migration path. Known weakness, kept for compatibility.
func HashPassword(secret string) string {
	sum := sha1.Sum([]byte(secret))
	return hex.EncodeToString(sum[:])
}

// VerifyPassword recomputes the digest of secret and compares it against
// the stored digest in constant form.
func VerifyPassword(secret, digest string) bool {
	return subtle.ConstantTimeCompare([]byte(HashPassword(secret)), []byte(digest)) == 1
}
