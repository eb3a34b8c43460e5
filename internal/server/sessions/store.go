// Package sessions implements the ephemeral token store binding opaque
// session tokens to user ids. It is a flat expiring key-value map: expiry is
// enforced natively by the underlying expirable LRU and is never refreshed
// on read.
package sessions

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/akarpovs/filedepot/internal/common"
)

// tokenBytes is the entropy of a session token; the issued token is its hex
// form, twice as long.
const tokenBytes = 16

// DefaultTTL is the fixed session lifetime.
const DefaultTTL = 24 * time.Hour

// Store maps opaque tokens to user ids with a per-entry TTL.
type Store struct {
	tokens *expirable.LRU[string, string]
}

// New creates a Store holding at most capacity live sessions, each expiring
// ttl after creation.
func New(capacity int, ttl time.Duration) *Store {
	return &Store{tokens: expirable.NewLRU[string, string](capacity, nil, ttl)}
}

// Create generates a fresh cryptographically-random token, binds it to
// userID, and returns it. Tokens never collide across concurrent creates.
func (s *Store) Create(userID string) (string, error) {
	token, err := common.MakeRandHexString(tokenBytes)
	if err != nil {
		return "", common.NewStorage("token_generation_failed", err)
	}
	s.tokens.Add(token, userID)
	return token, nil
}

// Resolve returns the user id bound to token, or ok=false when the token is
// unknown or expired. The TTL is not refreshed.
func (s *Store) Resolve(token string) (userID string, ok bool) {
	return s.tokens.Get(token)
}

// Revoke removes the binding for token. Revoking an absent token is not an
// error.
func (s *Store) Revoke(token string) {
	s.tokens.Remove(token)
}
