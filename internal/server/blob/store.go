// Package blob abstracts the binary payload store. Payloads are addressed
// by opaque keys generated at node creation; metadata lives elsewhere.
package blob

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
)

// Store saves and streams payload bytes by key. Opening an absent key
// yields a not-found error.
type Store interface {
	Save(ctx context.Context, key string, data []byte) error
	Open(ctx context.Context, key string) (io.ReadCloser, error)
}

// NewKey returns a fresh payload key. The date prefix keeps object listings
// browsable; uniqueness comes from the uuid.
func NewKey() string {
	d := time.Now()
	return fmt.Sprintf("%d/%02d/%02d/%s", d.Year(), d.Month(), d.Day(), uuid.New())
}
