package blob

import (
	"bytes"
	"context"
	"io"
	"sync"

	"github.com/akarpovs/filedepot/internal/common"
)

// MemoryStore is an in-process Store for tests and the "memory" backend.
type MemoryStore struct {
	mu    sync.RWMutex
	blobs map[string][]byte

	// FailSave, when set, makes every Save return a storage fault.
	FailSave bool
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{blobs: make(map[string][]byte)}
}

func (s *MemoryStore) Save(_ context.Context, key string, data []byte) error {
	if s.FailSave {
		return common.NewStorage("blob_write_failed", nil)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := make([]byte, len(data))
	copy(cp, data)
	s.blobs[key] = cp
	return nil
}

func (s *MemoryStore) Open(_ context.Context, key string) (io.ReadCloser, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.blobs[key]
	if !ok {
		return nil, common.NewNotFound()
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

// Len reports the number of stored blobs.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.blobs)
}
