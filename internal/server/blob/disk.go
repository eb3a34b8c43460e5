package blob

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/akarpovs/filedepot/internal/common"
)

// DiskStore keeps payloads as plain files under a root directory.
type DiskStore struct {
	dir string
}

// NewDiskStore creates the root directory if needed.
func NewDiskStore(dir string) (*DiskStore, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, common.NewStorage("blob_dir_create_failed", err)
	}
	return &DiskStore{dir: dir}, nil
}

func (s *DiskStore) path(key string) string {
	return filepath.Join(s.dir, filepath.FromSlash(key))
}

func (s *DiskStore) Save(_ context.Context, key string, data []byte) error {
	path := s.path(key)
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return common.NewStorage("blob_write_failed", err)
	}
	if err := os.WriteFile(path, data, 0o640); err != nil {
		return common.NewStorage("blob_write_failed", err)
	}
	return nil
}

func (s *DiskStore) Open(_ context.Context, key string) (io.ReadCloser, error) {
	f, err := os.Open(s.path(key))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, common.NewNotFound()
		}
		return nil, common.NewStorage("blob_read_failed", err)
	}
	return f, nil
}
