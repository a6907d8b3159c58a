package artifact

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// Store receives synthesized audio.
type Store interface {
	Put(ctx context.Context, filename string, data []byte) error
}

// DirStore writes artifacts into a directory, the media folder that notes
// reference by filename.
type DirStore struct {
	Dir string
}

// NewDirStore creates a store rooted at dir.
func NewDirStore(dir string) *DirStore {
	return &DirStore{Dir: dir}
}

// Put writes data to Dir/filename.
func (s *DirStore) Put(_ context.Context, filename string, data []byte) error {
	if filename != filepath.Base(filename) {
		return fmt.Errorf("invalid artifact filename: %s", filename)
	}
	if err := os.MkdirAll(s.Dir, 0755); err != nil {
		return fmt.Errorf("failed to create audio directory: %w", err)
	}

	path := s.Path(filename)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write audio file: %w", err)
	}
	return nil
}

// Path returns where filename lives.
func (s *DirStore) Path(filename string) string {
	return filepath.Join(s.Dir, filename)
}
