package infrastructure

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"skullbot/domain/interfaces"
)

// FileSnapshotStore persists blobs as files under a data directory.
// Writes go through a temp file and rename so a crash mid-write never
// truncates the previous snapshot.
type FileSnapshotStore struct {
	dir string
}

// NewFileSnapshotStore creates the store, making the data directory if needed
func NewFileSnapshotStore(dir string) (*FileSnapshotStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	return &FileSnapshotStore{dir: dir}, nil
}

// Load returns the stored blob; ok is false when the key has never been saved
func (s *FileSnapshotStore) Load(key string) ([]byte, bool, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read snapshot %s: %w", key, err)
	}
	return data, true, nil
}

// Save writes the blob atomically
func (s *FileSnapshotStore) Save(key string, data []byte) error {
	path := filepath.Join(s.dir, key)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write snapshot %s: %w", key, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("failed to replace snapshot %s: %w", key, err)
	}
	return nil
}

var _ interfaces.SnapshotStore = (*FileSnapshotStore)(nil)
