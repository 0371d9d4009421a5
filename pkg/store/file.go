package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/bastiangx/askserve/internal/utils"
	"github.com/charmbracelet/log"
)

// FileStore keeps the snapshot in a single file, replaced atomically on save.
type FileStore struct {
	path string
}

// NewFileStore returns a store writing to path. The file need not exist yet.
func NewFileStore(path string) (*FileStore, error) {
	if path == "" {
		return nil, errors.New("file store path is required")
	}
	return &FileStore{path: path}, nil
}

// Path returns the snapshot file location.
func (s *FileStore) Path() string {
	return s.path
}

// Load reads the snapshot file.
func (s *FileStore) Load(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", s.path, err)
	}
	return data, nil
}

// Save writes data to a temp file and renames it over the snapshot.
func (s *FileStore) Save(ctx context.Context, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := utils.WriteFileAtomic(s.path, data, 0644); err != nil {
		return fmt.Errorf("save learned state: %w", err)
	}
	log.Debugf("Saved learned state to %s (%d bytes)", s.path, len(data))
	return nil
}

// Close is a no-op.
func (s *FileStore) Close() error {
	return nil
}
