// Package store persists the encoded learned-state snapshot between runs.
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound is returned by Load when nothing has been saved yet.
var ErrNotFound = errors.New("no learned state stored")

// Store saves and loads one opaque snapshot blob.
type Store interface {
	Load(ctx context.Context) ([]byte, error)
	Save(ctx context.Context, data []byte) error
	Close() error
}

// Backend names a Store implementation.
type Backend string

const (
	BackendNone   Backend = "none"
	BackendFile   Backend = "file"
	BackendBadger Backend = "badger"
)

// Config selects and configures a backend.
type Config struct {
	Backend Backend
	// Path is the snapshot file for the file backend and the database directory for badger.
	Path string
	// InMemory keeps a badger database in memory only.
	InMemory bool
}

// Open creates the configured store. BackendNone returns a nil Store and no error.
func Open(cfg Config) (Store, error) {
	switch Backend(strings.ToLower(string(cfg.Backend))) {
	case BackendNone, "":
		return nil, nil
	case BackendFile:
		s, err := NewFileStore(cfg.Path)
		if err != nil {
			return nil, err
		}
		return s, nil
	case BackendBadger:
		s, err := OpenBadger(cfg.Path, cfg.InMemory)
		if err != nil {
			return nil, err
		}
		return s, nil
	}
	return nil, fmt.Errorf("unknown store backend %q", cfg.Backend)
}
