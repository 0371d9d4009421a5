package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func exerciseStore(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	_, err := s.Load(ctx)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.Save(ctx, []byte("first")))
	require.NoError(t, s.Save(ctx, []byte("second")))

	data, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, []byte("second"), data)

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	assert.ErrorIs(t, s.Save(cancelled, []byte("x")), context.Canceled)
	_, err = s.Load(cancelled)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFileStore(t *testing.T) {
	s, err := NewFileStore(filepath.Join(t.TempDir(), "state", "learned.msgpack"))
	require.NoError(t, err)
	defer s.Close()
	exerciseStore(t, s)
}

func TestBadgerStoreInMemory(t *testing.T) {
	s, err := OpenBadger("", true)
	require.NoError(t, err)
	defer s.Close()
	exerciseStore(t, s)
}

func TestBadgerStorePersists(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	s, err := OpenBadger(dir, false)
	require.NoError(t, err)
	require.NoError(t, s.Save(ctx, []byte("kept")))
	require.NoError(t, s.Close())

	reopened, err := OpenBadger(dir, false)
	require.NoError(t, err)
	defer reopened.Close()
	data, err := reopened.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, []byte("kept"), data)
}

func TestOpen(t *testing.T) {
	tests := []struct {
		cfg     Config
		wantNil bool
		wantErr bool
		desc    string
	}{
		{Config{Backend: BackendNone}, true, false, "none"},
		{Config{}, true, false, "empty backend"},
		{Config{Backend: "FILE", Path: filepath.Join(t.TempDir(), "s.bin")}, false, false, "file, case-insensitive"},
		{Config{Backend: BackendFile}, true, true, "file without path"},
		{Config{Backend: BackendBadger, InMemory: true}, false, false, "badger in memory"},
		{Config{Backend: "redis"}, true, true, "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			s, err := Open(tt.cfg)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			if tt.wantNil {
				assert.Nil(t, s)
				return
			}
			require.NotNil(t, s)
			assert.NoError(t, s.Close())
		})
	}
}
