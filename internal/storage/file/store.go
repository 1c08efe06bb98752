// Package file implements the snapshot store on top of a local directory,
// one JSON file per key. This is the default backend and mirrors the
// browser local storage the dashboard originally persisted to.
package file

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/warroomhq/incident-command/internal/storage"
)

// Store persists snapshots as files under a base directory.
type Store struct {
	dir string
}

// New creates a file store rooted at dir, creating it if needed.
func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create storage dir: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Load reads the document stored under key.
func (s *Store) Load(_ context.Context, key string) ([]byte, error) {
	data, err := os.ReadFile(s.path(key))
	if os.IsNotExist(err) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read snapshot %s: %w", key, err)
	}
	return data, nil
}

// Save replaces the document stored under key. The write goes through a
// temp file and rename so a crash mid-write never leaves a torn snapshot.
func (s *Store) Save(_ context.Context, key string, data []byte) error {
	tmp, err := os.CreateTemp(s.dir, key+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp snapshot: %w", err)
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write snapshot %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close snapshot %s: %w", key, err)
	}

	if err := os.Rename(tmp.Name(), s.path(key)); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("rename snapshot %s: %w", key, err)
	}
	return nil
}

// Close implements storage.Store; the file store holds no resources.
func (s *Store) Close() error {
	return nil
}

func (s *Store) path(key string) string {
	return filepath.Join(s.dir, key+".json")
}
