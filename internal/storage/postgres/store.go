// Package postgres implements the snapshot store on a single
// snapshots(key, data, updated_at) table. Each Save is a whole-document
// upsert, preserving the replace-the-collection persistence model.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/warroomhq/incident-command/internal/storage"
)

// Store persists snapshots in PostgreSQL.
type Store struct {
	db *pgxpool.Pool
}

// NewStore creates a postgres-backed snapshot store.
func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

// Load returns the document stored under key.
func (s *Store) Load(ctx context.Context, key string) ([]byte, error) {
	var data []byte
	err := s.db.QueryRow(ctx,
		`SELECT data FROM snapshots WHERE key = $1`, key,
	).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load snapshot %s: %w", key, err)
	}
	return data, nil
}

// Save replaces the document stored under key.
func (s *Store) Save(ctx context.Context, key string, data []byte) error {
	_, err := s.db.Exec(ctx,
		`INSERT INTO snapshots (key, data, updated_at)
		 VALUES ($1, $2, now())
		 ON CONFLICT (key) DO UPDATE SET data = EXCLUDED.data, updated_at = now()`,
		key, data,
	)
	if err != nil {
		return fmt.Errorf("save snapshot %s: %w", key, err)
	}
	return nil
}

// Close releases the underlying connection pool.
func (s *Store) Close() error {
	s.db.Close()
	return nil
}
