package identity

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/warroomhq/incident-command/internal/domain"
	"github.com/warroomhq/incident-command/internal/storage"
)

// SnapshotRepository keeps the user collection in memory and persists
// it as one JSON document, the same way the incident store works.
// Unlike incidents, a failed save on user creation is returned to the
// caller: losing an account is worse than losing a comment.
type SnapshotRepository struct {
	store storage.Store

	mu    sync.RWMutex
	users []*domain.User
}

// NewSnapshotRepository loads the stored user collection. A missing
// snapshot yields an empty repository.
func NewSnapshotRepository(ctx context.Context, store storage.Store) (*SnapshotRepository, error) {
	r := &SnapshotRepository{store: store}

	data, err := store.Load(ctx, storage.KeyUsers)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		r.users = []*domain.User{}
	case err != nil:
		return nil, fmt.Errorf("load users: %w", err)
	default:
		if err := json.Unmarshal(data, &r.users); err != nil {
			return nil, fmt.Errorf("decode user snapshot: %w", err)
		}
	}

	return r, nil
}

// CreateUser appends the user and persists the collection.
func (r *SnapshotRepository) CreateUser(ctx context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	next := make([]*domain.User, len(r.users), len(r.users)+1)
	copy(next, r.users)
	next = append(next, user)

	payload, err := json.Marshal(next)
	if err != nil {
		return fmt.Errorf("encode user snapshot: %w", err)
	}
	if err := r.store.Save(ctx, storage.KeyUsers, payload); err != nil {
		return fmt.Errorf("save user snapshot: %w", err)
	}

	r.users = next
	return nil
}

// GetUserByID returns the user with the given id.
func (r *SnapshotRepository) GetUserByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, ErrUserNotFound
}

// GetUserByEmail returns the user with the given email.
func (r *SnapshotRepository) GetUserByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, ErrUserNotFound
}

// CountUsers returns the number of stored users.
func (r *SnapshotRepository) CountUsers(_ context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.users), nil
}
