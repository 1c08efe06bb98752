// Package lov manages the list-of-values registry: the configurable
// enumerations backing incident classification fields and the kanban
// column layout.
package lov

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/warroomhq/incident-command/internal/domain"
	"github.com/warroomhq/incident-command/internal/pkg/metrics"
	"github.com/warroomhq/incident-command/internal/storage"
)

// Service owns the current LOV data. The merged registry is held in
// memory and flushed to the snapshot store after every update; a failed
// flush keeps the in-memory change.
type Service struct {
	store storage.Store

	mu       sync.RWMutex
	current  domain.LOVData
	registry *Registry
}

// NewService loads stored LOV data, merges it over the defaults and
// returns a ready service. Missing or unreadable stored data falls back
// to the defaults.
func NewService(ctx context.Context, store storage.Store) (*Service, error) {
	s := &Service{store: store}

	data, err := store.Load(ctx, storage.KeyLOVs)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		s.current = Defaults()
	case err != nil:
		return nil, fmt.Errorf("load lovs: %w", err)
	default:
		var stored domain.LOVData
		if err := json.Unmarshal(data, &stored); err != nil {
			slog.Warn("stored lov data unreadable, using defaults", "error", err)
			s.current = Defaults()
		} else {
			s.current = mergeWithDefaults(stored)
		}
	}

	s.registry = NewRegistry(s.current)
	return s, nil
}

// Get returns the current LOV data.
func (s *Service) Get(_ context.Context) domain.LOVData {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Registry returns the current registry snapshot.
func (s *Service) Registry() *Registry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.registry
}

// Update replaces the LOV data. Missing fields are default-filled before
// the replacement so the registry is never left without a populated
// field. The result is persisted fire-and-forget.
func (s *Service) Update(ctx context.Context, data domain.LOVData) domain.LOVData {
	merged := mergeWithDefaults(data)

	s.mu.Lock()
	s.current = merged
	s.registry = NewRegistry(merged)
	s.mu.Unlock()

	s.flush(ctx, merged)
	return merged
}

func (s *Service) flush(ctx context.Context, data domain.LOVData) {
	payload, err := json.Marshal(data)
	if err != nil {
		slog.Error("marshal lov snapshot", "error", err)
		metrics.SnapshotSaveFailures.WithLabelValues(storage.KeyLOVs).Inc()
		return
	}
	if err := s.store.Save(ctx, storage.KeyLOVs, payload); err != nil {
		slog.Error("save lov snapshot", "error", err)
		metrics.SnapshotSaveFailures.WithLabelValues(storage.KeyLOVs).Inc()
	}
}
