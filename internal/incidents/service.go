// Package incidents implements the incident store and the mutation,
// audit and query engine over it.
package incidents

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/warroomhq/incident-command/internal/domain"
	"github.com/warroomhq/incident-command/internal/lov"
	"github.com/warroomhq/incident-command/internal/pkg/metrics"
	"github.com/warroomhq/incident-command/internal/storage"
)

// Registry yields the current LOV registry for classification.
type Registry interface {
	Registry() *lov.Registry
}

// Service owns the incident collection: the single source of truth.
// Mutations replace the whole slice, a reader never observes a
// half-applied change, and every mutation is followed by a
// fire-and-forget snapshot flush.
type Service struct {
	store storage.Store
	lovs  Registry
	now   func() time.Time

	mu        sync.RWMutex
	incidents []*domain.Incident
}

// NewService loads the persisted incidents and returns a ready service.
// A missing snapshot starts empty; an unreadable one is an error since
// silently discarding incident history would be worse than refusing to
// start.
func NewService(ctx context.Context, store storage.Store, lovs Registry) (*Service, error) {
	s := &Service{
		store: store,
		lovs:  lovs,
		now:   func() time.Time { return time.Now().UTC() },
	}

	data, err := store.Load(ctx, storage.KeyIncidents)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		s.incidents = []*domain.Incident{}
	case err != nil:
		return nil, fmt.Errorf("load incidents: %w", err)
	default:
		if err := json.Unmarshal(data, &s.incidents); err != nil {
			return nil, fmt.Errorf("parse incident snapshot: %w", err)
		}
	}

	return s, nil
}

// CreateInput holds the requestor-supplied fields of a new incident.
// Classification fields the requestor cannot set (status, priority,
// warroom) are forced to canonical defaults.
type CreateInput struct {
	Category       string
	ImpactCategory string
	ImpactArea     string
	RequestorName  string
	RequestorEmail string
	ChannelType    string
	StoreName      string
	StoreID        string
	Region         string
	AffectedUserID string
	Summary        string
	Description    string
	Attachment     string
}

// Create validates the draft and adds a new incident to the store.
// Nothing is written when validation fails.
func (s *Service) Create(ctx context.Context, input CreateInput) (*domain.Incident, error) {
	if strings.TrimSpace(input.Summary) == "" {
		return nil, ErrSummaryRequired
	}
	if strings.TrimSpace(input.RequestorName) == "" {
		return nil, ErrRequestorRequired
	}

	now := s.now()
	impact := input.ImpactCategory
	if impact == "" {
		impact = domain.DefaultImpactCategory
	}

	inc := &domain.Incident{
		ID:             newIncidentID(),
		Category:       input.Category,
		Priority:       domain.DefaultPriority,
		Status:         domain.StatusNew,
		Warroom:        domain.DefaultWarroom,
		ImpactCategory: impact,
		ImpactArea:     input.ImpactArea,
		RequestorName:  input.RequestorName,
		RequestorEmail: input.RequestorEmail,
		ChannelType:    input.ChannelType,
		StoreName:      input.StoreName,
		StoreID:        input.StoreID,
		Region:         input.Region,
		AffectedUserID: input.AffectedUserID,
		Summary:        input.Summary,
		Description:    input.Description,
		Attachment:     input.Attachment,
		Timestamp:      now,
		UpdatedAt:      now,
		Updates: []domain.IncidentUpdate{{
			Timestamp: now,
			User:      domain.SystemAuthor,
			Message:   "Incident created via Portal",
			Type:      domain.UpdateTypeCreation,
		}},
	}

	s.mu.Lock()
	next := make([]*domain.Incident, 0, len(s.incidents)+1)
	next = append(next, inc)
	next = append(next, s.incidents...)
	s.incidents = next
	s.mu.Unlock()

	metrics.IncidentsCreated.WithLabelValues(orUnknown(input.ChannelType)).Inc()
	s.flush(ctx)
	return inc, nil
}

// EditInput is a field-level patch. Nil pointers leave the field
// untouched; identity, timestamps and the audit trail are never
// patchable.
type EditInput struct {
	Category       *string
	Priority       *string
	Status         *string
	Warroom        *string
	ImpactCategory *string
	ImpactArea     *string
	RequestorName  *string
	RequestorEmail *string
	ChannelType    *string
	StoreName      *string
	StoreID        *string
	Region         *string
	AffectedUserID *string
	Summary        *string
	Description    *string
	Attachment     *string
	SME            *string
	FixType        *string
	RootCause      *string
}

// ApplyEdit merges the patch over a copy of the stored incident,
// computes audit entries and replaces the stored record.
//
// One status_change entry is appended when any of status, priority,
// warroom or sme changed, listing each change as "Field: newValue". A
// non-empty comment appends one comment entry. UpdatedAt is always
// refreshed. ResolvedAt is set on the first transition into Resolved or
// Closed and never touched again: it records the first resolution time
// even if the status later moves away from terminal.
func (s *Service) ApplyEdit(ctx context.Context, id string, patch EditInput, comment string, actor domain.Role) (*domain.Incident, error) {
	return s.applyEdit(ctx, id, patch, comment, actor.AuditAuthor(), nil)
}

// applyEdit is the shared merge path. extraNote, when non-nil, replaces
// the computed status_change message (used by board moves).
func (s *Service) applyEdit(ctx context.Context, id string, patch EditInput, comment, author string, noteOverride *string) (*domain.Incident, error) {
	now := s.now()

	s.mu.Lock()
	idx := s.indexOf(id)
	if idx < 0 {
		s.mu.Unlock()
		return nil, ErrIncidentNotFound
	}

	original := s.incidents[idx]
	updated := original.Clone()
	applyPatch(updated, patch)
	updated.UpdatedAt = now

	changes := auditChanges(original, updated)
	if len(changes) > 0 {
		message := strings.Join(changes, ", ")
		if noteOverride != nil {
			message = *noteOverride
		}
		updated.Updates = append(updated.Updates, domain.IncidentUpdate{
			Timestamp: now,
			User:      author,
			Message:   message,
			Type:      domain.UpdateTypeStatusChange,
		})
	}

	if c := strings.TrimSpace(comment); c != "" {
		updated.Updates = append(updated.Updates, domain.IncidentUpdate{
			Timestamp: now,
			User:      author,
			Message:   c,
			Type:      domain.UpdateTypeComment,
		})
	}

	if domain.IsTerminal(updated.Status) && original.ResolvedAt == nil {
		t := now
		updated.ResolvedAt = &t
		metrics.IncidentsResolved.Inc()
	}

	next := make([]*domain.Incident, len(s.incidents))
	copy(next, s.incidents)
	next[idx] = updated
	s.incidents = next
	s.mu.Unlock()

	s.flush(ctx)
	return updated, nil
}

// Delete removes an incident from the store. Hard delete: the audit
// trail goes with it and the operation is irreversible.
func (s *Service) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	idx := s.indexOf(id)
	if idx < 0 {
		s.mu.Unlock()
		return ErrIncidentNotFound
	}

	next := make([]*domain.Incident, 0, len(s.incidents)-1)
	next = append(next, s.incidents[:idx]...)
	next = append(next, s.incidents[idx+1:]...)
	s.incidents = next
	s.mu.Unlock()

	s.flush(ctx)
	return nil
}

// DeleteAll empties the store.
func (s *Service) DeleteAll(ctx context.Context) {
	s.mu.Lock()
	s.incidents = []*domain.Incident{}
	s.mu.Unlock()

	s.flush(ctx)
}

// Get returns an incident by id.
func (s *Service) Get(_ context.Context, id string) (*domain.Incident, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if idx := s.indexOf(id); idx >= 0 {
		return s.incidents[idx], nil
	}
	return nil, ErrIncidentNotFound
}

// All returns the full collection in store order.
func (s *Service) All(_ context.Context) []*domain.Incident {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*domain.Incident, len(s.incidents))
	copy(out, s.incidents)
	return out
}

// List returns incidents matching the filters, newest first.
func (s *Service) List(ctx context.Context, filters domain.IncidentFilters) []*domain.Incident {
	return ApplyFilters(s.All(ctx), filters, s.lovs.Registry())
}

// Import prepends externally generated incidents (mock seed data) to
// the store.
func (s *Service) Import(ctx context.Context, generated []*domain.Incident) {
	s.mu.Lock()
	next := make([]*domain.Incident, 0, len(generated)+len(s.incidents))
	next = append(next, generated...)
	next = append(next, s.incidents...)
	s.incidents = next
	s.mu.Unlock()

	s.flush(ctx)
}

// MoveNote applies a board move: a status-only edit whose audit entry
// carries the board-authored message.
func (s *Service) MoveNote(ctx context.Context, id, newStatus, message string, actor domain.Role) (*domain.Incident, error) {
	return s.applyEdit(ctx, id, EditInput{Status: &newStatus}, "", actor.AuditAuthor(), &message)
}

// indexOf must be called with the lock held.
func (s *Service) indexOf(id string) int {
	for i, inc := range s.incidents {
		if inc.ID == id {
			return i
		}
	}
	return -1
}

// flush persists the whole collection. Failure is logged and counted;
// the in-memory mutation stands (persistence and mutation are not
// transactional here, by accepted risk).
func (s *Service) flush(ctx context.Context) {
	s.mu.RLock()
	payload, err := json.Marshal(s.incidents)
	s.mu.RUnlock()
	if err != nil {
		slog.Error("marshal incident snapshot", "error", err)
		metrics.SnapshotSaveFailures.WithLabelValues(storage.KeyIncidents).Inc()
		return
	}

	if err := s.store.Save(ctx, storage.KeyIncidents, payload); err != nil {
		slog.Error("save incident snapshot", "error", err)
		metrics.SnapshotSaveFailures.WithLabelValues(storage.KeyIncidents).Inc()
	}
}

func applyPatch(inc *domain.Incident, p EditInput) {
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	set(&inc.Category, p.Category)
	set(&inc.Priority, p.Priority)
	set(&inc.Status, p.Status)
	set(&inc.Warroom, p.Warroom)
	set(&inc.ImpactCategory, p.ImpactCategory)
	set(&inc.ImpactArea, p.ImpactArea)
	set(&inc.RequestorName, p.RequestorName)
	set(&inc.RequestorEmail, p.RequestorEmail)
	set(&inc.ChannelType, p.ChannelType)
	set(&inc.StoreName, p.StoreName)
	set(&inc.StoreID, p.StoreID)
	set(&inc.Region, p.Region)
	set(&inc.AffectedUserID, p.AffectedUserID)
	set(&inc.Summary, p.Summary)
	set(&inc.Description, p.Description)
	set(&inc.Attachment, p.Attachment)
	set(&inc.SME, p.SME)
	set(&inc.FixType, p.FixType)
	set(&inc.RootCause, p.RootCause)
}

// auditChanges lists the watched-field changes between the original and
// merged incident, in a fixed order.
func auditChanges(original, updated *domain.Incident) []string {
	var changes []string
	if updated.Status != original.Status {
		changes = append(changes, "Status: "+updated.Status)
	}
	if updated.Priority != original.Priority {
		changes = append(changes, "Priority: "+updated.Priority)
	}
	if updated.Warroom != original.Warroom {
		changes = append(changes, "Warroom: "+updated.Warroom)
	}
	if updated.SME != original.SME {
		changes = append(changes, "SME: "+updated.SME)
	}
	return changes
}

// newIncidentID returns an INC-prefixed id derived from a UUID.
func newIncidentID() string {
	raw := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
	return "INC-" + raw[:8]
}

func orUnknown(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}
