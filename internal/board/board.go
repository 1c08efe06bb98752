// Package board derives the kanban view from incidents and the column
// configuration, and applies drag moves as audited status edits.
package board

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/warroomhq/incident-command/internal/domain"
	"github.com/warroomhq/incident-command/internal/incidents"
	"github.com/warroomhq/incident-command/internal/lov"
	"github.com/warroomhq/incident-command/internal/pkg/metrics"
)

// UnmappedColumnID identifies the synthetic column collecting incidents
// whose status appears in no configured column.
const UnmappedColumnID = "col-unmapped"

// autoColumnPrefix prefixes the per-status columns generated when no
// columns are configured.
const autoColumnPrefix = "col-auto-"

// Sentinel errors returned by Move.
var (
	// ErrUnmappedColumnDrop rejects moves into the synthetic unmapped
	// column; it is a catch-all, not a valid target state.
	ErrUnmappedColumnDrop = errors.New("cannot move into the unmapped column")

	// ErrColumnNotFound is returned for an unknown target column id.
	ErrColumnNotFound = errors.New("column not found")

	// ErrEmptyColumn is returned when the target column has no statuses
	// to resolve a move against.
	ErrEmptyColumn = errors.New("column has no statuses configured")
)

// Column is one kanban column with its member incidents, newest first.
type Column struct {
	ID       string             `json:"id"`
	Title    string             `json:"title"`
	Items    []*domain.Incident `json:"items"`
	Unmapped bool               `json:"unmapped,omitempty"`
}

// MapColumns buckets incidents into the configured columns. Incidents
// whose status is in no column's set land in a synthetic non-droppable
// "Unmapped Statuses" column prepended to the board, unless suppressed.
// With zero configured columns the board falls back to one column per
// configured status; in that mode there is no unmapped concept.
func MapColumns(list []*domain.Incident, reg *lov.Registry, includeUnmapped bool) []Column {
	config := reg.Columns()

	if len(config) == 0 {
		columns := make([]Column, 0, len(reg.Statuses()))
		for _, status := range reg.Statuses() {
			columns = append(columns, Column{
				ID:    autoColumnPrefix + status,
				Title: status,
				Items: newestFirst(filterByStatus(list, map[string]bool{status: true})),
			})
		}
		return columns
	}

	mapped := make(map[string]bool)
	for _, col := range config {
		for _, s := range col.Statuses {
			mapped[s] = true
		}
	}

	columns := make([]Column, 0, len(config)+1)
	for _, col := range config {
		member := make(map[string]bool, len(col.Statuses))
		for _, s := range col.Statuses {
			member[s] = true
		}
		columns = append(columns, Column{
			ID:    col.ID,
			Title: col.Title,
			Items: newestFirst(filterByStatus(list, member)),
		})
	}

	var unmapped []*domain.Incident
	for _, inc := range list {
		if !mapped[inc.Status] {
			unmapped = append(unmapped, inc)
		}
	}
	if len(unmapped) > 0 && includeUnmapped {
		columns = append([]Column{{
			ID:       UnmappedColumnID,
			Title:    "Unmapped Statuses",
			Items:    newestFirst(unmapped),
			Unmapped: true,
		}}, columns...)
	}

	return columns
}

// Service applies board moves against the incident store.
type Service struct {
	incidents *incidents.Service
	lovs      *lov.Service
}

// NewService creates a new board service.
func NewService(incidentService *incidents.Service, lovService *lov.Service) *Service {
	return &Service{incidents: incidentService, lovs: lovService}
}

// Columns returns the current board.
func (s *Service) Columns(ctx context.Context, includeUnmapped bool) []Column {
	return MapColumns(s.incidents.All(ctx), s.lovs.Registry(), includeUnmapped)
}

// Move drops an incident onto a target column and resolves the
// resulting status: the column's first configured status unless the
// incident's current status is already a member, in which case the move
// is a no-op. A real move is applied as an audited status edit noting
// it came through the board.
func (s *Service) Move(ctx context.Context, incidentID, targetColumnID string, actor domain.Role) (*domain.Incident, error) {
	if targetColumnID == UnmappedColumnID {
		return nil, ErrUnmappedColumnDrop
	}

	inc, err := s.incidents.Get(ctx, incidentID)
	if err != nil {
		return nil, err
	}

	reg := s.lovs.Registry()
	newStatus, title, err := resolveTarget(reg, targetColumnID, inc.Status)
	if err != nil {
		return nil, err
	}
	if newStatus == inc.Status {
		return inc, nil
	}

	message := fmt.Sprintf("Moved to %s (Status: %s) via Kanban", title, newStatus)
	moved, err := s.incidents.MoveNote(ctx, incidentID, newStatus, message, actor)
	if err != nil {
		return nil, err
	}

	metrics.BoardMoves.Inc()
	return moved, nil
}

// resolveTarget returns the status a drop onto the column produces and
// the column title used in the audit note.
func resolveTarget(reg *lov.Registry, columnID, currentStatus string) (status, title string, err error) {
	for _, col := range reg.Columns() {
		if col.ID != columnID {
			continue
		}
		if len(col.Statuses) == 0 {
			return "", "", ErrEmptyColumn
		}
		for _, s := range col.Statuses {
			if s == currentStatus {
				return currentStatus, col.Title, nil
			}
		}
		return col.Statuses[0], col.Title, nil
	}

	// Auto-generated mode: the column id encodes the status directly.
	if len(reg.Columns()) == 0 {
		if len(columnID) > len(autoColumnPrefix) && columnID[:len(autoColumnPrefix)] == autoColumnPrefix {
			status := columnID[len(autoColumnPrefix):]
			for _, s := range reg.Statuses() {
				if s == status {
					return status, status, nil
				}
			}
		}
	}

	return "", "", ErrColumnNotFound
}

func filterByStatus(list []*domain.Incident, member map[string]bool) []*domain.Incident {
	out := make([]*domain.Incident, 0)
	for _, inc := range list {
		if member[inc.Status] {
			out = append(out, inc)
		}
	}
	return out
}

func newestFirst(list []*domain.Incident) []*domain.Incident {
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].Timestamp.After(list[j].Timestamp)
	})
	return list
}
