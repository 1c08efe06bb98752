package lov

import "github.com/warroomhq/incident-command/internal/domain"

// Registry is an immutable view of the LOV data with the status→group
// classification computed once up front, so filter passes do a map
// lookup instead of re-scanning the membership lists.
type Registry struct {
	data   domain.LOVData
	groups map[string]domain.StatusGroup
}

// NewRegistry builds a registry from LOV data.
func NewRegistry(data domain.LOVData) *Registry {
	groups := make(map[string]domain.StatusGroup, len(data.Statuses))
	for _, s := range data.Statuses {
		groups[s] = domain.ClassifyStatus(s)
	}
	return &Registry{data: data, groups: groups}
}

// Data returns the LOV data backing the registry.
func (r *Registry) Data() domain.LOVData {
	return r.data
}

// Classify returns the status group for a status. Statuses missing from
// the configured list still classify by the fixed partitions, so an
// incident keeps its group even if its status was removed from settings.
func (r *Registry) Classify(status string) domain.StatusGroup {
	if g, ok := r.groups[status]; ok {
		return g
	}
	return domain.ClassifyStatus(status)
}

// InGroup reports whether a status belongs to the given group.
func (r *Registry) InGroup(status string, group domain.StatusGroup) bool {
	return r.Classify(status) == group
}

// Columns returns the configured kanban columns.
func (r *Registry) Columns() []domain.KanbanColumnConfig {
	return r.data.KanbanColumns
}

// Statuses returns the configured status list.
func (r *Registry) Statuses() []string {
	return r.data.Statuses
}

// Warrooms returns the configured warroom list.
func (r *Registry) Warrooms() []string {
	return r.data.Warrooms
}
