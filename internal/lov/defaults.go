package lov

import "github.com/warroomhq/incident-command/internal/domain"

// Defaults returns the built-in list-of-values registry. Stored LOV data
// is merged over these so a fresh install (or data saved by an older
// version) always has every field populated.
func Defaults() domain.LOVData {
	return domain.LOVData{
		Categories: []string{
			"Login", "Onboarding", "Order Management", "Inventory Management",
			"SFA", "Reporting/Batch", "Sell Through", "Infra / 3PP",
			"Migration", "Sell In", "Activation", "Channel", "Requirement Gap",
		},
		Priorities: []string{
			"P1: Critical", "P2: High", "P3: Medium", "P4: Low",
		},
		Statuses: []string{
			"New", "Acknowledged", "In Progress", "Resolved", "Closed",
			"ReOpen", "Return to BAU", "Outage", "Duplicate",
			"Invalid Issue", "Post Hypercare", "Need more info",
		},
		Warrooms: []string{
			"Onboarding", "Order Management", "SFA", "Migration",
			"Infra", "Reporting/Batch", "3PPs/Integration",
		},
		ImpactCategories: []string{
			"Customer", "Revenue", "Operation", "Finance", "Batch",
		},
		Channels: []string{
			"Email", "Phone", "Slack", "Portal", "Automated Alert",
		},
		Regions: []string{
			"North America", "EMEA", "APAC", "LATAM",
		},
		KanbanColumns: []domain.KanbanColumnConfig{
			{
				ID:       "col-new",
				Title:    "New / Triage",
				Statuses: []string{"New", "ReOpen", "Need more info", "Outage"},
			},
			{
				ID:       "col-assigned",
				Title:    "Assigned",
				Statuses: []string{"Acknowledged"},
			},
			{
				ID:       "col-progress",
				Title:    "In Progress",
				Statuses: []string{"In Progress"},
			},
			{
				ID:       "col-done",
				Title:    "Done",
				Statuses: []string{"Resolved", "Closed", "Return to BAU", "Duplicate", "Invalid Issue", "Post Hypercare"},
			},
		},
	}
}

// mergeWithDefaults fills missing fields of stored LOV data from the
// defaults, field by field. A field absent from the stored document
// (nil slice) falls back to the default; an explicitly emptied list is
// kept, except kanban columns where an empty board is never useful and
// always falls back.
func mergeWithDefaults(stored domain.LOVData) domain.LOVData {
	defaults := Defaults()

	if stored.Categories == nil {
		stored.Categories = defaults.Categories
	}
	if stored.Priorities == nil {
		stored.Priorities = defaults.Priorities
	}
	if stored.Statuses == nil {
		stored.Statuses = defaults.Statuses
	}
	if stored.Warrooms == nil {
		stored.Warrooms = defaults.Warrooms
	}
	if stored.ImpactCategories == nil {
		stored.ImpactCategories = defaults.ImpactCategories
	}
	if stored.Channels == nil {
		stored.Channels = defaults.Channels
	}
	if stored.Regions == nil {
		stored.Regions = defaults.Regions
	}
	if len(stored.KanbanColumns) == 0 {
		stored.KanbanColumns = defaults.KanbanColumns
	}

	return stored
}
