package domain

// KanbanColumnConfig maps a display column to a set of status values.
// Status sets need not be disjoint or exhaustive.
type KanbanColumnConfig struct {
	ID       string   `json:"id"`
	Title    string   `json:"title"`
	Statuses []string `json:"statuses"`
}

// LOVData holds the list-of-values registry: the configurable
// enumerations backing every dropdown field, plus the kanban column
// layout. Ordering of each list is significant for display.
type LOVData struct {
	Categories       []string             `json:"categories"`
	Priorities       []string             `json:"priorities"`
	Statuses         []string             `json:"statuses"`
	Warrooms         []string             `json:"warrooms"`
	ImpactCategories []string             `json:"impactCategories"`
	Channels         []string             `json:"channels"`
	Regions          []string             `json:"regions"`
	KanbanColumns    []KanbanColumnConfig `json:"kanbanColumns"`
}
