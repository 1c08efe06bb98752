package domain

import "time"

// UpdateType classifies an entry in an incident's audit trail.
type UpdateType string

// Update types.
const (
	UpdateTypeStatusChange UpdateType = "status_change"
	UpdateTypeComment      UpdateType = "comment"
	UpdateTypeAssignment   UpdateType = "assignment"
	UpdateTypeCreation     UpdateType = "creation"
)

// Canonical status values. The status list itself is LOV-configurable;
// these constants cover the statuses the engine gives special meaning to.
const (
	StatusNew      = "New"
	StatusResolved = "Resolved"
	StatusClosed   = "Closed"
)

// Defaults applied on incident creation.
const (
	DefaultPriority       = "P4: Low"
	DefaultWarroom        = "Unassigned"
	DefaultImpactCategory = "Operation"
)

// IncidentUpdate is one immutable entry in an incident's audit trail.
type IncidentUpdate struct {
	Timestamp time.Time  `json:"timestamp"`
	User      string     `json:"user"`
	Message   string     `json:"message"`
	Type      UpdateType `json:"type"`
}

// Incident is one reported issue tracked through its lifecycle.
//
// JSON field names match the snapshot format the dashboard frontends
// persist, so existing saved data loads unchanged.
type Incident struct {
	ID string `json:"id"`

	// Classification
	Category       string `json:"category"`
	Priority       string `json:"priority"`
	Status         string `json:"status"`
	Warroom        string `json:"warroom"`
	ImpactCategory string `json:"impactCategory"`
	ImpactArea     string `json:"impactArea,omitempty"`

	// Requestor / store info
	RequestorName  string `json:"requestorName"`
	RequestorEmail string `json:"requestorEmail"`
	ChannelType    string `json:"channelType"`
	StoreName      string `json:"storeName"`
	StoreID        string `json:"storeId"`
	Region         string `json:"region"`
	AffectedUserID string `json:"affectedUserId"`

	// Content
	Summary     string `json:"summary"`
	Description string `json:"description"`
	Attachment  string `json:"attachment,omitempty"` // base64-encoded image payload

	// Resolution info
	SME       string `json:"sme"`
	FixType   string `json:"fixType"`
	RootCause string `json:"rootCause"`

	// Metadata. Timestamp is the creation time and is immutable.
	// ResolvedAt records the first transition into a terminal status
	// and is never overwritten afterwards.
	Timestamp  time.Time  `json:"timestamp"`
	UpdatedAt  time.Time  `json:"updatedAt"`
	ResolvedAt *time.Time `json:"resolvedAt,omitempty"`

	// Audit trail, append-only. The first entry is always of type
	// creation and is inserted at creation time.
	Updates []IncidentUpdate `json:"updates"`
}

// IsTerminal reports whether a status ends the incident lifecycle.
func IsTerminal(status string) bool {
	return status == StatusResolved || status == StatusClosed
}

// Clone returns a deep copy of the incident. The updates slice is
// copied so appending to the clone never aliases the original.
func (i *Incident) Clone() *Incident {
	c := *i
	if i.ResolvedAt != nil {
		t := *i.ResolvedAt
		c.ResolvedAt = &t
	}
	c.Updates = make([]IncidentUpdate, len(i.Updates))
	copy(c.Updates, i.Updates)
	return &c
}

// IncidentFilters is the ephemeral query state for listing incidents.
// Empty exact-match fields act as wildcards.
type IncidentFilters struct {
	Search         string
	Category       string
	Priority       string
	Status         string
	Warroom        string
	ImpactCategory string
	StatusGroup    StatusGroup
}
