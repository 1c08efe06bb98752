package domain

// StatusGroup is a coarse bucket over the fine-grained status field.
type StatusGroup string

// Status groups.
const (
	StatusGroupActive   StatusGroup = "active"
	StatusGroupBAU      StatusGroup = "bau"
	StatusGroupResolved StatusGroup = "resolved"
	StatusGroupClosed   StatusGroup = "closed"
	// StatusGroupNone marks statuses outside every group. Such statuses
	// match no group filter and surface only via a direct status filter
	// or the kanban unmapped column.
	StatusGroupNone StatusGroup = ""
)

// Group membership is a fixed partition of the default status list.
// The four sets are mutually exclusive; custom statuses added through
// LOV settings fall into no group.
var (
	ActiveStatuses = []string{"New", "Acknowledged", "In Progress", "ReOpen", "Outage", "Need more info"}
	BAUStatuses    = []string{"Return to BAU", "Duplicate", "Invalid Issue", "Post Hypercare"}
)

// IsValid reports whether g names one of the four status groups.
func (g StatusGroup) IsValid() bool {
	switch g {
	case StatusGroupActive, StatusGroupBAU, StatusGroupResolved, StatusGroupClosed:
		return true
	}
	return false
}

// ClassifyStatus maps a status to its group, or StatusGroupNone when the
// status belongs to no group.
func ClassifyStatus(status string) StatusGroup {
	switch status {
	case StatusResolved:
		return StatusGroupResolved
	case StatusClosed:
		return StatusGroupClosed
	}
	for _, s := range ActiveStatuses {
		if s == status {
			return StatusGroupActive
		}
	}
	for _, s := range BAUStatuses {
		if s == status {
			return StatusGroupBAU
		}
	}
	return StatusGroupNone
}
