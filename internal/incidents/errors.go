package incidents

import "errors"

// Sentinel errors returned by the incident service.
var (
	// ErrIncidentNotFound is returned when an edit or delete targets an
	// unknown incident id.
	ErrIncidentNotFound = errors.New("incident not found")

	// ErrSummaryRequired is returned by Create when the summary is empty.
	ErrSummaryRequired = errors.New("summary is required")

	// ErrRequestorRequired is returned by Create when the requestor name
	// is empty.
	ErrRequestorRequired = errors.New("requestor name is required")

	// ErrInvalidStatusGroup is returned for an unknown status group
	// filter value.
	ErrInvalidStatusGroup = errors.New("invalid status group")
)
