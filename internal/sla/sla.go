// Package sla computes response-time deadlines from incident priority.
package sla

import (
	"strings"
	"time"

	"github.com/warroomhq/incident-command/internal/domain"
)

// closeToBreachWindow is how far from the deadline an incident is
// flagged as close to breach.
const closeToBreachWindow = time.Hour

// Hours returns the SLA window for a priority label. Matching is by
// substring on the leading token, so a bare "P1" filter value and a
// stored "P1: Critical" both qualify.
func Hours(priority string) time.Duration {
	switch {
	case strings.Contains(priority, "P1"):
		return 2 * time.Hour
	case strings.Contains(priority, "P2"):
		return 4 * time.Hour
	case strings.Contains(priority, "P3"):
		return 12 * time.Hour
	default:
		return 24 * time.Hour
	}
}

// Status describes where an incident stands against its SLA window.
type Status struct {
	Deadline      time.Time     `json:"deadline"`
	Remaining     time.Duration `json:"-"`
	Breached      bool          `json:"breached"`
	CloseToBreach bool          `json:"closeToBreach"`
	// Overrun is the positive magnitude by which the deadline was
	// missed; zero unless Breached.
	Overrun time.Duration `json:"-"`

	// Display fields for API consumers.
	RemainingSeconds int64 `json:"remainingSeconds"`
	OverrunSeconds   int64 `json:"overrunSeconds,omitempty"`
}

// Evaluate returns the SLA status of an incident at the given instant,
// or nil when the incident is in a terminal status: SLA is undefined for
// resolved and closed incidents.
func Evaluate(inc *domain.Incident, now time.Time) *Status {
	if domain.IsTerminal(inc.Status) {
		return nil
	}

	deadline := inc.Timestamp.Add(Hours(inc.Priority))
	remaining := deadline.Sub(now)

	st := &Status{
		Deadline:         deadline,
		Remaining:        remaining,
		RemainingSeconds: int64(remaining.Seconds()),
	}

	if remaining < 0 {
		st.Breached = true
		st.Overrun = -remaining
		st.OverrunSeconds = int64(st.Overrun.Seconds())
		return st
	}

	st.CloseToBreach = remaining < closeToBreachWindow
	return st
}
