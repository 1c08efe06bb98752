package dashboard

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warroomhq/incident-command/internal/domain"
	"github.com/warroomhq/incident-command/internal/lov"
)

func incident(status, priority, warroom string) *domain.Incident {
	return &domain.Incident{
		ID:        "INC-1",
		Status:    status,
		Priority:  priority,
		Warroom:   warroom,
		Timestamp: time.Now(),
	}
}

func TestBuildSummary(t *testing.T) {
	reg := lov.NewRegistry(lov.Defaults())

	list := []*domain.Incident{
		incident("New", "P1: Critical", "Core"),
		incident("In Progress", "P2: High", "Core"),
		incident("Resolved", "P4: Low", "Core"),
		incident("Closed", "P4: Low", "Core"),
		incident("Duplicate", "P3: Medium", "Core"),
		incident("Return to BAU", "P4: Low", "Core"),
	}

	summary := BuildSummary(list, reg)
	assert.Equal(t, 6, summary.Total)
	require.Len(t, summary.Scorecards, 4)

	byGroup := make(map[domain.StatusGroup]Scorecard)
	for _, c := range summary.Scorecards {
		byGroup[c.Group] = c
	}

	active := byGroup[domain.StatusGroupActive]
	assert.Equal(t, "Active", active.Label)
	assert.Equal(t, 2, active.Total)
	assert.Equal(t, 1, active.Priorities["P1"])
	assert.Equal(t, 1, active.Priorities["P2"])
	assert.Equal(t, 0, active.Priorities["P4"])
	assert.Nil(t, active.Statuses)

	bau := byGroup[domain.StatusGroupBAU]
	assert.Equal(t, "BAU", bau.Label)
	assert.Equal(t, 2, bau.Total)
	assert.Equal(t, 1, bau.Statuses["Duplicate"])
	assert.Equal(t, 1, bau.Statuses["Return to BAU"])
	assert.Equal(t, 0, bau.Statuses["Invalid Issue"])

	assert.Equal(t, 1, byGroup[domain.StatusGroupResolved].Total)
	assert.Equal(t, 1, byGroup[domain.StatusGroupClosed].Total)
}

func TestBuildSummaryEmpty(t *testing.T) {
	summary := BuildSummary(nil, lov.NewRegistry(lov.Defaults()))
	assert.Equal(t, 0, summary.Total)
	require.Len(t, summary.Scorecards, 4)
	for _, c := range summary.Scorecards {
		assert.Equal(t, 0, c.Total)
	}
}

func TestBuildWarroomMatrix(t *testing.T) {
	reg := lov.NewRegistry(lov.Defaults())

	list := []*domain.Incident{
		incident("New", "P1: Critical", "Payments"),
		incident("Outage", "P1: Critical", "Payments"),
		incident("Acknowledged", "P3: Medium", "Payments"),
		incident("New", "P4: Low", "Logistics"),
		// Non-active incidents stay out of the matrix.
		incident("Resolved", "P1: Critical", "Payments"),
		incident("Closed", "P2: High", "Fulfilment"),
	}

	rows := BuildWarroomMatrix(list, reg)
	require.Len(t, rows, 2)

	assert.Equal(t, "Payments", rows[0].Warroom)
	assert.Equal(t, 3, rows[0].Total)
	assert.Equal(t, 2, rows[0].Priorities["P1"])
	assert.Equal(t, 1, rows[0].Priorities["P3"])

	assert.Equal(t, "Logistics", rows[1].Warroom)
	assert.Equal(t, 1, rows[1].Total)
}

func TestBuildWarroomMatrixTieBreak(t *testing.T) {
	reg := lov.NewRegistry(lov.Defaults())

	list := []*domain.Incident{
		incident("New", "P4: Low", "Zeta"),
		incident("New", "P4: Low", "Alpha"),
	}

	rows := BuildWarroomMatrix(list, reg)
	require.Len(t, rows, 2)
	assert.Equal(t, "Alpha", rows[0].Warroom)
	assert.Equal(t, "Zeta", rows[1].Warroom)
}
