//go:build integration

package integration

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warroomhq/incident-command/internal/domain"
)

type scorecard struct {
	Group      string         `json:"group"`
	Label      string         `json:"label"`
	Total      int            `json:"total"`
	Priorities map[string]int `json:"priorities"`
	Statuses   map[string]int `json:"statuses"`
}

type dashboardSummary struct {
	Total      int         `json:"total"`
	Scorecards []scorecard `json:"scorecards"`
}

func TestDashboardSummary(t *testing.T) {
	admin := newServer(t)
	warroom := registerAndLogin(t, admin, "wr@example.com", domain.RoleWarroom)

	first := createIncident(t, admin, "Warehouse scanner outage")
	createIncident(t, admin, "Email delivery delayed")

	resp, err := warroom.PATCH("/api/v1/incidents/"+first.ID, map[string]string{
		"status":   "Resolved",
		"priority": "P1: Critical",
	})
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	_ = resp.Body.Close()

	resp, err = admin.GET("/api/v1/dashboard/summary")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var summary dashboardSummary
	decodeData(t, resp, &summary)

	assert.Equal(t, 2, summary.Total)
	require.Len(t, summary.Scorecards, 4)

	byGroup := map[string]scorecard{}
	for _, sc := range summary.Scorecards {
		byGroup[sc.Group] = sc
	}

	assert.Equal(t, 1, byGroup["active"].Total)
	assert.Equal(t, 1, byGroup["active"].Priorities["P4"])
	assert.Equal(t, 1, byGroup["resolved"].Total)
	assert.Equal(t, 1, byGroup["resolved"].Priorities["P1"])
	assert.Equal(t, 0, byGroup["closed"].Total)
	assert.Equal(t, "BAU", byGroup["bau"].Label)
}

func TestDashboardWarrooms(t *testing.T) {
	admin := newServer(t)
	warroom := registerAndLogin(t, admin, "wr@example.com", domain.RoleWarroom)

	inc := createIncident(t, admin, "Order export failing")
	createIncident(t, admin, "Mobile app crash on launch")

	resp, err := warroom.PATCH("/api/v1/incidents/"+inc.ID, map[string]string{
		"warroom": "Infra",
	})
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	_ = resp.Body.Close()

	resp, err = admin.GET("/api/v1/dashboard/warrooms")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var loads []struct {
		Warroom    string         `json:"warroom"`
		Total      int            `json:"total"`
		Priorities map[string]int `json:"priorities"`
	}
	decodeData(t, resp, &loads)

	require.Len(t, loads, 2)
	totals := map[string]int{}
	for _, l := range loads {
		totals[l.Warroom] = l.Total
	}
	assert.Equal(t, 1, totals["Infra"])
	assert.Equal(t, 1, totals["Unassigned"])
}