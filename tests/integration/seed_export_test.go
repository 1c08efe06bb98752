//go:build integration

package integration

import (
	"encoding/csv"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warroomhq/incident-command/internal/domain"
	"github.com/warroomhq/incident-command/internal/testutil"
)

func TestSeedPopulatesStore(t *testing.T) {
	admin := newServer(t)

	resp, err := admin.POST("/api/v1/seed", map[string]int{"count": 25})
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var result map[string]int
	decodeData(t, resp, &result)
	assert.Equal(t, 25, result["seeded"])

	resp, err = admin.GET("/api/v1/incidents")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var list []incidentPayload
	decodeData(t, resp, &list)
	assert.Len(t, list, 25)

	// Seeded data feeds the dashboard.
	resp, err = admin.GET("/api/v1/dashboard/summary")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var summary dashboardSummary
	decodeData(t, resp, &summary)
	assert.Equal(t, 25, summary.Total)
}

func TestSeedRequiresAdmin(t *testing.T) {
	admin := newServer(t)
	warroom := registerAndLogin(t, admin, "wr@example.com", domain.RoleWarroom)

	resp, err := warroom.POST("/api/v1/seed", map[string]int{"count": 5})
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	_ = resp.Body.Close()
}

func TestSeedRejectsOversizedCount(t *testing.T) {
	admin := newServer(t)

	resp, err := admin.POST("/api/v1/seed", map[string]int{"count": 501})
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	_ = resp.Body.Close()
}

func TestExportCSV(t *testing.T) {
	admin := newServer(t)

	first := createIncident(t, admin, "Delivery slot, missing")
	createIncident(t, admin, "Receipt printer jam")

	resp, err := admin.GET("/api/v1/incidents/export")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/csv; charset=utf-8", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "attachment")

	body := testutil.ReadBody(t, resp)
	records, err := csv.NewReader(strings.NewReader(body)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, "ID", records[0][0])
	assert.Equal(t, "Resolved At", records[0][11])

	// Newest first, and the embedded comma survives quoting.
	assert.Equal(t, "Receipt printer jam", records[1][6])
	assert.Equal(t, "Delivery slot, missing", records[2][6])
	assert.Equal(t, first.ID, records[2][0])
}

func TestExportHonorsFilters(t *testing.T) {
	admin := newServer(t)
	warroom := registerAndLogin(t, admin, "wr@example.com", domain.RoleWarroom)

	inc := createIncident(t, admin, "Stock level negative")
	createIncident(t, admin, "Gift card balance wrong")

	resp, err := warroom.PATCH("/api/v1/incidents/"+inc.ID, map[string]string{
		"status": "Resolved",
	})
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	_ = resp.Body.Close()

	resp, err = admin.GET("/api/v1/incidents/export?statusGroup=resolved")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := testutil.ReadBody(t, resp)
	records, err := csv.NewReader(strings.NewReader(body)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, inc.ID, records[1][0])
}