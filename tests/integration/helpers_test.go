//go:build integration

package integration

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/warroomhq/incident-command/internal/app"
	"github.com/warroomhq/incident-command/internal/config"
	"github.com/warroomhq/incident-command/internal/domain"
	"github.com/warroomhq/incident-command/internal/testutil"
)

const (
	adminEmail    = "admin@example.com"
	adminPassword = "admin12345"
	testPassword  = "password123"
)

// newServer starts an application backed by a file store in a temp
// directory and returns a client logged in as the bootstrap admin.
func newServer(t *testing.T) *testutil.Client {
	t.Helper()

	cfg := &config.Config{
		Server: config.ServerConfig{
			Host: "127.0.0.1",
			Port: "0",
		},
		Log: config.LogConfig{Level: "error", Format: "text"},
		Storage: config.StorageConfig{
			Backend: config.BackendFile,
			Dir:     t.TempDir(),
		},
		Auth: config.AuthConfig{
			JWTSecret:      "integration-test-secret",
			TokenDuration:  time.Hour,
			AdminEmail:     adminEmail,
			AdminPassword:  adminPassword,
			LoginRateLimit: 1000,
			LoginBurst:     1000,
		},
		CORS: config.CORSConfig{AllowedOrigins: []string{"*"}},
	}

	application, err := app.New(cfg)
	require.NoError(t, err)

	srv := httptest.NewServer(application.Router())
	t.Cleanup(srv.Close)

	client := testutil.NewClientWithValidator(srv.URL, apiValidator)
	client.SetT(t)
	client.LoginAs(t, adminEmail, adminPassword)
	return client
}

// registerAndLogin creates a user with the given role through the admin
// client and returns a client authenticated as that user.
func registerAndLogin(t *testing.T, admin *testutil.Client, email string, role domain.Role) *testutil.Client {
	t.Helper()

	resp, err := admin.POST("/api/v1/auth/register", map[string]string{
		"email":    email,
		"password": testPassword,
		"role":     string(role),
	})
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode, testutil.ReadBody(t, resp))

	client := admin.WithToken("")
	client.LoginAs(t, email, testPassword)
	return client
}

// decodeData unwraps the {"data": ...} envelope into v.
func decodeData(t *testing.T, resp *http.Response, v interface{}) {
	t.Helper()

	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	testutil.DecodeJSON(t, resp, &envelope)
	require.NoError(t, json.Unmarshal(envelope.Data, v))
}

// incidentPayload is the incident shape the API returns.
type incidentPayload struct {
	ID             string  `json:"id"`
	Category       string  `json:"category"`
	Priority       string  `json:"priority"`
	Status         string  `json:"status"`
	Warroom        string  `json:"warroom"`
	ImpactCategory string  `json:"impactCategory"`
	RequestorName  string  `json:"requestorName"`
	Summary        string  `json:"summary"`
	SME            string  `json:"sme"`
	ResolvedAt     *string `json:"resolvedAt"`
	Updates        []struct {
		User    string `json:"user"`
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"updates"`
	SLA *struct {
		Breached      bool `json:"breached"`
		CloseToBreach bool `json:"closeToBreach"`
	} `json:"sla"`
}

// createIncident reports a minimal incident and returns it.
func createIncident(t *testing.T, client *testutil.Client, summary string) incidentPayload {
	t.Helper()

	resp, err := client.POST("/api/v1/incidents", map[string]string{
		"summary":       summary,
		"requestorName": "Integration Tester",
		"channelType":   "Portal",
	})
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var inc incidentPayload
	decodeData(t, resp, &inc)
	return inc
}