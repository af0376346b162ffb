package web

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Blackwork-AI/Blackwork-Dashboard/internal/config"
	"github.com/Blackwork-AI/Blackwork-Dashboard/internal/db/dbtest"
	"github.com/Blackwork-AI/Blackwork-Dashboard/internal/db/models"
	"github.com/Blackwork-AI/Blackwork-Dashboard/internal/web/session"
	"github.com/Blackwork-AI/Blackwork-Dashboard/internal/web/webtest"
)

func newService(t *testing.T) *Service {
	t.Helper()

	session.Init(nil)

	db := dbtest.Open(t,
		&models.User{},
		&models.Profile{},
		&models.OptionalPreference{},
		&models.VoiceAgent{},
		&models.WebhookEvent{},
		&models.Setting{},
	)

	s, err := New(webtest.NewConfig(), db)
	require.NoError(t, err)

	s.fastShutDown = true
	t.Cleanup(s.Shutdown)

	return s
}

func get(t *testing.T, s *Service, target string) webtest.Response {
	t.Helper()

	return webtest.Do(t, s.App, httptest.NewRequest(http.MethodGet, target, nil), "")
}

func TestNewRejectsNil(t *testing.T) {
	_, err := New(nil, nil)
	require.Error(t, err)

	_, err = New(&config.Config{}, nil)
	require.Error(t, err)
}

func TestCheckAlive(t *testing.T) {
	s := newService(t)
	require.True(t, s.Alive())

	resp := get(t, s, CheckAlivePath)
	assert.Equal(t, http.StatusOK, resp.Status)
	assert.Equal(t, "OK", resp.Body)

	// draining
	s.alive.Store(false)

	resp = get(t, s, CheckAlivePath)
	assert.Equal(t, http.StatusServiceUnavailable, resp.Status)
}

func TestMetrics(t *testing.T) {
	s := newService(t)

	resp := get(t, s, MetricsPath)
	require.Equal(t, http.StatusOK, resp.Status)
	assert.Contains(t, resp.Body, "go_goroutines")
}

func TestStaticFiles(t *testing.T) {
	s := newService(t)

	resp := get(t, s, "/static/js/app.js")
	assert.Equal(t, http.StatusOK, resp.Status)

	resp = get(t, s, "/static/css/app.css")
	assert.Equal(t, http.StatusOK, resp.Status)

	resp = get(t, s, "/static/missing.js")
	assert.Equal(t, http.StatusNotFound, resp.Status)
}

func TestHomeRendersEmbeddedTemplates(t *testing.T) {
	s := newService(t)

	resp := get(t, s, "/")
	require.Equal(t, http.StatusOK, resp.Status, resp.Body)
	assert.Contains(t, resp.Body, "Roxy answers every call")
	assert.Contains(t, resp.Body, "/checkout/")
	assert.Contains(t, resp.Body, "/static/js/app.js")
}

func TestSignedInPagesRequireSession(t *testing.T) {
	s := newService(t)

	resp := get(t, s, "/dashboard")
	assert.Equal(t, http.StatusFound, resp.Status)
	assert.Contains(t, resp.Location, "/login")

	resp = webtest.SendJSON(t, s.App, http.MethodDelete, "/api/agents/1", "", "")
	assert.Equal(t, http.StatusUnauthorized, resp.Status)
}
