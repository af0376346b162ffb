package dashboard

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Blackwork-AI/Blackwork-Dashboard/internal/auth"
	"github.com/Blackwork-AI/Blackwork-Dashboard/internal/db/dbtest"
	"github.com/Blackwork-AI/Blackwork-Dashboard/internal/db/models"
	"github.com/Blackwork-AI/Blackwork-Dashboard/internal/web/handler"
	"github.com/Blackwork-AI/Blackwork-Dashboard/internal/web/webtest"
)

var owner = auth.Session{UserID: 1, Email: "owner@studio.test"}

func setup(t *testing.T) (*fiber.App, *webtest.Views, *gorm.DB) {
	t.Helper()

	db := dbtest.Open(t, &models.Profile{}, &models.VoiceAgent{})
	app, views := webtest.NewApp()

	var s Service
	require.NoError(t, s.Init(app, webtest.NewConfig(), db))

	return app, views, db
}

func seedAgents(t *testing.T, db *gorm.DB) {
	t.Helper()

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	rows := []models.VoiceAgent{
		{UserID: 1, ModelID: "m-1", Name: "Roxy", Status: models.VoiceAgentActive, Language: "en-US", CreatedAt: base},
		{UserID: 1, ModelID: "m-2", Name: "ana", Status: models.VoiceAgentInactive, Language: "es", CreatedAt: base.Add(time.Hour)},
		{UserID: 1, ModelID: "m-3", Name: "Zed", Status: models.VoiceAgentActive, Language: "de", CreatedAt: base.Add(2 * time.Hour)},
		{UserID: 2, ModelID: "m-4", Name: "Other studio", Status: models.VoiceAgentActive, CreatedAt: base},
	}
	require.NoError(t, db.Create(&rows).Error)
}

func names(agents []models.VoiceAgent) []string {
	out := make([]string, len(agents))
	for i, a := range agents {
		out[i] = a.Name
	}

	return out
}

func TestGetRedirectsUntilOnboarded(t *testing.T) {
	app, _, db := setup(t)
	sid := webtest.SignIn(t, owner)

	resp := webtest.Get(t, app, Path, "")
	assert.Equal(t, http.StatusFound, resp.Status)
	assert.Equal(t, handler.LoginPath, resp.Location)

	resp = webtest.Get(t, app, Path, sid)
	assert.Equal(t, http.StatusFound, resp.Status)
	assert.Equal(t, handler.OnboardingPath, resp.Location)

	require.NoError(t, db.Create(&models.Profile{UserID: 1}).Error)

	resp = webtest.Get(t, app, Path, sid)
	assert.Equal(t, handler.OnboardingPath, resp.Location)
}

func TestGetListsOwnAgents(t *testing.T) {
	app, views, db := setup(t)
	seedAgents(t, db)
	require.NoError(t, db.Create(&models.Profile{UserID: 1, CompletedOnboarding: true}).Error)

	sid := webtest.SignIn(t, owner)

	tests := []struct {
		query string
		want  []string
	}{
		{query: "", want: []string{"Zed", "ana", "Roxy"}},
		{query: "?sort=name&order=asc", want: []string{"ana", "Roxy", "Zed"}},
		{query: "?status=active", want: []string{"Zed", "Roxy"}},
		{query: "?search=ES", want: []string{"ana"}},
		{query: "?sort=created&order=asc&pageSize=2&page=2", want: []string{"Zed"}},
		{query: "?sort=bogus&order=bogus", want: []string{"Roxy", "ana", "Zed"}},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			resp := webtest.Get(t, app, Path+tt.query, sid)
			require.Equal(t, http.StatusOK, resp.Status)

			data, ok := views.Last().Data["Data"].(Data)
			require.True(t, ok)
			assert.Equal(t, tt.want, names(data.Agents))
			assert.Equal(t, 3, views.Last().Data["AllCount"])
		})
	}
}

func TestDeleteAgent(t *testing.T) {
	app, _, db := setup(t)
	seedAgents(t, db)

	sid := webtest.SignIn(t, owner)

	var foreign models.VoiceAgent
	require.NoError(t, db.Where("model_id = ?", "m-4").First(&foreign).Error)

	var own models.VoiceAgent
	require.NoError(t, db.Where("model_id = ?", "m-1").First(&own).Error)

	resp := webtest.SendJSON(t, app, http.MethodDelete, fmt.Sprintf("/api/agents/%d", foreign.ID), "", sid)
	assert.Equal(t, http.StatusNotFound, resp.Status)

	resp = webtest.SendJSON(t, app, http.MethodDelete, "/api/agents/abc", "", sid)
	assert.Equal(t, http.StatusBadRequest, resp.Status)

	resp = webtest.SendJSON(t, app, http.MethodDelete, fmt.Sprintf("/api/agents/%d", own.ID), "", "")
	assert.Equal(t, http.StatusUnauthorized, resp.Status)

	resp = webtest.SendJSON(t, app, http.MethodDelete, fmt.Sprintf("/api/agents/%d", own.ID), "", sid)
	assert.Equal(t, http.StatusNoContent, resp.Status)

	var count int64
	require.NoError(t, db.Model(&models.VoiceAgent{}).Count(&count).Error)
	assert.Equal(t, int64(3), count)
}

func TestPaginate(t *testing.T) {
	agents := make([]models.VoiceAgent, 5)

	page, totalPages, actual := paginate(agents, 3, 2)
	assert.Len(t, page, 1)
	assert.Equal(t, 3, totalPages)
	assert.Equal(t, 3, actual)

	page, totalPages, actual = paginate(agents, 9, 2)
	assert.Len(t, page, 1)
	assert.Equal(t, 3, totalPages)
	assert.Equal(t, 3, actual)

	page, totalPages, actual = paginate(nil, 1, 10)
	assert.Empty(t, page)
	assert.Equal(t, 1, totalPages)
	assert.Equal(t, 1, actual)
}

func TestBuildData(t *testing.T) {
	params := QueryParams{Page: 5, PageSize: 2}
	data := buildData(make([]models.VoiceAgent, 3), &params)

	assert.Equal(t, 2, data.CurrentPage)
	assert.Equal(t, 2, params.Page)
	assert.True(t, data.HasPrevPage)
	assert.False(t, data.HasNextPage)
	assert.Equal(t, 3, data.TotalItems)
}
