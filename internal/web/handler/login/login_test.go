package login

import (
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Blackwork-AI/Blackwork-Dashboard/internal/auth"
	"github.com/Blackwork-AI/Blackwork-Dashboard/internal/config"
	"github.com/Blackwork-AI/Blackwork-Dashboard/internal/db/controller/profile"
	"github.com/Blackwork-AI/Blackwork-Dashboard/internal/db/dbtest"
	"github.com/Blackwork-AI/Blackwork-Dashboard/internal/db/models"
	"github.com/Blackwork-AI/Blackwork-Dashboard/internal/web/handler"
	"github.com/Blackwork-AI/Blackwork-Dashboard/internal/web/session"
	"github.com/Blackwork-AI/Blackwork-Dashboard/internal/web/webtest"
)

func setup(t *testing.T, mutate ...func(*config.Config)) (*fiber.App, *webtest.Views, *gorm.DB) {
	t.Helper()

	db := dbtest.Open(t, &models.User{}, &models.Profile{})
	cfg := webtest.NewConfig()

	for _, m := range mutate {
		m(cfg)
	}

	app, views := webtest.NewApp()

	var s Service
	require.NoError(t, s.Init(app, cfg, db))

	return app, views, db
}

func signUp(t *testing.T, db *gorm.DB, email, password string) *models.User {
	t.Helper()

	u, err := auth.NewLocalProvider(db).SignUp(t.Context(), auth.Credentials{
		Email: email, Password: password, AcceptTerms: true,
	})
	require.NoError(t, err)

	return u
}

func TestInitRejectsNil(t *testing.T) {
	var s Service
	require.Error(t, s.Init(nil, nil, nil))
}

func TestGetRendersLoginPage(t *testing.T) {
	app, views, _ := setup(t)

	resp := webtest.Get(t, app, Path, "")
	assert.Equal(t, fiber.StatusOK, resp.Status)
	assert.Equal(t, TemplateName, views.Last().Name)
	assert.Equal(t, true, views.Last().Data["local_db_enabled"])
}

func TestPostSuccessSetsCookieAndRedirects(t *testing.T) {
	app, _, db := setup(t)
	signUp(t, db, "bob@studio.test", "s3cr3t!")

	resp := webtest.PostForm(t, app, Path, url.Values{
		"email":    {"  Bob@Studio.test "},
		"password": {"s3cr3t!"},
	}, "")

	require.Equal(t, http.StatusFound, resp.Status)
	assert.Equal(t, handler.DashboardPath, resp.Location)

	setCookie := resp.Header.Get(fiber.HeaderSetCookie)
	assert.Contains(t, setCookie, session.CookieName+"=")
	assert.Contains(t, strings.ToLower(setCookie), "secure")
	assert.Contains(t, strings.ToLower(setCookie), "httponly")

	var data session.Data
	require.NoError(t, data.Read(resp.Cookie(session.CookieName)))
	assert.Equal(t, "bob@studio.test", data.Session.Email)
}

func TestPostDevModeDisablesSecure(t *testing.T) {
	app, _, db := setup(t, func(c *config.Config) { c.DevMode = true })
	signUp(t, db, "carol@studio.test", "passw0rd")

	resp := webtest.PostForm(t, app, Path, url.Values{
		"email":    {"carol@studio.test"},
		"password": {"passw0rd"},
	}, "")

	require.Equal(t, http.StatusFound, resp.Status)
	assert.NotContains(t, strings.ToLower(resp.Header.Get(fiber.HeaderSetCookie)), "secure")
}

func TestPostRendersErrors(t *testing.T) {
	app, views, db := setup(t)
	signUp(t, db, "dave@studio.test", "correct-horse")

	tests := []struct {
		name string
		form url.Values
		want string
	}{
		{name: "empty", form: url.Values{}, want: auth.MsgFillAllFields},
		{name: "bad email", form: url.Values{"email": {"dave"}, "password": {"whatever"}}, want: auth.MsgInvalidEmail},
		{name: "short password", form: url.Values{"email": {"dave@studio.test"}, "password": {"abc"}}, want: auth.MsgPasswordTooShort},
		{name: "wrong password", form: url.Values{"email": {"dave@studio.test"}, "password": {"wrong-horse"}}, want: auth.MsgInvalidCredentials},
		{name: "unknown email", form: url.Values{"email": {"nobody@studio.test"}, "password": {"whatever"}}, want: auth.MsgInvalidCredentials},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := webtest.PostForm(t, app, Path, tt.form, "")

			assert.Equal(t, http.StatusOK, resp.Status)
			assert.Equal(t, tt.want, resp.Body)
			assert.Empty(t, resp.Cookie(session.CookieName))
			assert.NotContains(t, views.Last().Data, "password")
		})
	}
}

func TestPostDisabledAccount(t *testing.T) {
	app, _, db := setup(t)
	u := signUp(t, db, "erin@studio.test", "s3cr3t!")
	require.NoError(t, db.Model(u).Update("active", false).Error)

	resp := webtest.PostForm(t, app, Path, url.Values{
		"email":    {"erin@studio.test"},
		"password": {"s3cr3t!"},
	}, "")

	assert.Equal(t, MsgAccountDisabled, resp.Body)
}

func TestPostInvalidBody(t *testing.T) {
	app, _, _ := setup(t)

	resp := webtest.SendJSON(t, app, http.MethodPost, Path, "{", "")
	assert.Equal(t, http.StatusOK, resp.Status)
	assert.Equal(t, ErrInvalidFormData.Error(), resp.Body)
}

func TestPostLocalDisabled(t *testing.T) {
	app, _, _ := setup(t, func(c *config.Config) { c.Auth.LocalDB.Enabled = false })

	resp := webtest.PostForm(t, app, Path, url.Values{"email": {"x@y.z"}, "password": {"whatever"}}, "")
	assert.Equal(t, ErrLocalAuthDisabled.Error(), resp.Body)
}

func TestSignUp(t *testing.T) {
	app, _, db := setup(t)

	resp := webtest.PostForm(t, app, SignUpPath, url.Values{
		"email":    {"new@studio.test"},
		"password": {"s3cr3t!"},
		"name":     {"New Studio"},
	}, "")
	assert.Equal(t, auth.MsgAcceptTerms, resp.Body)

	resp = webtest.PostForm(t, app, SignUpPath, url.Values{
		"email":    {"new@studio.test"},
		"password": {"s3cr3t!"},
		"name":     {"New Studio"},
		"terms":    {"true"},
	}, "")
	require.Equal(t, http.StatusFound, resp.Status)
	assert.Equal(t, handler.OnboardingPath, resp.Location)
	assert.NotEmpty(t, resp.Cookie(session.CookieName))

	var u models.User
	require.NoError(t, db.Where("email = ?", "new@studio.test").First(&u).Error)

	p, err := profile.Get(t.Context(), db, u.ID)
	require.NoError(t, err)
	assert.False(t, p.CompletedOnboarding)
	assert.Equal(t, "UTC", p.Timezone)

	resp = webtest.PostForm(t, app, SignUpPath, url.Values{
		"email":    {"new@studio.test"},
		"password": {"s3cr3t!"},
		"terms":    {"true"},
	}, "")
	assert.Equal(t, auth.MsgEmailExists, resp.Body)
}

func TestSignedInUserSkipsLoginPage(t *testing.T) {
	app, _, _ := setup(t)
	sid := webtest.SignIn(t, auth.Session{UserID: 1, Email: "a@b.co"})

	resp := webtest.Get(t, app, Path, sid)
	assert.Equal(t, http.StatusFound, resp.Status)
	assert.Equal(t, handler.DashboardPath, resp.Location)
}

func TestLogout(t *testing.T) {
	app, _, _ := setup(t)
	sid := webtest.SignIn(t, auth.Session{UserID: 1, Email: "a@b.co"})

	resp := webtest.Get(t, app, LogoutPath, sid)
	assert.Equal(t, http.StatusFound, resp.Status)
	assert.Equal(t, Path, resp.Location)

	require.ErrorIs(t, new(session.Data).Read(sid), session.ErrNotFound)
}

func TestGetShowsOnlyKnownErrors(t *testing.T) {
	app, _, _ := setup(t)

	resp := webtest.Get(t, app, GoogleFailedPath, "")
	assert.Equal(t, auth.MsgGoogleFailed, resp.Body)

	resp = webtest.Get(t, app, Path+"?error=Your+account+was+hacked", "")
	assert.Equal(t, TemplateName, resp.Body)
}
