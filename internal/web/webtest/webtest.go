// Package webtest holds the fixtures shared by the handler tests.
package webtest

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"github.com/Blackwork-AI/Blackwork-Dashboard/internal/auth"
	"github.com/Blackwork-AI/Blackwork-Dashboard/internal/config"
	authmiddleware "github.com/Blackwork-AI/Blackwork-Dashboard/internal/web/middleware/auth"
	"github.com/Blackwork-AI/Blackwork-Dashboard/internal/web/session"
)

// Render is one call of the view engine.
type Render struct {
	Name string
	Data fiber.Map
}

// Views is a minimal fiber view engine. It writes the "error" binding, if
// any, else the template name, and records every call.
type Views struct {
	mu      sync.Mutex
	renders []Render
}

// Load implements fiber.Views.
func (*Views) Load() error { return nil }

// Render implements fiber.Views.
func (v *Views) Render(w io.Writer, name string, data any, _ ...string) error {
	m, _ := data.(fiber.Map)

	v.mu.Lock()
	v.renders = append(v.renders, Render{Name: name, Data: m})
	v.mu.Unlock()

	if msg, ok := m["error"].(string); ok && msg != "" {
		_, _ = io.WriteString(w, msg)
		return nil
	}

	_, _ = io.WriteString(w, name)

	return nil
}

// Last returns the latest render.
func (v *Views) Last() Render {
	v.mu.Lock()
	defer v.mu.Unlock()

	if len(v.renders) == 0 {
		return Render{}
	}

	return v.renders[len(v.renders)-1]
}

// NewApp returns an app with the recording views and the session middleware.
// The session store is reset to process memory.
func NewApp() (*fiber.App, *Views) {
	session.Init(nil)

	views := &Views{}
	app := fiber.New(fiber.Config{Views: views})
	app.Use(authmiddleware.Middleware)

	return app, views
}

// NewConfig returns a config good enough for every handler.
func NewConfig() *config.Config {
	return &config.Config{
		Title: "Blackwork",
		Webserver: config.Webserver{
			URL:     "http://example.com",
			Port:    8080,
			Session: config.Session{ExpiryTime: time.Minute},
			RateLimit: config.RateLimit{
				RequestsPerSecond: 1000,
				Burst:             1000,
			},
		},
		Auth: config.Auth{
			LocalDB: config.LocalDBAuth{Enabled: true},
		},
		Payments: config.Payments{Currency: "usd"},
		Calendar: config.Calendar{PopupTimeout: time.Minute},
	}
}

// SignIn stores a session for s and returns its id.
func SignIn(t *testing.T, s auth.Session) string {
	t.Helper()

	sid, err := session.GenerateSessionID()
	require.NoError(t, err)
	require.NoError(t, (&session.Data{Session: s}).Write(sid, time.Minute))

	return sid
}

// Response is a drained http response.
type Response struct {
	Status   int
	Header   http.Header
	Body     string
	Location string
}

// JSON decodes the body into v.
func (r Response) JSON(t *testing.T, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal([]byte(r.Body), v), r.Body)
}

// Do sends req with the session cookie sid, if any.
func Do(t *testing.T, app *fiber.App, req *http.Request, sid string) Response {
	t.Helper()

	if sid != "" {
		req.AddCookie(&http.Cookie{Name: session.CookieName, Value: sid})
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	return Response{
		Status:   resp.StatusCode,
		Header:   resp.Header,
		Body:     string(body),
		Location: resp.Header.Get(fiber.HeaderLocation),
	}
}

// Get sends a GET.
func Get(t *testing.T, app *fiber.App, target, sid string) Response {
	t.Helper()
	return Do(t, app, httptest.NewRequest(http.MethodGet, target, nil), sid)
}

// PostForm sends an url encoded form.
func PostForm(t *testing.T, app *fiber.App, target string, form url.Values, sid string) Response {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationForm)

	return Do(t, app, req, sid)
}

// SendJSON sends body as JSON with method.
func SendJSON(t *testing.T, app *fiber.App, method, target, body, sid string) Response {
	t.Helper()

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)

	return Do(t, app, req, sid)
}

// Cookie returns the value of the named Set-Cookie, or "".
func (r Response) Cookie(name string) string {
	for _, c := range (&http.Response{Header: r.Header}).Cookies() {
		if c.Name == name {
			return c.Value
		}
	}

	return ""
}
