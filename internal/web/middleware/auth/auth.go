package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Blackwork-AI/Blackwork-Dashboard/internal/auth"
	"github.com/Blackwork-AI/Blackwork-Dashboard/internal/web/handler"
	"github.com/Blackwork-AI/Blackwork-Dashboard/internal/web/session"
)

const (
	// CurrentUserKey exposes the session to the templates.
	CurrentUserKey = "CurrentUser"

	sessionIDKey = "auth.sessionID"
)

// Middleware reads the session cookie once per request and stores the session
// for handlers. It never rejects a request, see RequireSession.
func Middleware(c *fiber.Ctx) error {
	sid := c.Cookies(session.CookieName)
	if sid == "" {
		return c.Next()
	}

	sessData := new(session.Data)
	if err := sessData.Read(sid); err != nil || !sessData.Session.Valid() {
		return c.Next()
	}

	auth.SetSession(c, sessData.Session)
	c.Locals(CurrentUserKey, sessData.Session)
	c.Locals(sessionIDKey, sid)

	return c.Next()
}

// RequireSession rejects requests without a session. Pages redirect to the
// login page, API calls get a 401.
func RequireSession(c *fiber.Ctx) error {
	if _, ok := auth.SessionFrom(c); ok {
		return c.Next()
	}

	if handler.WantsJSON(c) {
		return handler.JSONError(c, fiber.StatusUnauthorized, handler.MsgUnauthorized)
	}

	return c.Redirect(handler.LoginPath)
}

// RedirectSignedIn sends signed in users from the login and sign up pages to the dashboard.
func RedirectSignedIn(c *fiber.Ctx) error {
	if _, ok := auth.SessionFrom(c); ok {
		return c.Redirect(handler.DashboardPath)
	}

	return c.Next()
}

// SessionID returns the id of the loaded session cookie.
func SessionID(c *fiber.Ctx) string {
	sid, _ := c.Locals(sessionIDKey).(string)
	return sid
}
