package session

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/Blackwork-AI/Blackwork-Dashboard/internal/auth"
)

// Start stores s under a fresh session id and sets the session cookie.
// secure is false only in dev mode, where the site runs on plain http.
func Start(c *fiber.Ctx, s auth.Session, exp time.Duration, secure bool) error {
	sessionID, err := GenerateSessionID()
	if err != nil {
		return err
	}

	data := &Data{Session: s}
	if err = data.Write(sessionID, exp); err != nil {
		return err
	}

	c.Cookie(&fiber.Cookie{
		Name:     CookieName,
		Value:    sessionID,
		MaxAge:   int(exp.Seconds()),
		Secure:   secure,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})

	return nil
}

// Clear expires the session cookie.
func Clear(c *fiber.Ctx, secure bool) {
	c.Cookie(&fiber.Cookie{
		Name:     CookieName,
		Value:    "",
		MaxAge:   -1,
		Secure:   secure,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}
