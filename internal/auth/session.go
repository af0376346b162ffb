package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Blackwork-AI/Blackwork-Dashboard/internal/db/models"
)

const localsKey = "auth.session"

// Session is the signed in identity of one request.
// It never carries credentials, only what services need to scope their queries.
type Session struct {
	UserID uint64 `json:"user_id"`
	Email  string `json:"email"`
	Name   string `json:"name"`
}

// NewSession returns the session of u.
func NewSession(u *models.User) Session {
	return Session{UserID: u.ID, Email: u.Email, Name: u.Name}
}

// Valid reports whether the session belongs to a user.
func (s Session) Valid() bool {
	return s.UserID > 0
}

// SetSession stores s for the rest of the request.
func SetSession(c *fiber.Ctx, s Session) {
	c.Locals(localsKey, s)
}

// SessionFrom returns the session stored by the session middleware.
func SessionFrom(c *fiber.Ctx) (Session, bool) {
	s, ok := c.Locals(localsKey).(Session)
	if !ok || !s.Valid() {
		return Session{}, false
	}

	return s, true
}
