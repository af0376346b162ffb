package session

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"

	"github.com/Blackwork-AI/Blackwork-Dashboard/internal/auth"
)

// CookieName is the name of the session cookie.
const CookieName = "session"

const draftPrefix = "wizard."

// ErrNotFound is returned when a session id has no stored data.
var ErrNotFound = errors.New("session not found")

// Store is the global session store instance.
var Store *session.Store

// Data represents the session data structure.
type Data struct {
	Session auth.Session
}

// Write writes the session data for the given session ID with an expiration duration.
func (s *Data) Write(sessionID string, exp time.Duration) error {
	out, err := json.Marshal(s)
	if err != nil {
		return err
	}

	return Store.Storage.Set(sessionID, out, exp)
}

// Read reads the session data for the given session ID.
func (s *Data) Read(sessionID string) error {
	if sessionID == "" {
		return ErrNotFound
	}

	byteData, err := Store.Storage.Get(sessionID)
	if err != nil {
		return err
	}

	if len(byteData) == 0 {
		return ErrNotFound
	}

	return json.Unmarshal(byteData, s)
}

// Delete removes the session and its wizard draft.
func Delete(sessionID string) error {
	if err := Store.Storage.Delete(sessionID); err != nil {
		return err
	}

	return Store.Storage.Delete(draftPrefix + sessionID)
}

// SaveDraft keeps an unfinished wizard next to the session.
func SaveDraft(sessionID string, v any, exp time.Duration) error {
	out, err := json.Marshal(v)
	if err != nil {
		return err
	}

	return Store.Storage.Set(draftPrefix+sessionID, out, exp)
}

// LoadDraft fills v with the stored draft. It reports false when there is none.
func LoadDraft(sessionID string, v any) (bool, error) {
	byteData, err := Store.Storage.Get(draftPrefix + sessionID)
	if err != nil {
		return false, err
	}

	if len(byteData) == 0 {
		return false, nil
	}

	if err := json.Unmarshal(byteData, v); err != nil {
		return false, err
	}

	return true, nil
}

// DeleteDraft drops the stored draft of a session.
func DeleteDraft(sessionID string) error {
	return Store.Storage.Delete(draftPrefix + sessionID)
}

// Init initializes the session store with the provided storage backend.
// A nil storage keeps sessions in process memory.
func Init(storage fiber.Storage) {
	Store = session.New(session.Config{
		Storage:   storage,
		KeyLookup: "cookie:" + CookieName,
		KeyGenerator: func() string {
			id, _ := GenerateSessionID()
			return id
		},
	})
}

// GenerateSessionID generates a new secure random session ID.
func GenerateSessionID() (string, error) {
	// 32 bytes = 256 bits
	b := make([]byte, 32) //nolint:mnd
	if _, err := rand.Read(b); err != nil {
		return "", err
	}

	return hex.EncodeToString(b), nil
}
