package models

import (
	"time"

	"github.com/alexedwards/argon2id"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// AuthSource represents how a user account signs in.
type AuthSource string

const (
	// AuthSourceLocal indicates the user signs in with email and password.
	AuthSourceLocal AuthSource = "local"
	// AuthSourceOIDC indicates the user signs in through OpenID Connect (Google).
	AuthSourceOIDC AuthSource = "oidc"
)

// User represents a studio account.
// Every profile, preference and voice agent row belongs to exactly one user.
type User struct {
	// ID is the identity key used by every other table.
	ID uint64 `gorm:"primaryKey"`
	// Active indicates whether the account can sign in.
	Active bool
	// Email is the sign in address.
	Email string `gorm:"uniqueIndex;size:255;not null"`
	// Password is the Argon2id hash (local accounts only).
	Password string `gorm:"size:255" json:"-"`
	// Name is the display name taken from the identity provider, if any.
	Name string `gorm:"size:200"`
	// AuthSource indicates how this user authenticates.
	AuthSource AuthSource `gorm:"type:varchar(20);not null;default:'local'"`
	// ExternalID is the OIDC subject for oidc users.
	ExternalID string `gorm:"size:255;index"`
	// TermsAcceptedAt is set when the terms of service were accepted at sign up.
	TermsAcceptedAt *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
	DeletedAt       gorm.DeletedAt `gorm:"index"`
}

// HashPassword hashes a plaintext password using the Argon2id default parameters.
func HashPassword(password string) (string, error) {
	return argon2id.CreateHash(password, argon2id.DefaultParams) //nolint:wrapcheck
}

// VerifyPassword reports whether password matches the stored hash.
func (u *User) VerifyPassword(password string) bool {
	if u.Password == "" {
		return false
	}

	match, err := argon2id.ComparePasswordAndHash(password, u.Password)
	if err != nil {
		log.Error().Err(err).Uint64("user_id", u.ID).Msg("failed to verify password")
		return false
	}

	return match
}
