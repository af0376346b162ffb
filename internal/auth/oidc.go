package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"
	"gorm.io/gorm"

	"github.com/Blackwork-AI/Blackwork-Dashboard/internal/config"
	"github.com/Blackwork-AI/Blackwork-Dashboard/internal/db/controller/profile"
	"github.com/Blackwork-AI/Blackwork-Dashboard/internal/db/models"
)

// ErrOIDCDisabled is returned when OIDC is disabled via configuration.
var ErrOIDCDisabled = errors.New("oidc authentication is disabled")

// Claims are the ID token claims used to find or create the account.
type Claims struct {
	Sub           string `json:"sub"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	Name          string `json:"name"`
}

// OIDCProvider handles OIDC authentication.
type OIDCProvider struct {
	verifier *oidc.IDTokenVerifier
	oauth2   oauth2.Config
	db       *gorm.DB
}

// NewOIDCProvider creates a new OIDC provider.
func NewOIDCProvider(ctx context.Context, cfg config.OIDCAuth, db *gorm.DB) (*OIDCProvider, error) {
	if !cfg.Enabled {
		return nil, ErrOIDCDisabled
	}

	provider, err := oidc.NewProvider(ctx, cfg.ProviderURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create OIDC provider: %w", err)
	}

	scopes := cfg.Scopes
	if len(scopes) == 0 {
		scopes = []string{oidc.ScopeOpenID, "profile", "email"}
	}

	return &OIDCProvider{
		verifier: provider.Verifier(&oidc.Config{ClientID: cfg.ClientID}),
		oauth2: oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Endpoint:     provider.Endpoint(),
			Scopes:       scopes,
		},
		db: db,
	}, nil
}

// GenerateStateToken generates a random state token for CSRF protection.
func GenerateStateToken() (string, error) {
	b := make([]byte, 32) //nolint:mnd
	if _, err := rand.Read(b); err != nil {
		return "", err
	}

	return base64.RawURLEncoding.EncodeToString(b), nil
}

// GetAuthURL returns the OIDC authorization URL with state token.
func (p *OIDCProvider) GetAuthURL(state string) string {
	return p.oauth2.AuthCodeURL(state)
}

// HandleCallback exchanges the code, verifies the ID token and returns the signed in user.
func (p *OIDCProvider) HandleCallback(ctx context.Context, code string) (*models.User, error) {
	oauth2Token, err := p.oauth2.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange token: %w", err)
	}

	rawIDToken, ok := oauth2Token.Extra("id_token").(string)
	if !ok {
		return nil, ErrNoIDToken
	}

	idToken, err := p.verifier.Verify(ctx, rawIDToken)
	if err != nil {
		return nil, fmt.Errorf("failed to verify ID token: %w", err)
	}

	var claims Claims
	if err = idToken.Claims(&claims); err != nil {
		return nil, fmt.Errorf("failed to parse claims: %w", err)
	}

	return FindOrCreateOIDCUser(ctx, p.db, claims)
}

// FindOrCreateOIDCUser returns the account of the OIDC subject.
// A local account with the same verified email is linked instead of duplicated.
// New accounts get the default profile.
func FindOrCreateOIDCUser(ctx context.Context, db *gorm.DB, claims Claims) (*models.User, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var user models.User

	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Where("external_id = ?", claims.Sub).First(&user).Error

		switch {
		case err == nil:
			user.Email = claims.Email
			user.Name = claims.Name

			return tx.Save(&user).Error
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return fmt.Errorf("failed to query user: %w", err)
		}

		if claims.EmailVerified {
			err = tx.Where("email = ?", claims.Email).First(&user).Error
			if err == nil {
				if !user.Active {
					return ErrUserAccountDisabled
				}

				user.ExternalID = claims.Sub

				return tx.Save(&user).Error
			}

			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("failed to query user: %w", err)
			}
		}

		user = models.User{
			Active:     true,
			Email:      claims.Email,
			Name:       claims.Name,
			AuthSource: models.AuthSourceOIDC,
			ExternalID: claims.Sub,
		}

		if err := tx.Create(&user).Error; err != nil {
			return fmt.Errorf("failed to create user: %w", err)
		}

		return profile.CreateDefault(ctx, tx, user.ID, user.Email)
	})
	if err != nil {
		return nil, err
	}

	if !user.Active {
		return nil, ErrUserAccountDisabled
	}

	return &user, nil
}
