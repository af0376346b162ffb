package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/Blackwork-AI/Blackwork-Dashboard/internal/db/controller/profile"
	"github.com/Blackwork-AI/Blackwork-Dashboard/internal/db/models"
)

// LocalProvider handles local database authentication.
type LocalProvider struct {
	db *gorm.DB
}

// NewLocalProvider creates a new local authentication provider.
func NewLocalProvider(db *gorm.DB) *LocalProvider {
	return &LocalProvider{
		db: db,
	}
}

// Authenticate authenticates a user against the local database.
// Unknown emails and wrong passwords both return ErrInvalidCredentials.
func (p *LocalProvider) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	if p == nil || p.db == nil {
		return nil, ErrDBNil
	}

	var user models.User

	err := p.db.WithContext(ctx).
		Where("email = ? AND auth_source = ?", email, models.AuthSourceLocal).
		First(&user).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrInvalidCredentials
	}

	if err != nil {
		return nil, fmt.Errorf("failed to query user: %w", err)
	}

	if !user.Active {
		return nil, ErrUserAccountDisabled
	}

	if !user.VerifyPassword(password) {
		return nil, ErrInvalidCredentials
	}

	return &user, nil
}

// SignUp creates a local account and its default profile in one transaction.
func (p *LocalProvider) SignUp(ctx context.Context, c Credentials) (*models.User, error) {
	if p == nil || p.db == nil {
		return nil, ErrDBNil
	}

	hash, err := models.HashPassword(c.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now().UTC()

	user := models.User{
		Active:          true,
		Email:           c.Email,
		Password:        hash,
		Name:            c.Name,
		AuthSource:      models.AuthSourceLocal,
		TermsAcceptedAt: &now,
	}

	err = p.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.User{}).Where("email = ?", c.Email).Count(&count).Error; err != nil {
			return fmt.Errorf("failed to check existing user: %w", err)
		}

		if count > 0 {
			return ErrEmailExists
		}

		if err := tx.Create(&user).Error; err != nil {
			return fmt.Errorf("failed to create user: %w", err)
		}

		return profile.CreateDefault(ctx, tx, user.ID, user.Email)
	})
	if err != nil {
		return nil, err
	}

	return &user, nil
}

// GetUserByID retrieves an active user by ID.
func (p *LocalProvider) GetUserByID(ctx context.Context, userID uint64) (*models.User, error) {
	var user models.User

	err := p.db.WithContext(ctx).Where("id = ? AND active = ?", userID, true).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}

	if err != nil {
		return nil, err
	}

	return &user, nil
}
