// Package profile stores the assistant identity of a studio, one row per user.
package profile

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Blackwork-AI/Blackwork-Dashboard/internal/db/models"
)

var (
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
	// ErrUserIDEmpty is returned when a call is not scoped to a user.
	ErrUserIDEmpty = errors.New("profile user id cannot be empty")
	// ErrProfileNotFound is returned when the user has no profile yet.
	ErrProfileNotFound = errors.New("profile not found")
)

// SettingsColumns are the columns the settings screen writes. Everything else belongs to onboarding.
var SettingsColumns = []string{ //nolint:gochecknoglobals
	"assistant_name",
	"welcome_message",
	"support_email",
	"timezone",
	"completed_onboarding",
	"idle_reminders_enabled",
	"idle_reminder_time",
	"reminder_message",
}

// Get retrieves the profile of userID.
func Get(ctx context.Context, db *gorm.DB, userID uint64) (*models.Profile, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	if userID == 0 {
		return nil, ErrUserIDEmpty
	}

	var p models.Profile

	err := db.WithContext(ctx).Where("user_id = ?", userID).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrProfileNotFound
	}

	if err != nil {
		return nil, err
	}

	return &p, nil
}

// Upsert inserts p or updates the existing row of p.UserID.
// With columns given only those are overwritten on conflict, otherwise every column is.
func Upsert(ctx context.Context, db *gorm.DB, p *models.Profile, columns ...string) error {
	if db == nil {
		return ErrDBNil
	}

	if p == nil || p.UserID == 0 {
		return ErrUserIDEmpty
	}

	onConflict := clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		UpdateAll: true,
	}

	if len(columns) > 0 {
		onConflict.UpdateAll = false
		onConflict.DoUpdates = clause.AssignmentColumns(append(append([]string{}, columns...), "updated_at"))
	}

	return db.WithContext(ctx).Clauses(onConflict).Create(p).Error
}

// CreateDefault creates the empty profile written at sign up. An existing profile is left untouched.
func CreateDefault(ctx context.Context, db *gorm.DB, userID uint64, supportEmail string) error {
	if db == nil {
		return ErrDBNil
	}

	if userID == 0 {
		return ErrUserIDEmpty
	}

	p := &models.Profile{
		UserID:        userID,
		Timezone:      "UTC",
		AssistantName: "My Voice Assistant",
		SupportEmail:  supportEmail,
	}

	return db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoNothing: true,
	}).Create(p).Error
}

// Store exposes the package functions bound to one database.
type Store struct {
	DB *gorm.DB
}

// Get see Get.
func (s Store) Get(ctx context.Context, userID uint64) (*models.Profile, error) {
	return Get(ctx, s.DB, userID)
}

// Upsert see Upsert.
func (s Store) Upsert(ctx context.Context, p *models.Profile, columns ...string) error {
	return Upsert(ctx, s.DB, p, columns...)
}
