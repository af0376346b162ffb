// Package preference stores the optional business preferences of a studio, one row per user.
package preference

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Blackwork-AI/Blackwork-Dashboard/internal/db/models"
)

const userIDQuery = "user_id = ?"

var (
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
	// ErrUserIDEmpty is returned when a call is not scoped to a user.
	ErrUserIDEmpty = errors.New("preference user id cannot be empty")
	// ErrPreferenceNotFound is returned when the user has not saved preferences yet.
	ErrPreferenceNotFound = errors.New("optional preference not found")
	// ErrInvalidAppointmentType is returned for values outside appointments, walkins and both.
	ErrInvalidAppointmentType = errors.New("invalid appointment type")
)

// Get retrieves the preferences of userID.
func Get(ctx context.Context, db *gorm.DB, userID uint64) (*models.OptionalPreference, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	if userID == 0 {
		return nil, ErrUserIDEmpty
	}

	var p models.OptionalPreference

	err := db.WithContext(ctx).Where(userIDQuery, userID).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrPreferenceNotFound
	}

	if err != nil {
		return nil, err
	}

	return &p, nil
}

// Upsert inserts p or replaces the existing row of p.UserID.
// An empty appointment type falls back to walkins, missing hours to the default week.
func Upsert(ctx context.Context, db *gorm.DB, p *models.OptionalPreference) error {
	if db == nil {
		return ErrDBNil
	}

	if p == nil || p.UserID == 0 {
		return ErrUserIDEmpty
	}

	if p.AppointmentType == "" {
		p.AppointmentType = models.AppointmentTypeWalkins
	}

	if !p.AppointmentType.Valid() {
		return ErrInvalidAppointmentType
	}

	if len(p.OperatingHours) == 0 {
		p.OperatingHours = models.DefaultOperatingHours()
	}

	return db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		UpdateAll: true,
	}).Create(p).Error
}

// Delete removes the preferences of userID. Deleting a missing row is not an error.
func Delete(ctx context.Context, db *gorm.DB, userID uint64) error {
	if db == nil {
		return ErrDBNil
	}

	if userID == 0 {
		return ErrUserIDEmpty
	}

	return db.WithContext(ctx).Where(userIDQuery, userID).Delete(&models.OptionalPreference{}).Error
}

// Store exposes the package functions bound to one database.
type Store struct {
	DB *gorm.DB
}

// Get see Get.
func (s Store) Get(ctx context.Context, userID uint64) (*models.OptionalPreference, error) {
	return Get(ctx, s.DB, userID)
}

// Upsert see Upsert.
func (s Store) Upsert(ctx context.Context, p *models.OptionalPreference) error {
	return Upsert(ctx, s.DB, p)
}
