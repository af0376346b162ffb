// Package setting stores named JSON values, used for per user integration state.
package setting

import (
	"context"
	"encoding/json"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Blackwork-AI/Blackwork-Dashboard/internal/db/models"
)

const (
	nameQueryPattern = "name = ?"
)

var (
	// ErrSettingNotFound is returned when a setting is not found.
	ErrSettingNotFound = errors.New("setting not found")
	// ErrSettingNameEmpty is returned when attempting to create/update a setting with an empty name.
	ErrSettingNameEmpty = errors.New("setting name cannot be empty")
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
)

// Get retrieves a setting by its name.
func Get(ctx context.Context, db *gorm.DB, name string) (*models.Setting, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	if name == "" {
		return nil, ErrSettingNameEmpty
	}

	var setting models.Setting

	result := db.WithContext(ctx).Where(nameQueryPattern, name).First(&setting)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrSettingNotFound
		}

		return nil, result.Error
	}

	return &setting, nil
}

// Set creates or replaces the value stored under name.
func Set(ctx context.Context, db *gorm.DB, name string, value []byte) error {
	if db == nil {
		return ErrDBNil
	}

	if name == "" {
		return ErrSettingNameEmpty
	}

	return db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"value"}),
	}).Create(&models.Setting{Name: name, Value: value}).Error
}

// GetJSON decodes the value stored under name into v.
func GetJSON(ctx context.Context, db *gorm.DB, name string, v any) error {
	s, err := Get(ctx, db, name)
	if err != nil {
		return err
	}

	return json.Unmarshal(s.Value, v)
}

// SetJSON encodes v and stores it under name.
func SetJSON(ctx context.Context, db *gorm.DB, name string, v any) error {
	value, err := json.Marshal(v)
	if err != nil {
		return err
	}

	return Set(ctx, db, name, value)
}

// DeleteByName deletes a setting by name.
func DeleteByName(ctx context.Context, db *gorm.DB, name string) error {
	if db == nil {
		return ErrDBNil
	}

	if name == "" {
		return ErrSettingNameEmpty
	}

	result := db.WithContext(ctx).Where(nameQueryPattern, name).Delete(&models.Setting{})
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return ErrSettingNotFound
	}

	return nil
}
