// Package agent keeps the local listing of hosted voice assistants per user.
package agent

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
	ErrUserIDEmpty = errors.New("agent user id cannot be empty")
	// ErrModelIDEmpty is returned when a listing row has no remote reference.
	ErrModelIDEmpty = errors.New("agent model id cannot be empty")
	// ErrAgentNotFound is returned when the agent does not exist or belongs to another user.
	ErrAgentNotFound = errors.New("voice agent not found")
)

// List returns the agents of userID, newest first.
func List(ctx context.Context, db *gorm.DB, userID uint64) ([]models.VoiceAgent, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	if userID == 0 {
		return nil, ErrUserIDEmpty
	}

	var agents []models.VoiceAgent

	err := db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at desc").
		Order("id desc").
		Find(&agents).Error
	if err != nil {
		return nil, err
	}

	return agents, nil
}

// Upsert records a hosted assistant. The row is keyed by model id, repeated calls refresh name, language
// and phone number.
func Upsert(ctx context.Context, db *gorm.DB, a *models.VoiceAgent) error {
	if db == nil {
		return ErrDBNil
	}

	if a == nil || a.UserID == 0 {
		return ErrUserIDEmpty
	}

	if a.ModelID == "" {
		return ErrModelIDEmpty
	}

	if a.Status == "" {
		a.Status = models.VoiceAgentActive
	}

	return db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "model_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "language", "phone_number", "updated_at"}),
	}).Create(a).Error
}

// Delete removes agent id when it is owned by userID.
func Delete(ctx context.Context, db *gorm.DB, userID, id uint64) error {
	if db == nil {
		return ErrDBNil
	}

	if userID == 0 {
		return ErrUserIDEmpty
	}

	result := db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&models.VoiceAgent{})
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return ErrAgentNotFound
	}

	return nil
}

// Store exposes the package functions bound to one database.
type Store struct {
	DB *gorm.DB
}

// Record see Upsert.
func (s Store) Record(ctx context.Context, a *models.VoiceAgent) error {
	return Upsert(ctx, s.DB, a)
}

// List see List.
func (s Store) List(ctx context.Context, userID uint64) ([]models.VoiceAgent, error) {
	return List(ctx, s.DB, userID)
}
