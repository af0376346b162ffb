// Package webhook records payment provider events.
package webhook

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Blackwork-AI/Blackwork-Dashboard/internal/db/models"
)

var (
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
	// ErrEventIDEmpty is returned when an event has no id.
	ErrEventIDEmpty = errors.New("webhook event id cannot be empty")
)

// Record upserts e on its event id, so redelivered events keep a single row.
func Record(ctx context.Context, db *gorm.DB, e *models.WebhookEvent) error {
	if db == nil {
		return ErrDBNil
	}

	if e == nil || e.EventID == "" {
		return ErrEventIDEmpty
	}

	if e.ReceivedAt.IsZero() {
		e.ReceivedAt = time.Now().UTC()
	}

	return db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "event_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"type", "verified", "received_at"}),
	}).Create(e).Error
}

// Count returns the number of stored events.
func Count(ctx context.Context, db *gorm.DB) (int64, error) {
	if db == nil {
		return 0, ErrDBNil
	}

	var n int64

	err := db.WithContext(ctx).Model(&models.WebhookEvent{}).Count(&n).Error

	return n, err
}
