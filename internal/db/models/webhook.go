package models

import "time"

// WebhookEvent records a payments provider event. EventID is the idempotency key.
type WebhookEvent struct {
	ID         uint64 `gorm:"primaryKey"`
	EventID    string `gorm:"uniqueIndex;size:255;not null"`
	Type       string `gorm:"size:128"`
	Verified   bool
	ReceivedAt time.Time
}

// TableName overrides the default table name.
func (WebhookEvent) TableName() string {
	return "webhook"
}
