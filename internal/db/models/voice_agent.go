package models

import "time"

// VoiceAgentStatus is shown on the dashboard agent list.
type VoiceAgentStatus string

// Agent states.
const (
	VoiceAgentActive   VoiceAgentStatus = "active"
	VoiceAgentInactive VoiceAgentStatus = "inactive"
)

// VoiceAgent is the local listing row of a hosted assistant.
type VoiceAgent struct {
	ID          uint64           `gorm:"primaryKey"`
	UserID      uint64           `gorm:"index;not null"`
	ModelID     string           `gorm:"uniqueIndex;size:128;not null"`
	Name        string           `gorm:"size:200"`
	Status      VoiceAgentStatus `gorm:"type:varchar(20);default:'active'"`
	Language    string           `gorm:"size:16"`
	PhoneNumber string           `gorm:"size:32"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TableName overrides the default table name.
func (VoiceAgent) TableName() string {
	return "voice_agents"
}
