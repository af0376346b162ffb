package models

import "time"

// Profile holds the assistant identity of a studio.
// There is at most one profile per user, writes upsert on user_id.
type Profile struct {
	ID     uint64 `gorm:"primaryKey"`
	UserID uint64 `gorm:"uniqueIndex;not null"`

	OwnerName      string `gorm:"size:200"`
	ShopName       string `gorm:"size:200"`
	Timezone       string `gorm:"size:64"`
	AssistantName  string `gorm:"size:200"`
	WelcomeMessage string `gorm:"type:text"`
	Website        string `gorm:"size:255"`
	PhoneNumber    string `gorm:"size:32"`
	SupportEmail   string `gorm:"size:255"`

	// CompletedOnboarding gates the dashboard, set by the last onboarding write.
	CompletedOnboarding bool
	// ModelID references the hosted voice agent.
	ModelID string `gorm:"column:model_id;size:128"`

	DailyCallLimit      int
	VoicemailManagement bool
	AutomaticReminders  bool
	WaitlistManagement  bool

	// Idle reminders of the call settings. Only the idle time is sent to the hosted agent.
	IdleRemindersEnabled bool
	IdleReminderTime     int
	ReminderMessage      string `gorm:"type:text"`

	CreatedAt time.Time
	UpdatedAt time.Time
}
