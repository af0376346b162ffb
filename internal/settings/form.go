// Package settings loads, edits and saves the assistant settings of a studio.
package settings

import (
	"github.com/Blackwork-AI/Blackwork-Dashboard/internal/db/models"
	"github.com/Blackwork-AI/Blackwork-Dashboard/internal/onboarding"
)

// Patience levels of the agent.
const (
	PatienceLow    = "low"
	PatienceMedium = "medium"
	PatienceHigh   = "high"
)

// DefaultReminderMessage is spoken when the caller goes quiet.
const DefaultReminderMessage = "I'm still here. Do you have any questions?"

// Form is the settings working copy.
type Form struct {
	// General
	AssistantName        string                  `json:"assistantName" validate:"required"`
	WelcomeMessage       string                  `json:"welcomeMessage" validate:"required"`
	SupportEmail         string                  `json:"supportEmail" validate:"omitempty,email_address"`
	Timezone             string                  `json:"timezone"`
	Language             string                  `json:"language" validate:"oneof=en-GB en-US de es it fr"`
	AppointmentType      models.AppointmentType  `json:"appointmentType" validate:"oneof=appointments walkins both"`
	HourlyRate           string                  `json:"hourlyRate"`
	SpecificInstructions string                  `json:"specificInstructions"`
	PiercingServices     bool                    `json:"piercingServices"`
	OperatingHours       []models.OperatingHours `json:"operatingHours"`

	// Voice
	VoiceID             string  `json:"voiceId"`
	PatienceLevel       string  `json:"patienceLevel" validate:"oneof=low medium high"`
	Stability           float64 `json:"stability" validate:"gte=0,lte=1"`
	StyleExaggeration   float64 `json:"styleExaggeration" validate:"gte=0,lte=1"`
	Similarity          float64 `json:"similarity" validate:"gte=0,lte=1"`
	LatencyOptimization float64 `json:"latencyOptimization" validate:"gte=0,lte=10"`
	SpeakerBoost        bool    `json:"speakerBoost"`

	// Call
	PauseBeforeSpeaking  int    `json:"pauseBeforeSpeaking" validate:"gte=0,lte=30"`
	RingDuration         int    `json:"ringDuration" validate:"gte=1,lte=30"`
	IdleRemindersEnabled bool   `json:"idleRemindersEnabled"`
	IdleReminderTime     int    `json:"idleReminderTime" validate:"gte=1,lte=15"`
	ReminderMessage      string `json:"reminderMessage"`
}

// DefaultForm returns the values shown before anything is loaded.
func DefaultForm() Form {
	return Form{
		AssistantName:    "My Voice Assistant",
		WelcomeMessage:   onboarding.DefaultWelcomeMessage,
		Timezone:         "UTC",
		Language:         onboarding.DefaultLanguage,
		AppointmentType:  models.AppointmentTypeWalkins,
		OperatingHours:   models.DefaultOperatingHours(),
		PatienceLevel:    PatienceMedium,
		Stability:        0.5,  //nolint:mnd
		Similarity:       0.75, //nolint:mnd
		RingDuration:     1,
		IdleReminderTime: 6, //nolint:mnd
		ReminderMessage:  DefaultReminderMessage,
	}
}
