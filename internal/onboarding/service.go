package onboarding

import (
	"context"
	"errors"
	"fmt"

	"github.com/Blackwork-AI/Blackwork-Dashboard/internal/auth"
	"github.com/Blackwork-AI/Blackwork-Dashboard/internal/config"
	"github.com/Blackwork-AI/Blackwork-Dashboard/internal/db/controller/agent"
	"github.com/Blackwork-AI/Blackwork-Dashboard/internal/db/controller/preference"
	"github.com/Blackwork-AI/Blackwork-Dashboard/internal/db/controller/profile"
	"github.com/Blackwork-AI/Blackwork-Dashboard/internal/db/models"
	"github.com/Blackwork-AI/Blackwork-Dashboard/internal/prompt"
	"github.com/Blackwork-AI/Blackwork-Dashboard/internal/retry"
	"github.com/Blackwork-AI/Blackwork-Dashboard/internal/synthflow"
)

// MsgSubmitFailed is shown for any failed write.
const MsgSubmitFailed = "Failed to save form data. Please try again."

var (
	// ErrInvalidForm is returned by Submit when a step does not validate.
	ErrInvalidForm = errors.New("onboarding form is invalid")
	// ErrSubmitFailed wraps the first failed write of Submit.
	ErrSubmitFailed = errors.New("onboarding submit failed")
	// ErrNoSession is returned when Submit is called without a signed in user.
	ErrNoSession = errors.New("onboarding requires a signed in user")
)

// PreferenceStore persists the operational preferences.
type PreferenceStore interface {
	Upsert(ctx context.Context, p *models.OptionalPreference) error
}

// ProfileStore reads and persists the studio profile.
type ProfileStore interface {
	Get(ctx context.Context, userID uint64) (*models.Profile, error)
	Upsert(ctx context.Context, p *models.Profile, columns ...string) error
}

// Assistants creates and updates hosted voice agents.
type Assistants interface {
	Create(ctx context.Context, a *synthflow.Assistant) (string, error)
	Update(ctx context.Context, modelID string, a *synthflow.Assistant) error
}

// AgentRecorder keeps the dashboard listing of created assistants.
type AgentRecorder interface {
	List(ctx context.Context, userID uint64) ([]models.VoiceAgent, error)
	Record(ctx context.Context, a *models.VoiceAgent) error
}

// Service runs the onboarding submit.
type Service struct {
	Preferences PreferenceStore
	Profiles    ProfileStore
	Assistants  Assistants
	Agents      AgentRecorder
	Synthflow   config.Synthflow
	Retry       retry.Config
}

// Submit validates every step and then writes, in order, the preferences, the
// hosted assistant and the completed profile. The first failed write stops the
// sequence. Every write is keyed on the user or the model id so submitting again converges.
func (s *Service) Submit(ctx context.Context, session auth.Session, w *Wizard) (string, error) {
	if !session.Valid() {
		return "", ErrNoSession
	}

	if !w.ValidateAll() {
		return "", ErrInvalidForm
	}

	d := w.Data
	rate, _ := ParseRate(d.HourlyRate)

	modelID, err := s.existingModelID(ctx, session.UserID)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrSubmitFailed, err)
	}

	pref := &models.OptionalPreference{
		UserID:               session.UserID,
		AppointmentType:      d.AppointmentType,
		OperatingHours:       d.OperatingHours,
		PiercingService:      d.PiercingServices,
		HourlyRate:           rate,
		SpecificInstructions: d.SpecificInstructions,
	}

	err = retry.Do(ctx, s.Retry, "save preferences", func(ctx context.Context) error {
		return StoreRejected(s.Preferences.Upsert(ctx, pref))
	})
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrSubmitFailed, err)
	}

	assistant := s.assistant(d, RateText(d.HourlyRate))

	if modelID != "" {
		err = retry.Do(ctx, s.Retry, "update assistant", func(ctx context.Context) error {
			return s.Assistants.Update(ctx, modelID, assistant)
		})
	} else {
		modelID, err = s.Assistants.Create(ctx, assistant)
	}

	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrSubmitFailed, err)
	}

	err = retry.Do(ctx, s.Retry, "record assistant", func(ctx context.Context) error {
		return StoreRejected(s.Agents.Record(ctx, &models.VoiceAgent{
			UserID:      session.UserID,
			ModelID:     modelID,
			Name:        d.AssistantName,
			Status:      models.VoiceAgentActive,
			Language:    d.Language,
			PhoneNumber: d.PhoneNumber,
		}))
	})
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrSubmitFailed, err)
	}

	prof := &models.Profile{
		UserID:              session.UserID,
		OwnerName:           d.OwnerName,
		ShopName:            d.ShopName,
		Timezone:            d.Timezone,
		AssistantName:       d.AssistantName,
		WelcomeMessage:      d.WelcomeMessage,
		Website:             d.Website,
		PhoneNumber:         d.PhoneNumber,
		SupportEmail:        d.SupportEmail,
		CompletedOnboarding: true,
		ModelID:             modelID,
		DailyCallLimit:      d.DailyCallLimit,
		VoicemailManagement: d.VoicemailManagement,
		AutomaticReminders:  d.AutomaticReminders,
		WaitlistManagement:  d.WaitlistManagement,
	}

	if prof.Timezone == "" {
		prof.Timezone = "UTC"
	}

	err = retry.Do(ctx, s.Retry, "save profile", func(ctx context.Context) error {
		return StoreRejected(s.Profiles.Upsert(ctx, prof))
	})
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrSubmitFailed, err)
	}

	return modelID, nil
}

// StoreRejected marks the store errors that repeating a write can't fix as permanent.
func StoreRejected(err error) error {
	return retry.PermanentOn(err,
		preference.ErrDBNil, preference.ErrUserIDEmpty, preference.ErrInvalidAppointmentType,
		profile.ErrDBNil, profile.ErrUserIDEmpty,
		agent.ErrDBNil, agent.ErrUserIDEmpty, agent.ErrModelIDEmpty,
	)
}

// existingModelID returns the assistant a previous submit already created.
// The profile is checked first, then the listing written right after create.
func (s *Service) existingModelID(ctx context.Context, userID uint64) (string, error) {
	p, err := s.Profiles.Get(ctx, userID)

	switch {
	case err == nil && p.ModelID != "":
		return p.ModelID, nil
	case err != nil && !errors.Is(err, profile.ErrProfileNotFound):
		return "", err
	}

	agents, err := s.Agents.List(ctx, userID)
	if err != nil {
		return "", err
	}

	if len(agents) > 0 {
		return agents[0].ModelID, nil
	}

	return "", nil
}

// assistant builds the create payload of d.
func (s *Service) assistant(d FormData, rate string) *synthflow.Assistant {
	llm := s.Synthflow.LLM
	if llm == "" {
		llm = synthflow.DefaultLLM
	}

	callType := d.CallHandling
	if callType == "" {
		callType = synthflow.TypeInbound
	}

	language := d.Language
	if language == "" {
		language = DefaultLanguage
	}

	return &synthflow.Assistant{
		Type:        callType,
		Name:        d.AssistantName,
		PhoneNumber: d.PhoneNumber,
		Agent: synthflow.Agent{
			LLM:             llm,
			Language:        language,
			GreetingMessage: d.WelcomeMessage,
			VoiceID:         s.Synthflow.DefaultVoiceID,
			Prompt:          prompt.Generate(d.OperatingHours, rate, d.SpecificInstructions),
		},
	}
}
