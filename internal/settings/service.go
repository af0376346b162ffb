package settings

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"

	"github.com/Blackwork-AI/Blackwork-Dashboard/internal/auth"
	"github.com/Blackwork-AI/Blackwork-Dashboard/internal/db/controller/preference"
	"github.com/Blackwork-AI/Blackwork-Dashboard/internal/db/controller/profile"
	"github.com/Blackwork-AI/Blackwork-Dashboard/internal/db/models"
	"github.com/Blackwork-AI/Blackwork-Dashboard/internal/onboarding"
	"github.com/Blackwork-AI/Blackwork-Dashboard/internal/prompt"
	"github.com/Blackwork-AI/Blackwork-Dashboard/internal/retry"
	"github.com/Blackwork-AI/Blackwork-Dashboard/internal/synthflow"
)

// Messages of the settings screen.
const (
	MsgSaveFailed             = "Failed to save settings. Please try again later."
	MsgInvalidValue           = "Please enter a valid value"
	MsgAssistantNameRequired  = onboarding.MsgAssistantNameRequired
	MsgWelcomeMessageRequired = onboarding.MsgWelcomeMessageRequired
	MsgSupportEmailInvalid    = onboarding.MsgSupportEmailInvalid
	MsgOutOfRange             = "Value is out of range"
	MsgUnsupportedOption      = "Please choose one of the listed options"
)

var (
	// ErrNoSession is returned when the caller is not signed in.
	ErrNoSession = errors.New("settings require a signed in user")
	// ErrNoAssistant is returned by Save before onboarding created an assistant.
	ErrNoAssistant = errors.New("no assistant to update")
	// ErrInvalidForm is returned by Save when validation fails.
	ErrInvalidForm = errors.New("settings form is invalid")
	// ErrSaveFailed wraps the first failed write of Save.
	ErrSaveFailed = errors.New("settings save failed")
)

// PreferenceStore reads and writes the operational preferences.
type PreferenceStore interface {
	Get(ctx context.Context, userID uint64) (*models.OptionalPreference, error)
	Upsert(ctx context.Context, p *models.OptionalPreference) error
}

// ProfileStore reads and writes the studio profile.
type ProfileStore interface {
	Get(ctx context.Context, userID uint64) (*models.Profile, error)
	Upsert(ctx context.Context, p *models.Profile, columns ...string) error
}

// Assistants reads and updates the hosted voice agent.
type Assistants interface {
	Get(ctx context.Context, modelID string) (*synthflow.Assistant, error)
	Update(ctx context.Context, modelID string, a *synthflow.Assistant) error
}

// Service loads and saves the settings screen.
type Service struct {
	Preferences PreferenceStore
	Profiles    ProfileStore
	Assistants  Assistants
	Retry       retry.Config
}

// Load merges the stored profile, preferences and hosted assistant over the defaults.
// A missing profile or preference row keeps the defaults. An unreachable assistant
// is logged and its fields keep the defaults too.
func (s *Service) Load(ctx context.Context, session auth.Session) (*Editor, error) {
	if !session.Valid() {
		return nil, ErrNoSession
	}

	form := DefaultForm()

	prof, err := s.Profiles.Get(ctx, session.UserID)
	if err != nil && !errors.Is(err, profile.ErrProfileNotFound) {
		return nil, err
	}

	if prof != nil {
		mergeProfile(&form, prof)
	}

	pref, err := s.Preferences.Get(ctx, session.UserID)
	if err != nil && !errors.Is(err, preference.ErrPreferenceNotFound) {
		return nil, err
	}

	if pref != nil {
		mergePreference(&form, pref)
	}

	if prof != nil && prof.ModelID != "" {
		a, err := s.Assistants.Get(ctx, prof.ModelID)
		if err != nil {
			log.Warn().Err(err).Uint64("user_id", session.UserID).Msg("can't load assistant settings")
		} else {
			mergeAgent(&form, &a.Agent)
		}
	}

	return NewEditor(form), nil
}

func mergeProfile(f *Form, p *models.Profile) {
	setIf(&f.AssistantName, p.AssistantName)
	setIf(&f.WelcomeMessage, p.WelcomeMessage)
	setIf(&f.SupportEmail, p.SupportEmail)
	setIf(&f.Timezone, p.Timezone)
	setIf(&f.ReminderMessage, p.ReminderMessage)

	f.IdleRemindersEnabled = p.IdleRemindersEnabled

	if p.IdleReminderTime > 0 {
		f.IdleReminderTime = p.IdleReminderTime
	}
}

func mergePreference(f *Form, p *models.OptionalPreference) {
	if p.AppointmentType != "" {
		f.AppointmentType = p.AppointmentType
	}

	if !p.HourlyRate.IsZero() {
		f.HourlyRate = p.HourlyRate.String()
	}

	setIf(&f.SpecificInstructions, p.SpecificInstructions)

	if len(p.OperatingHours) > 0 {
		f.OperatingHours = p.OperatingHours
	}

	f.PiercingServices = p.PiercingService
}

func mergeAgent(f *Form, a *synthflow.Agent) {
	setIf(&f.Language, a.Language)
	setIf(&f.PatienceLevel, a.PatienceLevel)
	setIf(&f.VoiceID, a.VoiceID)

	if a.VoiceStability != nil {
		f.Stability = *a.VoiceStability
	}

	if a.VoiceSimilarityBoost != nil {
		f.Similarity = *a.VoiceSimilarityBoost
	}

	if a.VoiceStyle != nil {
		f.StyleExaggeration = *a.VoiceStyle
	}

	if a.VoiceOptimiseStreamingLatency != nil {
		f.LatencyOptimization = *a.VoiceOptimiseStreamingLatency
	}

	if a.VoiceUseSpeakerBoost != nil {
		f.SpeakerBoost = *a.VoiceUseSpeakerBoost
	}

	if a.RingPauseSeconds != nil {
		f.RingDuration = *a.RingPauseSeconds
	}

	if a.InitialPauseSeconds != nil {
		f.PauseBeforeSpeaking = *a.InitialPauseSeconds
	}

	if a.AllowedIdleTimeSeconds != nil && f.IdleRemindersEnabled {
		f.IdleReminderTime = *a.AllowedIdleTimeSeconds
	}
}

func setIf(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

// Validate checks the form and replaces the editor errors. It reports whether the form is valid.
func (e *Editor) Validate() bool {
	e.Errors = map[string]string{}

	err := auth.Validator().Struct(e.Form)

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			e.Errors[jsonName(fe.Field())] = message(fe)
		}
	}

	if !models.FullWeek(e.Form.OperatingHours) {
		e.Errors["operatingHours"] = onboarding.MsgOperatingHoursInvalid
	}

	return len(e.Errors) == 0
}

// jsonName lower cases the first letter of a struct field name.
func jsonName(field string) string {
	if field == "" {
		return field
	}

	return strings.ToLower(field[:1]) + field[1:]
}

func message(fe validator.FieldError) string {
	switch {
	case fe.Field() == "AssistantName":
		return MsgAssistantNameRequired
	case fe.Field() == "WelcomeMessage":
		return MsgWelcomeMessageRequired
	case fe.Field() == "SupportEmail":
		return MsgSupportEmailInvalid
	case fe.Tag() == "oneof":
		return MsgUnsupportedOption
	default:
		return MsgOutOfRange
	}
}

// Save validates e and writes, in order, the preferences, the hosted assistant
// and the profile. Nothing is written when e has no changes. The change flag is
// cleared only when all three writes succeed.
func (s *Service) Save(ctx context.Context, session auth.Session, e *Editor) error {
	if !session.Valid() {
		return ErrNoSession
	}

	if !e.HasChanges() {
		return nil
	}

	if !e.Validate() {
		return ErrInvalidForm
	}

	prof, err := s.Profiles.Get(ctx, session.UserID)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrSaveFailed, err)
	}

	if prof.ModelID == "" {
		return fmt.Errorf("%w: %w", ErrSaveFailed, ErrNoAssistant)
	}

	f := e.Form

	// an unparsable rate is stored as 0 and the prompt falls back to generic pricing
	rate, _ := onboarding.ParseRate(f.HourlyRate)

	rateText := ""
	if rate.IsPositive() {
		rateText = onboarding.RateText(f.HourlyRate)
	}

	pref := &models.OptionalPreference{
		UserID:               session.UserID,
		AppointmentType:      f.AppointmentType,
		OperatingHours:       f.OperatingHours,
		PiercingService:      f.PiercingServices,
		HourlyRate:           rate,
		SpecificInstructions: f.SpecificInstructions,
	}

	err = retry.Do(ctx, s.Retry, "save preferences", func(ctx context.Context) error {
		return onboarding.StoreRejected(s.Preferences.Upsert(ctx, pref))
	})
	if err != nil {
		return fmt.Errorf("%w: %w", ErrSaveFailed, err)
	}

	assistant := Assistant(f, rateText)

	err = retry.Do(ctx, s.Retry, "update assistant", func(ctx context.Context) error {
		return s.Assistants.Update(ctx, prof.ModelID, assistant)
	})
	if err != nil {
		return fmt.Errorf("%w: %w", ErrSaveFailed, err)
	}

	updated := &models.Profile{
		UserID:              session.UserID,
		AssistantName:       f.AssistantName,
		WelcomeMessage:      f.WelcomeMessage,
		SupportEmail:        f.SupportEmail,
		Timezone:            f.Timezone,
		CompletedOnboarding: true,

		IdleRemindersEnabled: f.IdleRemindersEnabled,
		IdleReminderTime:     f.IdleReminderTime,
		ReminderMessage:      f.ReminderMessage,
	}

	err = retry.Do(ctx, s.Retry, "save profile", func(ctx context.Context) error {
		return onboarding.StoreRejected(s.Profiles.Upsert(ctx, updated, profile.SettingsColumns...))
	})
	if err != nil {
		return fmt.Errorf("%w: %w", ErrSaveFailed, err)
	}

	e.MarkSaved()

	return nil
}

// Assistant builds the update payload of f with the regenerated prompt.
// The idle time is only sent while idle reminders are on.
func Assistant(f Form, hourlyRate string) *synthflow.Assistant {
	var idle *int
	if f.IdleRemindersEnabled {
		idle = synthflow.Int(f.IdleReminderTime)
	}

	return &synthflow.Assistant{
		Type: synthflow.TypeInbound,
		Name: f.AssistantName,
		Agent: synthflow.Agent{
			GreetingMessage:               f.WelcomeMessage,
			Prompt:                        prompt.Generate(f.OperatingHours, hourlyRate, f.SpecificInstructions),
			Language:                      f.Language,
			PatienceLevel:                 f.PatienceLevel,
			VoiceID:                       f.VoiceID,
			VoiceStability:                synthflow.Float(f.Stability),
			VoiceStyle:                    synthflow.Float(f.StyleExaggeration),
			VoiceSimilarityBoost:          synthflow.Float(f.Similarity),
			VoiceOptimiseStreamingLatency: synthflow.Float(f.LatencyOptimization),
			VoiceUseSpeakerBoost:          synthflow.Bool(f.SpeakerBoost),
			RingPauseSeconds:              synthflow.Int(f.RingDuration),
			InitialPauseSeconds:           synthflow.Int(f.PauseBeforeSpeaking),
			AllowedIdleTimeSeconds:        idle,
		},
	}
}
