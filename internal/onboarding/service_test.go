package onboarding

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Blackwork-AI/Blackwork-Dashboard/internal/auth"
	"github.com/Blackwork-AI/Blackwork-Dashboard/internal/config"
	"github.com/Blackwork-AI/Blackwork-Dashboard/internal/db/controller/agent"
	"github.com/Blackwork-AI/Blackwork-Dashboard/internal/db/controller/preference"
	"github.com/Blackwork-AI/Blackwork-Dashboard/internal/db/controller/profile"
	"github.com/Blackwork-AI/Blackwork-Dashboard/internal/db/dbtest"
	"github.com/Blackwork-AI/Blackwork-Dashboard/internal/db/models"
	"github.com/Blackwork-AI/Blackwork-Dashboard/internal/prompt"
	"github.com/Blackwork-AI/Blackwork-Dashboard/internal/retry"
	"github.com/Blackwork-AI/Blackwork-Dashboard/internal/synthflow"
)

var errRemote = errors.New("remote unavailable")

// calls records the order of writes across all fakes.
type calls []string

type fakePreferences struct {
	calls *calls
	err   error
	saved *models.OptionalPreference
}

func (f *fakePreferences) Upsert(_ context.Context, p *models.OptionalPreference) error {
	*f.calls = append(*f.calls, "preference")
	f.saved = p

	return f.err
}

type fakeProfiles struct {
	calls    *calls
	existing *models.Profile
	saved    *models.Profile
}

func (f *fakeProfiles) Get(_ context.Context, _ uint64) (*models.Profile, error) {
	if f.existing == nil {
		return nil, profile.ErrProfileNotFound
	}

	return f.existing, nil
}

func (f *fakeProfiles) Upsert(_ context.Context, p *models.Profile, _ ...string) error {
	*f.calls = append(*f.calls, "profile")
	f.saved = p

	return nil
}

type fakeAssistants struct {
	calls     *calls
	createErr error
	// updateFailures fail the first n updates.
	updateFailures int
	created        *synthflow.Assistant
	updated        map[string]*synthflow.Assistant
}

func (f *fakeAssistants) Create(_ context.Context, a *synthflow.Assistant) (string, error) {
	*f.calls = append(*f.calls, "create")
	if f.createErr != nil {
		return "", f.createErr
	}

	f.created = a

	return "model-1", nil
}

func (f *fakeAssistants) Update(_ context.Context, modelID string, a *synthflow.Assistant) error {
	*f.calls = append(*f.calls, "update")
	if f.updateFailures > 0 {
		f.updateFailures--
		return errRemote
	}

	if f.updated == nil {
		f.updated = map[string]*synthflow.Assistant{}
	}

	f.updated[modelID] = a

	return nil
}

type fakeAgents struct {
	calls    *calls
	err      error
	recorded []models.VoiceAgent
}

func (f *fakeAgents) List(_ context.Context, _ uint64) ([]models.VoiceAgent, error) {
	return f.recorded, nil
}

func (f *fakeAgents) Record(_ context.Context, a *models.VoiceAgent) error {
	*f.calls = append(*f.calls, "agent")
	if f.err != nil {
		return f.err
	}

	f.recorded = append([]models.VoiceAgent{*a}, f.recorded...)

	return nil
}

type fixture struct {
	calls       *calls
	preferences *fakePreferences
	profiles    *fakeProfiles
	assistants  *fakeAssistants
	agents      *fakeAgents
	service     *Service
}

func newFixture() *fixture {
	c := &calls{}
	f := &fixture{
		calls:       c,
		preferences: &fakePreferences{calls: c},
		profiles:    &fakeProfiles{calls: c},
		assistants:  &fakeAssistants{calls: c},
		agents:      &fakeAgents{calls: c},
	}

	f.service = &Service{
		Preferences: f.preferences,
		Profiles:    f.profiles,
		Assistants:  f.assistants,
		Agents:      f.agents,
		Synthflow:   config.Synthflow{DefaultVoiceID: "SAz9YHcvj6GT2YYXdXww"},
	}

	return f
}

var session = auth.Session{UserID: 42, Email: "kat@example.com"} //nolint:gochecknoglobals

func TestSubmitWritesInOrder(t *testing.T) {
	f := newFixture()
	w := validWizard()
	w.Data.SpecificInstructions = "No face tattoos."

	modelID, err := f.service.Submit(context.Background(), session, w)
	require.NoError(t, err)
	assert.Equal(t, "model-1", modelID)
	assert.Equal(t, calls{"preference", "create", "agent", "profile"}, *f.calls)

	assert.Equal(t, uint64(42), f.preferences.saved.UserID)
	assert.True(t, decimal.NewFromInt(150).Equal(f.preferences.saved.HourlyRate))
	assert.Equal(t, models.AppointmentTypeBoth, f.preferences.saved.AppointmentType)

	a := f.assistants.created
	assert.Equal(t, "inbound", a.Type)
	assert.Equal(t, "Roxy", a.Name)
	assert.Equal(t, "(555) 123-4567", a.PhoneNumber)
	assert.Equal(t, "synthflow", a.Agent.LLM)
	assert.Equal(t, "en-US", a.Agent.Language)
	assert.Equal(t, DefaultWelcomeMessage, a.Agent.GreetingMessage)
	assert.Equal(t, "SAz9YHcvj6GT2YYXdXww", a.Agent.VoiceID)
	assert.Equal(t, prompt.Generate(w.Data.OperatingHours, "150", "No face tattoos."), a.Agent.Prompt)

	p := f.profiles.saved
	assert.True(t, p.CompletedOnboarding)
	assert.Equal(t, "model-1", p.ModelID)
	assert.Equal(t, "Black Rose Tattoo", p.ShopName)
	assert.Equal(t, "UTC", p.Timezone)
}

func TestSubmitStopsOnAssistantFailure(t *testing.T) {
	f := newFixture()
	f.assistants.createErr = errRemote

	_, err := f.service.Submit(context.Background(), session, validWizard())
	require.ErrorIs(t, err, ErrSubmitFailed)
	require.ErrorIs(t, err, errRemote)

	assert.Equal(t, calls{"preference", "create"}, *f.calls)
	assert.Nil(t, f.profiles.saved)
}

func TestSubmitStopsOnPreferenceFailure(t *testing.T) {
	f := newFixture()
	f.preferences.err = errRemote

	_, err := f.service.Submit(context.Background(), session, validWizard())
	require.ErrorIs(t, err, ErrSubmitFailed)
	assert.Equal(t, calls{"preference"}, *f.calls)
}

func TestSubmitKeepsTypedRateInPrompt(t *testing.T) {
	f := newFixture()
	w := validWizard()
	w.Data.HourlyRate = "$25.50"

	_, err := f.service.Submit(context.Background(), session, w)
	require.NoError(t, err)

	assert.True(t, decimal.RequireFromString("25.5").Equal(f.preferences.saved.HourlyRate))
	assert.Equal(t, prompt.Generate(w.Data.OperatingHours, "25.50", ""), f.assistants.created.Agent.Prompt)
	assert.Contains(t, f.assistants.created.Agent.Prompt, "$25.50")
}

func TestSubmitRejectedStoreWriteIsNotRetried(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(f *fixture)
		wantCalls calls
		wantErr   error
	}{
		{
			name:      "invalid appointment type",
			mutate:    func(f *fixture) { f.preferences.err = preference.ErrInvalidAppointmentType },
			wantCalls: calls{"preference"},
			wantErr:   preference.ErrInvalidAppointmentType,
		},
		{
			name:      "agent without model id",
			mutate:    func(f *fixture) { f.agents.err = agent.ErrModelIDEmpty },
			wantCalls: calls{"preference", "create", "agent"},
			wantErr:   agent.ErrModelIDEmpty,
		},
		{
			name:      "transient failure is retried",
			mutate:    func(f *fixture) { f.preferences.err = errRemote },
			wantCalls: calls{"preference", "preference", "preference"},
			wantErr:   errRemote,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			f.service.Retry = retry.Config{MaxRetries: 2, InitialInterval: time.Millisecond, MaxInterval: time.Millisecond}
			tt.mutate(f)

			_, err := f.service.Submit(context.Background(), session, validWizard())
			require.ErrorIs(t, err, ErrSubmitFailed)
			require.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, tt.wantCalls, *f.calls)
		})
	}
}

func TestSubmitWithoutHoursWritesNothing(t *testing.T) {
	f := newFixture()
	w := validWizard()
	w.Data.OperatingHours = nil

	_, err := f.service.Submit(context.Background(), session, w)
	require.ErrorIs(t, err, ErrInvalidForm)
	assert.Empty(t, *f.calls)
	assert.Equal(t, StepPreferences, w.Step)
	assert.Equal(t, MsgOperatingHoursInvalid, w.Errors["operatingHours"])
}

func TestSubmitInvalidFormWritesNothing(t *testing.T) {
	f := newFixture()
	w := validWizard()
	w.Data.SupportEmail = "nope"

	_, err := f.service.Submit(context.Background(), session, w)
	require.ErrorIs(t, err, ErrInvalidForm)
	assert.Empty(t, *f.calls)
	assert.Equal(t, StepAssistant, w.Step)
	assert.Equal(t, MsgSupportEmailInvalid, w.Errors["supportEmail"])
}

func TestSubmitWithoutSession(t *testing.T) {
	f := newFixture()

	_, err := f.service.Submit(context.Background(), auth.Session{}, validWizard())
	require.ErrorIs(t, err, ErrNoSession)
	assert.Empty(t, *f.calls)
}

func TestSubmitUpdatesExistingAssistant(t *testing.T) {
	f := newFixture()
	f.profiles.existing = &models.Profile{UserID: 42, ModelID: "model-9"}
	f.assistants.updateFailures = 1
	f.service.Retry = retry.Config{MaxRetries: 2}

	modelID, err := f.service.Submit(context.Background(), session, validWizard())
	require.NoError(t, err)
	assert.Equal(t, "model-9", modelID)
	assert.Equal(t, calls{"preference", "update", "update", "agent", "profile"}, *f.calls)
	assert.Contains(t, f.assistants.updated, "model-9")
}

func TestResubmitReusesCreatedAssistant(t *testing.T) {
	f := newFixture()
	f.agents.recorded = []models.VoiceAgent{{UserID: 42, ModelID: "model-1"}}

	_, err := f.service.Submit(context.Background(), session, validWizard())
	require.NoError(t, err)
	assert.NotContains(t, *f.calls, "create")
	assert.Contains(t, f.assistants.updated, "model-1")
}

func TestSubmitWithStores(t *testing.T) {
	db := dbtest.Open(t, &models.Profile{}, &models.OptionalPreference{}, &models.VoiceAgent{})
	c := &calls{}
	assistants := &fakeAssistants{calls: c}

	s := &Service{
		Preferences: preference.Store{DB: db},
		Profiles:    profile.Store{DB: db},
		Assistants:  assistants,
		Agents:      agent.Store{DB: db},
	}

	ctx := context.Background()
	w := validWizard()

	_, err := s.Submit(ctx, session, w)
	require.NoError(t, err)

	_, err = s.Submit(ctx, session, w)
	require.NoError(t, err)
	assert.Equal(t, calls{"create", "update"}, *c)

	p, err := profile.Get(ctx, db, 42)
	require.NoError(t, err)
	assert.True(t, p.CompletedOnboarding)
	assert.Equal(t, "model-1", p.ModelID)

	agents, err := agent.List(ctx, db, 42)
	require.NoError(t, err)
	assert.Len(t, agents, 1)

	pref, err := preference.Get(ctx, db, 42)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(150).Equal(pref.HourlyRate))
}
