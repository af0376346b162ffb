// Package settings serves the assistant settings page and the voice picker API.
package settings

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/Blackwork-AI/Blackwork-Dashboard/internal/auth"
	"github.com/Blackwork-AI/Blackwork-Dashboard/internal/calendar"
	"github.com/Blackwork-AI/Blackwork-Dashboard/internal/config"
	"github.com/Blackwork-AI/Blackwork-Dashboard/internal/db/controller/preference"
	"github.com/Blackwork-AI/Blackwork-Dashboard/internal/db/controller/profile"
	"github.com/Blackwork-AI/Blackwork-Dashboard/internal/elevenlabs"
	"github.com/Blackwork-AI/Blackwork-Dashboard/internal/onboarding"
	"github.com/Blackwork-AI/Blackwork-Dashboard/internal/retry"
	"github.com/Blackwork-AI/Blackwork-Dashboard/internal/settings"
	"github.com/Blackwork-AI/Blackwork-Dashboard/internal/synthflow"
	"github.com/Blackwork-AI/Blackwork-Dashboard/internal/web/handler"
	authmiddleware "github.com/Blackwork-AI/Blackwork-Dashboard/internal/web/middleware/auth"
	"github.com/Blackwork-AI/Blackwork-Dashboard/internal/web/navigation"
)

const (
	// Path is the settings page.
	Path = handler.RootPath + "settings"

	// VoicesPath lists the selectable voices.
	VoicesPath = handler.APIPath + "voices"

	// PreviewPath streams a voice sample.
	PreviewPath = VoicesPath + "/:id/preview"

	// TemplateName is the name of the settings template.
	TemplateName = "settings/settings"

	// Messages of the page and the voice API.
	MsgLoadFailed      = "Failed to load settings. Please try again later."
	MsgNoAssistant     = "Finish the onboarding before changing settings."
	MsgInvalidSettings = "Please correct the highlighted fields."
	MsgVoicesFailed    = "Failed to load voices"
	MsgPreviewFailed   = "Failed to load voice preview"
	MsgVoicesDisabled  = "Voice previews are not configured"
)

// Editor loads and saves the settings form, implemented by settings.Service.
type Editor interface {
	Load(ctx context.Context, session auth.Session) (*settings.Editor, error)
	Save(ctx context.Context, session auth.Session, e *settings.Editor) error
}

// Voices lists and previews voices, implemented by elevenlabs.Client.
type Voices interface {
	ListVoices(ctx context.Context) ([]elevenlabs.Voice, error)
	Preview(ctx context.Context, voiceID string) (io.ReadCloser, string, error)
}

// Calendars reads the stored calendar connections, implemented by calendar.Service.
type Calendars interface {
	Connection(ctx context.Context, provider string, userID uint64) (*calendar.Connection, error)
}

// Service is the settings handler service.
type Service struct {
	handler.Service
	cfg       *config.Config
	editor    Editor
	voices    Voices
	calendars Calendars
	providers []string
}

// Handler is the settings handler.
var Handler = Service{}

// Init wires the page to the stores, the voice agent platform and the voice catalogue.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB) error {
	if app == nil || cfg == nil || db == nil {
		return errors.New(handler.ErrNilACDFatalLogMsg)
	}

	s.cfg = cfg
	s.editor = &settings.Service{
		Preferences: preference.Store{DB: db},
		Profiles:    profile.Store{DB: db},
		Assistants:  synthflow.New(cfg.Synthflow),
		Retry:       retry.Default(),
	}
	s.voices = elevenlabs.New(cfg.ElevenLabs)

	providers := calendar.Providers(cfg.Calendar)
	s.calendars = &calendar.Service{Providers: providers, DB: db}

	for _, name := range []string{calendar.ProviderGoogle, calendar.ProviderSquare} {
		if _, ok := providers[name]; ok {
			s.providers = append(s.providers, name)
		}
	}

	s.register(app)

	return nil
}

func (s *Service) register(app *fiber.App) {
	app.Get(Path, authmiddleware.RequireSession, s.Get)
	app.Post(Path, authmiddleware.RequireSession, s.Post)
	app.Get(VoicesPath, authmiddleware.RequireSession, s.ListVoices)
	app.Get(PreviewPath, authmiddleware.RequireSession, s.Preview)
}

// Get renders the stored settings.
func (s *Service) Get(c *fiber.Ctx) error {
	sess, _ := auth.SessionFrom(c)

	e, err := s.editor.Load(c.UserContext(), sess)
	if err != nil {
		log.Error().Err(err).Uint64("user_id", sess.UserID).Msg("failed to load settings")

		if handler.WantsJSON(c) {
			return handler.JSONError(c, fiber.StatusInternalServerError, MsgLoadFailed)
		}

		return c.Status(fiber.StatusInternalServerError).Render(TemplateName, fiber.Map{
			"Navigation": navigation.NewContext("Settings", navigation.PageSettings),
			"error":      MsgLoadFailed,
		}, handler.BaseLayout)
	}

	return s.render(c, sess, e, "", c.Query("saved") != "")
}

// Post applies the posted fields over the stored settings and saves them.
// Fields that are not posted keep their stored value.
func (s *Service) Post(c *fiber.Ctx) error {
	sess, _ := auth.SessionFrom(c)

	values, err := postedValues(c)
	if err != nil {
		log.Debug().Err(err).Msg("failed to decode settings form")

		if handler.WantsJSON(c) {
			return handler.JSONError(c, fiber.StatusBadRequest, MsgInvalidSettings)
		}

		return c.Redirect(Path)
	}

	e, err := s.editor.Load(c.UserContext(), sess)
	if err != nil {
		log.Error().Err(err).Uint64("user_id", sess.UserID).Msg("failed to load settings")

		if handler.WantsJSON(c) {
			return handler.JSONError(c, fiber.StatusInternalServerError, MsgLoadFailed)
		}

		return c.Redirect(Path)
	}

	e.Apply(values)

	if len(e.Errors) > 0 {
		return s.render(c, sess, e, MsgInvalidSettings, false)
	}

	err = s.editor.Save(c.UserContext(), sess, e)

	switch {
	case errors.Is(err, settings.ErrInvalidForm):
		return s.render(c, sess, e, MsgInvalidSettings, false)
	case errors.Is(err, settings.ErrNoAssistant):
		return s.render(c, sess, e, MsgNoAssistant, false)
	case err != nil:
		log.Error().Err(err).Uint64("user_id", sess.UserID).Msg("settings save failed")
		return s.render(c, sess, e, settings.MsgSaveFailed, false)
	}

	log.Info().Uint64("user_id", sess.UserID).Msg("settings saved")

	if handler.WantsJSON(c) {
		return c.JSON(fiber.Map{"settings": e, "saved": true})
	}

	return c.Redirect(Path + "?saved=1")
}

// postedValues flattens the posted form or JSON object into field values.
// Repeated form keys keep the last value, so a hidden "false" before a checkbox works.
func postedValues(c *fiber.Ctx) (map[string]string, error) {
	values := map[string]string{}

	if handler.WantsJSON(c) && len(c.Body()) > 0 {
		var raw map[string]any
		if err := c.BodyParser(&raw); err != nil {
			return nil, err
		}

		for k, v := range raw {
			if v == nil {
				continue
			}

			values[k] = fmt.Sprint(v)
		}

		return values, nil
	}

	c.Request().PostArgs().VisitAll(func(k, v []byte) {
		values[string(k)] = string(v)
	})

	return values, nil
}

func (s *Service) statuses(ctx context.Context, userID uint64) []calendar.Status {
	out := make([]calendar.Status, 0, len(s.providers))

	for _, name := range s.providers {
		conn, err := s.calendars.Connection(ctx, name, userID)
		if err != nil {
			if !errors.Is(err, calendar.ErrNotConnected) {
				log.Warn().Err(err).Str("provider", name).Uint64("user_id", userID).Msg("failed to load calendar connection")
			}

			out = append(out, calendar.Status{Provider: name})

			continue
		}

		out = append(out, conn.Status())
	}

	return out
}

func (s *Service) render(c *fiber.Ctx, sess auth.Session, e *settings.Editor, msg string, saved bool) error {
	status := fiber.StatusOK
	if msg != "" {
		status = fiber.StatusBadRequest
		if msg == settings.MsgSaveFailed {
			status = fiber.StatusInternalServerError
		}
	}

	if handler.WantsJSON(c) {
		if msg != "" {
			return c.Status(status).JSON(handler.ErrorResponse{Error: msg, Fields: e.Errors})
		}

		return c.JSON(fiber.Map{"settings": e})
	}

	bind := fiber.Map{
		"Navigation": navigation.NewContext("Settings", navigation.PageSettings),
		"Editor":     e,
		"Languages":  onboarding.Languages,
		"Calendars":  s.statuses(c.UserContext(), sess.UserID),
		"Saved":      saved,
	}

	if msg != "" {
		bind["error"] = msg
	}

	return c.Status(status).Render(TemplateName, bind, handler.BaseLayout)
}

// ListVoices returns the voices matching the accent, gender and search query.
func (s *Service) ListVoices(c *fiber.Ctx) error {
	var f elevenlabs.Filter
	if err := c.QueryParser(&f); err != nil {
		return handler.JSONError(c, fiber.StatusBadRequest, MsgVoicesFailed)
	}

	voices, err := s.voices.ListVoices(c.UserContext())
	if err != nil {
		return voiceError(c, err, MsgVoicesFailed)
	}

	return c.JSON(fiber.Map{"voices": f.Apply(voices)})
}

// Preview streams the sample sentence spoken by the voice.
func (s *Service) Preview(c *fiber.Ctx) error {
	body, contentType, err := s.voices.Preview(c.UserContext(), c.Params("id"))
	if err != nil {
		return voiceError(c, err, MsgPreviewFailed)
	}

	c.Set(fiber.HeaderContentType, contentType)
	c.Set(fiber.HeaderCacheControl, "private, max-age=3600")

	// fasthttp closes the stream once it is written.
	return c.SendStream(body)
}

func voiceError(c *fiber.Ctx, err error, msg string) error {
	switch {
	case errors.Is(err, elevenlabs.ErrClientNotInitialized):
		return handler.JSONError(c, fiber.StatusServiceUnavailable, MsgVoicesDisabled)
	case errors.Is(err, elevenlabs.ErrVoiceIDEmpty):
		return handler.JSONError(c, fiber.StatusBadRequest, msg)
	}

	log.Error().Err(err).Str("path", c.Path()).Msg("voice request failed")

	return handler.JSONError(c, fiber.StatusBadGateway, msg)
}
