// Package onboarding serves the three step setup wizard.
//
// The wizard lives in the session storage between posts, keyed by the
// session id, so a reload or a failed submit keeps what was typed.
package onboarding

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/Blackwork-AI/Blackwork-Dashboard/internal/auth"
	"github.com/Blackwork-AI/Blackwork-Dashboard/internal/config"
	"github.com/Blackwork-AI/Blackwork-Dashboard/internal/db/controller/agent"
	"github.com/Blackwork-AI/Blackwork-Dashboard/internal/db/controller/preference"
	"github.com/Blackwork-AI/Blackwork-Dashboard/internal/db/controller/profile"
	"github.com/Blackwork-AI/Blackwork-Dashboard/internal/db/models"
	"github.com/Blackwork-AI/Blackwork-Dashboard/internal/onboarding"
	"github.com/Blackwork-AI/Blackwork-Dashboard/internal/retry"
	"github.com/Blackwork-AI/Blackwork-Dashboard/internal/synthflow"
	"github.com/Blackwork-AI/Blackwork-Dashboard/internal/web/handler"
	authmiddleware "github.com/Blackwork-AI/Blackwork-Dashboard/internal/web/middleware/auth"
	"github.com/Blackwork-AI/Blackwork-Dashboard/internal/web/navigation"
	"github.com/Blackwork-AI/Blackwork-Dashboard/internal/web/session"
)

const (
	// Path is the path of the wizard.
	Path = handler.OnboardingPath

	// TemplateName is the name of the wizard template.
	TemplateName = "onboarding/wizard"

	// Posted actions.
	ActionNext   = "next"
	ActionBack   = "back"
	ActionSubmit = "submit"

	// MsgInvalidForm is shown when the posted form cannot be decoded.
	MsgInvalidForm = "Some values could not be read. Please check the form."
)

// Submitter runs the final write sequence, implemented by onboarding.Service.
type Submitter interface {
	Submit(ctx context.Context, session auth.Session, w *onboarding.Wizard) (string, error)
}

// ProfileReader tells whether onboarding is done.
type ProfileReader interface {
	Get(ctx context.Context, userID uint64) (*models.Profile, error)
}

// Service is the onboarding handler service.
type Service struct {
	handler.Service
	cfg       *config.Config
	submitter Submitter
	profiles  ProfileReader
}

// Handler is the onboarding handler.
var Handler = Service{}

// Init wires the wizard to the database stores and the voice agent platform.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB) error {
	if app == nil || cfg == nil || db == nil {
		return errors.New(handler.ErrNilACDFatalLogMsg)
	}

	s.cfg = cfg
	s.profiles = profile.Store{DB: db}
	s.submitter = &onboarding.Service{
		Preferences: preference.Store{DB: db},
		Profiles:    profile.Store{DB: db},
		Assistants:  synthflow.New(cfg.Synthflow),
		Agents:      agent.Store{DB: db},
		Synthflow:   cfg.Synthflow,
		Retry:       retry.Default(),
	}

	s.register(app)

	return nil
}

func (s *Service) register(app *fiber.App) {
	app.Get(Path, authmiddleware.RequireSession, s.Get)
	app.Post(Path, authmiddleware.RequireSession, s.Post)
}

// completed reports whether the user already finished the wizard.
func (s *Service) completed(ctx context.Context, userID uint64) bool {
	p, err := s.profiles.Get(ctx, userID)
	if err != nil {
		if !errors.Is(err, profile.ErrProfileNotFound) {
			log.Error().Err(err).Uint64("user_id", userID).Msg("failed to load profile")
		}

		return false
	}

	return p.CompletedOnboarding
}

// load returns the stored draft or a new wizard prefilled from the session.
func (s *Service) load(c *fiber.Ctx, sess auth.Session) *onboarding.Wizard {
	w := onboarding.NewWizard()

	ok, err := session.LoadDraft(authmiddleware.SessionID(c), w)
	if err != nil {
		log.Warn().Err(err).Uint64("user_id", sess.UserID).Msg("failed to load onboarding draft")
	}

	if ok && err == nil {
		if w.Errors == nil {
			w.Errors = map[string]string{}
		}

		return w
	}

	w = onboarding.NewWizard()
	w.Data.OwnerName = sess.Name
	w.Data.SupportEmail = sess.Email

	return w
}

func (s *Service) save(c *fiber.Ctx, w *onboarding.Wizard) {
	if err := session.SaveDraft(authmiddleware.SessionID(c), w, s.cfg.Webserver.Session.ExpiryTime); err != nil {
		log.Warn().Err(err).Msg("failed to store onboarding draft")
	}
}

// Get renders the current step.
func (s *Service) Get(c *fiber.Ctx) error {
	sess, _ := auth.SessionFrom(c)

	if s.completed(c.UserContext(), sess.UserID) {
		return c.Redirect(handler.DashboardPath)
	}

	return s.render(c, s.load(c, sess), "")
}

// Post applies the posted step and runs the requested action.
func (s *Service) Post(c *fiber.Ctx) error {
	sess, _ := auth.SessionFrom(c)
	w := s.load(c, sess)

	if err := bindStep(c, w); err != nil {
		log.Debug().Err(err).Msg("failed to decode onboarding form")
		return s.render(c, w, MsgInvalidForm)
	}

	switch action(c) {
	case ActionBack:
		w.Back()
	case ActionSubmit:
		return s.submit(c, sess, w)
	default:
		w.Next()
	}

	s.save(c, w)

	return s.render(c, w, "")
}

func (s *Service) submit(c *fiber.Ctx, sess auth.Session, w *onboarding.Wizard) error {
	modelID, err := s.submitter.Submit(c.UserContext(), sess, w)

	switch {
	case errors.Is(err, onboarding.ErrInvalidForm):
		s.save(c, w)
		return s.render(c, w, "")
	case err != nil:
		log.Error().Err(err).Uint64("user_id", sess.UserID).Msg("onboarding submit failed")
		s.save(c, w)

		return s.render(c, w, onboarding.MsgSubmitFailed)
	}

	if err = session.DeleteDraft(authmiddleware.SessionID(c)); err != nil {
		log.Warn().Err(err).Msg("failed to delete onboarding draft")
	}

	log.Info().Uint64("user_id", sess.UserID).Str("model_id", modelID).Msg("onboarding completed")

	if handler.WantsJSON(c) {
		return c.JSON(fiber.Map{"modelId": modelID, "redirect": handler.DashboardPath})
	}

	return c.Redirect(handler.DashboardPath)
}

func (s *Service) render(c *fiber.Ctx, w *onboarding.Wizard, msg string) error {
	if handler.WantsJSON(c) {
		status := fiber.StatusOK
		if msg != "" {
			status = fiber.StatusBadRequest
		}

		return c.Status(status).JSON(fiber.Map{"wizard": w, "error": msg})
	}

	nav := navigation.NewContext("Set up your assistant", navigation.PageOnboarding)

	bind := fiber.Map{
		"Navigation": nav,
		"Wizard":     w,
		"Languages":  onboarding.Languages,
		"Steps":      []string{"Business Info", "Operational Preferences", "AI Configuration"},
	}

	if msg != "" {
		bind["error"] = msg
	}

	return c.Render(TemplateName, bind, handler.BaseLayout)
}
