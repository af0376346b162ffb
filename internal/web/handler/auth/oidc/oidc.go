package oidc

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/Blackwork-AI/Blackwork-Dashboard/internal/auth"
	"github.com/Blackwork-AI/Blackwork-Dashboard/internal/config"
	"github.com/Blackwork-AI/Blackwork-Dashboard/internal/db/models"
	"github.com/Blackwork-AI/Blackwork-Dashboard/internal/web/handler"
	"github.com/Blackwork-AI/Blackwork-Dashboard/internal/web/handler/login"
	"github.com/Blackwork-AI/Blackwork-Dashboard/internal/web/middleware/ratelimit"
	"github.com/Blackwork-AI/Blackwork-Dashboard/internal/web/session"
)

const (
	// LoginPath is the path to initiate OIDC login.
	LoginPath = handler.RootPath + "auth/oidc/login"

	// CallbackPath is the path for OIDC callback.
	CallbackPath = handler.RootPath + "auth/oidc/callback"

	// StateTTL bounds the time between login and callback.
	StateTTL = 5 * time.Minute

	statePrefix = "oidc."

	initTimeout = 30 * time.Second
)

// Authenticator is the provider side of the flow, implemented by auth.OIDCProvider.
type Authenticator interface {
	GetAuthURL(state string) string
	HandleCallback(ctx context.Context, code string) (*models.User, error)
}

// Service is the OIDC handler service.
type Service struct {
	handler.Service
	cfg      *config.Config
	provider Authenticator
}

// Handler is the OIDC handler.
var Handler = Service{}

// Init initializes the OIDC handler. A provider that cannot be reached only disables Google sign in.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB) error {
	if app == nil || cfg == nil || db == nil {
		return errors.New(handler.ErrNilACDFatalLogMsg)
	}

	s.cfg = cfg

	if !cfg.Auth.OIDC.Enabled {
		log.Info().Msg("OIDC authentication is disabled by configuration")
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), initTimeout)
	defer cancel()

	provider, err := auth.NewOIDCProvider(ctx, cfg.Auth.OIDC, db)
	if err != nil {
		log.Warn().Err(err).Msg("failed to initialize OIDC provider - OIDC authentication will be disabled")
		return nil
	}

	s.provider = provider
	s.register(app)

	log.Info().Msg("OIDC authentication provider initialized")

	return nil
}

func (s *Service) register(app *fiber.App) {
	limit := ratelimit.New(s.cfg.Webserver.RateLimit)

	app.Get(LoginPath, limit, s.Login)
	app.Get(CallbackPath, limit, s.Callback)
}

// Login initiates the OIDC login flow.
func (s *Service) Login(c *fiber.Ctx) error {
	state, err := auth.GenerateStateToken()
	if err != nil {
		log.Error().Err(err).Msg("failed to generate state token")
		return c.Redirect(login.GoogleFailedPath)
	}

	if err = session.Store.Storage.Set(statePrefix+state, []byte{1}, StateTTL); err != nil {
		log.Error().Err(err).Msg("failed to store state token")
		return c.Redirect(login.GoogleFailedPath)
	}

	return c.Redirect(s.provider.GetAuthURL(state))
}

// consumeState reports whether state was issued by Login and not used yet.
func consumeState(state string) bool {
	if state == "" {
		return false
	}

	val, err := session.Store.Storage.Get(statePrefix + state)
	if err != nil || len(val) == 0 {
		return false
	}

	_ = session.Store.Storage.Delete(statePrefix + state)

	return true
}

// Callback handles the OIDC callback.
func (s *Service) Callback(c *fiber.Ctx) error {
	code := c.Query("code")

	if !consumeState(c.Query("state")) {
		log.Warn().Msg("OIDC callback with unknown or expired state")
		return c.Redirect(login.GoogleFailedPath)
	}

	if code == "" {
		log.Warn().Str("provider_error", c.Query("error")).Msg("OIDC callback without code")
		return c.Redirect(login.GoogleFailedPath)
	}

	user, err := s.provider.HandleCallback(c.UserContext(), code)
	if err != nil {
		log.Error().Err(err).Msg("OIDC authentication failed")
		return c.Redirect(login.GoogleFailedPath)
	}

	if err = session.Start(c, auth.NewSession(user), s.cfg.Webserver.Session.ExpiryTime, !s.cfg.DevMode); err != nil {
		log.Error().Err(err).Msg("failed to write session")
		return c.Redirect(login.GoogleFailedPath)
	}

	log.Info().Uint64("user_id", user.ID).Msg("user signed in via OIDC")

	return c.Redirect(handler.DashboardPath)
}
