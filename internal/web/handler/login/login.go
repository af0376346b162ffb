package login

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/Blackwork-AI/Blackwork-Dashboard/internal/auth"
	"github.com/Blackwork-AI/Blackwork-Dashboard/internal/config"
	"github.com/Blackwork-AI/Blackwork-Dashboard/internal/web/handler"
	authmiddleware "github.com/Blackwork-AI/Blackwork-Dashboard/internal/web/middleware/auth"
	"github.com/Blackwork-AI/Blackwork-Dashboard/internal/web/middleware/ratelimit"
	"github.com/Blackwork-AI/Blackwork-Dashboard/internal/web/session"
)

const (
	// Path is the path to the login page.
	Path = handler.LoginPath

	// SignUpPath is the path to the sign up page.
	SignUpPath = handler.RootPath + "signup"

	// LogoutPath clears the session.
	LogoutPath = handler.RootPath + "logout"

	// TemplateName is the name of the login template.
	TemplateName = "login"

	// SignUpTemplateName is the name of the sign up template.
	SignUpTemplateName = "signup"

	// MsgAccountDisabled is shown for disabled accounts.
	MsgAccountDisabled = "This account is disabled"

	// GoogleFailedPath is where a failed Google sign in lands.
	GoogleFailedPath = Path + "?error=" + errorGoogle

	errorGoogle = "google"
)

// Service is the login handler service.
type Service struct {
	handler.Service
	cfg   *config.Config
	local *auth.LocalProvider
}

// Handler is the login handler.
var Handler = Service{}

// Init initializes the login handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB) error {
	if app == nil || cfg == nil || db == nil {
		return errors.New(handler.ErrNilACDFatalLogMsg)
	}

	s.cfg = cfg
	s.local = auth.NewLocalProvider(db)

	limit := ratelimit.New(cfg.Webserver.RateLimit)

	app.Get(Path, authmiddleware.RedirectSignedIn, s.Get)
	app.Post(Path, limit, s.Post)
	app.Get(SignUpPath, authmiddleware.RedirectSignedIn, s.GetSignUp)
	app.Post(SignUpPath, limit, s.PostSignUp)
	app.Get(LogoutPath, s.Logout)
	app.Post(LogoutPath, s.Logout)

	return nil
}

func (s *Service) render(c *fiber.Ctx, name string, creds *auth.Credentials, msg string) error {
	bind := fiber.Map{
		"Title":            s.cfg.Title,
		"local_db_enabled": s.cfg.Auth.LocalDB.Enabled,
		"oidc_enabled":     s.cfg.Auth.OIDC.Enabled,
	}

	// the password is never sent back to the browser
	if creds != nil {
		bind["email"] = creds.Email
		bind["name"] = creds.Name
	}

	if msg != "" {
		bind["error"] = msg
	}

	return c.Render(name, bind, handler.PublicLayout)
}

// Get handles the login page rendering.
func (s *Service) Get(c *fiber.Ctx) error {
	var msg string
	if c.Query("error") == errorGoogle {
		msg = auth.MsgGoogleFailed
	}

	return s.render(c, TemplateName, nil, msg)
}

// Post handles the login form submission.
func (s *Service) Post(c *fiber.Ctx) error {
	if !s.cfg.Auth.LocalDB.Enabled {
		return s.render(c, TemplateName, nil, ErrLocalAuthDisabled.Error())
	}

	creds := new(auth.Credentials)
	if err := c.BodyParser(creds); err != nil {
		return s.render(c, TemplateName, nil, ErrInvalidFormData.Error())
	}

	creds.Normalize()

	if msg := auth.ValidateCredentials(*creds, false); msg != "" {
		return s.render(c, TemplateName, creds, msg)
	}

	user, err := s.local.Authenticate(c.UserContext(), creds.Email, creds.Password)

	switch {
	case errors.Is(err, auth.ErrInvalidCredentials):
		return s.render(c, TemplateName, creds, auth.MsgInvalidCredentials)
	case errors.Is(err, auth.ErrUserAccountDisabled):
		return s.render(c, TemplateName, creds, MsgAccountDisabled)
	case err != nil:
		log.Error().Err(err).Msg("failed to authenticate user")
		return s.render(c, TemplateName, creds, auth.MsgAuthFailed)
	}

	if err = session.Start(c, auth.NewSession(user), s.cfg.Webserver.Session.ExpiryTime, !s.cfg.DevMode); err != nil {
		log.Error().Err(err).Msg("failed to write session")
		return s.render(c, TemplateName, creds, ErrInternalServerError.Error())
	}

	log.Info().Uint64("user_id", user.ID).Msg("user signed in")

	return c.Redirect(handler.DashboardPath)
}

// GetSignUp handles the sign up page rendering.
func (s *Service) GetSignUp(c *fiber.Ctx) error {
	return s.render(c, SignUpTemplateName, nil, "")
}

// PostSignUp creates the account, signs it in and starts onboarding.
func (s *Service) PostSignUp(c *fiber.Ctx) error {
	if !s.cfg.Auth.LocalDB.Enabled {
		return s.render(c, SignUpTemplateName, nil, ErrLocalAuthDisabled.Error())
	}

	creds := new(auth.Credentials)
	if err := c.BodyParser(creds); err != nil {
		return s.render(c, SignUpTemplateName, nil, ErrInvalidFormData.Error())
	}

	creds.Normalize()

	if msg := auth.ValidateCredentials(*creds, true); msg != "" {
		return s.render(c, SignUpTemplateName, creds, msg)
	}

	user, err := s.local.SignUp(c.UserContext(), *creds)

	switch {
	case errors.Is(err, auth.ErrEmailExists):
		return s.render(c, SignUpTemplateName, creds, auth.MsgEmailExists)
	case err != nil:
		log.Error().Err(err).Msg("failed to sign up user")
		return s.render(c, SignUpTemplateName, creds, auth.MsgAuthFailed)
	}

	if err = session.Start(c, auth.NewSession(user), s.cfg.Webserver.Session.ExpiryTime, !s.cfg.DevMode); err != nil {
		log.Error().Err(err).Msg("failed to write session")
		return s.render(c, SignUpTemplateName, creds, ErrInternalServerError.Error())
	}

	log.Info().Uint64("user_id", user.ID).Msg("user signed up")

	return c.Redirect(handler.OnboardingPath)
}

// Logout handles user logout by clearing the session.
func (s *Service) Logout(c *fiber.Ctx) error {
	if sessionID := c.Cookies(session.CookieName); sessionID != "" {
		if err := session.Delete(sessionID); err != nil {
			log.Error().Err(err).Msg("failed to delete session")
		}
	}

	session.Clear(c, !s.cfg.DevMode)

	return c.Redirect(Path)
}
