// Package calendar serves the calendar connect popup.
//
// The settings page asks for an authorization URL, opens it in a popup and
// long-polls the flow until the provider redirected back to the callback.
package calendar

import (
	"context"
	"errors"
	"net/url"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/Blackwork-AI/Blackwork-Dashboard/internal/auth"
	"github.com/Blackwork-AI/Blackwork-Dashboard/internal/calendar"
	"github.com/Blackwork-AI/Blackwork-Dashboard/internal/config"
	"github.com/Blackwork-AI/Blackwork-Dashboard/internal/synthflow"
	"github.com/Blackwork-AI/Blackwork-Dashboard/internal/web/handler"
	authmiddleware "github.com/Blackwork-AI/Blackwork-Dashboard/internal/web/middleware/auth"
	"github.com/Blackwork-AI/Blackwork-Dashboard/internal/web/middleware/ratelimit"
)

const (
	// ConnectPath starts a popup flow.
	ConnectPath = handler.APIPath + "calendar/:provider/connect"

	// StatusPath reads or removes a connection.
	StatusPath = handler.APIPath + "calendar/:provider"

	// FlowPath polls or closes a flow.
	FlowPath = handler.APIPath + "calendar/flows/:state"

	// CallbackPath is the redirect target registered with the providers.
	CallbackPath = handler.RootPath + "auth/callback"

	// PopupTemplate is rendered into the popup by the callback.
	PopupTemplate = "calendar/popup"

	// PollTimeout bounds one long-poll request.
	PollTimeout = 25 * time.Second

	// Messages of the calendar API.
	MsgUnknownProvider = "unknown calendar provider"
	MsgUnknownFlow     = "unknown calendar flow"
	MsgNotConnected    = "calendar is not connected"
	MsgConnectFailed   = "Failed to connect calendar"
)

// Service is the calendar handler service.
type Service struct {
	handler.Service
	cfg         *config.Config
	calendars   *calendar.Service
	origin      string
	pollTimeout time.Duration
}

// Handler is the calendar handler.
var Handler = Service{}

// Init starts the flow broker and registers the routes. Stop ends the broker.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB) error {
	if app == nil || cfg == nil || db == nil {
		return errors.New(handler.ErrNilACDFatalLogMsg)
	}

	origin, err := Origin(cfg.Webserver.URL)
	if err != nil {
		return err
	}

	s.cfg = cfg
	s.origin = origin
	s.pollTimeout = PollTimeout
	s.calendars = &calendar.Service{
		Providers: calendar.Providers(cfg.Calendar),
		Broker:    calendar.NewBroker(origin, cfg.Calendar.PopupTimeout),
		DB:        db,
		Actions:   synthflow.New(cfg.Synthflow),
	}

	if len(s.calendars.Providers) == 0 {
		log.Info().Msg("no calendar provider enabled")
	}

	s.register(app)

	return nil
}

// Stop fails the pending flows and ends the broker cleanup.
func (s *Service) Stop() {
	if s.calendars != nil && s.calendars.Broker != nil {
		s.calendars.Broker.Stop()
	}
}

// Origin returns the scheme and host of rawURL, the origin popup messages must come from.
func Origin(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", err
	}

	if u.Scheme == "" || u.Host == "" {
		return "", errors.New("webserver url must be absolute: " + rawURL)
	}

	return u.Scheme + "://" + u.Host, nil
}

func (s *Service) register(app *fiber.App) {
	app.Get(CallbackPath, s.Callback)

	app.Get(FlowPath, authmiddleware.RequireSession, s.Poll)
	app.Delete(FlowPath, authmiddleware.RequireSession, s.Close)

	app.Post(ConnectPath, ratelimit.New(s.cfg.Webserver.RateLimit), authmiddleware.RequireSession, s.Connect)
	app.Get(StatusPath, authmiddleware.RequireSession, s.Status)
	app.Delete(StatusPath, authmiddleware.RequireSession, s.Disconnect)
}

// Connect starts a flow for the provider in the path.
func (s *Service) Connect(c *fiber.Ctx) error {
	sess, _ := auth.SessionFrom(c)

	authURL, state, err := s.calendars.Connect(c.Params("provider"), sess.UserID)

	switch {
	case errors.Is(err, calendar.ErrUnknownProvider):
		return handler.JSONError(c, fiber.StatusNotFound, MsgUnknownProvider)
	case err != nil:
		log.Error().Err(err).Uint64("user_id", sess.UserID).Msg("can't start calendar flow")
		return handler.JSONError(c, fiber.StatusInternalServerError, MsgConnectFailed)
	}

	return c.JSON(fiber.Map{"authUrl": authURL, "state": state})
}

// Callback finishes the flow named by the state query and renders the popup page.
// The query code and state never reach the logs or the page.
func (s *Service) Callback(c *fiber.Ctx) error {
	m, err := s.calendars.Callback(c.UserContext(), c.BaseURL(), c.Query("state"), c.Query("code"), c.Query("error"))

	status := fiber.StatusOK

	switch {
	case errors.Is(err, calendar.ErrUnknownFlow),
		errors.Is(err, calendar.ErrNotAwaiting),
		errors.Is(err, calendar.ErrForeignOrigin),
		errors.Is(err, calendar.ErrStateMismatch):
		log.Warn().Err(err).Str("IP", c.IP()).Msg("rejected calendar callback")

		status = fiber.StatusBadRequest
	case err != nil:
		m = calendar.Message{Type: calendar.MsgError, Error: MsgConnectFailed}
	}

	return c.Status(status).Render(PopupTemplate, fiber.Map{
		"Title":        "Calendar",
		"Message":      m,
		"Success":      m.Type != calendar.MsgError,
		"TargetOrigin": s.origin,
	})
}

// Poll waits until the flow is terminal or the poll times out and returns its state.
func (s *Service) Poll(c *fiber.Ctx) error {
	sess, _ := auth.SessionFrom(c)

	f, err := s.calendars.Flow(c.Params("state"), sess.UserID)
	if err != nil {
		return handler.JSONError(c, fiber.StatusNotFound, MsgUnknownFlow)
	}

	ctx, cancel := context.WithTimeout(c.UserContext(), s.pollTimeout)
	defer cancel()

	// a poll that times out returns the pending state, the browser polls again
	res, _ := f.Wait(ctx)

	return c.JSON(res)
}

// Close marks the popup as closed by the user.
func (s *Service) Close(c *fiber.Ctx) error {
	sess, _ := auth.SessionFrom(c)

	f, err := s.calendars.Flow(c.Params("state"), sess.UserID)
	if err != nil {
		return handler.JSONError(c, fiber.StatusNotFound, MsgUnknownFlow)
	}

	f.Close()

	return c.JSON(f.Result())
}

// Status returns the public view of the connection with the provider in the path.
func (s *Service) Status(c *fiber.Ctx) error {
	sess, _ := auth.SessionFrom(c)
	provider := c.Params("provider")

	if _, ok := s.calendars.Providers[provider]; !ok {
		return handler.JSONError(c, fiber.StatusNotFound, MsgUnknownProvider)
	}

	conn, err := s.calendars.Connection(c.UserContext(), provider, sess.UserID)

	switch {
	case errors.Is(err, calendar.ErrNotConnected):
		return c.JSON(calendar.Status{Provider: provider})
	case err != nil:
		log.Error().Err(err).Str("provider", provider).Uint64("user_id", sess.UserID).Msg("can't load calendar connection")
		return handler.JSONError(c, fiber.StatusInternalServerError, MsgConnectFailed)
	}

	return c.JSON(conn.Status())
}

// Disconnect removes the stored connection.
func (s *Service) Disconnect(c *fiber.Ctx) error {
	sess, _ := auth.SessionFrom(c)
	provider := c.Params("provider")

	if _, ok := s.calendars.Providers[provider]; !ok {
		return handler.JSONError(c, fiber.StatusNotFound, MsgUnknownProvider)
	}

	err := s.calendars.Disconnect(c.UserContext(), provider, sess.UserID)

	switch {
	case errors.Is(err, calendar.ErrNotConnected):
		return handler.JSONError(c, fiber.StatusNotFound, MsgNotConnected)
	case err != nil:
		log.Error().Err(err).Str("provider", provider).Uint64("user_id", sess.UserID).Msg("can't remove calendar connection")
		return handler.JSONError(c, fiber.StatusInternalServerError, MsgConnectFailed)
	}

	log.Info().Str("provider", provider).Uint64("user_id", sess.UserID).Msg("calendar disconnected")

	return c.SendStatus(fiber.StatusNoContent)
}
