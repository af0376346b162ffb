// Package payment serves the checkout page and the payment intent endpoint.
package payment

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/Blackwork-AI/Blackwork-Dashboard/internal/auth"
	"github.com/Blackwork-AI/Blackwork-Dashboard/internal/config"
	"github.com/Blackwork-AI/Blackwork-Dashboard/internal/payment"
	"github.com/Blackwork-AI/Blackwork-Dashboard/internal/web/handler"
	authmiddleware "github.com/Blackwork-AI/Blackwork-Dashboard/internal/web/middleware/auth"
	"github.com/Blackwork-AI/Blackwork-Dashboard/internal/web/middleware/ratelimit"
	"github.com/Blackwork-AI/Blackwork-Dashboard/internal/web/navigation"
)

const (
	// IntentPath creates a payment intent.
	IntentPath = handler.APIPath + "payments/intent"

	// CheckoutPath shows the order summary of a plan.
	CheckoutPath = handler.RootPath + "checkout/:plan"

	// TemplateName is the name of the checkout template.
	TemplateName = "payment/checkout"

	// MsgInvalidRequest is returned for a body that is not a valid intent request.
	MsgInvalidRequest = "invalid payment request"
	// MsgNotConfigured is returned when no payments provider is configured.
	MsgNotConfigured = "payments are not available"
)

// IntentCreator creates payment intents, implemented by payment.Service.
type IntentCreator interface {
	CreateIntent(ctx context.Context, session auth.Session, r payment.IntentRequest) (*payment.Intent, error)
}

// Service is the payment handler service.
type Service struct {
	handler.Service
	cfg     *config.Config
	intents IntentCreator
}

// Handler is the payment handler.
var Handler = Service{}

// Init wires the handler to the payments provider of cfg.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB) error {
	if app == nil || cfg == nil || db == nil {
		return errors.New(handler.ErrNilACDFatalLogMsg)
	}

	s.cfg = cfg

	if p := payment.New(cfg.Payments); p != nil {
		s.intents = p
	} else {
		log.Warn().Msg("payments are disabled, no secret key configured")
	}

	s.register(app)

	return nil
}

func (s *Service) register(app *fiber.App) {
	app.Get(CheckoutPath, authmiddleware.RequireSession, s.Checkout)
	app.Post(IntentPath, ratelimit.New(s.cfg.Webserver.RateLimit), authmiddleware.RequireSession, s.CreateIntent)
}

// Checkout renders the order summary of the plan in the path.
func (s *Service) Checkout(c *fiber.Ctx) error {
	plan, ok := payment.FindPlan(c.Params("plan"))
	if !ok {
		return c.Redirect(handler.RootPath + "#pricing")
	}

	nav := navigation.NewContext("Checkout", navigation.PageBilling)
	nav.AddBreadcrumb(plan.Name, "", true)

	return c.Render(TemplateName, fiber.Map{
		"Navigation": nav,
		"Plan":       plan,
		"Enabled":    s.intents != nil,
		"IntentPath": IntentPath,
	}, handler.BaseLayout)
}

// CreateIntent creates a payment intent and returns only its client secret.
// Provider failures are reported with a fixed message.
func (s *Service) CreateIntent(c *fiber.Ctx) error {
	if s.intents == nil {
		return handler.JSONError(c, fiber.StatusServiceUnavailable, MsgNotConfigured)
	}

	var req payment.IntentRequest
	if err := c.BodyParser(&req); err != nil {
		return handler.JSONError(c, fiber.StatusBadRequest, MsgInvalidRequest)
	}

	sess, _ := auth.SessionFrom(c)

	intent, err := s.intents.CreateIntent(c.UserContext(), sess, req)

	switch {
	case errors.Is(err, payment.ErrInvalidAmount):
		return handler.JSONError(c, fiber.StatusBadRequest, payment.ErrInvalidAmount.Error())
	case errors.Is(err, payment.ErrUnknownPlan):
		return handler.JSONError(c, fiber.StatusBadRequest, payment.ErrUnknownPlan.Error())
	case errors.Is(err, payment.ErrNotConfigured):
		return handler.JSONError(c, fiber.StatusServiceUnavailable, MsgNotConfigured)
	case err != nil:
		return handler.JSONError(c, fiber.StatusInternalServerError, payment.ErrCreateIntent.Error())
	}

	log.Info().Uint64("user_id", sess.UserID).Str("intent_id", intent.ID).Int64("amount", intent.Amount).
		Str("currency", intent.Currency).Msg("payment intent created")

	return c.JSON(fiber.Map{"clientSecret": intent.ClientSecret})
}
