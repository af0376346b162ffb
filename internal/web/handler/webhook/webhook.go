// Package webhook receives payment provider events.
package webhook

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/Blackwork-AI/Blackwork-Dashboard/internal/config"
	"github.com/Blackwork-AI/Blackwork-Dashboard/internal/db/controller/webhook"
	"github.com/Blackwork-AI/Blackwork-Dashboard/internal/payment"
	"github.com/Blackwork-AI/Blackwork-Dashboard/internal/web/handler"
)

const (
	// Path receives the payment events.
	Path = handler.APIPath + "webhooks/payments"

	// SignatureHeader carries the payload signature.
	SignatureHeader = "Stripe-Signature"

	// MsgInvalidSignature is returned for a payload that fails verification.
	MsgInvalidSignature = "invalid signature"
	// MsgRecordFailed is returned when the event cannot be stored.
	MsgRecordFailed = "failed to record event"
)

// Service is the webhook handler service.
type Service struct {
	handler.Service
	db       *gorm.DB
	verifier payment.Verifier
}

// Handler is the webhook handler.
var Handler = Service{}

// Init registers the receiver. Without a signing secret deliveries are recorded unverified.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB) error {
	if app == nil || cfg == nil || db == nil {
		return errors.New(handler.ErrNilACDFatalLogMsg)
	}

	s.db = db
	s.verifier = payment.Verifier{Secret: cfg.Payments.WebhookSecret}

	if s.verifier.Secret == "" {
		log.Warn().Msg("payment webhooks are not verified, no signing secret configured")
	}

	s.register(app)

	return nil
}

func (s *Service) register(app *fiber.App) {
	app.Post(Path, s.Receive)
}

// Receive verifies the delivery and upserts its event row.
func (s *Service) Receive(c *fiber.Ctx) error {
	event, err := s.verifier.Event(c.Body(), c.Get(SignatureHeader))
	if err != nil {
		log.Warn().Err(err).Str("IP", c.IP()).Msg("rejected payment webhook")
		return handler.JSONError(c, fiber.StatusBadRequest, MsgInvalidSignature)
	}

	if err := webhook.Record(c.UserContext(), s.db, event); err != nil {
		log.Error().Err(err).Str("event_id", event.EventID).Msg("failed to record payment webhook")
		return handler.JSONError(c, fiber.StatusInternalServerError, MsgRecordFailed)
	}

	log.Info().Str("event_id", event.EventID).Str("type", event.Type).Bool("verified", event.Verified).
		Msg("payment webhook recorded")

	return c.JSON(fiber.Map{"received": true})
}
