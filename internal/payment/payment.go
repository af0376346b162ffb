// Package payment creates payment intents and verifies payment webhooks.
package payment

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"

	"github.com/Blackwork-AI/Blackwork-Dashboard/internal/auth"
	"github.com/Blackwork-AI/Blackwork-Dashboard/internal/config"
)

// DefaultCurrency is used when neither the request nor the config names one.
const DefaultCurrency = "usd"

// IntentRequest is the body of the create intent endpoint.
// Either PlanID or Amount is set. A plan id wins over a posted amount.
type IntentRequest struct {
	Amount   int64  `json:"amount" validate:"omitempty,gt=0"`
	Currency string `json:"currency" validate:"omitempty,len=3,alpha"`
	PlanID   string `json:"planId"`
}

// Intent is what the browser needs to confirm a payment.
type Intent struct {
	ID           string `json:"id"`
	ClientSecret string `json:"clientSecret"`
	Amount       int64  `json:"amount"`
	Currency     string `json:"currency"`
}

// Intents creates payment intents. It is satisfied by the stripe payment intent client.
type Intents interface {
	New(params *stripe.PaymentIntentParams) (*stripe.PaymentIntent, error)
}

// Service creates payment intents.
type Service struct {
	intents  Intents
	currency string
}

// New returns a Service backed by the stripe API, or nil when no secret key is configured.
func New(cfg config.Payments) *Service {
	if cfg.SecretKey == "" {
		return nil
	}

	sc := &client.API{}
	sc.Init(cfg.SecretKey, nil)

	return NewWithIntents(sc.PaymentIntents, cfg.Currency)
}

// NewWithIntents returns a Service using intents.
func NewWithIntents(intents Intents, currency string) *Service {
	if currency == "" {
		currency = DefaultCurrency
	}

	return &Service{intents: intents, currency: strings.ToLower(currency)}
}

// Resolve validates r and returns the amount in cents and the currency to charge.
func (s *Service) Resolve(r IntentRequest) (int64, string, error) {
	if err := auth.Validator().Struct(r); err != nil {
		return 0, "", fmt.Errorf("%w: %w", ErrInvalidAmount, err)
	}

	currency := strings.ToLower(r.Currency)
	if currency == "" {
		currency = s.currency
	}

	if r.PlanID != "" {
		plan, ok := FindPlan(r.PlanID)
		if !ok {
			return 0, "", ErrUnknownPlan
		}

		return plan.Cents(), currency, nil
	}

	if r.Amount <= 0 {
		return 0, "", ErrInvalidAmount
	}

	return r.Amount, currency, nil
}

// CreateIntent creates a payment intent with a fresh idempotency key.
// Provider errors are logged with their type and code only and returned as ErrCreateIntent.
func (s *Service) CreateIntent(ctx context.Context, session auth.Session, r IntentRequest) (*Intent, error) {
	if s == nil || s.intents == nil {
		return nil, ErrNotConfigured
	}

	amount, currency, err := s.Resolve(r)
	if err != nil {
		return nil, err
	}

	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(amount),
		Currency: stripe.String(currency),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	params.Context = ctx
	params.SetIdempotencyKey(uuid.NewString())

	if session.Valid() {
		params.AddMetadata("user_id", fmt.Sprint(session.UserID))
	}

	if r.PlanID != "" {
		params.AddMetadata("plan_id", r.PlanID)
	}

	pi, err := s.intents.New(params)
	if err != nil {
		event := log.Error().Int64("amount", amount).Str("currency", currency)

		var stripeErr *stripe.Error
		if errors.As(err, &stripeErr) {
			event = event.Str("type", string(stripeErr.Type)).Str("code", string(stripeErr.Code)).
				Int("status", stripeErr.HTTPStatusCode)
		}

		event.Msg("payment intent creation failed")

		return nil, ErrCreateIntent
	}

	return &Intent{
		ID:           pi.ID,
		ClientSecret: pi.ClientSecret,
		Amount:       pi.Amount,
		Currency:     string(pi.Currency),
	}, nil
}
