package payment

import "errors"

var (
	// ErrNotConfigured is returned when no secret key is configured.
	ErrNotConfigured = errors.New("payments are not configured")
	// ErrInvalidAmount is returned for a non positive amount.
	ErrInvalidAmount = errors.New("amount must be a positive number of cents")
	// ErrUnknownPlan is returned for a plan id that is not in the catalog.
	ErrUnknownPlan = errors.New("unknown plan")
	// ErrCreateIntent wraps provider failures. Its message is safe to show.
	ErrCreateIntent = errors.New("failed to create payment intent")
	// ErrInvalidSignature is returned when a webhook payload fails verification.
	ErrInvalidSignature = errors.New("invalid webhook signature")
)
