package payment

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v76/webhook"

	"github.com/Blackwork-AI/Blackwork-Dashboard/internal/db/models"
)

// PlaceholderType is recorded for unsigned deliveries.
const PlaceholderType = "unverified"

// Verifier turns webhook deliveries into event rows.
type Verifier struct {
	// Secret is the signing secret. Without it deliveries are not verified.
	Secret string
	// Tolerance is the accepted age of a signature, webhook.DefaultTolerance when zero.
	Tolerance time.Duration
}

// Event verifies payload against the signature header and returns the row to record.
// Without a secret every delivery yields a placeholder row with a generated id.
func (v Verifier) Event(payload []byte, signature string) (*models.WebhookEvent, error) {
	if v.Secret == "" {
		return &models.WebhookEvent{
			EventID: "placeholder_" + uuid.NewString(),
			Type:    PlaceholderType,
		}, nil
	}

	tolerance := v.Tolerance
	if tolerance == 0 {
		tolerance = webhook.DefaultTolerance
	}

	event, err := webhook.ConstructEventWithOptions(payload, signature, v.Secret, webhook.ConstructEventOptions{
		Tolerance:                tolerance,
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSignature, err)
	}

	return &models.WebhookEvent{
		EventID:  event.ID,
		Type:     string(event.Type),
		Verified: true,
	}, nil
}
