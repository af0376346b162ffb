package payment

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Blackwork-AI/Blackwork-Dashboard/internal/config"
)

const webhookSecret = "whsec_test"

func stripeConfig(key string) config.Payments {
	return config.Payments{SecretKey: key}
}

// sign builds a Stripe-Signature header for payload.
func sign(payload []byte, secret string, at time.Time) string {
	ts := at.Unix()
	mac := hmac.New(sha256.New, []byte(secret))
	_, _ = fmt.Fprintf(mac, "%d.%s", ts, payload)

	return fmt.Sprintf("t=%d,v1=%s", ts, hex.EncodeToString(mac.Sum(nil)))
}

func TestVerifierEvent(t *testing.T) {
	payload := []byte(`{"id":"evt_1","object":"event","type":"payment_intent.succeeded","api_version":"2020-08-27","data":{"object":{}}}`)
	v := Verifier{Secret: webhookSecret}

	e, err := v.Event(payload, sign(payload, webhookSecret, time.Now()))
	require.NoError(t, err)
	assert.Equal(t, "evt_1", e.EventID)
	assert.Equal(t, "payment_intent.succeeded", e.Type)
	assert.True(t, e.Verified)
}

func TestVerifierRejects(t *testing.T) {
	payload := []byte(`{"id":"evt_1","object":"event","type":"charge.succeeded"}`)
	v := Verifier{Secret: webhookSecret}

	tests := []struct {
		name   string
		header string
	}{
		{name: "missing header", header: ""},
		{name: "wrong secret", header: sign(payload, "whsec_other", time.Now())},
		{name: "expired", header: sign(payload, webhookSecret, time.Now().Add(-time.Hour))},
		{name: "garbage", header: "t=abc,v1=zzz"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := v.Event(payload, tt.header)
			require.ErrorIs(t, err, ErrInvalidSignature)
		})
	}
}

func TestVerifierWithoutSecretRecordsPlaceholder(t *testing.T) {
	a, err := Verifier{}.Event([]byte("{}"), "")
	require.NoError(t, err)

	b, err := Verifier{}.Event([]byte("{}"), "")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(a.EventID, "placeholder_"))
	assert.NotEqual(t, a.EventID, b.EventID)
	assert.Equal(t, PlaceholderType, a.Type)
	assert.False(t, a.Verified)
}
