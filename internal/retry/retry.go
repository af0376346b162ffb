// Package retry runs idempotent remote writes with bounded exponential backoff.
package retry

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog/log"
)

// Config configures retry behavior.
type Config struct {
	// MaxRetries is the number of attempts after the first one.
	MaxRetries      uint64
	InitialInterval time.Duration
	MaxInterval     time.Duration
}

// Default retries three times between 200ms and 2s.
func Default() Config {
	return Config{
		MaxRetries:      3,                      //nolint:mnd
		InitialInterval: 200 * time.Millisecond, //nolint:mnd
		MaxInterval:     2 * time.Second,        //nolint:mnd
	}
}

// Permanent marks err as not worth retrying. Do returns the wrapped error unchanged.
func Permanent(err error) error {
	return backoff.Permanent(err)
}

// PermanentOn marks err Permanent when it matches one of targets and returns it unchanged otherwise.
func PermanentOn(err error, targets ...error) error {
	for _, target := range targets {
		if errors.Is(err, target) {
			return Permanent(err)
		}
	}

	return err
}

// Do calls fn until it succeeds, returns a Permanent error, the retries run out or ctx ends.
// The last error of fn is returned.
func Do(ctx context.Context, cfg Config, operation string, fn func(ctx context.Context) error) error {
	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = cfg.InitialInterval
	exp.MaxInterval = cfg.MaxInterval
	exp.MaxElapsedTime = 0

	b := backoff.WithContext(backoff.WithMaxRetries(exp, cfg.MaxRetries), ctx)

	attempt := 0

	return backoff.RetryNotify(func() error {
		attempt++

		return fn(ctx)
	}, b, func(err error, next time.Duration) {
		log.Warn().Err(err).
			Str("operation", operation).
			Int("attempt", attempt).
			Dur("retry_in", next).
			Msg("remote write failed, retrying")
	})
}
