package synthflow

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{ //nolint:gochecknoglobals
	Name: "synthflow_requests_total",
	Help: "Calls to the voice agent platform by operation and outcome.",
}, []string{"operation", "outcome"})

func observe(operation string, err error) {
	outcome := "ok"

	switch {
	case err == nil:
	case errors.Is(err, ErrClientNotInitialized):
		outcome = "not_configured"
	case errors.Is(err, ErrAssistantNotFound):
		outcome = "not_found"
	default:
		outcome = "error"
	}

	requestsTotal.WithLabelValues(operation, outcome).Inc()
}
