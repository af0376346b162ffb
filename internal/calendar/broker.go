package calendar

import (
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// ReasonShutdown is the failure reason of flows still pending when the broker stops.
const ReasonShutdown = "Server is shutting down"

// ErrUnknownFlow is returned for a state token without a pending flow.
var ErrUnknownFlow = errors.New("unknown calendar flow")

// Broker keeps the flows of all users keyed by their state token.
type Broker struct {
	origin    string
	timeout   time.Duration
	retention time.Duration

	mu    sync.Mutex
	flows map[string]*Flow

	stop     chan struct{}
	done     chan struct{}
	stopOnce sync.Once
}

// NewBroker starts a broker whose flows accept messages from origin and time out after timeout.
// Finished flows stay readable for one more timeout, then the cleanup loop drops them.
func NewBroker(origin string, timeout time.Duration) *Broker {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	b := &Broker{
		origin:    origin,
		timeout:   timeout,
		retention: timeout,
		flows:     map[string]*Flow{},
		stop:      make(chan struct{}),
		done:      make(chan struct{}),
	}

	go b.cleanupLoop(timeout / 2) //nolint:mnd

	return b
}

// Start creates and starts a flow of userID with provider.
func (b *Broker) Start(provider *Provider, userID uint64) (*Flow, error) {
	f := NewFlow(provider, b.origin, userID)

	token, err := f.Start(b.timeout)
	if err != nil {
		return nil, err
	}

	b.mu.Lock()
	b.flows[token] = f
	b.mu.Unlock()

	return f, nil
}

// Get returns the flow of token.
func (b *Broker) Get(token string) (*Flow, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	f, ok := b.flows[token]

	return f, ok
}

// Deliver routes m to the flow named by its state token.
func (b *Broker) Deliver(m Message) error {
	f, ok := b.Get(m.State)
	if !ok {
		return ErrUnknownFlow
	}

	return f.Deliver(m)
}

// Close marks the popup of token as closed.
func (b *Broker) Close(token string) error {
	f, ok := b.Get(token)
	if !ok {
		return ErrUnknownFlow
	}

	f.Close()

	return nil
}

// Len returns the number of tracked flows.
func (b *Broker) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()

	return len(b.flows)
}

// Stop ends the cleanup loop and fails every pending flow.
func (b *Broker) Stop() {
	b.stopOnce.Do(func() {
		close(b.stop)
		<-b.done

		b.mu.Lock()
		defer b.mu.Unlock()

		for _, f := range b.flows {
			f.finish(Failed, ReasonShutdown)
		}
	})
}

func (b *Broker) cleanupLoop(interval time.Duration) {
	defer close(b.done)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-b.stop:
			return
		case now := <-ticker.C:
			b.cleanup(now)
		}
	}
}

func (b *Broker) cleanup(now time.Time) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for token, f := range b.flows {
		if f.expired(now, b.retention) {
			delete(b.flows, token)
		}
	}

	log.Trace().Int("pending", len(b.flows)).Msg("calendar flows cleaned up")
}
