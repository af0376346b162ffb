package calendar

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/Blackwork-AI/Blackwork-Dashboard/internal/auth"
)

// Message types relayed by the callback.
const (
	MsgGoogleSuccess = "GOOGLE_CALENDAR_SUCCESS"
	MsgSquareSuccess = "SQUARE_CALENDAR_SUCCESS"
	MsgError         = "CALENDAR_ERROR"
)

// Failure reasons.
const (
	ReasonWindowClosed = "Authentication window was closed"
	ReasonTimedOut     = "Authentication timed out"
)

// DefaultTimeout closes a popup that never answered.
const DefaultTimeout = 5 * time.Minute

var (
	// ErrNotAwaiting is returned when a flow is not waiting for the popup.
	ErrNotAwaiting = errors.New("calendar flow is not awaiting authorization")
	// ErrForeignOrigin is returned for a message from another origin.
	ErrForeignOrigin = errors.New("calendar message from a foreign origin")
	// ErrStateMismatch is returned for a message carrying another state token.
	ErrStateMismatch = errors.New("calendar message state mismatch")
	// ErrUnexpectedMessage is returned for a message type the flow does not handle.
	ErrUnexpectedMessage = errors.New("unexpected calendar message")
)

// State of a flow.
type State int

// Flow states. Succeeded, Failed and TimedOut are terminal.
const (
	Idle State = iota
	AwaitingAuthorization
	Succeeded
	Failed
	TimedOut
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case AwaitingAuthorization:
		return "awaiting_authorization"
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	case TimedOut:
		return "timed_out"
	default:
		return "unknown"
	}
}

// Terminal reports whether s is final.
func (s State) Terminal() bool {
	return s >= Succeeded
}

// Message is what the popup reports back.
type Message struct {
	Type   string `json:"type"`
	Origin string `json:"-"`
	State  string `json:"-"`
	Error  string `json:"error,omitempty"`
}

// Result is a snapshot of a flow.
type Result struct {
	Provider string `json:"provider"`
	State    string `json:"state"`
	Reason   string `json:"reason,omitempty"`
}

// Flow is the state machine of one calendar popup.
type Flow struct {
	mu sync.Mutex

	provider    string
	successType string
	origin      string
	userID      uint64

	state   State
	token   string
	reason  string
	started time.Time
	ended   time.Time

	timer *time.Timer
	done  chan struct{}
}

// NewFlow returns an idle flow that accepts messages from origin only.
func NewFlow(provider *Provider, origin string, userID uint64) *Flow {
	return &Flow{
		provider:    provider.Name,
		successType: provider.SuccessType,
		origin:      origin,
		userID:      userID,
		done:        make(chan struct{}),
	}
}

// Start issues the single use state token and waits at most timeout for the popup.
func (f *Flow) Start(timeout time.Duration) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.state != Idle {
		return "", ErrNotAwaiting
	}

	token, err := auth.GenerateStateToken()
	if err != nil {
		return "", err
	}

	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	f.token = token
	f.state = AwaitingAuthorization
	f.started = time.Now()
	f.timer = time.AfterFunc(timeout, func() {
		f.finish(TimedOut, ReasonTimedOut)
	})

	return token, nil
}

// Deliver applies a popup message. Only messages with the expected origin and
// state token are accepted, anything else leaves the flow unchanged.
func (f *Flow) Deliver(m Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.acceptsLocked(m.Origin, m.State); err != nil {
		return err
	}

	switch m.Type {
	case f.successType:
		f.finishLocked(Succeeded, "")
	case MsgError:
		f.finishLocked(Failed, m.Error)
	default:
		return ErrUnexpectedMessage
	}

	return nil
}

// Accepts reports whether a message from origin carrying state would be accepted.
func (f *Flow) Accepts(origin, state string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.acceptsLocked(origin, state)
}

func (f *Flow) acceptsLocked(origin, state string) error {
	switch {
	case f.state != AwaitingAuthorization:
		return ErrNotAwaiting
	case origin != f.origin:
		return ErrForeignOrigin
	case state != f.token:
		return ErrStateMismatch
	}

	return nil
}

// Close marks the popup as closed by the user.
func (f *Flow) Close() {
	f.finish(Failed, ReasonWindowClosed)
}

// Wait blocks until the flow is terminal or ctx ends.
func (f *Flow) Wait(ctx context.Context) (Result, error) {
	select {
	case <-f.done:
		return f.Result(), nil
	case <-ctx.Done():
		return f.Result(), ctx.Err()
	}
}

// Done is closed when the flow reaches a terminal state.
func (f *Flow) Done() <-chan struct{} {
	return f.done
}

// Result returns the current state of the flow.
func (f *Flow) Result() Result {
	f.mu.Lock()
	defer f.mu.Unlock()

	return Result{Provider: f.provider, State: f.state.String(), Reason: f.reason}
}

// State returns the current state.
func (f *Flow) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.state
}

// Token returns the state token issued by Start.
func (f *Flow) Token() string {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.token
}

// UserID returns the user who started the flow.
func (f *Flow) UserID() uint64 {
	return f.userID
}

// Provider returns the provider name.
func (f *Flow) Provider() string {
	return f.provider
}

func (f *Flow) finish(s State, reason string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.finishLocked(s, reason)
}

// finishLocked is a no-op once the flow is terminal.
func (f *Flow) finishLocked(s State, reason string) {
	if f.state.Terminal() {
		return
	}

	if f.timer != nil {
		f.timer.Stop()
	}

	f.state = s
	f.reason = reason
	f.ended = time.Now()

	close(f.done)
}

// expired reports whether the flow can be forgotten.
func (f *Flow) expired(now time.Time, retention time.Duration) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.state.Terminal() {
		return now.Sub(f.ended) > retention
	}

	return f.state == Idle && now.Sub(f.started) > retention
}
