package calendar

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"
	"gorm.io/gorm"

	"github.com/Blackwork-AI/Blackwork-Dashboard/internal/db/controller/setting"
	"github.com/Blackwork-AI/Blackwork-Dashboard/internal/synthflow"
)

var (
	// ErrUnknownProvider is returned for a provider that is not enabled.
	ErrUnknownProvider = errors.New("unknown calendar provider")
	// ErrNotConnected is returned when the user has no connection with the provider.
	ErrNotConnected = errors.New("calendar is not connected")
	// ErrForeignFlow is returned when a user touches another user's flow.
	ErrForeignFlow = errors.New("calendar flow belongs to another user")
)

// Connection is the stored calendar connection of one user and provider.
// The token stays server side, Status is what gets rendered.
type Connection struct {
	Provider    string        `json:"provider"`
	Token       *oauth2.Token `json:"token"`
	ActionIDs   []string      `json:"action_ids,omitempty"`
	ConnectedAt time.Time     `json:"connected_at"`
}

// Status is the public view of a connection.
type Status struct {
	Provider    string    `json:"provider"`
	Connected   bool      `json:"connected"`
	Actions     int       `json:"actions"`
	ConnectedAt time.Time `json:"connectedAt,omitzero"`
}

// Status returns the public view of c.
func (c *Connection) Status() Status {
	return Status{Provider: c.Provider, Connected: true, Actions: len(c.ActionIDs), ConnectedAt: c.ConnectedAt}
}

// ActionCreator registers custom actions on the voice agent platform.
type ActionCreator interface {
	CreateAction(ctx context.Context, action *synthflow.CustomAction) (string, error)
}

// Service connects calendars.
type Service struct {
	Providers map[string]*Provider
	Broker    *Broker
	DB        *gorm.DB
	// Actions is optional. When set, the booking actions of the provider are registered after connecting.
	Actions ActionCreator
}

// SettingName is the settings row of a connection.
func SettingName(provider string, userID uint64) string {
	return fmt.Sprintf("calendar.%s.%d", provider, userID)
}

// Connect starts a popup flow and returns its authorization URL and state token.
func (s *Service) Connect(provider string, userID uint64) (string, string, error) {
	p, ok := s.Providers[provider]
	if !ok {
		return "", "", ErrUnknownProvider
	}

	f, err := s.Broker.Start(p, userID)
	if err != nil {
		return "", "", err
	}

	return p.AuthURL(f.Token()), f.Token(), nil
}

// Callback finishes the flow of state. origin is where the callback request arrived.
// A provider error fails the flow. Otherwise the code is exchanged, the connection
// stored and the success message delivered. The returned message is what the popup shows.
func (s *Service) Callback(ctx context.Context, origin, state, code, providerErr string) (Message, error) {
	f, ok := s.Broker.Get(state)
	if !ok {
		return Message{Type: MsgError, Error: ErrUnknownFlow.Error()}, ErrUnknownFlow
	}

	p := s.Providers[f.Provider()]

	fail := func(reason string, cause error) (Message, error) {
		m := Message{Type: MsgError, Origin: origin, State: state, Error: reason}
		if err := f.Deliver(m); err != nil {
			return Message{Type: MsgError, Error: err.Error()}, err
		}

		return m, cause
	}

	if err := f.Accepts(origin, state); err != nil {
		return Message{Type: MsgError, Error: err.Error()}, err
	}

	if providerErr != "" || code == "" || p == nil {
		if providerErr == "" {
			providerErr = "authorization was not granted"
		}

		return fail(providerErr, nil)
	}

	token, err := p.OAuth.Exchange(ctx, code)
	if err != nil {
		log.Error().Err(err).Str("provider", p.Name).Uint64("user_id", f.UserID()).Msg("calendar code exchange failed")

		return fail("Failed to connect calendar", err)
	}

	conn := &Connection{Provider: p.Name, Token: token, ConnectedAt: time.Now().UTC()}
	conn.ActionIDs = s.registerActions(ctx, p.Name, token.AccessToken, f.UserID())

	if err := setting.SetJSON(ctx, s.DB, SettingName(p.Name, f.UserID()), conn); err != nil {
		log.Error().Err(err).Str("provider", p.Name).Uint64("user_id", f.UserID()).Msg("can't store calendar connection")

		return fail("Failed to connect calendar", err)
	}

	m := Message{Type: p.SuccessType, Origin: origin, State: state}
	if err := f.Deliver(m); err != nil {
		return Message{Type: MsgError, Error: err.Error()}, err
	}

	return m, nil
}

// registerActions is best effort, a failure leaves the calendar connected without actions.
func (s *Service) registerActions(ctx context.Context, provider, accessToken string, userID uint64) []string {
	if s.Actions == nil {
		return nil
	}

	var actions []*synthflow.CustomAction

	switch provider {
	case ProviderGoogle:
		actions = synthflow.GoogleCalendarActions(accessToken)
	case ProviderSquare:
		actions = synthflow.SquareBookingActions(accessToken)
	}

	ids := make([]string, 0, len(actions))

	for _, a := range actions {
		id, err := s.Actions.CreateAction(ctx, a)
		if err != nil {
			log.Warn().Err(err).Str("provider", provider).Uint64("user_id", userID).Msg("can't register calendar action")
			continue
		}

		ids = append(ids, id)
	}

	return ids
}

// Flow returns the flow of state if it belongs to userID.
func (s *Service) Flow(state string, userID uint64) (*Flow, error) {
	f, ok := s.Broker.Get(state)
	if !ok {
		return nil, ErrUnknownFlow
	}

	if f.UserID() != userID {
		return nil, ErrForeignFlow
	}

	return f, nil
}

// Connection loads the stored connection of userID with provider.
func (s *Service) Connection(ctx context.Context, provider string, userID uint64) (*Connection, error) {
	var conn Connection

	err := setting.GetJSON(ctx, s.DB, SettingName(provider, userID), &conn)
	if errors.Is(err, setting.ErrSettingNotFound) {
		return nil, ErrNotConnected
	}

	if err != nil {
		return nil, err
	}

	return &conn, nil
}

// Disconnect removes the stored connection.
func (s *Service) Disconnect(ctx context.Context, provider string, userID uint64) error {
	err := setting.DeleteByName(ctx, s.DB, SettingName(provider, userID))
	if errors.Is(err, setting.ErrSettingNotFound) {
		return ErrNotConnected
	}

	return err
}
