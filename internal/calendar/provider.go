// Package calendar connects a studio's calendar through an OAuth popup.
//
// A Flow is the state machine of one popup. The Broker keeps the pending
// flows keyed by their state token, and the Service exchanges the returned
// code and stores the connection.
package calendar

import (
	"golang.org/x/oauth2"

	"github.com/Blackwork-AI/Blackwork-Dashboard/internal/config"
)

// Supported providers.
const (
	ProviderGoogle = "google"
	ProviderSquare = "square"
)

// Provider is one OAuth calendar provider.
type Provider struct {
	Name        string
	OAuth       oauth2.Config
	AuthOptions []oauth2.AuthCodeOption
	// SuccessType is the message type delivered when the popup succeeds.
	SuccessType string
}

// AuthURL returns the authorization URL of the popup.
func (p *Provider) AuthURL(state string) string {
	return p.OAuth.AuthCodeURL(state, p.AuthOptions...)
}

// GoogleEndpoint is the Google OAuth endpoint used for calendar access.
var GoogleEndpoint = oauth2.Endpoint{ //nolint:gochecknoglobals
	AuthURL:  "https://accounts.google.com/o/oauth2/auth",
	TokenURL: "https://oauth2.googleapis.com/token",
}

// SquareEndpoint is the Square OAuth endpoint.
var SquareEndpoint = oauth2.Endpoint{ //nolint:gochecknoglobals
	AuthURL:  "https://connect.squareup.com/oauth2/authorize",
	TokenURL: "https://connect.squareup.com/oauth2/token",
}

// GoogleScopes covers calendar booking and the confirmation mail.
var GoogleScopes = []string{ //nolint:gochecknoglobals
	"https://www.googleapis.com/auth/userinfo.email",
	"https://www.googleapis.com/auth/userinfo.profile",
	"https://www.googleapis.com/auth/calendar",
	"https://www.googleapis.com/auth/calendar.events",
	"https://www.googleapis.com/auth/gmail.readonly",
	"https://www.googleapis.com/auth/gmail.send",
	"openid",
}

// SquareScopes covers appointments and customers.
var SquareScopes = []string{ //nolint:gochecknoglobals
	"APPOINTMENTS_READ",
	"APPOINTMENTS_WRITE",
	"CUSTOMERS_READ",
	"CUSTOMERS_WRITE",
}

// Providers returns the enabled providers by name.
func Providers(cfg config.Calendar) map[string]*Provider {
	providers := map[string]*Provider{}

	if cfg.Google.Enabled {
		providers[ProviderGoogle] = &Provider{
			Name: ProviderGoogle,
			OAuth: oauth2.Config{
				ClientID:     cfg.Google.ClientID,
				ClientSecret: cfg.Google.ClientSecret,
				Endpoint:     GoogleEndpoint,
				RedirectURL:  cfg.CallbackURL,
				Scopes:       GoogleScopes,
			},
			AuthOptions: []oauth2.AuthCodeOption{oauth2.AccessTypeOffline, oauth2.ApprovalForce},
			SuccessType: MsgGoogleSuccess,
		}
	}

	if cfg.Square.Enabled {
		providers[ProviderSquare] = &Provider{
			Name: ProviderSquare,
			OAuth: oauth2.Config{
				ClientID:     cfg.Square.ClientID,
				ClientSecret: cfg.Square.ClientSecret,
				Endpoint:     SquareEndpoint,
				RedirectURL:  cfg.CallbackURL,
				Scopes:       SquareScopes,
			},
			AuthOptions: []oauth2.AuthCodeOption{oauth2.SetAuthURLParam("session", "false")},
			SuccessType: MsgSquareSuccess,
		}
	}

	return providers
}
