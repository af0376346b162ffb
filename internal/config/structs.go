package config

import (
	"time"

	"github.com/Blackwork-AI/Blackwork-Dashboard/internal/logger"
)

// Gorm engines understood by daemon.New.
const (
	GormEngineMySQL    = "mysql"
	GormEnginePostgres = "postgres"
	GormEngineSQLite   = "sqlite"
)

// Session storage backends.
const (
	SessionStorageDatabase = "database"
	SessionStorageRedis    = "redis"
	SessionStorageMemory   = "memory"
)

// Config overall data structure.
type Config struct {
	DevMode    bool // enable dev mode for development
	DB         DB
	Log        logger.Log
	Title      string
	Webserver  Webserver
	Auth       Auth
	Synthflow  Synthflow
	ElevenLabs ElevenLabs
	Payments   Payments
	Calendar   Calendar
}

// DB holds the database configuration settings.
type DB struct {
	Extras     string
	Host       string
	Port       int
	User       string
	Password   string `json:"-" toml:"-"`
	Name       string // database name, or file path for sqlite
	GormEngine string
}

// Session settings.
type Session struct {
	ExpiryTime    time.Duration
	Storage       string // database, redis or memory
	RedisAddr     string
	RedisPassword string `json:"-" toml:"-"`
	RedisDB       int
}

// RateLimit settings for the public auth and payment endpoints.
type RateLimit struct {
	RequestsPerSecond float64
	Burst             int
}

// Webserver implement webserver settings.
type Webserver struct {
	BrowseStatic bool      // enable static file browsing (for development purposes only)
	Port         int       // listening port for the webserver
	ShutDownTime int       // wait time for shutdown
	URL          string    // base url for the webserver, also the expected popup message origin
	Session      Session   // session settings
	RateLimit    RateLimit // per client limits on auth and payment routes
}

// LocalDBAuth toggles email and password accounts.
type LocalDBAuth struct {
	Enabled bool
}

// OIDCAuth configures sign in with an OpenID Connect provider (Google by default).
type OIDCAuth struct {
	Enabled      bool
	ProviderURL  string
	ClientID     string
	ClientSecret string `json:"-" toml:"-"`
	RedirectURL  string
	Scopes       []string
}

// Auth groups the sign in methods.
type Auth struct {
	LocalDB LocalDBAuth
	OIDC    OIDCAuth
}

// Synthflow configures the hosted voice agent platform.
type Synthflow struct {
	URL            string
	APIKey         string `json:"-" toml:"-"`
	Timeout        time.Duration
	DefaultVoiceID string
	LLM            string
}

// ElevenLabs configures the text to speech platform used for voice previews.
type ElevenLabs struct {
	URL          string
	APIKey       string `json:"-" toml:"-"`
	Timeout      time.Duration
	PreviewText  string
	PreviewModel string
}

// Payments configures the payments provider.
type Payments struct {
	SecretKey     string `json:"-" toml:"-"`
	WebhookSecret string `json:"-" toml:"-"`
	Currency      string
}

// OAuthClient holds one calendar provider's OAuth client registration.
type OAuthClient struct {
	Enabled      bool
	ClientID     string
	ClientSecret string `json:"-" toml:"-"`
}

// Calendar configures the calendar connect popup flow.
type Calendar struct {
	CallbackURL  string
	PopupTimeout time.Duration
	Google       OAuthClient
	Square       OAuthClient
}
