// Package config handles input from etc/main.toml, the environment and .env files.
package config

import (
	"bytes"
	"encoding/json"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

const (
	// EnvPrefix prefixes every environment override, e.g. BLACKWORK_SYNTHFLOW_APIKEY.
	EnvPrefix = "BLACKWORK"

	// JSONOverrideEnv holds an optional JSON document merged over main.toml.
	JSONOverrideEnv = "BLACKWORK_CONFIG_JSON"

	defaultShutDownTime   = 5
	defaultRemoteTimeout  = 30 * time.Second
	defaultPopupTimeout   = 5 * time.Minute
	defaultSessionExpiry  = 24 * time.Hour
	defaultCurrency       = "usd"
	defaultSynthflowURL   = "https://api.synthflow.ai/v2"
	defaultElevenLabsURL  = "https://api.elevenlabs.io"
	defaultPreviewText    = "Hello, this is a preview of my voice."
	defaultPreviewModel   = "eleven_monolingual_v1"
	defaultSynthflowLLM   = "synthflow"
	defaultRateLimitBurst = 5
)

// ReadConfig from config file.
func ReadConfig(path string) (Config, error) {
	var (
		c   Config
		err error
	)

	// a missing .env is normal outside of local development
	_ = godotenv.Load()

	// Read main configuration
	if path == "" {
		path = "./etc/"
	}

	v := viper.New()
	v.SetConfigFile(path + "main.toml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err = v.ReadInConfig(); err != nil {
		return Config{}, errors.Wrap(err, "failed to read main config file")
	}

	// override it from env
	if jsonConfigEnv := os.Getenv(JSONOverrideEnv); jsonConfigEnv != "" {
		v.SetConfigType("json")

		if err = v.MergeConfig(strings.NewReader(jsonConfigEnv)); err != nil {
			return Config{}, errors.Wrap(err, "failed to merge json config override")
		}
	}

	if err = v.Unmarshal(&c); err != nil {
		return Config{}, errors.Wrap(err, "failed to decode config")
	}

	return c, validate(&c)
}

// DumpConfig config as TOML String. Secrets are never part of the output.
func DumpConfig(c *Config) (string, error) {
	out, err := toml.Marshal(c)
	if err != nil {
		return "", err //nolint: wrapcheck
	}

	return string(out), nil
}

// DumpConfigJSON config as JSON String. Secrets are never part of the output.
func DumpConfigJSON(c *Config) (string, error) {
	var buffer bytes.Buffer
	j := json.NewEncoder(&buffer)
	j.SetIndent("", "  ")

	if err := j.Encode(c); err != nil {
		return "", err //nolint: wrapcheck
	}

	return buffer.String(), nil
}

// validate checks the settings the daemon can not start without and fills defaults.
func validate(c *Config) error {
	invalidErrMessage := "invalid config"

	if c.Webserver.Port == 0 {
		return errors.Wrap(ErrWebServerPortCanNotBeZero, invalidErrMessage)
	}

	if c.Webserver.URL == "" {
		return errors.Wrap(ErrEmptyURL, invalidErrMessage)
	}

	switch c.DB.GormEngine {
	case "":
		c.DB.GormEngine = GormEngineMySQL
	case GormEngineMySQL, GormEnginePostgres, GormEngineSQLite:
	default:
		return errors.Wrap(ErrUnknownGormEngine, invalidErrMessage)
	}

	switch c.Webserver.Session.Storage {
	case "":
		c.Webserver.Session.Storage = SessionStorageDatabase
	case SessionStorageDatabase, SessionStorageRedis, SessionStorageMemory:
	default:
		return errors.Wrap(ErrUnknownSessionStorage, invalidErrMessage)
	}

	setDefaults(c)

	return nil
}

func setDefaults(c *Config) {
	if c.Webserver.ShutDownTime == 0 {
		c.Webserver.ShutDownTime = defaultShutDownTime
	}

	if c.Webserver.Session.ExpiryTime == 0 {
		c.Webserver.Session.ExpiryTime = defaultSessionExpiry
	}

	if c.Webserver.RateLimit.RequestsPerSecond == 0 {
		c.Webserver.RateLimit.RequestsPerSecond = 2
	}

	if c.Webserver.RateLimit.Burst == 0 {
		c.Webserver.RateLimit.Burst = defaultRateLimitBurst
	}

	if c.Synthflow.URL == "" {
		c.Synthflow.URL = defaultSynthflowURL
	}

	if c.Synthflow.Timeout == 0 {
		c.Synthflow.Timeout = defaultRemoteTimeout
	}

	if c.Synthflow.LLM == "" {
		c.Synthflow.LLM = defaultSynthflowLLM
	}

	if c.ElevenLabs.URL == "" {
		c.ElevenLabs.URL = defaultElevenLabsURL
	}

	if c.ElevenLabs.Timeout == 0 {
		c.ElevenLabs.Timeout = defaultRemoteTimeout
	}

	if c.ElevenLabs.PreviewText == "" {
		c.ElevenLabs.PreviewText = defaultPreviewText
	}

	if c.ElevenLabs.PreviewModel == "" {
		c.ElevenLabs.PreviewModel = defaultPreviewModel
	}

	if c.Payments.Currency == "" {
		c.Payments.Currency = defaultCurrency
	}

	if c.Calendar.PopupTimeout == 0 {
		c.Calendar.PopupTimeout = defaultPopupTimeout
	}

	if c.Calendar.CallbackURL == "" {
		c.Calendar.CallbackURL = strings.TrimSuffix(c.Webserver.URL, "/") + "/auth/callback"
	}
}
