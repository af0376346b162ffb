package config

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func configDir(t *testing.T) string {
	t.Helper()

	// Get the project root by going up from internal/config
	projectRoot, err := filepath.Abs("../../")
	require.NoError(t, err)

	return filepath.Join(projectRoot, "etc") + string(filepath.Separator)
}

func TestReadConfig(t *testing.T) {
	cfg, err := ReadConfig(configDir(t))
	require.NoError(t, err)

	assert.NotEmpty(t, cfg.Title)
	assert.NotZero(t, cfg.Webserver.Port)
	assert.NotEmpty(t, cfg.Webserver.URL)
	assert.NotEmpty(t, cfg.DB.Host)
	assert.Equal(t, GormEngineMySQL, cfg.DB.GormEngine)

	assert.Equal(t, 24*time.Hour, cfg.Webserver.Session.ExpiryTime)
	assert.Equal(t, 30*time.Second, cfg.Synthflow.Timeout)
	assert.Equal(t, 5*time.Minute, cfg.Calendar.PopupTimeout)
	assert.Equal(t, "SAz9YHcvj6GT2YYXdXww", cfg.Synthflow.DefaultVoiceID)
	assert.Equal(t, "access.log", cfg.Log.File.AccessLog)
}

func TestReadConfigWithJSONOverride(t *testing.T) {
	t.Setenv(JSONOverrideEnv, `{"Title":"Test Override","Webserver":{"Port":9090}}`)

	cfg, err := ReadConfig(configDir(t))
	require.NoError(t, err)

	assert.Equal(t, "Test Override", cfg.Title)
	assert.Equal(t, 9090, cfg.Webserver.Port)
	// untouched keys keep the file value
	assert.Equal(t, "http://localhost:8080", cfg.Webserver.URL)
}

func TestReadConfigWithEnvOverride(t *testing.T) {
	t.Setenv("BLACKWORK_SYNTHFLOW_APIKEY", "sf-secret")
	t.Setenv("BLACKWORK_PAYMENTS_CURRENCY", "eur")

	cfg, err := ReadConfig(configDir(t))
	require.NoError(t, err)

	assert.Equal(t, "sf-secret", cfg.Synthflow.APIKey)
	assert.Equal(t, "eur", cfg.Payments.Currency)
}

func TestReadConfigMissingFile(t *testing.T) {
	_, err := ReadConfig(t.TempDir() + string(filepath.Separator))
	require.Error(t, err)
}

func TestConfigValidation(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr error
	}{
		{
			name: "valid config",
			config: Config{
				Webserver: Webserver{Port: 8080, URL: "http://localhost:8080"},
			},
		},
		{
			name: "missing port",
			config: Config{
				Webserver: Webserver{URL: "http://localhost:8080"},
			},
			wantErr: ErrWebServerPortCanNotBeZero,
		},
		{
			name: "missing URL",
			config: Config{
				Webserver: Webserver{Port: 8080},
			},
			wantErr: ErrEmptyURL,
		},
		{
			name: "unknown gorm engine",
			config: Config{
				DB:        DB{GormEngine: "oracle"},
				Webserver: Webserver{Port: 8080, URL: "http://localhost:8080"},
			},
			wantErr: ErrUnknownGormEngine,
		},
		{
			name: "unknown session storage",
			config: Config{
				Webserver: Webserver{Port: 8080, URL: "http://localhost:8080", Session: Session{Storage: "etcd"}},
			},
			wantErr: ErrUnknownSessionStorage,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validate(&tt.config)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
		})
	}
}

func TestValidateFillsDefaults(t *testing.T) {
	cfg := Config{Webserver: Webserver{Port: 8080, URL: "https://app.blackwork.ai/"}}

	require.NoError(t, validate(&cfg))

	assert.Equal(t, 5, cfg.Webserver.ShutDownTime)
	assert.Equal(t, GormEngineMySQL, cfg.DB.GormEngine)
	assert.Equal(t, SessionStorageDatabase, cfg.Webserver.Session.Storage)
	assert.Equal(t, "usd", cfg.Payments.Currency)
	assert.Equal(t, "https://app.blackwork.ai/auth/callback", cfg.Calendar.CallbackURL)
	assert.Equal(t, "Hello, this is a preview of my voice.", cfg.ElevenLabs.PreviewText)
}

func TestDumpConfigOmitsSecrets(t *testing.T) {
	cfg := Config{
		Title: "Test",
		Webserver: Webserver{
			Port: 8080,
			URL:  "http://localhost:8080",
		},
		Payments:  Payments{SecretKey: "sk_live_do_not_print", WebhookSecret: "whsec_do_not_print"},
		Synthflow: Synthflow{APIKey: "sf_do_not_print"},
		DB:        DB{Password: "db_do_not_print"},
	}

	tomlStr, err := DumpConfig(&cfg)
	require.NoError(t, err)

	jsonStr, err := DumpConfigJSON(&cfg)
	require.NoError(t, err)

	for _, out := range []string{tomlStr, jsonStr} {
		assert.Contains(t, out, "Test")
		assert.False(t, strings.Contains(out, "do_not_print"), "secret leaked into dump: %s", out)
	}
}
