package fiber_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	adapter "github.com/Blackwork-AI/Blackwork-Dashboard/internal/logger/adapter/fiber"

	"github.com/Blackwork-AI/Blackwork-Dashboard/internal/logger"
)

// accessLogLine implements the fields of one json access log line we assert on.
type accessLogLine struct {
	Status int    `json:"status"`
	URI    string `json:"URI"`
	Method string `json:"method"`
	Host   string `json:"host"`
}

func consoleConfig() adapter.Config {
	return adapter.Config{
		Config: logger.Log{
			EnableAccessLogToConsole: true,
			Console:                  logger.Console{Enabled: true},
		},
	}
}

func TestNew(t *testing.T) {
	tests := []struct {
		name       string
		targetPath string
		config     adapter.Config
		want       *accessLogLine
	}{
		{
			name:       "console disabled writes nothing",
			targetPath: "/",
		},
		{
			name:       "get / log to console json",
			targetPath: "/",
			config:     consoleConfig(),
			want:       &accessLogLine{Status: fiber.StatusOK, URI: "/", Method: fiber.MethodGet, Host: "example.com"},
		},
		{
			name:       "multiple slashes are logged unnormalized",
			targetPath: "//test",
			config:     consoleConfig(),
			want:       &accessLogLine{Status: fiber.StatusNotFound, URI: "//test", Method: fiber.MethodGet, Host: "example.com"},
		},
		{
			name:       "plain query string is kept",
			targetPath: "/?tab=agents&page=2",
			config:     consoleConfig(),
			want: &accessLogLine{
				Status: fiber.StatusOK, URI: "/?tab=agents&page=2", Method: fiber.MethodGet, Host: "example.com",
			},
		},
		{
			name:       "oauth code and state are redacted",
			targetPath: "/auth/callback?code=4%2F0AbCdEf&state=s3cr3t",
			config:     consoleConfig(),
			want: &accessLogLine{
				Status: fiber.StatusOK,
				URI:    "/auth/callback?code=REDACTED&state=REDACTED",
				Method: fiber.MethodGet,
				Host:   "example.com",
			},
		},
		{
			name:       "checkalive is skipped when disabled",
			targetPath: "/checkalive",
			config: adapter.Config{
				Config: logger.Log{
					EnableAccessLogToConsole: true,
					DisableCheckAlive:        true,
					Console:                  logger.Console{Enabled: true},
				},
				CheckAliveURI: "/checkalive",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			output, err := runMiddleware(t, tt.targetPath, tt.config)
			require.NoError(t, err)

			if tt.want == nil {
				assert.Empty(t, output)
				return
			}

			require.NotEmpty(t, output)

			var got accessLogLine
			require.NoError(t, json.Unmarshal([]byte(output), &got))
			assert.Equal(t, *tt.want, got)
		})
	}
}

func runMiddleware(t *testing.T, targetPath string, adapterConfig adapter.Config) (string, error) {
	t.Helper()

	stdout := os.Stdout
	stderr := os.Stderr

	r, w, err := os.Pipe()
	require.NoError(t, err)

	os.Stdout = w
	os.Stderr = w

	app := fiber.New(fiber.Config{
		CaseSensitive: true,
		Immutable:     true,
	})

	app.Use(adapter.New(adapterConfig))

	ok := func(ctx *fiber.Ctx) error {
		return ctx.SendString("hello test")
	}

	app.Get("/", ok)
	app.Get("/auth/callback", ok)
	app.Get("/checkalive", ok)

	_, testErr := app.Test(httptest.NewRequest(fiber.MethodGet, targetPath, nil), 100000)

	outC := make(chan string)

	go func() {
		var buf bytes.Buffer
		_, _ = io.Copy(&buf, r)
		outC <- buf.String()
	}()

	_ = w.Close()
	os.Stdout = stdout
	os.Stderr = stderr

	return <-outC, testErr
}
