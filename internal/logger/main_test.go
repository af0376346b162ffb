package logger_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Blackwork-AI/Blackwork-Dashboard/internal/logger"
)

func TestInit(t *testing.T) {
	testCases := []struct {
		name          string
		cfg           logger.Log
		wantErr       error
		wantOutput    bool
		wantJSONLines bool
	}{
		{
			name:    "missing service name",
			cfg:     logger.Log{LogLevel: "info", AppName: "test"},
			wantErr: logger.ErrServiceNameIsEmpty,
		},
		{
			name:    "missing app name",
			cfg:     logger.Log{LogLevel: "info", ServiceName: "test"},
			wantErr: logger.ErrAppNameIsEmpty,
		},
		{
			name: "no writer enabled",
			cfg:  logger.Log{LogLevel: "info", ServiceName: "test", AppName: "test"},
		},
		{
			name: "console json",
			cfg: logger.Log{
				LogLevel:    "info",
				ServiceName: "test",
				AppName:     "test",
				Console:     logger.Console{Enabled: true},
			},
			wantOutput:    true,
			wantJSONLines: true,
		},
		{
			name: "console writer trace with caller",
			cfg: logger.Log{
				LogLevel:     "trace",
				ServiceName:  "test",
				AppName:      "test",
				ReportCaller: true,
				Console:      logger.Console{Enabled: true, UseConsoleWriter: true},
			},
			wantOutput: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			out, err := captureInit(t, tc.cfg)
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				return
			}

			require.NoError(t, err)

			if !tc.wantOutput {
				assert.Empty(t, out)
				return
			}

			assert.NotEmpty(t, out)

			if tc.wantJSONLines {
				for _, line := range strings.Split(strings.TrimSpace(out), "\n") {
					var entry map[string]any
					require.NoError(t, json.Unmarshal([]byte(line), &entry), line)
					assert.Equal(t, "test", entry["app"])
				}
			}
		})
	}
}

func TestInitUnknownLevel(t *testing.T) {
	err := logger.Init(logger.Log{LogLevel: "loud", ServiceName: "test", AppName: "test"})
	require.Error(t, err)
}

func TestInitRollingFiles(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "log")

	err := logger.Init(logger.Log{
		LogLevel:    "info",
		ServiceName: "test",
		AppName:     "test",
		File: logger.LogFile{
			Enabled:  true,
			Path:     dir,
			ErrorLog: "error.log",
			InfoLog:  "info.log",
			TraceLog: "trace.log",
			WarnLog:  "warn.log",
		},
	})
	require.NoError(t, err)

	log.Info().Msg("goes to info.log")
	log.Error().Msg("goes to error.log")

	info, err := os.ReadFile(filepath.Join(dir, "info.log"))
	require.NoError(t, err)
	assert.Contains(t, string(info), "goes to info.log")
	assert.NotContains(t, string(info), "goes to error.log")

	errLog, err := os.ReadFile(filepath.Join(dir, "error.log"))
	require.NoError(t, err)
	assert.Contains(t, string(errLog), "goes to error.log")
}

func TestLevelWriter(t *testing.T) {
	var info, warn, errs, trace bytes.Buffer

	lw := &logger.LevelWriter{InfoWriter: &info, WarnWriter: &warn, ErrorWriter: &errs, TraceWriter: &trace}

	for _, lvl := range []zerolog.Level{
		zerolog.DebugLevel, zerolog.InfoLevel, zerolog.WarnLevel,
		zerolog.ErrorLevel, zerolog.FatalLevel, zerolog.TraceLevel, zerolog.Disabled,
	} {
		_, err := lw.WriteLevel(lvl, []byte(lvl.String()+"\n"))
		require.NoError(t, err)
	}

	assert.Equal(t, "debug\ninfo\n", info.String())
	assert.Equal(t, "warn\n", warn.String())
	assert.Equal(t, "error\nfatal\n", errs.String())
	assert.Equal(t, "trace\n", trace.String())
}

func captureInit(t *testing.T, cfg logger.Log) (string, error) {
	t.Helper()

	stdout := os.Stdout
	stderr := os.Stderr

	r, w, err := os.Pipe()
	require.NoError(t, err)

	os.Stdout = w
	os.Stderr = w

	initErr := logger.Init(cfg)
	if initErr == nil {
		log.Info().Msg("this info message should be seen...")
		log.Error().Err(errors.New("a test error")).Msg("this err message should be seen...") //nolint:goerr113
	}

	outC := make(chan string)

	go func() {
		var buf bytes.Buffer
		_, _ = io.Copy(&buf, r)
		outC <- buf.String()
	}()

	_ = w.Close()
	os.Stdout = stdout
	os.Stderr = stderr

	return <-outC, initErr
}
