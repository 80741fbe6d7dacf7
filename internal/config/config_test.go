package config

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/sethvargo/go-envconfig"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := load(envconfig.MapLookuper(map[string]string{}))
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, "ticktock-debug.log", cfg.DebugLog)
	assert.Empty(t, cfg.ReportDir)
}

func TestLoad_CustomValues(t *testing.T) {
	cfg, err := load(envconfig.MapLookuper(map[string]string{
		"TICKTOCK_LOG_LEVEL":  "DEBUG",
		"TICKTOCK_LOG_FORMAT": "json",
		"TICKTOCK_DEBUG_LOG":  "/tmp/tt.log",
		"TICKTOCK_REPORT_DIR": "/tmp/reports",
	}))
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, "/tmp/tt.log", cfg.DebugLog)
	assert.Equal(t, "/tmp/reports", cfg.ReportDir)
}

func TestLoad_InvalidFormat(t *testing.T) {
	_, err := load(envconfig.MapLookuper(map[string]string{
		"TICKTOCK_LOG_FORMAT": "xml",
	}))
	assert.Error(t, err)
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("TICKTOCK_LOG_LEVEL", "warn")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.LogLevel)
}

func TestAnalysisValidate(t *testing.T) {
	tests := []struct {
		name    string
		opts    Analysis
		wantErr bool
	}{
		{"defaults", Analysis{Beats: 1}, false},
		{"explicit", Analysis{Threshold: 500, Resolution: 2400, Beats: 4}, false},
		{"negative_threshold", Analysis{Threshold: -1, Beats: 1}, true},
		{"negative_resolution", Analysis{Resolution: -5, Beats: 1}, true},
		{"zero_beats", Analysis{Beats: 0}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestAnalysisValidate_Message(t *testing.T) {
	err := Analysis{Beats: 0}.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "beats")
}

func TestResolveResolution(t *testing.T) {
	assert.Equal(t, 2400, Analysis{}.ResolveResolution(48000))
	assert.Equal(t, 2205, Analysis{}.ResolveResolution(44100))
	assert.Equal(t, 100, Analysis{Resolution: 100}.ResolveResolution(48000))
	assert.Equal(t, 1, Analysis{}.ResolveResolution(10))
}

func TestNewLogger_Disabled(t *testing.T) {
	cfg := &Config{LogLevel: "info", LogFormat: "text"}

	logger, closer, err := cfg.NewLogger()
	require.NoError(t, err)
	require.NotNil(t, logger)
	assert.NoError(t, closer())
}

func TestNewLogger_WritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "debug.log")
	cfg := &Config{LogLevel: "debug", LogFormat: "json", DebugLog: path}

	logger, closer, err := cfg.NewLogger()
	require.NoError(t, err)
	logger.Debug("segmentation finished", "onsets", 12)
	require.NoError(t, closer())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"onsets":12`)
}

func TestHandlerRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	cfg := &Config{LogLevel: "error", LogFormat: "text"}
	logger := slog.New(cfg.handler(&buf))

	logger.Info("hidden")
	logger.Error("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}

func TestParseLogLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, parseLogLevel("debug"))
	assert.Equal(t, slog.LevelWarn, parseLogLevel("WARNING"))
	assert.Equal(t, slog.LevelError, parseLogLevel("error"))
	assert.Equal(t, slog.LevelInfo, parseLogLevel("bogus"))
}
