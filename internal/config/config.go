// Package config loads runtime settings from the environment and validates
// analysis options.
package config

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/sethvargo/go-envconfig"
)

// Config holds settings that are not part of the command line.
type Config struct {
	LogLevel  string `env:"TICKTOCK_LOG_LEVEL, default=info" validate:"oneof=debug info warn warning error"`
	LogFormat string `env:"TICKTOCK_LOG_FORMAT, default=text" validate:"oneof=text json"`

	// Debug log destination; empty disables logging
	DebugLog string `env:"TICKTOCK_DEBUG_LOG, default=ticktock-debug.log"`

	// Directory for --logs reports; empty writes next to the input file
	ReportDir string `env:"TICKTOCK_REPORT_DIR"`
}

// Analysis holds the detection parameters of a single run.
type Analysis struct {
	Threshold  int `validate:"gte=0"` // 0 = estimate from the noise floor
	Resolution int `validate:"gte=0"` // 0 = derive from the sample rate
	Beats      int `validate:"gte=1"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Load reads configuration from environment variables using go-envconfig.
func Load() (*Config, error) {
	return load(envconfig.OsLookuper())
}

func load(lookuper envconfig.Lookuper) (*Config, error) {
	cfg := &Config{}
	if err := envconfig.ProcessWith(context.Background(), &envconfig.Config{
		Target:   cfg,
		Lookuper: lookuper,
	}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	cfg.LogLevel = strings.ToLower(cfg.LogLevel)
	cfg.LogFormat = strings.ToLower(cfg.LogFormat)

	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

// Validate checks the analysis options.
func (a Analysis) Validate() error {
	if err := validate.Struct(a); err != nil {
		return describe(err)
	}
	return nil
}

// describe turns validator errors into a single readable message.
func describe(err error) error {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		parts = append(parts, fmt.Sprintf("%s must be %s %s (got %v)", strings.ToLower(fe.Field()), fe.Tag(), fe.Param(), fe.Value()))
	}
	return fmt.Errorf("invalid options: %s", strings.Join(parts, "; "))
}

// ResolveResolution returns the configured resolution, or one longer than a
// 20 Hz period so that low bass notes are not split into several events.
func (a Analysis) ResolveResolution(sampleRate int) int {
	if a.Resolution > 0 {
		return a.Resolution
	}
	return max(sampleRate/20, 1)
}

// NewLogger creates a structured logger writing to the debug log.
// The returned closer must be called when done; it is a no-op when logging
// is disabled.
func (c *Config) NewLogger() (*slog.Logger, func() error, error) {
	if c.DebugLog == "" {
		return slog.New(slog.DiscardHandler), func() error { return nil }, nil
	}

	f, err := os.OpenFile(c.DebugLog, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open debug log: %w", err)
	}
	return slog.New(c.handler(f)), f.Close, nil
}

func (c *Config) handler(w io.Writer) slog.Handler {
	opts := &slog.HandlerOptions{Level: parseLogLevel(c.LogLevel)}
	if c.LogFormat == "json" {
		return slog.NewJSONHandler(w, opts)
	}
	return slog.NewTextHandler(w, opts)
}

// parseLogLevel converts a string log level to slog.Level.
func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
