package config

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/vango-dev/stocknav/internal/errors"
)

const (
	// EnvLoggingLevel overrides the log level.
	EnvLoggingLevel = "STOCKNAV_LOG_LEVEL"

	// EnvLoggingFormat overrides the log format.
	EnvLoggingFormat = "STOCKNAV_LOG_FORMAT"
)

// Log level constants.
const (
	LevelDebug = "debug"
	LevelInfo  = "info"
	LevelWarn  = "warn"
	LevelError = "error"
)

// Log format constants.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// LoggingConfig holds logging configuration settings.
type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// Finalize applies defaults, loads environment overrides, and validates the configuration.
func (c *LoggingConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge applies non-zero values from the overlay configuration.
func (c *LoggingConfig) Merge(overlay *LoggingConfig) {
	if overlay.Level != "" {
		c.Level = overlay.Level
	}
	if overlay.Format != "" {
		c.Format = overlay.Format
	}
}

// SlogLevel converts the level to its slog equivalent.
// Unknown levels default to slog.LevelInfo.
func (c *LoggingConfig) SlogLevel() slog.Level {
	switch c.Level {
	case LevelDebug:
		return slog.LevelDebug
	case LevelWarn:
		return slog.LevelWarn
	case LevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// NewLogger creates a text or JSON slog.Logger writing to w.
func (c *LoggingConfig) NewLogger(w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: c.SlogLevel()}

	var handler slog.Handler
	if c.Format == FormatJSON {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	return slog.New(handler)
}

func (c *LoggingConfig) loadDefaults() {
	if c.Level == "" {
		c.Level = LevelInfo
	}
	if c.Format == "" {
		c.Format = FormatText
	}
}

func (c *LoggingConfig) loadEnv() {
	if v := os.Getenv(EnvLoggingLevel); v != "" {
		c.Level = v
	}
	if v := os.Getenv(EnvLoggingFormat); v != "" {
		c.Format = v
	}
}

func (c *LoggingConfig) validate() error {
	switch c.Level {
	case LevelDebug, LevelInfo, LevelWarn, LevelError:
	default:
		return errors.New("E106").WithDetail(fmt.Sprintf("level is %q.", c.Level))
	}
	switch c.Format {
	case FormatText, FormatJSON:
	default:
		return errors.New("E107").WithDetail(fmt.Sprintf("format is %q.", c.Format))
	}
	return nil
}
