// Package logging configures the process-wide slog logger.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Config selects the handler and minimum level.
type Config struct {
	Format string // "json" or "text"
	Level  string // "debug", "info", "warn", "error"
}

const redacted = "[redacted]"

// Attribute keys whose values never reach the log output.
var sensitiveKeys = map[string]bool{
	"access_token":  true,
	"authorization": true,
	"client_secret": true,
	"password":      true,
	"secret":        true,
	"token":         true,
}

var logger *slog.Logger

// Setup installs the logger on stderr.
func Setup(cfg Config) {
	SetupWriter(os.Stderr, cfg)
}

// SetupWriter installs the logger on w. Every record carries service=gameshelf.
func SetupWriter(w io.Writer, cfg Config) {
	opts := &slog.HandlerOptions{
		Level:       parseLevel(cfg.Level),
		ReplaceAttr: redact,
	}

	var handler slog.Handler
	switch strings.ToLower(strings.TrimSpace(cfg.Format)) {
	case "json":
		handler = slog.NewJSONHandler(w, opts)
	default:
		handler = slog.NewTextHandler(w, opts)
	}

	logger = slog.New(handler).With("service", "gameshelf")
	slog.SetDefault(logger)
}

func redact(_ []string, a slog.Attr) slog.Attr {
	if sensitiveKeys[strings.ToLower(a.Key)] {
		return slog.String(a.Key, redacted)
	}
	return a
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}

// Get returns the installed logger, or slog's default before Setup.
func Get() *slog.Logger {
	if logger == nil {
		return slog.Default()
	}
	return logger
}

// With returns a child logger carrying args on every record.
func With(args ...any) *slog.Logger {
	return Get().With(args...)
}

func Debug(msg string, args ...any) { Get().Debug(msg, args...) }

func Info(msg string, args ...any) { Get().Info(msg, args...) }

func Warn(msg string, args ...any) { Get().Warn(msg, args...) }

func Error(msg string, args ...any) { Get().Error(msg, args...) }
