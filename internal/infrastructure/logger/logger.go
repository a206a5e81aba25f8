// Package logger builds the zerolog logger shared by the server and CLI.
package logger

import (
	"context"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/iho/cashbook/internal/domain"
)

// Config holds logger configuration.
type Config struct {
	Level  string // debug, info, warn, error
	Format string // json, console
}

// New creates a new zerolog logger based on config.
func New(cfg Config) zerolog.Logger {
	return NewWithWriter(cfg, os.Stdout)
}

// NewWithWriter is New with an explicit destination.
func NewWithWriter(cfg Config, out io.Writer) zerolog.Logger {
	if cfg.Format == "console" {
		out = zerolog.ConsoleWriter{
			Out:        out,
			TimeFormat: time.RFC3339,
		}
	}

	return zerolog.New(out).
		Level(parseLevel(cfg.Level)).
		With().
		Timestamp().
		Caller().
		Logger()
}

// WithContext returns base annotated with the request id and owner scope
// carried by ctx.
func WithContext(ctx context.Context, base zerolog.Logger) zerolog.Logger {
	c := base.With()
	if id := domain.RequestIDFromContext(ctx); id != "" {
		c = c.Str("request_id", id)
	}
	if scope, ok := domain.ScopeFromContext(ctx); ok {
		c = c.Str("owner_id", scope.OwnerID).Str("actor_id", scope.ActorID)
	}
	return c.Logger()
}

func parseLevel(level string) zerolog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}
