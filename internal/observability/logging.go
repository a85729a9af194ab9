// Package observability builds the server's zap loggers.
package observability

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/cory-johannsen/skirmish/internal/config"
)

// formats maps logging.format values to zap presets.
var formats = map[string]func() zap.Config{
	"json":    zap.NewProductionConfig,
	"console": zap.NewDevelopmentConfig,
}

// NewLogger builds the root logger for cfg. Every entry carries
// service=skirmish.
//
// Precondition: cfg.Level parses as a zap level and cfg.Format is "json" or "console".
// Postcondition: Returns a ready logger or a non-nil error.
func NewLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	level, err := zap.ParseAtomicLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}
	preset, ok := formats[cfg.Format]
	if !ok {
		return nil, fmt.Errorf("log format %q: want json or console", cfg.Format)
	}

	zc := preset()
	zc.Level = level
	zc.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	zc.InitialFields = map[string]interface{}{"service": "skirmish"}
	return zc.Build()
}

// Component names a child logger after a subsystem and tags its entries with
// component=name. A nil base yields a no-op logger.
func Component(base *zap.Logger, name string) *zap.Logger {
	if base == nil {
		return zap.NewNop()
	}
	return base.Named(name).With(zap.String("component", name))
}

// Actor is the field identifying the chat user a log entry concerns.
func Actor(id string) zap.Field {
	return zap.String("actor", id)
}
