// Package logger builds the structured logger used by the engine and its
// CLI entry point, in the style of the teacher's ambient-stack donor
// (noah-isme-sma-adp-api/pkg/logger): a zap.Config selected by environment,
// returned as a *zap.Logger that callers thread explicitly rather than
// reach for through a package-level singleton.
package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Options configures logger construction.
type Options struct {
	Env    string // "production" or "development"
	Level  string // zap level name, defaults to "info"
	Format string // "json" or "console"
}

const EnvProduction = "production"

// New builds a *zap.Logger from Options.
func New(opts Options) (*zap.Logger, error) {
	var cfg zap.Config
	if opts.Env == EnvProduction {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
	}

	switch opts.Format {
	case "console":
		cfg.Encoding = "console"
	case "json", "":
		cfg.Encoding = "json"
	default:
		cfg.Encoding = opts.Format
	}

	if opts.Level != "" {
		if err := cfg.Level.UnmarshalText([]byte(opts.Level)); err != nil {
			cfg.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
		}
	}

	cfg.EncoderConfig.TimeKey = "timestamp"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	return cfg.Build()
}

// Nop returns a no-op logger, used by defaults and tests.
func Nop() *zap.Logger {
	return zap.NewNop()
}
