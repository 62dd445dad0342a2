// Package logger builds the process zap logger.
package logger

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Modes accepted by New.
const (
	ModeDev    = "dev"
	ModeProd   = "prod"
	ModeSilent = "silent"
)

// New builds a logger for mode: "dev" (console, debug level), "prod"
// (JSON, info level) or "silent" (no output). Empty means dev.
func New(mode string) (*zap.Logger, error) {
	var cfg zap.Config
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "", ModeDev, "development":
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	case ModeProd, "production":
		cfg = zap.NewProductionConfig()
	case ModeSilent, "off":
		return zap.NewNop(), nil
	default:
		return nil, fmt.Errorf("unknown log mode %q (use %s, %s or %s)", mode, ModeDev, ModeProd, ModeSilent)
	}
	// Logs go to stderr so stdout stays clean for command output.
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	return cfg.Build()
}

// Redact keeps the first four characters of a secret for log fields.
func Redact(secret string) string {
	if len(secret) <= 4 {
		return strings.Repeat("*", len(secret))
	}
	return secret[:4] + strings.Repeat("*", 8)
}
