// Package logging builds the zap logger used by suites and the CLI.
package logging

import (
	"strings"

	"github.com/denizgursoy/stepreport/pkg/stepreport"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// FormatConsole selects the human readable encoder. Any other format logs
// JSON.
const FormatConsole = "console"

// ParseLevel maps debug, warn and error to their levels and everything else
// to info.
func ParseLevel(level string) zapcore.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return zap.DebugLevel
	case "warn", "warning":
		return zap.WarnLevel
	case "error":
		return zap.ErrorLevel
	default:
		return zap.InfoLevel
	}
}

// NewLogger builds a logger for format and level writing to stderr. The
// level "off" returns a no-op logger.
func NewLogger(format, level string) (*zap.Logger, error) {
	if strings.EqualFold(level, "off") {
		return zap.NewNop(), nil
	}

	var zapCfg zap.Config
	if strings.EqualFold(format, FormatConsole) {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}
	zapCfg.EncoderConfig.EncodeTime = zapcore.RFC3339NanoTimeEncoder
	zapCfg.Level = zap.NewAtomicLevelAt(ParseLevel(level))
	zapCfg.OutputPaths = []string{"stderr"}

	return zapCfg.Build()
}

// FromConfig builds the logger described by cfg.
func FromConfig(cfg *stepreport.Config) (*zap.Logger, error) {
	return NewLogger(cfg.LogFormat, cfg.LogLevel)
}
