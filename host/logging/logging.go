// Package logging builds the host tools' zap logger and routes the
// controller's debug output into it.
package logging

import (
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"sphere/core"
)

// NewLogger creates a logger.
// level: "debug", "info", "warn", "error" (default "info")
// format: "json" or "console" (default "console")
func NewLogger(level string, format string) (*zap.Logger, error) {
	var zapLevel zapcore.Level
	switch level {
	case "debug":
		zapLevel = zapcore.DebugLevel
	case "warn":
		zapLevel = zapcore.WarnLevel
	case "error":
		zapLevel = zapcore.ErrorLevel
	default:
		zapLevel = zapcore.InfoLevel
	}

	var cfg zap.Config
	if format == "json" {
		cfg = zap.NewProductionConfig()
		cfg.EncoderConfig.TimeKey = "timestamp"
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	} else {
		cfg = zap.NewDevelopmentConfig()
		cfg.DisableStacktrace = true
	}
	cfg.Level = zap.NewAtomicLevelAt(zapLevel)
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}

	return cfg.Build()
}

// CoreWriter returns a debug writer that logs controller messages at debug
// level. A leading "[TAG]" becomes the component field. Event ring dumps
// are logged at info so they survive the default level.
func CoreWriter(logger *zap.Logger) core.DebugWriter {
	return func(msg string) {
		component := "core"
		if strings.HasPrefix(msg, "[") {
			if end := strings.IndexByte(msg, ']'); end > 0 {
				component = strings.ToLower(msg[1:end])
				msg = strings.TrimSpace(msg[end+1:])
			}
		}
		if component == "events" {
			logger.Info(msg, zap.String("component", component))
			return
		}
		logger.Debug(msg, zap.String("component", component))
	}
}

// Attach routes core debug output to logger and enables it when the logger
// would record debug entries
func Attach(logger *zap.Logger) {
	core.SetDebugWriter(CoreWriter(logger))
	core.SetDebugEnabled(logger.Core().Enabled(zapcore.DebugLevel))
}
