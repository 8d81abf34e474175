// Package logging builds the process-wide zap logger from the environment
// contract in spec §6: CESOP_LOG_LEVEL selects verbosity, CESOP_LOG_DIR
// selects (or disables) the file sink.
package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds a *zap.Logger from CESOP_LOG_LEVEL and CESOP_LOG_DIR. Both
// environment variables are optional; an empty level defaults to "info" and
// an empty dir behaves like "off".
func New() (*zap.Logger, error) {
	return NewFromEnv(os.Getenv("CESOP_LOG_LEVEL"), os.Getenv("CESOP_LOG_DIR"))
}

// NewFromEnv builds a logger from explicit level/dir values, bypassing the
// environment. Exposed so callers (and tests) can pin behavior without
// mutating process environment.
func NewFromEnv(level, dir string) (*zap.Logger, error) {
	zapLevel, trace, err := parseLevel(level)
	if err != nil {
		return nil, err
	}

	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = "ts"
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	consoleEncoder := zapcore.NewConsoleEncoder(encoderCfg)
	cores := []zapcore.Core{
		zapcore.NewCore(consoleEncoder, zapcore.Lock(os.Stderr), zapLevel),
	}

	if dir != "" && dir != "off" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("logging: create log dir: %w", err)
		}
		name := fmt.Sprintf("cesop-%s.log", time.Now().UTC().Format("20060102T150405Z"))
		f, err := os.OpenFile(filepath.Join(dir, name), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("logging: open log file: %w", err)
		}
		jsonEncoder := zapcore.NewJSONEncoder(encoderCfg)
		cores = append(cores, zapcore.NewCore(jsonEncoder, zapcore.AddSync(f), zapLevel))
	}

	logger := zap.New(zapcore.NewTee(cores...))
	if trace {
		logger = logger.With(zap.Bool("trace", true))
	}

	return logger, nil
}

// parseLevel maps the spec's five-level vocabulary onto zap's, since zap has
// no trace level: trace logs at debug with an extra trace=true field.
func parseLevel(level string) (zapcore.Level, bool, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "", "info":
		return zapcore.InfoLevel, false, nil
	case "trace":
		return zapcore.DebugLevel, true, nil
	case "debug":
		return zapcore.DebugLevel, false, nil
	case "warn", "warning":
		return zapcore.WarnLevel, false, nil
	case "error":
		return zapcore.ErrorLevel, false, nil
	default:
		return zapcore.InfoLevel, false, fmt.Errorf("logging: unknown CESOP_LOG_LEVEL %q", level)
	}
}
