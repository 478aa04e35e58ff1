// Package logging builds the zap logger used by both hooks. Hook stdout and
// stderr belong to the host, so logs go to a file or nowhere.
package logging

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config selects where and how much to log
type Config struct {
	// File is the log destination; empty disables logging
	File string
	// Level is a zap level name (debug, info, warn, error)
	Level string
	// Format is "json" or "console"
	Format string
}

// New creates a logger from cfg. The returned close func flushes and
// releases the log file and is safe to call on a Nop logger.
func New(cfg Config) (*zap.Logger, func(), error) {
	if cfg.File == "" {
		return zap.NewNop(), func() {}, nil
	}

	level := zapcore.InfoLevel
	if cfg.Level != "" {
		parsed, err := zapcore.ParseLevel(cfg.Level)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
		}
		level = parsed
	}

	if err := os.MkdirAll(filepath.Dir(cfg.File), 0o755); err != nil {
		return nil, nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}

	core := zapcore.NewCore(newEncoder(cfg.Format), zapcore.AddSync(f), level)
	logger := zap.New(core).With(zap.Int("pid", os.Getpid()))

	return logger, func() {
		_ = logger.Sync()
		_ = f.Close()
	}, nil
}

func newEncoder(format string) zapcore.Encoder {
	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = "ts"
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	if format == "console" {
		return zapcore.NewConsoleEncoder(encoderCfg)
	}
	return zapcore.NewJSONEncoder(encoderCfg)
}
