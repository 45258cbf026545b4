// Package logging provides the process-wide structured logger and helpers
// for carrying it through context.Context.
package logging

import (
	"context"
	"os"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

type Config struct {
	Level      string `envconfig:"INTENT_LOG_LEVEL" default:"info"`
	FileName   string `envconfig:"INTENT_LOG_FILE"`
	MaxSizeMb  int    `envconfig:"INTENT_LOG_MAX_SIZE_MB" default:"64"`
	MaxBackups int    `envconfig:"INTENT_LOG_MAX_BACKUPS" default:"3"`
}

// contextKey is the private type used to store the logger in a context.
type contextKey string

const loggerKey = contextKey("logger")

var (
	defaultLogger     *zap.SugaredLogger
	defaultLoggerOnce sync.Once
)

// NewLogger builds a sugared zap logger from config. When FileName is set the
// log is written to a size-rotated file, otherwise to stderr.
func NewLogger(config *Config) *zap.SugaredLogger {
	level := zapcore.InfoLevel
	if config != nil {
		if err := level.Set(config.Level); err != nil {
			level = zapcore.InfoLevel
		}
	}

	var sink zapcore.WriteSyncer = zapcore.Lock(os.Stderr)
	if config != nil && config.FileName != "" {
		sink = zapcore.AddSync(&lumberjack.Logger{
			Filename:   config.FileName,
			MaxSize:    config.MaxSizeMb,
			MaxBackups: config.MaxBackups,
		})
	}

	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	core := zapcore.NewCore(zapcore.NewJSONEncoder(encoderCfg), sink, level)

	return zap.New(core).Sugar()
}

// DefaultLogger returns the shared fallback logger.
func DefaultLogger() *zap.SugaredLogger {
	defaultLoggerOnce.Do(func() {
		defaultLogger = NewLogger(nil)
	})

	return defaultLogger
}

// WithLogger stores the logger in the context.
func WithLogger(ctx context.Context, logger *zap.SugaredLogger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// FromContext returns the logger stored in the context, falling back to the
// default logger when none is set.
func FromContext(ctx context.Context) *zap.SugaredLogger {
	if logger, ok := ctx.Value(loggerKey).(*zap.SugaredLogger); ok {
		return logger
	}

	return DefaultLogger()
}
