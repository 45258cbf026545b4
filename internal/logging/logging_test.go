package logging

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestNewLoggerLevel(t *testing.T) {
	tests := []struct {
		name         string
		level        string
		debugEnabled bool
	}{
		{name: "debug", level: "debug", debugEnabled: true},
		{name: "info", level: "info", debugEnabled: false},
		{name: "bogus_falls_back_to_info", level: "nonsense", debugEnabled: false},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			logger := NewLogger(&Config{Level: test.level})
			got := logger.Desugar().Core().Enabled(zapcore.DebugLevel)
			if got != test.debugEnabled {
				t.Errorf("debug enabled, got %v, expected %v", got, test.debugEnabled)
			}
			if !logger.Desugar().Core().Enabled(zapcore.ErrorLevel) {
				t.Errorf("error level must always be enabled")
			}
		})
	}
}

func TestNewLoggerFileSink(t *testing.T) {
	path := filepath.Join(t.TempDir(), "intent.log")
	logger := NewLogger(&Config{Level: "info", FileName: path, MaxSizeMb: 1, MaxBackups: 1})
	logger.Infof("file sink check")
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("log file was not written: %v", err)
	}
	if !strings.Contains(string(data), "file sink check") {
		t.Errorf("log file does not contain the entry, got %q", string(data))
	}
}

func TestFromContext(t *testing.T) {
	ctx := context.Background()
	if FromContext(ctx) != DefaultLogger() {
		t.Errorf("empty context must fall back to the default logger")
	}

	logger := NewLogger(&Config{Level: "warn"})
	ctx = WithLogger(ctx, logger)
	if FromContext(ctx) != logger {
		t.Errorf("context must return the stored logger")
	}
}
