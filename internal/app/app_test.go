package app

import (
	"context"
	"log/slog"
	"testing"

	"github.com/sundayezeilo/linkly/internal/config"
)

func TestNewLogger_Levels(t *testing.T) {
	tests := []struct {
		level string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			logger := NewLogger(tt.level)
			if !logger.Enabled(context.Background(), tt.want) {
				t.Errorf("level %s not enabled", tt.want)
			}
			if tt.want > slog.LevelDebug && logger.Enabled(context.Background(), tt.want-1) {
				t.Errorf("level below %s enabled", tt.want)
			}
		})
	}
}

func TestWire_RejectsUnknownEncoding(t *testing.T) {
	cfg := &config.Config{Shortener: config.ShortenerConfig{IDEncoding: "base32", IDMaxAttempts: 3}}

	if _, err := wire(cfg, NewLogger("error"), nil); err == nil {
		t.Fatal("wire() expected error for unknown encoding, got nil")
	}
}
