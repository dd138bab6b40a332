package logger

import (
	"context"
	"log/slog"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"loud", slog.LevelInfo},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.input); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestNewLevels(t *testing.T) {
	ctx := context.Background()
	if !New("dev", "").Enabled(ctx, slog.LevelDebug) {
		t.Error("dev logger should enable debug")
	}
	if New("prod", "").Enabled(ctx, slog.LevelDebug) {
		t.Error("prod logger should not enable debug")
	}
	if New("dev", "error").Enabled(ctx, slog.LevelWarn) {
		t.Error("explicit level should override the env default")
	}
}
