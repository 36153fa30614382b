package logging

import (
	"context"
	"log/slog"
	"testing"
)

func TestSetup_LevelParsing(t *testing.T) {
	cases := []struct {
		level   string
		enabled slog.Level
		muted   slog.Level
	}{
		{"debug", slog.LevelDebug, slog.LevelDebug - 4},
		{"info", slog.LevelInfo, slog.LevelDebug},
		{"warn", slog.LevelWarn, slog.LevelInfo},
		{"error", slog.LevelError, slog.LevelWarn},
		{"bogus", slog.LevelInfo, slog.LevelDebug},
	}

	for _, tc := range cases {
		Setup("ecoruta-test", tc.level, "json")
		if !slog.Default().Enabled(context.Background(), tc.enabled) {
			t.Errorf("level %q: expected %v enabled", tc.level, tc.enabled)
		}
		if slog.Default().Enabled(context.Background(), tc.muted) {
			t.Errorf("level %q: expected %v muted", tc.level, tc.muted)
		}
	}
}
