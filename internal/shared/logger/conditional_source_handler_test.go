package logger

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConditionalSourceHandler(t *testing.T) {
	tests := []struct {
		name       string
		minLevel   slog.Level
		log        func(l *slog.Logger)
		wantSource bool
	}{
		{"info below threshold", slog.LevelWarn, func(l *slog.Logger) { l.Info("msg") }, false},
		{"warn at threshold", slog.LevelWarn, func(l *slog.Logger) { l.Warn("msg") }, true},
		{"error above threshold", slog.LevelWarn, func(l *slog.Logger) { l.Error("msg") }, true},
		{"debug threshold covers info", slog.LevelDebug, func(l *slog.Logger) { l.Info("msg") }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			base := slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})
			tt.log(slog.New(NewConditionalSourceHandler(base, tt.minLevel)))

			assert.Equal(t, tt.wantSource, bytes.Contains(buf.Bytes(), []byte(`"source"`)))
		})
	}
}
