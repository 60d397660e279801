package logger

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{"debug", slog.LevelDebug, false},
		{"INFO", slog.LevelInfo, false},
		{"warn", slog.LevelWarn, false},
		{"error", slog.LevelError, false},
		{"loud", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewFormats(t *testing.T) {
	for _, format := range []string{"pretty", "text", "json"} {
		t.Run(format, func(t *testing.T) {
			var buf bytes.Buffer
			log, err := New("info", format, &buf)
			require.NoError(t, err)

			log.Debug("hidden")
			log.Info("loaded klines", "rows", 42)
			assert.NotContains(t, buf.String(), "hidden")
			assert.Contains(t, buf.String(), "loaded klines")
			assert.Contains(t, buf.String(), "42")
		})
	}

	_, err := New("info", "xml", &bytes.Buffer{})
	assert.Error(t, err)
	_, err = New("loud", "text", &bytes.Buffer{})
	assert.Error(t, err)
}

func TestPrettyHandlerAttrs(t *testing.T) {
	color.NoColor = true
	var buf bytes.Buffer
	log := slog.New(NewPrettyHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	log.With("symbol", "BTCUSDT").WithGroup("cache").Warn("skipping cache file",
		"err", errors.New("bad name"), "age", 90*time.Minute)

	out := buf.String()
	assert.Contains(t, out, "WARN:")
	assert.Contains(t, out, `"symbol": "BTCUSDT"`)
	assert.Contains(t, out, `"cache.err": "bad name"`)
	assert.Contains(t, out, `"cache.age": "1h30m0s"`)
}
