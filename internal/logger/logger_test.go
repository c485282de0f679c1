package logger

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"ERROR", slog.LevelError},
		{"nonsense", slog.LevelInfo},
		{"", slog.LevelInfo},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseLevel(tt.input), "input %q", tt.input)
	}
}

func TestNew_ProductionDefaultsToJSON(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Writer: &buf, Environment: "production"})

	log.Info("server started", "port", "4000")

	line := buf.String()
	assert.Contains(t, line, `"msg":"server started"`)
	assert.Contains(t, line, `"port":"4000"`)
}

func TestNew_DevelopmentDefaultsToPretty(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Writer: &buf, Environment: "development"})

	log.Info("server started")

	line := buf.String()
	assert.Contains(t, line, "INF")
	assert.Contains(t, line, "server started")
	assert.NotContains(t, line, `"msg"`)
}

func TestNew_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Writer: &buf, Environment: "development", Level: slog.LevelWarn})

	log.Debug("hidden")
	log.Info("also hidden")
	log.Warn("shown")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "shown")
}

func TestPrettyHandler_FormatsLine(t *testing.T) {
	var buf bytes.Buffer
	h := NewPrettyHandler(&buf, nil)

	r := slog.NewRecord(time.Date(2026, 9, 1, 13, 37, 0, 0, time.UTC), slog.LevelError, "store unavailable", 0)
	r.AddAttrs(slog.String("path", "/tmp/db"))

	require.NoError(t, h.Handle(context.Background(), r))

	line := buf.String()
	assert.Contains(t, line, "13:37:00")
	assert.Contains(t, line, "ERR")
	assert.Contains(t, line, "store unavailable")
	assert.Contains(t, line, "path=/tmp/db")
	assert.True(t, strings.HasSuffix(line, "\n"))
}

func TestPrettyHandler_Enabled(t *testing.T) {
	h := NewPrettyHandler(&bytes.Buffer{}, &slog.HandlerOptions{Level: slog.LevelWarn})

	assert.False(t, h.Enabled(context.Background(), slog.LevelDebug))
	assert.False(t, h.Enabled(context.Background(), slog.LevelInfo))
	assert.True(t, h.Enabled(context.Background(), slog.LevelWarn))
	assert.True(t, h.Enabled(context.Background(), slog.LevelError))
}

func TestPrettyHandler_WithAttrs(t *testing.T) {
	var buf bytes.Buffer
	h := NewPrettyHandler(&buf, nil).WithAttrs([]slog.Attr{slog.String("topic", "book-added")})

	r := slog.NewRecord(time.Now(), slog.LevelInfo, "event published", 0)
	r.AddAttrs(slog.Int("subscribers", 2))

	require.NoError(t, h.Handle(context.Background(), r))

	line := buf.String()
	assert.Contains(t, line, "topic=book-added")
	assert.Contains(t, line, "subscribers=2")
}

func TestPrettyHandler_WithGroupPrefixesKeys(t *testing.T) {
	var buf bytes.Buffer
	h := NewPrettyHandler(&buf, nil).WithGroup("store")

	r := slog.NewRecord(time.Now(), slog.LevelInfo, "opened", 0)
	r.AddAttrs(slog.String("path", "/tmp/db"))

	require.NoError(t, h.Handle(context.Background(), r))
	assert.Contains(t, buf.String(), "store.path=/tmp/db")
}

func TestPrettyHandler_DurationAttr(t *testing.T) {
	var buf bytes.Buffer
	h := NewPrettyHandler(&buf, nil)

	r := slog.NewRecord(time.Now(), slog.LevelInfo, "request served", 0)
	r.AddAttrs(slog.Duration("took", 1500*time.Millisecond))

	require.NoError(t, h.Handle(context.Background(), r))
	assert.Contains(t, buf.String(), "took=1.5s")
}
