package logger_test

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/brainplay/internal/logger"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want logger.Level
	}{
		{"debug", logger.DEBUG},
		{"INFO", logger.INFO},
		{"warn", logger.WARN},
		{"warning", logger.WARN},
		{"ERROR", logger.ERROR},
		{"bogus", logger.INFO},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, logger.ParseLevel(tt.in))
		})
	}
}

func TestLogger_LevelAndFields(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.WithOutput(&buf), logger.WithLevel(logger.INFO), logger.WithColors(false))

	log.Debug("hidden")
	assert.Empty(t, buf.String())

	log.WithPrefix("jobs").ForSession("s-1", "dot-dash").WithField("attempt", 2).Info("saved %d records", 3)
	line := buf.String()
	assert.Contains(t, line, "INFO")
	assert.Contains(t, line, "[jobs]")
	assert.Contains(t, line, "saved 3 records")
	assert.True(t, strings.HasSuffix(line, " attempt=2 game=dot-dash session_id=s-1\n"), line)
}

func TestLogger_Context(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.WithOutput(&buf), logger.WithColors(false)).WithField("request_id", "abc")

	ctx := logger.NewContext(context.Background(), log)
	logger.FromContext(ctx).Warn("careful")
	assert.Contains(t, buf.String(), "request_id=abc")

	assert.Same(t, logger.Default(), logger.FromContext(context.Background()))
}

func TestDiscard(t *testing.T) {
	assert.NotPanics(t, func() { logger.Discard().Error("dropped %s", "quietly") })
}

func TestLogger_JSONFormat(t *testing.T) {
	var buf bytes.Buffer
	at := time.Date(2026, 5, 1, 8, 30, 0, 0, time.UTC)
	log := logger.New(
		logger.WithOutput(&buf),
		logger.WithFormat(logger.ParseFormat("JSON")),
		logger.WithTime(func() time.Time { return at }),
	)

	log.WithPrefix("session").ForSession("s-9", "word-chain").Warn("level up to %d", 4)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry), buf.String())
	assert.Equal(t, "WARN", entry["level"])
	assert.Equal(t, "level up to 4", entry["msg"])
	assert.Equal(t, "session", entry["component"])
	assert.Equal(t, "s-9", entry["session_id"])
	assert.Equal(t, "word-chain", entry["game"])
	assert.Equal(t, "2026-05-01T08:30:00Z", entry["time"])
	assert.Contains(t, entry["caller"], "logger_test.go")
}

func TestLogger_DerivedLoggersShareOutput(t *testing.T) {
	var buf bytes.Buffer
	base := logger.New(logger.WithOutput(&buf), logger.WithColors(false))

	base.WithField("a", 1).Info("one")
	base.WithPrefix("jobs").Info("two")
	base.Info("three")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasSuffix(lines[0], "one a=1"), lines[0])
	assert.NotContains(t, lines[2], "a=1")
	assert.NotContains(t, lines[2], "[jobs]")
	assert.Equal(t, logger.FormatText, logger.ParseFormat("yaml"))
}
