package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/brainplay/internal/config"
)

func validConfig() config.Config {
	return config.Config{
		Addr:                ":8080",
		DBPath:              "test.db",
		LogLevel:            "INFO",
		TickInterval:        time.Second,
		FeedbackAPIURL:      "http://localhost/v1/chat/completions",
		FeedbackTimeout:     8 * time.Second,
		FeedbackWorkerCount: 2,
		FeedbackQueueSize:   64,
		SessionIdle:         30 * time.Minute,
		SessionRetention:    10 * time.Minute,
		ReaperInterval:      time.Minute,
	}
}

func TestValidate_ValidConfig(t *testing.T) {
	assert.NoError(t, validConfig().Validate())
}

func TestValidate_EmptyAddr(t *testing.T) {
	cfg := validConfig()
	cfg.Addr = ""

	err := cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "ADDR cannot be empty")
}

func TestValidate_EmptyDBPath(t *testing.T) {
	cfg := validConfig()
	cfg.DBPath = ""

	err := cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "DB_PATH cannot be empty")
}

func TestValidate_LogLevel(t *testing.T) {
	tests := []struct {
		name  string
		level string
		valid bool
	}{
		{name: "debug upper", level: "DEBUG", valid: true},
		{name: "info", level: "INFO", valid: true},
		{name: "warn", level: "WARN", valid: true},
		{name: "error", level: "ERROR", valid: true},
		{name: "lowercase valid level", level: "debug", valid: true},
		{name: "invalid level", level: "INVALID"},
		{name: "empty level", level: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			cfg.LogLevel = tt.level

			err := cfg.Validate()
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), "LOG_LEVEL")
			}
		})
	}
}

func TestValidate_GamesConfigPath(t *testing.T) {
	cfg := validConfig()
	cfg.GamesConfigPath = filepath.Join(t.TempDir(), "missing.yaml")

	err := cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "GAMES_CONFIG_PATH")

	path := filepath.Join(t.TempDir(), "games.yaml")
	require.NoError(t, os.WriteFile(path, []byte("games: []\n"), 0o644))
	cfg.GamesConfigPath = path
	assert.NoError(t, cfg.Validate())
}

func TestValidate_LogFormat(t *testing.T) {
	for _, format := range []string{"", "text", "JSON"} {
		cfg := validConfig()
		cfg.LogFormat = format
		assert.NoError(t, cfg.Validate(), format)
	}

	cfg := validConfig()
	cfg.LogFormat = "xml"
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "LOG_FORMAT")
}

func TestValidate_MultipleErrors(t *testing.T) {
	cfg := config.Config{LogLevel: "INVALID"}

	err := cfg.Validate()
	require.Error(t, err)

	errStr := err.Error()
	for _, want := range []string{
		"ADDR cannot be empty",
		"DB_PATH cannot be empty",
		"LOG_LEVEL",
		"TICK_INTERVAL_MS",
		"FEEDBACK_API_URL",
		"FEEDBACK_TIMEOUT_SECONDS",
		"FEEDBACK_WORKER_COUNT",
		"FEEDBACK_QUEUE_SIZE",
		"SESSION_IDLE_MINUTES",
		"SESSION_RETENTION_MINUTES",
		"REAPER_INTERVAL_SECONDS",
	} {
		assert.Contains(t, errStr, want)
	}
}

func TestLoad_EnvironmentVariables(t *testing.T) {
	t.Setenv("ADDR", ":9090")
	t.Setenv("DB_PATH", "custom.db")
	t.Setenv("TICK_INTERVAL_MS", "250")
	t.Setenv("FEEDBACK_TIMEOUT_SECONDS", "3")
	t.Setenv("FEEDBACK_WORKER_COUNT", "not-a-number")

	cfg := config.Load()

	assert.Equal(t, ":9090", cfg.Addr)
	assert.Equal(t, "custom.db", cfg.DBPath)
	assert.Equal(t, 250*time.Millisecond, cfg.TickInterval)
	assert.Equal(t, 3*time.Second, cfg.FeedbackTimeout)
	assert.Equal(t, 2, cfg.FeedbackWorkerCount)
	assert.Equal(t, "grok-beta", cfg.FeedbackModel)
}
