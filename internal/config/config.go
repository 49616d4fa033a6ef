package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Addr            string
	DBPath          string
	LogLevel        string
	LogFormat       string
	GamesConfigPath string
	TickInterval    time.Duration

	FeedbackAPIURL      string
	FeedbackAPIKey      string
	FeedbackModel       string
	FeedbackTimeout     time.Duration
	FeedbackWorkerCount int
	FeedbackQueueSize   int

	SessionIdle      time.Duration
	SessionRetention time.Duration
	ReaperInterval   time.Duration
}

// Load reads configuration from a .env file (if present) and environment variables,
// applying sensible defaults when values are missing or invalid.
func Load() Config {
	// Ignore error so the app still starts when .env is absent in production.
	_ = godotenv.Load()

	return Config{
		Addr:            envOr("ADDR", ":8080"),
		DBPath:          envOr("DB_PATH", "file:brainplay.db"),
		LogLevel:        envOr("LOG_LEVEL", "INFO"),
		LogFormat:       envOr("LOG_FORMAT", "text"),
		GamesConfigPath: os.Getenv("GAMES_CONFIG_PATH"),
		TickInterval:    time.Duration(envIntOr("TICK_INTERVAL_MS", 1000)) * time.Millisecond,

		FeedbackAPIURL:      envOr("FEEDBACK_API_URL", "https://api.x.ai/v1/chat/completions"),
		FeedbackAPIKey:      os.Getenv("FEEDBACK_API_KEY"),
		FeedbackModel:       envOr("FEEDBACK_MODEL", "grok-beta"),
		FeedbackTimeout:     time.Duration(envIntOr("FEEDBACK_TIMEOUT_SECONDS", 8)) * time.Second,
		FeedbackWorkerCount: envIntOr("FEEDBACK_WORKER_COUNT", 2),
		FeedbackQueueSize:   envIntOr("FEEDBACK_QUEUE_SIZE", 64),

		SessionIdle:      time.Duration(envIntOr("SESSION_IDLE_MINUTES", 30)) * time.Minute,
		SessionRetention: time.Duration(envIntOr("SESSION_RETENTION_MINUTES", 10)) * time.Minute,
		ReaperInterval:   time.Duration(envIntOr("REAPER_INTERVAL_SECONDS", 60)) * time.Second,
	}
}

// Validate reports every invalid setting at once.
func (c Config) Validate() error {
	var errs []string

	if c.Addr == "" {
		errs = append(errs, "ADDR cannot be empty")
	}
	if c.DBPath == "" {
		errs = append(errs, "DB_PATH cannot be empty")
	}
	switch strings.ToUpper(c.LogLevel) {
	case "DEBUG", "INFO", "WARN", "ERROR":
	default:
		errs = append(errs, fmt.Sprintf("LOG_LEVEL must be one of DEBUG, INFO, WARN, ERROR (got %q)", c.LogLevel))
	}
	switch strings.ToLower(c.LogFormat) {
	case "", "text", "json":
	default:
		errs = append(errs, fmt.Sprintf("LOG_FORMAT must be text or json (got %q)", c.LogFormat))
	}
	if c.GamesConfigPath != "" {
		if _, err := os.Stat(c.GamesConfigPath); err != nil {
			errs = append(errs, fmt.Sprintf("GAMES_CONFIG_PATH not readable: %v", err))
		}
	}
	if c.TickInterval <= 0 {
		errs = append(errs, "TICK_INTERVAL_MS must be positive")
	}
	if c.FeedbackAPIURL == "" {
		errs = append(errs, "FEEDBACK_API_URL cannot be empty")
	}
	if c.FeedbackTimeout <= 0 {
		errs = append(errs, "FEEDBACK_TIMEOUT_SECONDS must be positive")
	}
	if c.FeedbackWorkerCount < 1 {
		errs = append(errs, "FEEDBACK_WORKER_COUNT must be at least 1")
	}
	if c.FeedbackQueueSize < 1 {
		errs = append(errs, "FEEDBACK_QUEUE_SIZE must be at least 1")
	}
	if c.SessionIdle <= 0 {
		errs = append(errs, "SESSION_IDLE_MINUTES must be positive")
	}
	if c.SessionRetention <= 0 {
		errs = append(errs, "SESSION_RETENTION_MINUTES must be positive")
	}
	if c.ReaperInterval <= 0 {
		errs = append(errs, "REAPER_INTERVAL_SECONDS must be positive")
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(errs, "; "))
	}
	return nil
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envIntOr(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
		log.Printf("invalid value for %s=%q, using default %d", key, v, def)
	}
	return def
}
