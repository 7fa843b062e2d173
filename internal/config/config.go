package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/park285/chainchess/internal/obslog"
)

type NotifyMode string

const (
	NotifyOff  NotifyMode = "off"
	NotifyHTTP NotifyMode = "http"
	NotifyWS   NotifyMode = "ws"
)

type AppConfig struct {
	ListenAddr string

	RedisURL    string
	StorePrefix string
	DatabaseURL string

	NotifyMode    NotifyMode
	NotifyURL     string
	NotifyTimeout time.Duration

	MessagesDir        string
	LeaderboardDefault int
	ShutdownTimeout    time.Duration
	Log                obslog.Options
}

// Load reads the environment, after an optional .env file in the working directory.
func Load() (*AppConfig, error) {
	_ = godotenv.Load()
	return FromEnv(os.Getenv)
}

// FromEnv builds the config from a lookup function.
func FromEnv(getenv func(string) string) (*AppConfig, error) {
	get := func(k string) string { return strings.TrimSpace(getenv(k)) }

	cfg := &AppConfig{
		ListenAddr:         ":8080",
		StorePrefix:        "chess",
		NotifyMode:         NotifyOff,
		NotifyTimeout:      3 * time.Second,
		LeaderboardDefault: 10,
		ShutdownTimeout:    10 * time.Second,
		Log: obslog.Options{
			Level:   "info",
			Format:  "legacy",
			Console: true,
		},
	}

	if v := get("LISTEN_ADDR"); v != "" {
		cfg.ListenAddr = v
	}
	cfg.RedisURL = get("REDIS_URL")
	if v := get("STORE_PREFIX"); v != "" {
		cfg.StorePrefix = v
	}
	cfg.DatabaseURL = get("DATABASE_URL")
	cfg.MessagesDir = get("MESSAGES_DIR")

	if v := get("NOTIFY_MODE"); v != "" {
		cfg.NotifyMode = NotifyMode(strings.ToLower(v))
	}
	cfg.NotifyURL = get("NOTIFY_URL")
	if v := get("NOTIFY_TIMEOUT_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.NotifyTimeout = time.Duration(n) * time.Millisecond
		}
	}
	if v := get("LEADERBOARD_DEFAULT_LIMIT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.LeaderboardDefault = n
		}
	}
	if v := get("SHUTDOWN_TIMEOUT_SEC"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.ShutdownTimeout = time.Duration(n) * time.Second
		}
	}

	if v := get("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := get("LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}
	if v := get("LOG_TO_CONSOLE"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Log.Console = b
		}
	}
	if v := get("LOG_CALLER"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Log.Caller = b
		}
	}
	cfg.Log.File = get("LOG_FILE")

	switch cfg.NotifyMode {
	case NotifyOff:
	case NotifyHTTP, NotifyWS:
		if cfg.NotifyURL == "" {
			return nil, fmt.Errorf("NOTIFY_URL is required when NOTIFY_MODE=%s", cfg.NotifyMode)
		}
	default:
		return nil, fmt.Errorf("unsupported NOTIFY_MODE %q", cfg.NotifyMode)
	}
	return cfg, nil
}
