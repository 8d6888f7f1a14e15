package config

import (
	"log/slog"
	"os"
	"strings"
)

// Config holds all runtime configuration for the messaging service.
// Values come from the environment; a .env file may be loaded by main
// before Load is called.
type Config struct {
	// HTTP
	ListenAddr string

	// Postgres
	DatabaseURL string

	// Redis (shared by the cache, the pub/sub relay and the task queue)
	RedisURL string

	// Realtime
	EventChannel string // redis channel carrying message events across nodes

	// Summary cache
	SummaryCacheTTLSeconds int

	// Logging
	LogFile  string
	LogLevel slog.Level
}

// Load reads configuration from environment variables, applying defaults
// suitable for local development.
func Load() Config {
	return Config{
		ListenAddr:  getEnv("LISTEN_ADDR", ":8080"),
		DatabaseURL: os.Getenv("DB_URL"),
		RedisURL:    getEnv("REDIS_URL", "redis://localhost:6379/0"),

		EventChannel:           getEnv("MESSAGING_EVENT_CHANNEL", "messaging:events"),
		SummaryCacheTTLSeconds: getEnvInt("SUMMARY_CACHE_TTL_SECONDS", 30),

		LogFile:  getEnv("LOG_FILE", "/tmp/jobhive-messaging.log"),
		LogLevel: parseLogLevel(getEnv("LOG_LEVEL", "INFO")),
	}
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	val := strings.TrimSpace(os.Getenv(key))
	if val == "" {
		return defaultVal
	}
	n := 0
	for _, r := range val {
		if r < '0' || r > '9' {
			return defaultVal
		}
		n = n*10 + int(r-'0')
	}
	return n
}

func parseLogLevel(s string) slog.Level {
	switch strings.ToUpper(s) {
	case "DEBUG":
		return slog.LevelDebug
	case "INFO":
		return slog.LevelInfo
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
