package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config carries everything read from the environment at startup.
type Config struct {
	BotToken    string
	PostgresDSN string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	MediaDir    string
	SeedAdminID int64

	LogLevel    string
	MetricsAddr string
}

// Load reads config.env (when present) and the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load("config.env")

	cfg := &Config{
		BotToken:      strings.TrimSpace(os.Getenv("BOT_TOKEN")),
		PostgresDSN:   strings.TrimSpace(os.Getenv("POSTGRES_DSN")),
		RedisAddr:     envOr("REDIS_ADDR", "localhost:6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       envInt("REDIS_DB", 0),
		MediaDir:      envOr("MEDIA_DIR", "saved_media"),
		SeedAdminID:   envInt64("ADMIN_ID", 0),
		LogLevel:      envOr("LOG_LEVEL", "info"),
		MetricsAddr:   envOr("METRICS_ADDR", ":9090"),
	}

	if cfg.BotToken == "" {
		return nil, fmt.Errorf("BOT_TOKEN is required")
	}
	return cfg, nil
}

func envOr(name, def string) string {
	v := strings.TrimSpace(os.Getenv(name))
	if v == "" {
		return def
	}
	return v
}

func envInt(name string, def int) int {
	v := strings.TrimSpace(os.Getenv(name))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func envInt64(name string, def int64) int64 {
	v := strings.TrimSpace(os.Getenv(name))
	if v == "" {
		return def
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return def
	}
	return n
}
