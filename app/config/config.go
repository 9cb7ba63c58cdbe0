package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Config struct {
	Port           string
	TemplateReload bool
	Timezone       string
	LogLevel       string

	Backend BackendConfig
	Session SessionConfig
	Cache   CacheConfig
}

type BackendConfig struct {
	URL     string
	Timeout time.Duration
}

type SessionConfig struct {
	Secret string
	TTL    time.Duration
}

// CacheConfig selects the page cache. An empty RedisURL keeps the cache in memory.
type CacheConfig struct {
	RedisURL string
	TTL      time.Duration
}

// Load reads the environment (and an optional .env file) into a Config.
func Load() (*Config, error) {
	// .env is optional; a missing file is not an error.
	_ = godotenv.Load()

	cfg := &Config{
		Port:           getEnv("PORT", "8080"),
		TemplateReload: getEnv("TEMPLATE_RELOAD", "false") == "true",
		Timezone:       getEnv("TIMEZONE", "Europe/Paris"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		Backend: BackendConfig{
			URL: getEnv("BACKEND_URL", "http://localhost:8000"),
		},
		Session: SessionConfig{
			Secret: getEnv("JWT_SECRET", "rentals-dashboard-secret-key"),
		},
		Cache: CacheConfig{
			RedisURL: os.Getenv("REDIS_URL"),
		},
	}

	var err error
	if cfg.Backend.Timeout, err = getDuration("BACKEND_TIMEOUT", 15*time.Second); err != nil {
		return nil, err
	}
	if cfg.Session.TTL, err = getDuration("SESSION_TTL", 24*time.Hour); err != nil {
		return nil, err
	}
	if cfg.Cache.TTL, err = getDuration("CACHE_TTL", 5*time.Minute); err != nil {
		return nil, err
	}
	if _, err := strconv.Atoi(cfg.Port); err != nil {
		return nil, fmt.Errorf("invalid PORT %q: %w", cfg.Port, err)
	}

	return cfg, nil
}

// NewLogger builds the application logger for the configured level.
func (c *Config) NewLogger() (*zap.Logger, error) {
	zc := zap.NewProductionConfig()
	level, err := zapcore.ParseLevel(c.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL %q: %w", c.LogLevel, err)
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	return zc.Build()
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return d, nil
}
