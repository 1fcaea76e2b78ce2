package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"
)

// Config holds the runtime settings, read from the environment.
type Config struct {
	HTTPAddr  string
	RedisAddr string // empty selects the in-memory game store
	GameTTL   time.Duration
	JWTSecret string
	LogLevel  slog.Level

	OtelEndpoint     string // empty disables the OTLP exporters
	OtelStdoutTraces bool

	MediumOptimalProbability float64
}

// Load reads the configuration from environment variables, falling back to
// defaults for anything unset.
func Load() (*Config, error) {
	cfg := &Config{
		HTTPAddr:                 getEnv("HTTP_ADDR", ":8080"),
		RedisAddr:                os.Getenv("REDIS_CONNSTRING"),
		JWTSecret:                getEnv("JWT_SECRET", "my_super_secret_key"),
		OtelEndpoint:             os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
		GameTTL:                  time.Hour,
		LogLevel:                 slog.LevelDebug,
		MediumOptimalProbability: 0.5,
	}

	if v := os.Getenv("GAME_TTL"); v != "" {
		ttl, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("invalid GAME_TTL %q: %w", v, err)
		}
		if ttl <= 0 {
			return nil, fmt.Errorf("GAME_TTL must be positive, got %s", ttl)
		}
		cfg.GameTTL = ttl
	}

	if v := os.Getenv("LOG_LEVEL"); v != "" {
		if err := cfg.LogLevel.UnmarshalText([]byte(v)); err != nil {
			return nil, fmt.Errorf("invalid LOG_LEVEL %q: %w", v, err)
		}
	}

	if v := os.Getenv("OTEL_STDOUT_TRACES"); v != "" {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("invalid OTEL_STDOUT_TRACES %q: %w", v, err)
		}
		cfg.OtelStdoutTraces = enabled
	}

	if v := os.Getenv("BOT_MEDIUM_OPTIMAL_PROBABILITY"); v != "" {
		p, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid BOT_MEDIUM_OPTIMAL_PROBABILITY %q: %w", v, err)
		}
		if p < 0 || p > 1 {
			return nil, fmt.Errorf("BOT_MEDIUM_OPTIMAL_PROBABILITY must be within [0, 1], got %v", p)
		}
		cfg.MediumOptimalProbability = p
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
