package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type RateLimitConfig struct {
	Capacity int
	Refill   time.Duration
}

type LogConfig struct {
	Level  string
	Format string
}

type Config struct {
	HTTPAddr  string
	RedisAddr string
	CacheTTL  time.Duration
	RateLimit RateLimitConfig
	Log       LogConfig
}

// Load reads configuration from the environment. Values from a .env file in
// the working directory are used when present; a missing file is fine.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		HTTPAddr:  getEnv("HTTP_ADDR", ":8080"),
		RedisAddr: getEnv("REDIS_ADDR", ""),
		CacheTTL:  getEnvDuration("CACHE_TTL", 10*time.Minute),
		RateLimit: RateLimitConfig{
			Capacity: getEnvInt("RATE_LIMIT_CAPACITY", 5),
			Refill:   getEnvDuration("RATE_LIMIT_REFILL", time.Minute),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "text"),
		},
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil && i > 0 {
			return i
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			return d
		}
	}
	return fallback
}
