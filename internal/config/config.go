package config

import (
	"flag"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port     string
	LogLevel string

	// Optional: when empty the in-memory cache is used
	RedisURL string

	FetchTimeout    time.Duration
	WaitForTimeout  time.Duration
	CacheTTL        time.Duration
	BrowserMaxPages int
}

func Load() *Config {
	config := &Config{
		Port:            getEnvWithDefault("PORT", "8080"),
		LogLevel:        getEnvWithDefault("LOG_LEVEL", "info"),
		RedisURL:        getEnvWithDefault("REDIS_URL", ""),
		FetchTimeout:    getEnvDuration("FETCH_TIMEOUT", 15*time.Second),
		WaitForTimeout:  getEnvDuration("WAIT_FOR_TIMEOUT", 5*time.Second),
		CacheTTL:        getEnvDuration("CACHE_TTL", time.Hour),
		BrowserMaxPages: getEnvInt("BROWSER_MAX_PAGES", 4),
	}

	// Command line flags override environment
	flag.StringVar(&config.Port, "port", config.Port, "Server port")
	flag.StringVar(&config.LogLevel, "log-level", config.LogLevel, "Log level")
	flag.StringVar(&config.RedisURL, "redis-url", config.RedisURL, "Redis URL for the shared cache (empty uses in-memory)")
	flag.Parse()

	return config
}

func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil && n > 0 {
			return n
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil && d > 0 {
			return d
		}
	}
	return defaultValue
}
