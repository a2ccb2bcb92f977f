package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	AppEnv          string
	Port            string
	LogLevel        string
	LogFormat       string
	RedisURL        string
	RequestTimeout  time.Duration
	CacheTTL        time.Duration
	MaxBetAmount    float64
	StartingBalance float64
	MaxClients      int
}

func Load() (*Config, error) {
	cfg := &Config{
		AppEnv:    getEnv("APP_ENV", "development"),
		Port:      getEnv("PORT", "8080"),
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "text"),
		RedisURL:  getEnv("REDIS_URL", ""),
	}

	timeoutMs, err := getEnvInt("REQUEST_TIMEOUT_MS", 5000)
	if err != nil {
		return nil, err
	}
	if timeoutMs <= 0 {
		return nil, fmt.Errorf("REQUEST_TIMEOUT_MS must be positive, got %d", timeoutMs)
	}
	cfg.RequestTimeout = time.Duration(timeoutMs) * time.Millisecond

	ttlSeconds, err := getEnvInt("CACHE_TTL_S", 60)
	if err != nil {
		return nil, err
	}
	if ttlSeconds <= 0 {
		return nil, fmt.Errorf("CACHE_TTL_S must be positive, got %d", ttlSeconds)
	}
	cfg.CacheTTL = time.Duration(ttlSeconds) * time.Second

	cfg.MaxBetAmount, err = getEnvFloat("MAX_BET_AMOUNT", 500)
	if err != nil {
		return nil, err
	}
	if cfg.MaxBetAmount <= 0 {
		return nil, fmt.Errorf("MAX_BET_AMOUNT must be positive, got %g", cfg.MaxBetAmount)
	}

	cfg.StartingBalance, err = getEnvFloat("STARTING_BALANCE", 1000)
	if err != nil {
		return nil, err
	}
	if cfg.StartingBalance <= 0 {
		return nil, fmt.Errorf("STARTING_BALANCE must be positive, got %g", cfg.StartingBalance)
	}

	cfg.MaxClients, err = getEnvInt("MAX_CLIENTS", 50)
	if err != nil {
		return nil, err
	}
	if cfg.MaxClients <= 0 {
		return nil, fmt.Errorf("MAX_CLIENTS must be positive, got %d", cfg.MaxClients)
	}

	return cfg, nil
}

// SingleInstance reports whether the server runs without shared state. With
// no Redis configured, mood history lives in process memory only.
func (c *Config) SingleInstance() bool {
	return c.RedisURL == ""
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", key, err)
	}
	return parsed, nil
}

func getEnvFloat(key string, defaultValue float64) (float64, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("%s must be a number: %w", key, err)
	}
	return parsed, nil
}
