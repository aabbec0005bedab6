// Package config resolves runtime configuration for shells consuming the
// auth core. Values come from the environment, with an optional .env file.
package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Store backends selectable via NOVARE_STORE_BACKEND.
const (
	BackendMemory   = "memory"
	BackendPostgres = "postgres"
	BackendRedis    = "redis"
)

type Config struct {
	Store StoreConfig
}

type StoreConfig struct {
	Backend       string
	PostgresDSN   string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
}

// Load reads configuration from the environment. A missing .env file is not
// an error.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Store: StoreConfig{
			Backend:       getEnv("NOVARE_STORE_BACKEND", BackendMemory),
			PostgresDSN:   getEnv("NOVARE_PG_DSN", ""),
			RedisAddr:     getEnv("NOVARE_REDIS_ADDR", "localhost:6379"),
			RedisPassword: getEnv("NOVARE_REDIS_PASSWORD", ""),
			RedisDB:       getEnvInt("NOVARE_REDIS_DB", 0),
		},
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return fallback
}
