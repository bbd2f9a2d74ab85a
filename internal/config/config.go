package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config is read once at process start; there is no hot-reload.
type Config struct {
	Port       string
	CORSOrigin string
	DBPath     string
	LogLevel   string
	RateRPS    float64
	RateBurst  int
}

func Load() *Config {
	_ = godotenv.Load(".env")

	return &Config{
		Port:       getEnv("PORT", "8080"),
		CORSOrigin: getEnv("CORS_ORIGIN", "*"),
		DBPath:     getEnv("DB_PATH", "data/tasks.db"),
		LogLevel:   getEnv("LOG_LEVEL", "info"),
		RateRPS:    getEnvFloat("RATE_LIMIT_RPS", 0),
		RateBurst:  getEnvInt("RATE_LIMIT_BURST", 1),
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if value, exists := os.LookupEnv(key); exists {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}
