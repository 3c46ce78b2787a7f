package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	// Environment
	Environment string

	// Database
	DatabaseURL string

	// Redis
	RedisURL string

	// Server
	Port        string
	FrontendURL string

	// Planner defaults
	DefaultGreenSpeed string
	MaxShots          int
	GridResolutionM   float64
	GridWidthM        float64

	// Session lifecycle
	SessionExpiryMinutes    int
	FieldCacheTTLMinutes    int
	ExpiryWorkerPollSeconds int

	// Security
	JWTSecret       string
	TokenTTLMinutes int
}

func Load() *Config {
	// Load .env file if it exists
	godotenv.Load()

	return &Config{
		// Environment
		Environment: getEnv("APP_ENV", "development"),

		// Database
		DatabaseURL: getEnv("DATABASE_URL", "postgres://localhost:5432/greenread?sslmode=disable"),

		// Redis
		RedisURL: getEnv("REDIS_URL", "redis://localhost:6379/0"),

		// Server
		Port:        getEnv("APP_PORT", "8080"),
		FrontendURL: getEnv("FRONTEND_URL", "http://localhost:5173"),

		// Planner defaults
		DefaultGreenSpeed: getEnv("DEFAULT_GREEN_SPEED", "medium"),
		MaxShots:          getEnvInt("MAX_SHOTS", 50),
		GridResolutionM:   getEnvFloat("GRID_RESOLUTION_M", 0.05),
		GridWidthM:        getEnvFloat("GRID_WIDTH_M", 1.0),

		// Session lifecycle
		SessionExpiryMinutes:    getEnvInt("SESSION_EXPIRY_MINUTES", 30),
		FieldCacheTTLMinutes:    getEnvInt("FIELD_CACHE_TTL_MINUTES", 60),
		ExpiryWorkerPollSeconds: getEnvInt("EXPIRY_WORKER_POLL_SECONDS", 30),

		// Security
		JWTSecret:       getEnv("JWT_SECRET", "change-me-in-production"),
		TokenTTLMinutes: getEnvInt("TOKEN_TTL_MINUTES", 60),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}
