package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	// Database
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	// Web search (Gemini)
	GoogleAPIKey  string
	GeminiModel   string
	SearchTimeout time.Duration

	// Network monitoring
	NetCheckInterval time.Duration

	// Server
	ServerPort string
}

// Load loads configuration from environment variables
func Load() *Config {
	// Try to load .env file (optional for local development)
	_ = godotenv.Load()

	config := &Config{
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", "konsultabot123"),
		DBName:     getEnv("DB_NAME", "konsultabot"),

		GoogleAPIKey:  os.Getenv("GOOGLE_API_KEY"),
		GeminiModel:   getEnv("GEMINI_MODEL", "gemini-2.0-flash"),
		SearchTimeout: getDuration("SEARCH_TIMEOUT_SECONDS", 10*time.Second),

		NetCheckInterval: getDuration("NET_CHECK_INTERVAL_SECONDS", 30*time.Second),

		ServerPort: getEnv("SERVER_PORT", "8080"),
	}

	if config.GoogleAPIKey == "" {
		log.Println("WARNING: GOOGLE_API_KEY not set, web search fallback disabled")
	}

	return config
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getDuration reads an environment variable holding whole seconds
func getDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	seconds, err := strconv.Atoi(value)
	if err != nil || seconds <= 0 {
		log.Printf("WARNING: invalid %s=%q, using default %s", key, value, defaultValue)
		return defaultValue
	}
	return time.Duration(seconds) * time.Second
}
