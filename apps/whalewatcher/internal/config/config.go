package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	AlchemyAPIKey    string
	APIPort          int
	CacheTTLSeconds  int
	DefaultMinAmount float64
	OpenAIAPIKey     string
	KafkaBroker      string
	KafkaTopic       string
}

// NewConfig loads configuration from environment variables
func NewConfig() *Config {
	// Load .env file (ignore error if file doesn't exist)
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: Could not load .env file: %v", err)
	}

	return &Config{
		AlchemyAPIKey:    getEnvOrFatal("ALCHEMY_API_KEY"),
		APIPort:          getEnvInt("API_PORT", 8000),
		CacheTTLSeconds:  getEnvInt("CACHE_TTL_SECONDS", 30),
		DefaultMinAmount: getEnvFloat("DEFAULT_MIN_AMOUNT", 100),
		OpenAIAPIKey:     os.Getenv("OPENAI_API_KEY"),
		KafkaBroker:      os.Getenv("KAFKA_BROKER"),
		KafkaTopic:       os.Getenv("KAFKA_TOPIC"),
	}
}

func getEnvOrFatal(key string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}

	log.Fatalf("environment variable %s not set", key)

	return ""
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			return parsed
		}
	}
	return defaultValue
}
