package configs

import (
	"os"
	"strconv"

	"github.com/shopspring/decimal"
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Quote    QuoteConfig
	Trading  TradingConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port string
	Env  string
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	URL string
}

// RedisConfig holds Redis configuration. An empty URL disables Redis and the
// quote cache falls back to in-process memory.
type RedisConfig struct {
	URL string
}

// QuoteConfig holds quote provider configuration
type QuoteConfig struct {
	BaseURL        string
	APIToken       string
	TimeoutSeconds int
	CacheTTLSecs   int
}

// TradingConfig holds trading configuration
type TradingConfig struct {
	StartingCash decimal.Decimal
}

// Load loads configuration from environment variables
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "8080"),
			Env:  getEnv("GO_ENV", "development"),
		},
		Database: DatabaseConfig{
			URL: getEnv("DATABASE_URL", ""),
		},
		Redis: RedisConfig{
			URL: getEnv("REDIS_URL", ""),
		},
		Quote: QuoteConfig{
			BaseURL:        getEnv("QUOTE_API_URL", "https://cloud.iexapis.com/stable"),
			APIToken:       getEnv("QUOTE_API_TOKEN", ""),
			TimeoutSeconds: getEnvInt("QUOTE_TIMEOUT_SECONDS", 10),
			CacheTTLSecs:   getEnvInt("QUOTE_CACHE_TTL_SECONDS", 30),
		},
		Trading: TradingConfig{
			StartingCash: getEnvDecimal("STARTING_CASH", "10000.00"),
		},
	}
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt gets an integer environment variable or returns a default value
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

// getEnvDecimal gets a decimal environment variable or returns a default value
func getEnvDecimal(key, defaultValue string) decimal.Decimal {
	if value := os.Getenv(key); value != "" {
		if d, err := decimal.NewFromString(value); err == nil {
			return d
		}
	}
	return decimal.RequireFromString(defaultValue)
}
