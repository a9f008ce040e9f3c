package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	ServerPort     string
	DatabaseType   string
	DatabasePath   string
	DatabaseURL    string
	MigrationsPath string

	// AppBaseURL is the page share links point at; the assignment rides in its fragment
	AppBaseURL string

	ReceiptSigningKey string
	ReceiptTTL        time.Duration

	AWSRegion    string
	SESFromEmail string
	SESFromName  string

	RateLimitPerMinute int
	LogLevel           string
	Debug              bool
}

// Load reads configuration from the environment, after loading a .env file
// from the working directory if one exists. Variables already set in the
// environment win over the file.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}
	return FromEnv()
}

// FromEnv reads configuration from environment variables with sensible defaults
func FromEnv() (*Config, error) {
	cfg := &Config{
		ServerPort:        getEnv("PORT", "8080"),
		DatabaseType:      strings.ToLower(getEnv("DB_TYPE", "sqlite")),
		DatabasePath:      getEnv("DB_PATH", "./sentencescramble.db"),
		DatabaseURL:       getEnv("DATABASE_URL", ""),
		MigrationsPath:    getEnv("MIGRATIONS_PATH", "./migrations"),
		AppBaseURL:        getEnv("APP_BASE_URL", "http://localhost:8080/"),
		ReceiptSigningKey: getEnv("RECEIPT_SIGNING_KEY", ""),
		AWSRegion:         getEnv("AWS_REGION", "us-east-1"),
		SESFromEmail:      getEnv("SES_FROM_EMAIL", ""),
		SESFromName:       getEnv("SES_FROM_NAME", "Sentence Scramble"),
		LogLevel:          strings.ToLower(getEnv("LOG_LEVEL", "info")),
	}

	var err error
	if cfg.ReceiptTTL, err = getDuration("RECEIPT_TTL", 30*24*time.Hour); err != nil {
		return nil, err
	}
	if cfg.RateLimitPerMinute, err = getInt("RATE_LIMIT_PER_MINUTE", 120); err != nil {
		return nil, err
	}
	if cfg.Debug, err = getBool("DEBUG", false); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that the settings are consistent with each other
func (c *Config) Validate() error {
	switch c.DatabaseType {
	case "sqlite", "sqlite3":
		if c.DatabasePath == "" {
			return fmt.Errorf("DB_PATH is required for %s", c.DatabaseType)
		}
	case "postgres", "postgresql", "mysql":
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required for %s", c.DatabaseType)
		}
	default:
		return fmt.Errorf("unsupported DB_TYPE %q", c.DatabaseType)
	}
	if c.RateLimitPerMinute < 1 {
		return fmt.Errorf("RATE_LIMIT_PER_MINUTE must be positive, got %d", c.RateLimitPerMinute)
	}
	return nil
}

// EmailEnabled reports whether outgoing email is configured
func (c *Config) EmailEnabled() bool {
	return c.SESFromEmail != ""
}

// getEnv reads an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func getBool(key string, defaultValue bool) (bool, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %w", key, err)
	}
	return b, nil
}

func getDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
