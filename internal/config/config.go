package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Environment
	GoEnv string `env:"GO_ENV" default:"development"`

	// Service
	HTTPPort int `env:"HTTP_PORT" default:"8080"`

	// Database
	DatabaseURL string `env:"DATABASE_URL" required:"true"`

	// Authentication
	JWTSecret      string        `env:"JWT_SECRET" required:"true"`
	AccessTokenTTL time.Duration `env:"ACCESS_TOKEN_TTL" default:"24h"`

	// Signup confirmation codes
	ConfirmationCodeLength int `env:"CONFIRMATION_CODE_LENGTH" default:"8"`

	// Email delivery (optional in development; codes are logged when unset)
	SMTPHost  string `env:"SMTP_HOST"`
	SMTPPort  int    `env:"SMTP_PORT" default:"587"`
	SMTPUser  string `env:"SMTP_USER"`
	SMTPPass  string `env:"SMTP_PASS"`
	FromEmail string `env:"FROM_EMAIL"`

	// Rate limiting for the auth endpoints
	RedisURL       string  `env:"REDIS_URL"` // optional; local limiter when unset
	RateLimitRPS   float64 `env:"RATE_LIMIT_RPS" default:"1"`
	RateLimitBurst int     `env:"RATE_LIMIT_BURST" default:"5"`

	// Development
	LogLevel  string `env:"LOG_LEVEL" default:"debug"`
	LogFormat string `env:"LOG_FORMAT" default:"text"`
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	// Try to load .env file from project root
	if err := godotenv.Load(".env"); err != nil {
		// If .env file doesn't exist, that's OK - we can still use system env vars
		fmt.Printf("Warning: .env file not found: %v\n", err)
	}

	config := &Config{}

	if err := loadEnvString(&config.GoEnv, "GO_ENV", "development"); err != nil {
		return nil, err
	}
	if err := loadEnvInt(&config.HTTPPort, "HTTP_PORT", 8080); err != nil {
		return nil, err
	}

	// Database
	if err := loadEnvStringRequired(&config.DatabaseURL, "DATABASE_URL"); err != nil {
		return nil, err
	}

	// Authentication
	if err := loadEnvStringRequired(&config.JWTSecret, "JWT_SECRET"); err != nil {
		return nil, err
	}
	if err := loadEnvDuration(&config.AccessTokenTTL, "ACCESS_TOKEN_TTL", 24*time.Hour); err != nil {
		return nil, err
	}
	if err := loadEnvInt(&config.ConfirmationCodeLength, "CONFIRMATION_CODE_LENGTH", 8); err != nil {
		return nil, err
	}

	// Email
	if err := loadEnvString(&config.SMTPHost, "SMTP_HOST", ""); err != nil {
		return nil, err
	}
	if err := loadEnvInt(&config.SMTPPort, "SMTP_PORT", 587); err != nil {
		return nil, err
	}
	if err := loadEnvString(&config.SMTPUser, "SMTP_USER", ""); err != nil {
		return nil, err
	}
	if err := loadEnvString(&config.SMTPPass, "SMTP_PASS", ""); err != nil {
		return nil, err
	}
	if err := loadEnvString(&config.FromEmail, "FROM_EMAIL", ""); err != nil {
		return nil, err
	}

	// Rate limiting
	if err := loadEnvString(&config.RedisURL, "REDIS_URL", ""); err != nil {
		return nil, err
	}
	if err := loadEnvFloat(&config.RateLimitRPS, "RATE_LIMIT_RPS", 1); err != nil {
		return nil, err
	}
	if err := loadEnvInt(&config.RateLimitBurst, "RATE_LIMIT_BURST", 5); err != nil {
		return nil, err
	}

	// Development
	if err := loadEnvString(&config.LogLevel, "LOG_LEVEL", "debug"); err != nil {
		return nil, err
	}
	if err := loadEnvString(&config.LogFormat, "LOG_FORMAT", "text"); err != nil {
		return nil, err
	}

	return config, nil
}

// Helper functions for type conversion and validation
func loadEnvString(target *string, key, defaultValue string) error {
	if value := os.Getenv(key); value != "" {
		*target = value
	} else {
		*target = defaultValue
	}
	return nil
}

func loadEnvStringRequired(target *string, key string) error {
	value := os.Getenv(key)
	if value == "" {
		return fmt.Errorf("required environment variable %s is not set", key)
	}
	*target = value
	return nil
}

func loadEnvInt(target *int, key string, defaultValue int) error {
	if value := os.Getenv(key); value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid integer value for %s: %v", key, err)
		}
		*target = parsed
	} else {
		*target = defaultValue
	}
	return nil
}

func loadEnvFloat(target *float64, key string, defaultValue float64) error {
	if value := os.Getenv(key); value != "" {
		parsed, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid float value for %s: %v", key, err)
		}
		*target = parsed
	} else {
		*target = defaultValue
	}
	return nil
}

func loadEnvDuration(target *time.Duration, key string, defaultValue time.Duration) error {
	if value := os.Getenv(key); value != "" {
		parsed, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("invalid duration value for %s: %v", key, err)
		}
		*target = parsed
	} else {
		*target = defaultValue
	}
	return nil
}

// Validate performs validation on the loaded configuration
func (c *Config) Validate() error {
	var errors []string

	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		errors = append(errors, "HTTP_PORT must be between 1 and 65535")
	}

	validLogLevels := []string{"debug", "info", "warn", "error"}
	if !contains(validLogLevels, c.LogLevel) {
		errors = append(errors, fmt.Sprintf("LOG_LEVEL must be one of: %s", strings.Join(validLogLevels, ", ")))
	}

	validLogFormats := []string{"text", "json"}
	if !contains(validLogFormats, c.LogFormat) {
		errors = append(errors, fmt.Sprintf("LOG_FORMAT must be one of: %s", strings.Join(validLogFormats, ", ")))
	}

	// Validate JWT secret length (should be at least 32 characters for security)
	if len(c.JWTSecret) < 32 {
		errors = append(errors, "JWT_SECRET should be at least 32 characters long")
	}

	if c.ConfirmationCodeLength < 6 || c.ConfirmationCodeLength > 64 {
		errors = append(errors, "CONFIRMATION_CODE_LENGTH must be between 6 and 64")
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errors, "; "))
	}

	return nil
}

// IsDevelopment returns true if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.GoEnv == "development"
}

// IsProduction returns true if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.GoEnv == "production"
}

// Helper function to check if slice contains a string
func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
