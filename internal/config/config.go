package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	ServerPort      string        `validate:"required,numeric"`
	DatabaseType    string        `validate:"oneof=sqlite sqlite3 postgres postgresql mysql"`
	DatabasePath    string        `validate:"required_if=DatabaseType sqlite,required_if=DatabaseType sqlite3"`
	DatabaseURL     string        `validate:"required_if=DatabaseType postgres,required_if=DatabaseType postgresql,required_if=DatabaseType mysql"`
	StaticFilesPath string        `validate:"required"`
	LogLevel        string        `validate:"oneof=trace debug info warn warning error fatal panic"`
	LogFile         string
	LogMaxSizeMB    int           `validate:"min=1,max=1024"`
	LogMaxBackups   int           `validate:"min=0,max=100"`
	LogMaxAgeDays   int           `validate:"min=0,max=365"`
	AllowedOrigins  []string      `validate:"min=1"`
	RequestTimeout  time.Duration `validate:"min=1s"`

	// RateLimitRequests caps create requests per client per RateLimitWindow; 0 disables it
	RateLimitRequests int           `validate:"min=0"`
	RateLimitWindow   time.Duration `validate:"min=1s"`
}

// Load reads a .env file if present, then configuration from environment
// variables with sensible defaults, and validates the result
func Load() (*Config, error) {
	// A missing .env file is normal outside local development
	_ = godotenv.Load()

	timeout, err := time.ParseDuration(getEnv("REQUEST_TIMEOUT", "30s"))
	if err != nil {
		return nil, fmt.Errorf("invalid REQUEST_TIMEOUT: %w", err)
	}
	rateWindow, err := time.ParseDuration(getEnv("RATE_LIMIT_WINDOW", "1m"))
	if err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_WINDOW: %w", err)
	}

	cfg := &Config{
		ServerPort:      getEnv("PORT", "8080"),
		DatabaseType:    strings.ToLower(getEnv("DATABASE_TYPE", "sqlite")),
		DatabasePath:    getEnv("DB_PATH", "./smartlio.db"),
		DatabaseURL:     os.Getenv("DATABASE_URL"),
		StaticFilesPath: getEnv("STATIC_PATH", "./static"),
		LogLevel:        strings.ToLower(getEnv("LOG_LEVEL", "info")),
		LogFile:         os.Getenv("LOG_FILE"),
		LogMaxSizeMB:    getEnvInt("LOG_MAX_SIZE_MB", 10),
		LogMaxBackups:   getEnvInt("LOG_MAX_BACKUPS", 3),
		LogMaxAgeDays:   getEnvInt("LOG_MAX_AGE_DAYS", 28),
		AllowedOrigins:  splitList(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		RequestTimeout:  timeout,

		RateLimitRequests: getEnvInt("RATE_LIMIT_REQUESTS", 0),
		RateLimitWindow:   rateWindow,
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that all fields in Config are usable
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// getEnv reads an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt reads an integer environment variable; malformed values fall back to the default
func getEnvInt(key string, defaultValue int) int {
	var value int
	if _, err := fmt.Sscanf(os.Getenv(key), "%d", &value); err != nil {
		return defaultValue
	}
	return value
}

func splitList(raw string) []string {
	var items []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}
