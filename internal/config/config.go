package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"cashflow/internal/logger"
	"cashflow/internal/sheets"
)

// Store backends.
const (
	BackendSheets = "sheets"
	BackendMemory = "memory"
)

type Config struct {
	// Google Sheets Configuration
	GoogleSheetURL               string
	SpreadsheetID                string
	GoogleApplicationCredentials string
	GoogleCredentials            string
	GoogleSheetsClientEmail      string
	GoogleSheetsPrivateKey       string

	// Store Configuration
	StoreBackend string
	StoreTimeout time.Duration

	// Transition journal
	JournalEnabled bool
	JournalSheet   string

	// HTTP Server Configuration
	Port               int
	RateLimitPerSecond float64
	RateLimitBurst     int

	// Logging Configuration
	LogLevel      string
	LogFormat     string
	LogTimeFormat string
	LogOutput     string
}

func Load() (*Config, error) {
	config := &Config{
		GoogleSheetURL:               getEnv("GOOGLE_SHEET_URL", ""),
		SpreadsheetID:                getEnv("SPREADSHEET_ID", ""),
		GoogleApplicationCredentials: getEnv("GOOGLE_APPLICATION_CREDENTIALS", ""),
		GoogleCredentials:            getEnv("GOOGLE_CREDENTIALS", ""),
		GoogleSheetsClientEmail:      getEnv("GOOGLE_SHEETS_CLIENT_EMAIL", ""),
		GoogleSheetsPrivateKey:       getEnv("GOOGLE_SHEETS_PRIVATE_KEY", ""),
		StoreBackend:                 strings.ToLower(getEnv("STORE_BACKEND", BackendSheets)),
		StoreTimeout:                 getEnvDuration("STORE_TIMEOUT", sheets.DefaultTimeout),
		JournalEnabled:               getEnvBool("JOURNAL_ENABLED", true),
		JournalSheet:                 getEnv("JOURNAL_SHEET", "Transition Log"),
		Port:                         getEnvInt("PORT", 3005),
		RateLimitPerSecond:           getEnvFloat("RATE_LIMIT_PER_SECOND", 5),
		RateLimitBurst:               getEnvInt("RATE_LIMIT_BURST", 10),
		LogLevel:                     getEnv("LOG_LEVEL", "info"),
		LogFormat:                    getEnv("LOG_FORMAT", "console"),
		LogTimeFormat:                getEnv("LOG_TIME_FORMAT", "2006-01-02T15:04:05Z07:00"),
		LogOutput:                    getEnv("LOG_OUTPUT", "stdout"),
	}

	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return config, nil
}

func (c *Config) validate() error {
	switch c.StoreBackend {
	case BackendMemory:
	case BackendSheets:
		if c.GoogleSheetURL == "" && c.SpreadsheetID == "" {
			return fmt.Errorf("GOOGLE_SHEET_URL or SPREADSHEET_ID is required")
		}
		if c.GoogleApplicationCredentials == "" && c.GoogleCredentials == "" &&
			(c.GoogleSheetsClientEmail == "" || c.GoogleSheetsPrivateKey == "") {
			return fmt.Errorf("GOOGLE_APPLICATION_CREDENTIALS, GOOGLE_CREDENTIALS, or GOOGLE_SHEETS_CLIENT_EMAIL and GOOGLE_SHEETS_PRIVATE_KEY are required")
		}
	default:
		return fmt.Errorf("STORE_BACKEND must be %q or %q, got %q", BackendSheets, BackendMemory, c.StoreBackend)
	}
	if c.StoreTimeout <= 0 {
		return fmt.Errorf("STORE_TIMEOUT must be positive")
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("PORT must be between 1 and 65535")
	}
	if c.RateLimitPerSecond <= 0 {
		return fmt.Errorf("RATE_LIMIT_PER_SECOND must be positive")
	}
	if c.RateLimitBurst < 1 {
		return fmt.Errorf("RATE_LIMIT_BURST must be at least 1")
	}
	return nil
}

// GetLoggerConfig returns a logger configuration from the main config
func (c *Config) GetLoggerConfig() logger.LogConfig {
	return logger.LogConfig{
		Level:      c.LogLevel,
		Format:     c.LogFormat,
		TimeFormat: c.LogTimeFormat,
		Output:     c.LogOutput,
	}
}

// GetSheetsOptions returns the spreadsheet connection options
func (c *Config) GetSheetsOptions() sheets.Options {
	return sheets.Options{
		SheetURL:        c.GoogleSheetURL,
		SpreadsheetID:   c.SpreadsheetID,
		CredentialsFile: c.GoogleApplicationCredentials,
		CredentialsJSON: c.GoogleCredentials,
		ClientEmail:     c.GoogleSheetsClientEmail,
		PrivateKey:      c.GoogleSheetsPrivateKey,
		Timeout:         c.StoreTimeout,
	}
}

// Addr is the listen address of the HTTP server.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value, err := strconv.Atoi(getEnv(key, "")); err == nil {
		return value
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value, err := strconv.ParseFloat(getEnv(key, ""), 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value, err := strconv.ParseBool(getEnv(key, "")); err == nil {
		return value
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value, err := time.ParseDuration(getEnv(key, "")); err == nil {
		return value
	}
	return defaultValue
}
