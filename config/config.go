package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"

	"betshop/database"
)

// Config holds all application configuration
type Config struct {
	// Database configuration
	DatabaseURL  string
	DatabaseName string

	// NATS configuration
	NATSServers string // NATS server addresses (comma-separated)

	// Global betting parameters (read-only inputs owned by the parameter screens)
	PromotionThreshold  int64   // bet count per rank tier advance
	DefaultFeePct       float64 // fee applied to POOL markets created without one
	HighPayoutThreshold int64   // gross payout that triggers a notification
	TicketExpiryDays    int     // grace period after market close before tickets expire

	// OpenTelemetry configuration
	OTelEnabled              bool
	OTelServiceName          string
	OTelExporterType         string // "console", "otlp", or "none"
	OTelOTLPEndpoint         string
	OTelExportIntervalMillis int

	// Environment
	Environment string // "development" or "production"
}

var (
	instance *Config
	once     sync.Once
	mu       sync.Mutex // Protects instance for test setup
)

// Get returns the global configuration instance
func Get() *Config {
	mu.Lock()
	defer mu.Unlock()

	// If instance is already set (e.g., by tests), return it
	if instance != nil {
		return instance
	}

	once.Do(func() {
		var err error
		instance, err = load()
		if err != nil {
			// In test environment, use a default test config instead of panicking
			if os.Getenv("GO_TEST") == "1" || os.Getenv("ENVIRONMENT") == "test" {
				instance = NewTestConfig()
			} else {
				panic(fmt.Sprintf("failed to load config: %v", err))
			}
		}
	})
	return instance
}

// GetDatabaseURL constructs the full database URL by combining base URL and database name
func (c *Config) GetDatabaseURL() string {
	return database.ConstructDatabaseURL(c.DatabaseURL, c.DatabaseName)
}

// load loads configuration from environment variables
func load() (*Config, error) {
	config := &Config{
		// Database
		DatabaseURL:  os.Getenv("DATABASE_URL"),
		DatabaseName: os.Getenv("DATABASE_NAME"),

		// NATS
		NATSServers: getEnvWithDefault("NATS_SERVERS", "nats://nats:4222"),

		// Betting parameter defaults
		PromotionThreshold:  10,
		DefaultFeePct:       10.0,
		HighPayoutThreshold: 500_000,
		TicketExpiryDays:    7,

		// OpenTelemetry
		OTelServiceName:          getEnvWithDefault("OTEL_SERVICE_NAME", "betshop"),
		OTelExporterType:         getEnvWithDefault("OTEL_EXPORTER_TYPE", "none"),
		OTelOTLPEndpoint:         getEnvWithDefault("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
		OTelExportIntervalMillis: 60000,

		// Environment
		Environment: os.Getenv("ENVIRONMENT"),
	}

	config.OTelEnabled = os.Getenv("OTEL_ENABLED") == "true"

	// Override defaults if environment variables are set
	if v := os.Getenv("PROMOTION_THRESHOLD"); v != "" {
		if parsed, err := strconv.ParseInt(v, 10, 64); err == nil {
			config.PromotionThreshold = parsed
		}
	}
	if v := os.Getenv("DEFAULT_FEE_PCT"); v != "" {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil {
			config.DefaultFeePct = parsed
		}
	}
	if v := os.Getenv("HIGH_PAYOUT_THRESHOLD"); v != "" {
		if parsed, err := strconv.ParseInt(v, 10, 64); err == nil {
			config.HighPayoutThreshold = parsed
		}
	}
	if v := os.Getenv("TICKET_EXPIRY_DAYS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			config.TicketExpiryDays = parsed
		}
	}
	if v := os.Getenv("OTEL_EXPORT_INTERVAL_MILLIS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			config.OTelExportIntervalMillis = parsed
		}
	}

	// Set default environment if not specified
	if config.Environment == "" {
		config.Environment = "development"
	}

	if config.Environment != "test" {
		// Validate required configuration
		if config.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL is required")
		}
		if config.DatabaseName != "" && strings.TrimSpace(config.DatabaseName) == "" {
			return nil, fmt.Errorf("DATABASE_NAME cannot be empty when provided")
		}
	}

	return config, nil
}

// getEnvWithDefault returns the environment variable value or a default if not set
func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// Test helpers - only use in tests

// SetTestConfig overrides the global config instance for testing
// This should only be called from test files
func SetTestConfig(testConfig *Config) {
	mu.Lock()
	defer mu.Unlock()
	instance = testConfig
}

// ResetConfig resets the global config instance and sync.Once for testing
// This should only be called from test files
func ResetConfig() {
	mu.Lock()
	defer mu.Unlock()
	instance = nil
	once = sync.Once{}
}

// NewTestConfig creates a minimal config suitable for unit tests
func NewTestConfig() *Config {
	return &Config{
		Environment:         "test",
		PromotionThreshold:  10,
		DefaultFeePct:       10.0,
		HighPayoutThreshold: 500_000,
		TicketExpiryDays:    7,
	}
}
