package config

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/shopspring/decimal"

	"bookie/database"
)

// Config holds all application configuration
type Config struct {
	// Database configuration
	DatabaseURL  string
	DatabaseName string

	// Betting configuration
	CommissionRate decimal.Decimal // Fraction of potential win routed to the agent
	MinStake       decimal.Decimal // Smallest accepted stake
	MaxStake       decimal.Decimal // Largest accepted stake, zero means unlimited

	// NATS configuration
	NATSServers string // NATS server addresses (comma-separated)

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

		// Betting defaults
		CommissionRate: decimal.RequireFromString("0.20"),
		MinStake:       decimal.NewFromInt(1),
		MaxStake:       decimal.Zero,

		// NATS
		NATSServers: getEnvWithDefault("NATS_SERVERS", "nats://nats:4222"),

		// Environment
		Environment: os.Getenv("ENVIRONMENT"),
	}

	// Override betting defaults if environment variables are set
	if rate := os.Getenv("COMMISSION_RATE"); rate != "" {
		parsed, err := decimal.NewFromString(rate)
		if err != nil {
			return nil, fmt.Errorf("invalid COMMISSION_RATE %q: %w", rate, err)
		}
		if parsed.IsNegative() || parsed.GreaterThan(decimal.NewFromInt(1)) {
			return nil, fmt.Errorf("COMMISSION_RATE must be between 0 and 1, got %s", parsed)
		}
		config.CommissionRate = parsed
	}
	if stake := os.Getenv("MIN_STAKE"); stake != "" {
		parsed, err := decimal.NewFromString(stake)
		if err != nil {
			return nil, fmt.Errorf("invalid MIN_STAKE %q: %w", stake, err)
		}
		config.MinStake = parsed
	}
	if stake := os.Getenv("MAX_STAKE"); stake != "" {
		parsed, err := decimal.NewFromString(stake)
		if err != nil {
			return nil, fmt.Errorf("invalid MAX_STAKE %q: %w", stake, err)
		}
		config.MaxStake = parsed
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
		// If DatabaseName is provided, ensure it's not empty
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
		Environment:    "test",
		CommissionRate: decimal.RequireFromString("0.20"),
		MinStake:       decimal.NewFromInt(1),
		MaxStake:       decimal.Zero,
	}
}
