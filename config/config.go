package config

import (
	"fmt"
	"os"
	"strconv"
	"sync"
	"time"

	"skullbot/database"
)

// Config holds all application configuration
type Config struct {
	// Discord configuration
	DiscordToken string
	GuildID      string

	// Channel where lottery status messages are posted
	LotteryChannelID string

	// Database configuration; empty DatabaseURL disables the authoritative
	// snapshot store and the ledger runs on local snapshots only
	DatabaseURL  string
	DatabaseName string

	// Ledger configuration
	DataDir          string
	StartingBalance  int64
	SnapshotInterval time.Duration

	// Whether leaving a paid lottery refunds the purchased tickets
	RefundOnLeave bool

	// Locale for user-facing messages (BCP 47 tag)
	Locale string

	// OTLP endpoint for metrics export; empty means stdout in development
	OTLPEndpoint string

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

	if instance != nil {
		return instance
	}

	once.Do(func() {
		var err error
		instance, err = load()
		if err != nil {
			if os.Getenv("GO_TEST") == "1" || os.Getenv("ENVIRONMENT") == "test" {
				instance = NewTestConfig()
			} else {
				panic(fmt.Sprintf("failed to load config: %v", err))
			}
		}
	})
	return instance
}

// GetDatabaseURL constructs the full database URL from base URL and name
func (c *Config) GetDatabaseURL() string {
	return database.ConstructDatabaseURL(c.DatabaseURL, c.DatabaseName)
}

// load loads configuration from environment variables
func load() (*Config, error) {
	config := &Config{
		DiscordToken:     os.Getenv("DISCORD_TOKEN"),
		GuildID:          os.Getenv("GUILD_ID"),
		LotteryChannelID: os.Getenv("LOTTERY_CHANNEL_ID"),

		DatabaseURL:  os.Getenv("DATABASE_URL"),
		DatabaseName: os.Getenv("DATABASE_NAME"),

		DataDir:          getEnvWithDefault("DATA_DIR", "data"),
		SnapshotInterval: 2 * time.Minute,

		Locale: getEnvWithDefault("LOCALE", "en"),

		OTLPEndpoint: os.Getenv("OTLP_ENDPOINT"),

		Environment: os.Getenv("ENVIRONMENT"),
	}

	if balance := os.Getenv("STARTING_BALANCE"); balance != "" {
		parsed, err := strconv.ParseInt(balance, 10, 64)
		if err != nil || parsed < 0 {
			return nil, fmt.Errorf("STARTING_BALANCE must be a non-negative integer")
		}
		config.StartingBalance = parsed
	}

	if interval := os.Getenv("SNAPSHOT_INTERVAL"); interval != "" {
		parsed, err := time.ParseDuration(interval)
		if err != nil || parsed <= 0 {
			return nil, fmt.Errorf("SNAPSHOT_INTERVAL must be a positive duration")
		}
		config.SnapshotInterval = parsed
	}

	if refund := os.Getenv("REFUND_ON_LEAVE"); refund != "" {
		parsed, err := strconv.ParseBool(refund)
		if err != nil {
			return nil, fmt.Errorf("REFUND_ON_LEAVE must be a boolean")
		}
		config.RefundOnLeave = parsed
	}

	if config.Environment == "" {
		config.Environment = "development"
	}

	if config.Environment != "test" {
		if config.DiscordToken == "" {
			return nil, fmt.Errorf("DISCORD_TOKEN is required")
		}
		if config.LotteryChannelID == "" {
			return nil, fmt.Errorf("LOTTERY_CHANNEL_ID is required")
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
func SetTestConfig(testConfig *Config) {
	mu.Lock()
	defer mu.Unlock()
	instance = testConfig
}

// ResetConfig resets the global config instance and sync.Once for testing
func ResetConfig() {
	mu.Lock()
	defer mu.Unlock()
	instance = nil
	once = sync.Once{}
}

// NewTestConfig creates a minimal config suitable for unit tests
func NewTestConfig() *Config {
	return &Config{
		Environment:      "test",
		DataDir:          "data",
		SnapshotInterval: 2 * time.Minute,
		Locale:           "en",
	}
}
