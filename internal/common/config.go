// Package common provides shared utilities for Stockfolio
package common

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Config holds all configuration for Stockfolio
type Config struct {
	Environment     string        `toml:"environment"`
	DisplayCurrency string        `toml:"display_currency"` // ISO code used when rendering money, default "USD"
	Server          ServerConfig  `toml:"server"`
	Storage         StorageConfig `toml:"storage"`
	Clients         ClientsConfig `toml:"clients"`
	Logging         LoggingConfig `toml:"logging"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host         string `toml:"host"`
	Port         int    `toml:"port"`
	WriteTimeout string `toml:"write_timeout"` // must cover a full price refresh
}

// GetWriteTimeout parses and returns the write timeout duration
func (c *ServerConfig) GetWriteTimeout() time.Duration {
	d, err := time.ParseDuration(c.WriteTimeout)
	if err != nil {
		return 10 * time.Minute
	}
	return d
}

// StorageConfig selects and configures the persistence backend.
type StorageConfig struct {
	Backend        string          `toml:"backend"` // "sqlite" (default), "postgres" or "surrealdb"
	SeedSampleData bool            `toml:"seed_sample_data"`
	SQLite         SQLiteConfig    `toml:"sqlite"`
	Postgres       PostgresConfig  `toml:"postgres"`
	SurrealDB      SurrealDBConfig `toml:"surrealdb"`
}

// SQLiteConfig holds the database file location.
type SQLiteConfig struct {
	Path string `toml:"path"`
}

// PostgresConfig holds the connection string.
type PostgresConfig struct {
	DSN string `toml:"dsn"`
}

// SurrealDBConfig holds SurrealDB connection settings.
type SurrealDBConfig struct {
	Address   string `toml:"address"`
	Username  string `toml:"username"`
	Password  string `toml:"password"`
	Namespace string `toml:"namespace"`
	Database  string `toml:"database"`
}

// ClientsConfig holds API client configurations
type ClientsConfig struct {
	AlphaVantage AlphaVantageConfig `toml:"alphavantage"`
}

// AlphaVantageConfig holds Alpha Vantage API configuration
type AlphaVantageConfig struct {
	BaseURL      string `toml:"base_url"`
	APIKey       string `toml:"api_key"`
	CallInterval string `toml:"call_interval"` // minimum delay between calls, across all symbols
	Timeout      string `toml:"timeout"`
}

// GetCallInterval parses and returns the inter-call cooldown
func (c *AlphaVantageConfig) GetCallInterval() time.Duration {
	d, err := time.ParseDuration(c.CallInterval)
	if err != nil || d < 0 {
		return 15 * time.Second
	}
	return d
}

// GetTimeout parses and returns the timeout duration
func (c *AlphaVantageConfig) GetTimeout() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 30 * time.Second
	}
	return d
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level      string   `toml:"level"`
	Outputs    []string `toml:"outputs"`
	FilePath   string   `toml:"file_path"`
	MaxSizeMB  int      `toml:"max_size_mb"`
	MaxBackups int      `toml:"max_backups"`
}

// NewDefaultConfig returns a Config with sensible defaults
func NewDefaultConfig() *Config {
	return &Config{
		Environment:     "development",
		DisplayCurrency: "USD",
		Server: ServerConfig{
			Host:         "0.0.0.0",
			Port:         5000,
			WriteTimeout: "10m",
		},
		Storage: StorageConfig{
			Backend:        "sqlite",
			SeedSampleData: true,
			SQLite:         SQLiteConfig{Path: "data/stockfolio.db"},
			SurrealDB: SurrealDBConfig{
				Address:   "ws://localhost:8000/rpc",
				Username:  "root",
				Password:  "root",
				Namespace: "stockfolio",
				Database:  "stockfolio",
			},
		},
		Clients: ClientsConfig{
			AlphaVantage: AlphaVantageConfig{
				BaseURL:      "https://www.alphavantage.co/query",
				CallInterval: "15s",
				Timeout:      "30s",
			},
		},
		Logging: LoggingConfig{
			Level:      "info",
			Outputs:    []string{"console"},
			FilePath:   "./logs/stockfolio.log",
			MaxSizeMB:  100,
			MaxBackups: 3,
		},
	}
}

// LoadConfig loads configuration from files with environment overrides.
// Later files override earlier ones; missing files are skipped.
func LoadConfig(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	for _, path := range paths {
		if path == "" {
			continue
		}

		if _, err := os.Stat(path); os.IsNotExist(err) {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	applyEnvOverrides(config)

	config.DisplayCurrency = strings.ToUpper(strings.TrimSpace(config.DisplayCurrency))
	if config.DisplayCurrency == "" {
		config.DisplayCurrency = "USD"
	}
	config.Storage.Backend = strings.ToLower(strings.TrimSpace(config.Storage.Backend))

	return config, nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("STOCKFOLIO_ENV"); env != "" {
		config.Environment = env
	}

	if host := os.Getenv("STOCKFOLIO_HOST"); host != "" {
		config.Server.Host = host
	}

	if port := os.Getenv("STOCKFOLIO_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}

	if level := os.Getenv("STOCKFOLIO_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}

	if dc := os.Getenv("STOCKFOLIO_DISPLAY_CURRENCY"); dc != "" {
		config.DisplayCurrency = dc
	}

	// Storage overrides
	if v := os.Getenv("STOCKFOLIO_STORAGE_BACKEND"); v != "" {
		config.Storage.Backend = v
	}
	if v := os.Getenv("STOCKFOLIO_DB_PATH"); v != "" {
		config.Storage.SQLite.Path = v
	}
	if v := os.Getenv("STOCKFOLIO_POSTGRES_DSN"); v != "" {
		config.Storage.Postgres.DSN = v
	}
	if v := os.Getenv("STOCKFOLIO_SURREALDB_ADDRESS"); v != "" {
		config.Storage.SurrealDB.Address = v
	}

	if v := os.Getenv("STOCKFOLIO_ALPHA_VANTAGE_CALL_INTERVAL"); v != "" {
		config.Clients.AlphaVantage.CallInterval = v
	}

	// The bare ALPHA_VANTAGE_API_KEY wins over the prefixed variant.
	if v := os.Getenv("STOCKFOLIO_ALPHA_VANTAGE_API_KEY"); v != "" {
		config.Clients.AlphaVantage.APIKey = v
	}
	if v := os.Getenv("ALPHA_VANTAGE_API_KEY"); v != "" {
		config.Clients.AlphaVantage.APIKey = v
	}
}

// ApplyFlagOverrides applies command-line flag overrides to config.
func ApplyFlagOverrides(config *Config, port int, host string) {
	if port > 0 {
		config.Server.Port = port
	}
	if host != "" {
		config.Server.Host = host
	}
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	env := strings.ToLower(strings.TrimSpace(c.Environment))
	return env == "production" || env == "prod"
}

// APIConfigured reports whether a quote API credential is present.
func (c *Config) APIConfigured() bool {
	return strings.TrimSpace(c.Clients.AlphaVantage.APIKey) != ""
}

// StorageDescription returns a short human-readable storage location for banners and logs.
func (c *Config) StorageDescription() string {
	switch c.Storage.Backend {
	case "postgres":
		return "postgres"
	case "surrealdb":
		return "surrealdb " + c.Storage.SurrealDB.Address
	default:
		return "sqlite " + c.Storage.SQLite.Path
	}
}
