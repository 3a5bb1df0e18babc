// Package config provides configuration management.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"quote-pricing/internal/logging"
)

// Config is the main application configuration
type Config struct {
	// Version is the configuration version
	Version string `json:"version"`

	// Server contains HTTP server configuration
	Server ServerConfig `json:"server"`

	// Catalog contains catalog store configuration
	Catalog CatalogConfig `json:"catalog"`

	// Quoting contains quoting defaults
	Quoting QuotingConfig `json:"quoting"`

	// Logging contains logging configuration
	Logging logging.Config `json:"logging"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	// Addr is the listen address
	Addr string `json:"addr"`
}

// CatalogConfig contains catalog store settings
type CatalogConfig struct {
	// DatabasePath is the path to the catalog database
	DatabasePath string `json:"database_path"`
}

// QuotingConfig contains default quoting behavior
type QuotingConfig struct {
	// DefaultProjectionYears is the projection horizon when none is requested
	DefaultProjectionYears int `json:"default_projection_years"`

	// DefaultEscalationModel is the escalation model when none is requested
	DefaultEscalationModel string `json:"default_escalation_model"`
}

// Default returns a default configuration
func Default() *Config {
	homeDir, _ := os.UserHomeDir()
	dbPath := filepath.Join(homeDir, ".quote-pricing", "catalog.db")

	return &Config{
		Version: "1.0",
		Server: ServerConfig{
			Addr: ":8080",
		},
		Catalog: CatalogConfig{
			DatabasePath: dbPath,
		},
		Quoting: QuotingConfig{
			DefaultProjectionYears: 5,
			DefaultEscalationModel: "STANDARD_4PCT",
		},
		Logging: logging.DefaultConfig(),
	}
}

// Load loads configuration from a file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, err
	}

	config := Default()
	if err := json.Unmarshal(data, config); err != nil {
		return nil, err
	}

	return config, nil
}

// Save saves configuration to a file
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// Global configuration instance
var globalConfig = Default()

// Get returns the global configuration
func Get() *Config {
	return globalConfig
}

// Set sets the global configuration
func Set(config *Config) {
	globalConfig = config
}
