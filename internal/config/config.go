package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config represents the application configuration
type Config struct {
	Engine  EngineConfig  `toml:"engine"`
	Catalog CatalogConfig `toml:"catalog"`
	Library LibraryConfig `toml:"library"`
	Logging LoggingConfig `toml:"logging"`
}

// EngineConfig contains the playback and monetization constants
type EngineConfig struct {
	// SeekStepSeconds is how far forward/backward moves inside an episode.
	SeekStepSeconds int `toml:"seek_step_seconds"`
	// AdDurationSeconds is how long an inserted ad break lasts.
	AdDurationSeconds int `toml:"ad_duration_seconds"`
	// PremiumCredit is the money pool settled per premium subscription.
	PremiumCredit int64 `toml:"premium_credit"`
}

// CatalogConfig contains catalog persistence configuration
type CatalogConfig struct {
	Path string `toml:"path"`
}

// LibraryConfig contains audio library import configuration
type LibraryConfig struct {
	Path             string   `toml:"path"`
	SupportedFormats []string `toml:"supported_formats"`
	WatchForChanges  bool     `toml:"watch_for_changes"`
	ScanOnStartup    bool     `toml:"scan_on_startup"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
	File   string `toml:"file"`
}

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Engine: EngineConfig{
			SeekStepSeconds:   90,
			AdDurationSeconds: 10,
			PremiumCredit:     1_000_000,
		},
		Catalog: CatalogConfig{
			Path: "./echowave.db",
		},
		Library: LibraryConfig{
			Path:             "./music",
			SupportedFormats: []string{".flac", ".mp3", ".wav", ".m4a"},
			WatchForChanges:  false,
			ScanOnStartup:    true,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
			File:   "",
		},
	}
}

// LoadConfig loads configuration from a TOML file
func LoadConfig(configPath string) (*Config, error) {
	// Start with defaults
	cfg := DefaultConfig()

	// Check if config file exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		// Config file doesn't exist, create it with defaults
		if err := cfg.SaveToFile(configPath); err != nil {
			return nil, fmt.Errorf("failed to create default config file: %w", err)
		}
		fmt.Printf("Created default configuration file at: %s\n", configPath)
		return cfg, nil
	}

	// Load from file
	if _, err := toml.DecodeFile(configPath, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Validate the configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// SaveToFile saves the configuration to a TOML file
func (c *Config) SaveToFile(configPath string) error {
	// Create directory if it doesn't exist
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// Create or open file
	file, err := os.Create(configPath)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer file.Close()

	// Write header comment
	header := `# EchoWave Playback Engine Configuration
# This file contains all configuration options for the EchoWave playback
# and revenue engine. Edit the values below to customize your setup.

`
	if _, err := file.WriteString(header); err != nil {
		return fmt.Errorf("failed to write config header: %w", err)
	}

	// Encode configuration to TOML
	encoder := toml.NewEncoder(file)
	if err := encoder.Encode(c); err != nil {
		return fmt.Errorf("failed to encode config to TOML: %w", err)
	}

	return nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	// Validate engine config
	if c.Engine.SeekStepSeconds < 1 {
		return fmt.Errorf("seek step must be at least 1 second")
	}
	if c.Engine.AdDurationSeconds < 1 {
		return fmt.Errorf("ad duration must be at least 1 second")
	}
	if c.Engine.PremiumCredit < 0 {
		return fmt.Errorf("premium credit cannot be negative")
	}

	// Validate catalog config
	if c.Catalog.Path == "" {
		return fmt.Errorf("catalog path cannot be empty")
	}

	// Validate library config
	if c.Library.Path == "" {
		return fmt.Errorf("library path cannot be empty")
	}
	if len(c.Library.SupportedFormats) == 0 {
		return fmt.Errorf("at least one supported audio format must be specified")
	}

	// Validate logging config
	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Logging.Level)
	}

	validLogFormats := map[string]bool{
		"text": true, "json": true,
	}
	if !validLogFormats[c.Logging.Format] {
		return fmt.Errorf("invalid log format: %s (must be text or json)", c.Logging.Format)
	}

	return nil
}

// IsFormatSupported checks if an audio format is supported
func (c *Config) IsFormatSupported(format string) bool {
	for _, supported := range c.Library.SupportedFormats {
		if supported == format {
			return true
		}
	}
	return false
}
