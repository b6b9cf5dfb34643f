package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if cfg.Engine.SeekStepSeconds != 90 {
		t.Errorf("SeekStepSeconds = %d, want 90", cfg.Engine.SeekStepSeconds)
	}
	if cfg.Engine.AdDurationSeconds != 10 {
		t.Errorf("AdDurationSeconds = %d, want 10", cfg.Engine.AdDurationSeconds)
	}
	if cfg.Engine.PremiumCredit != 1_000_000 {
		t.Errorf("PremiumCredit = %d, want 1000000", cfg.Engine.PremiumCredit)
	}
}

func TestLoadConfigCreatesDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.Engine.PremiumCredit != 1_000_000 {
		t.Errorf("PremiumCredit = %d, want default", cfg.Engine.PremiumCredit)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("default config file not written: %v", err)
	}
}

func TestLoadConfigRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")

	cfg := DefaultConfig()
	cfg.Engine.AdDurationSeconds = 30
	cfg.Logging.Format = "json"
	if err := cfg.SaveToFile(path); err != nil {
		t.Fatalf("SaveToFile() error = %v", err)
	}

	loaded, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if loaded.Engine.AdDurationSeconds != 30 {
		t.Errorf("AdDurationSeconds = %d, want 30", loaded.Engine.AdDurationSeconds)
	}
	if loaded.Logging.Format != "json" {
		t.Errorf("Logging.Format = %q, want json", loaded.Logging.Format)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero seek step", func(c *Config) { c.Engine.SeekStepSeconds = 0 }},
		{"zero ad duration", func(c *Config) { c.Engine.AdDurationSeconds = 0 }},
		{"negative credit", func(c *Config) { c.Engine.PremiumCredit = -1 }},
		{"empty catalog path", func(c *Config) { c.Catalog.Path = "" }},
		{"empty library path", func(c *Config) { c.Library.Path = "" }},
		{"no formats", func(c *Config) { c.Library.SupportedFormats = nil }},
		{"bad log level", func(c *Config) { c.Logging.Level = "verbose" }},
		{"bad log format", func(c *Config) { c.Logging.Format = "xml" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestIsFormatSupported(t *testing.T) {
	cfg := DefaultConfig()
	if !cfg.IsFormatSupported(".mp3") {
		t.Error("expected .mp3 to be supported")
	}
	if cfg.IsFormatSupported(".ogg") {
		t.Error("expected .ogg to be unsupported")
	}
}
