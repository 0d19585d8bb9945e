// Package config provides configuration loading for the craft admin tools.
package config

import (
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "CRAFTADMIN_"

// Config is the complete configuration.
type Config struct {
	App     AppConfig     `yaml:"app"`
	Scraper ScraperConfig `yaml:"scraper"`
	Log     LogConfig     `yaml:"log"`
	Metrics MetricsConfig `yaml:"metrics"`
	Catalog CatalogConfig `yaml:"catalog"`
}

// AppConfig locates the admin application.
type AppConfig struct {
	// BaseURL is the origin serving /api/<resource>/row.
	BaseURL string `yaml:"base_url"`
	// PageSize is the initial table page size (5 or 10).
	PageSize int `yaml:"page_size"`
}

// ScraperConfig locates the scraper service driven by the update pipeline.
type ScraperConfig struct {
	BaseURL string `yaml:"base_url"`
	// Timeout bounds each step request. Zero waits indefinitely.
	Timeout time.Duration `yaml:"timeout"`
}

// LogConfig configures the zap logger.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	// File, when set, receives a rotated copy of the log.
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
}

// MetricsConfig configures the Prometheus endpoint.
type MetricsConfig struct {
	Addr string `yaml:"addr"`
}

// CatalogConfig optionally replaces the built-in input catalog.
type CatalogConfig struct {
	OpenAPI string `yaml:"openapi"`
	Schema  string `yaml:"schema"`
}

// SupportedPageSizes lists the accepted app.page_size values.
var SupportedPageSizes = []int{5, 10}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		App: AppConfig{
			BaseURL:  "http://localhost:8000",
			PageSize: 10,
		},
		Scraper: ScraperConfig{
			BaseURL: "http://localhost:3000",
			Timeout: 0,
		},
		Log: LogConfig{
			Level:      "info",
			Format:     "console",
			MaxSizeMB:  5,
			MaxBackups: 3,
			MaxAgeDays: 30,
		},
		Metrics: MetricsConfig{
			Addr: ":9090",
		},
	}
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.App.BaseURL) == "" {
		return fmt.Errorf("app.base_url is required")
	}
	if !slices.Contains(SupportedPageSizes, c.App.PageSize) {
		return fmt.Errorf("app.page_size must be one of %v, got %d", SupportedPageSizes, c.App.PageSize)
	}
	if strings.TrimSpace(c.Scraper.BaseURL) == "" {
		return fmt.Errorf("scraper.base_url is required")
	}
	if c.Scraper.Timeout < 0 {
		return fmt.Errorf("scraper.timeout must not be negative")
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level must be debug, info, warn or error, got %q", c.Log.Level)
	}
	switch strings.ToLower(c.Log.Format) {
	case "json", "console":
	default:
		return fmt.Errorf("log.format must be json or console, got %q", c.Log.Format)
	}
	if (c.Catalog.OpenAPI == "") != (c.Catalog.Schema == "") {
		return fmt.Errorf("catalog.openapi and catalog.schema must be set together")
	}
	return nil
}

// LoadFromFile loads configuration from a YAML file on top of the defaults.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// Load reads path when it is not empty, applies environment overrides and
// validates the result.
func Load(path string) (*Config, error) {
	config := DefaultConfig()
	if path != "" {
		loaded, err := LoadFromFile(path)
		if err != nil {
			return nil, err
		}
		config = loaded
	}
	if err := config.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// ApplyEnv overrides fields from CRAFTADMIN_* variables resolved by lookup.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(EnvPrefix + key); ok && v != "" {
			*dst = v
		}
	}
	str("APP_BASE_URL", &c.App.BaseURL)
	str("SCRAPER_BASE_URL", &c.Scraper.BaseURL)
	str("LOG_LEVEL", &c.Log.Level)
	str("LOG_FORMAT", &c.Log.Format)
	str("LOG_FILE", &c.Log.File)
	str("METRICS_ADDR", &c.Metrics.Addr)
	str("CATALOG_OPENAPI", &c.Catalog.OpenAPI)
	str("CATALOG_SCHEMA", &c.Catalog.Schema)

	if v, ok := lookup(EnvPrefix + "APP_PAGE_SIZE"); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%sAPP_PAGE_SIZE: %w", EnvPrefix, err)
		}
		c.App.PageSize = n
	}
	if v, ok := lookup(EnvPrefix + "SCRAPER_TIMEOUT"); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%sSCRAPER_TIMEOUT: %w", EnvPrefix, err)
		}
		c.Scraper.Timeout = d
	}
	return nil
}

// Merge merges another config into this one (other takes precedence for
// non-zero values).
func (c *Config) Merge(other *Config) {
	if other == nil {
		return
	}

	if other.App.BaseURL != "" {
		c.App.BaseURL = other.App.BaseURL
	}
	if other.App.PageSize != 0 {
		c.App.PageSize = other.App.PageSize
	}

	if other.Scraper.BaseURL != "" {
		c.Scraper.BaseURL = other.Scraper.BaseURL
	}
	if other.Scraper.Timeout != 0 {
		c.Scraper.Timeout = other.Scraper.Timeout
	}

	if other.Log.Level != "" {
		c.Log.Level = other.Log.Level
	}
	if other.Log.Format != "" {
		c.Log.Format = other.Log.Format
	}
	if other.Log.File != "" {
		c.Log.File = other.Log.File
	}

	if other.Metrics.Addr != "" {
		c.Metrics.Addr = other.Metrics.Addr
	}

	if other.Catalog.OpenAPI != "" {
		c.Catalog.OpenAPI = other.Catalog.OpenAPI
		c.Catalog.Schema = other.Catalog.Schema
	}
}
