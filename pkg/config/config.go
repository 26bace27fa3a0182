package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/jtai-dev/record-matcher/internal/ratelimit"
)

// Config represents the complete application configuration.
type Config struct {
	Profile   string             `mapstructure:"profile"`
	Database  DatabaseConfig     `mapstructure:"database"`
	RestAPI   RestAPIConfig      `mapstructure:"rest_api"`
	MCP       MCPConfig          `mapstructure:"mcp"`
	RateLimit ratelimit.Config   `mapstructure:"rate_limit"`
	Matcher   MatcherConfig      `mapstructure:"matcher"`
	Logging   LoggingConfig      `mapstructure:"logging"`
}

// DatabaseConfig holds the run-history store's configuration.
type DatabaseConfig struct {
	Path        string `mapstructure:"path"`
	AutoMigrate bool   `mapstructure:"auto_migrate"`
}

// RestAPIConfig holds REST API server configuration. AutoPort enables
// automatic selection of the next free port when Port is taken.
type RestAPIConfig struct {
	Enabled      bool     `mapstructure:"enabled"`
	AutoPort     bool     `mapstructure:"auto_port"`
	Port         int      `mapstructure:"port"`
	Host         string   `mapstructure:"host"`
	CORS         bool     `mapstructure:"cors"`
	APIKey       string   `mapstructure:"api_key"`
	AllowOrigins []string `mapstructure:"allow_origins"`
}

// MCPConfig holds the stdio MCP server's configuration.
type MCPConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// MatcherConfig holds matcher defaults read from the config file and
// checked by Validate. The API, MCP and CLI match paths do not read
// it; they build their Matcher from recordmatcher.NewMatcher and
// request or flag values.
type MatcherConfig struct {
	DefaultScorer      string  `mapstructure:"default_scorer"`
	RequiredThreshold  float64 `mapstructure:"required_threshold"`
	DuplicateThreshold float64 `mapstructure:"duplicate_threshold"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Format string `mapstructure:"format"` // console, json
}

// DefaultConfig returns configuration with sensible default values.
func DefaultConfig() *Config {
	return &Config{
		Profile: "default",
		Database: DatabaseConfig{
			Path:        filepath.Join(ConfigPath(), "runs.db"),
			AutoMigrate: true,
		},
		RestAPI: RestAPIConfig{
			Enabled:  true,
			AutoPort: true,
			Port:     8420,
			Host:     "localhost",
			CORS:     true,
		},
		MCP: MCPConfig{
			Enabled: true,
		},
		RateLimit: *ratelimit.DefaultConfig(),
		Matcher: MatcherConfig{
			DefaultScorer:      "exact_match",
			RequiredThreshold:  75.0,
			DuplicateThreshold: 0.0,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Load loads configuration from YAML file with fallback to defaults.
// Searches in ./config.yaml, ~/.record-matcher/config.yaml, and
// /etc/record-matcher/config.yaml, in that order.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")

	v.AddConfigPath(".")
	v.AddConfigPath(ConfigPath())
	v.AddConfigPath("/etc/record-matcher")

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	config := &Config{}
	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// setDefaults sets default values in Viper.
func setDefaults(v *viper.Viper) {
	v.SetDefault("profile", "default")
	v.SetDefault("database.path", filepath.Join(ConfigPath(), "runs.db"))
	v.SetDefault("database.auto_migrate", true)

	v.SetDefault("rest_api.enabled", true)
	v.SetDefault("rest_api.auto_port", true)
	v.SetDefault("rest_api.port", 8420)
	v.SetDefault("rest_api.host", "localhost")
	v.SetDefault("rest_api.cors", true)

	v.SetDefault("mcp.enabled", true)

	v.SetDefault("matcher.default_scorer", "exact_match")
	v.SetDefault("matcher.required_threshold", 75.0)
	v.SetDefault("matcher.duplicate_threshold", 0.0)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Database.Path == "" {
		return fmt.Errorf("database.path is required")
	}

	if c.RestAPI.Enabled {
		if c.RestAPI.Port < 1 || c.RestAPI.Port > 65535 {
			return fmt.Errorf("rest_api.port must be between 1 and 65535")
		}
		if c.RestAPI.Host == "" {
			return fmt.Errorf("rest_api.host is required when REST API is enabled")
		}
	}

	if c.Matcher.RequiredThreshold < 0 || c.Matcher.RequiredThreshold > 100 {
		return fmt.Errorf("matcher.required_threshold must be in [0, 100]")
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.Logging.Level] {
		return fmt.Errorf("logging.level must be one of: debug, info, warn, error")
	}

	validFormats := map[string]bool{"console": true, "json": true}
	if !validFormats[c.Logging.Format] {
		return fmt.Errorf("logging.format must be one of: console, json")
	}

	return nil
}

// EnsureConfigDir creates the configuration directory if it doesn't exist.
func (c *Config) EnsureConfigDir() error {
	configDir := filepath.Dir(c.Database.Path)
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	return nil
}

// ConfigPath returns the path to the configuration directory.
func ConfigPath() string {
	homeDir, _ := os.UserHomeDir()
	return filepath.Join(homeDir, ".record-matcher")
}

// DatabasePath returns the default run-history database path.
func DatabasePath() string {
	return filepath.Join(ConfigPath(), "runs.db")
}
