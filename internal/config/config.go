package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultListenAddr is the fallback HTTP listen address.
	DefaultListenAddr = ":8080"
	// DefaultDatabaseDSN is the fallback SQLite database path.
	DefaultDatabaseDSN = "usage-hub.db"
	// DefaultRequestTimeoutSeconds bounds a single upstream report request.
	DefaultRequestTimeoutSeconds = 20
	// APIKeyEnv overrides the configured Anthropic admin key when set.
	APIKeyEnv = "ANTHROPIC_ADMIN_KEY"
)

// Config is the root configuration loaded from YAML.
type Config struct {
	Listen   string `yaml:"listen"`   // HTTP listen address.
	Database string `yaml:"database"` // GORM DSN (SQLite path or postgres URL).

	// AccessToken guards the /v0 API surface. Empty disables the check,
	// which is only sensible behind an authenticating proxy.
	AccessToken string `yaml:"access-token"`

	Anthropic Anthropic `yaml:"anthropic"`
	Redis     Redis     `yaml:"redis"`
	Log       Log       `yaml:"log"`
}

// Anthropic holds upstream Admin API settings.
type Anthropic struct {
	APIKey         string `yaml:"api-key"`         // Admin API key; ANTHROPIC_ADMIN_KEY wins when set.
	BaseURL        string `yaml:"base-url"`        // Override for tests/self-hosted proxies.
	TimeoutSeconds int    `yaml:"timeout-seconds"` // Per-request timeout.
}

// Redis holds the optional status mirror settings.
type Redis struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// Log holds logging settings.
type Log struct {
	Level      string `yaml:"level"`
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max-size-mb"`
	MaxBackups int    `yaml:"max-backups"`
}

// Load reads the YAML config at path, applies environment overrides and
// defaults, and validates that the upstream credential is present.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if strings.TrimSpace(path) != "" {
		data, errRead := os.ReadFile(path)
		if errRead != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, errRead)
		}
		if errUnmarshal := yaml.Unmarshal(data, cfg); errUnmarshal != nil {
			return nil, fmt.Errorf("config: parse %s: %w", path, errUnmarshal)
		}
	}

	if envKey := strings.TrimSpace(os.Getenv(APIKeyEnv)); envKey != "" {
		cfg.Anthropic.APIKey = envKey
	}
	cfg.applyDefaults()

	if errValidate := cfg.Validate(); errValidate != nil {
		return nil, errValidate
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if strings.TrimSpace(c.Listen) == "" {
		c.Listen = DefaultListenAddr
	}
	if strings.TrimSpace(c.Database) == "" {
		c.Database = DefaultDatabaseDSN
	}
	if c.Anthropic.TimeoutSeconds <= 0 {
		c.Anthropic.TimeoutSeconds = DefaultRequestTimeoutSeconds
	}
	if strings.TrimSpace(c.Log.Level) == "" {
		c.Log.Level = "info"
	}
}

// Validate reports configuration errors that must fail startup. A missing
// credential is an error, not a fallback case: nothing in this service can
// run without the upstream key.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Anthropic.APIKey) == "" {
		return fmt.Errorf("config: anthropic api key is required (set anthropic.api-key or %s)", APIKeyEnv)
	}
	return nil
}

// MaskSecret obscures a credential for logging, keeping only the first and
// last few characters.
func MaskSecret(secret string) string {
	if len(secret) > 8 {
		return secret[:4] + "..." + secret[len(secret)-4:]
	} else if len(secret) > 4 {
		return secret[:2] + "..." + secret[len(secret)-2:]
	} else if len(secret) > 2 {
		return secret[:1] + "..." + secret[len(secret)-1:]
	}
	return secret
}
