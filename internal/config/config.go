// Package config provides application configuration management with support for
// TOML files, environment variable overrides, and configuration overlays.
package config

import (
	"fmt"
	"os"

	"github.com/pdfdesk/pdfdesk/pkg/logging"
	"github.com/pelletier/go-toml/v2"
)

const (
	// BaseConfigFile is the primary configuration file name.
	BaseConfigFile = "config.toml"

	// OverlayConfigPattern is the file name pattern for environment-specific overlays.
	OverlayConfigPattern = "config.%s.toml"

	// EnvAppEnv specifies the environment name for configuration overlays.
	EnvAppEnv = "PDFDESK_ENV"
)

var loggingEnv = &logging.Env{
	Level:  "PDFDESK_LOG_LEVEL",
	Format: "PDFDESK_LOG_FORMAT",
}

// Config represents the root application configuration.
type Config struct {
	Service ServiceConfig  `toml:"service"`
	Session SessionConfig  `toml:"session"`
	Logging logging.Config `toml:"logging"`
}

// Load reads and parses the base configuration file and applies any
// environment-specific overlay. A missing base file yields a default
// configuration rather than an error.
func Load(path string) (*Config, error) {
	cfg, err := load(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg = &Config{}
		} else {
			return nil, err
		}
	}

	if overlay := overlayPath(); overlay != "" {
		o, err := load(overlay)
		if err != nil {
			return nil, fmt.Errorf("load overlay %s: %w", overlay, err)
		}
		cfg.Merge(o)
	}

	if err := cfg.Finalize(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Finalize applies defaults, loads environment overrides, and validates the configuration.
func (c *Config) Finalize() error {
	if err := c.Service.Finalize(); err != nil {
		return fmt.Errorf("service: %w", err)
	}
	if err := c.Session.Finalize(); err != nil {
		return fmt.Errorf("session: %w", err)
	}
	if err := c.Logging.Finalize(loggingEnv); err != nil {
		return fmt.Errorf("logging: %w", err)
	}
	return nil
}

// Merge applies values from overlay configuration that differ from zero values.
func (c *Config) Merge(overlay *Config) {
	c.Service.Merge(&overlay.Service)
	c.Session.Merge(&overlay.Session)
	c.Logging.Merge(&overlay.Logging)
}

func load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &cfg, nil
}

func overlayPath() string {
	env := os.Getenv(EnvAppEnv)
	if env == "" {
		return ""
	}

	path := fmt.Sprintf(OverlayConfigPattern, env)
	if _, err := os.Stat(path); err != nil {
		return ""
	}
	return path
}
