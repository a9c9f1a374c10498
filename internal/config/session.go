package config

import (
	"fmt"
	"os"
	"strconv"
)

// Environment variable names for session configuration overrides.
const (
	EnvSessionRecentFilesLimit = "PDFDESK_SESSION_RECENT_FILES_LIMIT"
	EnvSessionDefaultZoom      = "PDFDESK_SESSION_DEFAULT_ZOOM"
)

// SessionConfig tunes the in-memory document session.
type SessionConfig struct {
	// RecentFilesLimit bounds the recently-opened locations list.
	// Default: 10
	RecentFilesLimit int `toml:"recent_files_limit"`

	// DefaultZoom is the zoom factor assigned to newly opened documents.
	// Default: 1.0
	DefaultZoom float64 `toml:"default_zoom"`
}

// Finalize applies defaults, loads environment overrides, and validates the configuration.
func (c *SessionConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge applies values from overlay configuration that differ from zero values.
func (c *SessionConfig) Merge(overlay *SessionConfig) {
	if overlay.RecentFilesLimit != 0 {
		c.RecentFilesLimit = overlay.RecentFilesLimit
	}
	if overlay.DefaultZoom != 0 {
		c.DefaultZoom = overlay.DefaultZoom
	}
}

func (c *SessionConfig) loadDefaults() {
	if c.RecentFilesLimit == 0 {
		c.RecentFilesLimit = 10
	}
	if c.DefaultZoom == 0 {
		c.DefaultZoom = 1.0
	}
}

func (c *SessionConfig) loadEnv() {
	if v := os.Getenv(EnvSessionRecentFilesLimit); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.RecentFilesLimit = n
		}
	}
	if v := os.Getenv(EnvSessionDefaultZoom); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			c.DefaultZoom = f
		}
	}
}

func (c *SessionConfig) validate() error {
	if c.RecentFilesLimit < 1 {
		return fmt.Errorf("recent_files_limit must be at least 1: %d", c.RecentFilesLimit)
	}
	if c.DefaultZoom <= 0 {
		return fmt.Errorf("default_zoom must be positive: %g", c.DefaultZoom)
	}
	return nil
}
