package config

import (
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/docker/go-units"
)

// Environment variable names for service configuration overrides.
const (
	EnvServiceBaseURL       = "PDFDESK_SERVICE_BASE_URL"
	EnvServiceTimeout       = "PDFDESK_SERVICE_TIMEOUT"
	EnvServiceMaxUploadSize = "PDFDESK_SERVICE_MAX_UPLOAD_SIZE"
	EnvServiceDownloadDir   = "PDFDESK_SERVICE_DOWNLOAD_DIR"
)

// ServiceConfig describes the remote document-processing service endpoint.
type ServiceConfig struct {
	// BaseURL is the root address of the processing service.
	// Default: "http://localhost:5000"
	BaseURL string `toml:"base_url"`

	// Timeout bounds each request when the caller supplies no deadline.
	// Default: "30s"
	Timeout string `toml:"timeout"`

	// MaxUploadSize caps the combined size of file payloads per request.
	// Default: "100MB"
	MaxUploadSize string `toml:"max_upload_size"`

	// DownloadDir is where binary operation results are saved.
	// Default: "."
	DownloadDir string `toml:"download_dir"`

	timeoutVal       time.Duration
	maxUploadSizeVal int64
}

// TimeoutDuration returns the parsed request timeout.
func (c *ServiceConfig) TimeoutDuration() time.Duration {
	return c.timeoutVal
}

// MaxUploadSizeBytes returns the parsed upload size cap in bytes.
func (c *ServiceConfig) MaxUploadSizeBytes() int64 {
	return c.maxUploadSizeVal
}

// Finalize applies defaults, loads environment overrides, and validates the configuration.
func (c *ServiceConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge applies values from overlay configuration that differ from zero values.
func (c *ServiceConfig) Merge(overlay *ServiceConfig) {
	if overlay.BaseURL != "" {
		c.BaseURL = overlay.BaseURL
	}
	if overlay.Timeout != "" {
		c.Timeout = overlay.Timeout
	}
	if overlay.MaxUploadSize != "" {
		c.MaxUploadSize = overlay.MaxUploadSize
	}
	if overlay.DownloadDir != "" {
		c.DownloadDir = overlay.DownloadDir
	}
}

func (c *ServiceConfig) loadDefaults() {
	if c.BaseURL == "" {
		c.BaseURL = "http://localhost:5000"
	}
	if c.Timeout == "" {
		c.Timeout = "30s"
	}
	if c.MaxUploadSize == "" {
		c.MaxUploadSize = "100MB"
	}
	if c.DownloadDir == "" {
		c.DownloadDir = "."
	}
}

func (c *ServiceConfig) loadEnv() {
	if v := os.Getenv(EnvServiceBaseURL); v != "" {
		c.BaseURL = v
	}
	if v := os.Getenv(EnvServiceTimeout); v != "" {
		c.Timeout = v
	}
	if v := os.Getenv(EnvServiceMaxUploadSize); v != "" {
		c.MaxUploadSize = v
	}
	if v := os.Getenv(EnvServiceDownloadDir); v != "" {
		c.DownloadDir = v
	}
}

func (c *ServiceConfig) validate() error {
	u, err := url.Parse(c.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid base_url: %s", c.BaseURL)
	}

	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return fmt.Errorf("invalid timeout: %w", err)
	}
	if d <= 0 {
		return fmt.Errorf("timeout must be positive: %s", c.Timeout)
	}
	c.timeoutVal = d

	size, err := units.FromHumanSize(c.MaxUploadSize)
	if err != nil {
		return fmt.Errorf("invalid max_upload_size: %w", err)
	}
	c.maxUploadSizeVal = size

	return nil
}
