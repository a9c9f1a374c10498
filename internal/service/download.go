package service

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/docker/go-units"
)

// Download writes a binary operation result into the configured download
// directory under suggestedName, returning the saved path.
func (c *client) Download(res *Result, suggestedName string) (string, error) {
	if res == nil || res.Binary == nil {
		return "", fmt.Errorf("download: result carries no binary payload")
	}

	if err := os.MkdirAll(c.downloadDir, 0o755); err != nil {
		return "", fmt.Errorf("download: %w", err)
	}

	path := filepath.Join(c.downloadDir, filepath.Base(suggestedName))
	if err := os.WriteFile(path, res.Binary, 0o644); err != nil {
		return "", fmt.Errorf("download: %w", err)
	}

	c.logger.Info("result saved", "path", path, "size", units.HumanSize(float64(len(res.Binary))))
	return path, nil
}
