package inspect

import (
	"fmt"
	"path/filepath"

	"github.com/archlinux/arch-repro-status/internal/models"
	"github.com/archlinux/arch-repro-status/internal/utils"
)

// LogPath returns the cache file of a build log, creating the cache directory
func LogPath(cacheDir string, buildID int64, logType models.LogType) (string, error) {
	if cacheDir == "" {
		return "", fmt.Errorf("cache directory is not set")
	}
	if err := utils.EnsureDir(cacheDir); err != nil {
		return "", fmt.Errorf("failed to create cache directory: %w", err)
	}
	return filepath.Join(cacheDir, fmt.Sprintf("%d_%s.log", buildID, logType)), nil
}
