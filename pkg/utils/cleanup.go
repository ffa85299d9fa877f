package utils

import (
	"context"
	"os"
	"path/filepath"

	"github.com/pavelc4/aether-fetch/pkg/logger"
)

// TempFilePatterns matches scoped work directories left behind by a crashed process.
var TempFilePatterns = []string{
	"aether-fetch-*",
}

// RemoveFiles deletes every path and reports how many were removed. Missing files and
// other errors are ignored.
func RemoveFiles(paths []string) int {
	removed := 0
	for _, path := range paths {
		if path == "" {
			continue
		}
		if err := os.Remove(path); err != nil {
			if !os.IsNotExist(err) {
				logger.Debug("Failed to remove file", "path", path, "error", err)
			}
			continue
		}
		removed++
	}
	return removed
}

// CleanupTempFilesByPattern removes entries in dir matching patterns until ctx is done.
func CleanupTempFilesByPattern(ctx context.Context, dir string, patterns []string) int {
	if dir == "" {
		dir = os.TempDir()
	}
	filesCleaned := 0

	for _, pattern := range patterns {
		if ctx.Err() != nil {
			logger.Warn("Cleanup cancelled", "cleaned", filesCleaned)
			return filesCleaned
		}

		matches, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil {
			logger.Warn("Bad cleanup pattern", "pattern", pattern, "error", err)
			continue
		}

		for _, path := range matches {
			if ctx.Err() != nil {
				logger.Warn("Cleanup cancelled", "cleaned", filesCleaned)
				return filesCleaned
			}
			if err := os.RemoveAll(path); err != nil {
				logger.Warn("Failed to remove temp entry", "path", path, "error", err)
				continue
			}
			filesCleaned++
		}
	}

	if filesCleaned > 0 {
		logger.Info("Temp files cleanup completed", "dir", dir, "cleaned", filesCleaned)
	}
	return filesCleaned
}

// DeleteDirectory removes directory and logs errors
func DeleteDirectory(path string) error {
	if err := os.RemoveAll(path); err != nil {
		logger.Warn("Failed to delete directory", "path", path, "error", err)
		return err
	}
	return nil
}
