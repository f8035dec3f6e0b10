package storage

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
)

const appName = "chessmania"

// DefaultDataDir is the platform data directory for the application,
// e.g. ~/.local/share/chessmania on Linux.
func DefaultDataDir() string {
	return filepath.Join(xdg.DataHome, appName)
}

// DatabaseDir returns the archive directory under dataDir, creating it if
// needed.
func DatabaseDir(dataDir string) (string, error) {
	dbDir := filepath.Join(dataDir, "archive")
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		return "", err
	}
	return dbDir, nil
}
