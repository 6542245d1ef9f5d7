package configs

import (
	"fmt"
	"os"
	"path/filepath"
)

// DataDir returns the per-user data directory for devforge, following
// XDG_DATA_HOME with a ~/.local/share fallback.
func DataDir() (string, error) {
	dataDir := os.Getenv("XDG_DATA_HOME")
	if dataDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("error getting home directory: %w", err)
		}
		dataDir = filepath.Join(homeDir, ".local", "share")
	}
	return filepath.Join(dataDir, "devforge"), nil
}

// DefaultKeyFilePath is where the fallback key file lives when no secure store is usable.
func DefaultKeyFilePath() (string, error) {
	dataDir, err := DataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dataDir, "keys", "master.key"), nil
}
