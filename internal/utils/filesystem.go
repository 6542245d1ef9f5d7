package utils

import (
	"fmt"
	"os"
	"path/filepath"
)

// projectMarkers identify a project root, checked in order at each level.
var projectMarkers = []string{".secrets.devforge", "devforge.toml", ".git"}

// FindProjectRoot walks up from start looking for a directory containing one
// of the project markers. When none is found, start itself is returned.
func FindProjectRoot(start string) (string, error) {
	abs, err := filepath.Abs(start)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s: %w", start, err)
	}

	currentDir := abs
	for {
		for _, marker := range projectMarkers {
			_, err := os.Stat(filepath.Join(currentDir, marker))
			if err == nil {
				return currentDir, nil
			}
			if !os.IsNotExist(err) {
				return "", fmt.Errorf("error checking for %s at %s: %w", marker, currentDir, err)
			}
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			return abs, nil
		}
		currentDir = parentDir
	}
}

// FindProjectRootFromCwd is FindProjectRoot starting at the working directory.
func FindProjectRootFromCwd() (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get working directory: %w", err)
	}
	return FindProjectRoot(cwd)
}
