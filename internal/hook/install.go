package hook

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-git/v5"
)

// hookMarker identifies pre-commit hooks written by Install.
const hookMarker = "# devforge pre-commit hook"

// Script returns the pre-commit hook body that runs binary against the
// staged content.
func Script(binary string) []byte {
	var b bytes.Buffer
	b.WriteString("#!/bin/sh\n")
	b.WriteString(hookMarker + "\n")
	fmt.Fprintf(&b, "exec %s scan --staged \"$(git rev-parse --show-toplevel)\"\n", shellQuote(binary))
	return b.Bytes()
}

// shellQuote single-quotes s for sh, so no expansion happens inside it.
func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

// Install writes the pre-commit hook into the repository containing dir
// and returns its path. An existing hook written by something else is only
// replaced when force is set.
func Install(dir, binary string, force bool) (string, error) {
	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return "", fmt.Errorf("failed to open git repository at %s: %w", dir, err)
	}
	wt, err := repo.Worktree()
	if err != nil {
		return "", fmt.Errorf("failed to open worktree: %w", err)
	}

	hooksDir := filepath.Join(wt.Filesystem.Root(), ".git", "hooks")
	hookPath := filepath.Join(hooksDir, "pre-commit")

	existing, err := os.ReadFile(hookPath)
	switch {
	case err == nil:
		if !force && !bytes.Contains(existing, []byte(hookMarker)) {
			return "", fmt.Errorf("%s already exists; use --force to replace it", hookPath)
		}
	case !errors.Is(err, os.ErrNotExist):
		return "", fmt.Errorf("failed to read %s: %w", hookPath, err)
	}

	if err := os.MkdirAll(hooksDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create %s: %w", hooksDir, err)
	}
	if err := os.WriteFile(hookPath, Script(binary), 0755); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", hookPath, err)
	}
	// WriteFile keeps the mode of an existing file.
	if err := os.Chmod(hookPath, 0755); err != nil {
		return "", fmt.Errorf("failed to make %s executable: %w", hookPath, err)
	}

	return hookPath, nil
}
