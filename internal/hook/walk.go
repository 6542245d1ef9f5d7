package hook

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	derrors "github.com/devforge/devforge/internal/errors"
	"github.com/devforge/devforge/internal/scanner"

	"github.com/bmatcuk/doublestar/v4"
)

// DefaultExcludes are never scanned. Patterns without a slash match the
// base name of a file or directory at any depth.
var DefaultExcludes = []string{
	".git", ".svn", ".hg",
	"node_modules", "__pycache__",
	"*.pyc", "*.pyo", "*.pyd",
	"*.log", "*.tmp", "*.swp", "*.swo",
	".secrets.devforge", ".secrets.devforge.lock", ".env.secrets",
	// lockfiles carry integrity hashes
	"go.sum", "*.lock", "package-lock.json", "pnpm-lock.yaml",
}

// Options controls which files reach the scanner.
type Options struct {
	// Exclude holds extra doublestar globs, matched against the slash
	// separated path relative to the root and against the base name.
	Exclude []string

	// MaxFileBytes skips larger files with a warning. Zero disables the limit.
	MaxFileBytes int64

	// Staged scans the git index instead of the working tree.
	Staged bool
}

func (o Options) excluded(rel string) bool {
	base := filepath.Base(rel)
	for _, pattern := range DefaultExcludes {
		if ok, _ := doublestar.Match(pattern, base); ok {
			return true
		}
	}
	for _, pattern := range o.Exclude {
		if ok, _ := doublestar.Match(pattern, rel); ok {
			return true
		}
		if ok, _ := doublestar.Match(pattern, base); ok {
			return true
		}
	}
	return false
}

// Walk sends every eligible file under root to out. Unreadable and
// oversized files are reported through warn and skipped. Walk does not
// close out.
func Walk(ctx context.Context, root string, opts Options, out chan<- scanner.File, warn func(scanner.Warning)) error {
	if opts.Staged {
		return walkStaged(ctx, root, opts, out, warn)
	}

	return filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		rel, relErr := filepath.Rel(root, p)
		if relErr != nil {
			rel = p
		}
		rel = filepath.ToSlash(rel)

		if err != nil {
			warn(scanner.Warning{Path: rel, Err: fmt.Errorf("%w: %v", derrors.ErrScanIO, err)})
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if d.IsDir() {
			if p != root && opts.excluded(rel) {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() || opts.excluded(rel) {
			return nil
		}

		if opts.MaxFileBytes > 0 {
			if info, err := d.Info(); err == nil && info.Size() > opts.MaxFileBytes {
				warn(scanner.Warning{Path: rel, Err: fmt.Errorf("%w: larger than %d bytes", derrors.ErrScanIO, opts.MaxFileBytes)})
				return nil
			}
		}

		content, err := os.ReadFile(p)
		if err != nil {
			warn(scanner.Warning{Path: rel, Err: fmt.Errorf("%w: %v", derrors.ErrScanIO, err)})
			return nil
		}

		return send(ctx, out, scanner.File{Path: rel, Content: content})
	})
}

func send(ctx context.Context, out chan<- scanner.File, f scanner.File) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case out <- f:
		return nil
	}
}

// isUnder reports whether the slash path rel lies inside prefix.
func isUnder(rel, prefix string) bool {
	if prefix == "" || prefix == "." {
		return true
	}
	return rel == prefix || strings.HasPrefix(rel, prefix+"/")
}
