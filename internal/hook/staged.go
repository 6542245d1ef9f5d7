package hook

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	derrors "github.com/devforge/devforge/internal/errors"
	"github.com/devforge/devforge/internal/scanner"

	"github.com/go-git/go-git/v5"
)

// walkStaged sends the index version of every added, modified, renamed or
// copied file, so the scan sees exactly what the commit will contain.
func walkStaged(ctx context.Context, root string, opts Options, out chan<- scanner.File, warn func(scanner.Warning)) error {
	repo, err := git.PlainOpenWithOptions(root, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return fmt.Errorf("failed to open git repository at %s: %w", root, err)
	}

	wt, err := repo.Worktree()
	if err != nil {
		return fmt.Errorf("failed to open worktree: %w", err)
	}
	status, err := wt.Status()
	if err != nil {
		return fmt.Errorf("failed to read git status: %w", err)
	}
	idx, err := repo.Storer.Index()
	if err != nil {
		return fmt.Errorf("failed to read git index: %w", err)
	}

	// Index paths are relative to the worktree top, which may sit above root.
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return err
	}
	prefix, err := filepath.Rel(wt.Filesystem.Root(), absRoot)
	if err != nil {
		return err
	}
	prefix = filepath.ToSlash(prefix)

	for _, entry := range idx.Entries {
		if err := ctx.Err(); err != nil {
			return err
		}

		fileStatus, ok := status[entry.Name]
		if !ok || !isStagedChange(fileStatus.Staging) {
			continue
		}
		if !isUnder(entry.Name, prefix) || opts.excluded(entry.Name) {
			continue
		}

		blob, err := repo.BlobObject(entry.Hash)
		if err != nil {
			warn(scanner.Warning{Path: entry.Name, Err: fmt.Errorf("%w: %v", derrors.ErrScanIO, err)})
			continue
		}
		if opts.MaxFileBytes > 0 && blob.Size > opts.MaxFileBytes {
			warn(scanner.Warning{Path: entry.Name, Err: fmt.Errorf("%w: larger than %d bytes", derrors.ErrScanIO, opts.MaxFileBytes)})
			continue
		}

		content, err := readBlob(blob.Reader)
		if err != nil {
			warn(scanner.Warning{Path: entry.Name, Err: fmt.Errorf("%w: %v", derrors.ErrScanIO, err)})
			continue
		}

		if err := send(ctx, out, scanner.File{Path: entry.Name, Content: content}); err != nil {
			return err
		}
	}

	return nil
}

func isStagedChange(code git.StatusCode) bool {
	switch code {
	case git.Added, git.Modified, git.Renamed, git.Copied:
		return true
	}
	return false
}

func readBlob(open func() (io.ReadCloser, error)) ([]byte, error) {
	r, err := open()
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return io.ReadAll(r)
}
