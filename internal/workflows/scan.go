package workflows

import (
	"context"

	"github.com/devforge/devforge/internal/configs"
	"github.com/devforge/devforge/internal/hook"
	logger "github.com/devforge/devforge/internal/logging"
	"github.com/devforge/devforge/internal/scanner"
)

// ScanOptions configures the scan workflow.
type ScanOptions struct {
	// Staged scans the git index instead of the working tree.
	Staged bool
}

// Scan runs the leak scanner over root using root's .devforge-scan.yaml.
// It needs no store or key.
func Scan(ctx context.Context, root string, opts ScanOptions, log logger.Logger) (*scanner.Report, error) {
	cfg, err := configs.LoadScanConfig(root)
	if err != nil {
		return nil, err
	}

	sc, err := scanner.New(cfg, log)
	if err != nil {
		return nil, err
	}

	log.Debugf("Scanning %s (staged: %t)", root, opts.Staged)
	return hook.Run(ctx, root, hook.Options{
		Exclude:      cfg.Exclude,
		MaxFileBytes: cfg.MaxFileBytes,
		Staged:       opts.Staged,
	}, sc)
}
