package workflows

import (
	"context"

	"github.com/devforge/devforge/internal/audit"
)

// LogOptions configures the log workflow.
type LogOptions struct {
	// Operation filters entries by operation name.
	Operation string

	// Limit keeps only the most recent entries. 0 means no limit.
	Limit int
}

// Log reads and filters the audit log, oldest first.
func Log(ctx context.Context, env *Env, opts LogOptions) ([]audit.Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	entries, err := env.Audit.ReadEntries()
	if err != nil {
		return nil, err
	}
	return audit.Filter(entries, opts.Operation, opts.Limit), nil
}
