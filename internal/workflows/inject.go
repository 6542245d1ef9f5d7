package workflows

import (
	"context"
	"path/filepath"

	"github.com/devforge/devforge/internal/audit"
	"github.com/devforge/devforge/internal/secrets"
)

// InjectOptions configures the inject workflow.
type InjectOptions struct {
	// Target overrides the configured env file. Relative paths resolve
	// against the project root.
	Target string
}

// InjectResult contains the outcome of an inject operation.
type InjectResult struct {
	// Path is the env file that was written.
	Path string

	// Count is the number of secrets written.
	Count int
}

// Inject writes every secret to the env file. Nothing is written if any
// entry fails to decrypt.
func Inject(ctx context.Context, env *Env, opts InjectOptions) (*InjectResult, error) {
	target := env.Config.EnvPath
	if opts.Target != "" {
		target = opts.Target
		if !filepath.IsAbs(target) {
			target = filepath.Join(env.Config.ProjectPath, target)
		}
	}

	count, err := secrets.NewInjector(env.Store, env.Log).Inject(ctx, target)
	if err != nil {
		return nil, err
	}

	entry := audit.NewEntry("inject")
	entry.Count = count
	entry.Target = target
	env.record(entry)

	return &InjectResult{Path: target, Count: count}, nil
}
