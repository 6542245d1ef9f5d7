package workflows

import (
	"context"
	"errors"

	"github.com/devforge/devforge/internal/audit"
	"github.com/devforge/devforge/internal/github"
)

// SyncOptions configures the sync workflow.
type SyncOptions struct {
	// Repo is owner/repo or a remote URL. When empty the configured repo is
	// used, then the origin remote of the project.
	Repo string

	// Exclude lists names that are not uploaded.
	Exclude []string

	// DryRun lists what would be uploaded without contacting GitHub.
	DryRun bool
}

// ResolveRepo picks the target repository for sync.
func ResolveRepo(env *Env, explicit string) (github.Repo, error) {
	switch {
	case explicit != "":
		return github.ParseRepo(explicit)
	case env.Config.GitHub.Repo != "":
		return github.ParseRepo(env.Config.GitHub.Repo)
	default:
		return github.DetectRepo(env.Config.ProjectPath)
	}
}

// Sync uploads the store to the repository's Actions secrets.
//
// The report is returned together with a *github.PartialSyncError when
// some uploads failed.
// Returns ErrAuth if the bootstrap secret is missing or rejected.
// Returns ErrNetwork if GitHub stays unreachable after retries.
func Sync(ctx context.Context, env *Env, opts SyncOptions) (*github.SyncReport, error) {
	repo, err := ResolveRepo(env, opts.Repo)
	if err != nil {
		return nil, err
	}

	syncer := github.NewSyncer(env.Store, env.Config, env.Log)
	report, err := syncer.Sync(ctx, repo, github.SyncOptions{Exclude: opts.Exclude, DryRun: opts.DryRun})

	var partial *github.PartialSyncError
	if report != nil && !report.DryRun && (err == nil || errors.As(err, &partial)) {
		entry := audit.NewEntry("sync")
		entry.Repo = repo.String()
		entry.Names = report.Uploaded
		entry.Count = len(report.Uploaded)
		for _, f := range report.Failed {
			entry.Failed = append(entry.Failed, f.Name)
		}
		env.record(entry)
	}

	return report, err
}
