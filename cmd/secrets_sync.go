package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/devforge/devforge/internal/github"
	"github.com/devforge/devforge/internal/ui"
	"github.com/devforge/devforge/internal/utils"
	"github.com/devforge/devforge/internal/workflows"

	"github.com/spf13/cobra"
)

var (
	syncRepo    string
	syncExclude []string
	syncDryRun  bool
)

func init() {
	syncCmd.Flags().StringVar(&syncRepo, "repo", "", "target repository as owner/repo (default: origin remote)")
	syncCmd.Flags().StringSliceVar(&syncExclude, "exclude", nil, "secret names not to upload (repeatable)")
	syncCmd.Flags().BoolVar(&syncDryRun, "dry-run", false, "list what would be uploaded without contacting GitHub")
}

func resetSyncCommandState() {
	syncRepo = ""
	syncExclude = nil
	syncDryRun = false
}

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Upload secrets to GitHub Actions",
	Long: `Uploads every secret as a GitHub Actions repository secret, sealed with
the repository's public key.

The GITHUB_TOKEN entry of the store authenticates the upload and is never
uploaded itself. A failure for one secret does not stop the others; the
command exits nonzero and lists the failed names.

Examples:
  devforge secrets sync
  devforge secrets sync --repo acme/api --exclude LOCAL_ONLY
  devforge secrets sync --dry-run`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting sync command")
		spinner, cleanup := startSpinner("Syncing secrets to GitHub...", verbose)
		defer cleanup()

		env, err := openEnv()
		if err != nil {
			return Logger.ErrorfAndReturn("failed to load configuration: %v", err)
		}

		ctx, cancel := commandContext()
		defer cancel()

		report, err := workflows.Sync(ctx, env, workflows.SyncOptions{
			Repo:    syncRepo,
			Exclude: syncExclude,
			DryRun:  syncDryRun,
		})

		var partial *github.PartialSyncError
		if err != nil && !errors.As(err, &partial) {
			Logger.Errorf("Sync failed: %v", err)
			spinner.FinalMSG = formatError(err)
			return reported(err)
		}

		if report.DryRun {
			spinner.FinalMSG = formatSyncDryRun(report)
			return nil
		}

		msg := ui.SuccessLine(fmt.Sprintf("Uploaded %d secret(s) to %s", len(report.Uploaded), report.Repo))
		if len(report.Excluded) > 0 {
			msg += "\n  Excluded: " + utils.FormatNames(report.Excluded)
		}
		if partial != nil {
			msg += "\n" + formatError(partial)
			spinner.FinalMSG = msg
			return reported(err)
		}
		spinner.FinalMSG = msg
		return nil
	},
}

func formatSyncDryRun(report *github.SyncReport) string {
	var b strings.Builder
	b.WriteString(ui.Warning.Sprint("[dry-run]") + " Would upload to " + report.Repo.String() + ":\n")
	if len(report.Planned) == 0 {
		b.WriteString("  Nothing to upload.\n")
	}
	for _, name := range report.Planned {
		b.WriteString("  + " + name + "\n")
	}
	for _, name := range report.Excluded {
		b.WriteString("  " + ui.Muted.Sprintf("skip %s", name) + "\n")
	}
	b.WriteString(ui.Info.Sprint("No changes made."))
	return b.String()
}
