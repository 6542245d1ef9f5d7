package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	logger "github.com/devforge/devforge/internal/logging"
	"github.com/devforge/devforge/internal/scanner"
	"github.com/devforge/devforge/internal/ui"
	"github.com/devforge/devforge/internal/workflows"

	"github.com/spf13/cobra"
)

// Scan exit codes. The pre-commit hook blocks on anything nonzero.
const (
	ScanExitClean    = 0
	ScanExitFindings = 1
	ScanExitError    = 2
)

var (
	scanVerbose bool
	scanDebug   bool
	scanStaged  bool
	scanJSON    bool
	ScanLogger  logger.Logger
)

func init() {
	ScanCmd.Flags().BoolVarP(&scanVerbose, "verbose", "v", false, "enable verbose output")
	ScanCmd.Flags().BoolVarP(&scanDebug, "debug", "d", false, "enable debug output")
	ScanCmd.Flags().BoolVar(&scanStaged, "staged", false, "scan the git index instead of the working tree")
	ScanCmd.Flags().BoolVar(&scanJSON, "json", false, "output the report as JSON")
}

func resetScanCommandState() {
	scanVerbose = false
	scanDebug = false
	scanStaged = false
	scanJSON = false
}

// ScanCmd is the leak scanner invoked by the pre-commit hook.
var ScanCmd = &cobra.Command{
	Use:   "scan [root]",
	Short: "Scan files for secrets before they are committed",
	Long: `Scans a directory tree, or with --staged the content about to be
committed, for credentials: cloud keys, tokens, private keys, connection
strings with passwords, and long high-entropy strings.

Exit status is 0 when nothing is found, 1 when anything is found and 2 when
the scan itself failed. Reported snippets are always masked.

Tune the scan with .devforge-scan.yaml in the root, and silence a single
line with a devforge:allow comment.`,
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	PreRun: func(cmd *cobra.Command, args []string) {
		ScanLogger = logger.Logger{
			Verbose: scanVerbose,
			Debug:   scanDebug,
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		root := "."
		if len(args) == 1 {
			root = args[0]
		}
		root, err := filepath.Abs(root)
		if err != nil {
			return scanFailed(err)
		}
		if info, err := os.Stat(root); err != nil || !info.IsDir() {
			return scanFailed(fmt.Errorf("%s is not a directory", root))
		}
		ScanLogger.Infof("Scanning %s", root)

		ctx, cancel := commandContext()
		defer cancel()

		report, err := workflows.Scan(ctx, root, workflows.ScanOptions{Staged: scanStaged}, ScanLogger)
		if err != nil {
			return scanFailed(err)
		}

		out := cmd.OutOrStdout()
		if scanJSON {
			if err := scanner.WriteJSON(out, report); err != nil {
				return scanFailed(err)
			}
		} else {
			scanner.WriteText(out, report)
		}

		if report.Failed() {
			return &ExitError{Code: ScanExitFindings, Err: fmt.Errorf("%d potential secrets found", len(report.Findings))}
		}
		return nil
	},
}

func scanFailed(err error) error {
	fmt.Fprintln(os.Stderr, ui.FailureLine("Scan failed: "+err.Error()))
	return &ExitError{Code: ScanExitError, Err: err}
}
