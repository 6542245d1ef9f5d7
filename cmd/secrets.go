package cmd

import (
	logger "github.com/devforge/devforge/internal/logging"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var (
	verbose bool
	debug   bool
	Logger  logger.Logger

	SecretsCmd = &cobra.Command{
		Use:   "secrets",
		Short: "Manage the project's encrypted secrets store",
		Long: `Stores secrets encrypted in the repository, writes them to a runtime env
file, and syncs them to GitHub Actions.

Values never appear in logs, errors or the audit log. Only names do.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			Logger = logger.Logger{
				Verbose: verbose,
				Debug:   debug,
			}
			Logger.Debugf("Initializing secrets command with verbose=%t, debug=%t", verbose, debug)
		},
	}
)

func init() {
	SecretsCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	SecretsCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "enable debug output")

	SecretsCmd.AddCommand(initCmd)
	SecretsCmd.AddCommand(setCmd)
	SecretsCmd.AddCommand(getCmd)
	SecretsCmd.AddCommand(listCmd)
	SecretsCmd.AddCommand(removeCmd)
	SecretsCmd.AddCommand(injectCmd)
	SecretsCmd.AddCommand(syncCmd)
	SecretsCmd.AddCommand(statusCmd)
	SecretsCmd.AddCommand(logCmd)
}

// ResetGlobalState resets all global variables to their default values for testing.
func ResetGlobalState() {
	verbose = false
	debug = false
	resetInitCommandState()
	resetSetCommandState()
	resetSyncCommandState()
	resetStatusCommandState()
	resetLogCommandState()
	resetScanCommandState()
	resetHookCommandState()
	resetCobraFlagState(SecretsCmd)
	resetCobraFlagState(ScanCmd)
	resetCobraFlagState(HookCmd)
}

// resetCobraFlagState clears Changed on every flag below c to prevent test pollution.
func resetCobraFlagState(c *cobra.Command) {
	c.Flags().VisitAll(func(flag *pflag.Flag) {
		flag.Changed = false
	})
	for _, sub := range c.Commands() {
		resetCobraFlagState(sub)
	}
}
