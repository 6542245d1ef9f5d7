package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/devforge/devforge/cmd"

	"github.com/common-nighthawk/go-figure"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "devforge",
	Short: "devforge - encrypted project secrets and a commit-time leak scanner.",
	Long: `devforge keeps a project's secrets encrypted in the repository, writes
them to a runtime env file, syncs them to GitHub Actions, and scans commits
so credentials never land in history.

Usage:
  devforge <command> [flags]

Available Commands:
  secrets    Manage the encrypted secrets store
  scan       Scan files for secrets
  hook       Install the git pre-commit hook

Run 'devforge help <command>' for more details on a specific command.
`,
	SilenceUsage:  true,
	SilenceErrors: true,
	Run: func(cmd *cobra.Command, args []string) {
		banner := figure.NewColorFigure("devforge", "small", "green", true)
		banner.Print()
		fmt.Println()
		fmt.Println("Run 'devforge --help' to see available commands.")
	},
}

func init() {
	rootCmd.AddCommand(cmd.SecretsCmd)
	rootCmd.AddCommand(cmd.ScanCmd)
	rootCmd.AddCommand(cmd.HookCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		var exitErr *cmd.ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.Code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
