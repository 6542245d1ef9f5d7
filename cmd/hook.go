package cmd

import (
	"fmt"
	"os"

	"github.com/devforge/devforge/internal/hook"
	"github.com/devforge/devforge/internal/ui"

	"github.com/spf13/cobra"
)

var (
	hookBinary string
	hookForce  bool
)

func init() {
	hookInstallCmd.Flags().StringVar(&hookBinary, "binary", "", "devforge executable the hook runs (default: this executable)")
	hookInstallCmd.Flags().BoolVar(&hookForce, "force", false, "replace an existing pre-commit hook")

	HookCmd.AddCommand(hookInstallCmd)
}

func resetHookCommandState() {
	hookBinary = ""
	hookForce = false
}

// HookCmd groups git hook management.
var HookCmd = &cobra.Command{
	Use:   "hook",
	Short: "Manage the git pre-commit hook",
}

var hookInstallCmd = &cobra.Command{
	Use:   "install [dir]",
	Short: "Install the pre-commit hook that blocks commits containing secrets",
	Long: `Writes .git/hooks/pre-commit so every commit runs
"devforge scan --staged" first. A hook written by another tool is left alone
unless --force is given.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := "."
		if len(args) == 1 {
			dir = args[0]
		}

		binary := hookBinary
		if binary == "" {
			exe, err := os.Executable()
			if err != nil {
				return fmt.Errorf("failed to locate the devforge executable: %w", err)
			}
			binary = exe
		}

		path, err := hook.Install(dir, binary, hookForce)
		if err != nil {
			fmt.Println(ui.FailureLine(err.Error()))
			return reported(err)
		}

		fmt.Println(ui.SuccessLine("Installed pre-commit hook at " + ui.Path.Sprint(path)))
		return nil
	},
}
