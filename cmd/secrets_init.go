package cmd

import (
	"fmt"

	"github.com/devforge/devforge/internal/ui"
	"github.com/devforge/devforge/internal/workflows"
	"github.com/spf13/cobra"
)

var initForce bool

func init() {
	initCmd.Flags().BoolVar(&initForce, "force", false, "replace an existing store, discarding its secrets")
}

func resetInitCommandState() {
	initForce = false
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the encrypted secrets store",
	Long: `Creates an empty secrets store in the project root and generates the
encryption key if none exists yet.

The key is kept in the platform secure store (Keychain, Credential Manager,
Secret Service or KWallet). When none is usable it falls back to a file
readable only by you, outside the project.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting init command")
		spinner, cleanup := startSpinner("Initializing secrets store...", verbose)
		defer cleanup()

		env, err := openEnv()
		if err != nil {
			return Logger.ErrorfAndReturn("failed to load configuration: %v", err)
		}

		ctx, cancel := commandContext()
		defer cancel()

		result, err := workflows.Init(ctx, env, workflows.InitOptions{Force: initForce})
		if err != nil {
			Logger.Errorf("Init failed: %v", err)
			spinner.FinalMSG = formatError(err)
			return reported(err)
		}

		spinner.FinalMSG = ui.SuccessLine("Secrets store created at "+ui.Path.Sprint(result.StorePath)) + "\n" +
			fmt.Sprintf("  Key backend: %s\n", result.KeyBackend) +
			ui.HintLine("Add secrets with "+ui.Code.Sprint("devforge secrets set NAME"))
		return nil
	},
}
