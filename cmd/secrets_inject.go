package cmd

import (
	"fmt"

	"github.com/devforge/devforge/internal/ui"
	"github.com/devforge/devforge/internal/workflows"
	"github.com/spf13/cobra"
)

var injectCmd = &cobra.Command{
	Use:   "inject [path]",
	Short: "Write all secrets to the runtime env file",
	Long: `Decrypts every secret and writes NAME="value" lines to the env file
(.env.secrets by default), readable only by you.

The file is replaced atomically, and nothing is written if any secret fails
to decrypt. Keep it out of version control.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting inject command")
		spinner, cleanup := startSpinner("Decrypting secrets...", verbose)
		defer cleanup()

		env, err := openEnv()
		if err != nil {
			return Logger.ErrorfAndReturn("failed to load configuration: %v", err)
		}

		opts := workflows.InjectOptions{}
		if len(args) == 1 {
			opts.Target = args[0]
		}

		ctx, cancel := commandContext()
		defer cancel()

		result, err := workflows.Inject(ctx, env, opts)
		if err != nil {
			Logger.Errorf("Inject failed: %v", err)
			spinner.FinalMSG = formatError(err)
			return reported(err)
		}

		spinner.FinalMSG = ui.SuccessLine(fmt.Sprintf("Wrote %d secret(s) to %s", result.Count, ui.Path.Sprint(result.Path)))
		return nil
	},
}
