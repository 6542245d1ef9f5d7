package cmd

import (
	"fmt"
	"os"

	"github.com/devforge/devforge/internal/utils"
	"github.com/devforge/devforge/internal/workflows"
	"github.com/spf13/cobra"
)

var getCmd = &cobra.Command{
	Use:   "get <name>",
	Short: "Print a secret's value",
	Long: `Decrypts one secret and writes its value to standard output.

A trailing newline is added only when output goes to a terminal, so
$(devforge secrets get NAME) yields the exact value.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting get command")
		name := args[0]

		env, err := openEnv()
		if err != nil {
			return Logger.ErrorfAndReturn("failed to load configuration: %v", err)
		}

		ctx, cancel := commandContext()
		defer cancel()

		value, err := workflows.Get(ctx, env, name)
		if err != nil {
			Logger.Errorf("Get failed for %s: %v", name, err)
			fmt.Fprintln(os.Stderr, formatError(err))
			return reported(err)
		}

		if _, err := os.Stdout.Write(value); err != nil {
			return err
		}
		if utils.IsStdoutTerminal() {
			fmt.Println()
		}
		return nil
	},
}
