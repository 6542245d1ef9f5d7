package cmd

import (
	"fmt"

	"github.com/devforge/devforge/internal/ui"
	"github.com/devforge/devforge/internal/workflows"
	"github.com/spf13/cobra"
)

var removeCmd = &cobra.Command{
	Use:     "remove <name>",
	Aliases: []string{"rm"},
	Short:   "Delete a secret",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting remove command")
		name := args[0]

		env, err := openEnv()
		if err != nil {
			return Logger.ErrorfAndReturn("failed to load configuration: %v", err)
		}

		ctx, cancel := commandContext()
		defer cancel()

		if err := workflows.Remove(ctx, env, name); err != nil {
			Logger.Errorf("Remove failed for %s: %v", name, err)
			fmt.Println(formatError(err))
			return reported(err)
		}

		fmt.Println(ui.SuccessLine("Removed " + ui.Name.Sprint(name)))
		return nil
	},
}
