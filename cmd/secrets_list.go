package cmd

import (
	"context"
	"fmt"

	"github.com/devforge/devforge/internal/ui"
	"github.com/devforge/devforge/internal/workflows"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List secret names",
	Long:  `Lists the names in the store in the order they were added. Nothing is decrypted.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting list command")

		env, err := openEnv()
		if err != nil {
			return Logger.ErrorfAndReturn("failed to load configuration: %v", err)
		}

		names, err := workflows.List(context.Background(), env)
		if err != nil {
			fmt.Println(formatError(err))
			return reported(err)
		}

		if len(names) == 0 {
			fmt.Println(ui.Muted.Sprint("no secrets"))
			return nil
		}
		for _, name := range names {
			fmt.Println(name)
		}
		return nil
	},
}
