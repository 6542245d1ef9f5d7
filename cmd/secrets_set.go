package cmd

import (
	"errors"
	"fmt"

	"github.com/devforge/devforge/internal/secrets"
	"github.com/devforge/devforge/internal/ui"
	"github.com/devforge/devforge/internal/utils"
	"github.com/devforge/devforge/internal/workflows"
	"github.com/spf13/cobra"
)

var setFromStdin bool

func init() {
	setCmd.Flags().BoolVar(&setFromStdin, "stdin", false, "read the value from standard input")
}

func resetSetCommandState() {
	setFromStdin = false
}

var setCmd = &cobra.Command{
	Use:   "set <name> [value]",
	Short: "Store a secret",
	Long: `Encrypts a value and stores it under name, replacing any previous value.

When value is omitted it is read from a hidden prompt, so it never appears
in shell history or the process list. Use --stdin to pipe it in.

Examples:
  devforge secrets set API_KEY
  vault read -field=token secret/ci | devforge secrets set CI_TOKEN --stdin`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting set command")
		name := args[0]

		if err := secrets.ValidateName(name); err != nil {
			fmt.Println(formatError(err))
			return reported(err)
		}

		value, err := readValue(name, args)
		if err != nil {
			fmt.Println(ui.FailureLine(err.Error()))
			return reported(err)
		}

		env, err := openEnv()
		if err != nil {
			return Logger.ErrorfAndReturn("failed to load configuration: %v", err)
		}

		ctx, cancel := commandContext()
		defer cancel()

		if err := workflows.Set(ctx, env, name, value); err != nil {
			Logger.Errorf("Set failed for %s: %v", name, err)
			fmt.Println(formatError(err))
			return reported(err)
		}

		fmt.Println(ui.SuccessLine("Stored " + ui.Name.Sprint(name)))
		return nil
	},
}

// readValue takes the value from the argument, stdin or a hidden prompt, in
// that order.
func readValue(name string, args []string) ([]byte, error) {
	switch {
	case len(args) == 2:
		if setFromStdin {
			return nil, errors.New("pass the value as an argument or with --stdin, not both")
		}
		Logger.Warnf("Values passed as arguments may be kept in shell history")
		return []byte(args[1]), nil
	case setFromStdin:
		return utils.ReadStdin()
	case utils.IsTerminal():
		return utils.ReadSecretValue(fmt.Sprintf("Value for %s: ", name))
	default:
		return utils.ReadStdin()
	}
}
