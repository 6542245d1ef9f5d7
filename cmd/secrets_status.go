package cmd

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/devforge/devforge/internal/ui"
	"github.com/devforge/devforge/internal/workflows"

	"github.com/spf13/cobra"
)

var statusJSONOutput bool

func init() {
	statusCmd.Flags().BoolVar(&statusJSONOutput, "json", false, "output in JSON format")
}

func resetStatusCommandState() {
	statusJSONOutput = false
}

// statusOutput is the --json shape of the status command.
type statusOutput struct {
	Project     string `json:"project"`
	Store       string `json:"store"`
	Initialized bool   `json:"initialized"`
	StoreID     string `json:"store_id,omitempty"`
	Secrets     int    `json:"secrets"`
	KeyBackend  string `json:"key_backend,omitempty"`
	KeyError    string `json:"key_error,omitempty"`
	EnvFile     string `json:"env_file"`
	EnvWritten  bool   `json:"env_written"`
	Repo        string `json:"repo,omitempty"`
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the state of the store, key and env file",
	Long: `Shows where the store lives, how many secrets it holds, which backend
serves the key, and whether the env file has been written. Nothing is
decrypted.

Use --json for machine-readable output.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting status command")

		env, err := openEnv()
		if err != nil {
			return Logger.ErrorfAndReturn("failed to load configuration: %v", err)
		}

		result, err := workflows.Status(context.Background(), env)
		if err != nil {
			fmt.Println(formatError(err))
			return reported(err)
		}

		if statusJSONOutput {
			return outputStatusJSON(result)
		}

		printStatus(result)
		return nil
	},
}

func outputStatusJSON(result *workflows.StatusResult) error {
	out := statusOutput{
		Project:     result.ProjectPath,
		Store:       result.StorePath,
		Initialized: result.Initialized,
		StoreID:     result.StoreID,
		Secrets:     result.Count,
		KeyBackend:  result.KeyBackend,
		EnvFile:     result.EnvPath,
		EnvWritten:  result.EnvFileExists,
		Repo:        result.Repo,
	}
	if result.KeyErr != nil {
		out.KeyError = result.KeyErr.Error()
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	fmt.Println(string(data))
	return nil
}

func printStatus(result *workflows.StatusResult) {
	fmt.Printf("Project: %s\n", ui.Path.Sprint(result.ProjectPath))
	fmt.Println()

	if !result.Initialized {
		fmt.Println(ui.FailureLine("No secrets store found"))
		fmt.Println(ui.HintLine("Run " + ui.Code.Sprint("devforge secrets init") + " first"))
		return
	}

	fmt.Println(ui.SuccessLine(fmt.Sprintf("Store %s holds %d secret(s)", ui.Path.Sprint(result.StorePath), result.Count)))
	fmt.Printf("  Store ID: %s\n", result.StoreID)

	if result.KeyErr != nil {
		fmt.Println(ui.FailureLine("Key unavailable: " + result.KeyErr.Error()))
	} else {
		fmt.Println(ui.SuccessLine("Key served by " + result.KeyBackend))
	}

	if result.EnvFileExists {
		fmt.Println(ui.SuccessLine("Env file " + ui.Path.Sprint(result.EnvPath) + " written"))
	} else {
		fmt.Println(ui.HintLine("Env file not written yet; run " + ui.Code.Sprint("devforge secrets inject")))
	}

	if result.Repo != "" {
		fmt.Printf("  Sync target: %s\n", result.Repo)
	}
}
