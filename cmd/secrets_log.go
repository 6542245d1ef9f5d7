package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/devforge/devforge/internal/audit"
	"github.com/devforge/devforge/internal/ui"
	"github.com/devforge/devforge/internal/workflows"
	"github.com/spf13/cobra"
)

var (
	logLimit     int
	logOperation string
	logJSON      bool
)

func init() {
	logCmd.Flags().IntVarP(&logLimit, "number", "n", 0, "limit number of entries shown")
	logCmd.Flags().StringVar(&logOperation, "operation", "", "filter by operation (init, set, get, remove, inject, sync)")
	logCmd.Flags().BoolVar(&logJSON, "json", false, "output as JSON array")
}

// resetLogCommandState resets the log command's global state for testing.
func resetLogCommandState() {
	logLimit = 0
	logOperation = ""
	logJSON = false
}

var logCmd = &cobra.Command{
	Use:   "log",
	Short: "View the audit log",
	Long: `Displays the audit log of store operations, oldest first.

Entries record who did what and when, by secret name. Values are never
logged.

Examples:
  devforge secrets log                  # View full log
  devforge secrets log -n 10            # Last 10 entries
  devforge secrets log --operation sync # Only syncs
  devforge secrets log --json           # JSON output`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting log command")

		env, err := openEnv()
		if err != nil {
			return Logger.ErrorfAndReturn("failed to load configuration: %v", err)
		}

		entries, err := workflows.Log(context.Background(), env, workflows.LogOptions{
			Operation: logOperation,
			Limit:     logLimit,
		})
		if err != nil {
			return Logger.ErrorfAndReturn("failed to read audit log: %v", err)
		}
		Logger.Debugf("Read %d entries from %s", len(entries), env.Audit.Path())

		if logJSON {
			return outputLogJSON(entries)
		}

		if len(entries) == 0 {
			fmt.Println("No audit log entries found.")
			return nil
		}
		for _, e := range entries {
			fmt.Println(formatLogEntry(e))
		}
		return nil
	},
}

func outputLogJSON(entries []audit.Entry) error {
	if entries == nil {
		entries = []audit.Entry{}
	}
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	fmt.Println(string(data))
	return nil
}

func formatLogEntry(e audit.Entry) string {
	ts := e.Timestamp
	if len(ts) >= 19 {
		ts = strings.Replace(ts[:19], "T", " ", 1)
	}
	return fmt.Sprintf("%s  %-10s %-7s %s", ui.Muted.Sprint(ts), e.User, e.Operation, formatLogDetails(e))
}

func formatLogDetails(e audit.Entry) string {
	switch e.Operation {
	case "init":
		return "store " + e.StoreID
	case "inject":
		return fmt.Sprintf("%d secret(s) to %s", e.Count, e.Target)
	case "sync":
		details := fmt.Sprintf("%d secret(s) to %s", e.Count, e.Repo)
		if len(e.Failed) > 0 {
			details += ", failed: " + strings.Join(e.Failed, ", ")
		}
		return details
	default:
		return strings.Join(e.Names, ", ")
	}
}
