package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"time"

	"github.com/devforge/devforge/internal/configs"
	derrors "github.com/devforge/devforge/internal/errors"
	"github.com/devforge/devforge/internal/github"
	"github.com/devforge/devforge/internal/ui"
	"github.com/devforge/devforge/internal/utils"
	"github.com/devforge/devforge/internal/workflows"

	"github.com/briandowns/spinner"
)

// ExitError carries the process exit code for an error that has already
// been reported to the user.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("exit status %d", e.Code)
	}
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error { return e.Err }

// reported wraps err so main exits with status 1 without printing it again.
func reported(err error) error {
	return &ExitError{Code: 1, Err: err}
}

// startSpinner creates and starts a spinner with the given message when not in verbose or debug mode.
// Returns the spinner and a function that should be deferred to clean up.
//
// IMPORTANT: spinner.FinalMSG values do NOT need trailing newlines. The cleanup function
// automatically calls ui.EnsureNewline() on the final message before printing it.
func startSpinner(message string, verbose bool) (*spinner.Spinner, func()) {
	return startSpinnerWithFlags(message, verbose, debug)
}

// startSpinnerWithFlags creates and starts a spinner with explicit verbose and debug flags.
// This is useful for commands that have their own flag variables (e.g. scan).
func startSpinnerWithFlags(message string, verbose, debugFlag bool) (*spinner.Spinner, func()) {
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	s.Suffix = " " + message

	// Ignore color errors - continue without colored spinner if it fails.
	_ = s.Color("cyan")

	quiet := !verbose && !debugFlag && utils.IsStdoutTerminal()
	if quiet {
		s.Start()
		// Ensure log output is discarded unless in verbose mode.
		log.SetOutput(io.Discard)
	}

	cleanup := func() {
		if quiet {
			log.SetOutput(os.Stdout)
		}

		// Ensure final message ends with a newline.
		finalMsg := ""
		if s.FinalMSG != "" {
			finalMsg = ui.EnsureNewline(s.FinalMSG)
			// Clear FinalMSG so s.Stop() doesn't print it.
			s.FinalMSG = ""
		}

		if quiet {
			s.Stop()
		}

		// Print final message to stdout (for tests to capture).
		if finalMsg != "" {
			fmt.Print(finalMsg)
		}
	}

	return s, cleanup
}

// openEnv loads the configuration of the project containing the working
// directory and wires its components.
func openEnv() (*workflows.Env, error) {
	root, err := utils.FindProjectRootFromCwd()
	if err != nil {
		return nil, err
	}
	Logger.Debugf("Project root: %s", root)

	cfg, err := configs.Load(root)
	if err != nil {
		return nil, err
	}
	Logger.Debugf("Store path: %s", cfg.StorePath)

	return workflows.Open(cfg, Logger), nil
}

// commandContext is cancelled on interrupt so network calls and lock waits
// stop promptly. Store writes stay atomic regardless.
func commandContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

// formatError renders err as a failure line and a remediation hint. The
// message names the affected secret, never its value.
func formatError(err error) string {
	name := ""
	var se *derrors.SecretError
	if errors.As(err, &se) {
		name = se.Name
	}

	var partial *github.PartialSyncError

	switch {
	case errors.Is(err, derrors.ErrStoreNotInitialized):
		return ui.FailureLine("No secrets store found") + "\n" +
			ui.HintLine("Run "+ui.Code.Sprint("devforge secrets init")+" first")

	case errors.Is(err, derrors.ErrAlreadyInitialized):
		return ui.FailureLine("A secrets store already exists") + "\n" +
			ui.HintLine("Use "+ui.Flag.Sprint("--force")+" to replace it. Its secrets will be lost.")

	case errors.Is(err, derrors.ErrSecretNotFound):
		return ui.FailureLine("Secret "+ui.Name.Sprint(name)+" not found") + "\n" +
			ui.HintLine("Run "+ui.Code.Sprint("devforge secrets set "+name)+" to add it")

	case errors.Is(err, derrors.ErrDecryptionFailed):
		return ui.FailureLine("Secret "+ui.Name.Sprint(name)+" could not be decrypted with the current key") + "\n" +
			ui.HintLine("Restore the key it was written with, or set the value again")

	case errors.Is(err, derrors.ErrInvalidSecretName):
		return ui.FailureLine(ui.Name.Sprint(name)+" is not a valid secret name") + "\n" +
			ui.HintLine("Names are uppercase letters, digits and underscores, e.g. "+ui.Name.Sprint("API_KEY"))

	case errors.Is(err, derrors.ErrPermissionDenied):
		return ui.FailureLine(err.Error()) + "\n" +
			ui.HintLine("Restrict the key file to its owner with "+ui.Code.Sprint("chmod 600"))

	case errors.Is(err, derrors.ErrKeyUnavailable):
		return ui.FailureLine("Encryption key unavailable: "+err.Error()) + "\n" +
			ui.HintLine("Restore the key, or start over with "+ui.Code.Sprint("devforge secrets init --force"))

	case errors.Is(err, derrors.ErrStoreLocked):
		return ui.FailureLine(err.Error()) + "\n" +
			ui.HintLine("Wait for the other devforge process to finish and try again")

	case errors.As(err, &partial):
		msg := ui.FailureLine(fmt.Sprintf("%d of %d secrets failed to sync", len(partial.Failed), partial.Total))
		for _, f := range partial.Failed {
			msg += "\n  " + ui.Name.Sprint(f.Name) + ": " + f.Err.Error()
		}
		return msg

	case errors.Is(err, derrors.ErrAuth):
		return ui.FailureLine(err.Error()) + "\n" +
			ui.HintLine("Check that "+ui.Name.Sprint(name)+" holds a token that can manage the repository's Actions secrets")

	case errors.Is(err, derrors.ErrNetwork):
		return ui.FailureLine(err.Error()) + "\n" +
			ui.HintLine("Check your connection and try again. Nothing was uploaded.")

	default:
		return ui.FailureLine(err.Error())
	}
}
