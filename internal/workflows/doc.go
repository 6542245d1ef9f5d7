// Package workflows provides high-level orchestration for devforge commands.
//
// Workflows coordinate the store, key provider, sync client, scanner and
// audit log to implement complete user-facing features. Each workflow
// handles a single command's business logic, independent of CLI concerns
// like flag parsing, spinners and output formatting.
//
// # Design Philosophy
//
// The cmd/ package should be a thin layer that:
//   - Parses command-line flags and arguments
//   - Loads configuration and calls Open
//   - Calls the appropriate workflow function
//   - Formats the result for display
//
// Workflows handle everything else:
//   - Validating prerequisites
//   - Performing the core operation
//   - Recording audit trail entries
//
// # Error Handling
//
// Workflows return typed errors from the internal/errors package, allowing
// the CLI layer to provide appropriate user-facing messages without string
// matching:
//
//	value, err := workflows.Get(ctx, env, name)
//	if errors.Is(err, derrors.ErrSecretNotFound) {
//	    // Suggest `devforge secrets set`
//	}
//
// # Context Usage
//
// All workflow functions accept a context.Context as their first parameter.
// This enables cancellation and timeouts.
package workflows
