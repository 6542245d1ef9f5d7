// Package utils provides small helpers shared by devforge commands.
//
// # Filesystem Utilities
//
//   - FindProjectRoot: walks up to the nearest directory holding a store,
//     devforge.toml, or .git
//   - FormatNames: formats secret names for human-readable output
//
// # I/O Utilities
//
//   - ReadStdin: reads a piped secret value
//   - ReadSecretValue: prompts on the terminal without echo
//
// # System Utilities
//
//   - GetUsername: the OS user recorded in audit entries
package utils
