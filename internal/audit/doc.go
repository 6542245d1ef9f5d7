// Package audit records store operations in a project-level log.
//
// Every mutating operation (init, set, remove, inject, sync) appends one
// entry to a JSON Lines file, by default:
//
//	.devforge/audit.jsonl
//
// Each entry contains:
//   - Timestamp (UTC with microseconds)
//   - Local user name
//   - Operation name
//   - Secret names and counts, never values
//
// # Failure Handling
//
// Audit logging is best-effort. Append returns its error so the caller can
// print a warning, but operations should never fail just because audit
// logging failed.
//
// # Reading Logs
//
// Use ReadEntries to parse the log for display. Malformed entries are
// silently skipped to handle partial writes.
package audit
