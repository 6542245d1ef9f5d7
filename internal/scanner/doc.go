// Package scanner detects secret-shaped text before it reaches version
// control.
//
// The scanner never touches the filesystem. Callers feed File values
// through a channel and Scan fans them out to a bounded errgroup pool.
//
// Each line is checked in two passes:
//
//  1. Ordered structural rules (DefaultRules). A match claims its span and
//     later rules ignore overlapping text.
//  2. A Shannon entropy heuristic over the unclaimed tokens, skipping hash
//     digests, UUIDs, version strings and configured allow patterns.
//
// Snippets are masked when a Finding is built; the raw match is never
// stored. Binary or non-UTF-8 files produce a Warning and are skipped.
// Any finding fails the scan.
package scanner
