// Package hook feeds files to the leak scanner and installs the git
// pre-commit hook.
//
// Files come either from a filesystem walk with default and configured
// exclusions, or from the git index when only staged content matters.
package hook
