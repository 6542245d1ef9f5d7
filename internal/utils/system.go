package utils

import (
	"os"
	"os/user"
)

// GetUsername returns the current username, falling back to $USER and then
// "unknown" when the account database is unavailable.
func GetUsername() string {
	if u, err := user.Current(); err == nil && u.Username != "" {
		return u.Username
	}
	if name := os.Getenv("USER"); name != "" {
		return name
	}
	if name := os.Getenv("USERNAME"); name != "" {
		return name
	}
	return "unknown"
}
