package utils

import (
	"strings"

	"github.com/devforge/devforge/internal/ui"
)

// FormatNames joins secret names for a one-line summary.
func FormatNames(names []string) string {
	quoted := make([]string, len(names))
	for i, name := range names {
		quoted[i] = ui.Name.Sprint(name)
	}
	return strings.Join(quoted, ", ")
}
