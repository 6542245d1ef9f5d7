package utils

import "testing"

func TestFormatNames(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	tests := []struct {
		names []string
		want  string
	}{
		{nil, ""},
		{[]string{"API_KEY"}, "'API_KEY'"},
		{[]string{"GITHUB_TOKEN", "LOCAL_ONLY"}, "'GITHUB_TOKEN', 'LOCAL_ONLY'"},
	}

	for _, tt := range tests {
		if got := FormatNames(tt.names); got != tt.want {
			t.Errorf("FormatNames(%v) = %q, want %q", tt.names, got, tt.want)
		}
	}
}
