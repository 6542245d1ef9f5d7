package utils

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestGetUsername(t *testing.T) {
	if name := GetUsername(); name == "" {
		t.Fatal("Expected non-empty username")
	}
}

func TestFindProjectRoot(t *testing.T) {
	t.Run("FindsStoreInAncestor", func(t *testing.T) {
		root := t.TempDir()
		if err := os.WriteFile(filepath.Join(root, ".secrets.devforge"), []byte("version = 1\n"), 0600); err != nil {
			t.Fatalf("Failed to create store: %v", err)
		}
		nested := filepath.Join(root, "a", "b")
		if err := os.MkdirAll(nested, 0755); err != nil {
			t.Fatalf("Failed to create dirs: %v", err)
		}

		found, err := FindProjectRoot(nested)
		if err != nil {
			t.Fatalf("FindProjectRoot failed: %v", err)
		}
		if found != root {
			t.Errorf("Expected %q, got %q", root, found)
		}
	})

	t.Run("FindsGitDirectory", func(t *testing.T) {
		root := t.TempDir()
		if err := os.Mkdir(filepath.Join(root, ".git"), 0755); err != nil {
			t.Fatalf("Failed to create .git: %v", err)
		}
		nested := filepath.Join(root, "src")
		if err := os.Mkdir(nested, 0755); err != nil {
			t.Fatalf("Failed to create src: %v", err)
		}

		found, err := FindProjectRoot(nested)
		if err != nil {
			t.Fatalf("FindProjectRoot failed: %v", err)
		}
		if found != root {
			t.Errorf("Expected %q, got %q", root, found)
		}
	})

	t.Run("NearestMarkerWins", func(t *testing.T) {
		outer := t.TempDir()
		if err := os.Mkdir(filepath.Join(outer, ".git"), 0755); err != nil {
			t.Fatalf("Failed to create .git: %v", err)
		}
		inner := filepath.Join(outer, "service")
		if err := os.Mkdir(inner, 0755); err != nil {
			t.Fatalf("Failed to create inner: %v", err)
		}
		if err := os.WriteFile(filepath.Join(inner, "devforge.toml"), nil, 0600); err != nil {
			t.Fatalf("Failed to create devforge.toml: %v", err)
		}

		found, err := FindProjectRoot(inner)
		if err != nil {
			t.Fatalf("FindProjectRoot failed: %v", err)
		}
		if found != inner {
			t.Errorf("Expected %q, got %q", inner, found)
		}
	})
}

func TestReadAllFromTrimsOneNewline(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"NoNewline", "value", "value"},
		{"TrailingNewline", "value\n", "value"},
		{"CRLF", "value\r\n", "value"},
		{"KeepsInnerNewlines", "line1\nline2\n", "line1\nline2"},
		{"OnlyOneTrimmed", "value\n\n", "value\n"},
		{"Empty", "", ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ReadAllFrom(strings.NewReader(tc.input))
			if err != nil {
				t.Fatalf("ReadAllFrom failed: %v", err)
			}
			if string(got) != tc.expected {
				t.Errorf("ReadAllFrom(%q) = %q, expected %q", tc.input, got, tc.expected)
			}
		})
	}
}
