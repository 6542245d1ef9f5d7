package configs

import (
	"os"
	"path/filepath"
	"testing"
)

func TestEncodeAndDecodeTOML(t *testing.T) {
	type entry struct {
		Name  string `toml:"name"`
		Token string `toml:"token"`
	}
	type container struct {
		Version int     `toml:"version"`
		Entries []entry `toml:"entries"`
	}

	original := container{
		Version: 1,
		Entries: []entry{{Name: "API_KEY", Token: "abc"}, {Name: "DB_URL", Token: "def"}},
	}

	data, err := EncodeTOML(original)
	if err != nil {
		t.Fatalf("EncodeTOML failed: %v", err)
	}

	var decoded container
	if err := DecodeTOML(data, &decoded); err != nil {
		t.Fatalf("DecodeTOML failed: %v", err)
	}

	if decoded.Version != 1 {
		t.Errorf("Expected version 1, got %d", decoded.Version)
	}
	if len(decoded.Entries) != 2 || decoded.Entries[1].Name != "DB_URL" {
		t.Errorf("Entries did not survive encoding: %+v", decoded.Entries)
	}
}

func TestLoadTOMLNonexistentFile(t *testing.T) {
	var data struct{ Name string }
	if err := LoadTOML(filepath.Join(t.TempDir(), "missing.toml"), &data); err == nil {
		t.Fatal("Expected error for nonexistent file, got nil")
	}
}

func TestLoadTOMLInvalidContent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.toml")
	if err := os.WriteFile(path, []byte("this is [ not toml"), 0600); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}

	var data struct{ Name string }
	if err := LoadTOML(path, &data); err == nil {
		t.Fatal("Expected error for invalid TOML, got nil")
	}
}
