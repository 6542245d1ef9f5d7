package secrets

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	derrors "github.com/devforge/devforge/internal/errors"
	logger "github.com/devforge/devforge/internal/logging"
)

func TestInjectWritesSortedLines(t *testing.T) {
	store := newInitializedStore(t)
	mustSet(t, store, "B", "y")
	mustSet(t, store, "A", "x")

	target := filepath.Join(t.TempDir(), ".env.secrets")
	count, err := NewInjector(store, logger.Logger{}).Inject(context.Background(), target)
	if err != nil {
		t.Fatalf("Inject failed: %v", err)
	}
	if count != 2 {
		t.Errorf("Expected 2 secrets, got %d", count)
	}

	content, err := os.ReadFile(target)
	if err != nil {
		t.Fatalf("Failed to read env file: %v", err)
	}
	if string(content) != "A=\"x\"\nB=\"y\"\n" {
		t.Errorf("Unexpected env file content: %q", content)
	}

	if runtime.GOOS != "windows" {
		info, err := os.Stat(target)
		if err != nil {
			t.Fatalf("Failed to stat env file: %v", err)
		}
		if info.Mode().Perm() != 0600 {
			t.Errorf("Expected 0600, got %04o", info.Mode().Perm())
		}
	}
}

func TestFormatEnvEscapes(t *testing.T) {
	got := FormatEnv([]Secret{
		{Name: "QUOTED", Value: []byte(`say "hi"`)},
		{Name: "MULTI", Value: []byte("line1\nline2\r")},
		{Name: "PATH_LIKE", Value: []byte(`C:\tmp`)},
	})

	expected := "MULTI=\"line1\\nline2\\r\"\n" +
		"PATH_LIKE=\"C:\\\\tmp\"\n" +
		"QUOTED=\"say \\\"hi\\\"\"\n"
	if string(got) != expected {
		t.Errorf("FormatEnv mismatch:\n got: %q\nwant: %q", got, expected)
	}
}

func TestInjectIsAllOrNothing(t *testing.T) {
	store := newInitializedStore(t)
	mustSet(t, store, "GOOD", "fine")
	mustSet(t, store, "BROKEN", "will-be-corrupted")

	c, err := store.load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	c.Secrets[c.index("BROKEN")].Token = "AAAA"
	if err := store.write(c); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	target := filepath.Join(t.TempDir(), ".env.secrets")
	if err := os.WriteFile(target, []byte("PREVIOUS=\"1\"\n"), 0600); err != nil {
		t.Fatalf("Failed to seed env file: %v", err)
	}

	_, err = NewInjector(store, logger.Logger{}).Inject(context.Background(), target)
	if !errors.Is(err, derrors.ErrDecryptionFailed) {
		t.Fatalf("Expected ErrDecryptionFailed, got %v", err)
	}
	var secretErr *derrors.SecretError
	if !errors.As(err, &secretErr) || secretErr.Name != "BROKEN" {
		t.Errorf("Expected failure to name BROKEN, got %v", err)
	}

	content, err := os.ReadFile(target)
	if err != nil {
		t.Fatalf("Failed to read env file: %v", err)
	}
	if string(content) != "PREVIOUS=\"1\"\n" {
		t.Errorf("Env file was modified despite failure: %q", content)
	}
}
