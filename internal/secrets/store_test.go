package secrets

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/devforge/devforge/internal/configs"
	derrors "github.com/devforge/devforge/internal/errors"
	logger "github.com/devforge/devforge/internal/logging"

	"github.com/gofrs/flock"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	project := t.TempDir()
	cfg := configs.Config{
		ProjectPath: project,
		StorePath:   filepath.Join(project, configs.StoreFileName),
		LockTimeout: 200 * time.Millisecond,
	}
	keys := NewKeyProviderWithBackends(nil, &FileBackend{Path: filepath.Join(t.TempDir(), "keys", "master.key")}, logger.Logger{})
	return NewStore(cfg, keys, logger.Logger{})
}

func newInitializedStore(t *testing.T) *Store {
	t.Helper()
	store := newTestStore(t)
	if _, err := store.Init(context.Background(), false); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	return store
}

func mustSet(t *testing.T, store *Store, name, value string) {
	t.Helper()
	if err := store.Set(context.Background(), name, []byte(value)); err != nil {
		t.Fatalf("Set(%s) failed: %v", name, err)
	}
}

func TestInit(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	id, err := store.Init(ctx, false)
	if err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	if id == "" {
		t.Error("Expected a store id")
	}

	info, err := os.Stat(store.Path())
	if err != nil {
		t.Fatalf("Expected store file: %v", err)
	}
	if info.Mode().Perm()&0077 != 0 {
		t.Errorf("Expected owner-only store file, got %04o", info.Mode().Perm())
	}

	names, err := store.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(names) != 0 {
		t.Errorf("Expected empty store, got %v", names)
	}
}

func TestInitTwiceRequiresForce(t *testing.T) {
	ctx := context.Background()
	store := newInitializedStore(t)
	mustSet(t, store, "API_KEY", "value")

	if _, err := store.Init(ctx, false); !errors.Is(err, derrors.ErrAlreadyInitialized) {
		t.Fatalf("Expected ErrAlreadyInitialized, got %v", err)
	}

	if _, err := store.Init(ctx, true); err != nil {
		t.Fatalf("Forced Init failed: %v", err)
	}
	names, err := store.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(names) != 0 {
		t.Errorf("Expected forced init to discard entries, got %v", names)
	}
}

func TestOperationsBeforeInit(t *testing.T) {
	store := newTestStore(t)

	if _, err := store.List(); !errors.Is(err, derrors.ErrStoreNotInitialized) {
		t.Errorf("List: expected ErrStoreNotInitialized, got %v", err)
	}
	if _, err := store.Get("API_KEY"); !errors.Is(err, derrors.ErrStoreNotInitialized) {
		t.Errorf("Get: expected ErrStoreNotInitialized, got %v", err)
	}
	if err := store.Set(context.Background(), "API_KEY", []byte("v")); !errors.Is(err, derrors.ErrStoreNotInitialized) {
		t.Errorf("Set: expected ErrStoreNotInitialized, got %v", err)
	}
}

func TestSetGetListRemove(t *testing.T) {
	ctx := context.Background()
	store := newInitializedStore(t)

	mustSet(t, store, "A", "1")
	mustSet(t, store, "B", "2")

	names, err := store.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if strings.Join(names, ",") != "A,B" {
		t.Errorf("Expected [A B], got %v", names)
	}

	value, err := store.Get("A")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if string(value) != "1" {
		t.Errorf("Expected 1, got %q", value)
	}

	if err := store.Remove(ctx, "A"); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	names, err = store.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if strings.Join(names, ",") != "B" {
		t.Errorf("Expected [B], got %v", names)
	}
}

func TestSetOverwriteKeepsPosition(t *testing.T) {
	store := newInitializedStore(t)
	mustSet(t, store, "FIRST", "1")
	mustSet(t, store, "SECOND", "2")
	mustSet(t, store, "FIRST", "updated")

	names, err := store.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if strings.Join(names, ",") != "FIRST,SECOND" {
		t.Errorf("Expected insertion order kept, got %v", names)
	}

	value, err := store.Get("FIRST")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if string(value) != "updated" {
		t.Errorf("Expected updated value, got %q", value)
	}
}

func TestListAndFileNeverContainValues(t *testing.T) {
	store := newInitializedStore(t)
	values := map[string]string{
		"DB_PASSWORD": "hunter2-very-secret",
		"API_KEY":     "sk_live_abcdefghijklmnop",
		"EMPTY":       "",
	}
	for name, value := range values {
		mustSet(t, store, name, value)
	}

	names, err := store.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	raw, err := os.ReadFile(store.Path())
	if err != nil {
		t.Fatalf("Failed to read store: %v", err)
	}

	for _, value := range values {
		if value == "" {
			continue
		}
		for _, name := range names {
			if strings.Contains(name, value) {
				t.Errorf("List output contains a value")
			}
		}
		if bytes.Contains(raw, []byte(value)) {
			t.Errorf("Store file contains a plaintext value")
		}
	}
}

func TestGetMissingAndRemoveMissing(t *testing.T) {
	store := newInitializedStore(t)

	_, err := store.Get("MISSING")
	if !errors.Is(err, derrors.ErrSecretNotFound) {
		t.Fatalf("Expected ErrSecretNotFound, got %v", err)
	}
	var secretErr *derrors.SecretError
	if !errors.As(err, &secretErr) || secretErr.Name != "MISSING" {
		t.Errorf("Expected error to name the secret, got %v", err)
	}

	if err := store.Remove(context.Background(), "MISSING"); !errors.Is(err, derrors.ErrSecretNotFound) {
		t.Errorf("Remove: expected ErrSecretNotFound, got %v", err)
	}
}

func TestInvalidNames(t *testing.T) {
	store := newInitializedStore(t)

	for _, name := range []string{"", "lower", "1ABC", "WITH-DASH", "SPACE NAME"} {
		err := store.Set(context.Background(), name, []byte("v"))
		if !errors.Is(err, derrors.ErrInvalidSecretName) {
			t.Errorf("Set(%q): expected ErrInvalidSecretName, got %v", name, err)
		}
	}
	for _, name := range []string{"A", "_PRIVATE", "API_KEY_2"} {
		if err := ValidateName(name); err != nil {
			t.Errorf("ValidateName(%q) failed: %v", name, err)
		}
	}
}

func TestGetWithWrongKeyIsDecryptionFailed(t *testing.T) {
	store := newInitializedStore(t)
	mustSet(t, store, "API_KEY", "value")

	// Replace the key behind the store's back.
	provider := store.keys.(*KeyProvider)
	if err := provider.file.Save(bytes.Repeat([]byte{0x42}, KeySize)); err != nil {
		t.Fatalf("Failed to replace key: %v", err)
	}

	_, err := store.Get("API_KEY")
	if !errors.Is(err, derrors.ErrDecryptionFailed) {
		t.Fatalf("Expected ErrDecryptionFailed, got %v", err)
	}
	if errors.Is(err, derrors.ErrSecretNotFound) {
		t.Error("Decryption failure must not be reported as not found")
	}
	if !strings.Contains(err.Error(), "API_KEY") {
		t.Errorf("Expected error to name API_KEY, got %q", err.Error())
	}
}

func TestCrashBeforeRenameLeavesStoreIntact(t *testing.T) {
	store := newInitializedStore(t)
	mustSet(t, store, "A", "1")

	before, err := os.ReadFile(store.Path())
	if err != nil {
		t.Fatalf("Failed to read store: %v", err)
	}

	crash := errors.New("simulated crash")
	renameFile = func(string, string) error { return crash }
	defer func() { renameFile = os.Rename }()

	if err := store.Set(context.Background(), "B", []byte("2")); !errors.Is(err, crash) {
		t.Fatalf("Expected simulated crash, got %v", err)
	}

	after, err := os.ReadFile(store.Path())
	if err != nil {
		t.Fatalf("Failed to read store: %v", err)
	}
	if !bytes.Equal(before, after) {
		t.Error("Store file changed after a failed write")
	}

	entries, err := os.ReadDir(filepath.Dir(store.Path()))
	if err != nil {
		t.Fatalf("Failed to list dir: %v", err)
	}
	for _, e := range entries {
		if strings.Contains(e.Name(), ".tmp-") {
			t.Errorf("Temporary file %s left behind", e.Name())
		}
	}
}

func TestInvalidStoreFile(t *testing.T) {
	store := newTestStore(t)

	tests := []struct {
		name    string
		content string
	}{
		{"Garbage", "not [ toml"},
		{"WrongVersion", "version = 2\n"},
		{"DuplicateNames", "version = 1\n[[secrets]]\nname = \"A\"\ntoken = \"x\"\n[[secrets]]\nname = \"A\"\ntoken = \"y\"\n"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if err := os.WriteFile(store.Path(), []byte(tc.content), 0600); err != nil {
				t.Fatalf("Failed to write store: %v", err)
			}
			if _, err := store.List(); !errors.Is(err, derrors.ErrInvalidStore) {
				t.Errorf("Expected ErrInvalidStore, got %v", err)
			}
		})
	}
}

func TestMutationWaitsForLock(t *testing.T) {
	store := newInitializedStore(t)

	held := flock.New(store.Path() + ".lock")
	if err := held.Lock(); err != nil {
		t.Fatalf("Failed to take lock: %v", err)
	}
	defer held.Unlock()

	err := store.Set(context.Background(), "A", []byte("1"))
	if !errors.Is(err, derrors.ErrStoreLocked) {
		t.Fatalf("Expected ErrStoreLocked, got %v", err)
	}

	// Readers are not blocked.
	if _, err := store.List(); err != nil {
		t.Errorf("List should not need the lock: %v", err)
	}
}

func TestInfo(t *testing.T) {
	store := newInitializedStore(t)
	mustSet(t, store, "A", "1")

	info, err := store.Info()
	if err != nil {
		t.Fatalf("Info failed: %v", err)
	}
	if info.Version != StoreVersion || info.Count != 1 || info.StoreID == "" {
		t.Errorf("Unexpected info: %+v", info)
	}
}
