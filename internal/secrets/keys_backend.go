package secrets

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	derrors "github.com/devforge/devforge/internal/errors"

	"github.com/99designs/keyring"
)

// KeyBackend is one place the symmetric key can live.
type KeyBackend interface {
	// Name identifies the backend in status output.
	Name() string

	// Load returns the stored key or ErrKeyNotFound.
	Load() ([]byte, error)

	// Save persists the key, replacing any previous one.
	Save(key []byte) error
}

// KeyringOpener opens a platform keyring. keyring.Open in production.
type KeyringOpener func(cfg keyring.Config) (keyring.Keyring, error)

// SecureStoreBackend keeps the key in the platform credential store:
// macOS Keychain, Windows Credential Manager, Secret Service or KWallet.
type SecureStoreBackend struct {
	cfg     keyring.Config
	account string
	open    KeyringOpener

	mu   sync.Mutex
	ring keyring.Keyring
}

// NewSecureStoreBackend returns a backend storing the key under service/account.
func NewSecureStoreBackend(service, account string, open KeyringOpener) *SecureStoreBackend {
	if open == nil {
		open = keyring.Open
	}
	return &SecureStoreBackend{
		cfg: keyring.Config{
			ServiceName: service,
			// Only persistent, non-interactive stores. The file and pass
			// backends would prompt, and keyctl does not survive a logout.
			AllowedBackends: []keyring.BackendType{
				keyring.KeychainBackend,
				keyring.WinCredBackend,
				keyring.SecretServiceBackend,
				keyring.KWalletBackend,
			},
			KeychainTrustApplication: true,
			LibSecretCollectionName:  "login",
			KWalletAppID:             service,
			KWalletFolder:            service,
		},
		account: account,
		open:    open,
	}
}

func (b *SecureStoreBackend) Name() string { return "secure-store" }

func (b *SecureStoreBackend) openRing() (keyring.Keyring, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.ring != nil {
		return b.ring, nil
	}
	ring, err := b.open(b.cfg)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", derrors.ErrStoreUnavailable, err)
	}
	b.ring = ring
	return ring, nil
}

func (b *SecureStoreBackend) Load() ([]byte, error) {
	ring, err := b.openRing()
	if err != nil {
		return nil, err
	}

	item, err := ring.Get(b.account)
	if err != nil {
		if errors.Is(err, keyring.ErrKeyNotFound) {
			return nil, derrors.ErrKeyNotFound
		}
		return nil, fmt.Errorf("%w: %v", derrors.ErrStoreUnavailable, err)
	}

	if len(item.Data) != KeySize {
		return nil, fmt.Errorf("%w: secure store entry holds %d bytes", derrors.ErrInvalidKeyLength, len(item.Data))
	}
	return item.Data, nil
}

// Save writes the key and reads it back to confirm the store persisted it.
func (b *SecureStoreBackend) Save(key []byte) error {
	ring, err := b.openRing()
	if err != nil {
		return err
	}

	err = ring.Set(keyring.Item{
		Key:         b.account,
		Data:        key,
		Label:       b.cfg.ServiceName + " encryption key",
		Description: "symmetric key for the devforge secrets store",
	})
	if err != nil {
		return fmt.Errorf("%w: %v", derrors.ErrStoreUnavailable, err)
	}

	// An unconfirmed entry is removed so it cannot shadow the file key later.
	item, err := ring.Get(b.account)
	if err != nil {
		_ = ring.Remove(b.account)
		return fmt.Errorf("%w: read-back failed: %v", derrors.ErrStoreUnavailable, err)
	}
	if !bytes.Equal(item.Data, key) {
		_ = ring.Remove(b.account)
		return fmt.Errorf("%w: read-back returned a different key", derrors.ErrStoreUnavailable)
	}

	return nil
}

// FileBackend keeps the key in an owner-only file outside the project tree.
type FileBackend struct {
	Path string
}

func (b *FileBackend) Name() string { return "file" }

func (b *FileBackend) Load() ([]byte, error) {
	info, err := os.Stat(b.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, derrors.ErrKeyNotFound
		}
		return nil, fmt.Errorf("failed to stat key file %s: %w", b.Path, err)
	}

	if err := checkOwnerOnly(b.Path, info.Mode()); err != nil {
		return nil, err
	}

	key, err := os.ReadFile(b.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to read key file %s: %w", b.Path, err)
	}
	if len(key) != KeySize {
		return nil, fmt.Errorf("%w: key file %s holds %d bytes", derrors.ErrInvalidKeyLength, b.Path, len(key))
	}
	return key, nil
}

func (b *FileBackend) Save(key []byte) error {
	dir := filepath.Dir(b.Path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create key directory %s: %w", dir, err)
	}

	if err := WriteFileAtomic(b.Path, key, 0600); err != nil {
		return err
	}

	info, err := os.Stat(b.Path)
	if err != nil {
		return fmt.Errorf("failed to stat key file %s: %w", b.Path, err)
	}
	return checkOwnerOnly(b.Path, info.Mode())
}

func checkOwnerOnly(path string, mode os.FileMode) error {
	if runtime.GOOS == "windows" {
		return nil
	}
	if mode.Perm()&0077 != 0 {
		return fmt.Errorf("%w: %s has mode %04o, expected 0600", derrors.ErrPermissionDenied, path, mode.Perm())
	}
	return nil
}
