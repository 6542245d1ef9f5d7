package secrets

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"regexp"
	"sync"
	"time"

	"github.com/devforge/devforge/internal/configs"
	derrors "github.com/devforge/devforge/internal/errors"
	logger "github.com/devforge/devforge/internal/logging"

	"github.com/google/uuid"
)

// StoreVersion is the only container format version this build reads and writes.
const StoreVersion = 1

const storeHeader = "# devforge secrets store. Values are encrypted; do not edit or commit this file.\n"

var namePattern = regexp.MustCompile(`^[A-Z_][A-Z0-9_]*$`)

// KeySource supplies the symmetric key. *KeyProvider implements it.
type KeySource interface {
	GetKey() ([]byte, error)
	GetOrCreateKey() ([]byte, error)
}

// Secret is one decrypted entry.
type Secret struct {
	Name  string
	Value []byte
}

// Info summarizes the store without decrypting anything.
type Info struct {
	Path    string
	Version int
	StoreID string
	Count   int
}

type storedSecret struct {
	Name  string `toml:"name"`
	Token string `toml:"token"`
}

type container struct {
	Version int            `toml:"version"`
	StoreID string         `toml:"store_id"`
	Secrets []storedSecret `toml:"secrets"`
}

func (c *container) index(name string) int {
	for i, s := range c.Secrets {
		if s.Name == name {
			return i
		}
	}
	return -1
}

// Store is the encrypted, insertion-ordered name to token mapping on disk.
// Mutations are serialized by an advisory file lock; reads take no lock.
type Store struct {
	path        string
	keys        KeySource
	lockTimeout time.Duration
	log         logger.Logger

	mu sync.Mutex
}

// NewStore returns a store bound to cfg.StorePath.
func NewStore(cfg configs.Config, keys KeySource, log logger.Logger) *Store {
	timeout := cfg.LockTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Store{
		path:        cfg.StorePath,
		keys:        keys,
		lockTimeout: timeout,
		log:         log,
	}
}

// ValidateName reports whether name is a usable secret name.
func ValidateName(name string) error {
	if !namePattern.MatchString(name) {
		return &derrors.SecretError{Name: name, Err: derrors.ErrInvalidSecretName}
	}
	return nil
}

func (s *Store) Path() string { return s.path }

// Exists reports whether the store file is present.
func (s *Store) Exists() bool {
	_, err := os.Stat(s.path)
	return err == nil
}

// Init creates an empty store. With force an existing store is replaced and
// its entries are lost. The key is created on first use.
func (s *Store) Init(ctx context.Context, force bool) (string, error) {
	var storeID string
	err := s.mutate(ctx, func() error {
		if s.Exists() && !force {
			return derrors.ErrAlreadyInitialized
		}

		if _, err := s.keys.GetOrCreateKey(); err != nil {
			return err
		}

		storeID = uuid.NewString()
		return s.write(&container{Version: StoreVersion, StoreID: storeID})
	})
	return storeID, err
}

// Set encrypts value and inserts or overwrites name, keeping its position
// when it already exists.
func (s *Store) Set(ctx context.Context, name string, value []byte) error {
	if err := ValidateName(name); err != nil {
		return err
	}

	return s.mutate(ctx, func() error {
		c, err := s.load()
		if err != nil {
			return err
		}

		key, err := s.keys.GetKey()
		if err != nil {
			return err
		}

		token, err := Encrypt(value, key)
		if err != nil {
			return &derrors.SecretError{Name: name, Err: err}
		}
		encoded := base64.StdEncoding.EncodeToString(token)

		if i := c.index(name); i >= 0 {
			c.Secrets[i].Token = encoded
			s.log.Debugf("Overwriting existing secret %s", name)
		} else {
			c.Secrets = append(c.Secrets, storedSecret{Name: name, Token: encoded})
		}

		return s.write(c)
	})
}

// Get decrypts and returns one value.
func (s *Store) Get(name string) ([]byte, error) {
	if err := ValidateName(name); err != nil {
		return nil, err
	}

	c, err := s.load()
	if err != nil {
		return nil, err
	}

	i := c.index(name)
	if i < 0 {
		return nil, &derrors.SecretError{Name: name, Err: derrors.ErrSecretNotFound}
	}

	key, err := s.keys.GetKey()
	if err != nil {
		return nil, err
	}

	return decryptEntry(c.Secrets[i], key)
}

// List returns secret names in insertion order. It never decrypts.
func (s *Store) List() ([]string, error) {
	c, err := s.load()
	if err != nil {
		return nil, err
	}

	names := make([]string, len(c.Secrets))
	for i, secret := range c.Secrets {
		names[i] = secret.Name
	}
	return names, nil
}

// Remove deletes name from the store.
func (s *Store) Remove(ctx context.Context, name string) error {
	if err := ValidateName(name); err != nil {
		return err
	}

	return s.mutate(ctx, func() error {
		c, err := s.load()
		if err != nil {
			return err
		}

		i := c.index(name)
		if i < 0 {
			return &derrors.SecretError{Name: name, Err: derrors.ErrSecretNotFound}
		}
		c.Secrets = append(c.Secrets[:i], c.Secrets[i+1:]...)

		return s.write(c)
	})
}

// DecryptAll decrypts every entry in insertion order. The first entry that
// fails stops the walk and is reported by name.
func (s *Store) DecryptAll() ([]Secret, error) {
	c, err := s.load()
	if err != nil {
		return nil, err
	}

	key, err := s.keys.GetKey()
	if err != nil {
		return nil, err
	}

	out := make([]Secret, 0, len(c.Secrets))
	for _, entry := range c.Secrets {
		value, err := decryptEntry(entry, key)
		if err != nil {
			return nil, err
		}
		out = append(out, Secret{Name: entry.Name, Value: value})
	}
	return out, nil
}

// Info reports version, store id and entry count.
func (s *Store) Info() (Info, error) {
	c, err := s.load()
	if err != nil {
		return Info{}, err
	}
	return Info{Path: s.path, Version: c.Version, StoreID: c.StoreID, Count: len(c.Secrets)}, nil
}

func decryptEntry(entry storedSecret, key []byte) ([]byte, error) {
	token, err := base64.StdEncoding.DecodeString(entry.Token)
	if err != nil {
		return nil, &derrors.SecretError{Name: entry.Name, Err: derrors.ErrDecryptionFailed}
	}

	value, err := Decrypt(token, key)
	if err != nil {
		return nil, &derrors.SecretError{Name: entry.Name, Err: err}
	}
	return value, nil
}

func (s *Store) mutate(ctx context.Context, fn func() error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	unlock, err := lockFile(ctx, s.path, s.lockTimeout)
	if err != nil {
		return err
	}
	defer unlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	return fn()
}

func (s *Store) load() (*container, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, derrors.ErrStoreNotInitialized
		}
		return nil, fmt.Errorf("failed to read store %s: %w", s.path, err)
	}

	var c container
	if err := configs.DecodeTOML(data, &c); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", derrors.ErrInvalidStore, s.path, err)
	}
	if c.Version != StoreVersion {
		return nil, fmt.Errorf("%w: %s has unsupported version %d", derrors.ErrInvalidStore, s.path, c.Version)
	}

	seen := make(map[string]bool, len(c.Secrets))
	for _, secret := range c.Secrets {
		if !namePattern.MatchString(secret.Name) || seen[secret.Name] {
			return nil, fmt.Errorf("%w: %s has an invalid or duplicate entry %q", derrors.ErrInvalidStore, s.path, secret.Name)
		}
		seen[secret.Name] = true
	}

	return &c, nil
}

func (s *Store) write(c *container) error {
	data, err := configs.EncodeTOML(c)
	if err != nil {
		return fmt.Errorf("failed to encode store: %w", err)
	}
	return WriteFileAtomic(s.path, append([]byte(storeHeader), data...), 0600)
}
