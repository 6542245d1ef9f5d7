package secrets

import (
	"errors"
	"sync"

	"github.com/devforge/devforge/internal/configs"
	derrors "github.com/devforge/devforge/internal/errors"
	logger "github.com/devforge/devforge/internal/logging"
)

// KeyProvider obtains the one symmetric key. The secure store is consulted
// first and is authoritative when it holds a key; the file backend is the
// fallback.
type KeyProvider struct {
	secure KeyBackend
	file   KeyBackend
	log    logger.Logger

	warnOnce sync.Once
	mu       sync.Mutex
	served   string
}

// NewKeyProvider builds a provider from configuration. A nil secure backend
// is used when the keyring is disabled.
func NewKeyProvider(cfg configs.KeyConfig, log logger.Logger) *KeyProvider {
	var secure KeyBackend
	if cfg.UseKeyring {
		secure = NewSecureStoreBackend(cfg.Service, cfg.Account, nil)
	}
	return NewKeyProviderWithBackends(secure, &FileBackend{Path: cfg.FilePath}, log)
}

// NewKeyProviderWithBackends wires explicit backends. secure may be nil.
func NewKeyProviderWithBackends(secure, file KeyBackend, log logger.Logger) *KeyProvider {
	return &KeyProvider{secure: secure, file: file, log: log}
}

// GetKey returns the existing key without creating one.
func (p *KeyProvider) GetKey() ([]byte, error) {
	if p.secure != nil {
		key, err := p.secure.Load()
		switch {
		case err == nil:
			p.setServed(p.secure.Name())
			return key, nil
		case errors.Is(err, derrors.ErrStoreUnavailable):
			p.reportUnavailable(err)
		case errors.Is(err, derrors.ErrKeyNotFound):
		default:
			return nil, err
		}
	}

	key, err := p.file.Load()
	if err != nil {
		return nil, err
	}
	p.setServed(p.file.Name())
	return key, nil
}

// GetOrCreateKey returns the existing key or generates and persists a new one.
func (p *KeyProvider) GetOrCreateKey() ([]byte, error) {
	key, err := p.GetKey()
	if err == nil {
		return key, nil
	}
	if !errors.Is(err, derrors.ErrKeyNotFound) {
		return nil, err
	}

	key, err = GenerateKey()
	if err != nil {
		return nil, err
	}

	if p.secure != nil {
		saveErr := p.secure.Save(key)
		if saveErr == nil {
			p.log.Debugf("Stored new encryption key in the %s backend", p.secure.Name())
			p.setServed(p.secure.Name())
			return key, nil
		}
		if !errors.Is(saveErr, derrors.ErrStoreUnavailable) {
			return nil, saveErr
		}
		p.reportUnavailable(saveErr)
	}

	if err := p.file.Save(key); err != nil {
		return nil, err
	}
	p.log.Debugf("Stored new encryption key in the %s backend", p.file.Name())
	p.setServed(p.file.Name())
	return key, nil
}

// Backend names the backend that served the last key, or "" if none has.
func (p *KeyProvider) Backend() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.served
}

func (p *KeyProvider) setServed(name string) {
	p.mu.Lock()
	p.served = name
	p.mu.Unlock()
}

func (p *KeyProvider) reportUnavailable(err error) {
	p.warnOnce.Do(func() {
		p.log.Warnf("%v; falling back to the key file", err)
	})
}
