package secrets

import (
	"crypto/rand"
	"fmt"
	"io"

	derrors "github.com/devforge/devforge/internal/errors"

	"golang.org/x/crypto/nacl/secretbox"
)

const (
	// KeySize is the length of the symmetric key in bytes.
	KeySize = 32

	nonceSize = 24
)

// GenerateKey creates a new random symmetric key.
func GenerateKey() ([]byte, error) {
	key := make([]byte, KeySize)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("failed to generate key: %w", err)
	}
	return key, nil
}

// Encrypt seals plaintext with secretbox. The random nonce is prepended to
// the returned token.
func Encrypt(plaintext, key []byte) ([]byte, error) {
	k, err := toKey(key)
	if err != nil {
		return nil, err
	}

	var nonce [nonceSize]byte
	if _, err := io.ReadFull(rand.Reader, nonce[:]); err != nil {
		return nil, fmt.Errorf("failed to generate nonce: %w", err)
	}

	return secretbox.Seal(nonce[:], plaintext, &nonce, k), nil
}

// Decrypt opens a token produced by Encrypt. Truncated, tampered and
// wrong-key tokens all return ErrDecryptionFailed.
func Decrypt(token, key []byte) ([]byte, error) {
	k, err := toKey(key)
	if err != nil {
		return nil, err
	}

	if len(token) < nonceSize+secretbox.Overhead {
		return nil, derrors.ErrDecryptionFailed
	}

	var nonce [nonceSize]byte
	copy(nonce[:], token[:nonceSize])

	plaintext, ok := secretbox.Open(nil, token[nonceSize:], &nonce, k)
	if !ok {
		return nil, derrors.ErrDecryptionFailed
	}
	if plaintext == nil {
		plaintext = []byte{}
	}
	return plaintext, nil
}

func toKey(key []byte) (*[KeySize]byte, error) {
	if len(key) != KeySize {
		return nil, fmt.Errorf("%w: expected %d bytes, got %d bytes", derrors.ErrInvalidKeyLength, KeySize, len(key))
	}
	var k [KeySize]byte
	copy(k[:], key)
	return &k, nil
}
