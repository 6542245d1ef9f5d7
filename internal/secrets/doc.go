// Package secrets implements the encrypted secrets store and its key
// management.
//
// # Encryption
//
// Every value is sealed independently with NaCl secretbox under one 32-byte
// symmetric key. A random 24-byte nonce is prepended to each token, so
// re-encrypting a value produces different output. Any truncated, tampered
// or wrong-key token fails with ErrDecryptionFailed.
//
// # Key Management
//
// KeyProvider chooses between two KeyBackend variants:
//
//   - SecureStoreBackend: the platform credential store via 99designs/keyring
//   - FileBackend: an owner-only file under $XDG_DATA_HOME/devforge/keys
//
// The secure store is tried first and wins when both hold a key. When it is
// unavailable the provider warns once and uses the file.
//
// # Store File
//
// The store is a TOML container with a version tag, a store id and an
// ordered array of {name, token} entries, tokens base64 encoded. Writes go
// to a temporary file that is renamed over the store, so readers and
// interrupted writers never see a partial file. Writers hold an advisory
// lock on <store>.lock.
//
// # Runtime Injection
//
// Injector decrypts the whole store and writes NAME="value" lines, sorted by
// name, with mode 0600. Nothing is written if any entry fails to decrypt.
package secrets
