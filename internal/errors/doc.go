// Package errors provides typed error values for devforge.
//
// Using sentinel errors allows callers to handle specific error conditions
// programmatically with errors.Is() rather than string matching. The CLI
// layer relies on this to pick a remediation hint: a missing secret needs
// `secrets set`, a token that no longer decrypts needs the key restored or
// the store reinitialized. The two must never be conflated.
//
// # Error Categories
//
// Errors are grouped by category:
//
//   - Store errors: store lifecycle and lookups (ErrStoreNotInitialized, ErrSecretNotFound)
//   - Crypto errors: authentication failures (ErrDecryptionFailed)
//   - Key errors: key backend problems, all matching ErrKeyUnavailable
//   - Sync errors: remote API failures (ErrNetwork, ErrAuth, ErrPartialSync)
//   - Scan errors: non-fatal per-file problems (ErrScanIO)
//
// # Usage
//
// Return errors from internal packages:
//
//	if !s.Exists() {
//	    return errors.ErrStoreNotInitialized
//	}
//
// Handle errors in the CLI layer:
//
//	value, err := env.Get(name)
//	if errors.Is(err, derrors.ErrSecretNotFound) {
//	    // Suggest `devforge secrets set`
//	}
//
// Attach the affected secret name (never its value):
//
//	return &derrors.SecretError{Name: name, Err: derrors.ErrDecryptionFailed}
package errors
