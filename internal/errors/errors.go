package errors

import "errors"

// Store errors indicate problems with the store file or its entries.
var (
	// ErrStoreNotInitialized indicates the store file does not exist yet.
	ErrStoreNotInitialized = errors.New("secrets store has not been initialized")

	// ErrAlreadyInitialized indicates init was run against an existing store without force.
	ErrAlreadyInitialized = errors.New("secrets store has already been initialized")

	// ErrSecretNotFound indicates no entry exists under the requested name.
	ErrSecretNotFound = errors.New("secret not found")

	// ErrInvalidSecretName indicates a name that is empty or not an uppercase identifier.
	ErrInvalidSecretName = errors.New("invalid secret name")

	// ErrInvalidStore indicates the store file is malformed or has an unsupported version.
	ErrInvalidStore = errors.New("secrets store file is invalid")

	// ErrStoreLocked indicates another writer held the store lock for too long.
	ErrStoreLocked = errors.New("secrets store is locked by another process")
)

// Cryptographic errors indicate failures during encryption or decryption operations.
var (
	// ErrDecryptionFailed indicates a token was truncated, corrupted, or sealed under another key.
	ErrDecryptionFailed = errors.New("failed to decrypt secret")

	// ErrInvalidKeyLength indicates the symmetric key has an unexpected length.
	ErrInvalidKeyLength = errors.New("invalid symmetric key length")
)

// ErrKeyUnavailable is the umbrella for key backend failures. ErrStoreUnavailable,
// ErrKeyNotFound and ErrPermissionDenied all match it with errors.Is.
var ErrKeyUnavailable = errors.New("encryption key unavailable")

// Key backend errors.
var (
	// ErrStoreUnavailable indicates the platform secure store could not be used.
	ErrStoreUnavailable error = &keyError{msg: "platform secure store unavailable"}

	// ErrKeyNotFound indicates no backend holds a key and creation was not allowed.
	ErrKeyNotFound error = &keyError{msg: "encryption key not found"}

	// ErrPermissionDenied indicates the fallback key file is readable by other users.
	ErrPermissionDenied error = &keyError{msg: "key file permissions are too permissive"}
)

type keyError struct {
	msg string
}

func (e *keyError) Error() string { return e.msg }

func (e *keyError) Is(target error) bool { return target == ErrKeyUnavailable }

// Sync errors indicate failures talking to the remote secrets API.
var (
	// ErrNetwork indicates the API could not be reached or kept failing after retries.
	ErrNetwork = errors.New("network error")

	// ErrAuth indicates the API rejected the credentials or the repository is not accessible.
	ErrAuth = errors.New("authentication failed")

	// ErrPartialSync indicates some secrets failed to upload while others succeeded.
	ErrPartialSync = errors.New("some secrets failed to sync")

	// ErrInvalidRepo indicates a repository reference that is not owner/repo.
	ErrInvalidRepo = errors.New("invalid repository, expected owner/repo")
)

// ErrScanIO indicates a file could not be scanned. It is never fatal to a scan.
var ErrScanIO = errors.New("file could not be scanned")

// SecretError attaches the affected secret name to an error.
type SecretError struct {
	Name string
	Err  error
}

func (e *SecretError) Error() string {
	return "secret " + e.Name + ": " + e.Err.Error()
}

func (e *SecretError) Unwrap() error { return e.Err }
