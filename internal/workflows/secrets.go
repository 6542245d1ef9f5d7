package workflows

import (
	"context"

	"github.com/devforge/devforge/internal/audit"
)

// Set stores value under name, replacing any previous value.
//
// Returns ErrStoreNotInitialized if the store does not exist.
// Returns ErrInvalidSecretName if name is not an uppercase identifier.
func Set(ctx context.Context, env *Env, name string, value []byte) error {
	if err := env.Store.Set(ctx, name, value); err != nil {
		return err
	}

	entry := audit.NewEntry("set")
	entry.Names = []string{name}
	env.record(entry)
	return nil
}

// Get returns the decrypted value of name.
//
// Returns ErrSecretNotFound if there is no such entry.
// Returns ErrDecryptionFailed if the entry does not open under the current key.
func Get(ctx context.Context, env *Env, name string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	value, err := env.Store.Get(name)
	if err != nil {
		return nil, err
	}

	entry := audit.NewEntry("get")
	entry.Names = []string{name}
	env.record(entry)
	return value, nil
}

// List returns secret names in insertion order without decrypting.
func List(ctx context.Context, env *Env) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return env.Store.List()
}

// Remove deletes name from the store.
//
// Returns ErrSecretNotFound if there is no such entry.
func Remove(ctx context.Context, env *Env, name string) error {
	if err := env.Store.Remove(ctx, name); err != nil {
		return err
	}

	entry := audit.NewEntry("remove")
	entry.Names = []string{name}
	env.record(entry)
	return nil
}
