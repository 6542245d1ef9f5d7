package workflows

import (
	"context"

	"github.com/devforge/devforge/internal/audit"
)

// InitOptions configures the init workflow.
type InitOptions struct {
	// Force replaces an existing store. Its entries are lost.
	Force bool
}

// InitResult contains the outcome of an init operation.
type InitResult struct {
	// StoreID identifies the new store.
	StoreID string

	// StorePath is where the store was written.
	StorePath string

	// KeyBackend names the backend that holds the key.
	KeyBackend string
}

// Init creates an empty store and the key if none exists yet.
//
// Returns ErrAlreadyInitialized if a store exists and Force is not set.
// Returns an error matching ErrKeyUnavailable if no key backend can hold the key.
func Init(ctx context.Context, env *Env, opts InitOptions) (*InitResult, error) {
	storeID, err := env.Store.Init(ctx, opts.Force)
	if err != nil {
		return nil, err
	}

	entry := audit.NewEntry("init")
	entry.StoreID = storeID
	env.record(entry)

	return &InitResult{
		StoreID:    storeID,
		StorePath:  env.Store.Path(),
		KeyBackend: env.Keys.Backend(),
	}, nil
}
