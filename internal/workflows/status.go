package workflows

import (
	"context"
	"errors"
	"os"

	derrors "github.com/devforge/devforge/internal/errors"
)

// StatusResult describes the project's store without decrypting it.
type StatusResult struct {
	ProjectPath string
	StorePath   string
	EnvPath     string

	// Initialized is false when no store file exists yet.
	Initialized bool
	StoreID     string
	Count       int

	// KeyBackend names the backend that served the key, empty if none did.
	KeyBackend string

	// KeyErr is set when the key could not be loaded.
	KeyErr error

	// EnvFileExists reports whether inject has written the env file.
	EnvFileExists bool

	// Repo is the sync target, empty when it cannot be resolved.
	Repo string
}

// Status gathers the state of the store, key and env file.
//
// Returns ErrInvalidStore if the store file exists but cannot be parsed.
func Status(ctx context.Context, env *Env) (*StatusResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result := &StatusResult{
		ProjectPath: env.Config.ProjectPath,
		StorePath:   env.Store.Path(),
		EnvPath:     env.Config.EnvPath,
	}

	info, err := env.Store.Info()
	switch {
	case err == nil:
		result.Initialized = true
		result.StoreID = info.StoreID
		result.Count = info.Count
	case errors.Is(err, derrors.ErrStoreNotInitialized):
	default:
		return nil, err
	}

	if result.Initialized {
		if _, err := env.Keys.GetKey(); err != nil {
			result.KeyErr = err
		} else {
			result.KeyBackend = env.Keys.Backend()
		}
	}

	if _, err := os.Stat(env.Config.EnvPath); err == nil {
		result.EnvFileExists = true
	}

	if repo, err := ResolveRepo(env, ""); err == nil {
		result.Repo = repo.String()
	}

	return result, nil
}
