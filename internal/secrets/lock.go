package secrets

import (
	"context"
	"errors"
	"fmt"
	"time"

	derrors "github.com/devforge/devforge/internal/errors"

	"github.com/gofrs/flock"
)

const lockRetryDelay = 50 * time.Millisecond

// lockFile takes the advisory writer lock next to the store file. The
// returned func releases it.
func lockFile(ctx context.Context, storePath string, timeout time.Duration) (func(), error) {
	fl := flock.New(storePath + ".lock")

	lockCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	locked, err := fl.TryLockContext(lockCtx, lockRetryDelay)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: waited %s for %s", derrors.ErrStoreLocked, timeout, fl.Path())
		}
		return nil, fmt.Errorf("failed to lock %s: %w", fl.Path(), err)
	}
	if !locked {
		return nil, fmt.Errorf("%w: waited %s for %s", derrors.ErrStoreLocked, timeout, fl.Path())
	}

	return func() { _ = fl.Unlock() }, nil
}
