package pipeline

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// acquireLock takes the per-tool file lock guarding mutating pipeline runs.
// Concurrent invocations are not a supported use case; the lock exists so an
// accidental overlap fails fast instead of interleaving sheet writes and
// catalog registrations. The returned release function must be called once.
func acquireLock(dir string) (func(), error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("ensure lock directory: %w", err)
	}
	lockPath := filepath.Join(dir, "tabbycat.lock")
	lock := flock.New(lockPath)

	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire lock %s: %w", lockPath, err)
	}
	if !ok {
		return nil, Wrap(ErrLocked, "lock", lockPath, nil)
	}
	return func() { _ = lock.Unlock() }, nil
}
