package generator

import (
	"errors"
	"fmt"
	"os"

	"github.com/gofrs/flock"
)

// ErrKeysLocked is returned when another run holds the lock on a keys file.
var ErrKeysLocked = errors.New("keys file is locked by another run")

const lockSuffix = ".lock"

// acquireLock takes an exclusive lock on the keys output of methods that
// rewrite it. Keys inputs are never locked; they are only ever replaced by
// rename. The returned func removes the lock file and releases the lock.
func acquireLock(opts Options) (func(), error) {
	if !opts.Method.MintsKeys() {
		return func() {}, nil
	}

	fl := flock.New(opts.KeysOut + lockSuffix)
	ok, err := fl.TryLock()
	if err != nil {
		return nil, fmt.Errorf("lock %s: %w", opts.KeysOut, err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrKeysLocked, opts.KeysOut)
	}
	return func() {
		// Remove before Unlock so the path never names an unlocked file.
		os.Remove(fl.Path())
		_ = fl.Unlock()
	}, nil
}
