package flock

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/mrz1836/cliengo/internal/constants"
	"github.com/mrz1836/cliengo/internal/ctxutil"
	cliengoerrors "github.com/mrz1836/cliengo/internal/errors"
)

const lockFilePerm = 0o600

// Lock is a held exclusive lock.
type Lock struct {
	f *os.File
}

// Acquire polls for an exclusive lock on path until it is free, ctx ends, or
// timeout passes. The lock file and its directory are created if missing.
func Acquire(ctx context.Context, path string, timeout time.Duration) (*Lock, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create lock directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, lockFilePerm) //#nosec G304 -- path is built by the caller's store
	if err != nil {
		return nil, fmt.Errorf("failed to open lock file: %w", err)
	}

	deadline := time.Now().Add(timeout)
	for {
		if err := ctxutil.Canceled(ctx); err != nil {
			_ = f.Close()
			return nil, err
		}
		if err := tryLock(f.Fd()); err == nil {
			return &Lock{f: f}, nil
		}
		if time.Now().After(deadline) {
			_ = f.Close()
			return nil, fmt.Errorf("failed to acquire lock %s: %w", path, cliengoerrors.ErrLockTimeout)
		}
		if err := ctxutil.Sleep(ctx, constants.LockRetryInterval); err != nil {
			_ = f.Close()
			return nil, err
		}
	}
}

// Release unlocks and closes the lock file. It is safe on a nil Lock.
func (l *Lock) Release() error {
	if l == nil || l.f == nil {
		return nil
	}
	f := l.f
	l.f = nil
	if err := unlock(f.Fd()); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to release lock: %w", err)
	}
	return f.Close()
}
