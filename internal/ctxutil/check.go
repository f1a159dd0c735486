// Package ctxutil holds small context helpers used at store entry points.
package ctxutil

import (
	"context"
	"time"
)

// Canceled returns ctx.Err(): nil while the context is live, otherwise
// context.Canceled or context.DeadlineExceeded.
func Canceled(ctx context.Context) error {
	return ctx.Err()
}

// Sleep waits for d or until ctx is done, whichever comes first.
// It returns ctx.Err() when the context ended the wait.
func Sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
