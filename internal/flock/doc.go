// Package flock takes advisory, exclusive file locks so several cliengo
// processes can share one file store.
//
//	l, err := flock.Acquire(ctx, filepath.Join(dir, ".lock"), 5*time.Second)
//	if err != nil {
//	    return err
//	}
//	defer l.Release()
package flock
