// Package testutil provides test doubles shared across cliengo packages.
//
// It should only be imported by test files (*_test.go).
package testutil

import "errors"

// Mock errors for simulating backend failures.
var (
	// ErrMockStoreUnavailable simulates a store that cannot be reached.
	ErrMockStoreUnavailable = errors.New("store unavailable")

	// ErrMockTimeout simulates a store call that timed out.
	ErrMockTimeout = errors.New("timeout")

	// ErrMockBlobWrite simulates a failed blob upload.
	ErrMockBlobWrite = errors.New("blob write failed")
)
