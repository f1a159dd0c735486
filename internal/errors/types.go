package errors

import (
	"errors"
	"fmt"
)

// ValidationError reports a field that failed local validation.
// It matches ErrValidation and whatever Cause it carries.
type ValidationError struct {
	Field  string
	Reason string
	Cause  error
}

// NewValidationError builds a ValidationError for field.
func NewValidationError(field string, cause error, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason, Cause: cause}
}

func (e *ValidationError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("%s: %s", e.Field, ErrValidation)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// Is reports ErrValidation so callers do not need errors.As.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

func (e *ValidationError) Unwrap() error {
	return e.Cause
}

// StoreError wraps a failed store call with the operation and record id.
type StoreError struct {
	Op  string
	ID  string
	Err error
}

// NewStoreError returns nil when err is nil.
func NewStoreError(op, id string, err error) error {
	if err == nil {
		return nil
	}
	return &StoreError{Op: op, ID: id, Err: err}
}

func (e *StoreError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.ID, e.Err)
}

func (e *StoreError) Is(target error) bool {
	return target == ErrStore
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// PartialReorderError is the single failure signal for a reorder whose
// position updates did not all succeed. Err joins every individual failure.
type PartialReorderError struct {
	Attempted int
	Failed    int
	Err       error
}

func (e *PartialReorderError) Error() string {
	return fmt.Sprintf("%s: %d of %d position updates failed", ErrPartialReorder, e.Failed, e.Attempted)
}

func (e *PartialReorderError) Is(target error) bool {
	return target == ErrPartialReorder
}

func (e *PartialReorderError) Unwrap() error {
	return e.Err
}

// IsValidation reports whether err is, or wraps, a validation failure.
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}
