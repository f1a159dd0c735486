// Package errors provides centralized error handling for cliengo.
//
// This package defines sentinel errors used for programmatic error categorization
// throughout the application. All error types can be checked using errors.Is().
//
// IMPORTANT: This package MUST NOT import any other internal packages.
// Only standard library imports are allowed.
package errors

import "errors"

// Sentinel errors for error categorization.
// These allow callers to check error types with errors.Is().
// All errors use lowercase descriptions per Go conventions.
var (
	// ErrValidation indicates that a record or profile failed local validation.
	// No store call is made when this is returned.
	ErrValidation = errors.New("validation failed")

	// ErrStore indicates that a call to the record or profile store failed.
	ErrStore = errors.New("store operation failed")

	// ErrPartialReorder indicates that at least one position update of a
	// reorder failed and the local order was restored.
	ErrPartialReorder = errors.New("reorder was not fully persisted")

	// ErrClientNotFound indicates that no client record exists with the given id
	// for the requesting owner.
	ErrClientNotFound = errors.New("client not found")

	// ErrProfileNotFound indicates that the owner has no stored profile row.
	ErrProfileNotFound = errors.New("profile not found")

	// ErrOwnerRequired indicates that a store call was made without an owner id.
	ErrOwnerRequired = errors.New("owner id is required")

	// ErrMalformedRecord indicates that a persisted record could not be decoded.
	ErrMalformedRecord = errors.New("malformed record")

	// ErrInvalidStatus indicates an unknown client status value.
	ErrInvalidStatus = errors.New("invalid status")

	// ErrInvalidPriority indicates an unknown client priority value.
	ErrInvalidPriority = errors.New("invalid priority")

	// ErrIndexOutOfRange indicates a display index outside the current view.
	ErrIndexOutOfRange = errors.New("index out of range")

	// ErrEmptyValue indicates that a required field was empty.
	ErrEmptyValue = errors.New("value cannot be empty")

	// ErrInvalidDate indicates a date that could not be parsed or is out of order.
	ErrInvalidDate = errors.New("invalid date")

	// ErrAvatarTooLarge indicates an avatar upload over the size limit.
	ErrAvatarTooLarge = errors.New("avatar exceeds maximum size")

	// ErrAvatarUnsupportedType indicates an avatar upload with a content type
	// outside the allowed list.
	ErrAvatarUnsupportedType = errors.New("unsupported avatar type")

	// ErrNotSignedIn indicates that an operation needs a principal and none is stored.
	ErrNotSignedIn = errors.New("not signed in")

	// ErrLockTimeout indicates that a file lock could not be acquired in time.
	ErrLockTimeout = errors.New("lock acquisition timeout")

	// ErrUnknownBackend indicates a store backend name that is not supported.
	ErrUnknownBackend = errors.New("unknown store backend")

	// ErrEphemeralBackend indicates a store backend that keeps nothing between runs.
	ErrEphemeralBackend = errors.New("store backend does not persist between runs")

	// ErrConfigNil indicates that a nil config was passed to validation.
	ErrConfigNil = errors.New("config is nil")

	// ErrConfigInvalidStore indicates an invalid store configuration value.
	ErrConfigInvalidStore = errors.New("invalid store configuration")

	// ErrConfigInvalidAvatar indicates an invalid avatar configuration value.
	ErrConfigInvalidAvatar = errors.New("invalid avatar configuration")

	// ErrConfigInvalidReorder indicates an invalid reorder configuration value.
	ErrConfigInvalidReorder = errors.New("invalid reorder configuration")

	// ErrInvalidOutputFormat indicates an unsupported --output value.
	ErrInvalidOutputFormat = errors.New("invalid output format")

	// ErrInvalidArgument indicates a malformed positional argument.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrJSONErrorOutput is returned after an error has already been written
	// as JSON, so the caller only needs to set the exit code.
	ErrJSONErrorOutput = errors.New("error already output as JSON")

	// ErrNonInteractiveMode indicates that a prompt was needed but the
	// terminal is not interactive.
	ErrNonInteractiveMode = errors.New("cannot prompt in non-interactive mode")

	// ErrOperationCanceled indicates that the user declined a confirmation.
	ErrOperationCanceled = errors.New("operation canceled by user")

	// ErrMenuCanceled indicates the user left an interactive form with q or Esc.
	ErrMenuCanceled = errors.New("menu canceled by user")

	// ErrNoMenuOptions indicates a select menu was built without options.
	ErrNoMenuOptions = errors.New("no menu options provided")
)

// ExitCode2Error wraps an error to indicate exit code 2 should be used.
// Exit code 2 means invalid input.
type ExitCode2Error struct {
	Err error
}

// NewExitCode2Error wraps an error to indicate exit code 2.
func NewExitCode2Error(err error) *ExitCode2Error {
	return &ExitCode2Error{Err: err}
}

// Error implements the error interface.
func (e *ExitCode2Error) Error() string {
	return e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *ExitCode2Error) Unwrap() error {
	return e.Err
}

// IsExitCode2Error checks if an error should result in exit code 2.
func IsExitCode2Error(err error) bool {
	var e *ExitCode2Error
	return errors.As(err, &e)
}
