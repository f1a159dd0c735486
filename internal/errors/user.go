package errors

import "errors"

// ErrorInfo holds user-facing message and suggested action for an error.
type ErrorInfo struct {
	// Message is the user-friendly error description.
	Message string
	// Action is a suggested action to resolve the issue (empty if none).
	Action string
}

type errorEntry struct {
	err  error
	info ErrorInfo
}

// errorInfoEntries is ordered most specific first: a PartialReorderError also
// wraps store failures, so it must be matched before ErrStore.
//
//nolint:gochecknoglobals // Pre-built mapping
var errorInfoEntries = []errorEntry{
	{
		err: ErrPartialReorder,
		info: ErrorInfo{
			Message: "The new order could not be saved. The previous order was restored.",
			Action:  "Run 'cliengo client list' to confirm the order, then retry the move.",
		},
	},
	{
		err: ErrClientNotFound,
		info: ErrorInfo{
			Message: "Client not found.",
			Action:  "Run 'cliengo client list' to see available clients.",
		},
	},
	{
		err: ErrNotSignedIn,
		info: ErrorInfo{
			Message: "You are not signed in.",
			Action:  "Run 'cliengo login --email you@example.com' first.",
		},
	},
	{
		err: ErrAvatarTooLarge,
		info: ErrorInfo{
			Message: "The image is too large.",
			Action:  "Use an image of 5MB or less.",
		},
	},
	{
		err: ErrAvatarUnsupportedType,
		info: ErrorInfo{
			Message: "Only JPG, PNG and WEBP images are allowed.",
		},
	},
	{
		err: ErrLockTimeout,
		info: ErrorInfo{
			Message: "Another cliengo process is writing to the store.",
			Action:  "Wait a moment and retry.",
		},
	},
	{
		err: ErrEphemeralBackend,
		info: ErrorInfo{
			Message: "The memory store backend only lives for one process.",
			Action:  "Set store.backend to file, sqlite or redis.",
		},
	},
	{
		err: ErrUnknownBackend,
		info: ErrorInfo{
			Message: "The configured store backend is not supported.",
			Action:  "Set store.backend to one of: file, sqlite, redis.",
		},
	},
	{
		err: ErrStore,
		info: ErrorInfo{
			Message: "The data store rejected the request.",
			Action:  "Check the log file under ~/.cliengo/logs for details.",
		},
	},
}

// UserMessage returns a user-friendly message for common errors.
// Validation errors keep their own text since it names the field.
// For unrecognized errors, it returns the error's original message.
func UserMessage(err error) string {
	msg, _ := Actionable(err)
	return msg
}

// Actionable returns a user-friendly error message along with a suggested
// action. The action is empty when there is nothing to suggest.
func Actionable(err error) (message, action string) {
	if err == nil {
		return "", ""
	}
	if IsValidation(err) {
		return err.Error(), ""
	}
	for _, entry := range errorInfoEntries {
		if errors.Is(err, entry.err) {
			return entry.info.Message, entry.info.Action
		}
	}
	return err.Error(), ""
}
