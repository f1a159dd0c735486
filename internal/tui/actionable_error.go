package tui

// ActionableError pairs an error message with a next step for the user.
//
//	err := NewActionableError("not signed in", "Run: cliengo login --email you@example.com")
//	out.Error(err)
//	// ✗ not signed in
//	//   ▸ Try: cliengo login --email you@example.com
type ActionableError struct {
	Message    string
	Suggestion string
	// Err is the underlying error, kept for errors.Is.
	Err error
}

// NewActionableError creates an ActionableError.
func NewActionableError(msg, suggestion string) *ActionableError {
	return &ActionableError{Message: msg, Suggestion: suggestion}
}

// Wrap attaches err as the cause.
func (e *ActionableError) Wrap(err error) *ActionableError {
	e.Err = err
	return e
}

func (e *ActionableError) Error() string {
	return e.Message
}

func (e *ActionableError) Unwrap() error {
	return e.Err
}
