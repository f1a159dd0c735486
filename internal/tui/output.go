package tui

import (
	"io"
)

// Output formats accepted by NewOutput.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// Output writes command results either styled for a terminal or as JSON.
type Output interface {
	// Success prints a success message.
	Success(msg string)
	// Error prints an error, with its suggestion when it is an ActionableError.
	Error(err error)
	// Warning prints a warning message.
	Warning(msg string)
	// Info prints an informational message.
	Info(msg string)
	// Table prints rows under headers.
	Table(headers []string, rows [][]string)
	// JSON writes v as indented JSON.
	JSON(v any) error
}

// NewOutput creates the Output for format.
func NewOutput(w io.Writer, format string) Output {
	if format == FormatJSON {
		return NewJSONOutput(w)
	}
	return NewTTYOutput(w)
}
