package tui

import (
	"encoding/json"
	"errors"
	"io"
)

// JSONOutput writes one JSON object per message, for scripts and non-TTY use.
type JSONOutput struct {
	encoder *json.Encoder
}

// NewJSONOutput creates a JSONOutput.
func NewJSONOutput(w io.Writer) *JSONOutput {
	return &JSONOutput{encoder: json.NewEncoder(w)}
}

type jsonMessage struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

type jsonError struct {
	Type       string `json:"type"`
	Message    string `json:"message"`
	Suggestion string `json:"suggestion,omitempty"`
}

// Success writes {"type":"success","message":...}.
func (o *JSONOutput) Success(msg string) {
	_ = o.encoder.Encode(jsonMessage{Type: "success", Message: msg}) //nolint:errchkjson // no error return in interface
}

// Error writes {"type":"error","message":...,"suggestion":...}.
func (o *JSONOutput) Error(err error) {
	out := jsonError{Type: "error", Message: err.Error()}
	var ae *ActionableError
	if errors.As(err, &ae) {
		out.Suggestion = ae.Suggestion
	}
	_ = o.encoder.Encode(out) //nolint:errchkjson // no error return in interface
}

// Warning writes {"type":"warning","message":...}.
func (o *JSONOutput) Warning(msg string) {
	_ = o.encoder.Encode(jsonMessage{Type: "warning", Message: msg}) //nolint:errchkjson // no error return in interface
}

// Info writes {"type":"info","message":...}.
func (o *JSONOutput) Info(msg string) {
	_ = o.encoder.Encode(jsonMessage{Type: "info", Message: msg}) //nolint:errchkjson // no error return in interface
}

// Table writes an array of objects keyed by header.
func (o *JSONOutput) Table(headers []string, rows [][]string) {
	result := make([]map[string]string, 0, len(rows))
	for _, row := range rows {
		obj := make(map[string]string, len(headers))
		for i, h := range headers {
			if i < len(row) {
				obj[h] = row[i]
			} else {
				obj[h] = ""
			}
		}
		result = append(result, obj)
	}
	_ = o.encoder.Encode(result) //nolint:errchkjson // no error return in interface
}

// JSON writes v.
func (o *JSONOutput) JSON(v any) error {
	return o.encoder.Encode(v)
}
