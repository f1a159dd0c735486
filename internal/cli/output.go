package cli

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/mrz1836/cliengo/internal/errors"
	"github.com/mrz1836/cliengo/internal/tui"
)

// getOutputFormat returns json when the command's --json flag is set,
// otherwise the global --output value.
func getOutputFormat(cmd *cobra.Command, jsonFlag bool) string {
	if jsonFlag {
		return OutputJSON
	}
	if flag := cmd.Flag("output"); flag != nil {
		return flag.Value.String()
	}
	return OutputText
}

// jsonResult is the envelope every JSON command response uses.
type jsonResult struct {
	Success bool   `json:"success"`
	Command string `json:"command"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
	Action  string `json:"action,omitempty"`
}

func writeJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(v); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

// outputResult writes data wrapped in a success envelope.
func outputResult(w io.Writer, command string, data any) error {
	return writeJSON(w, jsonResult{Success: true, Command: command, Data: data})
}

// outputError writes err as a JSON envelope and returns ErrJSONErrorOutput
// wrapping err, so the exit code still reflects the cause. In text mode err
// is returned unchanged.
func outputError(w io.Writer, format, command string, err error) error {
	if format != OutputJSON {
		return err
	}
	msg, action := errors.Actionable(err)
	if encErr := writeJSON(w, jsonResult{Command: command, Error: msg, Action: action}); encErr != nil {
		return encErr
	}
	return fmt.Errorf("%w: %w", errors.ErrJSONErrorOutput, err)
}

// printError renders an error that reached Execute. Errors already written
// as JSON are skipped.
func printError(w io.Writer, format string, err error) {
	if stderrors.Is(err, errors.ErrJSONErrorOutput) || stderrors.Is(err, errors.ErrMenuCanceled) {
		return
	}
	msg, action := errors.Actionable(err)
	tui.NewOutput(w, format).Error(tui.NewActionableError(msg, action).Wrap(err))
}
