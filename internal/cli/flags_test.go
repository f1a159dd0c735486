package cli

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mrz1836/cliengo/internal/errors"
)

func TestIsValidOutputFormat(t *testing.T) {
	t.Parallel()

	assert.True(t, IsValidOutputFormat(OutputText))
	assert.True(t, IsValidOutputFormat(OutputJSON))
	assert.False(t, IsValidOutputFormat("yaml"))
	assert.False(t, IsValidOutputFormat(""))
}

func TestExitCodeForError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitSuccess},
		{"generic", stderrors.New("boom"), ExitError},
		{"store failure", errors.NewStoreError("update", "a", stderrors.New("down")), ExitError},
		{"not signed in", errors.ErrNotSignedIn, ExitError},
		{"exit code 2 wrapper", errors.NewExitCode2Error(stderrors.New("bad")), ExitInvalidInput},
		{"validation", errors.NewValidationError("name", errors.ErrEmptyValue, "name is required"), ExitInvalidInput},
		{
			"validation behind JSON output",
			fmt.Errorf("%w: %w", errors.ErrJSONErrorOutput, errors.NewValidationError("task", nil, "x")),
			ExitInvalidInput,
		},
		{"invalid output format", errors.ErrInvalidOutputFormat, ExitInvalidInput},
		{"unknown flag", stderrors.New("unknown flag: --bogus"), ExitInvalidInput},
		{"wrong arg count", stderrors.New("accepts 2 arg(s), received 1"), ExitInvalidInput},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, ExitCodeForError(tc.err))
		})
	}
}
