package errors_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cliengoerrors "github.com/mrz1836/cliengo/internal/errors"
)

func TestSentinelErrors_Messages(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{"ErrValidation", cliengoerrors.ErrValidation, "validation failed"},
		{"ErrStore", cliengoerrors.ErrStore, "store operation failed"},
		{"ErrPartialReorder", cliengoerrors.ErrPartialReorder, "reorder was not fully persisted"},
		{"ErrClientNotFound", cliengoerrors.ErrClientNotFound, "client not found"},
		{"ErrProfileNotFound", cliengoerrors.ErrProfileNotFound, "profile not found"},
		{"ErrConfigNil", cliengoerrors.ErrConfigNil, "config is nil"},
		{"ErrEphemeralBackend", cliengoerrors.ErrEphemeralBackend, "store backend does not persist between runs"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.expected, tc.err.Error())
		})
	}
}

func TestValidationError(t *testing.T) {
	t.Parallel()

	err := cliengoerrors.NewValidationError("name", cliengoerrors.ErrEmptyValue, "name is required")

	require.ErrorIs(t, err, cliengoerrors.ErrValidation)
	require.ErrorIs(t, err, cliengoerrors.ErrEmptyValue)
	assert.NotErrorIs(t, err, cliengoerrors.ErrStore)
	assert.Equal(t, "name: name is required", err.Error())
	assert.True(t, cliengoerrors.IsValidation(fmt.Errorf("wrapped: %w", err)))

	bare := &cliengoerrors.ValidationError{Field: "status"}
	assert.Equal(t, "status: validation failed", bare.Error())
}

func TestStoreError(t *testing.T) {
	t.Parallel()

	t.Run("nil passes through", func(t *testing.T) {
		t.Parallel()
		require.NoError(t, cliengoerrors.NewStoreError("update", "a", nil))
	})

	t.Run("keeps the cause chain", func(t *testing.T) {
		t.Parallel()
		err := cliengoerrors.NewStoreError("update", "abc", cliengoerrors.ErrClientNotFound)

		require.ErrorIs(t, err, cliengoerrors.ErrStore)
		require.ErrorIs(t, err, cliengoerrors.ErrClientNotFound)
		assert.Equal(t, "update abc: client not found", err.Error())

		var storeErr *cliengoerrors.StoreError
		require.ErrorAs(t, err, &storeErr)
		assert.Equal(t, "update", storeErr.Op)
	})

	t.Run("without id", func(t *testing.T) {
		t.Parallel()
		err := cliengoerrors.NewStoreError("list", "", errors.New("boom"))
		assert.Equal(t, "list: boom", err.Error())
	})
}

func TestPartialReorderError(t *testing.T) {
	t.Parallel()

	first := cliengoerrors.NewStoreError("update", "b", errors.New("timeout"))
	second := cliengoerrors.NewStoreError("update", "c", errors.New("timeout"))
	err := &cliengoerrors.PartialReorderError{Attempted: 3, Failed: 2, Err: errors.Join(first, second)}

	require.ErrorIs(t, err, cliengoerrors.ErrPartialReorder)
	require.ErrorIs(t, err, cliengoerrors.ErrStore)
	assert.Contains(t, err.Error(), "2 of 3")
}

func TestExitCode2Error(t *testing.T) {
	t.Parallel()

	inner := cliengoerrors.NewValidationError("task", cliengoerrors.ErrEmptyValue, "task is required")
	err := cliengoerrors.NewExitCode2Error(inner)

	assert.True(t, cliengoerrors.IsExitCode2Error(err))
	assert.True(t, cliengoerrors.IsExitCode2Error(fmt.Errorf("cmd: %w", err)))
	assert.False(t, cliengoerrors.IsExitCode2Error(inner))
	require.ErrorIs(t, err, cliengoerrors.ErrValidation)
	assert.Equal(t, inner.Error(), err.Error())
}

func TestWrap(t *testing.T) {
	t.Parallel()

	require.NoError(t, cliengoerrors.Wrap(nil, "ignored"))
	require.NoError(t, cliengoerrors.Wrapf(nil, "ignored %d", 1))

	err := cliengoerrors.Wrapf(cliengoerrors.ErrClientNotFound, "read client %s", "x")
	require.ErrorIs(t, err, cliengoerrors.ErrClientNotFound)
	assert.Equal(t, "read client x: client not found", err.Error())
}

func TestActionable(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		err        error
		wantMsg    string
		wantAction bool
	}{
		{"nil", nil, "", false},
		{"not found", cliengoerrors.NewStoreError("update", "x", cliengoerrors.ErrClientNotFound), "Client not found.", true},
		{
			"partial reorder wins over store",
			&cliengoerrors.PartialReorderError{Attempted: 2, Failed: 1, Err: cliengoerrors.NewStoreError("update", "a", errors.New("x"))},
			"The new order could not be saved. The previous order was restored.",
			true,
		},
		{"validation keeps text", cliengoerrors.NewValidationError("name", nil, "name is required"), "name: name is required", false},
		{"unknown", errors.New("something odd"), "something odd", false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			msg, action := cliengoerrors.Actionable(tc.err)
			assert.Equal(t, tc.wantMsg, msg)
			assert.Equal(t, tc.wantAction, action != "")
			assert.Equal(t, msg, cliengoerrors.UserMessage(tc.err))
		})
	}
}
