package signal

import (
	"context"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestHandler_FireCancelsContext(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	h := NewHandler(context.Background())
	defer h.Stop()

	h.fire(syscall.SIGINT)

	require.Error(t, h.Context().Err())
	assert.Equal(t, context.Canceled, h.Context().Err())
	assert.Equal(t, syscall.SIGINT, h.Received())

	select {
	case <-h.Interrupted():
	default:
		t.Fatal("interrupted channel should be closed after a signal")
	}
}

func TestHandler_OnlyFirstSignalCounts(t *testing.T) {
	h := NewHandler(context.Background())
	defer h.Stop()

	h.fire(syscall.SIGTERM)
	h.fire(syscall.SIGINT)

	assert.Equal(t, syscall.SIGTERM, h.Received())
}

func TestHandler_StopWithoutSignal(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	h := NewHandler(context.Background())
	h.Stop()
	h.Stop()

	require.ErrorIs(t, h.Context().Err(), context.Canceled)
	assert.Nil(t, h.Received())

	select {
	case <-h.Interrupted():
		t.Fatal("interrupted channel should stay open when no signal arrived")
	default:
	}
}

func TestHandler_ParentCancel(t *testing.T) {
	parent, cancel := context.WithCancel(context.Background())
	h := NewHandler(parent)
	defer h.Stop()

	cancel()
	<-h.Context().Done()
	assert.Nil(t, h.Received())
}
