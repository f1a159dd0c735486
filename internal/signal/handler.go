// Package signal cancels the command context when the user interrupts cliengo.
//
// It only imports the standard library so cmd/cliengo can use it before any
// other package is initialized.
package signal

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"
)

// ExitCodeInterrupted is the conventional exit status after SIGINT.
const ExitCodeInterrupted = 130

// Handler cancels its context on the first SIGINT or SIGTERM.
type Handler struct {
	ctx    context.Context //nolint:containedctx // the handler owns this context's lifetime
	cancel context.CancelFunc

	mu       sync.Mutex
	received os.Signal

	interrupted chan struct{}
	done        chan struct{}
	sigChan     chan os.Signal
	fireOnce    sync.Once
	stopOnce    sync.Once
}

// NewHandler starts listening for SIGINT and SIGTERM.
//
//	h := signal.NewHandler(ctx)
//	defer h.Stop()
//	err := run(h.Context())
func NewHandler(parent context.Context) *Handler {
	ctx, cancel := context.WithCancel(parent)
	h := &Handler{
		ctx:         ctx,
		cancel:      cancel,
		interrupted: make(chan struct{}),
		done:        make(chan struct{}),
		sigChan:     make(chan os.Signal, 1),
	}
	signal.Notify(h.sigChan, syscall.SIGINT, syscall.SIGTERM)
	go h.listen()
	return h
}

// Context is canceled when a signal arrives or Stop is called.
func (h *Handler) Context() context.Context {
	return h.ctx
}

// Interrupted is closed when a signal arrives.
func (h *Handler) Interrupted() <-chan struct{} {
	return h.interrupted
}

// Received returns the signal that interrupted the process, or nil.
func (h *Handler) Received() os.Signal {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.received
}

// Stop releases the signal subscription and cancels the context.
func (h *Handler) Stop() {
	h.stopOnce.Do(func() {
		signal.Stop(h.sigChan)
		close(h.done)
		h.cancel()
	})
}

func (h *Handler) fire(sig os.Signal) {
	h.fireOnce.Do(func() {
		h.mu.Lock()
		h.received = sig
		h.mu.Unlock()
		h.cancel()
		close(h.interrupted)
	})
}

func (h *Handler) listen() {
	for {
		select {
		case <-h.ctx.Done():
			return
		case <-h.done:
			return
		case sig := <-h.sigChan:
			h.fire(sig)
		}
	}
}
