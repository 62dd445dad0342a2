// Package interrupt turns SIGINT/SIGTERM into context cancellation with a
// forced exit on the second signal.
//
// The first signal cancels the returned context so a running analysis is
// abandoned or the API server drains its connections. A second signal
// while that is still in progress exits the process immediately.
package interrupt

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"
)

// ExitInterrupt is the conventional exit code for SIGINT (128 + 2).
const ExitInterrupt = 130

const (
	stoppingMessage = "\nStopping... press Ctrl+C again to force quit."
	forcedMessage   = "\nForced quit."
)

// Handler listens for termination signals. Call Stop when done.
type Handler struct {
	mu          sync.Mutex
	signals     int
	stopped     bool
	cancelFunc  context.CancelFunc
	done        chan struct{}
	unsubscribe func()

	exitFunc func(int)
	stderr   io.Writer
}

// Options configures a Handler for testing.
type Options struct {
	// SigCh delivers signals. Nil disables listening.
	SigCh    <-chan os.Signal
	// ExitFunc replaces os.Exit.
	ExitFunc func(int)
	// Stderr receives the stop notices. Defaults to os.Stderr.
	Stderr   io.Writer
}

// NewHandler subscribes to SIGINT and SIGTERM and returns a context that is
// cancelled on the first one.
func NewHandler(parent context.Context) (*Handler, context.Context) {
	sigCh := make(chan os.Signal, 2)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	h, ctx := newHandler(parent, Options{SigCh: sigCh})
	h.unsubscribe = func() { signal.Stop(sigCh) }
	return h, ctx
}

// NewHandlerWithOptions is NewHandler with injected signal source and exit.
func NewHandlerWithOptions(parent context.Context, opts Options) (*Handler, context.Context) {
	return newHandler(parent, opts)
}

func newHandler(parent context.Context, opts Options) (*Handler, context.Context) {
	ctx, cancel := context.WithCancel(parent)

	h := &Handler{
		cancelFunc: cancel,
		done:       make(chan struct{}),
		exitFunc:   opts.ExitFunc,
		stderr:     opts.Stderr,
	}
	if h.exitFunc == nil {
		h.exitFunc = os.Exit
	}
	if h.stderr == nil {
		h.stderr = os.Stderr
	}

	if opts.SigCh != nil {
		go h.listen(opts.SigCh)
	}
	return h, ctx
}

func (h *Handler) listen(sigCh <-chan os.Signal) {
	for {
		select {
		case <-h.done:
			return
		case _, ok := <-sigCh:
			if !ok {
				return
			}

			h.mu.Lock()
			if h.stopped {
				h.mu.Unlock()
				return
			}
			h.signals++
			first := h.signals == 1
			h.mu.Unlock()

			if first {
				fmt.Fprintln(h.stderr, stoppingMessage)
				h.cancelFunc()
				continue
			}
			fmt.Fprintln(h.stderr, forcedMessage)
			h.exitFunc(ExitInterrupt)
			return
		}
	}
}

// WasInterrupted reports whether at least one signal arrived.
func (h *Handler) WasInterrupted() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.signals > 0
}

// Stop unsubscribes from signals and releases the context. Safe to call
// more than once.
func (h *Handler) Stop() {
	h.mu.Lock()
	if h.stopped {
		h.mu.Unlock()
		return
	}
	h.stopped = true
	h.mu.Unlock()

	if h.unsubscribe != nil {
		h.unsubscribe()
	}
	close(h.done)
	h.cancelFunc()
}
