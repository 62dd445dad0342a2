package interrupt_test

// Notes:
// - Signals are injected through NewHandlerWithOptions; exit is captured.
// - ctx.Done() confirms the first signal was processed before sending the
//   second one.

import (
	"bytes"
	"context"
	"os"
	"sync"
	"sync/atomic"
	"syscall"
	"testing"
	"time"

	"github.com/alnah/go-studyguide/internal/interrupt"
)

// syncBuffer is a thread-safe bytes.Buffer for testing.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) Contains(substr string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return bytes.Contains(b.buf.Bytes(), []byte(substr))
}

func waitDone(t *testing.T, ctx context.Context) {
	t.Helper()
	select {
	case <-ctx.Done():
	case <-time.After(time.Second):
		t.Fatal("context was not canceled")
	}
}

// ---------------------------------------------------------------------------
// Constructors
// ---------------------------------------------------------------------------

func TestNewHandler(t *testing.T) {
	t.Parallel()

	h, ctx := interrupt.NewHandler(context.Background())
	if h == nil || ctx == nil {
		t.Fatal("NewHandler returned nil")
	}

	select {
	case <-ctx.Done():
		t.Fatal("context should not be canceled before any signal")
	default:
	}
	if h.WasInterrupted() {
		t.Error("WasInterrupted should be false before any signal")
	}

	h.Stop()
	h.Stop()
}

// ---------------------------------------------------------------------------
// Signal handling
// ---------------------------------------------------------------------------

func TestHandler_FirstSignalCancels(t *testing.T) {
	t.Parallel()

	sigCh := make(chan os.Signal, 2)
	stderr := &syncBuffer{}
	var exits atomic.Int32
	h, ctx := interrupt.NewHandlerWithOptions(context.Background(), interrupt.Options{
		SigCh:    sigCh,
		ExitFunc: func(int) { exits.Add(1) },
		Stderr:   stderr,
	})
	defer h.Stop()

	sigCh <- syscall.SIGINT
	waitDone(t, ctx)

	if !h.WasInterrupted() {
		t.Error("WasInterrupted should be true after a signal")
	}
	if !stderr.Contains("press Ctrl+C again") {
		t.Error("first signal should print the stopping notice")
	}
	if exits.Load() != 0 {
		t.Error("first signal should not exit")
	}
}

func TestHandler_SecondSignalForcesExit(t *testing.T) {
	t.Parallel()

	sigCh := make(chan os.Signal, 2)
	stderr := &syncBuffer{}
	codes := make(chan int, 1)
	h, ctx := interrupt.NewHandlerWithOptions(context.Background(), interrupt.Options{
		SigCh:    sigCh,
		ExitFunc: func(code int) { codes <- code },
		Stderr:   stderr,
	})
	defer h.Stop()

	sigCh <- syscall.SIGTERM
	waitDone(t, ctx)
	sigCh <- syscall.SIGINT

	select {
	case code := <-codes:
		if code != interrupt.ExitInterrupt {
			t.Errorf("exit code = %d, want %d", code, interrupt.ExitInterrupt)
		}
	case <-time.After(time.Second):
		t.Fatal("second signal did not exit")
	}
	if !stderr.Contains("Forced quit.") {
		t.Error("second signal should print the forced notice")
	}
}

func TestHandler_StopIgnoresLaterSignals(t *testing.T) {
	t.Parallel()

	sigCh := make(chan os.Signal, 2)
	var exits atomic.Int32
	h, ctx := interrupt.NewHandlerWithOptions(context.Background(), interrupt.Options{
		SigCh:    sigCh,
		ExitFunc: func(int) { exits.Add(1) },
		Stderr:   &syncBuffer{},
	})

	h.Stop()
	waitDone(t, ctx)
	sigCh <- syscall.SIGINT
	sigCh <- syscall.SIGINT
	time.Sleep(50 * time.Millisecond)

	if exits.Load() != 0 {
		t.Error("signals after Stop should be ignored")
	}
}

func TestHandler_NilSigCh(t *testing.T) {
	t.Parallel()

	h, ctx := interrupt.NewHandlerWithOptions(context.Background(), interrupt.Options{})
	defer h.Stop()

	select {
	case <-ctx.Done():
		t.Fatal("context should stay open without a signal source")
	default:
	}
}

func TestHandler_ChannelClosed(t *testing.T) {
	t.Parallel()

	sigCh := make(chan os.Signal)
	h, ctx := interrupt.NewHandlerWithOptions(context.Background(), interrupt.Options{SigCh: sigCh})
	close(sigCh)
	time.Sleep(20 * time.Millisecond)

	if h.WasInterrupted() {
		t.Error("closing the channel is not an interrupt")
	}
	select {
	case <-ctx.Done():
		t.Fatal("closing the channel should not cancel the context")
	default:
	}
	h.Stop()
}

func TestHandler_ParentContextCanceled(t *testing.T) {
	t.Parallel()

	parent, cancel := context.WithCancel(context.Background())
	h, ctx := interrupt.NewHandlerWithOptions(parent, interrupt.Options{SigCh: make(chan os.Signal)})
	defer h.Stop()

	cancel()
	waitDone(t, ctx)
	if h.WasInterrupted() {
		t.Error("parent cancellation is not an interrupt")
	}
}
