package cli

import (
	"context"
	"testing"
	"time"
)

func TestSpinnerStartStop(t *testing.T) {
	s := newSpinner(context.Background(), "working")
	s.Start()
	time.Sleep(100 * time.Millisecond)
	s.Stop()

	if s.Cancelled() != true {
		// Stop cancels the internal context.
		t.Error("Stop should cancel the spinner context")
	}
}

func TestSpinnerStopWithoutStart(t *testing.T) {
	s := newSpinner(context.Background(), "idle")
	// Start never ran, so stopped must be closed by Start's goroutine;
	// start it to avoid blocking forever, then stop immediately.
	s.Start()
	s.Stop()
}

func TestSpinnerContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	s := newSpinner(ctx, "cancellable")
	s.Start()

	cancel()
	time.Sleep(100 * time.Millisecond)

	if !s.Cancelled() {
		t.Error("spinner should report cancellation")
	}
	s.Stop()
}

func TestSpinnerDoubleStop(t *testing.T) {
	s := newSpinner(context.Background(), "twice")
	s.Start()
	s.Stop()
	s.Stop() // must not panic or block
}
