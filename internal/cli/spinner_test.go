package cli

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"
	"time"
)

// syncBuffer guards a bytes.Buffer shared with the spinner goroutine.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestSpinnerCancellation(t *testing.T) {
	tests := []struct {
		name string
		ctx  func() (context.Context, context.CancelFunc)
	}{
		{"cancel", func() (context.Context, context.CancelFunc) {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()
			return ctx, cancel
		}},
		{"deadline", func() (context.Context, context.CancelFunc) {
			return context.WithTimeout(context.Background(), 20*time.Millisecond)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, cancel := tt.ctx()
			defer cancel()

			s := newSpinnerTo(ctx, &syncBuffer{}, "Sketching flow.dot...")
			s.Start()
			time.Sleep(100 * time.Millisecond)

			if !s.Cancelled() {
				t.Error("spinner should be cancelled with its context")
			}
			s.Stop()
		})
	}
}

func TestSpinnerUpdate(t *testing.T) {
	var out syncBuffer
	s := newSpinnerTo(context.Background(), &out, "Sketching 1/2 a.dot...")
	s.Start()
	time.Sleep(3 * spinnerTick)
	s.Update("Sketching 2/2 b.dot...")
	time.Sleep(3 * spinnerTick)
	s.Stop()

	got := out.String()
	for _, want := range []string{"1/2 a.dot", "2/2 b.dot"} {
		if !strings.Contains(got, want) {
			t.Errorf("output %q does not contain %q", got, want)
		}
	}
	if !strings.HasSuffix(got, "\r") {
		t.Errorf("line not cleared after Stop: %q", got)
	}
}

func TestSpinnerPrintClearsLine(t *testing.T) {
	var out syncBuffer
	s := newSpinnerTo(context.Background(), &out, "Sketching...")
	s.Start()
	defer s.Stop()
	time.Sleep(3 * spinnerTick)

	var cleared string
	s.Print(func() { cleared = out.String() })
	if !strings.HasSuffix(cleared, "\r") {
		t.Errorf("status line still drawn when printing: %q", cleared)
	}
}

func TestSpinnerStop(t *testing.T) {
	var out syncBuffer
	s := newSpinnerTo(context.Background(), &out, "Sketching...")

	// Stopping before Start and repeated stops must not block or panic.
	s.Stop()
	s.Stop()
	if out.String() != "" {
		t.Errorf("unstarted spinner wrote %q", out.String())
	}

	s = newSpinnerTo(context.Background(), &out, "Sketching...")
	s.Start()
	time.Sleep(50 * time.Millisecond)
	s.Stop()
	s.Stop()
}
