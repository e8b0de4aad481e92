package progress

import (
	"bytes"
	"os"
	"sync"
	"testing"
	"time"
)

// syncBuffer guards a bytes.Buffer; the spinner writes from its own goroutine.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Len()
}

func TestDisabledReporterIsNop(t *testing.T) {
	r := NewReporter(&syncBuffer{}, false)
	if _, ok := r.(NopReporter); !ok {
		t.Fatalf("expected NopReporter, got %T", r)
	}
	r.Start("waiting")
	r.Stop()
}

func TestSpinnerWritesAndStops(t *testing.T) {
	var out syncBuffer
	r := NewReporter(&out, true)
	r.(*SpinnerReporter).interval = 5 * time.Millisecond

	r.Start("Waiting for model")
	time.Sleep(20 * time.Millisecond)

	stopped := make(chan struct{})
	go func() {
		r.Stop()
		close(stopped)
	}()
	select {
	case <-stopped:
	case <-time.After(2 * time.Second):
		t.Fatal("Stop did not return")
	}

	if out.Len() == 0 {
		t.Error("spinner wrote nothing")
	}
}

func TestSpinnerRestartAndDoubleStop(t *testing.T) {
	r := NewReporter(&syncBuffer{}, true)
	r.Start("one")
	r.Start("two")
	r.Stop()
	r.Stop()
}

func TestInteractiveFalseInCI(t *testing.T) {
	t.Setenv("CI", "true")
	if Interactive(os.Stderr) {
		t.Error("expected non-interactive when CI is set")
	}
}
