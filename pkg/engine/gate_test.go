package engine

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/harunnryd/scriba/pkg/errorsx"
)

type instrumentedEngine struct {
	mu       sync.Mutex
	active   int32
	maxSeen  int32
	calls    int32
	delay    time.Duration
	err      error
	panicMsg string
}

func (e *instrumentedEngine) Name() string { return "instrumented" }
func (e *instrumentedEngine) Close() error { return nil }

func (e *instrumentedEngine) Transcribe(ctx context.Context, path string) (any, error) {
	cur := atomic.AddInt32(&e.active, 1)
	defer atomic.AddInt32(&e.active, -1)
	e.mu.Lock()
	if cur > e.maxSeen {
		e.maxSeen = cur
	}
	e.mu.Unlock()
	atomic.AddInt32(&e.calls, 1)
	if e.panicMsg != "" {
		panic(e.panicMsg)
	}
	if e.delay > 0 {
		time.Sleep(e.delay)
	}
	if e.err != nil {
		return nil, e.err
	}
	return "hello from " + path, nil
}

func (e *instrumentedEngine) MaxConcurrency() int32 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.maxSeen
}

func TestGateSerializesConcurrentCalls(t *testing.T) {
	eng := &instrumentedEngine{delay: 5 * time.Millisecond}
	gate := NewGate(eng, nil)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := gate.RunExclusive(context.Background(), "a.wav", nil); err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	if max := eng.MaxConcurrency(); max != 1 {
		t.Fatalf("expected max concurrency 1, observed %d", max)
	}
	if got := atomic.LoadInt32(&eng.calls); got != 10 {
		t.Fatalf("expected 10 calls, got %d", got)
	}
}

func TestGateWrapsEngineError(t *testing.T) {
	eng := &instrumentedEngine{err: errors.New("cuda out of memory")}
	gate := NewGate(eng, nil)

	_, err := gate.RunExclusive(context.Background(), "a.wav", nil)
	if err == nil {
		t.Fatalf("expected error")
	}
	if !errorsx.HasReason(err, errorsx.ReasonTranscribe) {
		t.Fatalf("expected transcribe_failed reason, got %s", errorsx.Reason(err))
	}
}

func TestGateRecoversEnginePanicAndStaysUsable(t *testing.T) {
	eng := &instrumentedEngine{panicMsg: "model exploded"}
	gate := NewGate(eng, nil)

	if _, err := gate.RunExclusive(context.Background(), "a.wav", nil); err == nil {
		t.Fatalf("expected error from panicking engine")
	}

	eng.panicMsg = ""
	if _, err := gate.RunExclusive(context.Background(), "b.wav", nil); err != nil {
		t.Fatalf("gate unusable after panic: %v", err)
	}
}

func TestGateCancellationReturnsEarlyAndReleases(t *testing.T) {
	eng := &instrumentedEngine{delay: 50 * time.Millisecond}
	gate := NewGate(eng, nil)

	released := make(chan struct{})
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(5 * time.Millisecond)
		cancel()
	}()
	_, err := gate.RunExclusive(ctx, "a.wav", func() { close(released) })
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}

	// The abandoned call completes and releases the artifact.
	select {
	case <-released:
	case <-time.After(time.Second):
		t.Fatalf("release callback never ran")
	}

	// Lock must be free for the next caller.
	if _, err := gate.RunExclusive(context.Background(), "b.wav", nil); err != nil {
		t.Fatalf("gate still locked after cancellation: %v", err)
	}
}

func TestGateReleaseRunsOnErrorPath(t *testing.T) {
	eng := &instrumentedEngine{err: errors.New("bad wav")}
	gate := NewGate(eng, nil)

	var released atomic.Bool
	_, err := gate.RunExclusive(context.Background(), "a.wav", func() { released.Store(true) })
	if err == nil {
		t.Fatalf("expected error")
	}
	if !released.Load() {
		t.Fatalf("release not invoked on error path")
	}
}
