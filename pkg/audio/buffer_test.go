package audio

import (
	"sync"
	"testing"
	"time"
)

func TestBufferAppendAccumulates(t *testing.T) {
	b := NewBuffer()
	b.Append(make([]float32, 8000))
	b.Append(make([]float32, 8000))
	if b.Len() != 16000 {
		t.Fatalf("expected 16000 samples, got %d", b.Len())
	}
	if b.Duration() != time.Second {
		t.Fatalf("expected 1s, got %s", b.Duration())
	}
}

func TestBufferSnapshotDoesNotAlias(t *testing.T) {
	b := NewBuffer()
	b.Append([]float32{0.1, 0.2})
	snap := b.Snapshot()
	b.Append([]float32{0.3})
	if len(snap) != 2 {
		t.Fatalf("snapshot grew after append: %d", len(snap))
	}
	snap[0] = -1
	if b.Snapshot()[0] != 0.1 {
		t.Fatalf("mutating snapshot leaked into buffer")
	}
}

func TestBufferConcurrentAppendsLoseNothing(t *testing.T) {
	b := NewBuffer()
	const writers = 8
	const chunks = 50
	const chunkLen = 160
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < chunks; j++ {
				b.Append(make([]float32, chunkLen))
			}
		}()
	}
	wg.Wait()
	if got, want := b.Len(), writers*chunks*chunkLen; got != want {
		t.Fatalf("expected %d samples, got %d", want, got)
	}
}

func TestDurationConversion(t *testing.T) {
	if d := Duration(8000); d != 500*time.Millisecond {
		t.Fatalf("expected 500ms, got %s", d)
	}
	if d := Duration(0); d != 0 {
		t.Fatalf("expected 0, got %s", d)
	}
}
