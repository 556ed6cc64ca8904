package audio

import (
	"sync"
	"time"
)

// SampleRate is the fixed rate for all session audio: mono 16kHz.
const SampleRate = 16000

// Buffer is an append-only sequence of mono float32 samples owned by a
// single streaming session. Appends come from the transport goroutine,
// snapshots from the re-transcription loop; both are short critical
// sections and no blocking call ever runs while holding the lock.
type Buffer struct {
	mu      sync.Mutex
	samples []float32
}

func NewBuffer() *Buffer {
	return &Buffer{}
}

// Append adds samples to the end of the buffer.
func (b *Buffer) Append(samples []float32) {
	if len(samples) == 0 {
		return
	}
	b.mu.Lock()
	b.samples = append(b.samples, samples...)
	b.mu.Unlock()
}

// Snapshot returns a copy of the current contents. The copy never
// aliases the underlying storage, so later appends cannot mutate it.
func (b *Buffer) Snapshot() []float32 {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]float32, len(b.samples))
	copy(out, b.samples)
	return out
}

// Len returns the number of buffered samples.
func (b *Buffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.samples)
}

// Duration returns the buffered audio length at SampleRate.
func (b *Buffer) Duration() time.Duration {
	return Duration(b.Len())
}

// Duration converts a sample count at SampleRate into a duration.
func Duration(samples int) time.Duration {
	return time.Duration(float64(samples) / SampleRate * float64(time.Second))
}
