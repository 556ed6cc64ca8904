package metrics

import (
	"bytes"
	"encoding/json"
	"strings"
	"sync"
	"testing"
	"time"
)

func TestRecordIsNilSafe(t *testing.T) {
	Record(nil, EventPartialEmit, 1, nil)
}

func TestMemoryObserverNamed(t *testing.T) {
	m := NewMemoryObserver()
	Record(m, EventPartialEmit, 1, map[string]string{"session_id": "a"})
	Record(m, EventFinalEmit, 2, nil)
	Record(m, EventPartialEmit, 3, nil)

	partials := m.Named(EventPartialEmit)
	if len(partials) != 2 {
		t.Fatalf("expected 2 partial events, got %d", len(partials))
	}
	if partials[0].Tags["session_id"] != "a" {
		t.Fatalf("tags not preserved: %v", partials[0].Tags)
	}
}

func TestAsyncObserverDeliversAndClosesOnce(t *testing.T) {
	m := NewMemoryObserver()
	a := NewAsyncObserver(m, 16)
	for i := 0; i < 5; i++ {
		a.RecordEvent(MetricsEvent{Name: EventSessionOpen})
	}

	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if len(m.Named(EventSessionOpen)) == 5 {
			break
		}
		time.Sleep(time.Millisecond)
	}
	if got := len(m.Named(EventSessionOpen)); got != 5 {
		t.Fatalf("expected 5 delivered events, got %d", got)
	}

	a.Close()
	a.Close()
	// Records after close are dropped, not a panic.
	a.RecordEvent(MetricsEvent{Name: EventSessionClose})
}

func TestAsyncObserverCloseRacingProducers(t *testing.T) {
	m := NewMemoryObserver()
	a := NewAsyncObserver(m, 4)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				a.RecordEvent(MetricsEvent{Name: EventPartialEmit})
			}
		}()
	}
	a.Close()
	wg.Wait()
}

func TestJSONLObserverWritesOneLinePerEvent(t *testing.T) {
	var buf bytes.Buffer
	o := NewJSONLObserver(&buf)
	o.RecordEvent(MetricsEvent{Name: EventUploadLatency, Value: 12.5})
	o.RecordEvent(MetricsEvent{Name: EventTranscribeLatency, Value: 40})

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	var ev map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &ev); err != nil {
		t.Fatalf("line not valid json: %v", err)
	}
	if ev["name"] != EventUploadLatency {
		t.Fatalf("unexpected name %v", ev["name"])
	}
}
