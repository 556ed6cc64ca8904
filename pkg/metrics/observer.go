package metrics

import "time"

// Event names recorded by the server and streaming sessions.
const (
	EventTranscribeLatency = "transcribe_latency"
	EventUploadLatency     = "upload_latency"
	EventPartialEmit       = "partial_emit"
	EventFinalEmit         = "final_emit"
	EventSessionOpen       = "session_open"
	EventSessionClose      = "session_close"
)

type MetricsEvent struct {
	Name   string
	Time   time.Time
	Value  float64
	Tags   map[string]string
	Fields map[string]any
}

type Observer interface {
	RecordEvent(ev MetricsEvent)
}

type Flusher interface {
	Flush() error
}

type NoopObserver struct{}

func (NoopObserver) RecordEvent(MetricsEvent) {}

// Record is a nil-safe helper for optional observers.
func Record(obs Observer, name string, value float64, tags map[string]string) {
	if obs == nil {
		return
	}
	obs.RecordEvent(MetricsEvent{
		Name:  name,
		Time:  time.Now(),
		Value: value,
		Tags:  tags,
	})
}
