package session

import "time"

// Tunables are the streaming loop intervals and thresholds. The
// defaults come from the serving setup this replaces; they are
// configurable but carry no documented tuning rationale beyond that.
type Tunables struct {
	// WarmupDelay is slept before the loop's first transcription attempt.
	WarmupDelay time.Duration
	// PollInterval is slept between re-transcription cycles.
	PollInterval time.Duration
	// FailureBackoff is slept after a failed transcription before retrying.
	FailureBackoff time.Duration
	// MinPartialAudio is the least buffered audio worth a partial pass.
	MinPartialAudio time.Duration
	// MinFinalAudio is the least buffered audio worth a final pass;
	// below it the session finalizes with empty text.
	MinFinalAudio time.Duration
}

func (t Tunables) withDefaults() Tunables {
	if t.WarmupDelay <= 0 {
		t.WarmupDelay = 500 * time.Millisecond
	}
	if t.PollInterval <= 0 {
		t.PollInterval = 300 * time.Millisecond
	}
	if t.FailureBackoff <= 0 {
		t.FailureBackoff = 500 * time.Millisecond
	}
	if t.MinPartialAudio <= 0 {
		t.MinPartialAudio = 500 * time.Millisecond
	}
	if t.MinFinalAudio <= 0 {
		t.MinFinalAudio = 300 * time.Millisecond
	}
	return t
}
