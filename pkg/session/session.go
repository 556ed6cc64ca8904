package session

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/harunnryd/scriba/pkg/audio"
	"github.com/harunnryd/scriba/pkg/errorsx"
	"github.com/harunnryd/scriba/pkg/logging"
	"github.com/harunnryd/scriba/pkg/metrics"
	"github.com/harunnryd/scriba/pkg/resilience"
)

// Transcriber turns a sample snapshot into trimmed text.
type Transcriber interface {
	Samples(ctx context.Context, samples []float32) (string, error)
}

// Emitter delivers results to the transport. Implementations own the
// wire format; the session only cares whether a send succeeded.
type Emitter interface {
	EmitPartial(text string) error
	EmitFinal(text string) error
}

// State is the session lifecycle phase.
type State int32

const (
	// StateAccepting means audio may still be appended; loop active.
	StateAccepting State = iota
	// StateDraining means no more input; final transcription pending.
	StateDraining
	// StateClosed is terminal.
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateAccepting:
		return "accepting"
	case StateDraining:
		return "draining"
	case StateClosed:
		return "closed"
	}
	return "unknown"
}

// Session accumulates audio for one streaming connection while a
// background loop periodically re-transcribes the growing buffer and
// emits revised partial transcripts. Appends come from the transport
// goroutine; the loop only ever reads snapshots, so the input a
// transcription sees is monotonically non-decreasing in length.
type Session struct {
	id      string
	tun     Tunables
	scriber Transcriber
	emitter Emitter
	obs     metrics.Observer
	breaker *resilience.CircuitBreaker
	log     *slog.Logger

	buf *audio.Buffer

	mu       sync.Mutex
	state    State
	started  bool
	cancel   context.CancelFunc
	loopDone chan struct{}
}

type Option func(*Session)

func WithObserver(obs metrics.Observer) Option {
	return func(s *Session) { s.obs = obs }
}

func WithLogger(log *slog.Logger) Option {
	return func(s *Session) { s.log = log }
}

// WithBreaker guards the loop's engine calls with a circuit breaker;
// while open, cycles are skipped instead of queued behind the gate.
func WithBreaker(b *resilience.CircuitBreaker) Option {
	return func(s *Session) { s.breaker = b }
}

func New(id string, scriber Transcriber, emitter Emitter, tun Tunables, opts ...Option) *Session {
	s := &Session{
		id:      id,
		tun:     tun.withDefaults(),
		scriber: scriber,
		emitter: emitter,
		buf:     audio.NewBuffer(),
		state:   StateAccepting,
		log:     logging.NewComponentLogger(slog.Default(), "session"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Session) ID() string { return s.id }

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// BufferedSamples reports how many samples have been accumulated.
func (s *Session) BufferedSamples() int { return s.buf.Len() }

// Start spawns the background re-transcription loop. It is a no-op
// once the session has left Accepting or was already started.
func (s *Session) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started || s.state != StateAccepting {
		return
	}
	s.started = true
	loopCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.loopDone = make(chan struct{})
	go s.loop(loopCtx)
	metrics.Record(s.obs, metrics.EventSessionOpen, 0, map[string]string{"session_id": s.id})
}

// Append adds samples to the buffer. Ignored outside Accepting.
func (s *Session) Append(samples []float32) {
	if s.State() != StateAccepting {
		return
	}
	s.buf.Append(samples)
}

// Drain stops accepting input, cancels the loop and awaits its
// completion, transcribes the full buffer once, and emits exactly one
// final result (possibly empty) before closing. Only the first caller
// does any work; later calls return immediately.
func (s *Session) Drain(ctx context.Context) {
	s.mu.Lock()
	if s.state != StateAccepting {
		s.mu.Unlock()
		return
	}
	s.state = StateDraining
	cancel, done := s.cancel, s.loopDone
	s.mu.Unlock()

	// No partial may be emitted after this point.
	if cancel != nil {
		cancel()
		<-done
	}

	final := ""
	snap := s.buf.Snapshot()
	if audio.Duration(len(snap)) >= s.tun.MinFinalAudio {
		text, err := s.scriber.Samples(ctx, snap)
		if err != nil {
			s.log.Warn("final_transcribe_error",
				"session_id", s.id,
				"reason", string(errorsx.Reason(err)),
				"error", err.Error())
		} else {
			final = text
		}
	}

	// Best effort: the peer may already be gone.
	if err := s.emitter.EmitFinal(final); err != nil {
		s.log.Debug("final_emit_error", "session_id", s.id, "error", err.Error())
	}
	metrics.Record(s.obs, metrics.EventFinalEmit, float64(len(snap)),
		map[string]string{"session_id": s.id})

	s.mu.Lock()
	s.state = StateClosed
	s.mu.Unlock()
	metrics.Record(s.obs, metrics.EventSessionClose, float64(len(snap)),
		map[string]string{"session_id": s.id})
}

func (s *Session) loop(ctx context.Context) {
	defer close(s.loopDone)
	if !sleepCtx(ctx, s.tun.WarmupDelay) {
		return
	}
	last := ""
	for {
		snap := s.buf.Snapshot()
		if audio.Duration(len(snap)) < s.tun.MinPartialAudio {
			if !sleepCtx(ctx, s.tun.PollInterval) {
				return
			}
			continue
		}

		if s.breaker != nil && !s.breaker.Allow() {
			if !sleepCtx(ctx, s.tun.FailureBackoff) {
				return
			}
			continue
		}

		text, err := s.scriber.Samples(ctx, snap)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			if s.breaker != nil {
				s.breaker.OnError(err)
			}
			// Never fatal: skip this cycle and try again.
			s.log.Warn("partial_transcribe_error",
				"session_id", s.id,
				"reason", string(errorsx.Reason(err)),
				"error", err.Error())
			if !sleepCtx(ctx, s.tun.FailureBackoff) {
				return
			}
			continue
		}
		if s.breaker != nil {
			s.breaker.OnSuccess()
		}

		if text != "" && text != last {
			last = text
			if err := s.emitter.EmitPartial(text); err != nil {
				s.log.Debug("partial_emit_error", "session_id", s.id, "error", err.Error())
				return
			}
			metrics.Record(s.obs, metrics.EventPartialEmit, float64(len(snap)),
				map[string]string{"session_id": s.id})
		}

		if !sleepCtx(ctx, s.tun.PollInterval) {
			return
		}
	}
}

// sleepCtx sleeps for d, returning false when ctx is done first.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return true
	case <-ctx.Done():
		return false
	}
}
