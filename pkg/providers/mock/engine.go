package mock

import (
	"context"
	"sync"
	"time"

	"github.com/harunnryd/scriba/pkg/errorsx"
)

type EngineConfig struct {
	// Transcript is returned on every call when Script is empty.
	Transcript string
	// Script is returned call by call; the last entry repeats.
	Script []string
	// FailTimes makes the first N calls fail with transcribe_failed.
	FailTimes int
	Latency   time.Duration
	WarmDelay time.Duration
}

// Engine produces deterministic transcripts without a real model.
type Engine struct {
	cfg   EngineConfig
	mu    sync.Mutex
	calls int
}

func NewEngine(cfg EngineConfig) *Engine {
	if cfg.Transcript == "" && len(cfg.Script) == 0 {
		cfg.Transcript = "mock transcript"
	}
	return &Engine{cfg: cfg}
}

func (e *Engine) Name() string { return "mock_engine" }

func (e *Engine) Close() error { return nil }

func (e *Engine) Warm(ctx context.Context) error {
	if e.cfg.WarmDelay <= 0 {
		return nil
	}
	select {
	case <-time.After(e.cfg.WarmDelay):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (e *Engine) Transcribe(ctx context.Context, path string) (any, error) {
	if e.cfg.Latency > 0 {
		select {
		case <-time.After(e.cfg.Latency):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	e.mu.Lock()
	call := e.calls
	e.calls++
	e.mu.Unlock()

	if call < e.cfg.FailTimes {
		return nil, errorsx.New(errorsx.ReasonTranscribe, "scripted failure %d", call)
	}
	if len(e.cfg.Script) > 0 {
		idx := call
		if idx >= len(e.cfg.Script) {
			idx = len(e.cfg.Script) - 1
		}
		return e.cfg.Script[idx], nil
	}
	return e.cfg.Transcript, nil
}

// Calls returns how many transcriptions have been attempted.
func (e *Engine) Calls() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.calls
}
