package engine

import (
	"context"
	"log/slog"
	"time"

	"github.com/harunnryd/scriba/pkg/errorsx"
	"github.com/harunnryd/scriba/pkg/logging"
	"github.com/harunnryd/scriba/pkg/metrics"
)

// Gate serializes all access to the one loaded engine instance. At
// most one transcription runs at any instant across every session.
// Created once after warm-up and lives for the process lifetime.
type Gate struct {
	sem chan struct{}
	eng Engine
	obs metrics.Observer
	log *slog.Logger
}

func NewGate(eng Engine, obs metrics.Observer) *Gate {
	return &Gate{
		sem: make(chan struct{}, 1),
		eng: eng,
		obs: obs,
		log: logging.NewComponentLogger(slog.Default(), "inference_gate"),
	}
}

// Engine returns the guarded engine for identity purposes only.
func (g *Gate) Engine() Engine { return g.eng }

// RunExclusive invokes the engine on path while holding the global
// lock. The call itself runs on its own goroutine: a cancelled caller
// returns immediately with ctx.Err() while the in-flight call is
// allowed to complete, its result discarded and the lock released by
// the worker. release, when non-nil, is invoked exactly once after the
// engine call has finished with the artifact, on every exit path.
func (g *Gate) RunExclusive(ctx context.Context, path string, release func()) (any, error) {
	type outcome struct {
		res any
		err error
	}
	done := make(chan outcome, 1)
	go func() {
		res, err := g.invoke(context.WithoutCancel(ctx), path)
		if release != nil {
			release()
		}
		done <- outcome{res: res, err: err}
	}()
	select {
	case out := <-done:
		return out.res, out.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (g *Gate) invoke(ctx context.Context, path string) (res any, err error) {
	enqueued := time.Now()
	g.sem <- struct{}{}
	started := time.Now()
	defer func() {
		<-g.sem
		if p := recover(); p != nil {
			err = errorsx.New(errorsx.ReasonTranscribe, "engine panic: %v", p)
			g.log.Error("engine_panic", "panic", p)
		}
		if g.obs != nil {
			g.obs.RecordEvent(metrics.MetricsEvent{
				Name:   metrics.EventTranscribeLatency,
				Time:   time.Now(),
				Value:  float64(time.Since(started).Milliseconds()),
				Tags:   map[string]string{"engine": g.eng.Name()},
				Fields: map[string]any{"gate_wait_ms": started.Sub(enqueued).Milliseconds()},
			})
		}
	}()
	res, err = g.eng.Transcribe(ctx, path)
	return res, errorsx.Wrap(err, errorsx.ReasonTranscribe)
}
