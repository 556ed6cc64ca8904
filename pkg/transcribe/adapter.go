package transcribe

import (
	"context"
	"log/slog"
	"os"

	"github.com/harunnryd/scriba/pkg/audio"
	"github.com/harunnryd/scriba/pkg/engine"
	"github.com/harunnryd/scriba/pkg/errorsx"
	"github.com/harunnryd/scriba/pkg/logging"
)

// Adapter converts in-memory samples into the artifact the engine
// consumes and normalizes results back into trimmed text. Every temp
// artifact it creates is removed once the engine call has finished
// with it, on every exit path.
type Adapter struct {
	gate *engine.Gate
	log  *slog.Logger
	dir  string
}

type Option func(*Adapter)

// WithTempDir overrides the artifact directory (tests).
func WithTempDir(dir string) Option {
	return func(a *Adapter) { a.dir = dir }
}

func NewAdapter(gate *engine.Gate, opts ...Option) *Adapter {
	a := &Adapter{
		gate: gate,
		log:  logging.NewComponentLogger(slog.Default(), "transcribe_adapter"),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Samples transcribes mono 16kHz float32 samples. Empty input is
// legal: it produces a valid zero-length artifact, and an engine that
// rejects it surfaces as a transcribe_failed error, never a panic.
func (a *Adapter) Samples(ctx context.Context, samples []float32) (string, error) {
	f, err := os.CreateTemp(a.dir, "scriba-*.wav")
	if err != nil {
		return "", errorsx.Wrap(err, errorsx.ReasonArtifactWrite)
	}
	path := f.Name()
	if err := audio.WriteWAV(f, samples, audio.SampleRate); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return "", err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(path)
		return "", errorsx.Wrap(err, errorsx.ReasonArtifactWrite)
	}

	// The gate runs release after the engine call completes, even when
	// this caller has already been cancelled and returned.
	res, err := a.gate.RunExclusive(ctx, path, func() {
		if rmErr := os.Remove(path); rmErr != nil {
			a.log.Warn("artifact_remove_error", "path", path, "error", rmErr.Error())
		}
	})
	if err != nil {
		return "", err
	}
	return engine.Text(res), nil
}

// File transcribes an already-encoded audio file at path. The caller
// owns the file's lifetime.
func (a *Adapter) File(ctx context.Context, path string) (string, error) {
	res, err := a.gate.RunExclusive(ctx, path, nil)
	if err != nil {
		return "", err
	}
	return engine.Text(res), nil
}
