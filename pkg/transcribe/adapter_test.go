package transcribe

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/harunnryd/scriba/pkg/engine"
	"github.com/harunnryd/scriba/pkg/errorsx"
)

type fakeEngine struct {
	mu    sync.Mutex
	paths []string
	res   any
	err   error
}

func (f *fakeEngine) Name() string { return "fake" }
func (f *fakeEngine) Close() error { return nil }

func (f *fakeEngine) Transcribe(ctx context.Context, path string) (any, error) {
	f.mu.Lock()
	f.paths = append(f.paths, path)
	f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return f.res, nil
}

func tempEntries(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read temp dir: %v", err)
	}
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

func TestSamplesProducesTrimmedText(t *testing.T) {
	dir := t.TempDir()
	eng := &fakeEngine{res: "  hello there \n"}
	a := NewAdapter(engine.NewGate(eng, nil), WithTempDir(dir))

	text, err := a.Samples(context.Background(), make([]float32, 16000))
	if err != nil {
		t.Fatalf("samples: %v", err)
	}
	if text != "hello there" {
		t.Fatalf("expected trimmed text, got %q", text)
	}
	if left := tempEntries(t, dir); len(left) != 0 {
		t.Fatalf("artifact leaked: %v", left)
	}
}

func TestSamplesRemovesArtifactOnEngineError(t *testing.T) {
	dir := t.TempDir()
	eng := &fakeEngine{err: errors.New("decode failure")}
	a := NewAdapter(engine.NewGate(eng, nil), WithTempDir(dir))

	_, err := a.Samples(context.Background(), make([]float32, 8000))
	if !errorsx.HasReason(err, errorsx.ReasonTranscribe) {
		t.Fatalf("expected transcribe_failed, got %v", err)
	}
	if left := tempEntries(t, dir); len(left) != 0 {
		t.Fatalf("artifact leaked after error: %v", left)
	}
}

func TestSamplesEmptyInputDoesNotPanic(t *testing.T) {
	dir := t.TempDir()
	eng := &fakeEngine{res: ""}
	a := NewAdapter(engine.NewGate(eng, nil), WithTempDir(dir))

	text, err := a.Samples(context.Background(), nil)
	if err != nil {
		t.Fatalf("empty input: %v", err)
	}
	if text != "" {
		t.Fatalf("expected empty text, got %q", text)
	}
	if left := tempEntries(t, dir); len(left) != 0 {
		t.Fatalf("artifact leaked: %v", left)
	}
}

func TestFilePassesPathThroughUntouched(t *testing.T) {
	eng := &fakeEngine{res: "upload text"}
	a := NewAdapter(engine.NewGate(eng, nil))

	path := filepath.Join(t.TempDir(), "clip.wav")
	if err := os.WriteFile(path, []byte("riff"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	text, err := a.File(context.Background(), path)
	if err != nil {
		t.Fatalf("file: %v", err)
	}
	if text != "upload text" {
		t.Fatalf("unexpected text %q", text)
	}
	if len(eng.paths) != 1 || eng.paths[0] != path {
		t.Fatalf("engine saw wrong path: %v", eng.paths)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("caller-owned file was removed: %v", err)
	}
}
