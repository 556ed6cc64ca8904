package command

import (
	"context"
	"runtime"
	"testing"

	"github.com/harunnryd/scriba/pkg/engine"
	"github.com/harunnryd/scriba/pkg/errorsx"
)

func TestNewRequiresCommand(t *testing.T) {
	if _, err := New(Config{}); err == nil {
		t.Fatal("expected error for missing command")
	}
}

func TestTranscribeCapturesStdout(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("needs a unix echo")
	}
	eng, err := New(Config{Command: "echo", Args: []string{"-n", "hello from"}})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	res, err := eng.Transcribe(context.Background(), "clip.wav")
	if err != nil {
		t.Fatalf("transcribe: %v", err)
	}
	if got := engine.Text(res); got != "hello from clip.wav" {
		t.Fatalf("unexpected transcript %q", got)
	}
}

func TestTranscribeRunnerFailure(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("needs a unix false")
	}
	eng, err := New(Config{Command: "false"})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if _, err := eng.Transcribe(context.Background(), "clip.wav"); !errorsx.HasReason(err, errorsx.ReasonEngineExec) {
		t.Fatalf("expected engine_exec reason, got %v", err)
	}
}

func TestWarmMissingBinary(t *testing.T) {
	eng, err := New(Config{Command: "definitely-not-a-real-binary-42"})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if err := eng.Warm(context.Background()); !errorsx.HasReason(err, errorsx.ReasonEngineExec) {
		t.Fatalf("expected engine_exec reason, got %v", err)
	}
}
