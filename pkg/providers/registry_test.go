package providers

import (
	"strings"
	"testing"

	"github.com/harunnryd/scriba/pkg/engine"
)

func TestBuildUnknownProvider(t *testing.T) {
	_, err := Default().Build(engine.VendorConfig{Provider: "nemo"})
	if err == nil || !strings.Contains(err.Error(), "not registered") {
		t.Fatalf("expected not-registered error, got %v", err)
	}
}

func TestBuildMockDefault(t *testing.T) {
	eng, err := Default().Build(engine.VendorConfig{Provider: "mock"})
	if err != nil {
		t.Fatalf("build mock: %v", err)
	}
	if eng.Name() != "mock_engine" {
		t.Fatalf("unexpected engine: %s", eng.Name())
	}
}

func TestBuildCommandRequiresCommand(t *testing.T) {
	_, err := Default().Build(engine.VendorConfig{Provider: "command"})
	if err == nil {
		t.Fatalf("expected error for missing command")
	}
}

func TestBuildDeepgramRejectsUnknownKeys(t *testing.T) {
	_, err := Default().Build(engine.VendorConfig{
		Provider: "deepgram",
		Settings: map[string]any{"api_key": "dg_test", "voice": "en"},
	})
	if err == nil || !strings.Contains(err.Error(), "unknown") {
		t.Fatalf("expected unknown-key error, got %v", err)
	}
}
