package providers

import (
	"fmt"
	"strings"

	"github.com/harunnryd/scriba/pkg/configutil"
	"github.com/harunnryd/scriba/pkg/engine"
	"github.com/harunnryd/scriba/pkg/providers/command"
	"github.com/harunnryd/scriba/pkg/providers/deepgram"
	"github.com/harunnryd/scriba/pkg/providers/mock"
)

// Builder constructs an engine from free-form vendor settings.
type Builder func(settings map[string]any) (engine.Engine, error)

type Registry struct {
	builders map[string]Builder
}

func NewRegistry() *Registry {
	return &Registry{builders: make(map[string]Builder)}
}

func (r *Registry) Register(name string, b Builder) {
	r.builders[strings.ToLower(strings.TrimSpace(name))] = b
}

func (r *Registry) Build(cfg engine.VendorConfig) (engine.Engine, error) {
	b := r.builders[strings.ToLower(strings.TrimSpace(cfg.Provider))]
	if b == nil {
		return nil, fmt.Errorf("engine provider not registered: %s", cfg.Provider)
	}
	return b(cfg.Settings)
}

// Default returns a registry with the built-in providers.
func Default() *Registry {
	r := NewRegistry()
	r.Register("deepgram", buildDeepgram)
	r.Register("command", buildCommand)
	r.Register("mock", buildMock)
	return r
}

func buildDeepgram(settings map[string]any) (engine.Engine, error) {
	schema := configutil.Schema{
		Required: []string{"api_key"},
		Optional: []string{"model", "language", "smart_format", "max_retries"},
	}
	if err := configutil.ValidateSettings(settings, schema); err != nil {
		return nil, fmt.Errorf("deepgram settings: %w", err)
	}
	var cfg deepgram.Config
	if err := configutil.DecodeSettings(settings, &cfg); err != nil {
		return nil, err
	}
	return deepgram.New(cfg)
}

func buildCommand(settings map[string]any) (engine.Engine, error) {
	schema := configutil.Schema{
		Required: []string{"command"},
		Optional: []string{"args", "timeout_ms"},
	}
	if err := configutil.ValidateSettings(settings, schema); err != nil {
		return nil, fmt.Errorf("command settings: %w", err)
	}
	var cfg command.Config
	if err := configutil.DecodeSettings(settings, &cfg); err != nil {
		return nil, err
	}
	return command.New(cfg)
}

func buildMock(settings map[string]any) (engine.Engine, error) {
	var cfg struct {
		Transcript string `mapstructure:"transcript"`
	}
	if err := configutil.DecodeSettings(settings, &cfg); err != nil {
		return nil, err
	}
	return mock.NewEngine(mock.EngineConfig{Transcript: cfg.Transcript}), nil
}
