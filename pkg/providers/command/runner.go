package command

import (
	"context"
	"log/slog"
	"os/exec"
	"strings"
	"time"

	"github.com/harunnryd/scriba/pkg/configutil"
	"github.com/harunnryd/scriba/pkg/errorsx"
	"github.com/harunnryd/scriba/pkg/logging"
)

type Config struct {
	// Command is the runner executable; it receives the WAV path as its
	// last argument and prints the transcript to stdout.
	Command   string   `mapstructure:"command"`
	Args      []string `mapstructure:"args"`
	TimeoutMS int      `mapstructure:"timeout_ms"`
}

func (c Config) withDefaults() Config {
	if c.TimeoutMS <= 0 {
		c.TimeoutMS = 120_000
	}
	return c
}

// Engine shells out to a local transcription runner per call.
type Engine struct {
	cfg Config
	log *slog.Logger
}

func New(cfg Config) (*Engine, error) {
	if err := configutil.RequireString(cfg.Command, "engine.settings.command"); err != nil {
		return nil, err
	}
	return &Engine{
		cfg: cfg.withDefaults(),
		log: logging.NewComponentLogger(slog.Default(), "command_engine"),
	}, nil
}

func (e *Engine) Name() string { return "command" }

func (e *Engine) Close() error { return nil }

// Warm verifies the runner binary is resolvable before serving.
func (e *Engine) Warm(ctx context.Context) error {
	if _, err := exec.LookPath(e.cfg.Command); err != nil {
		return errorsx.Wrap(err, errorsx.ReasonEngineExec)
	}
	return nil
}

func (e *Engine) Transcribe(ctx context.Context, path string) (any, error) {
	ctx, cancel := context.WithTimeout(ctx, time.Duration(e.cfg.TimeoutMS)*time.Millisecond)
	defer cancel()

	args := append(append([]string(nil), e.cfg.Args...), path)
	cmd := exec.CommandContext(ctx, e.cfg.Command, args...)
	out, err := cmd.Output()
	if err != nil {
		if ee, ok := err.(*exec.ExitError); ok {
			return nil, errorsx.New(errorsx.ReasonEngineExec,
				"runner failed: %s", strings.TrimSpace(string(ee.Stderr)))
		}
		return nil, errorsx.Wrap(err, errorsx.ReasonEngineExec)
	}
	return string(out), nil
}
