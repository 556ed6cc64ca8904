package scriba

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/harunnryd/scriba/pkg/engine"
	"github.com/harunnryd/scriba/pkg/logging"
	"github.com/harunnryd/scriba/pkg/metrics"
	"github.com/harunnryd/scriba/pkg/providers"
	"github.com/harunnryd/scriba/pkg/runner"
	"github.com/harunnryd/scriba/pkg/server"
	"github.com/harunnryd/scriba/pkg/transcribe"
)

// App wires the engine, the HTTP/WebSocket server and the observer
// pipeline together and owns their shutdown order.
type App struct {
	cfg       Config
	log       *slog.Logger
	eng       engine.Engine
	srv       *server.Server
	obs       *metrics.AsyncObserver
	artifacts *os.File
	lifecycle *runner.LifecycleRunner
}

func NewApp(cfg Config) (*App, error) {
	logging.SetDefault(cfg.LogLevel, cfg.LogFormat)
	log := logging.NewComponentLogger(slog.Default(), "app")

	var sink metrics.Observer = metrics.NoopObserver{}
	var artifacts *os.File
	if dir := strings.TrimSpace(cfg.Observability.ArtifactsDir); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
		f, err := os.OpenFile(filepath.Join(dir, "metrics.jsonl"),
			os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, err
		}
		artifacts = f
		sink = metrics.NewJSONLObserver(f)
	}
	obs := metrics.NewAsyncObserver(sink, 2048)

	eng, err := providers.Default().Build(cfg.Engine)
	if err != nil {
		obs.Close()
		if artifacts != nil {
			_ = artifacts.Close()
		}
		return nil, err
	}

	srv := server.New(cfg.Server, eng.Name(), cfg.Session.Tunables(), obs)

	app := &App{
		cfg:       cfg,
		log:       log,
		eng:       eng,
		srv:       srv,
		obs:       obs,
		artifacts: artifacts,
	}
	drainTimeout := time.Duration(cfg.Server.DrainTimeoutMS) * time.Millisecond
	app.lifecycle = runner.NewLifecycleRunner(app, runner.Hooks{
		OnStop: func() { log.Info("server_stopped") },
	}, drainTimeout)
	return app, nil
}

// Run starts the server, warms the engine in the background and blocks
// until ctx is cancelled, then drains.
func (a *App) Run(ctx context.Context) error {
	if err := a.srv.Start(ctx); err != nil {
		return err
	}
	go a.warm(ctx)
	return a.lifecycle.Run(ctx)
}

// Drain implements runner.Drainer.
func (a *App) Drain() error {
	err := a.srv.Stop()
	if cerr := a.eng.Close(); cerr != nil {
		a.log.Warn("engine_close_error", "error", cerr.Error())
	}
	a.obs.Close()
	if a.artifacts != nil {
		_ = a.artifacts.Close()
	}
	return err
}

// warm loads the engine off the serving path. The server answers
// "loading" on /health and 503s transcription until this completes.
func (a *App) warm(ctx context.Context) {
	start := time.Now()
	a.log.Info("engine_warmup_start", "engine", a.eng.Name())
	if err := engine.Warm(ctx, a.eng); err != nil {
		a.log.Error("engine_warmup_error", "engine", a.eng.Name(), "error", err.Error())
		return
	}
	gate := engine.NewGate(a.eng, a.obs)
	a.srv.SetAdapter(transcribe.NewAdapter(gate))
	a.log.Info("engine_ready",
		"engine", a.eng.Name(),
		"warmup_ms", time.Since(start).Milliseconds())
}
