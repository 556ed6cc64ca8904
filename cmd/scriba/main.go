package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/harunnryd/scriba/pkg/scriba"
)

func main() {
	_ = godotenv.Load()

	cfgPath := flag.String("config", os.Getenv("SCRIBA_CONFIG"), "path to config file (yaml)")
	flag.Parse()

	cfg, err := scriba.LoadConfig(*cfgPath)
	if err != nil {
		slog.Error("config_load_error", "path", *cfgPath, "error", err.Error())
		os.Exit(1)
	}

	app, err := scriba.NewApp(cfg)
	if err != nil {
		slog.Error("startup_error", "error", err.Error())
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.Run(ctx); err != nil {
		slog.Error("run_error", "error", err.Error())
		os.Exit(1)
	}
}
