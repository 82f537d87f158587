package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"resume-review/internal/bootstrap"
	"resume-review/internal/shared/config"
	"resume-review/internal/shared/server"
	"resume-review/internal/shared/telemetry"
)

// writeSlack is added to the model timeout for rendering and sending the page.
const writeSlack = 30 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	logger, err := telemetry.New(cfg.LogFormat, cfg.LogLevel)
	if err != nil {
		log.Fatalf("create logger: %v", err)
	}
	telemetry.SetLogger(logger)
	defer func() { _ = logger.Sync() }()

	app, err := bootstrap.Build(cfg)
	if err != nil {
		log.Fatalf("bootstrap: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := server.NewHTTPServer(server.Addr(cfg.Port), app.Router, cfg.OpenAITimeout+writeSlack)
	if err := server.Run(ctx, srv); err != nil {
		telemetry.Error("server.exit", map[string]any{"error": err})
		os.Exit(1)
	}
}
