package main

import (
	"context"
	"log"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	"quill/internal/api"
	"quill/internal/config"
	"quill/internal/daemon"
	"quill/internal/generation"
	"quill/internal/health"
	"quill/internal/logging"
	"quill/internal/notifications"
	"quill/internal/queue"
	"quill/internal/services/llm"
	"quill/internal/worker"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, path, exists, err := config.Load("")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if err := cfg.EnsureDirectories(); err != nil {
		log.Fatalf("prepare directories: %v", err)
	}

	logger, err := logging.NewFromConfig(cfg)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	if !exists {
		logger.Info("config file not found, using defaults", logging.String("path", path))
	}

	store, err := queue.Open(cfg)
	if err != nil {
		logger.Error("open queue store", logging.Error(err))
		return
	}

	d, err := buildDaemon(cfg, store, logger)
	if err != nil {
		logger.Error("create daemon", logging.Error(err))
		_ = store.Close()
		return
	}
	defer d.Close()

	if err := d.Start(ctx); err != nil {
		logger.Error("daemon start", logging.Error(err))
		return
	}

	<-ctx.Done()
	logger.Info("quilld shutting down")
}

func buildDaemon(cfg *config.Config, store *queue.Store, logger *slog.Logger) (*daemon.Daemon, error) {
	draftClient := llm.NewClient(llm.Config(cfg.DraftLLM()))
	polishClient := llm.NewClient(llm.Config(cfg.PolishLLM()))

	pipeline := generation.NewPipeline(
		generation.NewParser(),
		generation.NewDrafter(draftClient),
		generation.NewPolisher(polishClient),
		logger,
	)

	notifier := notifications.NewService(cfg)
	w := worker.New(store, pipeline, notifier, logger,
		time.Duration(cfg.Worker.PollInterval)*time.Second,
		time.Duration(cfg.Worker.ErrorRetryInterval)*time.Second)

	probe := health.NewProbe(draftClient, 10*time.Second, logger)
	svc := api.NewService(store, w, probe, logger)

	return daemon.New(cfg, store, w, svc, logger)
}
