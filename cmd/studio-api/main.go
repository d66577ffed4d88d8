package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"creator-stack/shared/ai"
	"creator-stack/shared/api"
	"creator-stack/shared/config"
	"creator-stack/shared/logging"

	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if err := cfg.ValidateStudio(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	logger, err := logging.New(cfg.Logging, "studio-api")
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	completer, err := ai.NewCompleter(ctx, &cfg.AI, logger)
	if err != nil {
		logger.Fatal("Failed to create completion client", zap.Error(err))
	}
	generator, err := ai.NewGenerator(&cfg.AI, completer, logger)
	if err != nil {
		logger.Fatal("Failed to create generator", zap.Error(err))
	}

	logger.Info("Starting studio API",
		zap.String("addr", cfg.Studio.ListenAddr),
		zap.String("provider", completer.Name()))

	if err := api.NewServer(generator, logger).ListenAndServe(ctx, cfg.Studio.ListenAddr); err != nil {
		logger.Fatal("Server failed", zap.Error(err))
	}
}
