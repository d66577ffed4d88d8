package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	videocoach "creator-stack/agents/video-coach"
	"creator-stack/shared/config"
	"creator-stack/shared/logging"
	"creator-stack/shared/scheduler"

	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if err := cfg.ValidateVideoCoach(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	logger, err := logging.New(cfg.Logging, "video-coach")
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	// Create context that responds to signals
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	agent := videocoach.NewCoachAgent(cfg, logger)
	s := scheduler.New(cfg.VideoCoach.Schedule, cfg.Monitoring.HealthPort, agent, logger)

	if len(os.Args) > 1 && os.Args[1] == "--once" {
		fmt.Println("Running once...")
		if err := agent.Initialize(); err != nil {
			logger.Fatal("Failed to initialize agent", zap.Error(err))
		}

		if err := s.RunOnce(ctx); err != nil {
			logger.Fatal("Failed to run", zap.Error(err))
		}
		return
	}

	fmt.Println("Starting scheduler...")
	if err := s.Start(ctx); err != nil && ctx.Err() == nil {
		logger.Fatal("Scheduler failed", zap.Error(err))
	}
}
