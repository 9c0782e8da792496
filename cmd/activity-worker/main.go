package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/yanuaroby/familyfin/internal/amqp"
	"github.com/yanuaroby/familyfin/internal/cli"
	"github.com/yanuaroby/familyfin/internal/worker"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger()

	logger.Info("Starting activity-worker")

	cfg := cli.LoadAndValidateConfig(logger)
	if cfg.AMQPURL == "" {
		logger.Error("activity-worker requires AMQP_URL")
		os.Exit(1)
	}

	repo := cli.InitSQLite(logger, cfg.SQLiteDBPath)
	defer repo.Close()

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", "error", err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	activityWorker := worker.NewActivityWorker(repo, nil)

	go func() {
		err := amqpClient.ConsumeActivityEvents(ctx, func(msg *amqp.ActivityEventMessage) error {
			return activityWorker.HandleActivityEvent(ctx, msg)
		})
		if err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("Message consumption stopped", "error", err)
			cancel()
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		logger.Info("Shutdown signal received", "signal", sig.String())
	case <-ctx.Done():
	}

	cancel()
	logger.Info("Activity-worker shutdown complete")
}
