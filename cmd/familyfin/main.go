package main

import (
	"context"
	"errors"
	nethttp "net/http"
	"time"

	"github.com/yanuaroby/familyfin/internal/amqp"
	"github.com/yanuaroby/familyfin/internal/cli"
	"github.com/yanuaroby/familyfin/internal/http"
	"github.com/yanuaroby/familyfin/internal/services"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger()

	logger.Info("Starting familyfin")

	cfg := cli.LoadAndValidateConfig(logger)

	repo := cli.InitSQLite(logger, cfg.SQLiteDBPath)

	var amqpClient *amqp.Client
	if cfg.AMQPURL != "" {
		var err error
		amqpClient, err = amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("Failed to initialize AMQP client, continuing without event publishing", "error", err)
			amqpClient = nil
		} else {
			logger.Info("AMQP client initialized")
		}
	} else {
		logger.Info("AMQP disabled - activity events will not be published")
	}

	txService := services.NewTransactionService(repo, amqpClient)
	defer txService.Close()

	scheduler := services.NewRecurringScheduler(repo, txService)
	catalog := services.NewCatalogService(repo)
	dashboard := services.NewDashboardService(repo)
	planning := services.NewPlanningService(repo)

	server := http.NewServer(http.Options{
		Port:         cfg.Port,
		JWTSecret:    cfg.JWTSecret,
		FeedLimit:    cfg.ActivityFeedLimit,
		Transactions: txService,
		Scheduler:    scheduler,
		Catalog:      catalog,
		Dashboard:    dashboard,
		Planning:     planning,
	})

	shutdownCtx, done := cli.GracefulShutdown(logger, 30*time.Second, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Stop(ctx); err != nil {
			logger.Error("Server shutdown failed", "error", err)
		}
	})

	logger.Info("HTTP server listening", "port", cfg.Port)
	if err := server.Start(); err != nil && !errors.Is(err, nethttp.ErrServerClosed) {
		logger.Error("HTTP server failed", "error", err)
	}

	cli.WaitForShutdown(shutdownCtx, done)
}
