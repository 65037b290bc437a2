package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"bilancio/internal/amqp"
	"bilancio/internal/config"
	applog "bilancio/internal/log"
	"bilancio/internal/storage"
	"bilancio/internal/worker"
)

func main() {
	_ = godotenv.Load()

	logger := applog.New(applog.Config{
		Component: applog.ComponentWorker,
		Handler:   applog.DefaultConfig().Handler,
	})
	applog.SetDefault(logger)

	logger.Info("Starting bilancio-worker")

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to initialize SQLite repository", "error", err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer repo.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String())
		cancel()
	}()

	reportWorker := worker.NewReportWorker(repo, cfg.ExportDir)

	// On startup and then periodically, sweep runs whose queue message
	// never arrived.
	if err := reportWorker.ProcessPendingRuns(ctx); err != nil {
		logger.Error("Startup pending-run sweep failed", "error", err)
	}
	go func() {
		ticker := time.NewTicker(cfg.PollInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := reportWorker.ProcessPendingRuns(ctx); err != nil {
					logger.Error("Pending-run sweep failed", "error", err)
				}
			}
		}
	}()

	// Consume until cancelled, redialing on broker failures.
	for {
		client, err := amqp.Redial(ctx, func() (*amqp.Client, error) {
			return amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		})
		if err != nil {
			if errors.Is(err, context.Canceled) {
				break
			}
			logger.Error("AMQP connect failed", "error", err)
			os.Exit(1)
		}
		logger.Info("Connected to AMQP", applog.FieldOperation, applog.OpConsume,
			"exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)

		err = client.ConsumeReportBuilds(ctx, func(msg *amqp.ReportBuildMessage) error {
			return reportWorker.HandleBuildMessage(ctx, msg)
		})
		client.Close()

		if ctx.Err() != nil {
			break
		}
		logger.Warn("Consumer stopped, reconnecting", "error", err)
		select {
		case <-time.After(time.Second):
		case <-ctx.Done():
		}
	}

	logger.Info("Worker stopped gracefully")
}
