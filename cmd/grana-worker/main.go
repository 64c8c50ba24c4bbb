// grana-worker consumes transaction events and raises budget alerts.
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"grana/internal/cli"
	"grana/internal/events"
	"grana/internal/log"
	"grana/internal/services"
	"grana/internal/worker"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger().WithComponent(log.ComponentWorker)

	logger.Info("Starting grana-worker")

	cfg := cli.LoadAndValidateConfig(logger)
	if !cfg.EventsEnabled() {
		logger.Error("AMQP_URL is required for the worker")
		os.Exit(1)
	}

	ledger := cli.InitLedgerStore(logger, cfg.LedgerDBPath)
	defer ledger.Close()

	memory := cli.InitMemoryStore(logger, cfg.MemoryDBPath)
	defer memory.Close()

	client, err := events.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", log.FieldError, err)
		os.Exit(1)
	}
	defer client.Close()

	prefs := services.NewPreferenceService(memory)
	budgets := services.NewBudgetService(memory, prefs)
	budgetWorker := worker.NewBudgetWorker(ledger, budgets)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return client.ConsumeTransactionAdded(ctx, func(msg *events.TransactionAdded) error {
			return budgetWorker.HandleTransactionAdded(ctx, msg)
		})
	})

	logger.Info("Consuming transaction events", "queue", cfg.AMQPQueue)

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Message consumption failed", log.FieldError, err)
		os.Exit(1)
	}

	logger.Info("Worker shutdown complete")
}
