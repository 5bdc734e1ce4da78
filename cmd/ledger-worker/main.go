package main

import (
	"context"
	"errors"
	"os"

	"golang.org/x/sync/errgroup"

	"ledgerdash/internal/amqp"
	"ledgerdash/internal/cli"
	"ledgerdash/internal/currency"
	"ledgerdash/internal/log"
	"ledgerdash/internal/services"
	"ledgerdash/internal/worker"
)

func main() {
	cfg, logger := cli.Bootstrap()
	logger.Info("Starting ledger-worker", log.FieldOperation, log.OpStartup)

	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required for the worker")
		os.Exit(1)
	}

	table := currency.Default()
	repo := cli.InitSQLite(logger, cfg.SQLiteDBPath, table)
	defer repo.Close()

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue, cfg.AMQPSnapshotQueue)
	if err != nil {
		logger.WithComponent(log.ComponentAMQP).Error("Failed to initialize AMQP client", log.FieldError, err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	snapshots, cacheManager := cli.NewSnapshotCache(cfg, logger)

	snapshotWorker := worker.NewSnapshotWorker(services.NewDashboard(table, snapshots), amqpClient, worker.Options{
		Table:    table,
		Prefs:    repo,
		Location: cfg.Location(),
		Currency: cfg.Currency(),
		Logger:   logger,
	})

	ctx, stop := cli.SignalContext()
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		err := amqpClient.ConsumeRecordBatches(gctx, snapshotWorker.HandleRecordBatch)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})

	g.Go(func() error {
		return cli.RunCacheCleanup(gctx, cacheManager, cfg.SnapshotCacheTTL)
	})

	if err := g.Wait(); err != nil {
		logger.Error("Worker stopped with error", log.FieldError, err)
		os.Exit(1)
	}
	logger.Info("Worker shutdown complete", log.FieldOperation, log.OpShutdown)
}
