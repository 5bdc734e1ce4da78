package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"ledgerdash/internal/cli"
	"ledgerdash/internal/currency"
	apphttp "ledgerdash/internal/http"
	"ledgerdash/internal/log"
	"ledgerdash/internal/services"
)

func main() {
	cfg, logger := cli.Bootstrap()

	table := currency.Default()
	repo := cli.InitSQLite(logger, cfg.SQLiteDBPath, table)
	defer repo.Close()

	snapshots, cacheManager := cli.NewSnapshotCache(cfg, logger)

	srv := apphttp.NewServer(apphttp.Options{
		Addr:              ":" + cfg.Port,
		Dashboard:         services.NewDashboard(table, snapshots),
		Table:             table,
		Prefs:             repo,
		DefaultCurrency:   cfg.Currency(),
		Location:          cfg.Location(),
		Logger:            logger,
		RequestsPerMinute: cfg.RateLimitPerMinute,
		SnapshotStats:     snapshots.Stats,
		Ready:             repo.Ping,
	})

	ctx, stop := cli.SignalContext()
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("Starting ledgerdash server",
			"port", cfg.Port,
			log.FieldCurrency, cfg.Currency(),
			"timezone", cfg.Timezone)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		return cli.RunCacheCleanup(gctx, cacheManager, cfg.SnapshotCacheTTL)
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down server", log.FieldOperation, log.OpShutdown)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("Server stopped with error", log.FieldError, err)
		os.Exit(1)
	}
	logger.Info("Server stopped gracefully")
}
