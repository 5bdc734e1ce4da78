// Package cli provides common initialization shared by cmd/ledgerdash and
// cmd/ledger-worker.
package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"ledgerdash/internal/cache"
	"ledgerdash/internal/config"
	"ledgerdash/internal/currency"
	"ledgerdash/internal/log"
	"ledgerdash/internal/services"
	"ledgerdash/internal/storage"
)

// LoadEnvFile loads the .env file for local development.
// Errors are ignored silently as this is optional in production.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// SetupLogger builds the process logger from cfg and installs it as the
// slog default.
func SetupLogger(cfg *config.Config) *log.Logger {
	logger := log.New(log.Config{
		Level:     log.ParseLevel(cfg.LogLevel),
		Format:    cfg.LogFormat,
		Component: log.ComponentApp,
	})
	log.SetDefault(logger)
	return logger
}

// Bootstrap loads .env and configuration, sets up logging and validates.
// Exits the process on validation failure.
func Bootstrap() (*config.Config, *log.Logger) {
	LoadEnvFile()
	cfg := config.Load()
	logger := SetupLogger(cfg)
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", log.FieldError, err)
		os.Exit(1)
	}
	return cfg, logger
}

// InitSQLite initializes the preference store at dbPath.
// Returns the repository or exits the process on failure.
func InitSQLite(logger *log.Logger, dbPath string, table *currency.Table) *storage.SQLiteRepository {
	repo, err := storage.NewSQLiteRepository(dbPath, table)
	if err != nil {
		logger.WithComponent(log.ComponentStorage).Error("Failed to initialize SQLite repository",
			log.FieldError, err, "path", dbPath)
		os.Exit(1)
	}
	return repo
}

// NewSnapshotCache creates the dashboard snapshot cache sized from cfg and a
// manager that evicts its expired entries.
func NewSnapshotCache(cfg *config.Config, logger *log.Logger) (*cache.LRUCache[*services.Snapshot], *cache.Manager) {
	snapshots := cache.NewLRUCache[*services.Snapshot](cfg.SnapshotCacheSize, cfg.SnapshotCacheTTL)
	manager := cache.NewManager(logger.With(log.FieldComponent, log.ComponentCache).Logger)
	manager.Register(snapshots)
	return snapshots, manager
}

// RunCacheCleanup runs manager's cleanup loop until ctx ends.
func RunCacheCleanup(ctx context.Context, manager *cache.Manager, interval time.Duration) error {
	manager.StartCleanup(interval)
	<-ctx.Done()
	manager.Stop()
	return nil
}

// SignalContext returns a context cancelled on SIGINT or SIGTERM.
func SignalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}
