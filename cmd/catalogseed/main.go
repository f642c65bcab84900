// catalogseed creates the catalog search indexes and loads albums, songs and
// artists from parquet files into Redis.
//
// Usage:
//
//	catalogseed index [--recreate]
//	catalogseed load --albums albums.parquet --songs songs.parquet --artists artists.parquet
//
// The Redis connection comes from config/<ENV>.yaml, the same file the API
// server reads.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kailas-cloud/catalogsearch/internal/config"
	dbRedis "github.com/kailas-cloud/catalogsearch/internal/db/redis"
	logpkg "github.com/kailas-cloud/catalogsearch/internal/logger"
	searchrepo "github.com/kailas-cloud/catalogsearch/internal/repository/search"
	"github.com/kailas-cloud/catalogsearch/internal/version"
)

var rootCmd = &cobra.Command{
	Use:           "catalogseed",
	Short:         "Create catalog search indexes and load catalog data",
	Version:       version.Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.AddCommand(indexCmd)
	rootCmd.AddCommand(loadCmd)
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer cancel()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "catalogseed:", err)
		cancel()
		os.Exit(1)
	}
}

// seedEnv is what every subcommand needs: a logger and an indexer bound to
// the configured Redis.
type seedEnv struct {
	logger  *zap.Logger
	store   *dbRedis.Store
	indexer *searchrepo.Indexer
}

func (e *seedEnv) Close() {
	e.store.Close()
	_ = e.logger.Sync()
}

func openSeedEnv(ctx context.Context) (*seedEnv, error) {
	env := config.GetEnv()
	cfg, err := config.Load(env)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if cfg.Database.Driver != config.DriverRedis {
		return nil, fmt.Errorf("catalogseed writes to redis, database.driver is %q", cfg.Database.Driver)
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:     cfg.Database.Addrs,
		Password:  cfg.Database.Password,
		KeyPrefix: cfg.Storage.KeyPrefix,
	})
	if err != nil {
		return nil, fmt.Errorf("create redis store: %w", err)
	}
	if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		store.Close()
		return nil, fmt.Errorf("redis not ready: %w", err)
	}

	logger.Info("Connected to redis", zap.Strings("addrs", cfg.Database.Addrs))
	return &seedEnv{
		logger:  logger,
		store:   store,
		indexer: searchrepo.NewIndexer(store, store.Keyspace()),
	}, nil
}
