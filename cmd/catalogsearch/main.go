package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/catalogsearch/internal/config"
	"github.com/kailas-cloud/catalogsearch/internal/db"
	"github.com/kailas-cloud/catalogsearch/internal/db/breaker"
	dbMongo "github.com/kailas-cloud/catalogsearch/internal/db/mongo"
	dbRedis "github.com/kailas-cloud/catalogsearch/internal/db/redis"
	logpkg "github.com/kailas-cloud/catalogsearch/internal/logger"
	"github.com/kailas-cloud/catalogsearch/internal/metrics"
	"github.com/kailas-cloud/catalogsearch/internal/repository/respcache"
	searchrepo "github.com/kailas-cloud/catalogsearch/internal/repository/search"
	chiTransport "github.com/kailas-cloud/catalogsearch/internal/transport/chi"
	healthuc "github.com/kailas-cloud/catalogsearch/internal/usecase/health"
	searchuc "github.com/kailas-cloud/catalogsearch/internal/usecase/search"
	"github.com/kailas-cloud/catalogsearch/internal/version"
)

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting catalogsearch API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("db_driver", cfg.Database.Driver),
		zap.Strings("db_addrs", cfg.Database.Addrs),
	)

	ctx := context.Background()

	// Create search backend based on driver
	var store db.Store
	var redisStore *dbRedis.Store
	switch cfg.Database.Driver {
	case config.DriverRedis:
		redisStore, err = dbRedis.NewStore(dbRedis.Config{
			Addrs:        cfg.Database.Addrs,
			Password:     cfg.Database.Password,
			KeyPrefix:    cfg.Storage.KeyPrefix,
			CandidateCap: cfg.Search.CandidateCap,
		})
		store = redisStore
	case config.DriverMongo:
		store, err = dbMongo.NewStore(ctx, dbMongo.Config{
			URI:          cfg.Database.URI,
			Database:     cfg.Database.Name,
			SearchIndex:  cfg.Database.SearchIndex,
			CandidateCap: cfg.Search.CandidateCap,
		})
	default:
		logger.Fatal("Unknown database driver", zap.String("driver", cfg.Database.Driver))
	}
	if err != nil {
		logger.Fatal("Failed to create database store", zap.Error(err))
	}
	defer store.Close()

	// Wait for database to be ready
	readiness := time.Duration(cfg.Database.ReadinessTimeout) * time.Second
	if err := store.WaitForReady(ctx, readiness); err != nil {
		logger.Fatal("Database not ready", zap.Error(err))
	}
	logger.Info("Connected to database")

	// Register search metrics explicitly (no init())
	metrics.RegisterSearchMetrics()

	// Circuit breaker sits between the repository and the backend.
	// Pass nil interface (not typed nil pointer!) to health if disabled.
	searchStore := store
	var breakerState healthuc.Breaker
	if cfg.Breaker.Enabled {
		br := breaker.Wrap(store, breaker.Config{
			Name:        "search-" + cfg.Database.Driver,
			MaxRequests: cfg.Breaker.MaxRequests,
			Interval:    time.Duration(cfg.Breaker.IntervalSec) * time.Second,
			Timeout:     time.Duration(cfg.Breaker.TimeoutSec) * time.Second,
			TripRatio:   cfg.Breaker.TripRatio,
		}, logger)
		searchStore = br
		breakerState = br
	}

	// Response cache
	var cache chiTransport.ResponseCache
	var cachePinger healthuc.Pinger
	if cfg.Cache.Enabled {
		cacheStore, closeCache, err := buildCacheStore(cfg, redisStore, readiness)
		if err != nil {
			logger.Fatal("Failed to create response cache store", zap.Error(err))
		}
		defer closeCache()
		cache = respcache.New(cacheStore, time.Duration(cfg.Cache.TTLSec)*time.Second,
			metrics.ResponseCacheTotal, logger)
		cachePinger = cacheStore
		logger.Info("Response cache enabled", zap.Int("ttl_sec", cfg.Cache.TTLSec))
	}

	// Repositories and use cases
	repo := searchrepo.New(searchStore)
	searchSvc := searchuc.New(repo, time.Duration(cfg.Search.TimeoutMs)*time.Millisecond)
	healthSvc := healthuc.New(store, cachePinger, breakerState)

	server := chiTransport.NewServer(searchSvc, healthSvc, logger)
	handler := chiTransport.NewRouter(server, chiTransport.RouterConfig{
		APIKeys: cfg.Auth.APIKeys,
		Cache:   cache,
	}, logger)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	sig := <-quit
	logger.Info("Received shutdown signal", zap.String("signal", sig.String()))

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// buildCacheStore reuses the search Redis when the cache has no addresses of
// its own. The returned close func is a no-op for the shared store.
func buildCacheStore(
	cfg config.Config, shared *dbRedis.Store, readiness time.Duration,
) (*dbRedis.Store, func(), error) {
	if len(cfg.Cache.Addrs) == 0 {
		if shared == nil {
			return nil, nil, errors.New("cache.addrs is required without a redis search backend")
		}
		return shared, func() {}, nil
	}

	s, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.Cache.Addrs,
		Password: cfg.Cache.Password,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("create cache store: %w", err)
	}
	if err := s.WaitForReady(context.Background(), readiness); err != nil {
		s.Close()
		return nil, nil, fmt.Errorf("cache not ready: %w", err)
	}
	return s, s.Close, nil
}
