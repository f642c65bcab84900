// Package mongo implements db.Store on MongoDB Atlas Search.
package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/kailas-cloud/catalogsearch/internal/db"
)

// Compile-time check: Store implements db.Store.
var _ db.Store = (*Store)(nil)

// Defaults applied by NewStore.
const (
	DefaultSearchIndex  = "default"
	DefaultCandidateCap = 1000
)

const disconnectTimeout = 5 * time.Second

// Config holds connection parameters for a MongoDB store.
type Config struct {
	URI          string
	Database     string
	SearchIndex  string // Atlas Search index name shared by all collections
	CandidateCap int
}

// Store implements db.Store over Atlas Search aggregations.
type Store struct {
	client       *mongo.Client
	database     *mongo.Database
	searchIndex  string
	candidateCap int
}

// NewStore connects to MongoDB. The driver connects lazily; use WaitForReady
// to block until the deployment answers.
func NewStore(ctx context.Context, cfg Config) (*Store, error) {
	if cfg.URI == "" {
		return nil, fmt.Errorf("uri is required")
	}
	if cfg.Database == "" {
		return nil, fmt.Errorf("database name is required")
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}

	searchIndex := cfg.SearchIndex
	if searchIndex == "" {
		searchIndex = DefaultSearchIndex
	}
	candidateCap := cfg.CandidateCap
	if candidateCap <= 0 {
		candidateCap = DefaultCandidateCap
	}

	return &Store{
		client:       client,
		database:     client.Database(cfg.Database),
		searchIndex:  searchIndex,
		candidateCap: candidateCap,
	}, nil
}

// Ping checks connectivity against the primary.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx, readpref.Primary()); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// Close disconnects the client.
func (s *Store) Close() {
	ctx, cancel := context.WithTimeout(context.Background(), disconnectTimeout)
	defer cancel()
	_ = s.client.Disconnect(ctx)
}

// WaitForReady polls Ping until the store responds or timeout expires.
func (s *Store) WaitForReady(ctx context.Context, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return fmt.Errorf("timeout waiting for database: %w", ctx.Err())
		case <-ticker.C:
			if err := s.Ping(ctx); err == nil {
				return nil
			}
		}
	}
}
