package db

import (
	"context"
	"time"
)

// Store is the search backend facade every driver implements.
type Store interface {
	Pinger
	Searcher
	Close()
	WaitForReady(ctx context.Context, timeout time.Duration) error
}

// CatalogStore is a Store that also owns document storage and index lifecycle
// (Redis). The seeding CLI and the response cache depend on it.
//
//nolint:interfacebloat // facade by design -- consumers use narrow sub-interfaces (ISP)
type CatalogStore interface {
	Store
	JSONStore
	KVStore
	IndexManager
}

// Pinger checks database connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// JSONSetItem holds a single key+path+data triple for pipelined JSON.SET.
type JSONSetItem struct {
	Key  string
	Path string
	Data []byte
}

// JSONStore writes catalog documents.
type JSONStore interface {
	JSONSetMulti(ctx context.Context, items []JSONSetItem) error
}

// KVStore provides the key-value operations of the response cache.
type KVStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// IndexManager provides FT index lifecycle operations.
type IndexManager interface {
	CreateIndex(ctx context.Context, def *IndexDefinition) error
	DropIndex(ctx context.Context, name string) error
	IndexExists(ctx context.Context, name string) (bool, error)
}

// Searcher is the fuzzy full-text index contract consumed by the catalog
// repository. Implementations return hits sorted by score descending.
type Searcher interface {
	FuzzySearch(ctx context.Context, q *FuzzyQuery) (*SearchResult, error)
	// Lookup resolves documents by exact id. Ids that do not exist are absent
	// from the returned map.
	Lookup(ctx context.Context, collection string, ids []string) (map[string][]byte, error)
}
