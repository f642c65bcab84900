package search

import (
	"context"
	"testing"

	"github.com/kailas-cloud/catalogsearch/internal/db"
)

// mockStore implements the consumer interfaces for tests.
type mockStore struct {
	fuzzySearchFn  func(ctx context.Context, q *db.FuzzyQuery) (*db.SearchResult, error)
	lookupFn       func(ctx context.Context, collection string, ids []string) (map[string][]byte, error)
	jsonSetMultiFn func(ctx context.Context, items []db.JSONSetItem) error
	createIndexFn  func(ctx context.Context, def *db.IndexDefinition) error
	dropIndexFn    func(ctx context.Context, name string) error
	indexExistsFn  func(ctx context.Context, name string) (bool, error)
}

func (m *mockStore) FuzzySearch(ctx context.Context, q *db.FuzzyQuery) (*db.SearchResult, error) {
	if m.fuzzySearchFn != nil {
		return m.fuzzySearchFn(ctx, q)
	}
	return &db.SearchResult{}, nil
}

func (m *mockStore) Lookup(ctx context.Context, collection string, ids []string) (map[string][]byte, error) {
	if m.lookupFn != nil {
		return m.lookupFn(ctx, collection, ids)
	}
	return map[string][]byte{}, nil
}

func (m *mockStore) JSONSetMulti(ctx context.Context, items []db.JSONSetItem) error {
	if m.jsonSetMultiFn != nil {
		return m.jsonSetMultiFn(ctx, items)
	}
	return nil
}

func (m *mockStore) CreateIndex(ctx context.Context, def *db.IndexDefinition) error {
	if m.createIndexFn != nil {
		return m.createIndexFn(ctx, def)
	}
	return nil
}

func (m *mockStore) DropIndex(ctx context.Context, name string) error {
	if m.dropIndexFn != nil {
		return m.dropIndexFn(ctx, name)
	}
	return nil
}

func (m *mockStore) IndexExists(ctx context.Context, name string) (bool, error) {
	if m.indexExistsFn != nil {
		return m.indexExistsFn(ctx, name)
	}
	return false, nil
}

func newTestRepo(t *testing.T) (*Repo, *mockStore) {
	t.Helper()
	ms := &mockStore{}
	return New(ms), ms
}

func newTestIndexer(t *testing.T) (*Indexer, *mockStore) {
	t.Helper()
	ms := &mockStore{}
	return NewIndexer(ms, db.Keyspace{Prefix: "catalog:"}), ms
}
