package redis

import (
	"context"
	"fmt"

	"github.com/redis/rueidis"

	"github.com/kailas-cloud/catalogsearch/internal/db"
)

// JSONSetMulti pipelines JSON.SET for all items in a single round-trip.
func (s *Store) JSONSetMulti(ctx context.Context, items []db.JSONSetItem) error {
	if len(items) == 0 {
		return nil
	}

	cmds := make(rueidis.Commands, len(items))
	for i := range items {
		cmds[i] = s.b().Arbitrary("JSON.SET").
			Keys(items[i].Key).
			Args(items[i].Path, string(items[i].Data)).
			Build()
	}

	for _, resp := range s.client.DoMulti(ctx, cmds...) {
		if err := resp.Error(); err != nil {
			return &db.Error{Op: db.OpJSONSet, Err: err}
		}
	}
	return nil
}

// jsonGetMulti pipelines JSON.GET <key> $ and returns the unwrapped documents
// in key order. Only a nil reply counts as a missing key; an undecodable
// document fails the lookup. Pipelining single-key reads
// keeps the lookup valid on cluster deployments where keys span slots.
func (s *Store) jsonGetMulti(ctx context.Context, keys []string) ([][]byte, error) {
	if len(keys) == 0 {
		return nil, nil
	}

	cmds := make(rueidis.Commands, len(keys))
	for i, key := range keys {
		cmds[i] = s.b().Arbitrary("JSON.GET").Keys(key).Args("$").Build()
	}

	docs := make([][]byte, len(keys))
	for i, resp := range s.client.DoMulti(ctx, cmds...) {
		raw, err := resp.ToString()
		if err != nil {
			if rueidis.IsRedisNil(err) {
				continue
			}
			return nil, &db.Error{Op: db.OpJSONGet, Err: err}
		}
		doc, err := unwrapRootPath(raw)
		if err != nil {
			return nil, &db.Error{Op: db.OpJSONGet, Err: fmt.Errorf("key %s: %w", keys[i], err)}
		}
		docs[i] = doc
	}
	return docs, nil
}
