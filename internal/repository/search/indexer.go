package search

import (
	"context"
	"errors"
	"fmt"

	"github.com/kailas-cloud/catalogsearch/internal/db"
	"github.com/kailas-cloud/catalogsearch/internal/domain/catalog"
)

// writeStore is the consumer interface for loading the catalog (ISP).
type writeStore interface {
	JSONSetMulti(ctx context.Context, items []db.JSONSetItem) error
	CreateIndex(ctx context.Context, def *db.IndexDefinition) error
	DropIndex(ctx context.Context, name string) error
	IndexExists(ctx context.Context, name string) (bool, error)
}

// IndexState is what EnsureIndexes did with one collection's index.
type IndexState string

// Index states.
const (
	IndexCreated   IndexState = "created"
	IndexKept      IndexState = "kept"
	IndexRecreated IndexState = "recreated"
)

// IndexStatus reports the outcome for one collection.
type IndexStatus struct {
	Kind  catalog.Kind
	Name  string
	State IndexState
}

// Indexer creates the per-collection name indexes and loads documents into them.
type Indexer struct {
	store writeStore
	keys  db.Keyspace
}

// NewIndexer creates an indexer writing under the given keyspace.
func NewIndexer(s writeStore, keys db.Keyspace) *Indexer {
	return &Indexer{store: s, keys: keys}
}

// IndexDefinition returns the name index of a collection.
func (ix *Indexer) IndexDefinition(kind catalog.Kind) (*db.IndexDefinition, error) {
	coll := kind.Collection()
	return db.NewIndex(ix.keys.IndexName(coll)).
		OnJSON().
		Prefix(ix.keys.CollectionPrefix(coll)).
		Text("$."+namePath, namePath).
		Build()
}

// EnsureIndexes creates the name index of every collection. Existing indexes
// are kept unless recreate is set.
func (ix *Indexer) EnsureIndexes(ctx context.Context, recreate bool) ([]IndexStatus, error) {
	statuses := make([]IndexStatus, 0, len(catalog.Kinds()))
	for _, kind := range catalog.Kinds() {
		def, err := ix.IndexDefinition(kind)
		if err != nil {
			return statuses, fmt.Errorf("build %s index: %w", kind, err)
		}
		state, err := ix.ensureIndex(ctx, def, recreate)
		if err != nil {
			return statuses, fmt.Errorf("%s index: %w", kind, err)
		}
		statuses = append(statuses, IndexStatus{Kind: kind, Name: def.Name, State: state})
	}
	return statuses, nil
}

func (ix *Indexer) ensureIndex(ctx context.Context, def *db.IndexDefinition, recreate bool) (IndexState, error) {
	exists, err := ix.store.IndexExists(ctx, def.Name)
	if err != nil {
		return "", fmt.Errorf("probe: %w", err)
	}

	state := IndexCreated
	if exists {
		if !recreate {
			return IndexKept, nil
		}
		if err := ix.store.DropIndex(ctx, def.Name); err != nil && !errors.Is(err, db.ErrIndexNotFound) {
			return "", fmt.Errorf("drop: %w", err)
		}
		state = IndexRecreated
	}

	if err := ix.store.CreateIndex(ctx, def); err != nil {
		// Another loader created it between the probe and here.
		if errors.Is(err, db.ErrIndexExists) {
			return IndexKept, nil
		}
		return "", fmt.Errorf("create: %w", err)
	}
	return state, nil
}

// PutAlbums upserts album documents.
func (ix *Indexer) PutAlbums(ctx context.Context, albums []catalog.Album) error {
	return put(ctx, ix, catalog.KindAlbum, albums,
		func(a *catalog.Album) string { return a.ID }, encodeAlbum)
}

// PutSongs upserts song documents.
func (ix *Indexer) PutSongs(ctx context.Context, songs []catalog.Song) error {
	return put(ctx, ix, catalog.KindSong, songs,
		func(s *catalog.Song) string { return s.ID }, encodeSong)
}

// PutArtists upserts artist documents.
func (ix *Indexer) PutArtists(ctx context.Context, artists []catalog.Artist) error {
	return put(ctx, ix, catalog.KindArtist, artists,
		func(a *catalog.Artist) string { return a.ID }, encodeArtist)
}

func put[T any](
	ctx context.Context, ix *Indexer, kind catalog.Kind, docs []T,
	idOf func(*T) string, encode func(*T) ([]byte, error),
) error {
	if len(docs) == 0 {
		return nil
	}

	items := make([]db.JSONSetItem, len(docs))
	for i := range docs {
		id := idOf(&docs[i])
		if id == "" {
			return fmt.Errorf("%s at position %d has no id", kind, i)
		}
		data, err := encode(&docs[i])
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", kind, id, err)
		}
		items[i] = db.JSONSetItem{
			Key:  ix.keys.DocKey(kind.Collection(), id),
			Path: "$",
			Data: data,
		}
	}

	if err := ix.store.JSONSetMulti(ctx, items); err != nil {
		return fmt.Errorf("put %s: %w", kind, err)
	}
	return nil
}
