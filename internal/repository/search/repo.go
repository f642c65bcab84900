// Package search reads and writes catalog documents in the search backend.
package search

import (
	"context"
	"fmt"

	"github.com/kailas-cloud/catalogsearch/internal/db"
	"github.com/kailas-cloud/catalogsearch/internal/domain/catalog"
	"github.com/kailas-cloud/catalogsearch/internal/domain/search/request"
	"github.com/kailas-cloud/catalogsearch/internal/domain/search/result"
)

// namePath is the document field every collection is matched on.
const namePath = "name"

// store is the consumer interface for search operations (ISP).
type store interface {
	FuzzySearch(ctx context.Context, q *db.FuzzyQuery) (*db.SearchResult, error)
	Lookup(ctx context.Context, collection string, ids []string) (map[string][]byte, error)
}

// Repo implements usecase/search.Repository.
type Repo struct {
	store store
}

// New creates a search repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

// SearchAlbums fuzzy-matches album names. limit 0 returns every candidate.
func (r *Repo) SearchAlbums(ctx context.Context, text string, limit int) ([]result.Scored[catalog.Album], error) {
	return fuzzySearch(ctx, r.store, catalog.KindAlbum, text, limit, decodeAlbum)
}

// SearchSongs fuzzy-matches song names. limit 0 returns every candidate.
func (r *Repo) SearchSongs(ctx context.Context, text string, limit int) ([]result.Scored[catalog.Song], error) {
	return fuzzySearch(ctx, r.store, catalog.KindSong, text, limit, decodeSong)
}

// SearchArtists fuzzy-matches artist names. limit 0 returns every candidate.
func (r *Repo) SearchArtists(ctx context.Context, text string, limit int) ([]result.Scored[catalog.Artist], error) {
	return fuzzySearch(ctx, r.store, catalog.KindArtist, text, limit, decodeArtist)
}

// LookupAlbums resolves albums by id. Unknown ids are absent from the map.
func (r *Repo) LookupAlbums(ctx context.Context, ids []string) (map[string]catalog.Album, error) {
	return lookup(ctx, r.store, catalog.KindAlbum, ids, decodeAlbum)
}

// LookupArtists resolves artists by id. Unknown ids are absent from the map.
func (r *Repo) LookupArtists(ctx context.Context, ids []string) (map[string]catalog.Artist, error) {
	return lookup(ctx, r.store, catalog.KindArtist, ids, decodeArtist)
}

type decodeFunc[T any] func(id string, raw []byte) (T, error)

func fuzzySearch[T any](
	ctx context.Context, s store, kind catalog.Kind,
	text string, limit int, decode decodeFunc[T],
) ([]result.Scored[T], error) {
	sr, err := s.FuzzySearch(ctx, &db.FuzzyQuery{
		Collection: kind.Collection(),
		Path:       namePath,
		Text:       text,
		MaxEdits:   request.FuzzyMaxEdits,
		Limit:      limit,
	})
	if err != nil {
		return nil, fmt.Errorf("search %s: %w", kind, err)
	}
	if sr == nil {
		return []result.Scored[T]{}, nil
	}

	hits := make([]result.Scored[T], 0, len(sr.Entries))
	for _, entry := range sr.Entries {
		doc, err := decode(entry.ID, entry.Doc)
		if err != nil {
			return nil, err
		}
		hits = append(hits, result.New(doc, entry.Score))
	}
	return hits, nil
}

func lookup[T any](
	ctx context.Context, s store, kind catalog.Kind,
	ids []string, decode decodeFunc[T],
) (map[string]T, error) {
	if len(ids) == 0 {
		return map[string]T{}, nil
	}

	raw, err := s.Lookup(ctx, kind.Collection(), ids)
	if err != nil {
		return nil, fmt.Errorf("lookup %s: %w", kind, err)
	}

	out := make(map[string]T, len(raw))
	for id, data := range raw {
		doc, err := decode(id, data)
		if err != nil {
			return nil, err
		}
		out[id] = doc
	}
	return out, nil
}
