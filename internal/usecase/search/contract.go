package search

import (
	"context"

	"github.com/kailas-cloud/catalogsearch/internal/domain/catalog"
	"github.com/kailas-cloud/catalogsearch/internal/domain/search/result"
)

// Repository defines the storage contract for catalog search. Search methods
// return hits sorted by score descending; limit 0 asks for every candidate.
type Repository interface {
	SearchAlbums(ctx context.Context, text string, limit int) ([]result.Scored[catalog.Album], error)
	SearchSongs(ctx context.Context, text string, limit int) ([]result.Scored[catalog.Song], error)
	SearchArtists(ctx context.Context, text string, limit int) ([]result.Scored[catalog.Artist], error)

	LookupAlbums(ctx context.Context, ids []string) (map[string]catalog.Album, error)
	LookupArtists(ctx context.Context, ids []string) (map[string]catalog.Artist, error)
}
