package search

import (
	"context"
	"sync/atomic"

	"github.com/kailas-cloud/catalogsearch/internal/domain/catalog"
	"github.com/kailas-cloud/catalogsearch/internal/domain/search/result"
)

// mockRepo implements Repository for tests. Calls may arrive concurrently.
type mockRepo struct {
	searchAlbumsFn  func(ctx context.Context, text string, limit int) ([]result.Scored[catalog.Album], error)
	searchSongsFn   func(ctx context.Context, text string, limit int) ([]result.Scored[catalog.Song], error)
	searchArtistsFn func(ctx context.Context, text string, limit int) ([]result.Scored[catalog.Artist], error)
	lookupAlbumsFn  func(ctx context.Context, ids []string) (map[string]catalog.Album, error)
	lookupArtistsFn func(ctx context.Context, ids []string) (map[string]catalog.Artist, error)

	calls atomic.Int32
}

func (m *mockRepo) SearchAlbums(ctx context.Context, text string, limit int) ([]result.Scored[catalog.Album], error) {
	m.calls.Add(1)
	if m.searchAlbumsFn != nil {
		return m.searchAlbumsFn(ctx, text, limit)
	}
	return nil, nil
}

func (m *mockRepo) SearchSongs(ctx context.Context, text string, limit int) ([]result.Scored[catalog.Song], error) {
	m.calls.Add(1)
	if m.searchSongsFn != nil {
		return m.searchSongsFn(ctx, text, limit)
	}
	return nil, nil
}

func (m *mockRepo) SearchArtists(ctx context.Context, text string, limit int) ([]result.Scored[catalog.Artist], error) {
	m.calls.Add(1)
	if m.searchArtistsFn != nil {
		return m.searchArtistsFn(ctx, text, limit)
	}
	return nil, nil
}

func (m *mockRepo) LookupAlbums(ctx context.Context, ids []string) (map[string]catalog.Album, error) {
	m.calls.Add(1)
	if m.lookupAlbumsFn != nil {
		return m.lookupAlbumsFn(ctx, ids)
	}
	return map[string]catalog.Album{}, nil
}

func (m *mockRepo) LookupArtists(ctx context.Context, ids []string) (map[string]catalog.Artist, error) {
	m.calls.Add(1)
	if m.lookupArtistsFn != nil {
		return m.lookupArtistsFn(ctx, ids)
	}
	return map[string]catalog.Artist{}, nil
}

func albumHits(scores ...float64) []result.Scored[catalog.Album] {
	hits := make([]result.Scored[catalog.Album], len(scores))
	for i, s := range scores {
		hits[i] = result.New(catalog.Album{ID: "al" + itoa(i), Name: "Album " + itoa(i)}, s)
	}
	return hits
}

func songHits(albumID string, scores ...float64) []result.Scored[catalog.Song] {
	hits := make([]result.Scored[catalog.Song], len(scores))
	for i, s := range scores {
		hits[i] = result.New(catalog.Song{ID: "s" + itoa(i), Name: "Song " + itoa(i), AlbumID: albumID}, s)
	}
	return hits
}

func artistHits(scores ...float64) []result.Scored[catalog.Artist] {
	hits := make([]result.Scored[catalog.Artist], len(scores))
	for i, s := range scores {
		hits[i] = result.New(catalog.Artist{ID: "ar" + itoa(i), Name: "Artist " + itoa(i)}, s)
	}
	return hits
}

// withAlbum makes every album lookup resolve.
func withAlbum(m *mockRepo) {
	m.lookupAlbumsFn = func(_ context.Context, ids []string) (map[string]catalog.Album, error) {
		out := make(map[string]catalog.Album, len(ids))
		for _, id := range ids {
			out[id] = catalog.Album{ID: id, Name: "Album " + id}
		}
		return out, nil
	}
}

func itoa(i int) string {
	const digits = "0123456789"
	if i < 10 {
		return digits[i : i+1]
	}
	return itoa(i/10) + digits[i%10:i%10+1]
}
