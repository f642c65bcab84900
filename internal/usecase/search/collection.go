package search

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/kailas-cloud/catalogsearch/internal/domain"
	"github.com/kailas-cloud/catalogsearch/internal/domain/catalog"
	"github.com/kailas-cloud/catalogsearch/internal/domain/search/request"
	"github.com/kailas-cloud/catalogsearch/internal/domain/search/result"
	"github.com/kailas-cloud/catalogsearch/internal/logger"
	"github.com/kailas-cloud/catalogsearch/internal/metrics"
)

// searchKind runs one collection's fuzzy search and cuts the hits down per
// policy. With a threshold the whole candidate set is fetched, so the cutoff
// is relative to the best candidate rather than to the best of a page.
func searchKind[T any](
	ctx context.Context, kind catalog.Kind,
	fetch func(ctx context.Context, text string, limit int) ([]result.Scored[T], error),
	q request.Query, p request.Policy,
) ([]result.Scored[T], error) {
	limit := p.Limit()
	if p.HasThreshold() {
		limit = 0
	}

	start := time.Now()
	hits, err := fetch(ctx, q.Text(), limit)
	observeBackend(kind, start, err)
	if err != nil {
		return nil, domain.NewSearchBackendError("search "+string(kind), err)
	}

	if p.HasThreshold() {
		hits = applyThreshold(hits, p.Threshold())
	}
	if len(hits) > p.Limit() {
		hits = hits[:p.Limit()]
	}
	return hits, nil
}

// applyThreshold keeps hits scoring at least ratio × the best score. Order is
// preserved.
func applyThreshold[T any](hits []result.Scored[T], ratio float64) []result.Scored[T] {
	if len(hits) == 0 {
		return hits
	}
	cutoff := result.MaxScore(hits) * ratio

	kept := make([]result.Scored[T], 0, len(hits))
	for _, h := range hits {
		if h.Score >= cutoff {
			kept = append(kept, h)
		}
	}
	return kept
}

// enrichSongs resolves album and artist references with one batch lookup per
// collection. Songs whose album is missing are dropped; scores and order of
// the remaining songs are kept.
func enrichSongs(
	ctx context.Context, repo Repository, hits []result.Scored[catalog.Song],
) ([]result.Scored[catalog.EnrichedSong], error) {
	out := make([]result.Scored[catalog.EnrichedSong], 0, len(hits))
	if len(hits) == 0 {
		return out, nil
	}

	albumIDs, artistIDs := songReferences(hits)

	var (
		albums  map[string]catalog.Album
		artists map[string]catalog.Artist
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		albums, err = repo.LookupAlbums(gctx, albumIDs)
		if err != nil {
			return domain.NewSearchBackendError("lookup albums", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		artists, err = repo.LookupArtists(gctx, artistIDs)
		if err != nil {
			return domain.NewSearchBackendError("lookup artists", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for _, h := range hits {
		enriched, ok := h.Doc.Enrich(albums, artists)
		if !ok {
			metrics.SearchDroppedSongsTotal.Inc()
			logger.FromContext(ctx).Debug("Dropping song with unresolved album",
				zap.String("song_id", h.Doc.ID),
				zap.String("album_id", h.Doc.AlbumID),
			)
			continue
		}
		out = append(out, result.New(enriched, h.Score))
	}
	return out, nil
}

// songReferences collects the distinct album and artist ids of the hits in
// first-seen order.
func songReferences(hits []result.Scored[catalog.Song]) (albumIDs, artistIDs []string) {
	seenAlbums := make(map[string]struct{}, len(hits))
	seenArtists := make(map[string]struct{})
	for _, h := range hits {
		if _, ok := seenAlbums[h.Doc.AlbumID]; !ok {
			seenAlbums[h.Doc.AlbumID] = struct{}{}
			albumIDs = append(albumIDs, h.Doc.AlbumID)
		}
		for _, id := range h.Doc.ArtistIDs {
			if _, ok := seenArtists[id]; !ok {
				seenArtists[id] = struct{}{}
				artistIDs = append(artistIDs, id)
			}
		}
	}
	return albumIDs, artistIDs
}

func observeBackend(kind catalog.Kind, start time.Time, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	metrics.SearchBackendDuration.WithLabelValues(string(kind), status).Observe(time.Since(start).Seconds())
}
