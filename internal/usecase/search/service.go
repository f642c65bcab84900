package search

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/kailas-cloud/catalogsearch/internal/domain/catalog"
	"github.com/kailas-cloud/catalogsearch/internal/domain/search/request"
	"github.com/kailas-cloud/catalogsearch/internal/domain/search/result"
	"github.com/kailas-cloud/catalogsearch/internal/metrics"
)

// Response is the outcome of a cross-kind search.
type Response struct {
	Query   string
	Top     result.Top
	Albums  []catalog.Album
	Songs   []catalog.EnrichedSong
	Artists []catalog.Artist
}

// Service runs catalog searches against the repository.
type Service struct {
	repo    Repository
	timeout time.Duration
}

// New creates a search service. timeout bounds one whole search including
// enrichment; 0 disables it.
func New(repo Repository, timeout time.Duration) *Service {
	return &Service{repo: repo, timeout: timeout}
}

// Search queries albums, songs and artists concurrently and picks the top
// result. Any failing kind fails the whole search.
func (s *Service) Search(ctx context.Context, text string) (Response, error) {
	q, err := request.NewQuery(text)
	if err != nil {
		return Response{}, err
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var (
		albums  []result.Scored[catalog.Album]
		songs   []result.Scored[catalog.EnrichedSong]
		artists []result.Scored[catalog.Artist]
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		albums, err = s.albums(gctx, q, request.Unified(false))
		return err
	})
	g.Go(func() error {
		var err error
		songs, err = s.songs(gctx, q, request.Unified(true))
		return err
	})
	g.Go(func() error {
		var err error
		artists, err = s.artists(gctx, q, request.Unified(false))
		return err
	})
	if err := g.Wait(); err != nil {
		return Response{}, err
	}

	top := pickTop(albums, songs, artists)
	observeTop(top)

	return Response{
		Query:   q.Text(),
		Top:     top,
		Albums:  result.Docs(albums),
		Songs:   result.Docs(songs),
		Artists: result.Docs(artists),
	}, nil
}

// SearchAlbums lists albums scoring at least half of the best match.
func (s *Service) SearchAlbums(ctx context.Context, text string) ([]catalog.Album, error) {
	return scoped(ctx, s, text, request.Scoped(request.AlbumThreshold, false), s.albums)
}

// SearchSongs lists enriched songs scoring at least half of the best match.
func (s *Service) SearchSongs(ctx context.Context, text string) ([]catalog.EnrichedSong, error) {
	return scoped(ctx, s, text, request.Scoped(request.SongThreshold, true), s.songs)
}

// SearchArtists lists artists scoring at least three quarters of the best match.
func (s *Service) SearchArtists(ctx context.Context, text string) ([]catalog.Artist, error) {
	return scoped(ctx, s, text, request.Scoped(request.ArtistThreshold, false), s.artists)
}

func scoped[T any](
	ctx context.Context, s *Service, text string, p request.Policy,
	run func(context.Context, request.Query, request.Policy) ([]result.Scored[T], error),
) ([]T, error) {
	q, err := request.NewQuery(text)
	if err != nil {
		return nil, err
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	hits, err := run(ctx, q, p)
	if err != nil {
		return nil, err
	}
	return result.Docs(hits), nil
}

func (s *Service) albums(
	ctx context.Context, q request.Query, p request.Policy,
) ([]result.Scored[catalog.Album], error) {
	hits, err := searchKind(ctx, catalog.KindAlbum, s.repo.SearchAlbums, q, p)
	if err != nil {
		return nil, err
	}
	metrics.SearchResults.WithLabelValues(string(catalog.KindAlbum)).Observe(float64(len(hits)))
	return hits, nil
}

func (s *Service) songs(
	ctx context.Context, q request.Query, p request.Policy,
) ([]result.Scored[catalog.EnrichedSong], error) {
	hits, err := searchKind(ctx, catalog.KindSong, s.repo.SearchSongs, q, p)
	if err != nil {
		return nil, err
	}

	var enriched []result.Scored[catalog.EnrichedSong]
	if p.Enrich() {
		enriched, err = enrichSongs(ctx, s.repo, hits)
		if err != nil {
			return nil, err
		}
	} else {
		enriched = make([]result.Scored[catalog.EnrichedSong], len(hits))
		for i, h := range hits {
			enriched[i] = result.New(catalog.EnrichedSong{Song: h.Doc}, h.Score)
		}
	}

	metrics.SearchResults.WithLabelValues(string(catalog.KindSong)).Observe(float64(len(enriched)))
	return enriched, nil
}

func (s *Service) artists(
	ctx context.Context, q request.Query, p request.Policy,
) ([]result.Scored[catalog.Artist], error) {
	hits, err := searchKind(ctx, catalog.KindArtist, s.repo.SearchArtists, q, p)
	if err != nil {
		return nil, err
	}
	metrics.SearchResults.WithLabelValues(string(catalog.KindArtist)).Observe(float64(len(hits)))
	return hits, nil
}

func (s *Service) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.timeout)
}

func observeTop(top result.Top) {
	kind, ok := top.Kind()
	label := string(kind)
	if !ok {
		label = "none"
	}
	metrics.SearchTopResultTotal.WithLabelValues(label).Inc()
}
