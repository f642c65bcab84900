package result

import (
	"math"

	"github.com/kailas-cloud/catalogsearch/internal/domain/catalog"
)

// Scored is a single search hit with the engine's relevance score.
type Scored[T any] struct {
	Doc   T
	Score float64
}

// New creates a scored hit.
func New[T any](doc T, score float64) Scored[T] {
	return Scored[T]{Doc: doc, Score: score}
}

// TopScore returns the score of the first hit, or -Inf for an empty list.
// Lists arrive sorted by the engine, so the first hit is the best one.
func TopScore[T any](hits []Scored[T]) float64 {
	if len(hits) == 0 {
		return math.Inf(-1)
	}
	return hits[0].Score
}

// MaxScore returns the highest score in the list, or -Inf for an empty list.
func MaxScore[T any](hits []Scored[T]) float64 {
	best := math.Inf(-1)
	for i := range hits {
		if hits[i].Score > best {
			best = hits[i].Score
		}
	}
	return best
}

// Docs strips scores, keeping order.
func Docs[T any](hits []Scored[T]) []T {
	out := make([]T, len(hits))
	for i := range hits {
		out[i] = hits[i].Doc
	}
	return out
}

// Top is the headline pick of a cross-kind search: exactly one of album, song
// or artist, or nothing.
type Top struct {
	kind   catalog.Kind
	album  *catalog.Album
	song   *catalog.EnrichedSong
	artist *catalog.Artist
}

// NoTop returns the absent top result.
func NoTop() Top { return Top{} }

// TopAlbum returns a top result holding an album.
func TopAlbum(a catalog.Album) Top { return Top{kind: catalog.KindAlbum, album: &a} }

// TopSong returns a top result holding an enriched song.
func TopSong(s catalog.EnrichedSong) Top { return Top{kind: catalog.KindSong, song: &s} }

// TopArtist returns a top result holding an artist.
func TopArtist(a catalog.Artist) Top { return Top{kind: catalog.KindArtist, artist: &a} }

// Kind returns the kind of the pick; ok is false when there is none.
func (t Top) Kind() (catalog.Kind, bool) { return t.kind, t.kind != "" }

// Album returns the album pick.
func (t Top) Album() (catalog.Album, bool) {
	if t.album == nil {
		return catalog.Album{}, false
	}
	return *t.album, true
}

// Song returns the song pick.
func (t Top) Song() (catalog.EnrichedSong, bool) {
	if t.song == nil {
		return catalog.EnrichedSong{}, false
	}
	return *t.song, true
}

// Artist returns the artist pick.
func (t Top) Artist() (catalog.Artist, bool) {
	if t.artist == nil {
		return catalog.Artist{}, false
	}
	return *t.artist, true
}
