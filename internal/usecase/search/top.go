package search

import (
	"github.com/kailas-cloud/catalogsearch/internal/domain/catalog"
	"github.com/kailas-cloud/catalogsearch/internal/domain/search/result"
)

// pickTop chooses the headline result by comparing the first score of each
// list. Ties go to album, then song, then artist.
func pickTop(
	albums []result.Scored[catalog.Album],
	songs []result.Scored[catalog.EnrichedSong],
	artists []result.Scored[catalog.Artist],
) result.Top {
	if len(albums) == 0 && len(songs) == 0 && len(artists) == 0 {
		return result.NoTop()
	}

	albumScore := result.TopScore(albums)
	songScore := result.TopScore(songs)
	artistScore := result.TopScore(artists)

	// An empty list scores -Inf, so it can only win a comparison against
	// another empty list, which the all-empty guard above rules out.
	switch {
	case albumScore >= songScore && albumScore >= artistScore:
		return result.TopAlbum(albums[0].Doc)
	case songScore >= albumScore && songScore >= artistScore:
		return result.TopSong(songs[0].Doc)
	default:
		return result.TopArtist(artists[0].Doc)
	}
}
