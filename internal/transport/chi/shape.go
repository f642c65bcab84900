package chi

import (
	"time"

	"github.com/kailas-cloud/catalogsearch/internal/domain/catalog"
	"github.com/kailas-cloud/catalogsearch/internal/domain/search/result"
	searchuc "github.com/kailas-cloud/catalogsearch/internal/usecase/search"
)

// isoMillis matches the millisecond ISO-8601 form clients already parse.
const isoMillis = "2006-01-02T15:04:05.000Z"

type envelope struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
	Data    any    `json:"data"`
}

type albumResponse struct {
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	Image   string  `json:"image"`
	Color   string  `json:"color"`
	Release string  `json:"release"`
	LabelID *string `json:"labelId"`
}

type artistResponse struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Image       string   `json:"image"`
	Thumbnail   *string  `json:"thumbnail"`
	About       string   `json:"about"`
	SongIDs     []string `json:"songIds"`
	FollowerIDs []string `json:"followerIds"`
}

type artistSummaryResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Image string `json:"image"`
}

type songResponse struct {
	ID        string                  `json:"id"`
	Name      string                  `json:"name"`
	Image     string                  `json:"image"`
	URL       string                  `json:"url"`
	Duration  float64                 `json:"duration"`
	AlbumID   string                  `json:"albumId"`
	ArtistIDs []string                `json:"artistIds"`
	Album     albumResponse           `json:"album"`
	Artists   []artistSummaryResponse `json:"artists"`
}

type searchResponse struct {
	Query     string           `json:"query"`
	TopResult any              `json:"topResult"`
	Albums    []albumResponse  `json:"albums"`
	Songs     []songResponse   `json:"songs"`
	Artists   []artistResponse `json:"artists"`
}

type albumsResponse struct {
	Query  string          `json:"query"`
	Albums []albumResponse `json:"albums"`
}

type songsResponse struct {
	Query string         `json:"query"`
	Songs []songResponse `json:"songs"`
}

type artistsResponse struct {
	Query   string                  `json:"query"`
	Artists []artistSummaryResponse `json:"artists"`
}

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

func formatRelease(t time.Time) string {
	return t.UTC().Format(isoMillis)
}

func albumToResponse(a *catalog.Album) albumResponse {
	return albumResponse{
		ID:      a.ID,
		Name:    a.Name,
		Image:   a.Image,
		Color:   a.Color,
		Release: formatRelease(a.Release),
		LabelID: a.LabelID,
	}
}

// artistToResponse renders the full artist shape with the suppressed
// fields blanked.
func artistToResponse(a *catalog.Artist) artistResponse {
	return artistResponse{
		ID:          a.ID,
		Name:        a.Name,
		Image:       a.Image,
		Thumbnail:   nil,
		About:       "",
		SongIDs:     []string{},
		FollowerIDs: []string{},
	}
}

func artistSummaryToResponse(a catalog.ArtistSummary) artistSummaryResponse {
	return artistSummaryResponse{ID: a.ID, Name: a.Name, Image: a.Image}
}

func songToResponse(s *catalog.EnrichedSong) songResponse {
	artistIDs := s.ArtistIDs
	if artistIDs == nil {
		artistIDs = []string{}
	}
	artists := make([]artistSummaryResponse, len(s.Artists))
	for i, a := range s.Artists {
		artists[i] = artistSummaryToResponse(a)
	}
	return songResponse{
		ID:        s.ID,
		Name:      s.Name,
		Image:     s.Image,
		URL:       s.URL,
		Duration:  s.Duration,
		AlbumID:   s.AlbumID,
		ArtistIDs: artistIDs,
		Album:     albumToResponse(&s.Album),
		Artists:   artists,
	}
}

func albumsToResponse(albums []catalog.Album) []albumResponse {
	out := make([]albumResponse, len(albums))
	for i := range albums {
		out[i] = albumToResponse(&albums[i])
	}
	return out
}

func songsToResponse(songs []catalog.EnrichedSong) []songResponse {
	out := make([]songResponse, len(songs))
	for i := range songs {
		out[i] = songToResponse(&songs[i])
	}
	return out
}

func artistsToResponse(artists []catalog.Artist) []artistResponse {
	out := make([]artistResponse, len(artists))
	for i := range artists {
		out[i] = artistToResponse(&artists[i])
	}
	return out
}

// topToResponse returns nil when there is no pick so it encodes as null.
func topToResponse(top result.Top) any {
	if a, ok := top.Album(); ok {
		return albumToResponse(&a)
	}
	if s, ok := top.Song(); ok {
		return songToResponse(&s)
	}
	if a, ok := top.Artist(); ok {
		return artistToResponse(&a)
	}
	return nil
}

func searchToResponse(r *searchuc.Response) searchResponse {
	return searchResponse{
		Query:     r.Query,
		TopResult: topToResponse(r.Top),
		Albums:    albumsToResponse(r.Albums),
		Songs:     songsToResponse(r.Songs),
		Artists:   artistsToResponse(r.Artists),
	}
}
