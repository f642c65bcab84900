package catalogsearch

import "time"

// Kind names a catalog collection.
type Kind string

// Kind constants.
const (
	KindAlbum  Kind = "album"
	KindSong   Kind = "song"
	KindArtist Kind = "artist"
)

// Album is a catalog album.
type Album struct {
	ID      string    `json:"id"`
	Name    string    `json:"name"`
	Image   string    `json:"image"`
	Color   string    `json:"color"`
	Release time.Time `json:"release"`
	LabelID *string   `json:"labelId"`
}

// Artist is a catalog artist as returned by search: id, name and image.
type Artist struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Image string `json:"image"`
}

// Song is a catalog song with its album and artists resolved.
type Song struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Image     string   `json:"image"`
	URL       string   `json:"url"`
	Duration  float64  `json:"duration"`
	AlbumID   string   `json:"albumId"`
	ArtistIDs []string `json:"artistIds"`
	Album     Album    `json:"album"`
	Artists   []Artist `json:"artists"`
}

// TopResult is the best match across kinds. Exactly one of Album, Song or
// Artist is set, matching Kind.
type TopResult struct {
	Kind   Kind
	Album  *Album
	Song   *Song
	Artist *Artist
}

// Results is the outcome of a cross-kind search.
type Results struct {
	Query   string
	Top     *TopResult // nil when nothing matched
	Albums  []Album
	Songs   []Song
	Artists []Artist
}

// HealthStatus represents the aggregated service health.
type HealthStatus struct {
	Status string            `json:"status"` // "ok", "degraded", "error"
	Checks map[string]string `json:"checks"` // component → "ok"/"error"
}
