// Package catalog holds the read-only catalog entities returned by search.
package catalog

import "time"

// Album is a catalog album.
type Album struct {
	ID      string
	Name    string
	Image   string
	Color   string
	Release time.Time
	LabelID *string // nil when the album has no label
}

// Artist is a catalog artist as stored. Search responses never expose
// Thumbnail, About, SongIDs or FollowerIDs.
type Artist struct {
	ID          string
	Name        string
	Image       string
	Thumbnail   *string
	About       string
	SongIDs     []string
	FollowerIDs []string
}

// ArtistSummary is the reduced artist projection embedded in songs.
type ArtistSummary struct {
	ID    string
	Name  string
	Image string
}

// Summary projects the artist onto id, name and image.
func (a *Artist) Summary() ArtistSummary {
	return ArtistSummary{ID: a.ID, Name: a.Name, Image: a.Image}
}

// Song is a catalog song with unresolved references.
type Song struct {
	ID        string
	Name      string
	Image     string
	URL       string
	Duration  float64
	AlbumID   string
	ArtistIDs []string
}

// EnrichedSong is a song with its album and artists resolved.
type EnrichedSong struct {
	Song
	Album   Album
	Artists []ArtistSummary
}

// Enrich resolves the song's references against the given lookup tables.
// Returns false when the album does not resolve. Artist ids that do not
// resolve or repeat are skipped; the remaining ones keep their order.
func (s *Song) Enrich(albums map[string]Album, artists map[string]Artist) (EnrichedSong, bool) {
	album, ok := albums[s.AlbumID]
	if !ok {
		return EnrichedSong{}, false
	}

	summaries := make([]ArtistSummary, 0, len(s.ArtistIDs))
	seen := make(map[string]struct{}, len(s.ArtistIDs))
	for _, id := range s.ArtistIDs {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		a, ok := artists[id]
		if !ok {
			continue
		}
		summaries = append(summaries, a.Summary())
	}

	return EnrichedSong{Song: *s, Album: album, Artists: summaries}, true
}
