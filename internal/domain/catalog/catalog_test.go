package catalog

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArtistSummary_DropsSuppressedFields(t *testing.T) {
	thumb := "thumb.png"
	a := Artist{
		ID:          "ar1",
		Name:        "The Beatles",
		Image:       "beatles.png",
		Thumbnail:   &thumb,
		About:       "Liverpool",
		SongIDs:     []string{"s1"},
		FollowerIDs: []string{"u1"},
	}

	assert.Equal(t, ArtistSummary{ID: "ar1", Name: "The Beatles", Image: "beatles.png"}, a.Summary())
}

func TestSongEnrich_ResolvesAlbumAndArtists(t *testing.T) {
	album := Album{ID: "al1", Name: "Abbey Road", Release: time.Date(1969, 9, 26, 0, 0, 0, 0, time.UTC)}
	s := Song{ID: "s1", Name: "Something", AlbumID: "al1", ArtistIDs: []string{"ar2", "ar1"}}

	enriched, ok := s.Enrich(
		map[string]Album{"al1": album},
		map[string]Artist{
			"ar1": {ID: "ar1", Name: "John"},
			"ar2": {ID: "ar2", Name: "George", About: "hidden"},
		},
	)

	require.True(t, ok)
	assert.Equal(t, album, enriched.Album)
	assert.Equal(t, []ArtistSummary{{ID: "ar2", Name: "George"}, {ID: "ar1", Name: "John"}}, enriched.Artists)
	assert.Equal(t, "Something", enriched.Name)
}

func TestSongEnrich_MissingAlbumIsDropped(t *testing.T) {
	s := Song{ID: "s1", AlbumID: "missing"}

	_, ok := s.Enrich(map[string]Album{}, map[string]Artist{})
	assert.False(t, ok)
}

func TestSongEnrich_SkipsUnresolvedAndDuplicateArtists(t *testing.T) {
	s := Song{ID: "s1", AlbumID: "al1", ArtistIDs: []string{"ar1", "ghost", "ar1"}}

	enriched, ok := s.Enrich(
		map[string]Album{"al1": {ID: "al1"}},
		map[string]Artist{"ar1": {ID: "ar1", Name: "John"}},
	)

	require.True(t, ok)
	assert.Equal(t, []ArtistSummary{{ID: "ar1", Name: "John"}}, enriched.Artists)
}

func TestSongEnrich_NoArtistsYieldsEmptySlice(t *testing.T) {
	s := Song{ID: "s1", AlbumID: "al1"}

	enriched, ok := s.Enrich(map[string]Album{"al1": {ID: "al1"}}, nil)

	require.True(t, ok)
	assert.NotNil(t, enriched.Artists)
	assert.Empty(t, enriched.Artists)
}

func TestKind(t *testing.T) {
	assert.Equal(t, []Kind{KindAlbum, KindSong, KindArtist}, Kinds())
	assert.Equal(t, "Album", KindAlbum.Collection())
	assert.Equal(t, "Song", KindSong.Collection())
	assert.Equal(t, "Artist", KindArtist.Collection())
	assert.Equal(t, "", Kind("genre").Collection())
}
