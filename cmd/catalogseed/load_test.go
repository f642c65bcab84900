package main

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/parquet-go/parquet-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/kailas-cloud/catalogsearch/internal/domain/catalog"
)

type recordingWriter struct {
	albums  [][]catalog.Album
	songs   [][]catalog.Song
	artists [][]catalog.Artist
	err     error
}

func (w *recordingWriter) PutAlbums(_ context.Context, albums []catalog.Album) error {
	w.albums = append(w.albums, append([]catalog.Album(nil), albums...))
	return w.err
}

func (w *recordingWriter) PutSongs(_ context.Context, songs []catalog.Song) error {
	w.songs = append(w.songs, append([]catalog.Song(nil), songs...))
	return w.err
}

func (w *recordingWriter) PutArtists(_ context.Context, artists []catalog.Artist) error {
	w.artists = append(w.artists, append([]catalog.Artist(nil), artists...))
	return w.err
}

func writeParquet[T any](t *testing.T, name string, rows []T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, parquet.WriteFile(path, rows))
	return path
}

func TestReadBatches_SplitsRows(t *testing.T) {
	path := writeParquet(t, "albums.parquet", []albumRow{
		{ID: "al1", Name: "Abbey Road", Release: "1969-09-26T00:00:00Z"},
		{ID: "al2", Name: "Let It Be", Release: "1970-05-08T00:00:00Z"},
		{ID: "al3", Name: "Help!", Release: "1965-08-06T00:00:00Z"},
	})

	var sizes []int
	var ids []string
	n, err := readBatches(path, 2, func(rows []albumRow) error {
		sizes = append(sizes, len(rows))
		for _, r := range rows {
			ids = append(ids, r.ID)
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, []int{2, 1}, sizes)
	assert.Equal(t, []string{"al1", "al2", "al3"}, ids)
}

func TestReadBatches_MissingFile(t *testing.T) {
	_, err := readBatches(filepath.Join(t.TempDir(), "nope.parquet"), 10, func([]albumRow) error { return nil })
	require.Error(t, err)
}

func TestLoadCatalog_AllCollections(t *testing.T) {
	label := "lb1"
	src := loadSources{
		Albums: writeParquet(t, "albums.parquet", []albumRow{
			{ID: "al1", Name: "Abbey Road", Release: "1969-09-26T00:00:00Z", LabelID: &label},
		}),
		Songs: writeParquet(t, "songs.parquet", []songRow{
			{ID: "s1", Name: "Something", AlbumID: "al1", ArtistIDs: []string{"ar1", "ar2"}, Duration: 182.5},
			{ID: "s2", Name: "Come Together", AlbumID: "al1", ArtistIDs: []string{"ar1"}},
		}),
		Artists: writeParquet(t, "artists.parquet", []artistRow{
			{ID: "ar1", Name: "The Beatles", SongIDs: []string{"s1", "s2"}},
		}),
	}
	w := &recordingWriter{}

	err := loadCatalog(context.Background(), w, src, 1, zap.NewNop())

	require.NoError(t, err)
	require.Len(t, w.albums, 1)
	assert.Equal(t, catalog.Album{
		ID:      "al1",
		Name:    "Abbey Road",
		Release: time.Date(1969, 9, 26, 0, 0, 0, 0, time.UTC),
		LabelID: &label,
	}, w.albums[0][0])

	require.Len(t, w.songs, 2)
	assert.Equal(t, []string{"ar1", "ar2"}, w.songs[0][0].ArtistIDs)
	assert.Equal(t, []string{"ar1"}, w.songs[1][0].ArtistIDs)
	assert.Equal(t, 182.5, w.songs[0][0].Duration)

	require.Len(t, w.artists, 1)
	assert.Equal(t, []string{"s1", "s2"}, w.artists[0][0].SongIDs)
	assert.Nil(t, w.artists[0][0].Thumbnail)
}

func TestLoadCatalog_SkipsEmptySources(t *testing.T) {
	src := loadSources{
		Artists: writeParquet(t, "artists.parquet", []artistRow{{ID: "ar1", Name: "Queen"}}),
	}
	w := &recordingWriter{}

	require.NoError(t, loadCatalog(context.Background(), w, src, 10, zap.NewNop()))

	assert.Empty(t, w.albums)
	assert.Empty(t, w.songs)
	assert.Len(t, w.artists, 1)
}

func TestLoadCatalog_BadReleaseFails(t *testing.T) {
	src := loadSources{
		Albums: writeParquet(t, "albums.parquet", []albumRow{{ID: "al1", Release: "last tuesday"}}),
	}

	err := loadCatalog(context.Background(), &recordingWriter{}, src, 10, zap.NewNop())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse release")
}

func TestLoadCatalog_MissingIDFails(t *testing.T) {
	src := loadSources{
		Songs: writeParquet(t, "songs.parquet", []songRow{{Name: "Untitled"}}),
	}

	err := loadCatalog(context.Background(), &recordingWriter{}, src, 10, zap.NewNop())

	require.ErrorIs(t, err, errMissingID)
}

func TestLoadCatalog_WriterErrorStops(t *testing.T) {
	boom := errors.New("redis down")
	src := loadSources{
		Albums: writeParquet(t, "albums.parquet", []albumRow{
			{ID: "al1", Release: "1969-09-26T00:00:00Z"},
			{ID: "al2", Release: "1970-05-08T00:00:00Z"},
		}),
	}
	w := &recordingWriter{err: boom}

	err := loadCatalog(context.Background(), w, src, 1, zap.NewNop())

	require.ErrorIs(t, err, boom)
	assert.Len(t, w.albums, 1)
}
