package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/parquet-go/parquet-go"

	"github.com/kailas-cloud/catalogsearch/internal/domain/catalog"
)

// albumRow is the parquet schema of the albums file.
type albumRow struct {
	ID      string  `parquet:"id"`
	Name    string  `parquet:"name"`
	Image   string  `parquet:"image"`
	Color   string  `parquet:"color"`
	Release string  `parquet:"release"` // RFC 3339
	LabelID *string `parquet:"label_id,optional"`
}

// songRow is the parquet schema of the songs file.
type songRow struct {
	ID        string   `parquet:"id"`
	Name      string   `parquet:"name"`
	Image     string   `parquet:"image"`
	URL       string   `parquet:"url"`
	Duration  float64  `parquet:"duration"`
	AlbumID   string   `parquet:"album_id"`
	ArtistIDs []string `parquet:"artist_ids,list"`
}

// artistRow is the parquet schema of the artists file.
type artistRow struct {
	ID          string   `parquet:"id"`
	Name        string   `parquet:"name"`
	Image       string   `parquet:"image"`
	Thumbnail   *string  `parquet:"thumbnail,optional"`
	About       string   `parquet:"about"`
	SongIDs     []string `parquet:"song_ids,list"`
	FollowerIDs []string `parquet:"follower_ids,list"`
}

var errMissingID = errors.New("row has no id")

func (r albumRow) toDomain() (catalog.Album, error) {
	if r.ID == "" {
		return catalog.Album{}, errMissingID
	}
	release, err := time.Parse(time.RFC3339Nano, r.Release)
	if err != nil {
		return catalog.Album{}, fmt.Errorf("album %s: parse release: %w", r.ID, err)
	}
	return catalog.Album{
		ID:      r.ID,
		Name:    r.Name,
		Image:   r.Image,
		Color:   r.Color,
		Release: release.UTC(),
		LabelID: cloneString(r.LabelID),
	}, nil
}

func (r songRow) toDomain() (catalog.Song, error) {
	if r.ID == "" {
		return catalog.Song{}, errMissingID
	}
	return catalog.Song{
		ID:        r.ID,
		Name:      r.Name,
		Image:     r.Image,
		URL:       r.URL,
		Duration:  r.Duration,
		AlbumID:   r.AlbumID,
		ArtistIDs: slices.Clone(r.ArtistIDs),
	}, nil
}

func (r artistRow) toDomain() (catalog.Artist, error) {
	if r.ID == "" {
		return catalog.Artist{}, errMissingID
	}
	return catalog.Artist{
		ID:          r.ID,
		Name:        r.Name,
		Image:       r.Image,
		Thumbnail:   cloneString(r.Thumbnail),
		About:       r.About,
		SongIDs:     slices.Clone(r.SongIDs),
		FollowerIDs: slices.Clone(r.FollowerIDs),
	}, nil
}

// cloneString detaches optional values from the reader's row buffer.
func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

// readBatches streams a parquet file in batches of up to n rows. The slice
// passed to fn is reused between calls.
func readBatches[T any](path string, n int, fn func([]T) error) (int, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return 0, fmt.Errorf("open: %w", err)
	}
	defer func() { _ = f.Close() }()

	rows := parquet.NewGenericReader[T](f)
	defer func() { _ = rows.Close() }()

	buf := make([]T, n)
	total := 0
	for {
		cnt, readErr := rows.Read(buf)
		if cnt > 0 {
			if err := fn(buf[:cnt]); err != nil {
				return total, err
			}
			total += cnt
		}
		if readErr != nil {
			if errors.Is(readErr, io.EOF) {
				break
			}
			return total, fmt.Errorf("read rows: %w", readErr)
		}
	}
	return total, nil
}
