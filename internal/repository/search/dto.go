package search

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/kailas-cloud/catalogsearch/internal/domain/catalog"
)

// Stored documents come in two dialects: plain JSON written by the seeding
// tool ("labelId": "x", "release": "2006-01-02T15:04:05Z") and MongoDB
// relaxed extended JSON ({"$oid": "x"}, {"$date": ...}). The document id
// always comes from the store, never from the body.

// refID is a document reference in either dialect.
type refID string

func (r *refID) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*r = refID(s)
		return nil
	}
	var oid struct {
		OID string `json:"$oid"`
	}
	if err := json.Unmarshal(data, &oid); err != nil {
		return fmt.Errorf("invalid id reference: %w", err)
	}
	if oid.OID == "" {
		return errors.New("invalid id reference: empty $oid")
	}
	*r = refID(oid.OID)
	return nil
}

// dateTime is a timestamp in either dialect.
type dateTime time.Time

func (d *dateTime) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		t, err := time.Parse(time.RFC3339Nano, s)
		if err != nil {
			return fmt.Errorf("invalid date %q: %w", s, err)
		}
		*d = dateTime(t.UTC())
		return nil
	}

	var ext struct {
		Date json.RawMessage `json:"$date"`
	}
	if err := json.Unmarshal(data, &ext); err != nil || len(ext.Date) == 0 {
		return fmt.Errorf("invalid date %s", data)
	}
	t, err := parseExtDate(ext.Date)
	if err != nil {
		return err
	}
	*d = dateTime(t)
	return nil
}

// parseExtDate handles the $date payloads: ISO string (relaxed), millisecond
// number, or {"$numberLong": "ms"} (canonical, dates outside 1970-9999).
func parseExtDate(raw json.RawMessage) (time.Time, error) {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		t, err := time.Parse(time.RFC3339Nano, s)
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid $date %q: %w", s, err)
		}
		return t.UTC(), nil
	}

	var ms int64
	if err := json.Unmarshal(raw, &ms); err == nil {
		return time.UnixMilli(ms).UTC(), nil
	}

	var long struct {
		NumberLong string `json:"$numberLong"`
	}
	if err := json.Unmarshal(raw, &long); err != nil {
		return time.Time{}, fmt.Errorf("invalid $date %s", raw)
	}
	ms, err := strconv.ParseInt(long.NumberLong, 10, 64)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid $date $numberLong %q: %w", long.NumberLong, err)
	}
	return time.UnixMilli(ms).UTC(), nil
}

type albumDoc struct {
	Name    string   `json:"name"`
	Image   string   `json:"image"`
	Color   string   `json:"color"`
	Release dateTime `json:"release"`
	LabelID *refID   `json:"labelId"`
}

func decodeAlbum(id string, raw []byte) (catalog.Album, error) {
	var doc albumDoc
	if err := json.Unmarshal(raw, &doc); err != nil {
		return catalog.Album{}, fmt.Errorf("decode album %s: %w", id, err)
	}
	album := catalog.Album{
		ID:      id,
		Name:    doc.Name,
		Image:   doc.Image,
		Color:   doc.Color,
		Release: time.Time(doc.Release),
	}
	if doc.LabelID != nil && *doc.LabelID != "" {
		label := string(*doc.LabelID)
		album.LabelID = &label
	}
	return album, nil
}

type songDoc struct {
	Name      string  `json:"name"`
	Image     string  `json:"image"`
	URL       string  `json:"url"`
	Duration  float64 `json:"duration"`
	AlbumID   refID   `json:"albumId"`
	ArtistIDs []refID `json:"artistIds"`
}

func decodeSong(id string, raw []byte) (catalog.Song, error) {
	var doc songDoc
	if err := json.Unmarshal(raw, &doc); err != nil {
		return catalog.Song{}, fmt.Errorf("decode song %s: %w", id, err)
	}
	return catalog.Song{
		ID:        id,
		Name:      doc.Name,
		Image:     doc.Image,
		URL:       doc.URL,
		Duration:  doc.Duration,
		AlbumID:   string(doc.AlbumID),
		ArtistIDs: refStrings(doc.ArtistIDs),
	}, nil
}

type artistDoc struct {
	Name        string  `json:"name"`
	Image       string  `json:"image"`
	Thumbnail   *string `json:"thumbnail"`
	About       string  `json:"about"`
	SongIDs     []refID `json:"songIds"`
	FollowerIDs []refID `json:"followerIds"`
}

func decodeArtist(id string, raw []byte) (catalog.Artist, error) {
	var doc artistDoc
	if err := json.Unmarshal(raw, &doc); err != nil {
		return catalog.Artist{}, fmt.Errorf("decode artist %s: %w", id, err)
	}
	return catalog.Artist{
		ID:          id,
		Name:        doc.Name,
		Image:       doc.Image,
		Thumbnail:   doc.Thumbnail,
		About:       doc.About,
		SongIDs:     refStrings(doc.SongIDs),
		FollowerIDs: refStrings(doc.FollowerIDs),
	}, nil
}

func refStrings(refs []refID) []string {
	out := make([]string, len(refs))
	for i, r := range refs {
		out[i] = string(r)
	}
	return out
}

// --- plain dialect writers ---

type albumRow struct {
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	Image   string  `json:"image"`
	Color   string  `json:"color"`
	Release string  `json:"release"`
	LabelID *string `json:"labelId"`
}

func encodeAlbum(a *catalog.Album) ([]byte, error) {
	return json.Marshal(albumRow{
		ID:      a.ID,
		Name:    a.Name,
		Image:   a.Image,
		Color:   a.Color,
		Release: a.Release.UTC().Format(time.RFC3339Nano),
		LabelID: a.LabelID,
	})
}

type songRow struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Image     string   `json:"image"`
	URL       string   `json:"url"`
	Duration  float64  `json:"duration"`
	AlbumID   string   `json:"albumId"`
	ArtistIDs []string `json:"artistIds"`
}

func encodeSong(s *catalog.Song) ([]byte, error) {
	return json.Marshal(songRow{
		ID:        s.ID,
		Name:      s.Name,
		Image:     s.Image,
		URL:       s.URL,
		Duration:  s.Duration,
		AlbumID:   s.AlbumID,
		ArtistIDs: nonNil(s.ArtistIDs),
	})
}

type artistRow struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Image       string   `json:"image"`
	Thumbnail   *string  `json:"thumbnail"`
	About       string   `json:"about"`
	SongIDs     []string `json:"songIds"`
	FollowerIDs []string `json:"followerIds"`
}

func encodeArtist(a *catalog.Artist) ([]byte, error) {
	return json.Marshal(artistRow{
		ID:          a.ID,
		Name:        a.Name,
		Image:       a.Image,
		Thumbnail:   a.Thumbnail,
		About:       a.About,
		SongIDs:     nonNil(a.SongIDs),
		FollowerIDs: nonNil(a.FollowerIDs),
	})
}

func nonNil(ids []string) []string {
	if ids == nil {
		return []string{}
	}
	return ids
}
