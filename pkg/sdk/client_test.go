package catalogsearch

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const unifiedBody = `{"status":true,"message":"Search results","data":{"query":"abbey",` +
	`"topResult":{"id":"al1","name":"Abbey Road","image":"a.png","color":"#fff",` +
	`"release":"1969-09-26T00:00:00.000Z","labelId":null},` +
	`"albums":[{"id":"al1","name":"Abbey Road","image":"a.png","color":"#fff",` +
	`"release":"1969-09-26T00:00:00.000Z","labelId":null}],` +
	`"songs":[],` +
	`"artists":[{"id":"ar1","name":"The Beatles","image":"b.png","thumbnail":null,"about":"","songIds":[],"followerIds":[]}]}}`

func newTestServer(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := New(srv.URL, WithAPIKey("secret"))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return c
}

func TestNew_Validation(t *testing.T) {
	for _, base := range []string{"", "localhost:8080", "ftp://example.com"} {
		if _, err := New(base); err == nil {
			t.Errorf("New(%q): expected error", base)
		}
	}
}

func TestClientOptions(t *testing.T) {
	cfg := &clientConfig{}

	hc := &http.Client{}
	WithHTTPClient(hc).apply(cfg)
	if cfg.httpClient != hc {
		t.Error("expected http client to be set")
	}

	WithAPIKey("k").apply(cfg)
	if cfg.apiKey != "k" {
		t.Errorf("apiKey = %q, want k", cfg.apiKey)
	}

	WithTimeout(3 * time.Second).apply(cfg)
	if cfg.timeout != 3*time.Second {
		t.Errorf("timeout = %v, want 3s", cfg.timeout)
	}

	logger := slog.Default()
	WithLogger(logger).apply(cfg)
	if cfg.logger != logger {
		t.Error("expected logger to be set")
	}

	reg := prometheus.NewRegistry()
	WithPrometheus(reg).apply(cfg)
	if cfg.metricsReg != reg {
		t.Error("expected metricsReg to be set")
	}
}

func TestSearch_Unified(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v3/search" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if r.URL.Query().Get("q") != "abbey" {
			t.Errorf("q = %q", r.URL.Query().Get("q"))
		}
		if r.Header.Get("Authorization") != "Bearer secret" {
			t.Errorf("authorization = %q", r.Header.Get("Authorization"))
		}
		_, _ = w.Write([]byte(unifiedBody))
	})

	res, err := c.Search(context.Background(), "abbey")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}

	if res.Query != "abbey" {
		t.Errorf("query = %q", res.Query)
	}
	if res.Top == nil || res.Top.Kind != KindAlbum || res.Top.Album == nil {
		t.Fatalf("top = %+v, want album", res.Top)
	}
	want := time.Date(1969, 9, 26, 0, 0, 0, 0, time.UTC)
	if !res.Top.Album.Release.Equal(want) {
		t.Errorf("release = %v, want %v", res.Top.Album.Release, want)
	}
	if res.Top.Album.LabelID != nil {
		t.Errorf("labelId = %v, want nil", *res.Top.Album.LabelID)
	}
	if len(res.Albums) != 1 || len(res.Songs) != 0 || len(res.Artists) != 1 {
		t.Errorf("lists = %d/%d/%d", len(res.Albums), len(res.Songs), len(res.Artists))
	}
	if res.Artists[0].Name != "The Beatles" {
		t.Errorf("artist = %+v", res.Artists[0])
	}
}

func TestSearch_NullTop(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"status":true,"message":"Search results","data":` +
			`{"query":"zzz","topResult":null,"albums":[],"songs":[],"artists":[]}}`))
	})

	res, err := c.Search(context.Background(), "zzz")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if res.Top != nil {
		t.Errorf("top = %+v, want nil", res.Top)
	}
}

func TestDecodeTop_Variants(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want Kind
	}{
		{name: "album", raw: `{"id":"al1","release":"1969-09-26T00:00:00.000Z"}`, want: KindAlbum},
		{name: "song", raw: `{"id":"s1","url":"u","album":{"id":"al1","release":"1969-09-26T00:00:00.000Z"}}`, want: KindSong},
		{name: "artist", raw: `{"id":"ar1","name":"Queen","thumbnail":null,"songIds":[]}`, want: KindArtist},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			top, err := decodeTop([]byte(tt.raw))
			if err != nil {
				t.Fatalf("decodeTop: %v", err)
			}
			if top.Kind != tt.want {
				t.Errorf("kind = %q, want %q", top.Kind, tt.want)
			}
			switch tt.want {
			case KindAlbum:
				if top.Album == nil || top.Song != nil || top.Artist != nil {
					t.Errorf("album variant = %+v", top)
				}
			case KindSong:
				if top.Song == nil || top.Song.Album.ID != "al1" {
					t.Errorf("song variant = %+v", top)
				}
			case KindArtist:
				if top.Artist == nil || top.Artist.Name != "Queen" {
					t.Errorf("artist variant = %+v", top)
				}
			}
		})
	}
}

func TestSearchScoped(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v3/search/albums":
			_, _ = w.Write([]byte(`{"status":true,"message":"Search results","data":{"query":"x","albums":` +
				`[{"id":"al1","name":"A","release":"2000-01-01T00:00:00.000Z","labelId":"lb1"}]}}`))
		case "/api/v3/search/songs":
			_, _ = w.Write([]byte(`{"status":true,"message":"Search results","data":{"query":"x","songs":` +
				`[{"id":"s1","name":"S","artistIds":["ar1"],"album":{"id":"al1"},"artists":[{"id":"ar1","name":"N"}]}]}}`))
		case "/api/v3/search/artists":
			_, _ = w.Write([]byte(`{"status":true,"message":"Search results","data":{"query":"x","artists":` +
				`[{"id":"ar1","name":"N","image":"i"}]}}`))
		default:
			t.Errorf("unexpected path %q", r.URL.Path)
		}
	})
	ctx := context.Background()

	albums, err := c.SearchAlbums(ctx, "x")
	if err != nil || len(albums) != 1 || albums[0].LabelID == nil || *albums[0].LabelID != "lb1" {
		t.Errorf("SearchAlbums = %+v, %v", albums, err)
	}

	songs, err := c.SearchSongs(ctx, "x")
	if err != nil || len(songs) != 1 || songs[0].Album.ID != "al1" || songs[0].Artists[0].Name != "N" {
		t.Errorf("SearchSongs = %+v, %v", songs, err)
	}

	artists, err := c.SearchArtists(ctx, "x")
	if err != nil || len(artists) != 1 || artists[0].Image != "i" {
		t.Errorf("SearchArtists = %+v, %v", artists, err)
	}
}

func TestSearch_Errors(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		sentinel error
	}{
		{
			name:     "bad request",
			status:   http.StatusBadRequest,
			body:     `{"status":false,"message":"Bad Request","data":{"query":"Query parameter is required"}}`,
			sentinel: ErrBadRequest,
		},
		{
			name:     "unauthorized",
			status:   http.StatusUnauthorized,
			body:     `{"status":false,"message":"Unauthorized","data":{"authorization":"invalid api key"}}`,
			sentinel: ErrUnauthorized,
		},
		{
			name:     "server error",
			status:   http.StatusInternalServerError,
			body:     `{"status":false,"message":"Internal Server Error","data":{}}`,
			sentinel: ErrServer,
		},
		{
			name:     "non-json gateway error",
			status:   http.StatusBadGateway,
			body:     `<html>bad gateway</html>`,
			sentinel: ErrServer,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestServer(t, func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			_, err := c.Search(context.Background(), "")
			if !errors.Is(err, tt.sentinel) {
				t.Fatalf("err = %v, want %v", err, tt.sentinel)
			}
			var apiErr *APIError
			if !errors.As(err, &apiErr) || apiErr.StatusCode != tt.status {
				t.Errorf("api error = %+v", apiErr)
			}
		})
	}
}

func TestSearch_BadRequestFields(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"status":false,"message":"Bad Request","data":{"query":"Query parameter is required"}}`))
	})

	_, err := c.SearchSongs(context.Background(), "")

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("err = %v, want *APIError", err)
	}
	if apiErr.Fields["query"] != "Query parameter is required" {
		t.Errorf("fields = %v", apiErr.Fields)
	}
}

func TestHealth(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/health" {
			t.Errorf("path = %q", r.URL.Path)
		}
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"status":"degraded","checks":{"search_backend":"ok","cache":"error"}}`))
	})

	status, err := c.Health(context.Background())
	if err != nil {
		t.Fatalf("Health: %v", err)
	}
	if status.Status != "degraded" || status.Checks["cache"] != "error" {
		t.Errorf("status = %+v", status)
	}
}

func TestObserver_NilSafe(t *testing.T) {
	var obs *observer
	obs.observe("test", time.Now(), nil)
	obs.observe("test", time.Now(), errors.New("err"))
}

func TestObserver_WithPrometheus(t *testing.T) {
	reg := prometheus.NewRegistry()
	obs, err := newObserver(nil, reg)
	if err != nil {
		t.Fatalf("newObserver: %v", err)
	}

	obs.observe("search", time.Now().Add(-10*time.Millisecond), nil)
	obs.observe("search", time.Now(), &APIError{StatusCode: http.StatusInternalServerError})

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}

	found := false
	for _, f := range families {
		if f.GetName() == "catalogsearch_sdk_requests_total" {
			found = true
			if len(f.GetMetric()) != 2 {
				t.Errorf("expected 2 metric samples, got %d", len(f.GetMetric()))
			}
		}
	}
	if !found {
		t.Error("catalogsearch_sdk_requests_total not found")
	}
}

func TestObserver_ReusesRegisteredMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	if _, err := newObserver(nil, reg); err != nil {
		t.Fatalf("first newObserver: %v", err)
	}
	if _, err := newObserver(nil, reg); err != nil {
		t.Fatalf("second newObserver: %v", err)
	}
}

func TestOutcome(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{nil, "ok"},
		{&APIError{StatusCode: 400}, "bad_request"},
		{&APIError{StatusCode: 401}, "unauthorized"},
		{&APIError{StatusCode: 503}, "server_error"},
		{&APIError{StatusCode: 404}, "transport_error"},
		{errors.New("dial tcp: refused"), "transport_error"},
	}
	for _, tt := range tests {
		if got := outcome(tt.err); got != tt.want {
			t.Errorf("outcome(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}
