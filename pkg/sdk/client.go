package catalogsearch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	defaultTimeout = 10 * time.Second
	searchPath     = "/api/v3/search"
	healthPath     = "/health"
	maxErrorBody   = 64 << 10
)

// Client is the catalog search SDK entry point. It is safe for concurrent use.
type Client struct {
	baseURL *url.URL
	http    *http.Client
	apiKey  string
	obs     *observer
}

// New creates a Client for the service at baseURL, e.g. "http://localhost:8080".
func New(baseURL string, opts ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, errors.New("catalogsearch: base URL required")
	}
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("catalogsearch: parse base URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("catalogsearch: base URL must be http or https, got %q", baseURL)
	}

	cfg := &clientConfig{timeout: defaultTimeout}
	for _, o := range opts {
		o.apply(cfg)
	}

	hc := cfg.httpClient
	if hc == nil {
		hc = &http.Client{Timeout: cfg.timeout}
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		return nil, err
	}

	return &Client{baseURL: u, http: hc, apiKey: cfg.apiKey, obs: obs}, nil
}

// envelope is the response wrapper of every search endpoint.
type envelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type searchData struct {
	Query     string          `json:"query"`
	TopResult json.RawMessage `json:"topResult"`
	Albums    []Album         `json:"albums"`
	Songs     []Song          `json:"songs"`
	Artists   []Artist        `json:"artists"`
}

// Search queries albums, songs and artists at once and returns up to five of
// each plus the single best match.
func (c *Client) Search(ctx context.Context, query string) (res Results, err error) {
	start := time.Now()
	defer func() { c.obs.observe("search", start, err) }()

	var data searchData
	if err = c.get(ctx, searchPath, query, &data); err != nil {
		return Results{}, err
	}

	top, err := decodeTop(data.TopResult)
	if err != nil {
		return Results{}, err
	}
	return Results{
		Query:   data.Query,
		Top:     top,
		Albums:  data.Albums,
		Songs:   data.Songs,
		Artists: data.Artists,
	}, nil
}

// SearchAlbums returns up to 20 albums scoring at least half of the best match.
func (c *Client) SearchAlbums(ctx context.Context, query string) (albums []Album, err error) {
	start := time.Now()
	defer func() { c.obs.observe("search.albums", start, err) }()

	var data struct {
		Albums []Album `json:"albums"`
	}
	if err = c.get(ctx, searchPath+"/albums", query, &data); err != nil {
		return nil, err
	}
	return data.Albums, nil
}

// SearchSongs returns up to 20 songs scoring at least half of the best match.
func (c *Client) SearchSongs(ctx context.Context, query string) (songs []Song, err error) {
	start := time.Now()
	defer func() { c.obs.observe("search.songs", start, err) }()

	var data struct {
		Songs []Song `json:"songs"`
	}
	if err = c.get(ctx, searchPath+"/songs", query, &data); err != nil {
		return nil, err
	}
	return data.Songs, nil
}

// SearchArtists returns up to 20 artists scoring at least three quarters of
// the best match.
func (c *Client) SearchArtists(ctx context.Context, query string) (artists []Artist, err error) {
	start := time.Now()
	defer func() { c.obs.observe("search.artists", start, err) }()

	var data struct {
		Artists []Artist `json:"artists"`
	}
	if err = c.get(ctx, searchPath+"/artists", query, &data); err != nil {
		return nil, err
	}
	return data.Artists, nil
}

// Health reports the service health. A degraded or failing service answers
// 503, which is still decoded into the status.
func (c *Client) Health(ctx context.Context) (status HealthStatus, err error) {
	start := time.Now()
	defer func() { c.obs.observe("health", start, err) }()

	resp, err := c.do(ctx, healthPath, nil)
	if err != nil {
		return HealthStatus{}, err
	}
	defer func() { _ = resp.Body.Close() }()

	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		return HealthStatus{}, fmt.Errorf("catalogsearch: decode health: %w", err)
	}
	return status, nil
}

func (c *Client) get(ctx context.Context, path, query string, out any) error {
	resp, err := c.do(ctx, path, url.Values{"q": {query}})
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	var env envelope
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodySize(resp))).Decode(&env); err != nil {
		if resp.StatusCode != http.StatusOK {
			return &APIError{StatusCode: resp.StatusCode, Message: resp.Status}
		}
		return fmt.Errorf("catalogsearch: decode response: %w", err)
	}

	if resp.StatusCode != http.StatusOK || !env.Status {
		apiErr := &APIError{StatusCode: resp.StatusCode, Message: env.Message}
		_ = json.Unmarshal(env.Data, &apiErr.Fields)
		return apiErr
	}

	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("catalogsearch: decode data: %w", err)
	}
	return nil
}

func (c *Client) do(ctx context.Context, path string, params url.Values) (*http.Response, error) {
	u := *c.baseURL
	u.Path += path
	u.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("catalogsearch: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("catalogsearch: %s: %w", path, err)
	}
	return resp, nil
}

// maxBodySize bounds error bodies; success bodies are read in full.
func maxBodySize(resp *http.Response) int64 {
	if resp.StatusCode == http.StatusOK {
		return 1<<63 - 1
	}
	return maxErrorBody
}

// decodeTop picks the top result variant by the fields only that shape carries.
func decodeTop(raw json.RawMessage) (*TopResult, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}

	var probe map[string]json.RawMessage
	if err := json.Unmarshal(raw, &probe); err != nil {
		return nil, fmt.Errorf("catalogsearch: decode top result: %w", err)
	}

	var (
		top TopResult
		err error
	)
	switch {
	case has(probe, "url"):
		top.Kind = KindSong
		top.Song = &Song{}
		err = json.Unmarshal(raw, top.Song)
	case has(probe, "release"):
		top.Kind = KindAlbum
		top.Album = &Album{}
		err = json.Unmarshal(raw, top.Album)
	default:
		top.Kind = KindArtist
		top.Artist = &Artist{}
		err = json.Unmarshal(raw, top.Artist)
	}
	if err != nil {
		return nil, fmt.Errorf("catalogsearch: decode top %s: %w", top.Kind, err)
	}
	return &top, nil
}

func has(m map[string]json.RawMessage, key string) bool {
	_, ok := m[key]
	return ok
}
