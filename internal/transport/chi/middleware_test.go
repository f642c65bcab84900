package chi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	logpkg "github.com/kailas-cloud/catalogsearch/internal/logger"
)

type memoryCache struct {
	mu   sync.Mutex
	data map[string][]byte
	puts int
}

func newMemoryCache() *memoryCache {
	return &memoryCache{data: make(map[string][]byte)}
}

func (c *memoryCache) Get(_ context.Context, identity string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	b, ok := c.data[identity]
	return b, ok
}

func (c *memoryCache) Put(_ context.Context, identity string, body []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[identity] = append([]byte(nil), body...)
	c.puts++
}

func TestCacheMiddleware_MissThenHit(t *testing.T) {
	cache := newMemoryCache()
	calls := 0
	handler := CacheMiddleware(cache)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls++
		writeSuccess(w, map[string]string{"query": "abbey"})
	}))

	first := httptest.NewRecorder()
	handler.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/api/v3/search?q=abbey", http.NoBody))
	second := httptest.NewRecorder()
	handler.ServeHTTP(second, httptest.NewRequest(http.MethodGet, "/api/v3/search?q=abbey", http.NoBody))

	if calls != 1 {
		t.Errorf("handler calls: got %d, want 1", calls)
	}
	if got := first.Header().Get("X-Cache"); got != "MISS" {
		t.Errorf("first X-Cache: got %q, want MISS", got)
	}
	if got := second.Header().Get("X-Cache"); got != "HIT" {
		t.Errorf("second X-Cache: got %q, want HIT", got)
	}
	if first.Body.String() != second.Body.String() {
		t.Errorf("cached body differs:\n%s\n%s", first.Body.String(), second.Body.String())
	}
	if second.Header().Get("Content-Type") != "application/json" {
		t.Errorf("content type: got %q", second.Header().Get("Content-Type"))
	}
}

func TestCacheMiddleware_KeyIncludesQuery(t *testing.T) {
	cache := newMemoryCache()
	calls := 0
	handler := CacheMiddleware(cache)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls++
		writeSuccess(w, struct{}{})
	}))

	for _, target := range []string{"/api/v3/search?q=a", "/api/v3/search?q=b"} {
		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, target, http.NoBody))
	}

	if calls != 2 {
		t.Errorf("handler calls: got %d, want 2", calls)
	}
}

func TestCacheMiddleware_SkipsErrors(t *testing.T) {
	cache := newMemoryCache()
	handler := CacheMiddleware(cache)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeFailure(w, http.StatusInternalServerError, msgInternalError, nil)
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v3/search?q=x", http.NoBody))

	if cache.puts != 0 {
		t.Errorf("puts: got %d, want 0", cache.puts)
	}
}

func TestCacheMiddleware_SkipsNonGet(t *testing.T) {
	cache := newMemoryCache()
	handler := CacheMiddleware(cache)(okHandler())

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/v3/search", http.NoBody))

	if cache.puts != 0 {
		t.Errorf("puts: got %d, want 0", cache.puts)
	}
	if rr.Header().Get("X-Cache") != "" {
		t.Error("X-Cache must not be set for non-GET")
	}
}

func TestJSONRecoverer(t *testing.T) {
	handler := JSONRecoverer(zap.NewNop())(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("kaboom")
	}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v3/search?q=x", http.NoBody))

	if rr.Code != http.StatusInternalServerError {
		t.Errorf("status: got %d, want 500", rr.Code)
	}
	want := `{"status":false,"message":"Internal Server Error","data":{}}` + "\n"
	if rr.Body.String() != want {
		t.Errorf("body: got %s", rr.Body.String())
	}
}

func TestWideEventMiddleware(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	var ctxLoggerSet bool
	handler := WideEventMiddleware(zap.New(core))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logpkg.FromContext(r.Context()).Info("inside")
		ctxLoggerSet = true
		w.WriteHeader(http.StatusTeapot)
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v3/search?q=x", http.NoBody))

	if !ctxLoggerSet {
		t.Fatal("handler not called")
	}
	if logs.FilterMessage("inside").Len() != 1 {
		t.Error("request logger was not placed in context")
	}
	lines := logs.FilterMessage("http_request").All()
	if len(lines) != 1 {
		t.Fatalf("http_request lines: got %d, want 1", len(lines))
	}
	fields := lines[0].ContextMap()
	if fields["status"] != int64(http.StatusTeapot) {
		t.Errorf("status field: got %v", fields["status"])
	}
	if fields["query"] != "q=x" {
		t.Errorf("query field: got %v", fields["query"])
	}
}
