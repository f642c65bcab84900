package chi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/oapi-codegen/runtime"
	"go.uber.org/zap"

	"github.com/kailas-cloud/catalogsearch/internal/domain"
	"github.com/kailas-cloud/catalogsearch/internal/domain/catalog"
	"github.com/kailas-cloud/catalogsearch/internal/domain/search/request"
	healthuc "github.com/kailas-cloud/catalogsearch/internal/usecase/health"
	searchuc "github.com/kailas-cloud/catalogsearch/internal/usecase/search"
)

// Envelope messages.
const (
	msgSearchResults = "Search results"
	msgBadRequest    = "Bad Request"
	msgUnauthorized  = "Unauthorized"
	msgInternalError = "Internal Server Error"
	msgMissingQuery  = "Query parameter is required"
)

// searchService is the consumer interface for catalog search (ISP).
type searchService interface {
	Search(ctx context.Context, text string) (searchuc.Response, error)
	SearchAlbums(ctx context.Context, text string) ([]catalog.Album, error)
	SearchSongs(ctx context.Context, text string) ([]catalog.EnrichedSong, error)
	SearchArtists(ctx context.Context, text string) ([]catalog.Artist, error)
}

// healthService is the consumer interface for health reporting.
type healthService interface {
	Check(ctx context.Context) healthuc.Report
}

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, r *http.Request, err error) bool

// Server serves the catalog search HTTP API.
type Server struct {
	search        searchService
	health        healthService
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(search searchService, health healthService, logger *zap.Logger) *Server {
	s := &Server{
		search: search,
		health: health,
		logger: logger,
	}
	s.errorHandlers = []errorHandler{
		s.validationHandler,
		s.backendHandler,
	}
	return s
}

// Search handles GET /api/v3/search.
func (s *Server) Search(w http.ResponseWriter, r *http.Request) {
	text, err := bindQuery(r)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	resp, err := s.search.Search(r.Context(), text)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeSuccess(w, searchToResponse(&resp))
}

// SearchAlbums handles GET /api/v3/search/albums.
func (s *Server) SearchAlbums(w http.ResponseWriter, r *http.Request) {
	text, err := bindQuery(r)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	albums, err := s.search.SearchAlbums(r.Context(), text)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeSuccess(w, albumsResponse{Query: text, Albums: albumsToResponse(albums)})
}

// SearchSongs handles GET /api/v3/search/songs.
func (s *Server) SearchSongs(w http.ResponseWriter, r *http.Request) {
	text, err := bindQuery(r)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	songs, err := s.search.SearchSongs(r.Context(), text)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeSuccess(w, songsResponse{Query: text, Songs: songsToResponse(songs)})
}

// SearchArtists handles GET /api/v3/search/artists.
func (s *Server) SearchArtists(w http.ResponseWriter, r *http.Request) {
	text, err := bindQuery(r)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	artists, err := s.search.SearchArtists(r.Context(), text)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	summaries := make([]artistSummaryResponse, len(artists))
	for i := range artists {
		summaries[i] = artistSummaryToResponse(artists[i].Summary())
	}
	writeSuccess(w, artistsResponse{Query: text, Artists: summaries})
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, healthResponse{
		Status: string(report.Status),
		Checks: checks,
	})
}

// bindQuery reads the search text. Repeated parameters keep the first value.
func bindQuery(r *http.Request) (string, error) {
	query := url.Values{}
	if values := r.URL.Query()[request.QueryParam]; len(values) > 0 {
		query.Set(request.QueryParam, values[0])
	}

	var text string
	if err := runtime.BindQueryParameter("form", true, false, request.QueryParam, query, &text); err != nil {
		return "", domain.NewValidationError(request.QueryField, msgMissingQuery)
	}
	return text, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeSuccess(w http.ResponseWriter, data any) {
	writeJSON(w, http.StatusOK, envelope{Status: true, Message: msgSearchResults, Data: data})
}

func writeFailure(w http.ResponseWriter, status int, message string, data any) {
	if data == nil {
		data = struct{}{}
	}
	writeJSON(w, status, envelope{Status: false, Message: message, Data: data})
}

// validationHandler reports the offending field back to the client.
func (s *Server) validationHandler(w http.ResponseWriter, r *http.Request, err error) bool {
	var ve *domain.ValidationError
	if !errors.As(err, &ve) {
		return false
	}
	s.logger.Debug("invalid request",
		zap.String("request_id", middleware.GetReqID(r.Context())),
		zap.Error(err),
	)
	writeFailure(w, http.StatusBadRequest, msgBadRequest, map[string]string{ve.Field: ve.Message})
	return true
}

// backendHandler hides index failures behind the generic envelope.
func (s *Server) backendHandler(w http.ResponseWriter, r *http.Request, err error) bool {
	if !errors.Is(err, domain.ErrSearchBackend) {
		return false
	}
	s.logger.Error("search backend error",
		zap.String("request_id", middleware.GetReqID(r.Context())),
		zap.String("path", r.URL.Path),
		zap.Error(err),
	)
	writeFailure(w, http.StatusInternalServerError, msgInternalError, nil)
	return true
}

func (s *Server) handleDomainError(w http.ResponseWriter, r *http.Request, err error) {
	for _, h := range s.errorHandlers {
		if h(w, r, err) {
			return
		}
	}
	s.logger.Error("internal error",
		zap.String("request_id", middleware.GetReqID(r.Context())),
		zap.Error(err),
	)
	writeFailure(w, http.StatusInternalServerError, msgInternalError, nil)
}
