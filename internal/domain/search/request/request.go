package request

import (
	"github.com/kailas-cloud/catalogsearch/internal/domain"
)

// FuzzyMaxEdits is the edit-distance tolerance of every name match. It is not
// configurable per request.
const FuzzyMaxEdits = 2

// Result limits.
const (
	// UnifiedLimit caps each kind's list on the cross-kind search.
	UnifiedLimit = 5
	// ScopedLimit caps the list of a single-kind search.
	ScopedLimit = 20
)

// Relative score cutoffs for single-kind searches. Artist names are short and
// collide more easily, so artists require a tighter ratio.
const (
	AlbumThreshold  = 0.5
	SongThreshold   = 0.5
	ArtistThreshold = 0.75
)

// QueryParam is the name of the query parameter carrying the search text.
const QueryParam = "q"

// QueryField names the offending field in validation errors.
const QueryField = "query"

// Query is a validated search text.
type Query struct {
	text string
}

// NewQuery validates the search text. Only an empty string is rejected;
// whitespace is passed to the index as-is.
func NewQuery(text string) (Query, error) {
	if text == "" {
		return Query{}, domain.NewValidationError(QueryField, "Query parameter is required")
	}
	return Query{text: text}, nil
}

// Text returns the raw search text.
func (q Query) Text() string { return q.text }

// Policy controls how one collection's candidates are cut down.
type Policy struct {
	limit     int
	threshold float64
	enrich    bool
}

// Unified returns the per-kind policy of the cross-kind search.
func Unified(enrich bool) Policy {
	return Policy{limit: UnifiedLimit, enrich: enrich}
}

// Scoped returns the policy of a single-kind search with the given cutoff ratio.
func Scoped(threshold float64, enrich bool) Policy {
	return Policy{limit: ScopedLimit, threshold: threshold, enrich: enrich}
}

// Limit returns the maximum number of results.
func (p Policy) Limit() int { return p.limit }

// Threshold returns the relative score cutoff (0 = disabled).
func (p Policy) Threshold() float64 { return p.threshold }

// HasThreshold reports whether relative score filtering is requested.
func (p Policy) HasThreshold() bool { return p.threshold > 0 }

// Enrich reports whether song references should be resolved.
func (p Policy) Enrich() bool { return p.enrich }
