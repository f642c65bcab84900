// Package breaker wraps a db.Store with a circuit breaker so a failing search
// backend is shed fast instead of holding every request until its timeout.
package breaker

import (
	"context"
	"errors"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/kailas-cloud/catalogsearch/internal/db"
)

// Compile-time check: Store implements db.Store.
var _ db.Store = (*Store)(nil)

// minRequests is the sample size below which the breaker never trips.
const minRequests = 3

// Config tunes the breaker.
type Config struct {
	Name        string
	MaxRequests uint32        // probes allowed while half-open
	Interval    time.Duration // closed-state count reset period (0 = never)
	Timeout     time.Duration // open-state duration before probing
	TripRatio   float64       // failure ratio that opens the breaker
}

// Store decorates a db.Store. Only search traffic passes through the breaker;
// Ping stays direct so health checks keep reporting the real backend state.
type Store struct {
	next db.Store
	cb   *gobreaker.CircuitBreaker
}

// Wrap returns next guarded by a circuit breaker.
func Wrap(next db.Store, cfg Config, logger *zap.Logger) *Store {
	st := gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < minRequests {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return failureRatio >= cfg.TripRatio
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
		IsSuccessful: isSuccessful,
	}

	return &Store{next: next, cb: gobreaker.NewCircuitBreaker(st)}
}

// isSuccessful keeps caller-side cancellation from counting against the backend.
func isSuccessful(err error) bool {
	return err == nil || errors.Is(err, context.Canceled)
}

// State returns the current breaker state.
func (s *Store) State() gobreaker.State {
	return s.cb.State()
}

// IsOpen reports whether the breaker is rejecting calls.
func (s *Store) IsOpen() bool {
	return s.cb.State() == gobreaker.StateOpen
}

// FuzzySearch implements db.Searcher.
func (s *Store) FuzzySearch(ctx context.Context, q *db.FuzzyQuery) (*db.SearchResult, error) {
	resp, err := s.cb.Execute(func() (interface{}, error) {
		return s.next.FuzzySearch(ctx, q)
	})
	if err != nil {
		return nil, err
	}
	return resp.(*db.SearchResult), nil
}

// Lookup implements db.Searcher.
func (s *Store) Lookup(ctx context.Context, collection string, ids []string) (map[string][]byte, error) {
	resp, err := s.cb.Execute(func() (interface{}, error) {
		return s.next.Lookup(ctx, collection, ids)
	})
	if err != nil {
		return nil, err
	}
	return resp.(map[string][]byte), nil
}

// Ping implements db.Pinger.
func (s *Store) Ping(ctx context.Context) error {
	return s.next.Ping(ctx)
}

// WaitForReady delegates to the wrapped store.
func (s *Store) WaitForReady(ctx context.Context, timeout time.Duration) error {
	return s.next.WaitForReady(ctx, timeout)
}

// Close closes the wrapped store.
func (s *Store) Close() {
	s.next.Close()
}
