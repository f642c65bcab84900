package health

import "context"

// Pinger checks availability of a backing service.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Breaker reports whether a circuit breaker is shedding traffic.
type Breaker interface {
	IsOpen() bool
}
