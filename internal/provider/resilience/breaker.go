package resilience

import (
	"time"

	"github.com/sony/gobreaker/v2"
)

// breakerMinRequests is the minimum sample before the breaker may trip.
const breakerMinRequests = 5

// breakerFailureRatio is the failure rate at which the breaker trips.
const breakerFailureRatio = 0.5

// newBreaker builds a circuit breaker that trips once at least
// breakerMinRequests calls have been observed and half of them failed.
func newBreaker[T any](name string, openTimeout time.Duration) *gobreaker.CircuitBreaker[T] {
	return gobreaker.NewCircuitBreaker[T](gobreaker.Settings{
		Name:        name,
		MaxRequests: 1, // single probe in half-open
		Timeout:     openTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			ratio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= breakerMinRequests && ratio >= breakerFailureRatio
		},
	})
}
