package httputil

import (
	"errors"
	"net/http"
	"time"

	"github.com/sony/gobreaker"
)

// ErrCircuitOpen is returned while the breaker rejects requests
var ErrCircuitOpen = gobreaker.ErrOpenState

// NewBreaker creates a circuit breaker that opens after 3 consecutive
// failures, or when more than 5% of at least 20 requests failed.
// Client errors (4xx except 429) do not count as failures.
func NewBreaker(name string) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:     name,
		Interval: 60 * time.Second,
		Timeout:  60 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.ConsecutiveFailures >= 3 {
				return true
			}
			if counts.Requests < 20 {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) > 0.05
		},
		IsSuccessful: func(err error) bool {
			if err == nil {
				return true
			}
			var se *StatusError
			if errors.As(err, &se) {
				return se.StatusCode < http.StatusInternalServerError && se.StatusCode != http.StatusTooManyRequests
			}
			return false
		},
	})
}

// WithBreaker routes GetBytes/GetJSON through a circuit breaker named name
func (c *Client) WithBreaker(name string) *Client {
	c.breaker = NewBreaker(name)
	return c
}

// BreakerState reports the breaker state ("closed" when no breaker is set)
func (c *Client) BreakerState() string {
	if c.breaker == nil {
		return gobreaker.StateClosed.String()
	}
	return c.breaker.State().String()
}
