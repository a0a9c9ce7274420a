package resilience

import (
	"time"

	"github.com/sony/gobreaker/v2"
)

// Retry bounds the attempts made for one call. Attempts counts the first
// call; the pause doubles from Backoff up to MaxBackoff.
type Retry struct {
	Attempts   int
	Backoff    time.Duration
	MaxBackoff time.Duration
}

// DefaultRetry suits generative calls: one retry after half a second.
func DefaultRetry() Retry {
	return Retry{Attempts: 2, Backoff: 500 * time.Millisecond, MaxBackoff: 2 * time.Second}
}

func (r Retry) withDefaults() Retry {
	if r.Attempts <= 0 {
		r.Attempts = 1
	}
	if r.Backoff <= 0 {
		r.Backoff = DefaultRetry().Backoff
	}
	if r.MaxBackoff < r.Backoff {
		r.MaxBackoff = r.Backoff
	}
	return r
}

// pause returns the wait after failed attempt n, counting from 1.
func (r Retry) pause(n int) time.Duration {
	d := r.Backoff
	for i := 1; i < n && d < r.MaxBackoff; i++ {
		d *= 2
	}
	return min(d, r.MaxBackoff)
}

// Breaker opens once FailureRatio of at least MinRequests calls failed,
// stays open for OpenFor, then admits Probes trial calls.
type Breaker struct {
	MinRequests  uint32
	FailureRatio float64
	OpenFor      time.Duration
	Probes       uint32
}

// DefaultBreaker opens after half of five or more calls failed.
func DefaultBreaker() Breaker {
	return Breaker{MinRequests: 5, FailureRatio: 0.5, OpenFor: 30 * time.Second, Probes: 1}
}

func (b Breaker) withDefaults() Breaker {
	def := DefaultBreaker()
	if b.MinRequests == 0 {
		b.MinRequests = def.MinRequests
	}
	if b.FailureRatio <= 0 || b.FailureRatio > 1 {
		b.FailureRatio = def.FailureRatio
	}
	if b.OpenFor <= 0 {
		b.OpenFor = def.OpenFor
	}
	if b.Probes == 0 {
		b.Probes = def.Probes
	}
	return b
}

func (b Breaker) tripped(c gobreaker.Counts) bool {
	return c.Requests >= b.MinRequests &&
		float64(c.TotalFailures)/float64(c.Requests) >= b.FailureRatio
}
