package download

import (
	"context"
	"sync"

	"golang.org/x/time/rate"

	"github.com/mslomka/wwdc"
)

var _ wwdc.HostLimiter = (*Limiter)(nil)

// DefaultRequestsPerSecond is the per-host fetch rate. Session pages
// and topic listings come from the one developer.apple.com origin, so
// this is effectively the crawl rate against Apple; only the video CDN
// hosts get separate buckets.
const DefaultRequestsPerSecond = 1.0

// Limiter provides per-host rate limiting using token buckets. Each
// host gets its own limiter with a burst of 1, so requests to the same
// host are spaced out while different hosts proceed independently.
type Limiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	rps      float64
}

// NewLimiter creates a Limiter with the given requests-per-second cap.
// A non-positive rps selects DefaultRequestsPerSecond.
func NewLimiter(rps float64) *Limiter {
	if rps <= 0 {
		rps = DefaultRequestsPerSecond
	}
	return &Limiter{
		limiters: make(map[string]*rate.Limiter),
		rps:      rps,
	}
}

// Wait blocks until the rate limit allows a request to the host.
// Returns an error if the context is canceled before the wait completes.
func (l *Limiter) Wait(ctx context.Context, host string) error {
	l.mu.Lock()
	limiter, ok := l.limiters[host]
	if !ok {
		limiter = rate.NewLimiter(rate.Limit(l.rps), 1)
		l.limiters[host] = limiter
	}
	l.mu.Unlock()

	return limiter.Wait(ctx)
}
