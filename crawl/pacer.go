package crawl

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// DefaultDelay is the pause between consecutive outbound fetches.
const DefaultDelay = 500 * time.Millisecond

// Pacer spaces outbound requests by a fixed delay. The first request is
// never delayed.
type Pacer struct {
	limiter *rate.Limiter
}

// NewPacer creates a Pacer allowing one request per delay. A non-positive
// delay disables pacing.
func NewPacer(delay time.Duration) *Pacer {
	limit := rate.Inf
	if delay > 0 {
		limit = rate.Every(delay)
	}
	return &Pacer{limiter: rate.NewLimiter(limit, 1)}
}

// Wait blocks until the next request may be sent.
// Returns an error if the context is canceled before the wait completes.
func (p *Pacer) Wait(ctx context.Context) error {
	return p.limiter.Wait(ctx)
}
