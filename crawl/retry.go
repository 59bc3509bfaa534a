package crawl

import (
	"context"
	"time"

	"github.com/cursorboy/scrapekb"
)

// FetchFunc is the signature for a fetch function.
type FetchFunc func(ctx context.Context, target string) (*scrapekb.FetchResult, error)

// LogFunc is the signature for a logging function.
type LogFunc func(format string, args ...any)

// DefaultRetryDelays returns the backoff delays for fetch retries: 1s, 2s, 4s.
func DefaultRetryDelays() []time.Duration {
	return []time.Duration{1 * time.Second, 2 * time.Second, 4 * time.Second}
}

// FetchWithRetryDelays calls fetch until it succeeds, sleeping delays[i]
// before retry i+1. With no delays fetch is attempted once. The logger, if
// provided, is called for each retry attempt.
func FetchWithRetryDelays(ctx context.Context, target string, fetch FetchFunc, logger LogFunc, delays []time.Duration) (*scrapekb.FetchResult, error) {
	maxAttempts := len(delays) + 1

	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		res, err := fetch(ctx, target)
		if err == nil {
			return res, nil
		}
		lastErr = err

		if attempt >= maxAttempts-1 {
			break
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		if logger != nil {
			logger("retry %s (attempt %d): %v", target, attempt+2, err)
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delays[attempt]):
		}
	}

	return nil, lastErr
}
