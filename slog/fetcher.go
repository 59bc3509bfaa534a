package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/cursorboy/scrapekb"
)

// Ensure LoggingFetcher implements scrapekb.Fetcher.
var _ scrapekb.Fetcher = (*LoggingFetcher)(nil)

// LoggingFetcher wraps a Fetcher with logging of every request.
type LoggingFetcher struct {
	next   scrapekb.Fetcher
	logger *slog.Logger
}

// NewLoggingFetcher creates a new LoggingFetcher.
func NewLoggingFetcher(next scrapekb.Fetcher, logger *slog.Logger) *LoggingFetcher {
	return &LoggingFetcher{next: next, logger: logger}
}

// Fetch delegates to the wrapped fetcher and logs size, kind and duration.
func (f *LoggingFetcher) Fetch(ctx context.Context, target string) (res *scrapekb.FetchResult, err error) {
	defer func(begin time.Time) {
		var size int
		var kind scrapekb.ContentKind
		if res != nil {
			size, kind = len(res.Body), res.Kind
		}
		f.logger.Info("fetch",
			"url", target,
			"bytes", size,
			"kind", kind,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return f.next.Fetch(ctx, target)
}
