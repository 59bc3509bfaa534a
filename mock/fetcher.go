package mock

import (
	"context"

	"github.com/cursorboy/scrapekb"
)

var _ scrapekb.Fetcher = (*Fetcher)(nil)

// Fetcher is a mock implementation of scrapekb.Fetcher.
type Fetcher struct {
	FetchFn func(ctx context.Context, target string) (*scrapekb.FetchResult, error)
}

func (f *Fetcher) Fetch(ctx context.Context, target string) (*scrapekb.FetchResult, error) {
	return f.FetchFn(ctx, target)
}
