package mock

import (
	"context"

	"github.com/cursorboy/scrapekb"
)

var _ scrapekb.SitemapService = (*SitemapService)(nil)

// SitemapService is a mock implementation of scrapekb.SitemapService.
type SitemapService struct {
	DiscoverURLsFn func(ctx context.Context, baseURL string, filter *scrapekb.URLFilter) ([]string, error)
}

func (s *SitemapService) DiscoverURLs(ctx context.Context, baseURL string, filter *scrapekb.URLFilter) ([]string, error) {
	return s.DiscoverURLsFn(ctx, baseURL, filter)
}
