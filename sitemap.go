package scrapekb

import (
	"context"
	"regexp"
)

// SitemapService lists the URLs a site publishes in its sitemaps. It is the
// fallback source of article candidates for listing pages whose links could
// not be discovered.
type SitemapService interface {
	// DiscoverURLs reads the sitemaps named in robots.txt, or /sitemap.xml
	// when none are named, and resolves sitemap indexes. When baseURL has a
	// path, only URLs below it are returned. A nil filter keeps every URL.
	DiscoverURLs(ctx context.Context, baseURL string, filter *URLFilter) ([]string, error)
}

// URLFilter screens URLs by pattern. A URL passes when it matches one of
// Include, or Include is empty, and matches none of Exclude.
type URLFilter struct {
	Include []*regexp.Regexp
	Exclude []*regexp.Regexp
}

// Match reports whether rawURL passes the filter. Every URL passes a nil
// filter.
func (f *URLFilter) Match(rawURL string) bool {
	if f == nil {
		return true
	}
	if len(f.Include) > 0 && !matchAny(f.Include, rawURL) {
		return false
	}
	return !matchAny(f.Exclude, rawURL)
}

func matchAny(patterns []*regexp.Regexp, s string) bool {
	for _, re := range patterns {
		if re.MatchString(s) {
			return true
		}
	}
	return false
}
