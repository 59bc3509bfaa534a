package mock

import "github.com/cursorboy/scrapekb"

var (
	_ scrapekb.LinkDiscoverer = (*LinkDiscoverer)(nil)
	_ scrapekb.PageClassifier = (*PageClassifier)(nil)
	_ scrapekb.PostSplitter   = (*PostSplitter)(nil)
)

// LinkDiscoverer is a mock implementation of scrapekb.LinkDiscoverer.
type LinkDiscoverer struct {
	DiscoverFn func(html, baseURL string) ([]scrapekb.CandidateLink, error)
	RankFn     func(urls []string, baseURL string) []scrapekb.CandidateLink
}

func (d *LinkDiscoverer) Discover(html, baseURL string) ([]scrapekb.CandidateLink, error) {
	return d.DiscoverFn(html, baseURL)
}

func (d *LinkDiscoverer) Rank(urls []string, baseURL string) []scrapekb.CandidateLink {
	return d.RankFn(urls, baseURL)
}

// PageClassifier is a mock implementation of scrapekb.PageClassifier.
type PageClassifier struct {
	ClassifyFn func(targetURL, html string) scrapekb.PageKind
}

func (c *PageClassifier) Classify(targetURL, html string) scrapekb.PageKind {
	return c.ClassifyFn(targetURL, html)
}

// PostSplitter is a mock implementation of scrapekb.PostSplitter.
type PostSplitter struct {
	SplitFn func(html, baseURL string) ([]scrapekb.EmbeddedPost, error)
}

func (s *PostSplitter) Split(html, baseURL string) ([]scrapekb.EmbeddedPost, error) {
	return s.SplitFn(html, baseURL)
}
