package scrapekb

// CandidateLink is a ranked link to a probable article.
type CandidateLink struct {
	// URL is absolute with the fragment removed.
	URL string

	// Text is the anchor text.
	Text string

	// Score is the structural score. Higher is more article-like.
	Score float64

	// Position is the link's order of first appearance in the document.
	Position int
}

// LinkDiscoverer turns a listing page into ranked candidate article links.
type LinkDiscoverer interface {
	// Discover extracts, filters, deduplicates and ranks links from html.
	// Results are same-domain, unique by NormalizeURL, sorted by descending
	// score with ties in document order, and capped.
	Discover(html, baseURL string) ([]CandidateLink, error)

	// Rank applies the same filters and path scoring to bare URLs such as
	// sitemap entries, which carry no anchor context.
	Rank(urls []string, baseURL string) []CandidateLink
}

// PageKind classifies an HTML page.
type PageKind string

// Page kinds.
const (
	PageArticle PageKind = "article"
	PageIndex   PageKind = "index"
)

// PageClassifier decides whether a page is a listing of articles.
type PageClassifier interface {
	Classify(targetURL, html string) PageKind
}

// EmbeddedPost is a complete post found inline on a listing page.
type EmbeddedPost struct {
	Title       string
	ContentHTML string
	Author      string
}

// PostSplitter finds complete posts embedded in a listing page. It is used
// when a listing links to nothing article-shaped.
type PostSplitter interface {
	Split(html, baseURL string) ([]EmbeddedPost, error)
}
