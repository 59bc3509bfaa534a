package goquery

import (
	"math"
	"net/url"
	"path"
	"regexp"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/cursorboy/scrapekb"
)

// DefaultMaxLinks caps the candidates returned for one listing page.
const DefaultMaxLinks = 5

// navigationSelector matches page regions that hold site navigation rather
// than content links.
const navigationSelector = "nav, header, footer, aside, [role=navigation], [role=banner], [role=contentinfo], " +
	".pagination, .nav, .navbar, .menu, .breadcrumb, .breadcrumbs, .sidebar, .widget, .share, .social"

// cardSelector matches containers whose header and footer belong to a post
// card rather than the page.
const cardSelector = "article, .post, .entry, .card, li"

// utilitySegments are path segments of pages that are never articles.
const utilitySegments = `(tags?|categor(y|ies)|authors?|labels?|` +
	`log-?in|sign-?in|sign-?up|register|logout|account|admin|wp-admin|wp-login\.php|` +
	`feed|rss|atom|search|cart|checkout|subscribe|newsletter|api|wp-json|cdn-cgi)`

var (
	// utilityPathRe matches pages that are never articles. Paths are tested
	// with a trailing slash appended.
	utilityPathRe = regexp.MustCompile(`/` + utilitySegments + `/`)
	pageNumberRe  = regexp.MustCompile(`/page/\d+/`)
	yearRe        = regexp.MustCompile(`(^|\D)(19|20)\d{2}(\D|$)`)
)

var assetExtensions = map[string]bool{
	".css": true, ".js": true, ".png": true, ".jpg": true, ".jpeg": true, ".gif": true,
	".svg": true, ".webp": true, ".ico": true, ".xml": true, ".json": true, ".pdf": true,
	".zip": true, ".mp3": true, ".mp4": true, ".woff": true, ".woff2": true,
}

// navigationPaths are exact paths of site pages rather than articles.
var navigationPaths = map[string]bool{
	"/about": true, "/about-us": true, "/contact": true, "/privacy": true, "/privacy-policy": true,
	"/terms": true, "/terms-of-service": true, "/pricing": true, "/help": true, "/support": true,
	"/faq": true, "/course": true, "/courses": true, "/book": true, "/books": true, "/explore": true,
	"/tutorial": true, "/free-tutorial": true, "/careers": true, "/jobs": true, "/team": true,
	"/home": true, "/index.html": true, "/sitemap": true, "/login": true, "/signup": true,
	"/register": true, "/cart": true, "/checkout": true,
}

// genericTexts are anchor texts that label navigation, not articles.
var genericTexts = map[string]bool{
	"home": true, "next": true, "previous": true, "prev": true, "older": true, "newer": true,
	"older posts": true, "newer posts": true, "older entries": true, "newer entries": true,
	"next page": true, "previous page": true, "next post": true, "previous post": true,
	"more posts": true, "back": true, "back to top": true, "top": true, "skip to content": true,
	"menu": true, "login": true, "log in": true, "sign in": true, "sign up": true, "register": true,
	"subscribe": true, "search": true, "rss": true, "feed": true, "contact": true, "about": true,
	"privacy policy": true, "terms": true, "load more": true, "view all": true, "see all": true,
	"all posts": true, "archives": true, "categories": true, "tags": true, "share": true,
	"tweet": true, "comments": true, "reply": true, "leave a comment": true,
}

// weakTexts are allowed but say nothing about the target.
var weakTexts = map[string]bool{
	"read more": true, "continue reading": true, "read article": true, "read post": true,
	"more": true, "link": true, "here": true, "click here": true, "read the post": true,
}

var utilityRels = map[string]bool{
	"next": true, "prev": true, "previous": true, "tag": true, "category": true, "author": true,
}

// SitemapFilter excludes sitemap URLs that Rank would reject by path alone:
// utility pages, pagination and static assets. Sitemaps of large sites list
// thousands of these.
func SitemapFilter() *scrapekb.URLFilter {
	exts := make([]string, 0, len(assetExtensions))
	for ext := range assetExtensions {
		exts = append(exts, regexp.QuoteMeta(strings.TrimPrefix(ext, ".")))
	}
	sort.Strings(exts)

	return &scrapekb.URLFilter{
		Exclude: []*regexp.Regexp{
			regexp.MustCompile(`(?i)/` + utilitySegments + `(/|$)`),
			regexp.MustCompile(`(?i)/page/\d+/?$`),
			regexp.MustCompile(`(?i)\.(` + strings.Join(exts, "|") + `)$`),
		},
	}
}

// Ensure Discoverer implements scrapekb.LinkDiscoverer at compile time.
var _ scrapekb.LinkDiscoverer = (*Discoverer)(nil)

// Discoverer finds article links on listing pages by structure alone.
type Discoverer struct {
	MaxLinks int
}

// NewDiscoverer creates a Discoverer with the default cap.
func NewDiscoverer() *Discoverer {
	return &Discoverer{MaxLinks: DefaultMaxLinks}
}

// Discover extracts, filters, deduplicates, ranks and caps the links of a
// listing page.
func (d *Discoverer) Discover(html, baseURL string) ([]scrapekb.CandidateLink, error) {
	base, err := parseBase(baseURL)
	if err != nil {
		return nil, err
	}
	doc, err := parseDocument(html)
	if err != nil {
		return nil, err
	}
	return d.rank(collectLinks(doc, base)), nil
}

// Rank filters and scores bare URLs by path alone.
func (d *Discoverer) Rank(urls []string, baseURL string) []scrapekb.CandidateLink {
	base, err := parseBase(baseURL)
	if err != nil {
		return nil
	}

	seen := make(map[string]bool)
	var links []scrapekb.CandidateLink
	for _, raw := range urls {
		u, err := url.Parse(strings.TrimSpace(raw))
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
			continue
		}
		if !scrapekb.SameDomain(u.Host, base.Host) || !isArticlePath(u.Path, base.Path) {
			continue
		}
		u.Fragment = ""
		key := scrapekb.NormalizeURL(u.String())
		if seen[key] {
			continue
		}
		seen[key] = true
		links = append(links, scrapekb.CandidateLink{
			URL:      u.String(),
			Score:    pathScore(u.Path),
			Position: len(links),
		})
	}
	return d.rank(links)
}

func (d *Discoverer) rank(links []scrapekb.CandidateLink) []scrapekb.CandidateLink {
	sort.SliceStable(links, func(i, j int) bool {
		if links[i].Score != links[j].Score {
			return links[i].Score > links[j].Score
		}
		return links[i].Position < links[j].Position
	})
	if d.MaxLinks > 0 && len(links) > d.MaxLinks {
		links = links[:d.MaxLinks]
	}
	return links
}

func parseBase(baseURL string) (*url.URL, error) {
	base, err := url.Parse(baseURL)
	if err != nil || base.Host == "" {
		return nil, scrapekb.Errorf(scrapekb.EINVALID, "invalid base URL %q", baseURL)
	}
	return base, nil
}

// collectLinks returns every candidate link in document order, unique by
// normalized URL and unranked. A duplicate keeps the higher score and the
// position of the first occurrence.
func collectLinks(doc *goquery.Document, base *url.URL) []scrapekb.CandidateLink {
	index := make(map[string]int)
	var links []scrapekb.CandidateLink

	doc.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		href := a.AttrOr("href", "")
		if href == "" || isNonHTTPLink(href) {
			return
		}
		resolved := resolveURL(base, href)
		if resolved == "" {
			return
		}
		u, err := url.Parse(resolved)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
			return
		}
		if !scrapekb.SameDomain(u.Host, base.Host) {
			return
		}
		if inNavigation(a) || hasUtilityRel(a) {
			return
		}
		text := anchorText(a)
		if isGenericText(text) {
			return
		}
		if !isArticlePath(u.Path, base.Path) {
			return
		}

		score := linkScore(a, u.Path, text)
		key := scrapekb.NormalizeURL(resolved)
		if idx, ok := index[key]; ok {
			if score > links[idx].Score {
				links[idx].Score = score
				links[idx].Text = text
			}
			return
		}
		index[key] = len(links)
		links = append(links, scrapekb.CandidateLink{
			URL:      resolved,
			Text:     text,
			Score:    score,
			Position: len(links),
		})
	})

	return links
}

func anchorText(a *goquery.Selection) string {
	if text := collapseSpace(a.Text()); text != "" {
		return text
	}
	if label := collapseSpace(a.AttrOr("aria-label", "")); label != "" {
		return label
	}
	return collapseSpace(a.AttrOr("title", ""))
}

// inNavigation reports whether the anchor sits in a navigation region.
// Headers and footers inside a post card do not count.
func inNavigation(a *goquery.Selection) bool {
	found := false
	a.ParentsFiltered(navigationSelector).EachWithBreak(func(_ int, region *goquery.Selection) bool {
		name := goquery.NodeName(region)
		if (name == "header" || name == "footer") && region.Closest(cardSelector).Length() > 0 {
			return true
		}
		found = true
		return false
	})
	return found
}

func hasUtilityRel(a *goquery.Selection) bool {
	for _, rel := range strings.Fields(strings.ToLower(a.AttrOr("rel", ""))) {
		if utilityRels[rel] {
			return true
		}
	}
	return false
}

// isGenericText rejects anchor texts that label navigation: known phrases,
// bare numbers, arrows, and anything with fewer than three letters.
func isGenericText(text string) bool {
	lower := strings.ToLower(strings.Trim(text, " »«›‹→←.:|-"))
	if genericTexts[lower] {
		return true
	}
	letters := 0
	for _, r := range lower {
		if unicode.IsLetter(r) {
			letters++
		}
	}
	return letters < 3
}

// isArticlePath applies the path filters. basePath is the listing's own
// path; it and its ancestors are never articles.
func isArticlePath(p, basePath string) bool {
	lower := strings.TrimRight(strings.ToLower(p), "/")
	if lower == "" {
		return false
	}
	baseClean := strings.TrimRight(strings.ToLower(basePath), "/")
	if lower == baseClean || strings.HasPrefix(baseClean, lower+"/") {
		return false
	}
	if assetExtensions[path.Ext(lower)] || navigationPaths[lower] {
		return false
	}
	if last := path.Base(lower); last == "archive" || last == "archives" {
		return false
	}
	withSlash := lower + "/"
	return !utilityPathRe.MatchString(withSlash) && !pageNumberRe.MatchString(withSlash)
}

// linkScore combines text, path, and structural signals.
func linkScore(a *goquery.Selection, p, text string) float64 {
	score := textScore(text) + pathScore(p)

	if a.Closest("h1, h2, h3, h4").Length() > 0 || a.Find("h1, h2, h3, h4").Length() > 0 {
		score += 2
	}

	container := a.Closest("article, li, section, div, td")
	if container.Length() > 0 {
		context := textLength(container) - utf8.RuneCountInString(text)
		if context > 0 {
			score += 2 * math.Min(float64(context), 300) / 300
		}
		if isPostContainer(container) {
			score++
		}
	}
	return score
}

func textScore(text string) float64 {
	if weakTexts[strings.ToLower(strings.Trim(text, " »›→.…"))] {
		return 0
	}
	n := utf8.RuneCountInString(text)
	return 4 * math.Min(float64(n), 80) / 80
}

// pathScore rewards deep paths and slug-like final segments.
func pathScore(p string) float64 {
	var segments []string
	for _, s := range strings.Split(p, "/") {
		if s != "" {
			segments = append(segments, s)
		}
	}
	if len(segments) == 0 {
		return 0
	}
	score := math.Min(float64(len(segments)), 4)
	if isSlug(segments[len(segments)-1]) || yearRe.MatchString(p) {
		score++
	}
	return score
}

// isSlug reports whether a path segment looks like a hyphenated title.
func isSlug(segment string) bool {
	segment = strings.TrimSuffix(segment, path.Ext(segment))
	words := 0
	for _, w := range strings.FieldsFunc(segment, func(r rune) bool { return r == '-' || r == '_' }) {
		if strings.IndexFunc(w, unicode.IsLetter) >= 0 {
			words++
		}
	}
	return words >= 2
}

func isPostContainer(s *goquery.Selection) bool {
	if goquery.NodeName(s) == "article" {
		return true
	}
	if s.Closest("article").Length() > 0 {
		return true
	}
	class := strings.ToLower(s.AttrOr("class", ""))
	for _, marker := range []string{"post", "entry", "card", "blog", "article", "story"} {
		if strings.Contains(class, marker) {
			return true
		}
	}
	return false
}
