package goquery

import (
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/cursorboy/scrapekb"
)

// listingSegments are final path segments that name a collection of posts.
var listingSegments = map[string]bool{
	"blog": true, "posts": true, "articles": true, "learn": true, "topics": true,
	"resources": true, "resource": true, "news": true, "archive": true, "archives": true,
	"writing": true, "essays": true, "stories": true,
}

// listingParents are path segments whose children are listings, as in
// /tag/go or /page/2.
var listingParents = map[string]bool{
	"category": true, "categories": true, "tag": true, "tags": true, "topic": true,
	"topics": true, "archive": true, "archives": true, "page": true,
}

// Ensure Classifier implements scrapekb.PageClassifier at compile time.
var _ scrapekb.PageClassifier = (*Classifier)(nil)

// Classifier decides whether a page lists articles or is one.
type Classifier struct {
	// MinLinks is the number of candidate links a listing needs when the
	// decision rests on link density.
	MinLinks int

	// MinLinkDensity is the share of content text that must be anchor text.
	MinLinkDensity float64

	// MinPostContainers is the number of repeated post containers that
	// marks a listing on its own.
	MinPostContainers int
}

// NewClassifier creates a Classifier with default thresholds.
func NewClassifier() *Classifier {
	return &Classifier{
		MinLinks:          5,
		MinLinkDensity:    0.2,
		MinPostContainers: 3,
	}
}

// Classify checks the URL path first, then the page structure. Pages that
// cannot be parsed are treated as articles.
func (c *Classifier) Classify(targetURL, html string) scrapekb.PageKind {
	u, err := url.Parse(targetURL)
	if err != nil {
		return scrapekb.PageArticle
	}
	if isListingPath(u.Path) {
		return scrapekb.PageIndex
	}

	doc, err := parseDocument(html)
	if err != nil {
		return scrapekb.PageArticle
	}
	links := collectLinks(doc, u)

	if c.hasRepeatedPosts(doc) {
		return scrapekb.PageIndex
	}

	stripBoilerplate(doc)
	if len(links) >= c.MinLinks && linkDensity(doc) >= c.MinLinkDensity {
		return scrapekb.PageIndex
	}
	return scrapekb.PageArticle
}

func isListingPath(p string) bool {
	var segments []string
	for _, s := range strings.Split(strings.ToLower(p), "/") {
		if s != "" {
			segments = append(segments, s)
		}
	}
	if len(segments) == 0 {
		return false
	}
	if listingSegments[segments[len(segments)-1]] {
		return true
	}
	return len(segments) >= 2 && listingParents[segments[len(segments)-2]]
}

// hasRepeatedPosts reports whether the page holds enough linked post
// containers outside related-content regions. A page where one container
// dominates the text is an article with teasers, not a listing.
func (c *Classifier) hasRepeatedPosts(doc *goquery.Document) bool {
	var lengths []int
	doc.Find(postContainerSelector).Each(func(_ int, s *goquery.Selection) {
		if s.ParentsFiltered(postContainerSelector).Length() > 0 {
			return
		}
		if s.Closest("aside, footer, .related, .related-posts").Length() > 0 {
			return
		}
		if s.Find("a[href]").Length() == 0 {
			return
		}
		lengths = append(lengths, textLength(s))
	})
	if len(lengths) < c.MinPostContainers {
		return false
	}

	largest, total := 0, 0
	for _, n := range lengths {
		total += n
		if n > largest {
			largest = n
		}
	}
	return largest*3 < total*2
}

// linkDensity is anchor text over all text of the stripped body.
func linkDensity(doc *goquery.Document) float64 {
	body := doc.Find("body").First()
	total := textLength(body)
	if total == 0 {
		return 0
	}
	anchors := 0
	body.Find("a").Each(func(_ int, a *goquery.Selection) {
		anchors += utf8.RuneCountInString(collapseSpace(a.Text()))
	})
	return float64(anchors) / float64(total)
}
