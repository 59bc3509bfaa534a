package goquery

import (
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/cursorboy/scrapekb"
)

// Ensure PostSplitter implements scrapekb.PostSplitter at compile time.
var _ scrapekb.PostSplitter = (*PostSplitter)(nil)

// PostSplitter extracts complete posts rendered inline on a listing page.
type PostSplitter struct {
	// MinTitleLength is the heading length a post needs, in runes.
	MinTitleLength int

	// MinTextLength is the visible text a post needs, in runes.
	MinTextLength int
}

// NewPostSplitter creates a PostSplitter with default thresholds.
func NewPostSplitter() *PostSplitter {
	return &PostSplitter{
		MinTitleLength: 6,
		MinTextLength:  100,
	}
}

// Split returns the outermost post containers that carry a heading and
// enough text. Pages without containers are split at h2 headings instead,
// each heading taking the siblings up to the next one. Relative links
// inside each post are made absolute against baseURL.
func (p *PostSplitter) Split(html, baseURL string) ([]scrapekb.EmbeddedPost, error) {
	base, err := parseBase(baseURL)
	if err != nil {
		return nil, err
	}
	doc, err := parseDocument(html)
	if err != nil {
		return nil, err
	}
	doc.Find("script, style, noscript, template, iframe, form").Remove()

	var posts []scrapekb.EmbeddedPost
	doc.Find(postContainerSelector).Each(func(_ int, s *goquery.Selection) {
		if s.ParentsFiltered(postContainerSelector).Length() > 0 {
			return
		}
		if post, ok := p.post(s, base); ok {
			posts = append(posts, post)
		}
	})
	if len(posts) > 0 {
		return posts, nil
	}
	return p.headingRuns(doc, base), nil
}

// headingRuns wraps each h2 outside site chrome and its following siblings
// in a section and treats the section as a post container.
func (p *PostSplitter) headingRuns(doc *goquery.Document, base *url.URL) []scrapekb.EmbeddedPost {
	var posts []scrapekb.EmbeddedPost
	doc.Find("h2").Each(func(_ int, h *goquery.Selection) {
		if h.Closest(navigationSelector).Length() > 0 {
			return
		}

		var b strings.Builder
		b.WriteString("<section>")
		h.AddSelection(h.NextUntil("h1, h2")).Each(func(_ int, s *goquery.Selection) {
			if html, err := goquery.OuterHtml(s); err == nil {
				b.WriteString(html)
			}
		})
		b.WriteString("</section>")

		section, err := goquery.NewDocumentFromReader(strings.NewReader(b.String()))
		if err != nil {
			return
		}
		if post, ok := p.post(section.Find("section").First(), base); ok {
			posts = append(posts, post)
		}
	})
	return posts
}

// post turns a container into a post when it has a title and enough text.
func (p *PostSplitter) post(s *goquery.Selection, base *url.URL) (scrapekb.EmbeddedPost, bool) {
	title := collapseSpace(s.Find("h1, h2, h3, h4").First().Text())
	if utf8.RuneCountInString(title) < p.MinTitleLength || textLength(s) < p.MinTextLength {
		return scrapekb.EmbeddedPost{}, false
	}

	s.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		href := a.AttrOr("href", "")
		if isNonHTTPLink(href) {
			return
		}
		if resolved := resolveURL(base, href); resolved != "" {
			a.SetAttr("href", resolved)
		}
	})

	content, err := goquery.OuterHtml(s)
	if err != nil {
		return scrapekb.EmbeddedPost{}, false
	}
	return scrapekb.EmbeddedPost{
		Title:       title,
		ContentHTML: content,
		Author:      cleanAuthor(bylineAuthor(s)),
	}, true
}
