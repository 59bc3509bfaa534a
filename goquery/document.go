// Package goquery implements the DOM heuristics of the scraper on top of
// goquery: the selector and full-text extraction stages, link discovery,
// page classification, metadata inference, and embedded post splitting.
package goquery

import (
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/cursorboy/scrapekb"
)

// boilerplateSelector matches elements that never hold article content.
// Headers are handled separately because posts often carry their title in
// an inner <header>.
const boilerplateSelector = "script, style, noscript, template, iframe, form, nav, footer, aside, " +
	".sidebar, .comments, .related-posts, .navigation, .menu"

// postContainerSelector matches elements that wrap a single post.
const postContainerSelector = "article, .post, .blog-post, .entry, .hentry"

func parseDocument(html string) (*goquery.Document, error) {
	if strings.TrimSpace(html) == "" {
		return nil, scrapekb.Errorf(scrapekb.EINVALID, "empty HTML input")
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, scrapekb.ParseError("", err)
	}
	return doc, nil
}

// stripBoilerplate removes chrome from the document in place. Page headers
// are removed; headers inside a post are kept.
func stripBoilerplate(doc *goquery.Document) {
	doc.Find(boilerplateSelector).Remove()
	doc.Find("header").Each(func(_ int, s *goquery.Selection) {
		if s.Closest("article, main, "+postContainerSelector).Length() == 0 {
			s.Remove()
		}
	})
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// textLength counts the visible runes of a selection with whitespace runs
// collapsed.
func textLength(s *goquery.Selection) int {
	return utf8.RuneCountInString(collapseSpace(s.Text()))
}

// resolveURL resolves href against base and strips the fragment.
// Returns empty string if the href cannot be parsed or if it points back at
// the base page.
func resolveURL(base *url.URL, href string) string {
	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return ""
	}
	resolved := base.ResolveReference(ref)
	resolved.Fragment = ""

	result := resolved.String()
	baseNoFragment := *base
	baseNoFragment.Fragment = ""
	if result == baseNoFragment.String() {
		return ""
	}
	return result
}

// isNonHTTPLink checks if a href is a non-HTTP link that should be skipped.
func isNonHTTPLink(href string) bool {
	href = strings.ToLower(strings.TrimSpace(href))
	return strings.HasPrefix(href, "javascript:") ||
		strings.HasPrefix(href, "mailto:") ||
		strings.HasPrefix(href, "tel:") ||
		strings.HasPrefix(href, "data:") ||
		strings.HasPrefix(href, "#")
}

// metaContent returns the trimmed content attribute of the first element
// matching selector.
func metaContent(doc *goquery.Document, selector string) string {
	return collapseSpace(doc.Find(selector).First().AttrOr("content", ""))
}
