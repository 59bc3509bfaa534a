package goquery

import (
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/cursorboy/scrapekb"
	"github.com/tidwall/gjson"
)

// maxAuthorLength bounds author values; longer text is a paragraph, not a
// name.
const maxAuthorLength = 100

var titleSeparators = []string{" | ", " – ", " — ", " - ", " :: ", " · ", " • "}

// authorSelectors are byline markers in page markup, checked in order.
var authorSelectors = []string{
	`[rel="author"]`,
	`[itemprop="author"]`,
	".author",
	".byline",
	".post-author",
	".entry-author",
	".author-name",
}

// Ensure MetadataInferencer implements scrapekb.MetadataInferencer at
// compile time.
var _ scrapekb.MetadataInferencer = (*MetadataInferencer)(nil)

// MetadataInferencer reads title and author from head metadata, JSON-LD,
// and byline markup.
type MetadataInferencer struct{}

// NewMetadataInferencer creates a new MetadataInferencer.
func NewMetadataInferencer() *MetadataInferencer {
	return &MetadataInferencer{}
}

// Infer returns the page title and author. The title falls back to the
// first heading of text; the author stays nil unless a pattern matched.
func (m *MetadataInferencer) Infer(html, text string) scrapekb.Metadata {
	doc, err := parseDocument(html)
	if err != nil {
		return scrapekb.Metadata{Title: scrapekb.FirstHeading(text)}
	}
	return scrapekb.Metadata{
		Title:  inferTitle(doc, text),
		Author: inferAuthor(doc),
	}
}

func inferTitle(doc *goquery.Document, text string) string {
	siteName := metaContent(doc, `meta[property="og:site_name"]`)
	if title := documentTitle(doc); title != "" {
		return trimSiteName(title, siteName)
	}
	if title := metaContent(doc, `meta[property="og:title"]`); title != "" {
		return title
	}
	return scrapekb.FirstHeading(text)
}

// trimSiteName drops a site name joined to the title by a separator. The
// dropped side must match og:site_name, or be a short suffix.
func trimSiteName(title, siteName string) string {
	for _, sep := range titleSeparators {
		if !strings.Contains(title, sep) {
			continue
		}
		if siteName != "" {
			if head, tail, ok := strings.Cut(title, sep); ok && strings.EqualFold(strings.TrimSpace(head), siteName) {
				return strings.TrimSpace(tail)
			}
		}
		idx := strings.LastIndex(title, sep)
		head := strings.TrimSpace(title[:idx])
		tail := strings.TrimSpace(title[idx+len(sep):])
		if head == "" || tail == "" {
			return title
		}
		if siteName != "" && strings.EqualFold(tail, siteName) {
			return head
		}
		if utf8.RuneCountInString(tail) < utf8.RuneCountInString(head) && len(strings.Fields(tail)) <= 4 {
			return head
		}
		return title
	}
	return title
}

func inferAuthor(doc *goquery.Document) *string {
	candidates := []func() string{
		func() string { return metaContent(doc, `meta[name="author"]`) },
		func() string {
			v := metaContent(doc, `meta[property="article:author"]`)
			if strings.HasPrefix(v, "http://") || strings.HasPrefix(v, "https://") {
				return ""
			}
			return v
		},
		func() string { return jsonLDAuthor(doc) },
		func() string { return metaContent(doc, `meta[name="twitter:creator"]`) },
		func() string { return bylineAuthor(doc.Selection) },
	}
	for _, candidate := range candidates {
		if name := cleanAuthor(candidate()); name != "" {
			return scrapekb.StringPtr(name)
		}
	}
	return nil
}

// bylineAuthor returns the text of the first byline marker inside s.
func bylineAuthor(s *goquery.Selection) string {
	for _, selector := range authorSelectors {
		found := s.Find(selector).First()
		if found.Length() == 0 {
			continue
		}
		if name := found.Find(`[itemprop="name"]`).First(); name.Length() > 0 {
			if v := name.AttrOr("content", ""); v != "" {
				return v
			}
			return name.Text()
		}
		if v := found.AttrOr("content", ""); v != "" {
			return v
		}
		if text := found.Text(); strings.TrimSpace(text) != "" {
			return text
		}
	}
	return ""
}

// jsonLDAuthor searches JSON-LD blocks for an author name.
func jsonLDAuthor(doc *goquery.Document) string {
	var found string
	doc.Find(`script[type="application/ld+json"]`).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		raw := strings.TrimSpace(s.Text())
		if !gjson.Valid(raw) {
			return true
		}
		found = authorFromJSONLD(gjson.Parse(raw))
		return found == ""
	})
	return found
}

func authorFromJSONLD(v gjson.Result) string {
	switch {
	case v.IsArray():
		for _, item := range v.Array() {
			if name := authorFromJSONLD(item); name != "" {
				return name
			}
		}
	case v.IsObject():
		if name := authorName(v.Get("author")); name != "" {
			return name
		}
		var name string
		v.ForEach(func(key, value gjson.Result) bool {
			if key.String() == "@graph" {
				name = authorFromJSONLD(value)
				return false
			}
			return true
		})
		return name
	}
	return ""
}

// authorName reads a schema.org author value, which may be a string, a
// Person object, or a list of either.
func authorName(a gjson.Result) string {
	switch {
	case !a.Exists():
		return ""
	case a.IsArray():
		for _, item := range a.Array() {
			if name := authorName(item); name != "" {
				return name
			}
		}
		return ""
	case a.IsObject():
		return a.Get("name").String()
	default:
		return a.String()
	}
}

// cleanAuthor collapses whitespace, strips a leading "By", and cuts
// trailing dates or separators. Values that are empty, overlong, or URLs
// are rejected.
func cleanAuthor(s string) string {
	s = collapseSpace(s)
	lower := strings.ToLower(s)
	for _, prefix := range []string{"written by ", "posted by ", "by: ", "by "} {
		if strings.HasPrefix(lower, prefix) {
			s = s[len(prefix):]
			break
		}
	}
	for _, sep := range []string{" | ", " · ", " • ", " — ", " on "} {
		if head, _, ok := strings.Cut(s, sep); ok {
			s = head
		}
	}
	s = strings.Trim(s, " ,;:-")
	if s == "" || utf8.RuneCountInString(s) > maxAuthorLength {
		return ""
	}
	if strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://") {
		return ""
	}
	return s
}
