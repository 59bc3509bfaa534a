package goquery

import (
	"github.com/PuerkitoBio/goquery"
	"github.com/cursorboy/scrapekb"
)

// DefaultContentSelectors lists containers that conventionally hold an
// article body, most specific first.
var DefaultContentSelectors = []string{
	"article",
	`[role="main"]`,
	".post-content",
	".entry-content",
	".article-content",
	".post-body",
	"main",
	"#content",
	".content",
}

// DefaultMinSelectorText is the visible text a container needs before the
// selector stage accepts it.
const DefaultMinSelectorText = 100

// Ensure extractors implement scrapekb.Extractor at compile time.
var (
	_ scrapekb.Extractor = (*SelectorExtractor)(nil)
	_ scrapekb.Extractor = (*FullTextExtractor)(nil)
)

// SelectorExtractor picks the largest element matching a known content
// container selector.
type SelectorExtractor struct {
	Selectors     []string
	MinTextLength int
}

// NewSelectorExtractor creates a SelectorExtractor with the default
// selectors.
func NewSelectorExtractor() *SelectorExtractor {
	return &SelectorExtractor{
		Selectors:     DefaultContentSelectors,
		MinTextLength: DefaultMinSelectorText,
	}
}

// Extract removes boilerplate and returns the first selector's largest
// match that carries enough text.
func (e *SelectorExtractor) Extract(html string) (*scrapekb.ExtractResult, error) {
	doc, err := parseDocument(html)
	if err != nil {
		return nil, err
	}
	title := documentTitle(doc)
	stripBoilerplate(doc)

	for _, selector := range e.Selectors {
		var best *goquery.Selection
		bestLen := 0
		doc.Find(selector).Each(func(_ int, s *goquery.Selection) {
			if n := textLength(s); n > bestLen {
				best, bestLen = s, n
			}
		})
		if best == nil || bestLen < e.MinTextLength {
			continue
		}
		content, err := goquery.OuterHtml(best)
		if err != nil {
			return nil, scrapekb.ParseError("", err)
		}
		return &scrapekb.ExtractResult{Title: title, ContentHTML: content}, nil
	}

	return nil, scrapekb.Errorf(scrapekb.ENOTFOUND, "no content container matched")
}

// FullTextExtractor returns the whole body once boilerplate is removed. It
// is the last resort of the chain.
type FullTextExtractor struct{}

// NewFullTextExtractor creates a new FullTextExtractor.
func NewFullTextExtractor() *FullTextExtractor {
	return &FullTextExtractor{}
}

// Extract returns the stripped body markup.
func (e *FullTextExtractor) Extract(html string) (*scrapekb.ExtractResult, error) {
	doc, err := parseDocument(html)
	if err != nil {
		return nil, err
	}
	title := documentTitle(doc)
	stripBoilerplate(doc)

	body := doc.Find("body").First()
	if textLength(body) == 0 {
		return nil, scrapekb.Errorf(scrapekb.ENOTFOUND, "no visible text")
	}
	content, err := body.Html()
	if err != nil {
		return nil, scrapekb.ParseError("", err)
	}
	return &scrapekb.ExtractResult{Title: title, ContentHTML: content}, nil
}

func documentTitle(doc *goquery.Document) string {
	if t := collapseSpace(doc.Find("head title").First().Text()); t != "" {
		return t
	}
	return collapseSpace(doc.Find("title").First().Text())
}
