// Package readability provides the first extraction stage: a
// Readability-style content scorer built on go-readability. It scores DOM
// subtrees by text and link density and returns the best one.
package readability

import (
	"fmt"
	"strings"

	"github.com/cursorboy/scrapekb"
	"github.com/go-shiori/go-readability"
)

// Ensure Extractor implements scrapekb.Extractor at compile time.
var _ scrapekb.Extractor = (*Extractor)(nil)

// Extractor wraps go-readability to extract main content from HTML.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract processes raw HTML and returns the highest-scoring subtree.
func (e *Extractor) Extract(rawHTML string) (*scrapekb.ExtractResult, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return nil, scrapekb.Errorf(scrapekb.EINVALID, "empty HTML input")
	}

	article, err := readability.FromReader(strings.NewReader(rawHTML), nil)
	if err != nil {
		return nil, fmt.Errorf("readability: %w", err)
	}

	return &scrapekb.ExtractResult{
		Title:       article.Title,
		ContentHTML: article.Content,
		Author:      strings.TrimSpace(article.Byline),
	}, nil
}
