// Package trafilatura provides the second extraction stage, built on
// go-trafilatura. It runs when the Readability scorer yields nothing usable.
package trafilatura

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/cursorboy/scrapekb"
	"github.com/markusmobius/go-trafilatura"
	"golang.org/x/net/html"
)

// Ensure Extractor implements scrapekb.Extractor at compile time.
var _ scrapekb.Extractor = (*Extractor)(nil)

// Extractor wraps go-trafilatura to extract main content from HTML.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract processes raw HTML and returns the main content. Comment
// sections are excluded; links are kept.
func (e *Extractor) Extract(rawHTML string) (*scrapekb.ExtractResult, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return nil, scrapekb.Errorf(scrapekb.EINVALID, "empty HTML input")
	}

	opts := trafilatura.Options{
		EnableFallback:  true,
		ExcludeComments: true,
		IncludeLinks:    true,
	}

	result, err := trafilatura.Extract(strings.NewReader(rawHTML), opts)
	if err != nil {
		return nil, fmt.Errorf("trafilatura: %w", err)
	}

	var contentHTML string
	if result.ContentNode != nil {
		contentHTML, err = renderNode(result.ContentNode)
		if err != nil {
			return nil, err
		}
	}

	return &scrapekb.ExtractResult{
		Title:       result.Metadata.Title,
		ContentHTML: contentHTML,
		Author:      strings.TrimSpace(result.Metadata.Author),
	}, nil
}

// renderNode converts an html.Node to a string.
func renderNode(n *html.Node) (string, error) {
	var buf bytes.Buffer
	if err := html.Render(&buf, n); err != nil {
		return "", err
	}
	return buf.String(), nil
}
