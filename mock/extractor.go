package mock

import "github.com/cursorboy/scrapekb"

var (
	_ scrapekb.Extractor        = (*Extractor)(nil)
	_ scrapekb.ContentExtractor = (*ContentExtractor)(nil)
)

// Extractor is a mock implementation of scrapekb.Extractor.
type Extractor struct {
	ExtractFn func(html string) (*scrapekb.ExtractResult, error)
}

func (e *Extractor) Extract(html string) (*scrapekb.ExtractResult, error) {
	return e.ExtractFn(html)
}

// ContentExtractor is a mock implementation of scrapekb.ContentExtractor.
type ContentExtractor struct {
	ExtractContentFn func(html string) (*scrapekb.Candidate, error)
}

func (e *ContentExtractor) ExtractContent(html string) (*scrapekb.Candidate, error) {
	return e.ExtractContentFn(html)
}
