package scrapekb

// ExtractResult holds the output of a single extraction strategy.
type ExtractResult struct {
	// Title is the page title the strategy found, if any.
	Title string

	// ContentHTML is the isolated main content as HTML.
	ContentHTML string

	// Author is a byline the strategy recognized, if any.
	Author string
}

// Extractor is one strategy for isolating main content from a full HTML
// document.
type Extractor interface {
	// Extract processes raw HTML and returns the content it considers main.
	// It does not judge quality; the chain's gate does.
	Extract(html string) (*ExtractResult, error)
}

// Candidate is the main content accepted by an extraction chain.
type Candidate struct {
	// ContentHTML is the serialized HTML fragment.
	ContentHTML string

	// Title and Author as reported by the strategy, if any.
	Title  string
	Author string

	// Method names the strategy that produced the fragment.
	Method string

	// TextLength is the visible text length in runes.
	TextLength int

	// TextRatio is visible text bytes over markup bytes. It serves as the
	// confidence signal for the candidate.
	TextRatio float64
}

// ContentExtractor isolates main content by trying strategies in priority
// order.
type ContentExtractor interface {
	// ExtractContent returns the first candidate that passes the quality
	// gate, or an ExtractionFailure when none does.
	ExtractContent(html string) (*Candidate, error)
}
