package scrapekb

// Metadata is best-effort descriptive information about an article.
type Metadata struct {
	// Title is empty when nothing title-like was found.
	Title string

	// Author is nil unless a known metadata pattern matched.
	Author *string
}

// MetadataInferencer infers title and author from a page.
type MetadataInferencer interface {
	// Infer inspects the raw page html and the normalized extracted text.
	// It never fails; missing fields are left empty.
	Infer(html, text string) Metadata
}
