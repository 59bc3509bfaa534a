package scrapekb

// PDFDocument is the text layout of a PDF as needed for segmentation.
type PDFDocument struct {
	Title  string
	Author string
	Pages  []PDFPage
}

// PDFPage holds the text lines of one page, top to bottom.
type PDFPage struct {
	Number int
	Lines  []PDFLine
}

// PDFLine is one baseline of text with its dominant font size.
type PDFLine struct {
	Text     string
	FontSize float64
}

// PDFReader exposes per-page text with font-size metadata.
type PDFReader interface {
	Read(data []byte) (*PDFDocument, error)
}

// Segmenter splits a PDF into chapter-sized content items.
type Segmenter interface {
	// Segment returns one book item per detected chapter in document order.
	// A chapter is never split across items.
	Segment(data []byte, source string) ([]*ContentItem, error)
}
