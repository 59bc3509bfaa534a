package mock

import "github.com/cursorboy/scrapekb"

var (
	_ scrapekb.Segmenter = (*Segmenter)(nil)
	_ scrapekb.PDFReader = (*PDFReader)(nil)
)

// Segmenter is a mock implementation of scrapekb.Segmenter.
type Segmenter struct {
	SegmentFn func(data []byte, source string) ([]*scrapekb.ContentItem, error)
}

func (s *Segmenter) Segment(data []byte, source string) ([]*scrapekb.ContentItem, error) {
	return s.SegmentFn(data, source)
}

// PDFReader is a mock implementation of scrapekb.PDFReader.
type PDFReader struct {
	ReadFn func(data []byte) (*scrapekb.PDFDocument, error)
}

func (r *PDFReader) Read(data []byte) (*scrapekb.PDFDocument, error) {
	return r.ReadFn(data)
}
