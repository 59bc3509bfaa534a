package mock

import "github.com/cursorboy/scrapekb"

var _ scrapekb.MetadataInferencer = (*MetadataInferencer)(nil)

// MetadataInferencer is a mock implementation of scrapekb.MetadataInferencer.
type MetadataInferencer struct {
	InferFn func(html, text string) scrapekb.Metadata
}

func (m *MetadataInferencer) Infer(html, text string) scrapekb.Metadata {
	return m.InferFn(html, text)
}
