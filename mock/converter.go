package mock

import "github.com/cursorboy/scrapekb"

var _ scrapekb.Converter = (*Converter)(nil)

// Converter is a mock implementation of scrapekb.Converter.
type Converter struct {
	ConvertFn func(html, baseURL string) (string, error)
}

func (c *Converter) Convert(html, baseURL string) (string, error) {
	return c.ConvertFn(html, baseURL)
}
