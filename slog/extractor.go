package slog

import (
	"log/slog"
	"time"

	"github.com/cursorboy/scrapekb"
)

// Ensure LoggingContentExtractor implements scrapekb.ContentExtractor.
var _ scrapekb.ContentExtractor = (*LoggingContentExtractor)(nil)

// LoggingContentExtractor wraps a ContentExtractor with logging of the
// winning method and its quality measurements.
type LoggingContentExtractor struct {
	next   scrapekb.ContentExtractor
	logger *slog.Logger
}

// NewLoggingContentExtractor creates a new LoggingContentExtractor.
func NewLoggingContentExtractor(next scrapekb.ContentExtractor, logger *slog.Logger) *LoggingContentExtractor {
	return &LoggingContentExtractor{next: next, logger: logger}
}

// ExtractContent delegates to the wrapped extractor and logs the result.
func (e *LoggingContentExtractor) ExtractContent(html string) (c *scrapekb.Candidate, err error) {
	defer func(begin time.Time) {
		attrs := []any{"bytes", len(html), "duration", time.Since(begin)}
		if c != nil {
			attrs = append(attrs, "method", c.Method, "text_length", c.TextLength, "text_ratio", c.TextRatio)
		}
		attrs = append(attrs, "err", err)
		e.logger.Info("extract", attrs...)
	}(time.Now())
	return e.next.ExtractContent(html)
}
