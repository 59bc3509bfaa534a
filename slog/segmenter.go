package slog

import (
	"log/slog"
	"time"

	"github.com/cursorboy/scrapekb"
)

// Ensure LoggingSegmenter implements scrapekb.Segmenter.
var _ scrapekb.Segmenter = (*LoggingSegmenter)(nil)

// LoggingSegmenter wraps a Segmenter with logging.
type LoggingSegmenter struct {
	next   scrapekb.Segmenter
	logger *slog.Logger
}

// NewLoggingSegmenter creates a new LoggingSegmenter.
func NewLoggingSegmenter(next scrapekb.Segmenter, logger *slog.Logger) *LoggingSegmenter {
	return &LoggingSegmenter{next: next, logger: logger}
}

// Segment delegates to the wrapped segmenter and logs the chapter count.
func (s *LoggingSegmenter) Segment(data []byte, source string) (items []*scrapekb.ContentItem, err error) {
	defer func(begin time.Time) {
		s.logger.Info("pdf segmentation",
			"source", source,
			"bytes", len(data),
			"chapters", len(items),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.Segment(data, source)
}
