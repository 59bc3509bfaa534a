package slog

import (
	"log/slog"
	"time"

	"github.com/cursorboy/scrapekb"
)

// Ensure LoggingClassifier implements scrapekb.PageClassifier.
var _ scrapekb.PageClassifier = (*LoggingClassifier)(nil)

// LoggingClassifier wraps a PageClassifier with logging of each decision.
type LoggingClassifier struct {
	next   scrapekb.PageClassifier
	logger *slog.Logger
}

// NewLoggingClassifier creates a new LoggingClassifier.
func NewLoggingClassifier(next scrapekb.PageClassifier, logger *slog.Logger) *LoggingClassifier {
	return &LoggingClassifier{next: next, logger: logger}
}

// Classify delegates to the wrapped classifier and logs the page kind.
func (c *LoggingClassifier) Classify(targetURL, html string) scrapekb.PageKind {
	begin := time.Now()
	kind := c.next.Classify(targetURL, html)
	c.logger.Info("page classification",
		"url", targetURL,
		"kind", kind,
		"duration", time.Since(begin),
	)
	return kind
}
