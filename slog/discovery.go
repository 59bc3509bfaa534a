package slog

import (
	"log/slog"
	"time"

	"github.com/cursorboy/scrapekb"
)

// Ensure LoggingDiscoverer implements scrapekb.LinkDiscoverer.
var _ scrapekb.LinkDiscoverer = (*LoggingDiscoverer)(nil)

// LoggingDiscoverer wraps a LinkDiscoverer with logging.
type LoggingDiscoverer struct {
	next   scrapekb.LinkDiscoverer
	logger *slog.Logger
}

// NewLoggingDiscoverer creates a new LoggingDiscoverer.
func NewLoggingDiscoverer(next scrapekb.LinkDiscoverer, logger *slog.Logger) *LoggingDiscoverer {
	return &LoggingDiscoverer{next: next, logger: logger}
}

// Discover delegates to the wrapped discoverer and logs the chosen links.
func (d *LoggingDiscoverer) Discover(html, baseURL string) (links []scrapekb.CandidateLink, err error) {
	defer func(begin time.Time) {
		d.logger.Info("link discovery",
			"url", baseURL,
			"count", len(links),
			"duration", time.Since(begin),
			"err", err,
		)
		for i, link := range links {
			d.logger.Debug("candidate link",
				"rank", i+1,
				"url", link.URL,
				"score", link.Score,
			)
		}
	}(time.Now())
	return d.next.Discover(html, baseURL)
}

// Rank delegates to the wrapped discoverer and logs how many URLs survived.
func (d *LoggingDiscoverer) Rank(urls []string, baseURL string) []scrapekb.CandidateLink {
	links := d.next.Rank(urls, baseURL)
	d.logger.Info("link ranking",
		"url", baseURL,
		"input", len(urls),
		"count", len(links),
	)
	return links
}
