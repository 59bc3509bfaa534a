package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/cursorboy/scrapekb"
)

// Ensure LoggingResultSink implements scrapekb.ResultSink.
var _ scrapekb.ResultSink = (*LoggingResultSink)(nil)

// LoggingResultSink wraps a ResultSink with logging.
type LoggingResultSink struct {
	next   scrapekb.ResultSink
	logger *slog.Logger
}

// NewLoggingResultSink creates a new LoggingResultSink.
func NewLoggingResultSink(next scrapekb.ResultSink, logger *slog.Logger) *LoggingResultSink {
	return &LoggingResultSink{next: next, logger: logger}
}

// WriteOutput delegates to the wrapped sink and logs the item count.
func (s *LoggingResultSink) WriteOutput(ctx context.Context, out *scrapekb.Output) (err error) {
	defer func(begin time.Time) {
		s.logger.Info("write output",
			"team_id", out.TeamID,
			"items", len(out.Items),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.WriteOutput(ctx, out)
}
