package mock

import (
	"context"

	"github.com/cursorboy/scrapekb"
)

var _ scrapekb.ResultSink = (*ResultSink)(nil)

// ResultSink is a mock implementation of scrapekb.ResultSink.
type ResultSink struct {
	WriteOutputFn func(ctx context.Context, out *scrapekb.Output) error
}

func (s *ResultSink) WriteOutput(ctx context.Context, out *scrapekb.Output) error {
	return s.WriteOutputFn(ctx, out)
}
