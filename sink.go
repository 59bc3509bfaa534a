package scrapekb

import "context"

// ResultSink persists the output of a run.
type ResultSink interface {
	WriteOutput(ctx context.Context, out *Output) error
}
