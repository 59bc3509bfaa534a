package scrapekb

import (
	"context"
	"time"
)

// Run is a persisted output: the items one invocation produced for a team.
type Run struct {
	ID        string
	TeamID    string
	CreatedAt time.Time

	// ItemCount is the number of items stored with the run.
	ItemCount int
}

// RunFilter represents a filter for FindRuns.
type RunFilter struct {
	ID     *string
	TeamID *string

	Limit  int
	Offset int
}

// ItemFilter represents a filter for FindItems.
type ItemFilter struct {
	RunID       *string
	SourceURL   *string
	ContentType *ContentType

	Limit  int
	Offset int
}

// RunService persists outputs as runs and reads them back. Writing an
// output stores one run holding its items in order.
type RunService interface {
	ResultSink

	// FindRuns returns runs matching the filter, newest first.
	FindRuns(ctx context.Context, filter RunFilter) ([]*Run, error)

	// FindItems returns items matching the filter in emission order.
	FindItems(ctx context.Context, filter ItemFilter) ([]*ContentItem, error)

	// DeleteRun removes a run and its items.
	// Returns ENOTFOUND if the run does not exist.
	DeleteRun(ctx context.Context, id string) error
}
