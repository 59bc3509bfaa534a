package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"time"

	"github.com/alecthomas/kong"
	"github.com/cursorboy/scrapekb"
	"github.com/cursorboy/scrapekb/crawl"
	"github.com/cursorboy/scrapekb/extract"
	"github.com/cursorboy/scrapekb/goquery"
	kbhttp "github.com/cursorboy/scrapekb/http"
	"github.com/cursorboy/scrapekb/pdf"
)

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Config kong.ConfigFlag `short:"C" help:"YAML file of flag values, keyed by flag name"`

	TeamID   string `name:"team-id" env:"SCRAPEKB_TEAM_ID" help:"Team identifier stamped on the output"`
	MaxItems int    `short:"n" default:"${max_items}" help:"Maximum items per target"`
	MaxLinks int    `default:"${max_links}" help:"Maximum article links followed from an index page"`

	Delay     time.Duration `default:"${delay}" help:"Pause between consecutive remote fetches"`
	Timeout   time.Duration `short:"t" default:"${timeout}" help:"Fetch timeout per request"`
	UserAgent string        `default:"${user_agent}" help:"User-Agent header for remote fetches"`
	Retries   int           `default:"0" help:"Retries per failed fetch, with doubling backoff from 1s"`
	Robots    bool          `help:"Refuse URLs disallowed by robots.txt"`

	MinLength   int     `default:"${min_length}" help:"Minimum visible characters for extracted content"`
	MinRatio    float64 `default:"${min_ratio}" help:"Minimum text-to-markup ratio for extracted content"`
	MaxChapters int     `default:"${max_chapters}" help:"Maximum chapters taken from a PDF"`

	Sitemap  bool `default:"true" negatable:"" help:"Fall back to the sitemap when an index page has no article links"`
	Embedded bool `default:"true" negatable:"" help:"Fall back to posts embedded in an index page"`

	Output  string `short:"o" default:"-" help:"Output file, or directory for markdown (- for stdout)"`
	Format  string `enum:"json,markdown,text" default:"json" help:"Output format (json, markdown, text)"`
	DB      string `help:"Also store the run in this SQLite database"`
	Verbose bool   `short:"v" help:"Log every fetch, extraction and discovery step"`

	Targets []string `arg:"" help:"URLs or local files to scrape"`
}

// validate checks flag combinations Kong cannot express.
func (c *CLI) validate() error {
	switch {
	case c.TeamID == "":
		return fmt.Errorf("team ID is required (--team-id or SCRAPEKB_TEAM_ID)")
	case c.MaxItems <= 0:
		return fmt.Errorf("--max-items must be positive")
	case c.Format == "markdown" && c.Output == "-":
		return fmt.Errorf("markdown output requires --output directory")
	case c.MinRatio < 0 || c.MinRatio > 1:
		return fmt.Errorf("--min-ratio must be between 0 and 1")
	}
	return nil
}

// defaultVars exposes package defaults to the flag tags.
var defaultVars = kong.Vars{
	"max_items":    strconv.Itoa(crawl.DefaultMaxItems),
	"max_links":    strconv.Itoa(goquery.DefaultMaxLinks),
	"delay":        crawl.DefaultDelay.String(),
	"timeout":      kbhttp.DefaultFetchTimeout.String(),
	"user_agent":   kbhttp.DefaultUserAgent,
	"min_length":   strconv.Itoa(extract.DefaultMinTextLength),
	"min_ratio":    strconv.FormatFloat(extract.DefaultMinTextRatio, 'g', -1, 64),
	"max_chapters": strconv.Itoa(pdf.DefaultMaxChapters),
}

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx    context.Context
	Stdout io.Writer
	Stderr io.Writer
	Logger *slog.Logger

	Pipeline *crawl.Pipeline
	Sinks    []scrapekb.ResultSink
}

// ScrapeCmd runs the pipeline over the targets and writes the output.
type ScrapeCmd struct {
	Targets  []string
	TeamID   string
	MaxItems int
	Output   string
}

// Run executes the scrape. A run that completes succeeds even when some
// targets were skipped; only failing to write the output is an error.
func (c *ScrapeCmd) Run(deps *Dependencies) error {
	logger := deps.Logger

	progress := func(e crawl.ProgressEvent) {
		switch e.Type {
		case crawl.ProgressStarted:
			if e.Total > 0 {
				logger.Info("index", "url", e.URL, "links", e.Total)
			} else {
				logger.Debug("target", "url", e.URL)
			}
		case crawl.ProgressItem:
			logger.Info("item", "n", e.Completed, "title", e.Title, "url", crawl.TruncateURL(e.URL, 60))
		case crawl.ProgressSkipped:
			logger.Warn("skip", "url", e.URL, "code", scrapekb.ErrorCode(e.Error), "err", e.Error)
		}
	}

	result := deps.Pipeline.RunAll(deps.Ctx, c.Targets, c.TeamID, c.MaxItems, progress)

	var size int
	for _, item := range result.Output.Items {
		size += len(item.Content)
	}
	logger.Info("done",
		"items", len(result.Output.Items),
		"skipped", result.Skipped(),
		"visited", result.Visited,
		"content", crawl.FormatBytes(size))
	if err := deps.Ctx.Err(); err != nil {
		logger.Warn("interrupted, writing partial output", "items", len(result.Output.Items))
	}

	// Sinks must finish even after an interrupt.
	ctx := context.WithoutCancel(deps.Ctx)
	for _, sink := range deps.Sinks {
		if err := sink.WriteOutput(ctx, result.Output); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

var _ scrapekb.ResultSink = (*textWriter)(nil)

// textWriter renders items as one Markdown document for reading.
type textWriter struct {
	w io.Writer
}

func (t *textWriter) WriteOutput(_ context.Context, out *scrapekb.Output) error {
	_, err := fmt.Fprintln(t.w, scrapekb.FormatItems(out.Items))
	return err
}
