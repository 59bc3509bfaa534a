package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/alecthomas/kong"
	"github.com/cursorboy/scrapekb"
	"github.com/cursorboy/scrapekb/crawl"
	"github.com/cursorboy/scrapekb/extract"
	"github.com/cursorboy/scrapekb/fs"
	"github.com/cursorboy/scrapekb/goquery"
	"github.com/cursorboy/scrapekb/htmltomarkdown"
	kbhttp "github.com/cursorboy/scrapekb/http"
	"github.com/cursorboy/scrapekb/pdf"
	"github.com/cursorboy/scrapekb/readability"
	kbslog "github.com/cursorboy/scrapekb/slog"
	"github.com/cursorboy/scrapekb/sqlite"
	"github.com/cursorboy/scrapekb/trafilatura"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// SQLite database, opened only when --db is set.
	DB *sqlite.DB
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.DB != nil {
		return m.DB.Close()
	}
	return nil
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("scrapekb"),
		kong.Description("Scrape blogs, articles and PDF books into knowledge-base items"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}),
		kong.Configuration(yamlConfig),
		defaultVars,
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	// Handle no arguments
	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no targets provided")
	}

	// Handle help flags
	if len(args) == 1 && (args[0] == "--help" || args[0] == "-h" || args[0] == "help") {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	if _, err := parser.Parse(args); err != nil {
		return err
	}
	if err := cli.validate(); err != nil {
		return err
	}

	deps, err := m.wire(ctx, cli, stdout, stderr)
	if err != nil {
		return err
	}
	defer m.Close()

	cmd := &ScrapeCmd{
		Targets:  cli.Targets,
		TeamID:   cli.TeamID,
		MaxItems: cli.MaxItems,
		Output:   cli.Output,
	}
	return cmd.Run(deps)
}

// wire builds the pipeline and sinks described by the flags.
func (m *Main) wire(ctx context.Context, cli *CLI, stdout, stderr io.Writer) (*Dependencies, error) {
	level := slog.LevelInfo
	if cli.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
		Logger: logger,
	}

	httpFetcher := kbhttp.NewFetcher(
		kbhttp.WithTimeout(cli.Timeout),
		kbhttp.WithUserAgent(cli.UserAgent),
	)
	var remote scrapekb.Fetcher = httpFetcher
	if cli.Robots {
		remote = kbhttp.NewRobotsFetcher(remote, httpFetcher.Client(), httpFetcher.UserAgent())
	}
	var fetcher scrapekb.Fetcher = &scrapekb.TargetFetcher{Remote: remote, Local: fs.NewFetcher()}

	var classifier scrapekb.PageClassifier = goquery.NewClassifier()
	var discoverer scrapekb.LinkDiscoverer = &goquery.Discoverer{MaxLinks: cli.MaxLinks}
	gate := extract.Gate{MinTextLength: cli.MinLength, MinTextRatio: cli.MinRatio}
	var extractor scrapekb.ContentExtractor = extract.NewChain(gate,
		extract.Stage{Name: "readability", Extractor: readability.NewExtractor()},
		extract.Stage{Name: "trafilatura", Extractor: trafilatura.NewExtractor()},
		extract.Stage{Name: "selector", Extractor: goquery.NewSelectorExtractor()},
		extract.Stage{Name: "fulltext", Extractor: goquery.NewFullTextExtractor()},
	)
	seg := pdf.NewSegmenter(pdf.NewReader())
	seg.MaxChapters = cli.MaxChapters
	seg.MinChapterLength = cli.MinLength
	var segmenter scrapekb.Segmenter = seg

	var sitemaps scrapekb.SitemapService
	if cli.Sitemap {
		sitemaps = kbhttp.NewSitemapService(httpFetcher.Client(), httpFetcher.UserAgent())
	}

	if cli.Verbose {
		fetcher = kbslog.NewLoggingFetcher(fetcher, logger)
		classifier = kbslog.NewLoggingClassifier(classifier, logger)
		discoverer = kbslog.NewLoggingDiscoverer(discoverer, logger)
		extractor = kbslog.NewLoggingContentExtractor(extractor, logger)
		segmenter = kbslog.NewLoggingSegmenter(segmenter, logger)
		if sitemaps != nil {
			sitemaps = kbslog.NewLoggingSitemapService(sitemaps, logger)
		}
	}

	deps.Pipeline = &crawl.Pipeline{
		Fetcher:       fetcher,
		Classifier:    classifier,
		Discoverer:    discoverer,
		Extractor:     extractor,
		Metadata:      goquery.NewMetadataInferencer(),
		Converter:     htmltomarkdown.NewConverter(),
		Segmenter:     segmenter,
		Sitemaps:      sitemaps,
		SitemapFilter: goquery.SitemapFilter(),
		Gate:          &gate,
		Delay:         cli.Delay,
		RetryDelays:   retryDelays(cli.Retries),
		MaxItems:      cli.MaxItems,
		Log: func(format string, args ...any) {
			logger.Warn(fmt.Sprintf(format, args...))
		},
	}
	if cli.Embedded {
		deps.Pipeline.Splitter = goquery.NewPostSplitter()
	}

	switch cli.Format {
	case "markdown":
		dir := filepath.Clean(cli.Output)
		deps.Sinks = append(deps.Sinks, fs.NewMarkdownStore(filepath.Dir(dir), filepath.Base(dir)))
	case "text":
		deps.Sinks = append(deps.Sinks, &textWriter{w: stdout})
	default:
		if cli.Output == "-" {
			deps.Sinks = append(deps.Sinks, fs.NewJSONWriter(stdout))
		} else {
			deps.Sinks = append(deps.Sinks, fs.NewFileWriter(cli.Output))
		}
	}

	if cli.DB != "" {
		m.DB = sqlite.NewDB(cli.DB)
		if err := m.DB.Open(); err != nil {
			return nil, fmt.Errorf("failed to open database at %q: %w", cli.DB, err)
		}
		deps.Sinks = append(deps.Sinks, sqlite.NewRunService(m.DB))
	}

	if cli.Verbose {
		for i, sink := range deps.Sinks {
			deps.Sinks[i] = kbslog.NewLoggingResultSink(sink, logger)
		}
	}

	return deps, nil
}

// retryDelays returns n doubling delays starting at one second.
func retryDelays(n int) []time.Duration {
	if n <= 0 {
		return nil
	}
	delays := crawl.DefaultRetryDelays()
	for len(delays) < n {
		delays = append(delays, 2*delays[len(delays)-1])
	}
	return delays[:n]
}
