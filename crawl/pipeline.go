// Package crawl orchestrates one scraping run: fetching targets, routing
// them through classification, discovery, extraction and segmentation, and
// assembling the output.
package crawl

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cursorboy/scrapekb"
	"github.com/cursorboy/scrapekb/bloom"
	"github.com/cursorboy/scrapekb/extract"
)

// DefaultMaxItems caps the items emitted per target.
const DefaultMaxItems = 10

// Visited set sizing.
const (
	visitedExpectedURLs      = 10000
	visitedFalsePositiveRate = 0.01
)

// Pipeline turns targets into content items. Splitter and Sitemaps are
// optional; every other service is required.
type Pipeline struct {
	Fetcher    scrapekb.Fetcher
	Classifier scrapekb.PageClassifier
	Discoverer scrapekb.LinkDiscoverer
	Extractor  scrapekb.ContentExtractor
	Metadata   scrapekb.MetadataInferencer
	Converter  scrapekb.Converter
	Segmenter  scrapekb.Segmenter
	Splitter   scrapekb.PostSplitter
	Sitemaps   scrapekb.SitemapService

	// SitemapFilter prunes sitemap URLs before they are ranked.
	SitemapFilter *scrapekb.URLFilter

	// Gate screens posts embedded in listing pages, which bypass the
	// extractor. Nil means extract.DefaultGate.
	Gate *extract.Gate

	// Delay separates consecutive remote fetches. Zero disables pacing.
	Delay time.Duration

	// RetryDelays are the waits between attempts of a failed fetch. Nil
	// means a single attempt.
	RetryDelays []time.Duration

	// MaxItems is used when a run does not set its own cap.
	MaxItems int

	// Log receives retry notices, if set.
	Log LogFunc
}

// Skip records a target or candidate that produced no item.
type Skip struct {
	URL    string
	Code   string
	Reason string
}

// Result holds the outcome of a run.
type Result struct {
	Output *scrapekb.Output
	Skips  []Skip

	// Visited counts the distinct pages the run reached.
	Visited int
}

// Skipped returns the number of skipped targets and candidates.
func (r *Result) Skipped() int {
	return len(r.Skips)
}

// ProgressEvent reports progress during a run.
type ProgressEvent struct {
	Type      ProgressType
	URL       string
	Title     string
	Completed int
	Total     int
	Error     error
}

// ProgressType indicates the type of progress event.
type ProgressType int

const (
	ProgressStarted ProgressType = iota
	ProgressItem
	ProgressSkipped
	ProgressFinished
)

// ProgressFunc is a callback for reporting run progress.
type ProgressFunc func(event ProgressEvent)

// Run processes a single target.
func (p *Pipeline) Run(ctx context.Context, target, teamID string, maxItems int, progress ProgressFunc) *Result {
	return p.RunAll(ctx, []string{target}, teamID, maxItems, progress)
}

// RunAll processes targets in order, one fetch at a time, and never fails:
// every problem becomes a skip. Each target contributes at most maxItems
// items. A canceled context ends the run with the items gathered so far.
func (p *Pipeline) RunAll(ctx context.Context, targets []string, teamID string, maxItems int, progress ProgressFunc) *Result {
	if maxItems <= 0 {
		maxItems = p.MaxItems
	}
	if maxItems <= 0 {
		maxItems = DefaultMaxItems
	}

	r := &run{
		p:        p,
		ctx:      ctx,
		result:   &Result{Output: scrapekb.NewOutput(teamID)},
		visited:  bloom.NewURLSet(visitedExpectedURLs, visitedFalsePositiveRate),
		hashes:   make(map[string]struct{}),
		pacer:    NewPacer(p.Delay),
		maxItems: maxItems,
		progress: progress,
	}

	for _, target := range targets {
		if ctx.Err() != nil {
			break
		}
		r.target(strings.TrimSpace(target))
	}

	r.result.Visited = r.visited.Len()
	r.notify(ProgressEvent{
		Type:      ProgressFinished,
		Completed: len(r.result.Output.Items),
		Total:     len(r.result.Output.Items) + r.result.Skipped(),
	})
	return r.result
}

// run is the state owned by one RunAll call.
type run struct {
	p        *Pipeline
	ctx      context.Context
	result   *Result
	visited  *bloom.URLSet
	hashes   map[string]struct{}
	pacer    *Pacer
	maxItems int
	progress ProgressFunc

	// emitted counts items of the current target.
	emitted int
}

func (r *run) target(target string) {
	r.emitted = 0
	if target == "" {
		r.skip(target, scrapekb.Errorf(scrapekb.EINVALID, "empty target"))
		return
	}
	if !r.visited.Add(target) {
		return
	}
	r.notify(ProgressEvent{Type: ProgressStarted, URL: target})

	res, err := r.fetch(target)
	if err != nil {
		r.skip(target, err)
		return
	}
	if !r.arrive(target, res.URL) {
		return
	}

	switch {
	case res.Kind == scrapekb.ContentKindPDF:
		r.book(res)
	case res.Kind != scrapekb.ContentKindHTML:
		r.skip(target, scrapekb.ExtractionFailure(target, fmt.Sprintf("unsupported content type %q", res.MediaType)))
	case !scrapekb.IsLocalTarget(target) && r.p.Classifier.Classify(res.URL, string(res.Body)) == scrapekb.PageIndex:
		r.index(res.URL, string(res.Body))
	default:
		r.article(res.URL, string(res.Body))
	}
}

// index follows the best article links of a listing page. Without links it
// falls back to the sitemap, then to posts embedded in the page.
func (r *run) index(pageURL, html string) {
	links, err := r.p.Discoverer.Discover(html, pageURL)
	if err != nil {
		r.skip(pageURL, err)
		return
	}

	if len(links) == 0 && r.p.Sitemaps != nil {
		urls, err := r.p.Sitemaps.DiscoverURLs(r.ctx, pageURL, r.p.SitemapFilter)
		if err == nil {
			links = r.p.Discoverer.Rank(urls, pageURL)
		}
	}

	if len(links) == 0 {
		if r.p.Splitter != nil && r.embedded(pageURL, html) {
			return
		}
		r.skip(pageURL, scrapekb.ExtractionFailure(pageURL, "no article links found"))
		return
	}

	frontier := NewFrontier(r.visited)
	for _, link := range links {
		frontier.Push(link)
	}
	r.notify(ProgressEvent{Type: ProgressStarted, URL: pageURL, Total: frontier.Len()})

	for r.emitted < r.maxItems && r.ctx.Err() == nil {
		link, ok := frontier.Pop()
		if !ok {
			break
		}
		r.candidate(link.URL)
	}
}

// candidate fetches a discovered link and treats it as an article.
func (r *run) candidate(target string) {
	res, err := r.fetch(target)
	if err != nil {
		r.skip(target, err)
		return
	}
	if !r.arrive(target, res.URL) {
		return
	}
	switch res.Kind {
	case scrapekb.ContentKindHTML:
		r.article(res.URL, string(res.Body))
	case scrapekb.ContentKindPDF:
		r.book(res)
	default:
		r.skip(target, scrapekb.ExtractionFailure(target, fmt.Sprintf("unsupported content type %q", res.MediaType)))
	}
}

func (r *run) article(pageURL, html string) {
	candidate, err := r.p.Extractor.ExtractContent(html)
	if err != nil {
		r.skip(pageURL, err)
		return
	}
	r.emitHTML(pageURL, html, candidate.ContentHTML, candidate.Title, candidate.Author)
}

// embedded emits posts rendered inline on a listing page and reports
// whether any were found. Each post must pass the quality gate on its own.
func (r *run) embedded(pageURL, html string) bool {
	posts, err := r.p.Splitter.Split(html, pageURL)
	if err != nil || len(posts) == 0 {
		return false
	}

	gate := extract.DefaultGate()
	if r.p.Gate != nil {
		gate = *r.p.Gate
	}
	for _, post := range posts {
		if r.emitted >= r.maxItems || r.ctx.Err() != nil {
			break
		}
		length, ratio, err := extract.Measure(post.ContentHTML)
		if err != nil {
			r.skip(pageURL, scrapekb.ParseError(pageURL, err))
			continue
		}
		if !gate.Passes(length, ratio) {
			r.skip(pageURL, scrapekb.ExtractionFailure(pageURL,
				fmt.Sprintf("embedded post %q: %d chars at ratio %.2f", post.Title, length, ratio)))
			continue
		}
		r.emitHTML(pageURL, post.ContentHTML, post.ContentHTML, post.Title, post.Author)
	}
	return true
}

// emitHTML normalizes a content fragment and emits it as a blog item.
// Metadata is inferred from page; the extraction's title and author fill
// whatever inference left empty.
func (r *run) emitHTML(pageURL, page, fragment, title, author string) {
	text, err := r.p.Converter.Convert(fragment, pageURL)
	if err != nil {
		r.skip(pageURL, err)
		return
	}

	meta := r.p.Metadata.Infer(page, text)
	if meta.Title == "" {
		meta.Title = strings.TrimSpace(title)
	}
	if meta.Author == nil {
		meta.Author = scrapekb.StringPtr(author)
	}

	r.emit(&scrapekb.ContentItem{
		Title:       meta.Title,
		Content:     text,
		ContentType: scrapekb.ContentTypeBlog,
		SourceURL:   pageURL,
		Author:      meta.Author,
	})
}

func (r *run) book(res *scrapekb.FetchResult) {
	items, err := r.p.Segmenter.Segment(res.Body, res.URL)
	if err != nil {
		r.skip(res.URL, err)
		return
	}
	for _, item := range items {
		if r.emitted >= r.maxItems {
			break
		}
		text, err := r.p.Converter.Convert(item.Content, res.URL)
		if err != nil {
			r.skip(res.URL, err)
			continue
		}
		chapter := *item
		chapter.Content = text
		chapter.ContentType = scrapekb.ContentTypeBook
		r.emit(&chapter)
	}
}

// emit appends a valid item unless an item with identical content was
// already emitted in this run.
func (r *run) emit(item *scrapekb.ContentItem) {
	if err := item.Validate(); err != nil {
		r.skip(item.SourceURL, err)
		return
	}
	hash := ComputeHash(item.Content)
	if _, ok := r.hashes[hash]; ok {
		r.skip(item.SourceURL, scrapekb.Errorf(scrapekb.EINVALID, "duplicate content"))
		return
	}
	r.hashes[hash] = struct{}{}

	r.result.Output.Items = append(r.result.Output.Items, item)
	r.emitted++
	r.notify(ProgressEvent{
		Type:      ProgressItem,
		URL:       item.SourceURL,
		Title:     item.Title,
		Completed: len(r.result.Output.Items),
	})
}

// arrive marks where a redirected fetch ended as visited and reports
// whether that page is new to the run.
func (r *run) arrive(requested, final string) bool {
	if final == "" || scrapekb.NormalizeURL(final) == scrapekb.NormalizeURL(requested) {
		return true
	}
	return r.visited.Add(final)
}

// fetch paces remote requests and applies the retry policy.
func (r *run) fetch(target string) (*scrapekb.FetchResult, error) {
	return FetchWithRetryDelays(r.ctx, target, func(ctx context.Context, target string) (*scrapekb.FetchResult, error) {
		if !scrapekb.IsLocalTarget(target) {
			if err := r.pacer.Wait(ctx); err != nil {
				return nil, err
			}
		}
		return r.p.Fetcher.Fetch(ctx, target)
	}, r.p.Log, r.p.RetryDelays)
}

// skip records a failure. Failures caused by cancellation are not skips.
func (r *run) skip(target string, err error) {
	if r.ctx.Err() != nil {
		return
	}
	r.result.Skips = append(r.result.Skips, Skip{
		URL:    target,
		Code:   scrapekb.ErrorCode(err),
		Reason: reason(err),
	})
	r.notify(ProgressEvent{Type: ProgressSkipped, URL: target, Error: err})
}

// reason renders err without the code prefix of application errors.
func reason(err error) string {
	var e *scrapekb.Error
	if errors.As(err, &e) {
		return strings.TrimPrefix(e.Error(), "scrapekb error: code="+e.Code+" message=")
	}
	return err.Error()
}

func (r *run) notify(event ProgressEvent) {
	if r.progress != nil {
		r.progress(event)
	}
}
