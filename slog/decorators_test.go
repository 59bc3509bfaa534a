package slog_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/cursorboy/scrapekb"
	"github.com/cursorboy/scrapekb/mock"
	kbslog "github.com/cursorboy/scrapekb/slog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggingClassifier_Classify(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	inner := &mock.PageClassifier{
		ClassifyFn: func(targetURL, html string) scrapekb.PageKind {
			return scrapekb.PageIndex
		},
	}

	kind := kbslog.NewLoggingClassifier(inner, logger).Classify("https://example.com/blog", "<html></html>")

	assert.Equal(t, scrapekb.PageIndex, kind)
	output := buf.String()
	assert.Contains(t, output, "page classification")
	assert.Contains(t, output, "kind=index")
}

func TestLoggingDiscoverer(t *testing.T) {
	t.Parallel()

	t.Run("logs discovered links at debug level", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
		inner := &mock.LinkDiscoverer{
			DiscoverFn: func(html, baseURL string) ([]scrapekb.CandidateLink, error) {
				return []scrapekb.CandidateLink{
					{URL: "https://example.com/blog/heaps", Score: 7.5},
					{URL: "https://example.com/blog/tries", Score: 6},
				}, nil
			},
		}

		links, err := kbslog.NewLoggingDiscoverer(inner, logger).Discover("<html></html>", "https://example.com/blog")

		require.NoError(t, err)
		assert.Len(t, links, 2)
		output := buf.String()
		assert.Contains(t, output, "link discovery")
		assert.Contains(t, output, "count=2")
		assert.Contains(t, output, "rank=1 url=https://example.com/blog/heaps score=7.5")
	})

	t.Run("hides candidate links at info level", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.LinkDiscoverer{
			DiscoverFn: func(html, baseURL string) ([]scrapekb.CandidateLink, error) {
				return []scrapekb.CandidateLink{{URL: "https://example.com/blog/heaps"}}, nil
			},
		}

		_, err := kbslog.NewLoggingDiscoverer(inner, logger).Discover("<html></html>", "https://example.com/blog")

		require.NoError(t, err)
		assert.NotContains(t, buf.String(), "candidate link")
	})

	t.Run("logs ranking input and output counts", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.LinkDiscoverer{
			RankFn: func(urls []string, baseURL string) []scrapekb.CandidateLink {
				return []scrapekb.CandidateLink{{URL: urls[0]}}
			},
		}

		links := kbslog.NewLoggingDiscoverer(inner, logger).Rank([]string{"https://example.com/a", "https://example.com/tags/go"}, "https://example.com")

		assert.Len(t, links, 1)
		assert.Contains(t, buf.String(), "input=2 count=1")
	})
}

func TestLoggingContentExtractor_ExtractContent(t *testing.T) {
	t.Parallel()

	t.Run("logs the winning method", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.ContentExtractor{
			ExtractContentFn: func(html string) (*scrapekb.Candidate, error) {
				return &scrapekb.Candidate{ContentHTML: "<p>x</p>", Method: "readability", TextLength: 420, TextRatio: 0.5}, nil
			},
		}

		_, err := kbslog.NewLoggingContentExtractor(inner, logger).ExtractContent("<html></html>")

		require.NoError(t, err)
		output := buf.String()
		assert.Contains(t, output, "method=readability")
		assert.Contains(t, output, "text_length=420")
		assert.Contains(t, output, "text_ratio=0.5")
	})

	t.Run("logs error on failure", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.ContentExtractor{
			ExtractContentFn: func(html string) (*scrapekb.Candidate, error) {
				return nil, errors.New("gate failed")
			},
		}

		_, err := kbslog.NewLoggingContentExtractor(inner, logger).ExtractContent("<html></html>")

		require.Error(t, err)
		assert.NotContains(t, buf.String(), "method=")
		assert.Contains(t, buf.String(), "err=\"gate failed\"")
	})
}

func TestLoggingSegmenter_Segment(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	inner := &mock.Segmenter{
		SegmentFn: func(data []byte, source string) ([]*scrapekb.ContentItem, error) {
			return []*scrapekb.ContentItem{{Title: "One"}, {Title: "Two"}}, nil
		},
	}

	items, err := kbslog.NewLoggingSegmenter(inner, logger).Segment([]byte("%PDF"), "book.pdf")

	require.NoError(t, err)
	assert.Len(t, items, 2)
	output := buf.String()
	assert.Contains(t, output, "pdf segmentation")
	assert.Contains(t, output, "source=book.pdf")
	assert.Contains(t, output, "chapters=2")
}

func TestLoggingResultSink_WriteOutput(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	var written *scrapekb.Output
	inner := &mock.ResultSink{
		WriteOutputFn: func(ctx context.Context, out *scrapekb.Output) error {
			written = out
			return nil
		},
	}

	out := scrapekb.NewOutput("aline123")
	out.Items = append(out.Items, &scrapekb.ContentItem{Title: "Heaps"})
	err := kbslog.NewLoggingResultSink(inner, logger).WriteOutput(context.Background(), out)

	require.NoError(t, err)
	assert.Same(t, out, written)
	output := buf.String()
	assert.Contains(t, output, "write output")
	assert.Contains(t, output, "team_id=aline123")
	assert.Contains(t, output, "items=1")
}
