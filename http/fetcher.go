// Package http provides HTTP implementations of scrapekb.Fetcher and
// scrapekb.SitemapService for static pages that don't require JavaScript.
package http

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cursorboy/scrapekb"
)

const (
	// DefaultFetchTimeout bounds a single request including the body read.
	DefaultFetchTimeout = 20 * time.Second

	// DefaultMaxBodySize caps how much of a response body is read.
	DefaultMaxBodySize = 10 << 20

	// DefaultUserAgent identifies the client to remote servers.
	DefaultUserAgent = "scrapekb/1.0 (+https://github.com/cursorboy/scrapekb)"
)

const acceptHeader = "text/html,application/xhtml+xml,application/pdf;q=0.9,*/*;q=0.8"

// Ensure Fetcher implements scrapekb.Fetcher at compile time.
var _ scrapekb.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves pages and documents over HTTP. It never retries.
type Fetcher struct {
	client      *http.Client
	timeout     time.Duration
	userAgent   string
	maxBodySize int64
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithTimeout sets the timeout for HTTP requests.
// Defaults to DefaultFetchTimeout (20s) if not specified.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// WithUserAgent sets the User-Agent header sent with every request.
func WithUserAgent(ua string) Option {
	return func(f *Fetcher) {
		if ua != "" {
			f.userAgent = ua
		}
	}
}

// WithMaxBodySize sets the largest response body accepted, in bytes.
func WithMaxBodySize(n int64) Option {
	return func(f *Fetcher) {
		if n > 0 {
			f.maxBodySize = n
		}
	}
}

// NewFetcher creates a new HTTP-based Fetcher.
func NewFetcher(opts ...Option) *Fetcher {
	f := &Fetcher{
		timeout:     DefaultFetchTimeout,
		userAgent:   DefaultUserAgent,
		maxBodySize: DefaultMaxBodySize,
	}
	for _, opt := range opts {
		opt(f)
	}

	f.client = &http.Client{
		Timeout: f.timeout,
	}

	return f
}

// Client returns the underlying HTTP client so companion services share
// its timeout.
func (f *Fetcher) Client() *http.Client {
	return f.client
}

// UserAgent returns the User-Agent the fetcher sends.
func (f *Fetcher) UserAgent() string {
	return f.userAgent
}

// Fetch retrieves target with a single GET request. Redirects are followed
// and the result carries the final URL.
// Transport failures, non-2xx statuses and oversized bodies are returned
// as scrapekb.FetchError.
func (f *Fetcher) Fetch(ctx context.Context, target string) (*scrapekb.FetchResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, scrapekb.FetchError(target, err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", acceptHeader)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, scrapekb.FetchError(target, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, scrapekb.FetchError(target, fmt.Errorf("HTTP %d", resp.StatusCode))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBodySize+1))
	if err != nil {
		return nil, scrapekb.FetchError(target, err)
	}
	if int64(len(body)) > f.maxBodySize {
		return nil, scrapekb.FetchError(target, fmt.Errorf("body exceeds %d bytes", f.maxBodySize))
	}

	// Relative links on the page resolve against where redirects ended.
	final := resp.Request.URL.String()
	mediaType := scrapekb.ParseMediaType(resp.Header.Get("Content-Type"))
	return &scrapekb.FetchResult{
		URL:       final,
		Body:      body,
		Kind:      scrapekb.DetectContentKind(mediaType, body, final),
		Status:    resp.StatusCode,
		MediaType: mediaType,
	}, nil
}
