package scrapekb

import (
	"bytes"
	"context"
	"mime"
	"net/url"
	"path"
	"strings"
)

// ContentKind identifies how a fetched body should be processed.
type ContentKind string

// Content kinds.
const (
	ContentKindHTML  ContentKind = "html"
	ContentKindPDF   ContentKind = "pdf"
	ContentKindOther ContentKind = "other"
)

// FetchResult holds the raw response for one target. It is not modified
// after the fetcher returns it.
type FetchResult struct {
	// URL is where the content was found, after any redirects.
	URL string

	// Body is the raw response body or file contents.
	Body []byte

	// Kind is the detected content kind of Body.
	Kind ContentKind

	// Status is the HTTP status code, or 0 for local reads.
	Status int

	// MediaType is the declared media type without parameters, if any.
	MediaType string
}

// Fetcher retrieves raw bytes for a URL or local file.
type Fetcher interface {
	// Fetch performs exactly one request or read for target.
	// Failures are returned as FetchError.
	Fetch(ctx context.Context, target string) (*FetchResult, error)
}

// IsLocalTarget reports whether target names a local file rather than a
// remote URL. Anything without an http or https scheme is local.
func IsLocalTarget(target string) bool {
	lower := strings.ToLower(strings.TrimSpace(target))
	return !strings.HasPrefix(lower, "http://") && !strings.HasPrefix(lower, "https://")
}

// TargetFetcher routes remote URLs to Remote and local paths to Local.
type TargetFetcher struct {
	Remote Fetcher
	Local  Fetcher
}

// Fetch implements Fetcher.
func (f *TargetFetcher) Fetch(ctx context.Context, target string) (*FetchResult, error) {
	next := f.Remote
	if IsLocalTarget(target) {
		next = f.Local
	}
	if next == nil {
		return nil, FetchError(target, Errorf(EINVALID, "no fetcher configured for target"))
	}
	return next.Fetch(ctx, target)
}

var _ Fetcher = (*TargetFetcher)(nil)

// DetectContentKind classifies a body using, in order, the PDF magic
// number, the declared media type, the target's file extension, and a
// sniff for common HTML tags.
func DetectContentKind(mediaType string, body []byte, target string) ContentKind {
	head := bytes.TrimLeft(body, " \t\r\n\ufeff")
	if bytes.HasPrefix(head, []byte("%PDF-")) {
		return ContentKindPDF
	}

	switch ParseMediaType(mediaType) {
	case "application/pdf":
		return ContentKindPDF
	case "text/html", "application/xhtml+xml":
		return ContentKindHTML
	}

	p := target
	if u, err := url.Parse(target); err == nil && u.Path != "" {
		p = u.Path
	}
	switch strings.ToLower(path.Ext(p)) {
	case ".pdf":
		return ContentKindPDF
	case ".html", ".htm", ".xhtml":
		return ContentKindHTML
	}

	if len(head) > 1024 {
		head = head[:1024]
	}
	sniff := strings.ToLower(string(head))
	for _, tag := range []string{"<!doctype html", "<html", "<head", "<body", "<article", "<div", "<p>"} {
		if strings.Contains(sniff, tag) {
			return ContentKindHTML
		}
	}
	return ContentKindOther
}

// ParseMediaType returns the lowercased media type without parameters.
func ParseMediaType(contentType string) string {
	if contentType == "" {
		return ""
	}
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		mt, _, _ = strings.Cut(contentType, ";")
	}
	return strings.ToLower(strings.TrimSpace(mt))
}
