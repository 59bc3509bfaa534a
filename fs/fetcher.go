// Package fs provides file-system implementations: a local file fetcher and
// result sinks that write JSON or Markdown.
package fs

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/cursorboy/scrapekb"
)

// DefaultMaxFileSize caps how much of a local file is read.
const DefaultMaxFileSize = 100 << 20

// Ensure Fetcher implements scrapekb.Fetcher at compile time.
var _ scrapekb.Fetcher = (*Fetcher)(nil)

// Fetcher reads local files such as PDF books.
type Fetcher struct {
	MaxFileSize int64
}

// NewFetcher returns a Fetcher with the default size cap.
func NewFetcher() *Fetcher {
	return &Fetcher{MaxFileSize: DefaultMaxFileSize}
}

// Fetch reads the file named by target, which may be a plain path or a
// file:// URL. A missing file is a FetchError wrapping fs.ErrNotExist.
func (f *Fetcher) Fetch(ctx context.Context, target string) (*scrapekb.FetchResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, scrapekb.FetchError(target, err)
	}

	path := LocalPath(target)
	info, err := os.Stat(path)
	if err != nil {
		return nil, scrapekb.FetchError(target, err)
	}
	if info.IsDir() {
		return nil, scrapekb.FetchError(target, scrapekb.Errorf(scrapekb.EINVALID, "%s is a directory", path))
	}
	if f.MaxFileSize > 0 && info.Size() > f.MaxFileSize {
		return nil, scrapekb.FetchError(target, fmt.Errorf("file exceeds %d bytes", f.MaxFileSize))
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, scrapekb.FetchError(target, err)
	}

	return &scrapekb.FetchResult{
		URL:  target,
		Body: data,
		Kind: scrapekb.DetectContentKind("", data, path),
	}, nil
}

// LocalPath converts a file:// URL to a path. Other values are returned
// unchanged.
func LocalPath(target string) string {
	if !strings.HasPrefix(strings.ToLower(target), "file://") {
		return target
	}
	u, err := url.Parse(target)
	if err != nil {
		return strings.TrimPrefix(target, "file://")
	}
	return u.Path
}
