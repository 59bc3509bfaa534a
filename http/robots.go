package http

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"sync"

	"github.com/cursorboy/scrapekb"
	"github.com/temoto/robotstxt"
)

var _ scrapekb.Fetcher = (*RobotsFetcher)(nil)

// RobotsFetcher refuses targets disallowed by the host's robots.txt and
// passes everything else to the wrapped Fetcher. Robots files are fetched
// once per host. Hosts whose robots.txt cannot be read are treated as
// allowing everything.
type RobotsFetcher struct {
	next      scrapekb.Fetcher
	client    *http.Client
	userAgent string

	mu    sync.Mutex
	hosts map[string]*robotstxt.Group
}

// NewRobotsFetcher wraps next. If client is nil, http.DefaultClient is used.
func NewRobotsFetcher(next scrapekb.Fetcher, client *http.Client, userAgent string) *RobotsFetcher {
	if client == nil {
		client = http.DefaultClient
	}
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	return &RobotsFetcher{
		next:      next,
		client:    client,
		userAgent: userAgent,
		hosts:     make(map[string]*robotstxt.Group),
	}
}

// Fetch implements scrapekb.Fetcher.
func (f *RobotsFetcher) Fetch(ctx context.Context, target string) (*scrapekb.FetchResult, error) {
	u, err := url.Parse(target)
	if err != nil || u.Host == "" {
		return f.next.Fetch(ctx, target)
	}

	group := f.group(ctx, u)
	if group != nil && !group.Test(u.EscapedPath()) {
		return nil, scrapekb.FetchError(target, scrapekb.Errorf(scrapekb.EINVALID, "disallowed by robots.txt"))
	}
	return f.next.Fetch(ctx, target)
}

func (f *RobotsFetcher) group(ctx context.Context, u *url.URL) *robotstxt.Group {
	key := u.Scheme + "://" + u.Host

	f.mu.Lock()
	group, ok := f.hosts[key]
	f.mu.Unlock()
	if ok {
		return group
	}

	group = f.load(ctx, key+"/robots.txt")

	f.mu.Lock()
	f.hosts[key] = group
	f.mu.Unlock()
	return group
}

func (f *RobotsFetcher) load(ctx context.Context, robotsURL string) *robotstxt.Group {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, robotsURL, nil)
	if err != nil {
		return nil
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxSitemapSize))
	if err != nil {
		return nil
	}

	data, err := robotstxt.FromStatusAndBytes(resp.StatusCode, body)
	if err != nil {
		return nil
	}
	return data.FindGroup(f.userAgent)
}
