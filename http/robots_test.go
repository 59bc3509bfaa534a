package http_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/cursorboy/scrapekb"
	scrapehttp "github.com/cursorboy/scrapekb/http"
	"github.com/cursorboy/scrapekb/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRobotsFetcher_Fetch(t *testing.T) {
	t.Parallel()

	newRobotsServer := func(t *testing.T, robots string, hits *int32) *httptest.Server {
		t.Helper()
		return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/robots.txt" {
				atomic.AddInt32(hits, 1)
				if robots == "" {
					http.NotFound(w, r)
					return
				}
				_, _ = w.Write([]byte(robots))
				return
			}
			_, _ = w.Write([]byte("<p>page</p>"))
		}))
	}

	passthrough := func(calls *int32) *mock.Fetcher {
		return &mock.Fetcher{
			FetchFn: func(_ context.Context, target string) (*scrapekb.FetchResult, error) {
				atomic.AddInt32(calls, 1)
				return &scrapekb.FetchResult{URL: target, Kind: scrapekb.ContentKindHTML}, nil
			},
		}
	}

	t.Run("refuses disallowed paths without calling the next fetcher", func(t *testing.T) {
		t.Parallel()

		var hits, calls int32
		srv := newRobotsServer(t, "User-agent: *\nDisallow: /private/\n", &hits)
		defer srv.Close()

		f := scrapehttp.NewRobotsFetcher(passthrough(&calls), srv.Client(), "kb-bot")

		_, err := f.Fetch(context.Background(), srv.URL+"/private/post")

		require.Error(t, err)
		assert.Equal(t, scrapekb.EFETCH, scrapekb.ErrorCode(err))
		assert.Contains(t, err.Error(), "robots.txt")
		assert.Equal(t, int32(0), atomic.LoadInt32(&calls))
	})

	t.Run("allows other paths and caches robots per host", func(t *testing.T) {
		t.Parallel()

		var hits, calls int32
		srv := newRobotsServer(t, "User-agent: *\nDisallow: /private/\n", &hits)
		defer srv.Close()

		f := scrapehttp.NewRobotsFetcher(passthrough(&calls), srv.Client(), "kb-bot")

		_, err := f.Fetch(context.Background(), srv.URL+"/blog/one")
		require.NoError(t, err)
		_, err = f.Fetch(context.Background(), srv.URL+"/blog/two")
		require.NoError(t, err)

		assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
		assert.Equal(t, int32(1), atomic.LoadInt32(&hits))
	})

	t.Run("missing robots file allows everything", func(t *testing.T) {
		t.Parallel()

		var hits, calls int32
		srv := newRobotsServer(t, "", &hits)
		defer srv.Close()

		f := scrapehttp.NewRobotsFetcher(passthrough(&calls), srv.Client(), "kb-bot")

		_, err := f.Fetch(context.Background(), srv.URL+"/private/post")

		require.NoError(t, err)
		assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	})
}
