package scrapekb

import (
	"net/url"
	"strings"
)

// NormalizeURL returns the form used to deduplicate URLs: lowercase scheme
// and host, no default port, path without trailing slash, and no query or
// fragment. Values that do not parse as absolute URLs are returned trimmed.
func NormalizeURL(raw string) string {
	raw = strings.TrimSpace(raw)
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return raw
	}

	scheme := strings.ToLower(u.Scheme)
	host := strings.ToLower(u.Host)
	switch {
	case scheme == "http" && strings.HasSuffix(host, ":80"):
		host = strings.TrimSuffix(host, ":80")
	case scheme == "https" && strings.HasSuffix(host, ":443"):
		host = strings.TrimSuffix(host, ":443")
	}

	return scheme + "://" + host + strings.TrimRight(u.EscapedPath(), "/")
}

// SameDomain reports whether two hosts belong to the same site, treating a
// leading "www." as insignificant.
func SameDomain(a, b string) bool {
	return bareHost(a) == bareHost(b)
}

func bareHost(host string) string {
	host = strings.ToLower(host)
	if h, _, ok := strings.Cut(host, ":"); ok {
		host = h
	}
	return strings.TrimPrefix(host, "www.")
}
