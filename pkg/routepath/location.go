package routepath

import (
	"net/url"
	"strings"
)

// Location is a browser-visible location broken into the parts routing
// cares about. Scheme, host and user info are discarded.
type Location struct {
	// Path is the URL path as seen by the server (not canonicalized).
	Path string

	// Query is the URL query without the leading "?".
	Query string

	// Fragment is everything after the first "#", still encoded.
	Fragment string
}

// ParseLocation splits a raw location. Both absolute URLs
// ("https://host/app/#/stock/AAPL") and origin-relative forms
// ("/app/stock/AAPL?x=1", "#/stock/AAPL") are accepted.
func ParseLocation(raw string) (Location, error) {
	if strings.Contains(raw, "\\") {
		return Location{}, ErrBackslashInPath
	}
	if strings.Contains(raw, "\x00") {
		return Location{}, ErrNullByteInPath
	}

	rest, fragment, _ := strings.Cut(raw, "#")

	if strings.Contains(rest, "://") || strings.HasPrefix(rest, "//") {
		u, err := url.Parse(rest)
		if err != nil {
			return Location{}, ErrInvalidPath
		}
		rest = u.EscapedPath()
		if u.RawQuery != "" {
			rest += "?" + u.RawQuery
		}
	}

	path, query, _ := strings.Cut(rest, "?")
	return Location{Path: path, Query: query, Fragment: fragment}, nil
}

// NormalizeBase returns base in the form "/" or "/a/b" (leading slash, no
// trailing slash). Empty input yields "/".
func NormalizeBase(base string) string {
	base = strings.Trim(strings.TrimSpace(base), "/")
	if base == "" {
		return "/"
	}
	return "/" + base
}

// StripBase removes the base path from a canonical path. It reports false
// when path lies outside base. The result is always a rooted path.
func StripBase(path, base string) (string, bool) {
	base = NormalizeBase(base)
	if base == "/" {
		return path, true
	}
	if path == base {
		return "/", true
	}
	if strings.HasPrefix(path, base+"/") {
		return path[len(base):], true
	}
	return "", false
}

// JoinBase prefixes a rooted routing path with the base path.
func JoinBase(base, path string) string {
	base = NormalizeBase(base)
	if base == "/" {
		return path
	}
	if path == "/" || path == "" {
		return base + "/"
	}
	return base + path
}
