package router

import (
	"errors"
	"fmt"
	"strings"

	"github.com/vango-dev/stocknav/pkg/routepath"
)

// HistoryMode selects how the routing path is derived from the browser
// location. Matching is identical in every mode.
type HistoryMode string

const (
	// HistoryHash keeps the routing path in the URL fragment
	// ("/app/#/stock/AAPL"). The server only ever serves the base path.
	HistoryHash HistoryMode = "hash"

	// HistoryPath uses the real URL path below the base path
	// ("/app/stock/AAPL"). Deep links reach the server, which must answer
	// them with the application shell.
	HistoryPath HistoryMode = "path"
)

// ErrUnknownHistoryMode is returned by ParseHistoryMode for unrecognized values.
var ErrUnknownHistoryMode = errors.New("unknown history mode")

// ParseHistoryMode parses a configuration value. The empty string selects
// the default hash mode.
func ParseHistoryMode(s string) (HistoryMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "hash", "web-hash":
		return HistoryHash, nil
	case "path", "history", "web":
		return HistoryPath, nil
	default:
		return "", fmt.Errorf("%w %q (want %q or %q)", ErrUnknownHistoryMode, s, HistoryHash, HistoryPath)
	}
}

func (m HistoryMode) normalize() HistoryMode {
	switch m {
	case HistoryPath:
		return HistoryPath
	default:
		return HistoryHash
	}
}

func (m HistoryMode) String() string {
	return string(m.normalize())
}

// RoutingPath extracts the in-app routing path from a parsed location.
// It reports false when the location lies outside base in path mode.
func (m HistoryMode) RoutingPath(loc routepath.Location, base string) (path, query string, ok bool) {
	if m.normalize() == HistoryHash {
		path, query, _ = strings.Cut(loc.Fragment, "?")
		if path == "" {
			path = "/"
		}
		return path, query, true
	}

	canon, err := routepath.CanonicalizePath(loc.Path)
	if err != nil {
		// Let the matcher surface the canonicalization error.
		return loc.Path, loc.Query, true
	}
	stripped, inside := routepath.StripBase(canon.Path, base)
	if !inside {
		return "", "", false
	}
	return stripped, loc.Query, true
}

// Href renders an in-app routing path as the browser-visible URL for this
// mode.
func (m HistoryMode) Href(path, base string) string {
	if m.normalize() == HistoryHash {
		return routepath.JoinBase(base, "/") + "#" + path
	}
	return routepath.JoinBase(base, path)
}
