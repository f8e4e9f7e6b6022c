package router

import (
	"github.com/vango-dev/stocknav/pkg/routepath"
)

// Resolution is the outcome of resolving one location.
type Resolution struct {
	// Location is the input as given.
	Location string

	// Path is the in-app routing path that was matched.
	Path string

	// Query is the query string that accompanied the routing path.
	Query string

	// Match is the matched route chain, or nil when nothing matched.
	Match *Match
}

// Found reports whether a route matched.
func (r *Resolution) Found() bool {
	return r != nil && r.Match != nil
}

// Resolver binds a Table to a history mode and base path. Like the table it
// wraps, it is immutable and safe for concurrent use.
type Resolver struct {
	table *Table
	mode  HistoryMode
	base  string
}

// ResolverOption configures a Resolver.
type ResolverOption func(*Resolver)

// WithHistoryMode sets the history mode (default HistoryHash).
func WithHistoryMode(mode HistoryMode) ResolverOption {
	return func(r *Resolver) {
		r.mode = mode.normalize()
	}
}

// WithBase sets the base path real-path routes live under (default "/").
func WithBase(base string) ResolverOption {
	return func(r *Resolver) {
		r.base = routepath.NormalizeBase(base)
	}
}

// NewResolver creates a resolver over table.
func NewResolver(table *Table, opts ...ResolverOption) *Resolver {
	r := &Resolver{
		table: table,
		mode:  HistoryHash,
		base:  "/",
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Table returns the underlying route table.
func (r *Resolver) Table() *Table { return r.table }

// Mode returns the configured history mode.
func (r *Resolver) Mode() HistoryMode { return r.mode }

// Base returns the normalized base path.
func (r *Resolver) Base() string { return r.base }

// Resolve resolves a browser-visible location: an absolute URL, or an
// origin-relative path with optional query and fragment. How the routing
// path is obtained depends on the history mode.
//
// A location that matches nothing is not an error: the returned resolution
// reports Found() == false. Errors are reserved for malformed input.
func (r *Resolver) Resolve(location string) (*Resolution, error) {
	loc, err := routepath.ParseLocation(location)
	if err != nil {
		return nil, err
	}

	res := &Resolution{Location: location}
	path, query, ok := r.mode.RoutingPath(loc, r.base)
	if !ok {
		return res, nil
	}
	return r.resolve(res, path, query)
}

// ResolvePath resolves an in-app routing path ("/stock/AAPL/currentStock"),
// the form used by programmatic navigation. The history mode plays no part.
func (r *Resolver) ResolvePath(path string) (*Resolution, error) {
	res := &Resolution{Location: path}
	p, query := routepath.SplitPathAndQuery(path)
	return r.resolve(res, p, query)
}

func (r *Resolver) resolve(res *Resolution, path, query string) (*Resolution, error) {
	canon, err := routepath.CanonicalizePath(path)
	if err != nil {
		return nil, err
	}
	m, err := r.table.MatchPath(canon.Path)
	if err != nil {
		return nil, err
	}
	res.Path = canon.Path
	res.Query = query
	res.Match = m
	return res, nil
}

// Href builds the browser-visible URL of a named route.
func (r *Resolver) Href(name string, params Params) (string, error) {
	path, err := r.table.PathFor(name, params)
	if err != nil {
		return "", err
	}
	return r.mode.Href(path, r.base), nil
}

// HrefForPath renders an in-app routing path for the configured mode.
func (r *Resolver) HrefForPath(path string) string {
	return r.mode.Href(path, r.base)
}
