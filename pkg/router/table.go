package router

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/vango-dev/stocknav/pkg/routepath"
)

// ErrUnknownRoute is returned when a route name is not declared.
var ErrUnknownRoute = errors.New("unknown route")

// ErrMissingParam is returned when building a path without a required
// parameter value.
var ErrMissingParam = errors.New("missing route parameter")

// Table is a validated, immutable route table. It is safe for concurrent
// use; nothing mutates it after NewTable returns.
type Table struct {
	roots  []*node
	byName map[string]*node
	order  []*node
}

// NewTable validates routes and compiles them into a Table. The
// declaration is deep-copied, so later changes to routes have no effect.
// Every configuration problem is reported in a *MultiValidationError.
func NewTable(routes []Route) (*Table, error) {
	if err := NewValidator(routes).Validate(); err != nil {
		return nil, err
	}

	t := &Table{byName: make(map[string]*node)}
	t.roots = t.compile(cloneRoutes(routes), nil)
	return t, nil
}

// MustTable is like NewTable but panics on error. Use it for tables
// declared as package-level literals.
func MustTable(routes []Route) *Table {
	t, err := NewTable(routes)
	if err != nil {
		panic(err)
	}
	return t
}

func (t *Table) compile(routes []Route, parent *node) []*node {
	nodes := make([]*node, 0, len(routes))
	for i := range routes {
		n := &node{
			route:    &routes[i],
			segments: compilePattern(routes[i].Path),
			parent:   parent,
		}
		if parent != nil {
			n.depth = parent.depth + 1
		}
		t.byName[n.route.Name] = n
		t.order = append(t.order, n)
		n.children = t.compile(routes[i].Children, n)
		nodes = append(nodes, n)
	}
	return nodes
}

func cloneRoutes(routes []Route) []Route {
	if routes == nil {
		return nil
	}
	out := make([]Route, len(routes))
	for i, r := range routes {
		out[i] = r
		out[i].Children = cloneRoutes(r.Children)
	}
	return out
}

// Match matches a routing path (already extracted from the browser
// location) against the table. It returns nil when nothing matches or the
// path is malformed; it never panics.
func (t *Table) Match(path string) *Match {
	m, err := t.MatchPath(path)
	if err != nil {
		return nil
	}
	return m
}

// MatchPath is like Match but reports malformed paths as errors, so callers
// can tell "not found" apart from "bad input". A nil match with a nil error
// means not found.
func (t *Table) MatchPath(path string) (*Match, error) {
	canon, err := routepath.CanonicalizePath(path)
	if err != nil {
		return nil, err
	}

	raw := routepath.Segments(canon.Path)
	segs := make([]string, len(raw))
	for i, s := range raw {
		decoded, err := routepath.DecodeSegment(s)
		if err != nil {
			return nil, err
		}
		segs[i] = decoded
	}

	return matchLevel(t.roots, segs, nil), nil
}

// Lookup returns the declaration of the named route.
func (t *Table) Lookup(name string) (*Route, bool) {
	n, ok := t.byName[name]
	if !ok {
		return nil, false
	}
	return n.route, true
}

// Pattern returns the absolute pattern of the named route, including its
// ancestors' segments.
func (t *Table) Pattern(name string) (string, bool) {
	n, ok := t.byName[name]
	if !ok {
		return "", false
	}
	return joinSegments(n.fullSegments()), true
}

// PathFor builds the concrete path of a named route. Every parameter along
// the route's chain must be present in params; values are path-escaped.
// Extra params are ignored.
func (t *Table) PathFor(name string, params Params) (string, error) {
	n, ok := t.byName[name]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownRoute, name)
	}

	segs := n.fullSegments()
	parts := make([]string, 0, len(segs))
	for _, seg := range segs {
		if !seg.isParam() {
			parts = append(parts, seg.literal)
			continue
		}
		value := params[seg.param]
		if value == "" {
			return "", fmt.Errorf("%w: %q for route %q", ErrMissingParam, seg.param, name)
		}
		parts = append(parts, url.PathEscape(value))
	}
	return "/" + strings.Join(parts, "/"), nil
}

// Routes lists every route in declaration order (depth-first, parents
// before their children).
func (t *Table) Routes() []Entry {
	entries := make([]Entry, 0, len(t.order))
	for _, n := range t.order {
		e := Entry{
			Name:      n.route.Name,
			Pattern:   joinSegments(n.fullSegments()),
			Component: n.route.Component.ComponentName(),
			Depth:     n.depth,
		}
		if n.parent != nil {
			e.Parent = n.parent.route.Name
		}
		for _, seg := range n.fullSegments() {
			if seg.isParam() {
				e.Params = append(e.Params, seg.param)
			}
		}
		entries = append(entries, e)
	}
	return entries
}

// Len returns the number of routes, nested ones included.
func (t *Table) Len() int {
	return len(t.order)
}
