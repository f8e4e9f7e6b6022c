package router

import "sort"

// Component is an opaque renderable view bound to a route. The router never
// renders anything itself; it only reports which components to instantiate.
type Component interface {
	// ComponentName identifies the view to the rendering layer.
	ComponentName() string
}

// View is the simplest Component: a view referenced by name.
type View string

// ComponentName implements Component.
func (v View) ComponentName() string { return string(v) }

// Route binds a URL path pattern to a named component.
type Route struct {
	// Path is the pattern (e.g. "/stock/:stockcode"). Top-level paths are
	// absolute; child paths are relative to their parent ("currentStock").
	Path string

	// Name uniquely identifies the route across the whole table.
	Name string

	// Component is the view rendered when the route matches.
	Component Component

	// Children are nested routes, matched against what remains of the path
	// after this route's own segments.
	Children []Route
}

// Params holds parameter values bound during matching, keyed by name.
type Params map[string]string

// Get returns the value bound to name, or "" if absent.
func (p Params) Get(name string) string {
	return p[name]
}

// Names returns the bound parameter names in sorted order.
func (p Params) Names() []string {
	names := make([]string, 0, len(p))
	for name := range p {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Match is the result of matching a path against one level of the table.
type Match struct {
	// Route is the matched declaration.
	Route *Route

	// Params are all parameters bound from the root down to and including
	// this route.
	Params Params

	// Child is the matched nested route, or nil.
	Child *Match

	// Unmatched is the path remainder no child accepted ("" when the
	// whole path was consumed).
	Unmatched string
}

// Name returns the matched route name.
func (m *Match) Name() string {
	if m == nil || m.Route == nil {
		return ""
	}
	return m.Route.Name
}

// Chain returns the matched routes from the top level down to the deepest
// matched child.
func (m *Match) Chain() []*Route {
	var chain []*Route
	for cur := m; cur != nil; cur = cur.Child {
		chain = append(chain, cur.Route)
	}
	return chain
}

// Leaf returns the deepest match in the chain.
func (m *Match) Leaf() *Match {
	if m == nil {
		return nil
	}
	cur := m
	for cur.Child != nil {
		cur = cur.Child
	}
	return cur
}

// Complete reports whether the whole path was consumed by the chain.
func (m *Match) Complete() bool {
	leaf := m.Leaf()
	return leaf != nil && leaf.Unmatched == ""
}

// Entry describes one route in table order, with its full pattern.
type Entry struct {
	// Name is the route name.
	Name string `json:"name" yaml:"name"`

	// Pattern is the absolute pattern including ancestor segments.
	Pattern string `json:"pattern" yaml:"pattern"`

	// Component is the component name.
	Component string `json:"component" yaml:"component"`

	// Parent is the parent route name ("" for top-level routes).
	Parent string `json:"parent,omitempty" yaml:"parent,omitempty"`

	// Depth is the nesting depth (0 for top-level routes).
	Depth int `json:"depth" yaml:"depth"`

	// Params lists the parameter names in pattern order.
	Params []string `json:"params,omitempty" yaml:"params,omitempty"`
}
