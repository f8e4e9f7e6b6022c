package manifest

import (
	"encoding/json"
	"strings"

	"github.com/vango-dev/stocknav/pkg/routepath"
	"github.com/vango-dev/stocknav/pkg/router"
)

// Entry describes one route for a static host.
type Entry struct {
	Name      string `json:"name"`
	Pattern   string `json:"pattern"`
	Component string `json:"component"`
	Parent    string `json:"parent,omitempty"`

	// Rewrite is a glob of the request paths the host should answer with
	// the shell. Parameters become "*". Empty in hash mode, where only the
	// shell path reaches the host.
	Rewrite string `json:"rewrite,omitempty"`

	// Subtree is set on routes with children. It covers every deeper path
	// under the route, since the route still matches when no child does.
	// "**" spans any number of segments.
	Subtree string `json:"subtree,omitempty"`
}

// Manifest is the published description of a route table.
type Manifest struct {
	Mode   string  `json:"mode"`
	Base   string  `json:"base"`
	Shell  string  `json:"shell"`
	Routes []Entry `json:"routes"`
}

// Build describes the routes of resolver under its mode and base path.
func Build(resolver *router.Resolver) *Manifest {
	mode := resolver.Mode()
	base := resolver.Base()

	m := &Manifest{
		Mode:  mode.String(),
		Base:  base,
		Shell: routepath.JoinBase(base, "/"),
	}
	routes := resolver.Table().Routes()
	parents := make(map[string]bool, len(routes))
	for _, e := range routes {
		if e.Parent != "" {
			parents[e.Parent] = true
		}
	}
	for _, e := range routes {
		entry := Entry{
			Name:      e.Name,
			Pattern:   e.Pattern,
			Component: e.Component,
			Parent:    e.Parent,
		}
		if mode == router.HistoryPath {
			entry.Rewrite = routepath.JoinBase(base, RewriteGlob(e.Pattern))
			if parents[e.Name] {
				entry.Subtree = routepath.JoinBase(base, SubtreeGlob(e.Pattern))
			}
		}
		m.Routes = append(m.Routes, entry)
	}
	return m
}

// RewriteGlob turns a route pattern into a glob: every ":param" segment
// becomes "*".
func RewriteGlob(pattern string) string {
	segs := strings.Split(pattern, "/")
	for i, s := range segs {
		if strings.HasPrefix(s, ":") {
			segs[i] = "*"
		}
	}
	return strings.Join(segs, "/")
}

// SubtreeGlob is RewriteGlob of pattern extended to any deeper path.
func SubtreeGlob(pattern string) string {
	return strings.TrimSuffix(RewriteGlob(pattern), "/") + "/**"
}

// Rewrites returns the distinct rewrite and subtree globs in route order.
func (m *Manifest) Rewrites() []string {
	seen := make(map[string]bool, len(m.Routes))
	var out []string
	for _, e := range m.Routes {
		for _, glob := range []string{e.Rewrite, e.Subtree} {
			if glob == "" || seen[glob] {
				continue
			}
			seen[glob] = true
			out = append(out, glob)
		}
	}
	return out
}

// Encode renders the manifest as indented JSON.
func (m *Manifest) Encode() ([]byte, error) {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}
