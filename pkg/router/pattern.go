package router

import (
	"net/url"
	"regexp"
	"strings"
)

// segment is one compiled piece of a route pattern.
type segment struct {
	// literal is the exact text to match (static segments only)
	literal string

	// param is the parameter name (without ':') for dynamic segments
	param string
}

func (s segment) isParam() bool { return s.param != "" }

// key identifies the segment for sibling comparisons. Parameter names are
// erased so ":a" and ":b" in the same position compare equal.
func (s segment) key() string {
	if s.isParam() {
		return ":"
	}
	return s.literal
}

func (s segment) String() string {
	if s.isParam() {
		return ":" + s.param
	}
	return s.literal
}

// paramNameRe matches valid parameter names.
var paramNameRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// forbiddenLiteral lists characters a static segment may not contain.
// Request segments are percent-decoded before matching, so a literal
// holding an escape could never match.
const forbiddenLiteral = "#?*()[]{}% \t\r\n"

// splitPattern splits a route pattern into raw segments. Leading and
// trailing slashes are ignored; "" and "/" have no segments.
func splitPattern(p string) []string {
	p = strings.TrimPrefix(p, "/")
	p = strings.TrimSuffix(p, "/")
	if p == "" {
		return nil
	}
	return strings.Split(p, "/")
}

// compileSegment parses one raw segment. It returns false when the segment
// is malformed; classifySegment explains why.
func compileSegment(raw string) (segment, bool) {
	if strings.HasPrefix(raw, ":") {
		name := raw[1:]
		if !paramNameRe.MatchString(name) {
			return segment{}, false
		}
		return segment{param: name}, true
	}
	// "." and ".." never survive canonicalization of a request path.
	if raw == "" || raw == "." || raw == ".." || strings.ContainsAny(raw, forbiddenLiteral) {
		return segment{}, false
	}
	return segment{literal: raw}, true
}

// segmentProblem classifies a segment compileSegment rejected.
func segmentProblem(raw string) ValidationErrorType {
	if strings.HasPrefix(raw, ":") {
		return ErrorMalformedParam
	}
	return ErrorInvalidSegment
}

// compilePattern compiles every segment of p. Callers validate first.
func compilePattern(p string) []segment {
	raws := splitPattern(p)
	segs := make([]segment, 0, len(raws))
	for _, raw := range raws {
		seg, _ := compileSegment(raw)
		segs = append(segs, seg)
	}
	return segs
}

// patternKey is the sibling-comparison form of a pattern.
func patternKey(segs []segment) string {
	keys := make([]string, len(segs))
	for i, s := range segs {
		keys[i] = s.key()
	}
	return "/" + strings.Join(keys, "/")
}

// joinSegments renders compiled segments back to pattern form.
func joinSegments(segs []segment) string {
	parts := make([]string, len(segs))
	for i, s := range segs {
		parts[i] = s.String()
	}
	return "/" + strings.Join(parts, "/")
}

// node is a compiled route in the table.
type node struct {
	route    *Route
	segments []segment
	parent   *node
	children []*node
	depth    int
}

// bind matches the node's own segments against the head of path, writing
// parameter values into params. It reports false on mismatch; params may
// then hold partial bindings and must be discarded.
func (n *node) bind(path []string, params Params) bool {
	if len(path) < len(n.segments) {
		return false
	}
	for i, seg := range n.segments {
		value := path[i]
		if seg.isParam() {
			if value == "" {
				return false
			}
			params[seg.param] = value
			continue
		}
		if value != seg.literal {
			return false
		}
	}
	return true
}

// fullSegments returns the node's segments prefixed by all ancestors'.
func (n *node) fullSegments() []segment {
	var chain []*node
	for cur := n; cur != nil; cur = cur.parent {
		chain = append(chain, cur)
	}
	var segs []segment
	for i := len(chain) - 1; i >= 0; i-- {
		segs = append(segs, chain[i].segments...)
	}
	return segs
}

// matchLevel tries nodes in declaration order; the first whose segments
// prefix path wins. A node with children keeps its match even when no child
// accepts the remainder. A childless node must consume the whole path.
func matchLevel(nodes []*node, path []string, inherited Params) *Match {
	for _, n := range nodes {
		params := make(Params, len(inherited)+len(n.segments))
		for k, v := range inherited {
			params[k] = v
		}
		if !n.bind(path, params) {
			continue
		}

		rest := path[len(n.segments):]
		if len(n.children) == 0 {
			if len(rest) > 0 {
				continue
			}
			return &Match{Route: n.route, Params: params}
		}

		m := &Match{Route: n.route, Params: params}
		if child := matchLevel(n.children, rest, params); child != nil {
			m.Child = child
			return m
		}
		if len(rest) > 0 {
			m.Unmatched = encodeRemainder(rest)
		}
		return m
	}
	return nil
}

// encodeRemainder rebuilds an unmatched path tail from decoded segments.
func encodeRemainder(rest []string) string {
	parts := make([]string, len(rest))
	for i, s := range rest {
		parts[i] = url.PathEscape(s)
	}
	return "/" + strings.Join(parts, "/")
}
