package router

import (
	"fmt"
	"strings"
)

// Validator checks a route declaration for configuration errors before
// it is compiled into a Table.
type Validator struct {
	routes []Route
	errors []ValidationError
}

// ValidationError represents a route declaration error.
type ValidationError struct {
	// Type is the error category
	Type ValidationErrorType

	// Message is the human-readable error message
	Message string

	// Path is the offending pattern (absolute, including ancestors)
	Path string

	// Names are the route names involved
	Names []string

	// Details contains additional error-specific information
	Details string
}

func (e ValidationError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Type, e.Message, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// ValidationErrorType categorizes validation errors.
type ValidationErrorType string

const (
	// ErrorDuplicateName indicates two routes share a name anywhere in the table.
	ErrorDuplicateName ValidationErrorType = "DUPLICATE_NAME"

	// ErrorDuplicatePath indicates two siblings declare the same pattern.
	// Parameter names are ignored: "/stock/:a" and "/stock/:b" collide.
	ErrorDuplicatePath ValidationErrorType = "DUPLICATE_PATH"

	// ErrorMalformedParam indicates a ':' segment without a valid identifier.
	ErrorMalformedParam ValidationErrorType = "MALFORMED_PARAM"

	// ErrorDuplicateParam indicates a parameter name repeats along one
	// root-to-leaf chain, which would make its bound value ambiguous.
	ErrorDuplicateParam ValidationErrorType = "DUPLICATE_PARAM"

	// ErrorInvalidSegment indicates an empty or illegal static segment.
	ErrorInvalidSegment ValidationErrorType = "INVALID_SEGMENT"

	// ErrorInvalidPath indicates a top-level path without a leading slash
	// or a child path with one.
	ErrorInvalidPath ValidationErrorType = "INVALID_PATH"

	// ErrorMissingComponent indicates a route without a component.
	ErrorMissingComponent ValidationErrorType = "MISSING_COMPONENT"

	// ErrorEmptyName indicates a route without a name.
	ErrorEmptyName ValidationErrorType = "EMPTY_NAME"
)

// MultiValidationError wraps multiple validation errors.
type MultiValidationError struct {
	Errors []ValidationError
}

func (e *MultiValidationError) Error() string {
	if len(e.Errors) == 0 {
		return "no validation errors"
	}
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d route validation errors:\n", len(e.Errors)))
	for i, err := range e.Errors {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, err.Error()))
	}
	return sb.String()
}

// Has reports whether any collected error is of type t.
func (e *MultiValidationError) Has(t ValidationErrorType) bool {
	for _, err := range e.Errors {
		if err.Type == t {
			return true
		}
	}
	return false
}

// NewValidator creates a validator for a route declaration.
func NewValidator(routes []Route) *Validator {
	return &Validator{routes: routes}
}

// Validate checks the whole declaration and reports every problem found.
// Returns nil if the declaration is valid, or a *MultiValidationError.
func (v *Validator) Validate() error {
	v.errors = nil

	v.validateLevel(v.routes, nil, nil, true)
	v.validateNames()

	if len(v.errors) > 0 {
		return &MultiValidationError{Errors: v.errors}
	}
	return nil
}

// validateLevel checks one sibling list and recurses into children.
// prefix is the ancestors' compiled segments; seen holds the parameter
// names already bound by ancestors.
func (v *Validator) validateLevel(routes []Route, prefix []segment, seen map[string]string, top bool) {
	siblings := make(map[string]string)

	for i := range routes {
		route := &routes[i]
		display := describe(route, i)

		if route.Name == "" {
			v.errors = append(v.errors, ValidationError{
				Type:    ErrorEmptyName,
				Message: fmt.Sprintf("Route %s has no name", display),
				Path:    route.Path,
			})
		}
		if route.Component == nil {
			v.errors = append(v.errors, ValidationError{
				Type:    ErrorMissingComponent,
				Message: fmt.Sprintf("Route %s has no component", display),
				Path:    route.Path,
				Names:   nameList(route.Name),
			})
		}

		if top && !strings.HasPrefix(route.Path, "/") {
			v.errors = append(v.errors, ValidationError{
				Type:    ErrorInvalidPath,
				Message: fmt.Sprintf("Top-level route %s must have an absolute path", display),
				Path:    route.Path,
				Names:   nameList(route.Name),
				Details: fmt.Sprintf("got %q", route.Path),
			})
		}
		if !top && strings.HasPrefix(route.Path, "/") {
			v.errors = append(v.errors, ValidationError{
				Type:    ErrorInvalidPath,
				Message: fmt.Sprintf("Child route %s must have a relative path", display),
				Path:    route.Path,
				Names:   nameList(route.Name),
				Details: fmt.Sprintf("got %q", route.Path),
			})
		}

		segs, ok := v.validateSegments(route, prefix)
		if !ok {
			// Children of a broken pattern would only repeat the same error.
			continue
		}

		full := append(append([]segment{}, prefix...), segs...)
		fullPath := joinSegments(full)

		scope := make(map[string]string, len(seen))
		for k, val := range seen {
			scope[k] = val
		}
		for _, s := range segs {
			if !s.isParam() {
				continue
			}
			if owner, dup := scope[s.param]; dup {
				v.errors = append(v.errors, ValidationError{
					Type:    ErrorDuplicateParam,
					Message: fmt.Sprintf("Parameter '%s' is bound twice along %s", s.param, fullPath),
					Path:    fullPath,
					Names:   nameList(owner, route.Name),
				})
				continue
			}
			scope[s.param] = route.Name
		}

		key := patternKey(segs)
		if other, dup := siblings[key]; dup {
			v.errors = append(v.errors, ValidationError{
				Type:    ErrorDuplicatePath,
				Message: fmt.Sprintf("Duplicate sibling path %s", fullPath),
				Path:    fullPath,
				Names:   nameList(other, route.Name),
				Details: fmt.Sprintf("Routes: %s, %s", other, route.Name),
			})
		} else {
			siblings[key] = route.Name
		}

		if len(route.Children) > 0 {
			v.validateLevel(route.Children, full, scope, false)
		}
	}
}

// validateSegments compiles a route's own segments, recording an error for
// each malformed one.
func (v *Validator) validateSegments(route *Route, prefix []segment) ([]segment, bool) {
	raws := splitPattern(route.Path)
	segs := make([]segment, 0, len(raws))
	ok := true
	for _, raw := range raws {
		seg, valid := compileSegment(raw)
		if !valid {
			ok = false
			typ := segmentProblem(raw)
			msg := fmt.Sprintf("Invalid segment %q in %s", raw, route.Path)
			if typ == ErrorMalformedParam {
				msg = fmt.Sprintf("Malformed parameter %q in %s", raw, route.Path)
			}
			v.errors = append(v.errors, ValidationError{
				Type:    typ,
				Message: msg,
				Path:    joinPattern(joinSegments(prefix), route.Path),
				Names:   nameList(route.Name),
			})
			continue
		}
		segs = append(segs, seg)
	}
	return segs, ok
}

// validateNames checks that names are unique across every nesting level.
func (v *Validator) validateNames() {
	var order []string
	paths := make(map[string][]string)

	var walk func(routes []Route, prefix string)
	walk = func(routes []Route, prefix string) {
		for _, r := range routes {
			full := joinPattern(prefix, r.Path)
			if r.Name != "" {
				if _, ok := paths[r.Name]; !ok {
					order = append(order, r.Name)
				}
				paths[r.Name] = append(paths[r.Name], full)
			}
			walk(r.Children, full)
		}
	}
	walk(v.routes, "")

	for _, name := range order {
		if len(paths[name]) <= 1 {
			continue
		}
		v.errors = append(v.errors, ValidationError{
			Type:    ErrorDuplicateName,
			Message: fmt.Sprintf("Duplicate route name '%s'", name),
			Path:    paths[name][0],
			Names:   []string{name},
			Details: fmt.Sprintf("Paths: %s", strings.Join(paths[name], ", ")),
		})
	}
}

// joinPattern joins a parent pattern and a (possibly relative) child path
// for display.
func joinPattern(prefix, path string) string {
	path = strings.Trim(path, "/")
	prefix = strings.TrimSuffix(prefix, "/")
	if path == "" {
		if prefix == "" {
			return "/"
		}
		return prefix
	}
	return prefix + "/" + path
}

func describe(route *Route, index int) string {
	if route.Name != "" {
		return fmt.Sprintf("'%s'", route.Name)
	}
	return fmt.Sprintf("#%d (%q)", index, route.Path)
}

func nameList(names ...string) []string {
	out := make([]string, 0, len(names))
	for _, n := range names {
		if n != "" {
			out = append(out, n)
		}
	}
	return out
}

// FormatValidationError formats a validation error for terminal display:
//
//	ERROR: Duplicate route name 'StockInfo'
//	  StockInfo → /stock/:stockcode
//	  Details: Paths: /stock/:stockcode, /quote/:stockcode
func FormatValidationError(err ValidationError) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("ERROR: %s\n", err.Message))
	for _, name := range err.Names {
		sb.WriteString(fmt.Sprintf("  %s → %s\n", name, err.Path))
	}
	if err.Details != "" {
		sb.WriteString(fmt.Sprintf("  Details: %s\n", err.Details))
	}

	return sb.String()
}
