package router

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// ErrUnknownComponent is returned when a declaration names a component the
// registry does not know.
var ErrUnknownComponent = errors.New("unknown component")

// Declaration is the file form of a Route: components are referenced by
// name and bound through a ComponentRegistry.
type Declaration struct {
	Path      string        `yaml:"path"`
	Name      string        `yaml:"name"`
	Component string        `yaml:"component"`
	Children  []Declaration `yaml:"children,omitempty"`
}

// DeclarationFile is a route table declared in YAML:
//
//	history: hash
//	base: /
//	routes:
//	  - path: /
//	    name: SearchForm
//	    component: SearchForm
//	  - path: /stock/:stockcode
//	    name: StockInfo
//	    component: StockInfo
//	    children:
//	      - path: currentStock
//	        name: CurrentStock
//	        component: CurrentStock
type DeclarationFile struct {
	History string        `yaml:"history,omitempty"`
	Base    string        `yaml:"base,omitempty"`
	Routes  []Declaration `yaml:"routes"`
}

// ComponentRegistry resolves component names used in declarations.
type ComponentRegistry map[string]Component

// Lookup returns the component registered under name. A nil registry
// accepts every name as a plain View.
func (r ComponentRegistry) Lookup(name string) (Component, bool) {
	if r == nil {
		return View(name), name != ""
	}
	c, ok := r[name]
	return c, ok
}

// LoadDeclarations reads a YAML declaration file.
func LoadDeclarations(path string) (*DeclarationFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read routes: %w", err)
	}
	return ParseDeclarations(data)
}

// ParseDeclarations decodes a YAML declaration. Unknown keys are rejected
// so typos surface at startup.
func ParseDeclarations(data []byte) (*DeclarationFile, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var file DeclarationFile
	if err := dec.Decode(&file); err != nil {
		if errors.Is(err, io.EOF) {
			return &file, nil
		}
		return nil, fmt.Errorf("parse routes: %w", err)
	}
	return &file, nil
}

// Bind converts declarations into routes, resolving component names.
// All unknown components are reported together.
func (f *DeclarationFile) Bind(registry ComponentRegistry) ([]Route, error) {
	var missing []string
	routes := bindDeclarations(f.Routes, registry, &missing)
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %v", ErrUnknownComponent, missing)
	}
	return routes, nil
}

// Table binds the declarations and builds a validated Table.
func (f *DeclarationFile) Table(registry ComponentRegistry) (*Table, error) {
	routes, err := f.Bind(registry)
	if err != nil {
		return nil, err
	}
	return NewTable(routes)
}

// Resolver builds a Table and wraps it in a Resolver configured from the
// file's history and base settings. Options passed in override the file.
func (f *DeclarationFile) Resolver(registry ComponentRegistry, opts ...ResolverOption) (*Resolver, error) {
	table, err := f.Table(registry)
	if err != nil {
		return nil, err
	}
	mode, err := ParseHistoryMode(f.History)
	if err != nil {
		return nil, err
	}
	base := []ResolverOption{WithHistoryMode(mode), WithBase(f.Base)}
	return NewResolver(table, append(base, opts...)...), nil
}

func bindDeclarations(decls []Declaration, registry ComponentRegistry, missing *[]string) []Route {
	if len(decls) == 0 {
		return nil
	}
	routes := make([]Route, len(decls))
	for i, d := range decls {
		routes[i] = Route{Path: d.Path, Name: d.Name}
		if d.Component != "" {
			c, ok := registry.Lookup(d.Component)
			if ok {
				routes[i].Component = c
			} else {
				*missing = append(*missing, d.Component)
			}
		}
		routes[i].Children = bindDeclarations(d.Children, registry, missing)
	}
	return routes
}

// Declare converts a table back into its file form.
func Declare(r *Resolver) *DeclarationFile {
	return &DeclarationFile{
		History: r.Mode().String(),
		Base:    r.Base(),
		Routes:  declareNodes(r.Table().roots),
	}
}

func declareNodes(nodes []*node) []Declaration {
	if len(nodes) == 0 {
		return nil
	}
	out := make([]Declaration, len(nodes))
	for i, n := range nodes {
		out[i] = Declaration{
			Path:      n.route.Path,
			Name:      n.route.Name,
			Component: n.route.Component.ComponentName(),
			Children:  declareNodes(n.children),
		}
	}
	return out
}

// Encode renders the declaration file as YAML.
func (f *DeclarationFile) Encode() ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(f); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
