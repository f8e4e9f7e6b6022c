package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	naverrors "github.com/vango-dev/stocknav/internal/errors"
	"github.com/vango-dev/stocknav/pkg/middleware"
	"github.com/vango-dev/stocknav/pkg/router"
)

// MatchView is the JSON form of a nested match.
type MatchView struct {
	Route     string     `json:"route"`
	Component string     `json:"component,omitempty"`
	Child     *MatchView `json:"child,omitempty"`
	Unmatched string     `json:"unmatched,omitempty"`
}

// ResolutionView is the JSON form of a resolution.
type ResolutionView struct {
	Location  string        `json:"location"`
	Path      string        `json:"path,omitempty"`
	Query     string        `json:"query,omitempty"`
	Found     bool          `json:"found"`
	Route     string        `json:"route,omitempty"`
	Component string        `json:"component,omitempty"`
	Params    router.Params `json:"params,omitempty"`
	Child     *MatchView    `json:"child,omitempty"`
	Unmatched string        `json:"unmatched,omitempty"`
	Href      string        `json:"href,omitempty"`
}

// ErrorView is the JSON body of a failed request.
type ErrorView struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// RoutesView is the JSON body of /_nav/routes.
type RoutesView struct {
	Mode   string         `json:"mode"`
	Base   string         `json:"base"`
	Routes []router.Entry `json:"routes"`
}

// NewResolutionView converts res for the wire. Href is rendered through
// resolver when res matched.
func NewResolutionView(res *router.Resolution, resolver *router.Resolver) *ResolutionView {
	if res == nil {
		return nil
	}
	v := &ResolutionView{
		Location: res.Location,
		Path:     res.Path,
		Query:    res.Query,
		Found:    res.Found(),
	}
	if !v.Found {
		return v
	}
	m := res.Match
	v.Route = m.Name()
	v.Component = componentName(m.Route)
	v.Params = m.Leaf().Params
	v.Child = newMatchView(m.Child)
	v.Unmatched = m.Unmatched
	if resolver != nil {
		v.Href = resolver.HrefForPath(res.Path)
	}
	return v
}

func newMatchView(m *router.Match) *MatchView {
	if m == nil {
		return nil
	}
	return &MatchView{
		Route:     m.Name(),
		Component: componentName(m.Route),
		Child:     newMatchView(m.Child),
		Unmatched: m.Unmatched,
	}
}

func componentName(r *router.Route) string {
	if r == nil || r.Component == nil {
		return ""
	}
	return r.Component.ComponentName()
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok\n"))
}

func (s *Server) handleResolve(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	location := q.Get("location")
	if location == "" {
		location = q.Get("path")
	}
	if location == "" {
		writeJSON(w, http.StatusBadRequest, ErrorView{Error: "missing location parameter", Code: "E301"})
		return
	}

	res, err := s.resolve(r.Context(), location)
	if err != nil {
		s.writeError(w, err)
		return
	}

	status := http.StatusOK
	if !res.Found() {
		status = http.StatusNotFound
	}
	writeJSON(w, status, NewResolutionView(res, s.resolver))
}

func (s *Server) handleRoutes(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, RoutesView{
		Mode:   s.resolver.Mode().String(),
		Base:   s.resolver.Base(),
		Routes: s.resolver.Table().Routes(),
	})
}

// handleApp serves static files and the app shell. In path mode only
// locations a route matches get the shell; in hash mode the shell lives at
// the base path alone and the fragment does the routing.
func (s *Server) handleApp(w http.ResponseWriter, r *http.Request) {
	base := s.resolver.Base()
	if rel, ok := staticRelPath(r.URL.Path, base); ok && s.shell.serveStatic(w, r, rel) {
		return
	}

	if s.resolver.Mode() == router.HistoryPath {
		res, err := s.resolve(r.Context(), r.URL.RequestURI())
		if err != nil {
			s.writeError(w, err)
			return
		}
		if !res.Found() {
			http.NotFound(w, r)
			return
		}
		s.shell.serve(w, r)
		return
	}

	if r.URL.Path == base || r.URL.Path == base+"/" {
		s.shell.serve(w, r)
		return
	}
	http.NotFound(w, r)
}

// resolve resolves location under a stocknav.resolve span and records it.
func (s *Server) resolve(ctx context.Context, location string) (*router.Resolution, error) {
	_, span := s.tracer.StartResolve(ctx, location, s.resolver.Mode())
	start := time.Now()
	res, err := s.resolver.Resolve(location)
	s.metrics.ObserveResolution(res, err, time.Since(start))
	middleware.EndResolve(span, res, err)
	return res, err
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	coded := naverrors.FromRouteError(err, "E301")
	status := http.StatusInternalServerError
	if naverrors.IsMalformedLocation(err) {
		status = http.StatusBadRequest
	} else {
		s.logger.Error("resolve failed", "error", err)
	}
	writeJSON(w, status, ErrorView{Error: err.Error(), Code: coded.Code})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
