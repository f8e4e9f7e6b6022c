package middleware

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"go.opentelemetry.io/otel/attribute"

	"github.com/vango-dev/stocknav/pkg/router"
)

// =============================================================================
// Test Helpers
// =============================================================================

func testResolver(t *testing.T) *router.Resolver {
	t.Helper()
	table, err := router.NewTable([]router.Route{
		{Path: "/", Name: "SearchForm", Component: router.View("SearchForm")},
		{
			Path:      "/stock/:stockcode",
			Name:      "StockInfo",
			Component: router.View("StockInfo"),
			Children: []router.Route{
				{Path: "currentStock", Name: "CurrentStock", Component: router.View("CurrentStock")},
			},
		},
		{Path: "/login", Name: "Login", Component: router.View("Login")},
	})
	if err != nil {
		t.Fatalf("NewTable() error: %v", err)
	}
	return router.NewResolver(table)
}

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var m dto.Metric
	if err := c.Write(&m); err != nil {
		t.Fatalf("counter Write() error: %v", err)
	}
	return m.GetCounter().GetValue()
}

func gaugeValue(t *testing.T, g prometheus.Gauge) float64 {
	t.Helper()
	var m dto.Metric
	if err := g.Write(&m); err != nil {
		t.Fatalf("gauge Write() error: %v", err)
	}
	return m.GetGauge().GetValue()
}

func histogramCount(t *testing.T, h prometheus.Histogram) uint64 {
	t.Helper()
	var m dto.Metric
	if err := h.Write(&m); err != nil {
		t.Fatalf("histogram Write() error: %v", err)
	}
	return m.GetHistogram().GetSampleCount()
}

// =============================================================================
// Metrics
// =============================================================================

func TestMetricsConfig(t *testing.T) {
	config := defaultMetricsConfig()
	if config.Namespace != "stocknav" {
		t.Errorf("Namespace = %q, want stocknav", config.Namespace)
	}

	reg := prometheus.NewRegistry()
	WithNamespace("app")(&config)
	WithSubsystem("nav")(&config)
	WithBuckets([]float64{0.1})(&config)
	WithConstLabels(prometheus.Labels{"env": "test"})(&config)
	WithRegistry(reg)(&config)

	if config.Namespace != "app" || config.Subsystem != "nav" {
		t.Errorf("config = %+v", config)
	}
	if len(config.Buckets) != 1 || config.ConstLabels["env"] != "test" || config.Registry != reg {
		t.Errorf("config = %+v", config)
	}
}

func TestMetrics_ObserveResolution(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(WithRegistry(reg))
	r := testResolver(t)

	found, err := r.ResolvePath("/stock/AAPL/currentStock")
	if err != nil {
		t.Fatal(err)
	}
	m.ObserveResolution(found, nil, time.Millisecond)

	missing, err := r.ResolvePath("/nowhere")
	if err != nil {
		t.Fatal(err)
	}
	m.ObserveResolution(missing, nil, time.Millisecond)
	m.ObserveResolution(nil, errors.New("malformed"), time.Millisecond)

	if got := counterValue(t, m.navigations.WithLabelValues("CurrentStock", ResultFound)); got != 1 {
		t.Errorf("navigations(CurrentStock, found) = %v, want 1", got)
	}
	if got := counterValue(t, m.navigations.WithLabelValues("none", ResultNotFound)); got != 1 {
		t.Errorf("navigations(none, not_found) = %v, want 1", got)
	}
	if got := counterValue(t, m.navigations.WithLabelValues("none", ResultError)); got != 1 {
		t.Errorf("navigations(none, error) = %v, want 1", got)
	}
	if got := histogramCount(t, m.resolveDuration); got != 3 {
		t.Errorf("resolve_duration count = %d, want 3", got)
	}

	families, err := reg.Gather()
	if err != nil {
		t.Fatal(err)
	}
	names := map[string]bool{}
	for _, f := range families {
		names[f.GetName()] = true
	}
	for _, want := range []string{"stocknav_navigations_total", "stocknav_resolve_duration_seconds"} {
		if !names[want] {
			t.Errorf("registry missing %s (have %v)", want, names)
		}
	}
}

func TestMetrics_Sessions(t *testing.T) {
	m := NewMetrics(WithRegistry(prometheus.NewRegistry()))

	m.SessionOpened()
	m.SessionOpened()
	m.SessionClosed()
	if got := gaugeValue(t, m.liveSessions); got != 1 {
		t.Errorf("live_sessions = %v, want 1", got)
	}

	m.RecordWebSocketError("decode")
	if got := counterValue(t, m.wsErrors.WithLabelValues("decode")); got != 1 {
		t.Errorf("websocket_errors(decode) = %v, want 1", got)
	}
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	m.ObserveResolution(nil, nil, time.Second)
	m.SessionOpened()
	m.SessionClosed()
	m.RecordWebSocketError("x")

	nav := router.NewNavigator(testResolver(t), router.WithGuards(m.Guard()))
	if _, err := nav.Navigate(context.Background(), "/"); err != nil {
		t.Fatalf("Navigate() error: %v", err)
	}
}

func TestMetrics_Guard(t *testing.T) {
	m := NewMetrics(WithRegistry(prometheus.NewRegistry()))
	block := router.GuardFunc(func(ctx context.Context, nav *router.Navigation, next func() error) error {
		if nav.To.Path == "/login" {
			return router.ErrNavigationCancelled
		}
		return next()
	})
	nav := router.NewNavigator(testResolver(t), router.WithGuards(m.Guard(), block))
	ctx := context.Background()

	if _, err := nav.Navigate(ctx, "/stock/AAPL/currentStock"); err != nil {
		t.Fatal(err)
	}
	if _, err := nav.Navigate(ctx, "/missing"); err != nil {
		t.Fatal(err)
	}
	if _, err := nav.Navigate(ctx, "/login"); !errors.Is(err, router.ErrNavigationCancelled) {
		t.Fatalf("Navigate(/login) error = %v, want cancelled", err)
	}

	tests := []struct {
		route, result string
		want          float64
	}{
		{"CurrentStock", ResultFound, 1},
		{"none", ResultNotFound, 1},
		{"Login", ResultCancelled, 1},
	}
	for _, tt := range tests {
		if got := counterValue(t, m.navigations.WithLabelValues(tt.route, tt.result)); got != tt.want {
			t.Errorf("navigations(%s, %s) = %v, want %v", tt.route, tt.result, got, tt.want)
		}
	}
}

func TestMetrics_GuardCountsRedirects(t *testing.T) {
	m := NewMetrics(WithRegistry(prometheus.NewRegistry()))
	redirect := router.GuardFunc(func(ctx context.Context, nav *router.Navigation, next func() error) error {
		if nav.To.Path == "/" {
			return router.Redirect("/login")
		}
		return next()
	})
	nav := router.NewNavigator(testResolver(t), router.WithGuards(m.Guard(), redirect))

	got, err := nav.Navigate(context.Background(), "/")
	if err != nil {
		t.Fatalf("Navigate() error: %v", err)
	}
	if got.To.Path != "/login" {
		t.Errorf("To.Path = %q, want /login", got.To.Path)
	}
	if v := counterValue(t, m.navigations.WithLabelValues("SearchForm", ResultRedirected)); v != 1 {
		t.Errorf("navigations(SearchForm, redirected) = %v, want 1", v)
	}
	if v := counterValue(t, m.navigations.WithLabelValues("Login", ResultFound)); v != 1 {
		t.Errorf("navigations(Login, found) = %v, want 1", v)
	}
}

func TestResolutionLabels(t *testing.T) {
	r := testResolver(t)
	res, _ := r.ResolvePath("/stock/2330")

	if got := RouteLabel(res); got != "StockInfo" {
		t.Errorf("RouteLabel() = %q, want StockInfo", got)
	}
	if got := RouteLabel(nil); got != "none" {
		t.Errorf("RouteLabel(nil) = %q, want none", got)
	}
	if got := ResolutionResult(res, nil); got != ResultFound {
		t.Errorf("ResolutionResult() = %q, want found", got)
	}
}

// =============================================================================
// Tracing
// =============================================================================

func TestTracingConfig(t *testing.T) {
	config := defaultTracingConfig()
	if config.TracerName != defaultTracerName {
		t.Errorf("TracerName = %q, want %q", config.TracerName, defaultTracerName)
	}

	WithTracerName("my-app")(&config)
	WithNavigationFilter(func(*router.Navigation) bool { return false })(&config)
	WithAttributeExtractor(func(*router.Navigation) []attribute.KeyValue { return nil })(&config)
	if config.TracerName != "my-app" || config.Filter == nil || config.AttributeExtractor == nil {
		t.Errorf("config = %+v", config)
	}
}

func TestTracer_Resolve(t *testing.T) {
	tracer := NewTracer()
	r := testResolver(t)

	ctx, span := tracer.StartResolve(context.Background(), "/#/stock/AAPL", r.Mode())
	if ctx == nil || span == nil {
		t.Fatal("StartResolve should return a context and span")
	}
	res, err := r.Resolve("/#/stock/AAPL")
	EndResolve(span, res, err)
}

func TestTracer_GuardPassesThrough(t *testing.T) {
	extracted := false
	tracer := NewTracer(WithAttributeExtractor(func(nav *router.Navigation) []attribute.KeyValue {
		extracted = true
		return []attribute.KeyValue{attribute.String("test.attr", "ok")}
	}))

	wantErr := errors.New("boom")
	fail := router.GuardFunc(func(ctx context.Context, nav *router.Navigation, next func() error) error {
		if nav.To.Path == "/login" {
			return wantErr
		}
		return next()
	})
	nav := router.NewNavigator(testResolver(t), router.WithGuards(tracer.Guard(), fail))

	if _, err := nav.Navigate(context.Background(), "/stock/AAPL"); err != nil {
		t.Fatalf("Navigate() error: %v", err)
	}
	if !extracted {
		t.Error("attribute extractor should run for traced navigations")
	}
	if _, err := nav.Navigate(context.Background(), "/login"); !errors.Is(err, wantErr) {
		t.Fatalf("Navigate() error = %v, want %v", err, wantErr)
	}
}

func TestTracer_FilterSkipsTracing(t *testing.T) {
	extracted := false
	tracer := NewTracer(
		WithNavigationFilter(func(nav *router.Navigation) bool { return nav.To.Path != "/" }),
		WithAttributeExtractor(func(*router.Navigation) []attribute.KeyValue {
			extracted = true
			return nil
		}),
	)
	nav := router.NewNavigator(testResolver(t), router.WithGuards(tracer.Guard()))

	if _, err := nav.Navigate(context.Background(), "/"); err != nil {
		t.Fatal(err)
	}
	if extracted {
		t.Error("filtered navigation should not be traced")
	}
}

// =============================================================================
// Request logger
// =============================================================================

func TestLogger_LogsRequest(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	wrapped := chimw.RequestID(Logger(logger)(handler))

	req := httptest.NewRequest(http.MethodGet, "/_nav/resolve?location=/x", nil)
	w := httptest.NewRecorder()
	wrapped.ServeHTTP(w, req)

	out := buf.String()
	for _, want := range []string{"msg=request", "method=GET", "/_nav/resolve", "status=404", "duration=", "request_id="} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %q: %s", want, out)
		}
	}
}

func TestLogger_ServerErrorsAtErrorLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})
	Logger(logger)(handler).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	if !strings.Contains(buf.String(), "level=ERROR") {
		t.Errorf("log output = %s, want ERROR level", buf.String())
	}
}

func TestLogger_DefaultStatus(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	called := false
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.Write([]byte("ok"))
	})
	Logger(logger)(handler).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	if !called {
		t.Fatal("next handler should be called")
	}
	if !strings.Contains(buf.String(), "status=200") {
		t.Errorf("log output = %s, want status=200", buf.String())
	}
}
