// Package middleware instruments stocknav's navigation layer.
//
// It provides:
//   - Prometheus metrics for resolutions, live navigations and sessions
//   - OpenTelemetry spans around resolution and navigation
//   - A structured slog request logger for the HTTP server
//
// Metrics and tracing are exposed both as plain recording methods, used by
// the HTTP handlers, and as router.Guard values that wrap every navigation
// a router.Navigator commits:
//
//	metrics := middleware.NewMetrics(middleware.WithRegistry(reg))
//	tracer := middleware.NewTracer()
//
//	nav := router.NewNavigator(resolver, router.WithGuards(
//	    tracer.Guard(),
//	    metrics.Guard(),
//	))
//
// # Prometheus Metrics
//
//   - stocknav_navigations_total{route,result}: resolutions and navigations
//     by leaf route name and outcome (found, not_found, error, cancelled,
//     redirected)
//   - stocknav_resolve_duration_seconds: time spent resolving a location
//   - stocknav_live_sessions: open live navigation sessions
//   - stocknav_websocket_errors_total{type}: live session failures
//
// # Tracing
//
// Spans are named stocknav.resolve and stocknav.navigate and carry
// nav.location, nav.mode, nav.route and nav.found. The tracer comes from the
// global OpenTelemetry provider; configure it before serving:
//
//	otel.SetTracerProvider(tp)
package middleware
