package middleware

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/vango-dev/stocknav/pkg/router"
)

// Default tracer name for stocknav.
const defaultTracerName = "stocknav"

// Span names.
const (
	SpanResolve  = "stocknav.resolve"
	SpanNavigate = "stocknav.navigate"
)

// Span attribute keys.
const (
	AttrLocation = attribute.Key("nav.location")
	AttrMode     = attribute.Key("nav.mode")
	AttrRoute    = attribute.Key("nav.route")
	AttrFound    = attribute.Key("nav.found")
	AttrKind     = attribute.Key("nav.kind")
	AttrID       = attribute.Key("nav.id")
)

// TracingConfig configures the OpenTelemetry instrumentation.
type TracingConfig struct {
	// TracerName is the name of the tracer (default: "stocknav").
	TracerName string

	// Filter determines which navigations to trace.
	// If nil, all navigations are traced.
	Filter func(nav *router.Navigation) bool

	// AttributeExtractor adds custom attributes to navigation spans.
	AttributeExtractor func(nav *router.Navigation) []attribute.KeyValue
}

// TracingOption configures the OpenTelemetry instrumentation.
type TracingOption func(*TracingConfig)

// WithTracerName sets the tracer name.
func WithTracerName(name string) TracingOption {
	return func(c *TracingConfig) {
		c.TracerName = name
	}
}

// WithNavigationFilter sets a filter function for navigations.
func WithNavigationFilter(filter func(nav *router.Navigation) bool) TracingOption {
	return func(c *TracingConfig) {
		c.Filter = filter
	}
}

// WithAttributeExtractor sets a custom attribute extractor.
func WithAttributeExtractor(extractor func(nav *router.Navigation) []attribute.KeyValue) TracingOption {
	return func(c *TracingConfig) {
		c.AttributeExtractor = extractor
	}
}

func defaultTracingConfig() TracingConfig {
	return TracingConfig{
		TracerName: defaultTracerName,
	}
}

// Tracer creates navigation spans from the global tracer provider.
type Tracer struct {
	config TracingConfig
	tracer trace.Tracer
}

// NewTracer resolves a tracer from the global provider.
func NewTracer(opts ...TracingOption) *Tracer {
	config := defaultTracingConfig()
	for _, opt := range opts {
		opt(&config)
	}
	return &Tracer{
		config: config,
		tracer: otel.Tracer(config.TracerName),
	}
}

// StartResolve starts a stocknav.resolve span. Finish it with EndResolve.
func (t *Tracer) StartResolve(ctx context.Context, location string, mode router.HistoryMode) (context.Context, trace.Span) {
	return t.tracer.Start(ctx, SpanResolve,
		trace.WithSpanKind(trace.SpanKindServer),
		trace.WithAttributes(
			AttrLocation.String(location),
			AttrMode.String(mode.String()),
		),
	)
}

// EndResolve records the outcome on span and ends it.
func EndResolve(span trace.Span, res *router.Resolution, err error) {
	defer span.End()
	recordOutcome(span, res, err)
}

// Guard returns a navigation guard wrapping the rest of the chain in a
// stocknav.navigate span.
func (t *Tracer) Guard() router.Guard {
	return router.GuardFunc(func(ctx context.Context, nav *router.Navigation, next func() error) error {
		if t.config.Filter != nil && !t.config.Filter(nav) {
			return next()
		}

		attrs := []attribute.KeyValue{
			AttrID.String(nav.ID.String()),
			AttrKind.String(string(nav.Kind)),
		}
		if nav.To != nil {
			attrs = append(attrs, AttrLocation.String(nav.To.Location))
		}
		if t.config.AttributeExtractor != nil {
			attrs = append(attrs, t.config.AttributeExtractor(nav)...)
		}

		_, span := t.tracer.Start(ctx, SpanNavigate,
			trace.WithSpanKind(trace.SpanKindInternal),
			trace.WithAttributes(attrs...),
		)
		defer span.End()

		err := next()
		var redirect *router.RedirectError
		if errors.As(err, &redirect) {
			span.SetAttributes(attribute.String("nav.redirect", redirect.Path))
			recordOutcome(span, nav.To, nil)
			return err
		}
		recordOutcome(span, nav.To, err)
		return err
	})
}

func recordOutcome(span trace.Span, res *router.Resolution, err error) {
	span.SetAttributes(
		AttrRoute.String(RouteLabel(res)),
		AttrFound.Bool(err == nil && res != nil && res.Found()),
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return
	}
	span.SetStatus(codes.Ok, "")
}
