// Package tracing records OpenTelemetry spans for subscription rebuilds and
// renders.
//
// The tracer comes from the global provider unless one is passed explicitly.
// Configure the provider in main() before constructing observers:
//
//	tp := sdktrace.NewTracerProvider(sdktrace.WithBatcher(exporter))
//	otel.SetTracerProvider(tp)
//
//	obs := tracing.New()
//	mgr := bind.NewManager(props, root.ForceUpdate, bind.WithObserver(obs))
package tracing

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/vango-dev/streambind/pkg/bind"
	"github.com/vango-dev/streambind/pkg/host"
)

// Default tracer name.
const defaultTracerName = "streambind"

// Attribute keys.
const (
	AttrStreams    = attribute.Key("streambind.streams")
	AttrSubscribed = attribute.Key("streambind.subscribed")
	AttrReleased   = attribute.Key("streambind.released")
	AttrRendered   = attribute.Key("streambind.rendered")
	AttrReason     = attribute.Key("streambind.reason")
	AttrComponent  = attribute.Key("streambind.component")
)

// Option configures an Observer.
type Option func(*Observer)

// WithTracer sets the tracer explicitly.
func WithTracer(t trace.Tracer) Option {
	return func(o *Observer) {
		o.tracer = t
	}
}

// WithTracerName resolves the tracer from the global provider by name.
func WithTracerName(name string) Option {
	return func(o *Observer) {
		o.tracer = otel.Tracer(name)
	}
}

// WithContext sets the parent context for recorded spans.
func WithContext(ctx context.Context) Option {
	return func(o *Observer) {
		o.ctx = ctx
	}
}

// WithComponent labels every span with a component name.
func WithComponent(name string) Option {
	return func(o *Observer) {
		o.component = name
	}
}

// Observer records one span per lifecycle event. It implements
// bind.Observer and host.RenderObserver.
type Observer struct {
	tracer    trace.Tracer
	ctx       context.Context
	component string
}

var (
	_ bind.Observer       = (*Observer)(nil)
	_ host.RenderObserver = (*Observer)(nil)
)

// New creates an Observer.
func New(opts ...Option) *Observer {
	o := &Observer{
		tracer: otel.Tracer(defaultTracerName),
		ctx:    context.Background(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

func (o *Observer) record(name string, start time.Time, attrs ...attribute.KeyValue) {
	if o.component != "" {
		attrs = append(attrs, AttrComponent.String(o.component))
	}
	_, span := o.tracer.Start(o.ctx, name,
		trace.WithTimestamp(start),
		trace.WithAttributes(attrs...),
	)
	span.End()
}

// Rebuilt implements bind.Observer.
func (o *Observer) Rebuilt(streams int, subscribed bool) {
	o.record("streambind.rebuild", time.Now(),
		AttrStreams.Int(streams),
		AttrSubscribed.Bool(subscribed),
	)
}

// Terminated implements bind.Observer.
func (o *Observer) Terminated(hadHandle bool) {
	if !hadHandle {
		return
	}
	o.record("streambind.terminate", time.Now(), AttrReleased.Bool(true))
}

// Updated implements bind.Observer.
func (o *Observer) Updated(rendered bool) {
	o.record("streambind.update", time.Now(), AttrRendered.Bool(rendered))
}

// Rendered implements host.RenderObserver. The span covers the render.
func (o *Observer) Rendered(reason host.Reason, d time.Duration) {
	o.record("streambind.render", time.Now().Add(-d), AttrReason.String(string(reason)))
}
