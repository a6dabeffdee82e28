package middleware

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/vango-dev/store/pkg/store"
)

// Default tracer name for store spans.
const defaultTracerName = "store"

// OTelConfig configures the OpenTelemetry observer wrapper.
type OTelConfig struct {
	// TracerName is the name of the tracer (default: "store").
	TracerName string

	// TracerProvider supplies the tracer.
	// Default: the global provider from otel.GetTracerProvider().
	TracerProvider trace.TracerProvider

	// Parent is the context spans are started from (default: context.Background()).
	Parent context.Context

	// IncludeValues records the new and old values as span attributes.
	// Values may contain sensitive information - disabled by default.
	IncludeValues bool
}

// OTelOption configures the OpenTelemetry observer wrapper.
type OTelOption func(*OTelConfig)

// WithTracerName sets the tracer name.
func WithTracerName(name string) OTelOption {
	return func(c *OTelConfig) {
		c.TracerName = name
	}
}

// WithTracerProvider sets the tracer provider.
func WithTracerProvider(tp trace.TracerProvider) OTelOption {
	return func(c *OTelConfig) {
		c.TracerProvider = tp
	}
}

// WithParentContext sets the context spans are started from.
func WithParentContext(ctx context.Context) OTelOption {
	return func(c *OTelConfig) {
		c.Parent = ctx
	}
}

// WithIncludeValues enables recording values as span attributes.
func WithIncludeValues(include bool) OTelOption {
	return func(c *OTelConfig) {
		c.IncludeValues = include
	}
}

// defaultOTelConfig returns the default OpenTelemetry configuration.
func defaultOTelConfig() OTelConfig {
	return OTelConfig{
		TracerName: defaultTracerName,
	}
}

// OpenTelemetry wraps next so every call runs inside a span.
// Errors are recorded on the span and the status set accordingly. A panic in
// next marks the span as failed and is then re-raised.
func OpenTelemetry[T any](name string, next store.Observer[T], opts ...OTelOption) store.Observer[T] {
	if next == nil {
		return nil
	}

	config := defaultOTelConfig()
	for _, opt := range opts {
		opt(&config)
	}

	tp := config.TracerProvider
	if tp == nil {
		tp = otel.GetTracerProvider()
	}
	tracer := tp.Tracer(config.TracerName)

	parent := config.Parent
	if parent == nil {
		parent = context.Background()
	}
	spanName := "store.notify " + name

	return func(value, old T) error {
		attrs := []attribute.KeyValue{
			attribute.String("store.name", name),
		}
		if config.IncludeValues {
			attrs = append(attrs,
				attribute.String("store.value", fmt.Sprint(value)),
				attribute.String("store.old", fmt.Sprint(old)),
			)
		}

		_, span := tracer.Start(parent, spanName,
			trace.WithSpanKind(trace.SpanKindInternal),
			trace.WithAttributes(attrs...),
		)
		defer span.End()
		defer func() {
			if r := recover(); r != nil {
				span.RecordError(fmt.Errorf("panic: %v", r))
				span.SetStatus(codes.Error, fmt.Sprint(r))
				panic(r)
			}
		}()

		err := next(value, old)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return err
		}
		span.SetStatus(codes.Ok, "")
		return nil
	}
}
