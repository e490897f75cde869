// Package tracing wraps native function invocations in OpenTelemetry spans.
package tracing

import (
	"context"
	"fmt"
	"io"

	"github.com/reglet-dev/nativefn/exports"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

// InstrumentationName identifies spans produced by this package.
const InstrumentationName = "github.com/reglet-dev/nativefn"

// Middleware starts one span per invocation, named "native.<function>".
// The next handler receives a CallContext carrying the span that shares the
// values set by outer middleware.
func Middleware(tracer trace.Tracer) exports.Middleware {
	return func(next exports.Invoker) exports.Invoker {
		return func(ctx context.Context, args []int32) (int32, error) {
			name, _ := exports.FunctionNameFrom(ctx)

			spanCtx, span := tracer.Start(ctx, "native."+name, trace.WithAttributes(
				attribute.String("native.function", name),
				attribute.Int("native.arg_count", len(args)),
			))
			defer span.End()

			result, err := next(exports.CallContextFrom(spanCtx, name), args)
			if err != nil {
				span.RecordError(err)
				span.SetStatus(codes.Error, err.Error())
				return result, err
			}
			span.SetAttributes(attribute.Int("native.result", int(result)))
			return result, nil
		}
	}
}

// NewProvider builds a tracer provider that writes spans to w as JSON.
// Callers must Shutdown the provider to flush pending spans.
func NewProvider(serviceName string, w io.Writer) (*sdktrace.TracerProvider, error) {
	exporter, err := stdouttrace.New(stdouttrace.WithWriter(w), stdouttrace.WithPrettyPrint())
	if err != nil {
		return nil, fmt.Errorf("failed to create stdout exporter: %w", err)
	}

	return sdktrace.NewTracerProvider(
		sdktrace.WithSyncer(exporter),
		sdktrace.WithResource(resource.NewSchemaless(
			attribute.String("service.name", serviceName),
		)),
	), nil
}
