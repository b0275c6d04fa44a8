package otel

import (
	"context"
	"sync"

	eventbus "github.com/hanpama/typegraph/internal/eventbus"
	events "github.com/hanpama/typegraph/internal/events"
	runid "github.com/hanpama/typegraph/internal/runid"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/semconv/v1.17.0"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

// Setup configures OpenTelemetry and attaches eventbus subscribers that
// turn compile events into spans. If endpoint is empty, no telemetry is
// configured.
func Setup(endpoint, service string) (func(context.Context) error, error) {
	if endpoint == "" {
		return func(context.Context) error { return nil }, nil
	}
	exp, err := otlptracegrpc.New(context.Background(),
		otlptracegrpc.WithEndpoint(endpoint),
		otlptracegrpc.WithDialOption(grpc.WithTransportCredentials(insecure.NewCredentials())))
	if err != nil {
		return nil, err
	}
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exp),
		sdktrace.WithResource(resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(service),
		)),
	)
	otel.SetTracerProvider(tp)

	sub := &subscriber{tracer: otel.Tracer("typegraph")}
	sub.register()

	return tp.Shutdown, nil
}

type subscriber struct {
	tracer trace.Tracer
	spans  sync.Map // run id -> trace.Span
}

func (s *subscriber) register() {
	eventbus.Subscribe(func(ctx context.Context, e events.CompileStart) {
		rid, _ := runid.FromContext(ctx)
		_, span := s.tracer.Start(ctx, "typegraph.compile")
		span.SetAttributes(
			attribute.String("typegraph.schema", e.SchemaName),
			attribute.Int("typegraph.documents", e.DocumentCount),
			attribute.String("graphql.operation.name", e.OperationName),
		)
		s.spans.Store(rid, span)
	})

	eventbus.Subscribe(func(ctx context.Context, e events.CompileFinish) {
		rid, _ := runid.FromContext(ctx)
		v, ok := s.spans.LoadAndDelete(rid)
		if !ok {
			return
		}
		span := v.(trace.Span)
		span.SetAttributes(
			attribute.String("graphql.operation.type", e.OperationType),
			attribute.Int("typegraph.records", e.Records),
			attribute.Int("typegraph.variants", e.Variants),
			attribute.Int("typegraph.enums", e.Enums),
		)
		if e.Err != nil {
			span.RecordError(e.Err)
		}
		span.End()
	})
}
