package workflow

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/nymkash-gerel/temuulel-app-sub004/pkg/workflow"

// startSpan opens a span on the global tracer provider. It is a no-op until
// the process installs a real provider. The caller must end the span.
func startSpan(ctx context.Context, name string, kind Kind, tenantID, entityID string) (context.Context, trace.Span) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, name)
	span.SetAttributes(
		attribute.String("workflow.kind", string(kind)),
		attribute.String("workflow.store_id", tenantID),
		attribute.String("workflow.entity_id", entityID),
	)
	return ctx, span
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, Code(err))
	}
	span.End()
}
