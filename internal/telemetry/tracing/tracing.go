package tracing

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var GlobalTracer = otel.Tracer("ascend-backend")

// EndSpanWithErrCheck ends the span, recording the error on it if set.
// Meant to be used with a named error return:
//
//	func (r *Repo) Get(ctx context.Context, id string) (_ *Track, err error) {
//	    ctx, span := tracing.GlobalTracer.Start(ctx, "repo.progression.get")
//	    defer func() { tracing.EndSpanWithErrCheck(span, err) }()
//	    ...
func EndSpanWithErrCheck(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
