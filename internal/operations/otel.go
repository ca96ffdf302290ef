package operations

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/saucynandhu/femicideKEanalysis/internal/infrastructure"
)

// StepTracer provides OpenTelemetry instrumentation for runs and steps
type StepTracer struct {
	tracer trace.Tracer
}

// NewStepTracer wraps tracer. A nil tracer falls back to the global provider.
func NewStepTracer(tracer trace.Tracer) *StepTracer {
	if tracer == nil {
		tracer = otel.Tracer(infrastructure.TracerName)
	}
	return &StepTracer{tracer: tracer}
}

// TraceRun creates a span for the entire run
func (st *StepTracer) TraceRun(ctx context.Context, runID string, stepCount int) (context.Context, trace.Span) {
	return st.tracer.Start(ctx, "run.execute",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("run.id", runID),
			attribute.Int("run.step_count", stepCount),
		),
	)
}

// TraceStep creates a span for one step
func (st *StepTracer) TraceStep(ctx context.Context, runID string, step Step) (context.Context, trace.Span) {
	spanName := fmt.Sprintf("run.step.%s", step.ID())
	return st.tracer.Start(ctx, spanName,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("run.id", runID),
			attribute.String("step.id", step.ID()),
			attribute.String("step.name", step.Name()),
			attribute.StringSlice("step.required_columns", step.RequiredColumns()),
		),
	)
}

// RecordStepResult closes out a step span with its final status
func (st *StepTracer) RecordStepResult(span trace.Span, status StepStatus, duration time.Duration, reason string, err error) {
	span.SetAttributes(
		attribute.String("step.status", string(status)),
		attribute.Float64("step.duration_seconds", duration.Seconds()),
	)

	switch status {
	case StepStatusFailed:
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		} else {
			span.SetStatus(codes.Error, "step failed")
		}
	case StepStatusSkipped:
		span.AddEvent("step.skipped", trace.WithAttributes(attribute.String("reason", reason)))
		span.SetStatus(codes.Ok, "")
	default:
		span.SetStatus(codes.Ok, "")
	}
}

// RecordRunResult closes out the run span
func (st *StepTracer) RecordRunResult(span trace.Span, status RunStatus, duration time.Duration, err error) {
	span.SetAttributes(
		attribute.String("run.status", string(status)),
		attribute.Float64("run.duration_seconds", duration.Seconds()),
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return
	}
	span.SetStatus(codes.Ok, "")
}
