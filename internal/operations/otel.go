package operations

import (
	"context"
	"fmt"
	"time"

	"attendcli/internal/infrastructure"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const (
	TracerName = "attendcli.pipeline"
)

// PipelineTracer provides OpenTelemetry instrumentation for pipeline runs
type PipelineTracer struct {
	tracer          trace.Tracer
	businessMetrics *infrastructure.BusinessMetrics
}

// NewPipelineTracer creates a pipeline tracer backed by the given providers
func NewPipelineTracer(providers *infrastructure.OTelProviders) (*PipelineTracer, error) {
	businessMetrics, err := infrastructure.CreateBusinessMetrics(providers.Meter)
	if err != nil {
		return nil, fmt.Errorf("failed to create business metrics: %w", err)
	}

	return &PipelineTracer{
		tracer:          otel.Tracer(TracerName),
		businessMetrics: businessMetrics,
	}, nil
}

// NewNoopPipelineTracer creates a tracer that records nothing. The CLI
// uses this when telemetry is not configured; the global tracer is a
// no-op until a provider is installed.
func NewNoopPipelineTracer() *PipelineTracer {
	return &PipelineTracer{
		tracer: otel.Tracer(TracerName),
	}
}

// Metrics exposes the tracer's business metrics, nil for a no-op tracer
func (pt *PipelineTracer) Metrics() *infrastructure.BusinessMetrics {
	return pt.businessMetrics
}

// TraceRun creates the span covering one whole pipeline run
func (pt *PipelineTracer) TraceRun(ctx context.Context, runID string, inputRows int) (context.Context, trace.Span) {
	ctx, span := pt.tracer.Start(ctx, "pipeline.run",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("run.id", runID),
			attribute.Int("run.input_rows", inputRows),
		),
	)

	if pt.businessMetrics != nil {
		pt.businessMetrics.PipelineRunsTotal.Add(ctx, 1,
			metric.WithAttributes(attribute.String("run.id", runID)),
		)
	}

	return ctx, span
}

// TraceStage creates a span for one stage execution
func (pt *PipelineTracer) TraceStage(ctx context.Context, runID, stageID string) (context.Context, trace.Span) {
	spanName := fmt.Sprintf("pipeline.stage.%s", stageID)
	ctx, span := pt.tracer.Start(ctx, spanName,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("run.id", runID),
			attribute.String("stage.id", stageID),
		),
	)

	return ctx, span
}

// RecordRunCompletion records run completion on the span and metrics
func (pt *PipelineTracer) RecordRunCompletion(ctx context.Context, span trace.Span, runID string, duration time.Duration, status RunStatus, counters RunCounters) {
	span.SetAttributes(
		attribute.String("run.status", string(status)),
		attribute.Float64("run.duration_seconds", duration.Seconds()),
		attribute.Int("run.punches_parsed", counters.PunchesParsed),
		attribute.Int("run.punches_dropped", counters.PunchesDropped),
		attribute.Int("run.records", counters.Records),
	)

	if pt.businessMetrics != nil {
		statusLabel := "success"
		if status == StatusFailed {
			statusLabel = "failure"
		}
		pt.businessMetrics.PipelineRunDuration.Record(ctx, duration.Seconds(),
			metric.WithAttributes(attribute.String("status", statusLabel)),
		)
		if counters.PunchesParsed > 0 {
			pt.businessMetrics.PunchesParsedTotal.Add(ctx, int64(counters.PunchesParsed))
		}
		if counters.PunchesDropped > 0 {
			pt.businessMetrics.PunchesDroppedTotal.Add(ctx, int64(counters.PunchesDropped))
		}
		if counters.Records > 0 {
			pt.businessMetrics.RecordsProducedTotal.Add(ctx, int64(counters.Records))
		}
	}

	if status == StatusDone {
		span.SetStatus(codes.Ok, "run completed")
	} else {
		span.SetStatus(codes.Error, fmt.Sprintf("run finished with status: %s", status))
	}
}

// RecordStageCompletion records stage completion on the span and metrics
func (pt *PipelineTracer) RecordStageCompletion(ctx context.Context, span trace.Span, runID, stageID string, duration time.Duration, success bool) {
	status := "success"
	if !success {
		status = "failure"
	}

	span.SetAttributes(
		attribute.String("stage.status", status),
		attribute.Float64("stage.duration_seconds", duration.Seconds()),
	)

	if pt.businessMetrics != nil {
		infrastructure.RecordPipelineStageMetrics(ctx, pt.businessMetrics, runID, stageID, duration, success)
	}

	if success {
		span.SetStatus(codes.Ok, "stage completed")
	} else {
		span.SetStatus(codes.Error, "stage execution failed")
	}
}

// RecordRunError records a run failure on the active span and metrics
func (pt *PipelineTracer) RecordRunError(ctx context.Context, runID string, err error) {
	infrastructure.RecordError(ctx, err)

	if pt.businessMetrics != nil {
		pt.businessMetrics.PipelineErrors.Add(ctx, 1,
			metric.WithAttributes(
				attribute.String("run.id", runID),
				attribute.String("error.type", fmt.Sprintf("%T", err)),
			),
		)
	}
}
