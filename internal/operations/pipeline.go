package operations

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/trace"

	"attendcli/internal/dataprocessing"
	apperrors "attendcli/internal/errors"
	"attendcli/pkg/contracts/domain"
)

// Pipeline executes the attendance conversion stages over one merged
// punch table. A Pipeline is stateless between runs and safe for
// concurrent use.
type Pipeline struct {
	logger     *slog.Logger
	tracer     *PipelineTracer
	aggregator *dataprocessing.Aggregator
	summarizer *dataprocessing.Summarizer
}

// NewPipeline creates a pipeline with the given collaborators. A nil
// tracer falls back to a no-op tracer.
func NewPipeline(logger *slog.Logger, tracer *PipelineTracer, aggregator *dataprocessing.Aggregator, summarizer *dataprocessing.Summarizer) *Pipeline {
	if tracer == nil {
		tracer = NewNoopPipelineTracer()
	}
	return &Pipeline{
		logger:     logger.With(slog.String("component", "pipeline")),
		tracer:     tracer,
		aggregator: aggregator,
		summarizer: summarizer,
	}
}

// Run converts a loaded punch table into the sorted attendance result.
// The returned error is apperrors.MissingColumnError when a required
// column cannot be resolved and apperrors.EmptyResultError when no
// employee-day produced a record.
func (p *Pipeline) Run(ctx context.Context, table domain.PunchTable) (*RunResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	state := NewRunState()
	logger := p.logger.With(slog.String("run_id", state.ID))

	ctx, runSpan := p.tracer.TraceRun(ctx, state.ID, len(table.Rows))
	defer runSpan.End()

	counters := RunCounters{InputRows: len(table.Rows)}
	state.SetCounters(counters)

	logger.InfoContext(ctx, "pipeline run started",
		slog.Int("input_rows", len(table.Rows)),
		slog.Int("columns", len(table.Headers)))

	// Stage: resolve columns. Failure here is the first of the two
	// fatal edges.
	var mapping dataprocessing.ColumnMapping
	err := p.stage(ctx, state, StageIDResolveColumns, func(ctx context.Context) error {
		var err error
		mapping, err = dataprocessing.ResolveColumns(table.Headers)
		return err
	})
	if err != nil {
		return nil, p.failRun(ctx, runSpan, state, logger, err)
	}
	if err := state.Advance(StatusColumnsResolved); err != nil {
		return nil, err
	}

	// Stage: parse punches. Unparseable rows are dropped and counted,
	// never fatal.
	var punches []domain.NormalizedPunch
	_ = p.stage(ctx, state, StageIDParsePunches, func(ctx context.Context) error {
		raws := dataprocessing.BuildRawPunches(mapping, table.Rows)
		var dropped int
		punches, dropped = dataprocessing.ParsePunches(logger, raws)
		counters.PunchesParsed = len(punches)
		counters.PunchesDropped = dropped
		state.SetCounters(counters)
		return nil
	})
	if err := state.Advance(StatusPunchesParsed); err != nil {
		return nil, err
	}

	// Stage: group by employee-day.
	var groups []dataprocessing.PunchGroup
	_ = p.stage(ctx, state, StageIDGroup, func(ctx context.Context) error {
		groups = p.aggregator.Group(punches)
		counters.Groups = len(groups)
		state.SetCounters(counters)
		return nil
	})
	if err := state.Advance(StatusGrouped); err != nil {
		return nil, err
	}

	// Stage: derive one record per group.
	var records []domain.DailyRecord
	_ = p.stage(ctx, state, StageIDAggregate, func(ctx context.Context) error {
		records = p.aggregator.BuildRecords(groups)
		counters.Records = len(records)
		state.SetCounters(counters)
		return nil
	})
	if err := state.Advance(StatusAggregated); err != nil {
		return nil, err
	}

	// Second fatal edge: a run that aggregated nothing has no output.
	if len(records) == 0 {
		return nil, p.failRun(ctx, runSpan, state, logger, &apperrors.EmptyResultError{})
	}

	// Stage: sort for presentation.
	_ = p.stage(ctx, state, StageIDSort, func(ctx context.Context) error {
		dataprocessing.SortRecords(records)
		return nil
	})
	if err := state.Advance(StatusSorted); err != nil {
		return nil, err
	}

	result := &RunResult{
		RunID: state.ID,
		Table: domain.ResultTable{Records: records},
		State: state,
	}
	result.Summary = p.summarizer.Summarize(&result.Table)

	if err := state.Advance(StatusDone); err != nil {
		return nil, err
	}

	p.tracer.RecordRunCompletion(ctx, runSpan, state.ID, state.Duration(), StatusDone, counters)
	logger.InfoContext(ctx, "pipeline run completed",
		slog.Int("records", len(records)),
		slog.Int("punches_dropped", counters.PunchesDropped),
		slog.Duration("duration", state.Duration()))

	return result, nil
}

// stage runs one stage under its own span and records its outcome.
func (p *Pipeline) stage(ctx context.Context, state *RunState, stageID string, fn func(context.Context) error) error {
	stageCtx, span := p.tracer.TraceStage(ctx, state.ID, stageID)
	defer span.End()

	start := time.Now()
	err := fn(stageCtx)
	p.tracer.RecordStageCompletion(stageCtx, span, state.ID, stageID, time.Since(start), err == nil)
	return err
}

// failRun marks the run failed and records the cause on the run span.
func (p *Pipeline) failRun(ctx context.Context, runSpan trace.Span, state *RunState, logger *slog.Logger, cause error) error {
	if err := state.Fail(cause); err != nil {
		return err
	}

	p.tracer.RecordRunError(ctx, state.ID, cause)
	p.tracer.RecordRunCompletion(ctx, runSpan, state.ID, state.Duration(), StatusFailed, state.GetCounters())
	logger.ErrorContext(ctx, "pipeline run failed",
		slog.String("error", cause.Error()))

	return cause
}
