package services

import (
	"context"
	"fmt"
	"log/slog"

	"attendcli/internal/config"
	"attendcli/internal/dataprocessing"
	"attendcli/internal/loader"
	"attendcli/internal/operations"
	"attendcli/pkg/contracts/domain"
)

// ProcessOptions carries per-request overrides for one processing run.
// Nil fields fall back to the configured defaults, so a request that
// sends no config part runs with the server configuration unchanged.
type ProcessOptions struct {
	DefaultStart     *domain.StartTime           `json:"default_start,omitempty"`
	Employees        map[string]domain.StartTime `json:"employees,omitempty" validate:"dive"`
	BreakMinInterval *int                        `json:"break_min_interval,omitempty" validate:"omitempty,min=1"`
	BreakMaxInterval *int                        `json:"break_max_interval,omitempty" validate:"omitempty,min=1"`
	StandardHours    *float64                    `json:"standard_hours,omitempty" validate:"omitempty,gt=0"`
}

// AttendanceService converts uploaded punch exports into attendance
// results. It is safe for concurrent use; every Process call builds its
// own pipeline from the merged options.
type AttendanceService struct {
	config *config.Config
	logger *slog.Logger
	loader *loader.Loader
	tracer *operations.PipelineTracer
}

// NewAttendanceService creates an attendance service without tracing.
func NewAttendanceService(cfg *config.Config, logger *slog.Logger) *AttendanceService {
	return NewAttendanceServiceWithTracer(cfg, logger, nil)
}

// NewAttendanceServiceWithTracer creates an attendance service whose
// pipeline runs report through the given tracer. A nil tracer disables
// run telemetry.
func NewAttendanceServiceWithTracer(cfg *config.Config, logger *slog.Logger, tracer *operations.PipelineTracer) *AttendanceService {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With(slog.String("component", "attendance_service"))

	logger.Info("attendance service initialized",
		slog.Int("break_min_interval", cfg.Processing.BreakMinInterval),
		slog.Int("break_max_interval", cfg.Processing.BreakMaxInterval),
		slog.Float64("standard_hours", cfg.Processing.StandardHours))

	return &AttendanceService{
		config: cfg,
		logger: logger,
		loader: loader.New(logger),
		tracer: tracer,
	}
}

// Process decodes the uploaded files, merges the option overrides over
// the configured defaults, and runs the pipeline. It returns the run
// result, the names of files that could not be decoded, and the fatal
// error if the run produced nothing.
func (s *AttendanceService) Process(ctx context.Context, files []loader.File, opts ProcessOptions) (*operations.RunResult, []string, error) {
	if len(files) == 0 {
		return nil, nil, ErrNoFiles
	}

	processing, err := s.effectiveProcessing(opts)
	if err != nil {
		return nil, nil, err
	}

	table, failed, err := s.loader.Load(ctx, files)
	if err != nil {
		return nil, failed, err
	}

	pipeline := operations.NewPipeline(
		s.logger,
		s.tracer,
		dataprocessing.NewAggregator(
			s.logger,
			processing.EmployeeConfig(),
			dataprocessing.NewBreakEstimator(processing.BreakMinInterval, processing.BreakMaxInterval),
			processing.StandardHours,
		),
		dataprocessing.NewSummarizer(s.logger, dataprocessing.DefaultSummarizerConfig()),
	)

	result, err := pipeline.Run(ctx, table)
	if err != nil {
		return nil, failed, err
	}

	s.logger.InfoContext(ctx, "processing completed",
		slog.String("run_id", result.RunID),
		slog.Int("files", len(files)),
		slog.Int("failed_files", len(failed)),
		slog.Int("records", len(result.Table.Records)))

	return result, failed, nil
}

// effectiveProcessing merges the request overrides over the configured
// processing defaults. Employee overrides replace existing entries by
// ID and add new ones; configured employees the request does not name
// are kept.
func (s *AttendanceService) effectiveProcessing(opts ProcessOptions) (config.ProcessingConfig, error) {
	p := s.config.Processing

	if opts.DefaultStart != nil {
		p.DefaultStartHour = opts.DefaultStart.Hour
		p.DefaultStartMinute = opts.DefaultStart.Minute
	}
	if opts.BreakMinInterval != nil {
		p.BreakMinInterval = *opts.BreakMinInterval
	}
	if opts.BreakMaxInterval != nil {
		p.BreakMaxInterval = *opts.BreakMaxInterval
	}
	if opts.StandardHours != nil {
		p.StandardHours = *opts.StandardHours
	}
	if len(opts.Employees) > 0 {
		merged := make(map[string]domain.StartTime, len(p.Employees)+len(opts.Employees))
		for id, st := range p.Employees {
			merged[id] = st
		}
		for id, st := range opts.Employees {
			merged[id] = st
		}
		p.Employees = merged
	}

	if p.BreakMinInterval < 1 {
		return config.ProcessingConfig{}, fmt.Errorf("%w: break min interval %d", ErrInvalidOptions, p.BreakMinInterval)
	}
	if p.BreakMaxInterval < p.BreakMinInterval {
		return config.ProcessingConfig{}, fmt.Errorf("%w: break max interval %d below min %d",
			ErrInvalidOptions, p.BreakMaxInterval, p.BreakMinInterval)
	}
	if p.StandardHours <= 0 {
		return config.ProcessingConfig{}, fmt.Errorf("%w: standard hours %v", ErrInvalidOptions, p.StandardHours)
	}
	for id, st := range p.Employees {
		if st.Hour < 0 || st.Hour > 23 || st.Minute < 0 || st.Minute > 59 {
			return config.ProcessingConfig{}, fmt.Errorf("%w: start time %02d:%02d for employee %s",
				ErrInvalidOptions, st.Hour, st.Minute, id)
		}
	}
	if opts.DefaultStart != nil {
		st := *opts.DefaultStart
		if st.Hour < 0 || st.Hour > 23 || st.Minute < 0 || st.Minute > 59 {
			return config.ProcessingConfig{}, fmt.Errorf("%w: default start time %02d:%02d",
				ErrInvalidOptions, st.Hour, st.Minute)
		}
	}

	return p, nil
}
