package dataprocessing

import (
	"log/slog"

	"attendcli/pkg/contracts/domain"
)

// SummarizerConfig controls summary generation.
type SummarizerConfig struct {
	DateFormat string
}

// DefaultSummarizerConfig returns the standard configuration.
func DefaultSummarizerConfig() SummarizerConfig {
	return SummarizerConfig{DateFormat: "2006/01/02"}
}

// Summarizer derives aggregate statistics from a finished result table:
// per-employee and per-date totals plus run-level counts.
type Summarizer struct {
	logger     *slog.Logger
	dateFormat string
}

// NewSummarizer creates a summarizer with the given configuration.
func NewSummarizer(logger *slog.Logger, cfg SummarizerConfig) *Summarizer {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.DateFormat == "" {
		cfg.DateFormat = "2006/01/02"
	}
	return &Summarizer{
		logger:     logger.With(slog.String("component", "summarizer")),
		dateFormat: cfg.DateFormat,
	}
}

// Summarize computes the aggregate statistics for a result table. Hour
// totals are rounded to two decimals at this presentation boundary.
func (s *Summarizer) Summarize(table *domain.ResultTable) domain.AttendanceSummary {
	summary := domain.AttendanceSummary{
		TotalRecords: len(table.Records),
		ByEmployee:   make(map[string]domain.EmployeeTotals),
		ByDate:       make(map[string]domain.DateTotals),
	}

	for _, rec := range table.Records {
		summary.TotalHours += rec.ActualHours
		summary.TotalOvertime += rec.OvertimeHours

		emp := summary.ByEmployee[rec.EmployeeID]
		emp.Name = rec.Name
		emp.ActualHours += rec.ActualHours
		emp.OvertimeHours += rec.OvertimeHours
		emp.WorkDays++
		summary.ByEmployee[rec.EmployeeID] = emp

		dateKey := rec.Date.Format(s.dateFormat)
		day := summary.ByDate[dateKey]
		day.ActualHours += rec.ActualHours
		day.OvertimeHours += rec.OvertimeHours
		day.Headcount++
		summary.ByDate[dateKey] = day
	}

	summary.EmployeeCount = len(summary.ByEmployee)
	summary.WorkDayCount = len(summary.ByDate)
	summary.TotalHours = Round2(summary.TotalHours)
	summary.TotalOvertime = Round2(summary.TotalOvertime)

	for id, emp := range summary.ByEmployee {
		emp.ActualHours = Round2(emp.ActualHours)
		emp.OvertimeHours = Round2(emp.OvertimeHours)
		summary.ByEmployee[id] = emp
	}
	for key, day := range summary.ByDate {
		day.ActualHours = Round2(day.ActualHours)
		day.OvertimeHours = Round2(day.OvertimeHours)
		summary.ByDate[key] = day
	}

	s.logger.Debug("summary generated",
		slog.Int("records", summary.TotalRecords),
		slog.Int("employees", summary.EmployeeCount),
		slog.Int("work_days", summary.WorkDayCount))

	return summary
}
