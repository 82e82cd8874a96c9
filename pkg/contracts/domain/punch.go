package domain

import (
	"time"
)

// RawPunch represents a single time-clock punch exactly as it appeared in
// the uploaded export, before any parsing.
type RawPunch struct {
	Name        string `json:"name" validate:"required"`
	EmployeeID  string `json:"employee_id" validate:"required"`
	DateTimeRaw string `json:"datetime_raw"`
	PunchType   string `json:"punch_type"` // "簽到" or "簽退" in most exports
	RowIndex    int    `json:"row_index"`  // original position in the merged table, drives stable ordering
}

// NormalizedPunch is a RawPunch whose timestamp parsed successfully.
// Punches that fail to parse are never promoted to this type.
type NormalizedPunch struct {
	EmployeeID string    `json:"employee_id"`
	Instant    time.Time `json:"instant"`
	Source     RawPunch  `json:"source"`
}

// StartTime is a configured start-of-day time for one employee.
type StartTime struct {
	Hour   int `json:"hour" yaml:"hour" validate:"min=0,max=23"`
	Minute int `json:"minute" yaml:"minute" validate:"min=0,max=59"`
}

// Minutes returns the start time as minutes after midnight.
func (s StartTime) Minutes() int {
	return s.Hour*60 + s.Minute
}

// EmployeeConfig maps employee IDs to their configured start-of-day time.
// IDs absent from Overrides fall back to Default.
type EmployeeConfig struct {
	Default   StartTime            `json:"default" yaml:"default"`
	Overrides map[string]StartTime `json:"overrides,omitempty" yaml:"overrides,omitempty"`
}

// DefaultEmployeeConfig returns the standard 08:00 configuration.
func DefaultEmployeeConfig() EmployeeConfig {
	return EmployeeConfig{Default: StartTime{Hour: 8, Minute: 0}}
}

// StartTimeFor looks up the configured start time for an employee ID,
// falling back to the default entry for unlisted employees.
func (c EmployeeConfig) StartTimeFor(employeeID string) StartTime {
	if st, ok := c.Overrides[employeeID]; ok {
		return st
	}
	return c.Default
}

// DailyRecord is the aggregation result for one (employee, calendar date)
// group. It is constructed once from a finalized punch group and never
// mutated afterward.
type DailyRecord struct {
	Date          time.Time  `json:"date"`
	Name          string     `json:"name"`
	EmployeeID    string     `json:"employee_id"`
	CheckIn       time.Time  `json:"check_in"`  // rounded per the check-in policy
	CheckOut      time.Time  `json:"check_out"` // literal last punch, never rounded
	BreakStart    *time.Time `json:"break_start,omitempty"`
	BreakEnd      *time.Time `json:"break_end,omitempty"`
	BreakMinutes  int        `json:"break_minutes" validate:"min=0"`
	ActualHours   float64    `json:"actual_hours"` // may go negative, see remarks
	OvertimeHours float64    `json:"overtime_hours" validate:"min=0"`
	Remarks       string     `json:"remarks,omitempty"`
}

// ResultTable is the ordered output of one pipeline run, sorted by
// (date ascending, name ascending).
type ResultTable struct {
	Records []DailyRecord `json:"records"`
}

// AttendanceSummary holds the aggregate statistics for one result table.
type AttendanceSummary struct {
	TotalRecords  int                       `json:"total_records"`
	EmployeeCount int                       `json:"employee_count"`
	WorkDayCount  int                       `json:"work_day_count"`
	TotalHours    float64                   `json:"total_hours"`
	TotalOvertime float64                   `json:"total_overtime"`
	ByEmployee    map[string]EmployeeTotals `json:"by_employee"`
	ByDate        map[string]DateTotals     `json:"by_date"`
}

// EmployeeTotals aggregates one employee's records across all dates.
type EmployeeTotals struct {
	Name          string  `json:"name"`
	ActualHours   float64 `json:"actual_hours"`
	OvertimeHours float64 `json:"overtime_hours"`
	WorkDays      int     `json:"work_days"`
}

// DateTotals aggregates one calendar date's records across all employees.
type DateTotals struct {
	ActualHours   float64 `json:"actual_hours"`
	OvertimeHours float64 `json:"overtime_hours"`
	Headcount     int     `json:"headcount"`
}
