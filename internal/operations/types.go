package operations

import (
	"attendcli/pkg/contracts/domain"
)

// Pipeline stage identifiers
const (
	StageIDResolveColumns = "resolve_columns"
	StageIDParsePunches   = "parse_punches"
	StageIDGroup          = "group"
	StageIDAggregate      = "aggregate"
	StageIDSort           = "sort"
)

// Pipeline stage names
const (
	StageNameResolveColumns = "Column Resolution"
	StageNameParsePunches   = "Punch Parsing"
	StageNameGroup          = "Employee-Day Grouping"
	StageNameAggregate      = "Record Aggregation"
	StageNameSort           = "Output Sorting"
)

// StageIDs lists the stages in execution order.
var StageIDs = []string{
	StageIDResolveColumns,
	StageIDParsePunches,
	StageIDGroup,
	StageIDAggregate,
	StageIDSort,
}

// RunResult is the outcome of a successful pipeline run.
type RunResult struct {
	RunID   string                   `json:"run_id"`
	Table   domain.ResultTable       `json:"table"`
	Summary domain.AttendanceSummary `json:"summary"`
	State   *RunState                `json:"-"`
}

// RunCounters tracks row-level throughput of one run.
type RunCounters struct {
	InputRows      int `json:"input_rows"`
	PunchesParsed  int `json:"punches_parsed"`
	PunchesDropped int `json:"punches_dropped"`
	Groups         int `json:"groups"`
	Records        int `json:"records"`
}
