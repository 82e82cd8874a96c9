package dataprocessing

import (
	"log/slog"
	"sort"
	"strings"
	"time"

	"attendcli/pkg/contracts/domain"
)

// Remark texts for degenerate employee-days.
const (
	RemarkSinglePunch   = "打卡記錄不足，無法計算工時"
	RemarkNegativeHours = "休息推估超過實際在勤區間"
)

// Aggregator groups normalized punches into one DailyRecord per
// (employee, calendar date) and derives every field of the record.
type Aggregator struct {
	logger        *slog.Logger
	employees     domain.EmployeeConfig
	breaks        *BreakEstimator
	standardHours float64
}

// NewAggregator creates an aggregator with the given policy inputs. The
// EmployeeConfig is read-only for the duration of a run.
func NewAggregator(logger *slog.Logger, employees domain.EmployeeConfig, breaks *BreakEstimator, standardHours float64) *Aggregator {
	if logger == nil {
		logger = slog.Default()
	}
	if breaks == nil {
		breaks = DefaultBreakEstimator()
	}
	return &Aggregator{
		logger:        logger.With(slog.String("component", "aggregator")),
		employees:     employees,
		breaks:        breaks,
		standardHours: standardHours,
	}
}

// groupKey identifies one employee-day.
type groupKey struct {
	name       string
	employeeID string
	date       time.Time
}

// PunchGroup is the finalized punch set of one employee-day, ready for
// record derivation.
type PunchGroup struct {
	Name       string
	EmployeeID string
	Date       time.Time
	Punches    []domain.NormalizedPunch
}

// Group partitions normalized punches by (name, employee id) and calendar
// date. Punches whose raw text yields no extractable calendar date are
// excluded here; this only shrinks the output, it never fails the run.
// Groups come back in first-appearance order.
func (a *Aggregator) Group(punches []domain.NormalizedPunch) []PunchGroup {
	groups := make(map[groupKey][]domain.NormalizedPunch)
	var order []groupKey

	dateSkipped := 0
	for _, p := range punches {
		// Grouping keys off the raw text, independent of which layout
		// parsed the same string.
		date, err := ExtractDate(p.Source.DateTimeRaw)
		if err != nil {
			dateSkipped++
			continue
		}

		key := groupKey{
			name:       strings.TrimSpace(p.Source.Name),
			employeeID: strings.TrimSpace(p.Source.EmployeeID),
			date:       date,
		}
		if _, seen := groups[key]; !seen {
			order = append(order, key)
		}
		groups[key] = append(groups[key], p)
	}

	if dateSkipped > 0 {
		a.logger.Debug("punches excluded from grouping",
			slog.Int("count", dateSkipped),
			slog.String("reason", "no extractable calendar date"))
	}

	result := make([]PunchGroup, 0, len(order))
	for _, key := range order {
		result = append(result, PunchGroup{
			Name:       key.name,
			EmployeeID: key.employeeID,
			Date:       key.date,
			Punches:    groups[key],
		})
	}
	return result
}

// BuildRecords derives one DailyRecord per group.
func (a *Aggregator) BuildRecords(groups []PunchGroup) []domain.DailyRecord {
	records := make([]domain.DailyRecord, 0, len(groups))
	for _, g := range groups {
		records = append(records, a.buildRecord(g))
	}
	return records
}

// Aggregate is the combined group-then-derive convenience path.
func (a *Aggregator) Aggregate(punches []domain.NormalizedPunch) []domain.DailyRecord {
	return a.BuildRecords(a.Group(punches))
}

// buildRecord derives one DailyRecord from a finalized non-empty group.
// The record is all-or-nothing: once built it is never mutated.
func (a *Aggregator) buildRecord(g PunchGroup) domain.DailyRecord {
	// Sort ascending by instant before any derived field is computed.
	// Groups arrive in original row order, so the stable sort breaks
	// time ties by row position.
	group := g.Punches
	sort.SliceStable(group, func(i, j int) bool {
		return group[i].Instant.Before(group[j].Instant)
	})

	start := a.employees.StartTimeFor(g.EmployeeID)
	checkInRaw := group[0].Instant
	checkOut := group[len(group)-1].Instant

	record := domain.DailyRecord{
		Date:       g.Date,
		Name:       g.Name,
		EmployeeID: g.EmployeeID,
		CheckIn:    RoundCheckIn(checkInRaw, start),
		CheckOut:   checkOut,
	}

	if len(group) < 2 {
		record.Remarks = RemarkSinglePunch
		return record
	}

	if brk := a.breaks.Estimate(group, checkInRaw, checkOut); brk.Declared() {
		bs, be := brk.Start, brk.End
		record.BreakStart = &bs
		record.BreakEnd = &be
		record.BreakMinutes = brk.Minutes
	}

	record.ActualHours, record.OvertimeHours = ComputeHours(
		record.CheckIn, record.CheckOut, record.BreakMinutes, a.standardHours)

	if record.ActualHours < 0 {
		record.Remarks = RemarkNegativeHours
	}

	return record
}

// SortRecords orders records by date ascending, then name ascending. The
// sort is stable so equal keys keep their aggregation order.
func SortRecords(records []domain.DailyRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		if !records[i].Date.Equal(records[j].Date) {
			return records[i].Date.Before(records[j].Date)
		}
		return records[i].Name < records[j].Name
	})
}
