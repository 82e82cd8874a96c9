package exporter

import (
	"fmt"
	"time"

	"attendcli/internal/config"
	"attendcli/pkg/contracts/domain"
)

// Headers returns the fixed output column sequence.
func Headers() []string {
	return config.OutputColumns
}

// RecordRow renders one daily record into the fixed 11-column layout.
func RecordRow(r domain.DailyRecord) []string {
	return []string{
		r.Date.Format(config.OutputDateFormat),
		r.Name,
		r.EmployeeID,
		formatTime(r.CheckIn),
		formatTime(r.CheckOut),
		formatOptionalTime(r.BreakStart),
		formatOptionalTime(r.BreakEnd),
		formatInt(r.BreakMinutes),
		formatFloat(r.ActualHours),
		formatFloat(r.OvertimeHours),
		r.Remarks,
	}
}

// TableRows renders every record of a result table in order.
func TableRows(table *domain.ResultTable) [][]string {
	rows := make([][]string, 0, len(table.Records))
	for _, r := range table.Records {
		rows = append(rows, RecordRow(r))
	}
	return rows
}

// formatFloat formats hours with exactly 2 decimal places, so 8.5
// appears as 8.50 in the output.
func formatFloat(f float64) string {
	return fmt.Sprintf("%.2f", f)
}

// formatInt formats a minute count for output
func formatInt(i int) string {
	return fmt.Sprintf("%d", i)
}

// formatTime renders an instant as HH:MM; the zero value renders empty
func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(config.OutputTimeFormat)
}

// formatOptionalTime renders an undeclared break boundary as an empty cell
func formatOptionalTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(config.OutputTimeFormat)
}
