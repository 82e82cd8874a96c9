package dataprocessing

import (
	"log/slog"

	"attendcli/pkg/contracts/domain"
)

// BuildRawPunches applies a resolved column mapping to the data rows,
// producing one RawPunch per row. Rows too short to cover the resolved
// positions contribute empty cells; the datetime parser rejects those
// punches later.
func BuildRawPunches(mapping ColumnMapping, rows [][]string) []domain.RawPunch {
	punches := make([]domain.RawPunch, 0, len(rows))
	for i, row := range rows {
		punches = append(punches, domain.RawPunch{
			Name:        cell(row, mapping[FieldName]),
			EmployeeID:  cell(row, mapping[FieldEmployeeID]),
			DateTimeRaw: cell(row, mapping[FieldDateTime]),
			PunchType:   cell(row, mapping[FieldPunchType]),
			RowIndex:    i,
		})
	}
	return punches
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}

// ParsePunches normalizes raw punches through the timestamp parser.
// Unparseable punches are dropped here and never promoted; the returned
// count is their only trace.
func ParsePunches(logger *slog.Logger, raws []domain.RawPunch) ([]domain.NormalizedPunch, int) {
	if logger == nil {
		logger = slog.Default()
	}

	normalized := make([]domain.NormalizedPunch, 0, len(raws))
	dropped := 0
	for _, raw := range raws {
		instant, err := ParseDateTime(raw.DateTimeRaw)
		if err != nil {
			dropped++
			logger.Debug("punch dropped",
				slog.Int("row", raw.RowIndex),
				slog.String("datetime_raw", raw.DateTimeRaw),
				slog.String("error", err.Error()))
			continue
		}
		normalized = append(normalized, domain.NormalizedPunch{
			EmployeeID: raw.EmployeeID,
			Instant:    instant,
			Source:     raw,
		})
	}
	return normalized, dropped
}
