package services

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"attendcli/internal/config"
	apperrors "attendcli/internal/errors"
	"attendcli/internal/loader"
	"attendcli/pkg/contracts/domain"
)

func newTestService(t *testing.T) *AttendanceService {
	t.Helper()
	cfg := config.Default()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewAttendanceService(&cfg, logger)
}

func punchCSV(rows ...string) []byte {
	lines := append([]string{"姓名,考勤號碼,日期時間,簽到狀態"}, rows...)
	return []byte(strings.Join(lines, "\n") + "\n")
}

func TestProcessSingleFile(t *testing.T) {
	svc := newTestService(t)

	files := []loader.File{{
		Name: "export.csv",
		Data: punchCSV(
			"王小明,A001,2024/1/15 08:55,上班",
			"王小明,A001,2024/1/15 12:00,下班",
			"王小明,A001,2024/1/15 13:00,上班",
			"王小明,A001,2024/1/15 18:04,下班",
		),
	}}

	result, failed, err := svc.Process(context.Background(), files, ProcessOptions{})
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Empty(t, failed)

	require.Len(t, result.Table.Records, 1)
	record := result.Table.Records[0]
	assert.Equal(t, "王小明", record.Name)
	assert.Equal(t, "08:00", record.CheckIn.Format("15:04"))
	assert.Equal(t, 60, record.BreakMinutes)
}

func TestProcessMergesMultipleFiles(t *testing.T) {
	svc := newTestService(t)

	files := []loader.File{
		{
			Name: "day1.csv",
			Data: punchCSV(
				"王小明,A001,2024/1/15 09:00,上班",
				"王小明,A001,2024/1/15 18:00,下班",
			),
		},
		{
			Name: "day2.csv",
			Data: punchCSV(
				"王小明,A001,2024/1/16 09:00,上班",
				"王小明,A001,2024/1/16 18:00,下班",
			),
		},
	}

	result, failed, err := svc.Process(context.Background(), files, ProcessOptions{})
	require.NoError(t, err)
	assert.Empty(t, failed)
	assert.Len(t, result.Table.Records, 2)
	assert.Equal(t, 2, result.Summary.WorkDayCount)
}

func TestProcessReportsUndecodableFiles(t *testing.T) {
	svc := newTestService(t)

	files := []loader.File{
		{
			Name: "good.csv",
			Data: punchCSV(
				"王小明,A001,2024/1/15 09:00,上班",
				"王小明,A001,2024/1/15 18:00,下班",
			),
		},
		{
			// Decodes but yields no CSV content at all.
			Name: "bad.csv",
			Data: []byte("\n\n\n"),
		},
	}

	result, failed, err := svc.Process(context.Background(), files, ProcessOptions{})
	require.NoError(t, err)
	assert.Equal(t, []string{"bad.csv"}, failed)
	assert.Len(t, result.Table.Records, 1)
}

func TestProcessNoFiles(t *testing.T) {
	svc := newTestService(t)

	_, _, err := svc.Process(context.Background(), nil, ProcessOptions{})
	assert.ErrorIs(t, err, ErrNoFiles)
}

func TestProcessMissingColumn(t *testing.T) {
	svc := newTestService(t)

	files := []loader.File{{
		Name: "export.csv",
		Data: []byte("姓名,考勤號碼,簽到狀態\n王小明,A001,上班\n"),
	}}

	_, _, err := svc.Process(context.Background(), files, ProcessOptions{})
	var mc *apperrors.MissingColumnError
	require.ErrorAs(t, err, &mc)
	assert.Equal(t, "datetime", mc.Field)
}

func TestProcessOptionOverrides(t *testing.T) {
	svc := newTestService(t)

	// A 09:30 default start pushes the rounded check-in to the
	// configured start rather than 08:00.
	files := []loader.File{{
		Name: "export.csv",
		Data: punchCSV(
			"王小明,A001,2024/1/15 09:25,上班",
			"王小明,A001,2024/1/15 18:00,下班",
		),
	}}

	hours := 9.0
	result, _, err := svc.Process(context.Background(), files, ProcessOptions{
		DefaultStart:  &domain.StartTime{Hour: 9, Minute: 30},
		StandardHours: &hours,
	})
	require.NoError(t, err)
	require.Len(t, result.Table.Records, 1)
	assert.Equal(t, "09:30", result.Table.Records[0].CheckIn.Format("15:04"))
}

func TestProcessEmployeeOverrideMerge(t *testing.T) {
	cfg := config.Default()
	cfg.Processing.Employees = map[string]domain.StartTime{
		"A001": {Hour: 7, Minute: 0},
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := NewAttendanceService(&cfg, logger)

	p, err := svc.effectiveProcessing(ProcessOptions{
		Employees: map[string]domain.StartTime{
			"A002": {Hour: 10, Minute: 0},
		},
	})
	require.NoError(t, err)

	// Configured entry survives, request entry is added.
	assert.Equal(t, domain.StartTime{Hour: 7, Minute: 0}, p.Employees["A001"])
	assert.Equal(t, domain.StartTime{Hour: 10, Minute: 0}, p.Employees["A002"])
}

func TestProcessInvalidOptions(t *testing.T) {
	svc := newTestService(t)

	files := []loader.File{{Name: "export.csv", Data: punchCSV("王小明,A001,2024/1/15 09:00,上班")}}

	min := 90
	max := 30
	_, _, err := svc.Process(context.Background(), files, ProcessOptions{
		BreakMinInterval: &min,
		BreakMaxInterval: &max,
	})
	assert.ErrorIs(t, err, ErrInvalidOptions)

	bad := -1.0
	_, _, err = svc.Process(context.Background(), files, ProcessOptions{StandardHours: &bad})
	assert.ErrorIs(t, err, ErrInvalidOptions)
}
