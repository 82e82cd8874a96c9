package dataprocessing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"attendcli/pkg/contracts/domain"
)

func TestBuildRawPunches(t *testing.T) {
	mapping := ColumnMapping{
		FieldName:       0,
		FieldEmployeeID: 1,
		FieldDateTime:   2,
		FieldPunchType:  3,
	}
	rows := [][]string{
		{"王小明", "001", "2024-01-15 08:30", "簽到"},
		{"王小明", "001", "2024-01-15 17:30", "簽退"},
		{"short row"},
	}

	punches := BuildRawPunches(mapping, rows)
	require.Len(t, punches, 3)

	assert.Equal(t, "王小明", punches[0].Name)
	assert.Equal(t, "001", punches[0].EmployeeID)
	assert.Equal(t, "2024-01-15 08:30", punches[0].DateTimeRaw)
	assert.Equal(t, "簽到", punches[0].PunchType)
	assert.Equal(t, 0, punches[0].RowIndex)
	assert.Equal(t, 1, punches[1].RowIndex)

	// short rows yield empty cells for missing positions
	assert.Equal(t, "short row", punches[2].Name)
	assert.Empty(t, punches[2].DateTimeRaw)
}

func TestBuildRawPunchesPermutedMapping(t *testing.T) {
	mapping := ColumnMapping{
		FieldName:       3,
		FieldEmployeeID: 2,
		FieldDateTime:   1,
		FieldPunchType:  0,
	}
	rows := [][]string{
		{"簽到", "2024-01-15 08:30", "001", "王小明"},
	}

	punches := BuildRawPunches(mapping, rows)
	require.Len(t, punches, 1)
	assert.Equal(t, "王小明", punches[0].Name)
	assert.Equal(t, "2024-01-15 08:30", punches[0].DateTimeRaw)
}

func TestParsePunchesDropsUnparseable(t *testing.T) {
	raws := []domain.RawPunch{
		{Name: "王小明", EmployeeID: "001", DateTimeRaw: "2024-01-15 08:30", RowIndex: 0},
		{Name: "王小明", EmployeeID: "001", DateTimeRaw: "not a time", RowIndex: 1},
		{Name: "王小明", EmployeeID: "001", DateTimeRaw: "", RowIndex: 2},
		{Name: "王小明", EmployeeID: "001", DateTimeRaw: "2024-01-15 17:30", RowIndex: 3},
	}

	normalized, dropped := ParsePunches(testLogger(), raws)

	assert.Len(t, normalized, 2)
	assert.Equal(t, 2, dropped)
	assert.Equal(t, 0, normalized[0].Source.RowIndex)
	assert.Equal(t, 3, normalized[1].Source.RowIndex)
}

func TestParsePunchesKeepsSourceRow(t *testing.T) {
	raws := []domain.RawPunch{
		{Name: "王小明", EmployeeID: "001", DateTimeRaw: "2024-01-15 08:30", PunchType: "簽到", RowIndex: 7},
	}

	normalized, dropped := ParsePunches(testLogger(), raws)
	require.Len(t, normalized, 1)
	assert.Zero(t, dropped)
	assert.Equal(t, raws[0], normalized[0].Source)
	assert.Equal(t, "001", normalized[0].EmployeeID)
}
