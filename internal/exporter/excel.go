package exporter

import (
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"

	"attendcli/internal/config"
	"attendcli/pkg/contracts/domain"
)

const maxColumnWidth = 50

// BuildWorkbook renders the result table into a single-sheet workbook.
// Column widths track the widest cell so the Chinese headers stay
// readable when the file is opened directly.
func BuildWorkbook(table *domain.ResultTable) (*excelize.File, error) {
	f := excelize.NewFile()

	sheet := config.ExcelSheetName
	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}

	headers := Headers()
	widths := make([]int, len(headers))

	writeRow := func(rowIdx int, cells []string) error {
		for col, value := range cells {
			cellName, err := excelize.CoordinatesToCellName(col+1, rowIdx)
			if err != nil {
				return fmt.Errorf("failed to build cell name: %w", err)
			}
			if err := f.SetCellValue(sheet, cellName, value); err != nil {
				return fmt.Errorf("failed to set cell %s: %w", cellName, err)
			}
			if n := utf8.RuneCountInString(value); col < len(widths) && n > widths[col] {
				widths[col] = n
			}
		}
		return nil
	}

	if err := writeRow(1, headers); err != nil {
		return nil, err
	}
	for i, record := range table.Records {
		if err := writeRow(i+2, RecordRow(record)); err != nil {
			return nil, err
		}
	}

	for col := range headers {
		name, err := excelize.ColumnNumberToName(col + 1)
		if err != nil {
			return nil, fmt.Errorf("failed to build column name: %w", err)
		}
		width := widths[col] + 2
		if width > maxColumnWidth {
			width = maxColumnWidth
		}
		if err := f.SetColWidth(sheet, name, name, float64(width)); err != nil {
			return nil, fmt.Errorf("failed to set column width: %w", err)
		}
	}

	return f, nil
}

// RenderExcel writes the table as an xlsx workbook to the given writer
func RenderExcel(w io.Writer, table *domain.ResultTable) error {
	f, err := BuildWorkbook(table)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}
