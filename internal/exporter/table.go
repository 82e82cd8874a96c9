package exporter

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"attendcli/internal/config"
	"attendcli/pkg/contracts/domain"
)

// TableExporter renders the attendance result table to its delivery
// formats.
type TableExporter struct {
	logger    *slog.Logger
	csvWriter *CSVWriter
}

// NewTableExporter creates a table exporter writing under the given paths
func NewTableExporter(logger *slog.Logger, paths *config.Paths) *TableExporter {
	return &TableExporter{
		logger:    logger.With(slog.String("component", "exporter")),
		csvWriter: NewCSVWriter(paths),
	}
}

// ExportCSV writes the table as a BOM-prefixed CSV file
func (e *TableExporter) ExportCSV(filePath string, table *domain.ResultTable) error {
	if err := e.csvWriter.WriteSimpleCSV(filePath, Headers(), TableRows(table)); err != nil {
		return fmt.Errorf("failed to export csv: %w", err)
	}

	e.logger.Info("attendance table exported",
		slog.String("format", "csv"),
		slog.String("path", filePath),
		slog.Int("records", len(table.Records)))
	return nil
}

// ExportExcel writes the table as an xlsx workbook file
func (e *TableExporter) ExportExcel(filePath string, table *domain.ResultTable) error {
	if dir := filepath.Dir(filePath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	file, err := os.Create(filePath)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	if err := RenderExcel(file, table); err != nil {
		return err
	}

	e.logger.Info("attendance table exported",
		slog.String("format", "xlsx"),
		slog.String("path", filePath),
		slog.Int("records", len(table.Records)))
	return nil
}

// RenderCSV streams the table as CSV to an arbitrary writer
func (e *TableExporter) RenderCSV(w io.Writer, table *domain.ResultTable) error {
	return RenderCSV(w, Headers(), TableRows(table), true)
}
