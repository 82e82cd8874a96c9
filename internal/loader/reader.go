package loader

import (
	"context"
	"encoding/csv"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	apperrors "attendcli/internal/errors"
	"attendcli/pkg/contracts/domain"
)

// File is one uploaded punch export, still undecoded.
type File struct {
	Name string
	Data []byte
}

// Loader decodes uploaded punch exports and merges them into one logical
// table for the pipeline.
type Loader struct {
	logger *slog.Logger
}

// New creates a loader.
func New(logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{logger: logger.With(slog.String("component", "loader"))}
}

// Load decodes every file concurrently and merges them into a single
// table. The header of the first decodable file wins; identical header
// rows in later files are recognized and skipped. Undecodable files are
// reported by name and skipped; only a run with zero decodable files
// fails.
func (l *Loader) Load(ctx context.Context, files []File) (domain.PunchTable, []string, error) {
	if len(files) == 0 {
		return domain.PunchTable{}, nil, fmt.Errorf("load: %w", &apperrors.DecodeError{Filename: "(no files)"})
	}

	type decoded struct {
		content string
		charset string
		err     error
	}

	// Per-file decoding is independent; results land in input order so
	// the merge stays deterministic.
	results := make([]decoded, len(files))
	g, _ := errgroup.WithContext(ctx)
	for i, f := range files {
		g.Go(func() error {
			content, charset, err := Decode(f.Name, f.Data)
			results[i] = decoded{content: content, charset: charset, err: err}
			return nil
		})
	}
	_ = g.Wait() // goroutines record per-file errors in results

	var table domain.PunchTable
	var failed []string
	haveHeader := false

	for i, f := range files {
		res := results[i]
		if res.err != nil {
			l.logger.Warn("file skipped, unsupported encoding", slog.String("file", f.Name))
			failed = append(failed, f.Name)
			continue
		}

		l.logger.Info("file decoded",
			slog.String("file", f.Name),
			slog.String("charset", res.charset),
			slog.Int("bytes", len(f.Data)))

		headers, rows, err := parseCSV(res.content)
		if err != nil {
			l.logger.Warn("file skipped, malformed CSV",
				slog.String("file", f.Name),
				slog.String("error", err.Error()))
			failed = append(failed, f.Name)
			continue
		}

		if !haveHeader {
			table.Headers = headers
			haveHeader = true
		} else if !sameHeaders(table.Headers, headers) {
			// Different header layout: treat the row as data so the
			// pipeline's row-local handling decides its fate.
			table.Rows = append(table.Rows, headers)
		}
		table.Rows = append(table.Rows, rows...)
	}

	if !haveHeader {
		return domain.PunchTable{}, failed, fmt.Errorf("load: %w", &apperrors.DecodeError{Filename: strings.Join(failed, ", ")})
	}

	return table, failed, nil
}

// parseCSV splits decoded content into a header row and data rows.
func parseCSV(content string) ([]string, [][]string, error) {
	reader := csv.NewReader(strings.NewReader(normalizeNewlines(content)))
	reader.FieldsPerRecord = -1 // exports pad rows inconsistently
	reader.LazyQuotes = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("parse csv: %w", err)
	}

	// Drop fully blank lines.
	cleaned := records[:0]
	for _, rec := range records {
		if isBlankRow(rec) {
			continue
		}
		cleaned = append(cleaned, rec)
	}

	if len(cleaned) == 0 {
		return nil, nil, fmt.Errorf("parse csv: empty file")
	}
	return cleaned[0], cleaned[1:], nil
}

func isBlankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

func sameHeaders(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if strings.TrimSpace(a[i]) != strings.TrimSpace(b[i]) {
			return false
		}
	}
	return true
}
