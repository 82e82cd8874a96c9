// Command processor converts time-clock punch exports into daily
// attendance tables from the command line. It accepts one or more CSV
// exports, runs the attendance pipeline, and writes CSV and Excel
// reports.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"attendcli/internal/config"
	"attendcli/internal/exporter"
	"attendcli/internal/infrastructure"
	"attendcli/internal/loader"
	"attendcli/internal/services"
)

func main() {
	inPath := flag.String("in", "", "input CSV file(s), comma separated, or a directory of .csv exports")
	outDir := flag.String("out", "", "output directory for the generated reports (defaults to data/reports relative to executable)")
	configFile := flag.String("config", "", "configuration file (defaults to "+config.DefaultConfigFile+")")
	format := flag.String("format", "both", "output format: csv, xlsx or both")
	flag.Parse()

	if *inPath == "" {
		fmt.Fprintln(os.Stderr, "usage: processor -in <file[,file...]|dir> [-out dir] [-config file] [-format csv|xlsx|both]")
		os.Exit(2)
	}

	switch *format {
	case "csv", "xlsx", "both":
	default:
		slog.Error("Unsupported output format", "format", *format)
		os.Exit(2)
	}

	paths, err := config.GetPaths()
	if err != nil {
		slog.Error("Failed to initialize paths", "error", err)
		os.Exit(1)
	}
	if err := paths.EnsureDirectories(); err != nil {
		slog.Error("Failed to create required directories", "error", err)
		os.Exit(1)
	}

	cfg, err := config.LoadFrom(resolveConfigFile(*configFile))
	if err != nil {
		slog.Warn("Failed to load config, using defaults", "error", err)
		def := config.Default()
		cfg = &def
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Warn("Failed to initialize logger, using default", "error", err)
		logger = slog.Default()
	}
	defer infrastructure.CloseLogFile()

	files, err := collectInputFiles(*inPath)
	if err != nil {
		logger.Error("Failed to read input files", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("Starting attendance processing",
		slog.String("input", *inPath),
		slog.Int("files", len(files)),
		slog.String("format", *format))

	service := services.NewAttendanceService(cfg, logger)

	ctx := context.Background()
	result, failed, err := service.Process(ctx, files, services.ProcessOptions{})
	if err != nil {
		logger.Error("Processing failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
	for _, name := range failed {
		logger.Warn("File skipped", slog.String("file", name))
	}

	tableExporter := exporter.NewTableExporter(logger, paths)
	now := time.Now()

	csvPath := paths.AttendanceCSVPath(now)
	excelPath := paths.AttendanceExcelPath(now)
	if *outDir != "" {
		if err := os.MkdirAll(*outDir, 0755); err != nil {
			logger.Error("Failed to create output directory", slog.String("error", err.Error()))
			os.Exit(1)
		}
		csvPath = filepath.Join(*outDir, filepath.Base(csvPath))
		excelPath = filepath.Join(*outDir, filepath.Base(excelPath))
	}

	if *format == "csv" || *format == "both" {
		if err := tableExporter.ExportCSV(csvPath, &result.Table); err != nil {
			logger.Error("CSV export failed", slog.String("error", err.Error()))
			os.Exit(1)
		}
		fmt.Println("CSV report:", csvPath)
	}
	if *format == "xlsx" || *format == "both" {
		if err := tableExporter.ExportExcel(excelPath, &result.Table); err != nil {
			logger.Error("Excel export failed", slog.String("error", err.Error()))
			os.Exit(1)
		}
		fmt.Println("Excel report:", excelPath)
	}

	summary := result.Summary
	logger.Info("Processing complete",
		slog.String("run_id", result.RunID),
		slog.Int("records", summary.TotalRecords),
		slog.Int("employees", summary.EmployeeCount),
		slog.Int("work_days", summary.WorkDayCount),
		slog.Float64("total_hours", summary.TotalHours),
		slog.Float64("total_overtime", summary.TotalOvertime))
	fmt.Printf("Processed %d record(s) for %d employee(s) across %d day(s)\n",
		summary.TotalRecords, summary.EmployeeCount, summary.WorkDayCount)
}

// resolveConfigFile honors an explicit -config flag, falling back to
// the ATTEND_CONFIG_FILE environment variable and then the default.
func resolveConfigFile(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if env := os.Getenv("ATTEND_CONFIG_FILE"); env != "" {
		return env
	}
	return config.DefaultConfigFile
}

// collectInputFiles reads the -in argument into loader files. A
// directory argument expands to its .csv entries in name order.
func collectInputFiles(in string) ([]loader.File, error) {
	var names []string

	if info, err := os.Stat(in); err == nil && info.IsDir() {
		entries, err := os.ReadDir(in)
		if err != nil {
			return nil, fmt.Errorf("read directory %s: %w", in, err)
		}
		for _, entry := range entries {
			if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".csv") {
				continue
			}
			names = append(names, filepath.Join(in, entry.Name()))
		}
		sort.Strings(names)
		if len(names) == 0 {
			return nil, fmt.Errorf("no .csv files in %s", in)
		}
	} else {
		for _, name := range strings.Split(in, ",") {
			name = strings.TrimSpace(name)
			if name != "" {
				names = append(names, name)
			}
		}
	}

	files := make([]loader.File, 0, len(names))
	for _, name := range names {
		data, err := os.ReadFile(name)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", name, err)
		}
		files = append(files, loader.File{Name: filepath.Base(name), Data: data})
	}
	return files, nil
}
