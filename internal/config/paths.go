package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Paths contains all the application paths.
// This is the single source of truth for file locations in the application.
type Paths struct {
	ExecutableDir string
	DataDir       string
	UploadsDir    string
	ReportsDir    string
	LogsDir       string
}

// GetPaths returns the application paths relative to the executable location.
// All paths are relative to the executable directory, never the current
// working directory, so the binary behaves the same wherever it is launched.
func GetPaths() (*Paths, error) {
	exe, err := os.Executable()
	if err != nil {
		return nil, fmt.Errorf("failed to get executable path: %w", err)
	}

	exe, err = filepath.EvalSymlinks(exe)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve executable symlinks: %w", err)
	}

	return PathsRelativeTo(filepath.Dir(exe)), nil
}

// PathsRelativeTo builds the path set rooted at the given directory.
func PathsRelativeTo(root string) *Paths {
	dataDir := filepath.Join(root, DefaultDataDir)
	return &Paths{
		ExecutableDir: root,
		DataDir:       dataDir,
		UploadsDir:    filepath.Join(dataDir, "uploads"),
		ReportsDir:    filepath.Join(dataDir, "reports"),
		LogsDir:       filepath.Join(root, DefaultLogsDir),
	}
}

// EnsureDirectories creates all required directories if they don't exist
func (p *Paths) EnsureDirectories() error {
	dirs := []string{p.DataDir, p.UploadsDir, p.ReportsDir, p.LogsDir}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}

// GetReportPath returns the path for a generated report file
func (p *Paths) GetReportPath(filename string) string {
	return filepath.Join(p.ReportsDir, filename)
}

// GetLogPath returns the path for a log file
func (p *Paths) GetLogPath(filename string) string {
	return filepath.Join(p.LogsDir, filename)
}

// AttendanceCSVPath returns the timestamped CSV output path for a run
func (p *Paths) AttendanceCSVPath(ts time.Time) string {
	return p.GetReportPath(fmt.Sprintf("attendance_%s.csv", ts.Format("20060102_150405")))
}

// AttendanceExcelPath returns the timestamped Excel output path for a run
func (p *Paths) AttendanceExcelPath(ts time.Time) string {
	return p.GetReportPath(fmt.Sprintf("attendance_%s.xlsx", ts.Format("20060102_150405")))
}

// FileExists checks if a file exists
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
